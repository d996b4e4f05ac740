package gui

import (
	"fmt"
	"log/slog"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/metrics"
	"github.com/san-kum/rdsim/internal/sim"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColPanel   = rl.NewColor(0, 0, 0, 160)
)

const telemetryCapacity = 300

// tunable lists the parameters reachable with tab.
var tunable = []string{"feed", "kill", "diffusion_a", "diffusion_b", "time_step", "drop_radius", "smoothing"}

type App struct {
	Sim     *sim.Simulator
	Surface *TextureSurface
	Font    rl.Font
	Log     *slog.Logger

	InMenu   bool
	Presets  []string
	Selected int
	ParamSel int
	ShowHUD  bool

	// mean B per tick, for the telemetry strip
	Telemetry []float64
	meanB     metrics.Metric

	status string
	quit   bool
}

// initWindow opens a window the size of the simulator's display.
func initWindow(w, h int) {
	rl.InitWindow(int32(w), int32(h), "rdsim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// loadFont loads Liberation Mono, falling back to raylib's built-in font.
func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp attaches a texture surface to s. The raylib window must already be open.
func NewApp(s *sim.Simulator, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	a := &App{
		Sim:       s,
		Surface:   NewTextureSurface(),
		Font:      loadFont(),
		Log:       log,
		Presets:   config.ListPresets(),
		ShowHUD:   true,
		Telemetry: make([]float64, 0, telemetryCapacity),
	}
	for _, m := range s.Metrics() {
		if m.Name() == "mean_b" {
			a.meanB = m
		}
	}
	if a.meanB == nil {
		a.meanB = metrics.NewMeanB()
		s.AddMetric(a.meanB)
	}
	s.AddSurface(a.Surface)
	return a
}

// Run opens the window and blocks until it is closed.
func Run(s *sim.Simulator, log *slog.Logger) {
	w, h := s.DisplaySize()
	initWindow(w, h)
	defer rl.CloseWindow()
	app := NewApp(s, log)
	defer app.Surface.Unload()
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
	}
}

// Update handles input and advances the simulation by one tick.
func (a *App) Update() {
	if a.InMenu {
		a.updateMenu()
	} else {
		a.updateSim()
	}

	if _, err := a.Sim.Tick(); err != nil {
		a.status = err.Error()
		return
	}
	if !a.Sim.Paused() {
		a.Telemetry = append(a.Telemetry, a.meanB.Value())
		if len(a.Telemetry) > telemetryCapacity {
			a.Telemetry = a.Telemetry[1:]
		}
	}
}

func (a *App) updateMenu() {
	switch {
	case rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK):
		a.Selected = (a.Selected + len(a.Presets) - 1) % len(a.Presets)
	case rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ):
		a.Selected = (a.Selected + 1) % len(a.Presets)
	case rl.IsKeyPressed(rl.KeyEnter):
		name := a.Presets[a.Selected]
		if err := a.Sim.ApplyPreset(name); err != nil {
			a.status = err.Error()
		} else {
			a.status = "preset: " + name
			a.Telemetry = a.Telemetry[:0]
		}
		a.InMenu = false
	case rl.IsKeyPressed(rl.KeyEscape):
		a.InMenu = false
	case rl.IsKeyPressed(rl.KeyQ):
		a.quit = true
	}
}

func (a *App) updateSim() {
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		pos := rl.GetMousePosition()
		a.Sim.DropAtPixel(float64(pos.X), float64(pos.Y))
	}

	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		a.Sim.TogglePause()
	case rl.IsKeyPressed(rl.KeyR) || rl.IsKeyPressed(rl.KeyEnter):
		a.Sim.Restart()
		a.Telemetry = a.Telemetry[:0]
	case rl.IsKeyPressed(rl.KeyD):
		a.Sim.RandomDrop()
	case rl.IsKeyPressed(rl.KeyS):
		a.Sim.SetRandomDrops(!a.Sim.RandomDrops())
	case rl.IsKeyPressed(rl.KeyM):
		a.status = "mode: " + a.Sim.CycleMode().String()
	case rl.IsKeyPressed(rl.KeyP):
		a.status = "preset: " + a.Sim.CyclePreset()
		a.Telemetry = a.Telemetry[:0]
	case rl.IsKeyPressed(rl.KeyC):
		a.Sim.RandomizePalette()
	case rl.IsKeyPressed(rl.KeyH):
		a.ShowHUD = !a.ShowHUD
	case rl.IsKeyPressed(rl.KeyTab):
		a.ParamSel = (a.ParamSel + 1) % len(tunable)
	case rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK):
		a.adjustParam(1.05)
	case rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ):
		a.adjustParam(0.95)
	case rl.IsKeyPressed(rl.KeyEscape):
		a.InMenu = true
		a.Selected = indexOf(a.Presets, a.Sim.Preset())
	case rl.IsKeyPressed(rl.KeyQ):
		a.quit = true
	}
}

func (a *App) adjustParam(factor float64) {
	key := tunable[a.ParamSel]
	val := a.Sim.Params().GetParams()[key]
	if err := a.Sim.SetParam(key, val*factor); err != nil {
		a.status = err.Error()
		return
	}
	a.status = ""
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return 0
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.Surface.Draw()
	if a.InMenu {
		a.drawMenu()
	} else if a.ShowHUD {
		a.DrawHUD()
	}

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	w, h := a.Sim.DisplaySize()
	rl.DrawRectangle(10, 10, 300, 200, ColPanel)

	title := "rdsim"
	if p := a.Sim.Preset(); p != "" {
		title += " :: " + p
	}
	a.drawText(title, 20, 18, 20, ColSelect)

	status, col := "RUNNING", ColSelect
	if a.Sim.Paused() {
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, 20, 42, 14, col)

	p := a.Sim.Params()
	a.drawText(fmt.Sprintf("tick %d  mode %s  drops %v", a.Sim.TickCount(), p.Mode, a.Sim.RandomDrops()), 20, 60, 12, ColText)
	vals := p.GetParams()
	y := 78
	for i, k := range tunable {
		line := fmt.Sprintf("  %-12s %.4f", k, vals[k])
		c := ColText
		if i == a.ParamSel {
			line = ">" + line[1:]
			c = ColSelect
		}
		a.drawText(line, 20, y, 12, c)
		y += 15
	}
	if a.status != "" {
		a.drawText(a.status, 20, y+4, 12, ColAccent)
	}

	a.DrawTelemetry(20, h-80, 260, 50)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), w-70, 14, 12, ColTextDim)
	a.drawText(strings.ToUpper("[space] pause [r] restart [m] mode [p] preset [esc] menu [h] hud [q] quit"), 20, h-20, 10, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

// DrawTelemetry plots the mean B history as a line strip.
func (a *App) DrawTelemetry(rectX, rectY, width, height int) {
	if len(a.Telemetry) < 2 {
		return
	}
	lo, hi := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - lo) / (hi - lo)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("B: %.4f", a.Telemetry[len(a.Telemetry)-1]), rectX+width+8, rectY+height-10, 12, ColText)
}

func (a *App) drawMenu() {
	w, h := a.Sim.DisplaySize()
	rl.DrawRectangle(0, 0, int32(w), int32(h), ColPanel)
	a.drawText("rdsim", 50, 50, 40, ColSelect)
	a.drawText("Select Preset", 50, 100, 16, ColTextDim)

	y := 160
	for i, name := range a.Presets {
		pr := config.GetPreset(name)
		line := fmt.Sprintf("%-10s f=%.4f k=%.4f", name, pr.Feed, pr.Kill)
		if i == a.Selected {
			a.drawText("> "+line, 50, y, 20, ColSelect)
		} else {
			a.drawText("  "+line, 50, y, 20, ColText)
		}
		y += 28
	}

	a.drawText("ARROWS: NAVIGATE  ENTER: APPLY  ESC: BACK  Q: QUIT", 50, h-40, 14, ColTextDim)
}
