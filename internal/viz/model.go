package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/rdsim/internal/analysis"
	"github.com/san-kum/rdsim/internal/metrics"
	"github.com/san-kum/rdsim/internal/render"
	"github.com/san-kum/rdsim/internal/sim"
)

const (
	defaultCols     = 60
	defaultRows     = 30
	historyCapacity = 120
	statsWidth      = 48
	wavelengthEvery = 30
)

// tunable lists the parameters reachable with tab, in display order.
var tunable = []string{"feed", "kill", "diffusion_a", "diffusion_b", "time_step", "drop_radius", "smoothing", "color_threshold"}

type TickMsg time.Time

// Model drives a simulator from the bubbletea event loop and draws its
// frames onto a half-block canvas beside a stats panel.
type Model struct {
	sim      *sim.Simulator
	canvas   *Canvas
	interval time.Duration

	values   map[string]float64
	meanHist []float64
	actHist  []float64

	selected int
	showHelp bool
	frames   int
	status   string
	err      error
}

// NewModel attaches a canvas to s. When s has no metrics the default set
// and a wavelength tracker are added so the stats panel has something to show.
func NewModel(s *sim.Simulator, interval time.Duration) Model {
	if interval <= 0 {
		interval = time.Second / 60
	}
	if len(s.Metrics()) == 0 {
		for _, m := range metrics.Default() {
			s.AddMetric(m)
		}
		s.AddMetric(analysis.NewWavelength(wavelengthEvery))
	}
	c := NewCanvas(defaultCols, defaultRows)
	s.AddSurface(c)
	return Model{
		sim:      s,
		canvas:   c,
		interval: interval,
		values:   make(map[string]float64),
		meanHist: make([]float64, 0, historyCapacity),
		actHist:  make([]float64, 0, historyCapacity),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		cols := msg.Width - statsWidth - 2*canvasPadX - 2
		rows := msg.Height - 2*canvasPadY
		m.canvas.Resize(max(cols, 10), max(rows, 5))
		if f := m.sim.Frame(); f != nil {
			_ = m.canvas.Present(f)
		}
	case TickMsg:
		m.step()
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		if m.sim.TogglePause() {
			m.status = "paused"
		} else {
			m.status = "resumed"
		}
	case "r", "enter":
		m.sim.Restart()
		m.meanHist = m.meanHist[:0]
		m.actHist = m.actHist[:0]
		m.status = "restarted"
	case "d":
		n := m.sim.RandomDrop()
		m.status = fmt.Sprintf("drop: %d cells", n)
	case "s":
		m.sim.SetRandomDrops(!m.sim.RandomDrops())
		m.status = fmt.Sprintf("random drops: %v", m.sim.RandomDrops())
	case "m":
		m.status = "mode: " + m.sim.CycleMode().String()
	case "p":
		m.meanHist = m.meanHist[:0]
		m.actHist = m.actHist[:0]
		m.status = "preset: " + m.sim.CyclePreset()
	case "c":
		m.sim.RandomizePalette()
		p := m.sim.Params()
		m.status = "palette: " + p.ColorA.Hex() + " / " + p.ColorB.Hex()
	case "t":
		t := NextTheme()
		m.err = m.applyThemePalette(t)
		m.status = "theme: " + t.Name
	case "tab":
		m.selected = (m.selected + 1) % len(tunable)
	case "shift+tab":
		m.selected = (m.selected + len(tunable) - 1) % len(tunable)
	case "up", "k":
		m.err = m.adjustParam(1.05)
	case "down", "j":
		m.err = m.adjustParam(0.95)
	case "+", "=":
		m.err = m.sim.SetParam("resolution", float64(m.sim.Params().Resolution+1))
	case "-", "_":
		m.err = m.sim.SetParam("resolution", float64(m.sim.Params().Resolution-1))
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// handleMouse drops B under the pointer while the left button is held.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Button != tea.MouseButtonLeft {
		return
	}
	if msg.Action != tea.MouseActionPress && msg.Action != tea.MouseActionMotion {
		return
	}
	col, row := msg.X-canvasPadX, msg.Y-canvasPadY
	if col < 0 || row < 0 || col >= m.canvas.Width || row >= m.canvas.Height {
		return
	}
	fw, fh := m.sim.FrameSize()
	px, py := m.canvas.FramePoint(col, row, fw, fh)
	m.sim.DropAtPixel(px, py)
}

func (m *Model) adjustParam(factor float64) error {
	key := tunable[m.selected]
	val := m.sim.Params().GetParams()[key]
	if val == 0 {
		val = 0.01
	}
	return m.sim.SetParam(key, val*factor)
}

func (m *Model) applyThemePalette(t Theme) error {
	p := m.sim.Params()
	a, err := render.ParseHex(t.FieldA)
	if err != nil {
		return err
	}
	b, err := render.ParseHex(t.FieldB)
	if err != nil {
		return err
	}
	p.ColorA, p.ColorB = a, b
	return m.sim.SetParams(p)
}

// step runs one tick and records metric history.
func (m *Model) step() {
	m.frames++
	if _, err := m.sim.Tick(); err != nil {
		m.err = err
		return
	}
	for _, mt := range m.sim.Metrics() {
		m.values[mt.Name()] = mt.Value()
	}
	if m.sim.Paused() {
		return
	}
	m.meanHist = pushHistory(m.meanHist, m.values["mean_b"])
	m.actHist = pushHistory(m.actHist, m.values["activity"])
}

func pushHistory(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

// View renders the TUI interface.
func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	title := "GRAY-SCOTT"
	if name := m.sim.Preset(); name != "" {
		title += " · " + strings.ToUpper(name)
	}
	s.WriteString(HeaderStyle.Render(GradientText(title, CurrentTheme.Primary, CurrentTheme.Accent)) + "\n")

	if m.sim.Paused() {
		s.WriteString(StatusPaused.Render("PAUSED") + "\n")
	} else {
		s.WriteString(StatusRunning.Render(AnimatedSpinner(m.frames)+" RUNNING") + "\n")
	}
	if m.status != "" {
		s.WriteString(Subtle.Render(m.status) + "\n")
	}
	if m.err != nil {
		s.WriteString(ErrorStyle.Render(m.err.Error()) + "\n")
	}

	if len(m.meanHist) > 1 {
		chart := asciigraph.Plot(m.meanHist, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("mean B"))
		s.WriteString(GraphStyle.Render(chart) + "\n")
	}

	p := m.sim.Params()
	cols, rows := m.sim.Grid().Dimensions()
	s.WriteString(metricLine("Tick", fmt.Sprintf("%d", m.sim.TickCount())))
	s.WriteString(metricLine("Grid", fmt.Sprintf("%dx%d @%d", cols, rows, p.Resolution)))
	s.WriteString(metricLine("Backend", m.sim.BackendName()))
	s.WriteString(metricLine("Mode", p.Mode.String()))
	s.WriteString(metricLine("Drops", fmt.Sprintf("%v / %v", m.sim.RandomDrops(), m.sim.DropInterval())))
	s.WriteString(metricLine("Mean B", fmt.Sprintf("%.4f", m.values["mean_b"])))
	s.WriteString(metricLine("Contrast", fmt.Sprintf("%.4f", m.values["contrast"])))
	s.WriteString(metricLine("Wavelength", fmt.Sprintf("%.1f cells", m.values["wavelength"])))
	s.WriteString(MetricLabel.Render("Coverage") + ProgressBar(m.values["coverage"], 20) +
		MetricValue.Render(fmt.Sprintf(" %.0f%%", m.values["coverage"]*100)) + "\n")
	s.WriteString(MetricLabel.Render("Activity") + SparklineChart(m.actHist, 24) + "\n")

	s.WriteString("\n" + Separator(40) + "\nPARAMETERS\n")
	vals := p.GetParams()
	for i, k := range tunable {
		line := fmt.Sprintf("%-16s %.4f", k, vals[k])
		if i == m.selected {
			s.WriteString(ActiveParam.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + MetricLabel.UnsetWidth().Render(line) + "\n")
		}
	}
	s.WriteString(KeyHint.Render("SP:Pause R:Restart Q:Quit ?:Help\nM:Mode P:Preset C:Colors T:Theme\nD:Drop S:Auto-drop TAB/↑↓:Tune"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

func metricLine(label, value string) string {
	return MetricLabel.Render(label) + MetricValue.Render(value) + "\n"
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R/Enter  - Restart from seed        ║
║  Click    - Drop chemical B          ║
║  D        - Random drop              ║
║  S        - Toggle random drops      ║
║  M        - Cycle color mode         ║
║  P        - Cycle preset             ║
║  C        - Random palette           ║
║  T        - Cycle themes             ║
║  Tab      - Select parameter         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  +/-      - Change resolution        ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Run starts the terminal view in the alternate screen with mouse support.
func Run(s *sim.Simulator, interval time.Duration) error {
	_, err := tea.NewProgram(NewModel(s, interval), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
