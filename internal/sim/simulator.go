package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/metrics"
	"github.com/san-kum/rdsim/internal/physics"
	"github.com/san-kum/rdsim/internal/render"
)

// Simulator owns the grid and runs the tick pipeline:
// step, random drop, rasterize, smooth, present.
// It is not safe for concurrent use.
type Simulator struct {
	params        dynamo.Params
	width, height int
	preset        string

	grid     *physics.Grid
	stepper  *physics.Stepper
	mapper   *render.Mapper
	smoother *render.Smoother
	frame    *render.Frame

	surfaces  []Surface
	metrics   []metrics.Metric
	observers []Observer

	drops    *DropScheduler
	rng      *rand.Rand
	clock    func() time.Time
	lastTick time.Time

	paused bool
	tick   int
	log    *slog.Logger
}

func New(p dynamo.Params, opts Options) (*Simulator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	if p.Resolution > opts.Width || p.Resolution > opts.Height {
		return nil, fmt.Errorf("resolution %d exceeds display %dx%d: %w", p.Resolution, opts.Width, opts.Height, dynamo.ErrInvalidResolution)
	}

	s := &Simulator{
		params:   p,
		width:    opts.Width,
		height:   opts.Height,
		stepper:  physics.NewStepper(opts.Backend),
		mapper:   render.NewMapper(p),
		smoother: render.NewSmoother(),
		drops:    NewDropScheduler(opts.DropInterval, opts.RandomDrops),
		rng:      rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		clock:    opts.Clock,
		log:      opts.Logger,
	}
	s.Reinit()
	return s, nil
}

func (s *Simulator) AddSurface(sf Surface)      { s.surfaces = append(s.surfaces, sf) }
func (s *Simulator) AddMetric(m metrics.Metric) { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)     { s.observers = append(s.observers, o) }

// Reinit rebuilds the grid for the current display size and resolution,
// seeds it and clears the smoothing history.
func (s *Simulator) Reinit() {
	cols, rows := s.params.GridSize(s.width, s.height)
	if s.grid == nil {
		s.grid = physics.NewGrid(cols, rows)
	} else if c, r := s.grid.Dimensions(); c != cols || r != rows {
		s.grid = physics.NewGrid(cols, rows)
	}
	physics.Seed(s.grid)

	s.smoother.Reset()
	s.drops.Reset()
	s.tick = 0
	s.lastTick = s.clock()
	for _, m := range s.metrics {
		m.Reset()
	}

	s.log.Info("grid initialized", "cols", cols, "rows", rows, "resolution", s.params.Resolution)
}

func (s *Simulator) Restart() {
	s.Reinit()
}

// Resize changes the display size; the grid is rebuilt only when its cell dimensions change.
func (s *Simulator) Resize(width, height int) error {
	if width < s.params.Resolution || height < s.params.Resolution {
		return fmt.Errorf("display %dx%d smaller than one cell: %w", width, height, dynamo.ErrInvalidResolution)
	}
	oldCols, oldRows := s.params.GridSize(s.width, s.height)
	s.width, s.height = width, height
	if cols, rows := s.params.GridSize(width, height); cols != oldCols || rows != oldRows {
		s.Reinit()
	}
	return nil
}

func (s *Simulator) Params() dynamo.Params { return s.params }

// SetParams validates p and applies it as a whole or not at all.
func (s *Simulator) SetParams(p dynamo.Params) error {
	if err := p.Validate(); err != nil {
		s.log.Warn("parameter update rejected", "err", err)
		return err
	}
	if p.Resolution > s.width || p.Resolution > s.height {
		err := fmt.Errorf("resolution %d exceeds display %dx%d: %w", p.Resolution, s.width, s.height, dynamo.ErrInvalidResolution)
		s.log.Warn("parameter update rejected", "err", err)
		return err
	}

	old := s.params
	s.params = p
	s.mapper.Configure(p)

	if s.preset != "" {
		if pr := config.GetPreset(s.preset); pr == nil || !matchesPreset(p, *pr) {
			s.preset = ""
		}
	}
	if p.Resolution != old.Resolution {
		s.Reinit()
	}
	return nil
}

func matchesPreset(p dynamo.Params, pr config.Preset) bool {
	return p.DiffusionA == pr.DiffusionA && p.DiffusionB == pr.DiffusionB &&
		p.Feed == pr.Feed && p.Kill == pr.Kill
}

// SetParam updates a single named parameter through SetParams.
func (s *Simulator) SetParam(name string, value float64) error {
	p := s.params
	if err := p.SetParam(name, value); err != nil {
		return err
	}
	return s.SetParams(p)
}

// ApplyPreset overwrites the diffusion and rate parameters and reseeds the grid.
func (s *Simulator) ApplyPreset(name string) error {
	pr, err := config.Lookup(name)
	if err != nil {
		return err
	}
	p := s.params
	pr.Apply(&p)
	if err := p.Validate(); err != nil {
		return err
	}
	s.params = p
	s.preset = config.PresetName(name)
	s.log.Info("preset applied", "preset", s.preset)
	s.Reinit()
	return nil
}

func (s *Simulator) Preset() string { return s.preset }

// CyclePreset applies the preset after the current one in sorted order.
func (s *Simulator) CyclePreset() string {
	names := config.ListPresets()
	next := names[0]
	for i, n := range names {
		if n == s.preset {
			next = names[(i+1)%len(names)]
			break
		}
	}
	if err := s.ApplyPreset(next); err != nil {
		s.log.Warn("preset failed", "preset", next, "err", err)
	}
	return s.preset
}

func (s *Simulator) CycleMode() dynamo.Mode {
	p := s.params
	p.Mode = p.Mode.Next()
	if err := s.SetParams(p); err != nil {
		return s.params.Mode
	}
	return p.Mode
}

func (s *Simulator) RandomizePalette() {
	p := s.params
	p.ColorA, p.ColorB = render.RandomPalette(s.rng)
	_ = s.SetParams(p)
}

// Drop deposits B in a disk centred on cell (x, y). A radius <= 0 uses the
// configured drop radius. Drops apply immediately, also while paused.
func (s *Simulator) Drop(x, y, radius float64) int {
	if radius <= 0 || math.IsNaN(radius) {
		radius = s.params.DropRadius
	}
	return physics.Inject(s.grid, x, y, radius)
}

// DropAtPixel converts display coordinates to cells and drops with the default radius.
func (s *Simulator) DropAtPixel(px, py float64) int {
	res := float64(s.params.Resolution)
	return s.Drop(math.Floor(px/res), math.Floor(py/res), 0)
}

func (s *Simulator) RandomDrop() int {
	cols, rows := s.grid.Dimensions()
	x := float64(s.rng.IntN(cols))
	y := float64(s.rng.IntN(rows))
	r := MinRandomRadius + s.rng.Float64()*RandomRadiusSpan
	return s.Drop(x, y, r)
}

func (s *Simulator) Pause()       { s.paused = true }
func (s *Simulator) Resume()      { s.paused = false }
func (s *Simulator) Paused() bool { return s.paused }
func (s *Simulator) TogglePause() bool {
	s.paused = !s.paused
	return s.paused
}

func (s *Simulator) RandomDrops() bool { return s.drops.Enabled() }

func (s *Simulator) SetRandomDrops(on bool) {
	s.drops.SetEnabled(on)
	s.drops.Reset()
}

func (s *Simulator) DropInterval() time.Duration { return s.drops.Interval() }

func (s *Simulator) SetDropInterval(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("drop interval must be positive, got %v", d)
	}
	s.drops.SetInterval(d)
	return nil
}

// Step advances the simulation without rendering. Paused simulators do not move.
func (s *Simulator) Step() {
	now := s.clock()
	elapsed := now.Sub(s.lastTick)
	s.lastTick = now
	if s.paused {
		return
	}

	s.stepper.Step(s.grid, physics.RatesFrom(s.params))
	s.tick++

	if s.drops.Advance(elapsed) {
		s.RandomDrop()
	}

	for _, m := range s.metrics {
		m.Observe(s.grid, s.tick)
	}
	for _, o := range s.observers {
		o.OnTick(s.grid, s.tick)
	}
}

// Render paints the current grid into the frame buffer and smooths it.
func (s *Simulator) Render() *render.Frame {
	s.frame = render.Rasterize(s.frame, s.grid, s.mapper, s.params.Resolution)
	s.smoother.Smooth(s.frame, s.params.Smoothing)
	return s.frame
}

// Tick runs one full pipeline pass. With invalid parameters the tick is
// skipped entirely and the validation error returned.
func (s *Simulator) Tick() (*render.Frame, error) {
	if err := s.params.Validate(); err != nil {
		s.log.Warn("tick skipped", "tick", s.tick, "err", err)
		return nil, fmt.Errorf("tick %d skipped: %w", s.tick, err)
	}

	s.Step()
	f := s.Render()

	for _, sf := range s.surfaces {
		if err := sf.Present(f); err != nil {
			return f, fmt.Errorf("present frame: %w", err)
		}
	}
	return f, nil
}

// Run advances the simulation headlessly for the given number of ticks,
// sampling field statistics every sampleEvery ticks. Frames are rendered
// only when a surface is attached.
func (s *Simulator) Run(ctx context.Context, ticks, sampleEvery int) (*Result, error) {
	if ticks <= 0 {
		return nil, fmt.Errorf("ticks must be positive, got %d", ticks)
	}
	if sampleEvery <= 0 {
		sampleEvery = 1
	}

	result := &Result{
		Preset:  s.preset,
		Params:  s.params,
		Samples: make([]metrics.Stats, 0, ticks/sampleEvery+2),
		Metrics: make(map[string]float64),
	}
	start := time.Now()
	result.Samples = append(result.Samples, metrics.Measure(s.grid, s.tick))

	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			result.Canceled = true
			result.Elapsed = time.Since(start)
			return result, ctx.Err()
		default:
		}

		if len(s.surfaces) > 0 {
			if _, err := s.Tick(); err != nil {
				return result, err
			}
		} else {
			if err := s.params.Validate(); err != nil {
				return result, err
			}
			s.Step()
		}
		result.Ticks++

		if result.Ticks%sampleEvery == 0 || i == ticks-1 {
			result.Samples = append(result.Samples, metrics.Measure(s.grid, s.tick))
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Elapsed = time.Since(start)
	s.log.Debug("run finished", "ticks", result.Ticks, "elapsed", result.Elapsed)
	return result, nil
}

func (s *Simulator) Grid() *physics.Grid       { return s.grid }
func (s *Simulator) Frame() *render.Frame      { return s.frame }
func (s *Simulator) TickCount() int            { return s.tick }
func (s *Simulator) DisplaySize() (int, int)   { return s.width, s.height }
func (s *Simulator) BackendName() string       { return s.stepper.Backend().Name() }
func (s *Simulator) Metrics() []metrics.Metric { return s.metrics }

// FrameSize is the pixel size of rendered frames: cols*res by rows*res.
func (s *Simulator) FrameSize() (int, int) {
	cols, rows := s.grid.Dimensions()
	return cols * s.params.Resolution, rows * s.params.Resolution
}
