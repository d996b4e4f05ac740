package sim

import (
	"log/slog"
	"time"

	"github.com/san-kum/rdsim/internal/compute"
	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/metrics"
	"github.com/san-kum/rdsim/internal/physics"
	"github.com/san-kum/rdsim/internal/render"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 800

	// Random drops use a radius in [MinRandomRadius, MinRandomRadius+RandomRadiusSpan).
	MinRandomRadius  = 5.0
	RandomRadiusSpan = 10.0
)

// Surface receives every rendered frame. The frame is reused on the next
// tick, so implementations must copy anything they keep.
type Surface interface {
	Present(f *render.Frame) error
}

type SurfaceFunc func(f *render.Frame) error

func (fn SurfaceFunc) Present(f *render.Frame) error { return fn(f) }

type Observer interface {
	OnTick(g *physics.Grid, tick int)
}

type Options struct {
	Width, Height int
	Backend       compute.Backend
	Logger        *slog.Logger
	Seed          uint64
	RandomDrops   bool
	DropInterval  time.Duration
	// Clock drives the random-drop schedule; time.Now when nil.
	Clock func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.DropInterval <= 0 {
		o.DropInterval = time.Second
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

type Result struct {
	Preset   string             `json:"preset,omitempty"`
	Params   dynamo.Params      `json:"params"`
	Ticks    int                `json:"ticks"`
	Samples  []metrics.Stats    `json:"samples"`
	Metrics  map[string]float64 `json:"metrics"`
	Elapsed  time.Duration      `json:"elapsed"`
	Canceled bool               `json:"canceled,omitempty"`
}

// Final returns the last sample, or a zero Stats when nothing was sampled.
func (r *Result) Final() metrics.Stats {
	if len(r.Samples) == 0 {
		return metrics.Stats{}
	}
	return r.Samples[len(r.Samples)-1]
}

// StepClock returns a clock that advances by step on every call.
func StepClock(start time.Time, step time.Duration) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}
