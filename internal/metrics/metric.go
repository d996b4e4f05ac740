package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/rdsim/internal/physics"
)

type Metric interface {
	Name() string
	Observe(g *physics.Grid, tick int)
	Value() float64
	Reset()
}

// MeanB reports the average B concentration of the latest observation.
type MeanB struct {
	value float64
}

func NewMeanB() *MeanB { return &MeanB{} }

func (m *MeanB) Name() string { return "mean_b" }

func (m *MeanB) Observe(g *physics.Grid, _ int) {
	_, b := Fields(g)
	m.value = stat.Mean(b, nil)
}

func (m *MeanB) Value() float64 { return m.value }
func (m *MeanB) Reset()         { m.value = 0 }

// Coverage reports the fraction of cells whose B exceeds a threshold.
type Coverage struct {
	threshold float64
	value     float64
}

func NewCoverage(threshold float64) *Coverage {
	return &Coverage{threshold: threshold}
}

func (c *Coverage) Name() string { return "coverage" }

func (c *Coverage) Observe(g *physics.Grid, _ int) {
	_, b := Fields(g)
	c.value = coverage(b, c.threshold)
}

func (c *Coverage) Value() float64 { return c.value }
func (c *Coverage) Reset()         { c.value = 0 }

// Contrast is the population standard deviation of B; zero for a uniform field.
type Contrast struct {
	value float64
}

func NewContrast() *Contrast { return &Contrast{} }

func (c *Contrast) Name() string { return "contrast" }

func (c *Contrast) Observe(g *physics.Grid, _ int) {
	_, b := Fields(g)
	_, c.value = stat.PopMeanStdDev(b, nil)
}

func (c *Contrast) Value() float64 { return c.value }
func (c *Contrast) Reset()         { c.value = 0 }

// Activity is the mean absolute change of B per tick between consecutive observations.
type Activity struct {
	prev     []float64
	prevTick int
	value    float64
}

func NewActivity() *Activity { return &Activity{} }

func (a *Activity) Name() string { return "activity" }

func (a *Activity) Observe(g *physics.Grid, tick int) {
	_, b := Fields(g)
	if len(a.prev) == len(b) && tick > a.prevTick {
		diff := make([]float64, len(b))
		floats.SubTo(diff, b, a.prev)
		a.value = floats.Norm(diff, 1) / float64(len(b)) / float64(tick-a.prevTick)
	}
	a.prev = b
	a.prevTick = tick
}

func (a *Activity) Value() float64 {
	if math.IsNaN(a.value) {
		return 0
	}
	return a.value
}

func (a *Activity) Reset() {
	a.prev = nil
	a.prevTick = 0
	a.value = 0
}

func Default() []Metric {
	return []Metric{
		NewMeanB(),
		NewCoverage(DefaultCoverageThreshold),
		NewContrast(),
		NewActivity(),
	}
}
