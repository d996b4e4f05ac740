package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/rdsim/internal/physics"
)

func TestMeasureUniformGrid(t *testing.T) {
	g := physics.NewGrid(8, 8)
	s := Measure(g, 3)

	if s.Tick != 3 {
		t.Errorf("tick = %d", s.Tick)
	}
	if s.MeanA != 1 || s.MeanB != 0 || s.StdB != 0 {
		t.Errorf("unexpected stats for fresh grid: %+v", s)
	}
	if s.Coverage != 0 || s.MaxB != 0 {
		t.Errorf("fresh grid should have no coverage: %+v", s)
	}
}

func TestMeasureHalfCovered(t *testing.T) {
	g := physics.NewGrid(4, 2)
	for i := 0; i < 4; i++ {
		g.Set(i, 0, 1, 1)
	}
	s := Measure(g, 0)

	if math.Abs(s.MeanB-0.5) > 1e-12 {
		t.Errorf("mean_b = %f, want 0.5", s.MeanB)
	}
	if math.Abs(s.StdB-0.5) > 1e-12 {
		t.Errorf("std_b = %f, want 0.5", s.StdB)
	}
	if s.MinB != 0 || s.MaxB != 1 {
		t.Errorf("min/max = %f/%f", s.MinB, s.MaxB)
	}
	if s.Coverage != 0.5 {
		t.Errorf("coverage = %f", s.Coverage)
	}
}

func TestMetrics(t *testing.T) {
	g := physics.NewGrid(4, 4)
	g.Set(0, 0, 1, 0.8)
	g.Set(1, 0, 1, 0.1)

	tests := []struct {
		metric Metric
		want   float64
	}{
		{NewMeanB(), 0.9 / 16},
		{NewCoverage(0.5), 1.0 / 16},
		{NewCoverage(0.05), 2.0 / 16},
	}
	for _, tt := range tests {
		t.Run(tt.metric.Name(), func(t *testing.T) {
			tt.metric.Observe(g, 0)
			if math.Abs(tt.metric.Value()-tt.want) > 1e-12 {
				t.Errorf("got %f, want %f", tt.metric.Value(), tt.want)
			}
			tt.metric.Reset()
			if tt.metric.Value() != 0 {
				t.Errorf("expected zero after reset")
			}
		})
	}
}

func TestContrast(t *testing.T) {
	c := NewContrast()
	g := physics.NewGrid(3, 3)
	c.Observe(g, 0)
	if c.Value() != 0 {
		t.Errorf("uniform field contrast = %f", c.Value())
	}
	physics.Inject(g, 1, 1, 1)
	c.Observe(g, 1)
	if c.Value() <= 0 {
		t.Error("expected positive contrast after a drop")
	}
}

func TestActivity(t *testing.T) {
	a := NewActivity()
	g := physics.NewGrid(2, 2)
	a.Observe(g, 0)
	if a.Value() != 0 {
		t.Errorf("first observation should report 0, got %f", a.Value())
	}

	g.Set(0, 0, 1, 1)
	a.Observe(g, 2)
	// one cell of four changed by 1 over two ticks
	if math.Abs(a.Value()-0.125) > 1e-12 {
		t.Errorf("activity = %f, want 0.125", a.Value())
	}
}

func TestSeries(t *testing.T) {
	rows := []Stats{{MeanB: 0.1, Coverage: 0.2}, {MeanB: 0.3, Coverage: 0.4}}
	got := Series(rows, "coverage")
	if got[0] != 0.2 || got[1] != 0.4 {
		t.Errorf("coverage series = %v", got)
	}
	got = Series(rows, "mean_b")
	if got[1] != 0.3 {
		t.Errorf("mean_b series = %v", got)
	}
}

func TestDefaultNames(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Default() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
}
