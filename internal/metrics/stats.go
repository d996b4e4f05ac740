package metrics

import (
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/rdsim/internal/physics"
)

// DefaultCoverageThreshold is the B concentration above which a cell counts as covered.
const DefaultCoverageThreshold = 0.25

// Stats is one sampled row of field statistics.
type Stats struct {
	Tick     int     `csv:"tick" json:"tick"`
	MeanA    float64 `csv:"mean_a" json:"mean_a"`
	StdA     float64 `csv:"std_a" json:"std_a"`
	MeanB    float64 `csv:"mean_b" json:"mean_b"`
	StdB     float64 `csv:"std_b" json:"std_b"`
	MinB     float64 `csv:"min_b" json:"min_b"`
	MaxB     float64 `csv:"max_b" json:"max_b"`
	Coverage float64 `csv:"coverage" json:"coverage"`
}

func Measure(g *physics.Grid, tick int) Stats {
	a, b := Fields(g)
	s := Stats{Tick: tick}
	if len(b) == 0 {
		return s
	}
	s.MeanA, s.StdA = stat.PopMeanStdDev(a, nil)
	s.MeanB, s.StdB = stat.PopMeanStdDev(b, nil)
	s.MinB = floats.Min(b)
	s.MaxB = floats.Max(b)
	s.Coverage = coverage(b, DefaultCoverageThreshold)
	return s
}

// Fields copies the current A and B concentrations into flat slices.
func Fields(g *physics.Grid) (a, b []float64) {
	cells := g.Cells()
	a = make([]float64, len(cells))
	b = make([]float64, len(cells))
	for k, c := range cells {
		a[k] = c.A
		b[k] = c.B
	}
	return a, b
}

func coverage(b []float64, threshold float64) float64 {
	if len(b) == 0 {
		return 0
	}
	n := 0
	for _, v := range b {
		if v > threshold {
			n++
		}
	}
	return float64(n) / float64(len(b))
}

// Series extracts one column from a slice of samples, for plotting.
func Series(rows []Stats, column string) []float64 {
	out := make([]float64, len(rows))
	for k, r := range rows {
		switch column {
		case "mean_a":
			out[k] = r.MeanA
		case "std_a":
			out[k] = r.StdA
		case "std_b":
			out[k] = r.StdB
		case "min_b":
			out[k] = r.MinB
		case "max_b":
			out[k] = r.MaxB
		case "coverage":
			out[k] = r.Coverage
		default:
			out[k] = r.MeanB
		}
	}
	return out
}

// LogValue implements slog.LogValuer for structured logging.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("tick", s.Tick),
		slog.Float64("mean_a", s.MeanA),
		slog.Float64("mean_b", s.MeanB),
		slog.Float64("std_b", s.StdB),
		slog.Float64("coverage", s.Coverage),
	)
}
