package optim

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/sim"
)

// GridSearch runs every combination of parameter values and scores each
// run by how close a final metric lands to a target.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

type Point struct {
	Params map[string]float64
	Value  float64
	Score  float64
	Err    error
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// ParseRange reads "name=min:max:steps" into a name and evenly spaced values.
func ParseRange(arg string) (string, []float64, error) {
	name, rng, ok := strings.Cut(arg, "=")
	if !ok || name == "" {
		return "", nil, fmt.Errorf("range %q: want name=min:max:steps", arg)
	}
	parts := strings.Split(rng, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("range %q: want name=min:max:steps", arg)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("range %q: %w", arg, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("range %q: %w", arg, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("range %q: steps must be a positive integer", arg)
	}
	if n == 1 {
		return name, []float64{lo}, nil
	}
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = lo + float64(i)*(hi-lo)/float64(n-1)
	}
	return name, vals, nil
}

// Combinations enumerates the cartesian product of the ranges.
func (g *GridSearch) Combinations() []map[string]float64 {
	var out []map[string]float64
	g.collect(0, make(map[string]float64), &out)
	return out
}

func (g *GridSearch) collect(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, current)
		return
	}
	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[paramName] = val
		g.collect(depth+1, next, out)
	}
}

// Search runs all combinations on top of base through a sim.Ensemble and
// returns the point whose metric is closest to target, plus every point.
// Combinations that fail validation are kept with Err set and never win.
func (g *GridSearch) Search(
	ctx context.Context,
	base dynamo.Params,
	ticks int,
	metricName string,
	target float64,
	opts sim.Options,
	workers int,
) (Point, []Point, error) {
	combos := g.Combinations()
	points := make([]Point, len(combos))
	jobs := make([]sim.Job, 0, len(combos))
	index := make([]int, 0, len(combos))

	for i, combo := range combos {
		points[i] = Point{Params: combo, Score: math.Inf(1)}
		p := base
		for k, v := range combo {
			if err := p.SetParam(k, v); err != nil {
				return Point{}, nil, err
			}
		}
		if err := p.Validate(); err != nil {
			points[i].Err = err
			continue
		}
		jobs = append(jobs, sim.Job{
			Name:   fmt.Sprintf("combo-%d", i),
			Params: p,
			Ticks:  ticks,
			Seed:   opts.Seed,
		})
		index = append(index, i)
	}
	if workers <= 0 {
		workers = len(jobs)
	}

	runs, err := sim.NewEnsemble(opts, workers).Run(ctx, jobs, ticks)
	if err != nil {
		return Point{}, points, err
	}

	best := -1
	for k, run := range runs {
		i := index[k]
		val, ok := run.Metrics[metricName]
		if !ok {
			return Point{}, points, fmt.Errorf("unknown metric %q", metricName)
		}
		points[i].Value = val
		points[i].Score = math.Abs(val - target)
		if best < 0 || points[i].Score < points[best].Score {
			best = i
		}
	}
	if best < 0 {
		return Point{}, points, fmt.Errorf("no valid parameter combination")
	}
	return points[best], points, nil
}
