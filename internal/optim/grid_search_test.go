package optim

import (
	"context"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/san-kum/rdsim/internal/compute"
	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/sim"
)

func TestParseRange(t *testing.T) {
	name, vals, err := ParseRange("feed=0.02:0.06:5")
	if err != nil {
		t.Fatal(err)
	}
	if name != "feed" || len(vals) != 5 {
		t.Fatalf("got %s %v", name, vals)
	}
	if math.Abs(vals[2]-0.04) > 1e-12 || vals[4] != 0.06 {
		t.Errorf("unexpected values %v", vals)
	}

	for _, bad := range []string{"feed", "=1:2:3", "feed=1:2", "feed=a:2:3", "feed=1:2:0"} {
		if _, _, err := ParseRange(bad); err == nil {
			t.Errorf("ParseRange(%q) should fail", bad)
		}
	}
}

func TestCombinations(t *testing.T) {
	g := NewGridSearch([]string{"feed", "kill"}, [][]float64{{0.01, 0.02}, {0.05, 0.06, 0.07}})
	combos := g.Combinations()
	if len(combos) != 6 {
		t.Fatalf("expected 6 combinations, got %d", len(combos))
	}
	seen := make(map[[2]float64]bool)
	for _, c := range combos {
		seen[[2]float64{c["feed"], c["kill"]}] = true
	}
	if len(seen) != 6 {
		t.Errorf("combinations are not distinct: %v", combos)
	}
}

func TestSearchPicksClosestToTarget(t *testing.T) {
	opts := sim.Options{
		Width:   60,
		Height:  60,
		Backend: compute.NewSerialBackend(),
		Logger:  slog.New(slog.DiscardHandler),
		Seed:    3,
		Clock:   sim.StepClock(time.Unix(0, 0), time.Second/60),
	}
	// kill=2 fails validation and must not win
	g := NewGridSearch([]string{"kill"}, [][]float64{{0.048, 0.06, 2}})

	best, points, err := g.Search(context.Background(), dynamo.DefaultParams(), 20, "mean_b", 1, opts, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if points[2].Err == nil {
		t.Errorf("kill=2 should be rejected")
	}
	for _, p := range points[:2] {
		if p.Score < best.Score {
			t.Errorf("point %v scores better than best %v", p, best)
		}
	}
	if best.Err != nil {
		t.Errorf("best point has error %v", best.Err)
	}
}

func TestSearchUnknownMetric(t *testing.T) {
	opts := sim.Options{
		Width:   30,
		Height:  30,
		Backend: compute.NewSerialBackend(),
		Logger:  slog.New(slog.DiscardHandler),
	}
	g := NewGridSearch([]string{"feed"}, [][]float64{{0.03}})
	if _, _, err := g.Search(context.Background(), dynamo.DefaultParams(), 2, "nope", 0, opts, 1); err == nil {
		t.Error("expected error for unknown metric")
	}
}
