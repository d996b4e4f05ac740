package physics

import (
	"testing"

	"github.com/san-kum/rdsim/internal/dynamo"
)

func defaultParamsForTest() dynamo.Params {
	return dynamo.DefaultParams()
}

func TestInjectDisk(t *testing.T) {
	g := NewGrid(10, 10)
	n := Inject(g, 5, 5, 2)

	want := 0
	for j := 0; j < 10; j++ {
		for i := 0; i < 10; i++ {
			dx, dy := i-5, j-5
			inside := dx*dx+dy*dy < 4
			_, b := g.Get(i, j)
			if inside {
				want++
				if b != 1 {
					t.Errorf("(%d,%d) inside drop but b=%f", i, j, b)
				}
			} else if b != 0 {
				t.Errorf("(%d,%d) outside drop but b=%f", i, j, b)
			}
		}
	}
	if n != want {
		t.Errorf("reported %d cells, counted %d", n, want)
	}
}

func TestInjectLeavesAUntouched(t *testing.T) {
	g := NewGrid(6, 6)
	g.Set(3, 3, 0.4, 0)
	Inject(g, 3, 3, 1)
	a, b := g.Get(3, 3)
	if a != 0.4 || b != 1 {
		t.Errorf("got (%f,%f), want (0.4,1)", a, b)
	}
}

func TestInjectClipsAtEdges(t *testing.T) {
	tests := []struct {
		name   string
		x, y   float64
		radius float64
	}{
		{"corner", 0, 0, 3},
		{"far corner", 9, 9, 3},
		{"outside grid", -20, 40, 5},
		{"fractional radius", 4.7, 2.2, 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(10, 10)
			Inject(g, tt.x, tt.y, tt.radius)
			if _, b := g.Get(9, 0); tt.name == "corner" && b != 0 {
				t.Errorf("drop wrapped to opposite edge")
			}
		})
	}
}

func TestInjectRejectsBadRadius(t *testing.T) {
	g := NewGrid(5, 5)
	for _, r := range []float64{0, -1} {
		if n := Inject(g, 2, 2, r); n != 0 {
			t.Errorf("radius %f touched %d cells", r, n)
		}
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	g1 := NewGrid(40, 30)
	Seed(g1)
	snapshot := g1.Clone()

	Inject(g1, 3, 3, 4)
	Seed(g1)

	if !g1.Equal(snapshot) {
		t.Error("reseeding should reproduce the same grid")
	}
	if _, b := g1.Get(20, 15); b != 1 {
		t.Errorf("center not seeded: b=%f", b)
	}
	if _, b := g1.Get(20, 15+int(SeedRadius)); b != 0 {
		t.Errorf("cell at seed radius should stay empty")
	}
}
