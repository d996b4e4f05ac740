package physics

import "testing"

func TestNewGridInitialState(t *testing.T) {
	g := NewGrid(7, 5)
	cols, rows := g.Dimensions()
	if cols != 7 || rows != 5 {
		t.Fatalf("expected 7x5, got %dx%d", cols, rows)
	}
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			a, b := g.Get(i, j)
			if a != 1 || b != 0 {
				t.Fatalf("cell (%d,%d) = (%f,%f), want (1,0)", i, j, a, b)
			}
		}
	}
}

func TestGridIndexing(t *testing.T) {
	g := NewGrid(4, 3)
	g.Set(3, 1, 0.25, 0.75)

	if got := g.Cells()[1*4+3]; got.A != 0.25 || got.B != 0.75 {
		t.Errorf("expected row-major storage, got %+v", got)
	}
	a, b := g.Get(3, 1)
	if a != 0.25 || b != 0.75 {
		t.Errorf("Get returned (%f,%f)", a, b)
	}
}

func TestGridOutOfRangePanics(t *testing.T) {
	g := NewGrid(4, 3)
	tests := []struct {
		name string
		i, j int
	}{
		{"negative column", -1, 0},
		{"column past end", 4, 0},
		{"row past end", 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic for (%d,%d)", tt.i, tt.j)
				}
			}()
			g.Get(tt.i, tt.j)
		})
	}
}

func TestSwapExchangesHandles(t *testing.T) {
	g := NewGrid(3, 3)
	cur := &g.Cells()[0]
	nxt := &g.nxt[0]

	g.Swap()

	if &g.Cells()[0] != nxt || &g.nxt[0] != cur {
		t.Error("swap should exchange buffer handles without copying")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := NewGrid(3, 3)
	c := g.Clone()
	g.Set(1, 1, 0, 1)

	if c.Equal(g) {
		t.Error("clone should not share storage")
	}
	if _, b := c.Get(1, 1); b != 0 {
		t.Errorf("clone mutated: b=%f", b)
	}
}
