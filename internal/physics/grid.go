package physics

import "fmt"

// Cell holds the concentrations of chemicals A and B.
type Cell struct {
	A, B float64
}

// Grid is a row-major lattice with a current and a next buffer.
// Index (i, j) is column i, row j, stored at j*cols + i.
type Grid struct {
	cols, rows int
	cur, nxt   []Cell
}

func NewGrid(cols, rows int) *Grid {
	if cols < 1 || rows < 1 {
		panic(fmt.Sprintf("physics: invalid grid size %dx%d", cols, rows))
	}
	g := &Grid{
		cols: cols,
		rows: rows,
		cur:  make([]Cell, cols*rows),
		nxt:  make([]Cell, cols*rows),
	}
	g.Reset()
	return g
}

func (g *Grid) Dimensions() (cols, rows int) { return g.cols, g.rows }

func (g *Grid) InBounds(i, j int) bool {
	return i >= 0 && i < g.cols && j >= 0 && j < g.rows
}

func (g *Grid) index(i, j int) int {
	if !g.InBounds(i, j) {
		panic(fmt.Sprintf("physics: cell (%d,%d) outside %dx%d grid", i, j, g.cols, g.rows))
	}
	return j*g.cols + i
}

func (g *Grid) Get(i, j int) (a, b float64) {
	c := g.cur[g.index(i, j)]
	return c.A, c.B
}

func (g *Grid) Set(i, j int, a, b float64) {
	g.cur[g.index(i, j)] = Cell{A: a, B: b}
}

// Cells exposes the current buffer. Callers must not retain it across a Step.
func (g *Grid) Cells() []Cell { return g.cur }

// Swap exchanges the buffer handles; no data is copied.
func (g *Grid) Swap() {
	g.cur, g.nxt = g.nxt, g.cur
}

// Reset fills both buffers with a=1, b=0.
func (g *Grid) Reset() {
	for k := range g.cur {
		g.cur[k] = Cell{A: 1}
		g.nxt[k] = Cell{A: 1}
	}
}

func (g *Grid) Clone() *Grid {
	c := &Grid{
		cols: g.cols,
		rows: g.rows,
		cur:  make([]Cell, len(g.cur)),
		nxt:  make([]Cell, len(g.nxt)),
	}
	copy(c.cur, g.cur)
	copy(c.nxt, g.nxt)
	return c
}

// Equal compares the current buffers.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.cols != other.cols || g.rows != other.rows {
		return false
	}
	for k := range g.cur {
		if g.cur[k] != other.cur[k] {
			return false
		}
	}
	return true
}
