package physics

import "github.com/san-kum/rdsim/internal/compute"

// Stepper advances a Grid by one time step. Rows are handed to the backend
// in disjoint ranges; each row writes only its own cells of the next buffer.
type Stepper struct {
	backend compute.Backend
	steps   int
}

// NewStepper uses the process-wide backend when b is nil.
func NewStepper(b compute.Backend) *Stepper {
	if b == nil {
		b = compute.GetBackend()
	}
	return &Stepper{backend: b}
}

func (s *Stepper) Backend() compute.Backend { return s.backend }

func (s *Stepper) Steps() int { return s.steps }

func (s *Stepper) Step(g *Grid, r Rates) {
	s.backend.ForRows(g.rows, func(start, end int) {
		for j := start; j < end; j++ {
			stepRow(g, r, j)
		}
	})
	g.Swap()
	s.steps++
}

func stepRow(g *Grid, r Rates, j int) {
	cols := g.cols
	up := wrap(j-1, g.rows) * cols
	mid := j * cols
	down := wrap(j+1, g.rows) * cols
	cur := g.cur

	for i := 0; i < cols; i++ {
		l := wrap(i-1, cols)
		rt := wrap(i+1, cols)

		lapA, lapB := laplace(cur, mid+i, up+i, down+i, mid+l, mid+rt, up+l, up+rt, down+l, down+rt)
		c := cur[mid+i]
		a, b := r.Update(c.A, c.B, lapA, lapB)
		g.nxt[mid+i] = Cell{A: a, B: b}
	}
}
