package physics

import "github.com/san-kum/rdsim/internal/dynamo"

const (
	CenterWeight   = -1.0
	CardinalWeight = 0.2
	DiagonalWeight = 0.05

	// DiffusionScale multiplies D/DT in the diffusion term.
	DiffusionScale = 0.8
)

// Stencil is the 3x3 Laplacian kernel indexed [dy+1][dx+1].
var Stencil = [3][3]float64{
	{DiagonalWeight, CardinalWeight, DiagonalWeight},
	{CardinalWeight, CenterWeight, CardinalWeight},
	{DiagonalWeight, CardinalWeight, DiagonalWeight},
}

// Rates is the subset of parameters the stepper reads.
type Rates struct {
	DA, DB     float64
	Feed, Kill float64
	DT         float64
}

func RatesFrom(p dynamo.Params) Rates {
	return Rates{
		DA:   p.DiffusionA,
		DB:   p.DiffusionB,
		Feed: p.Feed,
		Kill: p.Kill,
		DT:   p.TimeStep,
	}
}

// Update applies the reaction-diffusion rule to one cell given its Laplacians.
func (r Rates) Update(a, b, lapA, lapB float64) (float64, float64) {
	reaction := a * b * b
	scale := DiffusionScale / r.DT

	na := a + (r.DA*scale*lapA-reaction+r.Feed*(1-a))*r.DT
	nb := b + (r.DB*scale*lapB+reaction-(r.Kill+r.Feed)*b)*r.DT
	return clamp01(na), clamp01(nb)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Laplacian evaluates the stencil at (i, j) on the current buffer with periodic wrap.
func (g *Grid) Laplacian(i, j int) (lapA, lapB float64) {
	k := g.index(i, j)
	cols := g.cols
	up := wrap(j-1, g.rows) * cols
	mid := j * cols
	down := wrap(j+1, g.rows) * cols
	l, r := wrap(i-1, cols), wrap(i+1, cols)
	return laplace(g.cur, k, up+i, down+i, mid+l, mid+r, up+l, up+r, down+l, down+r)
}

// laplace sums the neighbor terms before the center so a uniform field yields exactly zero.
func laplace(cur []Cell, c, n, s, w, e, nw, ne, sw, se int) (lapA, lapB float64) {
	lapA = CardinalWeight*(cur[n].A+cur[s].A+cur[w].A+cur[e].A) +
		DiagonalWeight*(cur[nw].A+cur[ne].A+cur[sw].A+cur[se].A) +
		CenterWeight*cur[c].A
	lapB = CardinalWeight*(cur[n].B+cur[s].B+cur[w].B+cur[e].B) +
		DiagonalWeight*(cur[nw].B+cur[ne].B+cur[sw].B+cur[se].B) +
		CenterWeight*cur[c].B
	return lapA, lapB
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
