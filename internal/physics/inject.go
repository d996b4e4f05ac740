package physics

import "math"

// SeedRadius is the radius of the drop placed at the center on reinitialization.
const SeedRadius = 10.0

// Inject sets b=1 on every cell whose squared distance from the floored
// center is below radius². Only the clipped bounding box is visited and the
// disk does not wrap across edges. It returns the number of cells touched.
func Inject(g *Grid, x, y, radius float64) int {
	if !(radius > 0) || math.IsInf(radius, 0) || math.IsNaN(x) || math.IsNaN(y) {
		return 0
	}

	cx := int(math.Floor(x))
	cy := int(math.Floor(y))
	reach := int(math.Ceil(radius)) + 1
	r2 := radius * radius

	i0, i1 := max(0, cx-reach), min(g.cols-1, cx+reach)
	j0, j1 := max(0, cy-reach), min(g.rows-1, cy+reach)

	n := 0
	for j := j0; j <= j1; j++ {
		dy := float64(j - cy)
		for i := i0; i <= i1; i++ {
			dx := float64(i - cx)
			if dx*dx+dy*dy < r2 {
				g.cur[j*g.cols+i].B = 1
				n++
			}
		}
	}
	return n
}

// Seed resets the grid to a=1, b=0 and places the initial drop at the center.
func Seed(g *Grid) {
	g.Reset()
	Inject(g, float64(g.cols/2), float64(g.rows/2), SeedRadius)
}
