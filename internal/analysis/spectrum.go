package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/rdsim/internal/physics"
)

// Spectrum holds the radially averaged power spectrum of field B.
// Power[k] averages |F|² over wavenumbers in [k, k+1) cycles per Size cells.
type Spectrum struct {
	Size  int
	Power []float64
}

// ComputeSpectrum removes the mean of B and transforms it. The DC bin is
// always zero.
func ComputeSpectrum(g *physics.Grid) Spectrum {
	cols, rows := g.Dimensions()
	cells := g.Cells()

	mean := 0.0
	for _, c := range cells {
		mean += c.B
	}
	mean /= float64(len(cells))

	field := make([][]float64, rows)
	for j := range field {
		field[j] = make([]float64, cols)
		for i := range field[j] {
			field[j][i] = cells[j*cols+i].B - mean
		}
	}
	freq := fft.FFT2Real(field)

	size := max(cols, rows)
	bins := size/2 + 1
	power := make([]float64, bins)
	counts := make([]int, bins)
	for v := 0; v < rows; v++ {
		ky := signedFreq(v, rows) / float64(rows)
		for u := 0; u < cols; u++ {
			kx := signedFreq(u, cols) / float64(cols)
			k := int(math.Round(math.Hypot(kx, ky) * float64(size)))
			if k >= bins {
				continue
			}
			a := cmplx.Abs(freq[v][u])
			power[k] += a * a
			counts[k]++
		}
	}
	for k := range power {
		if counts[k] > 0 {
			power[k] /= float64(counts[k])
		}
	}
	power[0] = 0
	return Spectrum{Size: size, Power: power}
}

func signedFreq(i, n int) float64 {
	if i > n/2 {
		return float64(i - n)
	}
	return float64(i)
}

// Peak returns the wavenumber bin with the most power, or 0 for a flat field.
func (s Spectrum) Peak() int {
	best, bestPower := 0, 0.0
	for k, p := range s.Power {
		if p > bestPower*(1+1e-9) {
			best, bestPower = k, p
		}
	}
	if bestPower < 1e-12 {
		return 0
	}
	return best
}

// DominantWavelength returns the pattern period in cells. It reports false
// when the field has no structure.
func DominantWavelength(g *physics.Grid) (float64, bool) {
	s := ComputeSpectrum(g)
	k := s.Peak()
	if k == 0 {
		return 0, false
	}
	return float64(s.Size) / float64(k), true
}
