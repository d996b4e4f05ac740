package analysis

import "github.com/san-kum/rdsim/internal/physics"

// Wavelength tracks the dominant pattern period, recomputed every Every ticks.
type Wavelength struct {
	Every int
	value float64
	last  int
}

func NewWavelength(every int) *Wavelength {
	if every < 1 {
		every = 1
	}
	return &Wavelength{Every: every, last: -every}
}

func (w *Wavelength) Name() string { return "wavelength" }

func (w *Wavelength) Observe(g *physics.Grid, tick int) {
	if tick-w.last < w.Every {
		return
	}
	w.last = tick
	if lambda, ok := DominantWavelength(g); ok {
		w.value = lambda
	} else {
		w.value = 0
	}
}

func (w *Wavelength) Value() float64 { return w.value }

func (w *Wavelength) Reset() {
	w.value = 0
	w.last = -w.Every
}
