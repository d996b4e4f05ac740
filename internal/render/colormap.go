package render

import (
	"math"

	"github.com/san-kum/rdsim/internal/dynamo"
)

const (
	Gamma = 0.3

	// SubtractDarkening scales how much B darkens A in subtract mode.
	SubtractDarkening = 0.8
)

type modeFunc func(m *Mapper, ga, gb float64) (r, g, b float64)

var modeFuncs = map[dynamo.Mode]modeFunc{
	dynamo.ModeA: func(m *Mapper, ga, _ float64) (float64, float64, float64) {
		return ga * m.colorA[0], ga * m.colorA[1], ga * m.colorA[2]
	},
	dynamo.ModeB: func(m *Mapper, _, gb float64) (float64, float64, float64) {
		return gb * m.colorB[0], gb * m.colorB[1], gb * m.colorB[2]
	},
	dynamo.ModeBlend: func(m *Mapper, ga, gb float64) (float64, float64, float64) {
		return ga*m.colorA[0] + gb*m.colorB[0],
			ga*m.colorA[1] + gb*m.colorB[1],
			ga*m.colorA[2] + gb*m.colorB[2]
	},
	// Blue ignores A on purpose: B alone drives the blue channel.
	dynamo.ModeSubtract: func(m *Mapper, ga, gb float64) (float64, float64, float64) {
		dark := 1 - SubtractDarkening*gb
		return ga * m.colorA[0] * dark, ga * m.colorA[1] * dark, gb * m.colorB[2]
	},
}

// Mapper converts a cell's concentrations to a color. The float copies of
// the configured colors are cached and rebuilt by Configure.
type Mapper struct {
	mode      dynamo.Mode
	fn        modeFunc
	threshold float64
	rawA      dynamo.RGB
	colorA    [3]float64
	colorB    [3]float64
}

func NewMapper(p dynamo.Params) *Mapper {
	m := &Mapper{}
	m.Configure(p)
	return m
}

func (m *Mapper) Configure(p dynamo.Params) {
	fn, ok := modeFuncs[p.Mode]
	if !ok {
		fn = modeFuncs[dynamo.ModeBlend]
	}
	m.mode = p.Mode
	m.fn = fn
	m.threshold = p.ColorThreshold
	m.rawA = p.ColorA
	for c := 0; c < 3; c++ {
		m.colorA[c] = float64(p.ColorA[c])
		m.colorB[c] = float64(p.ColorB[c])
	}
}

func (m *Mapper) Mode() dynamo.Mode { return m.mode }

func (m *Mapper) Map(a, b float64) dynamo.RGB {
	ga := math.Pow(a, Gamma)
	gb := math.Pow(b, Gamma)

	if ga <= m.threshold || gb <= m.threshold || a == 1 || b == 1 {
		return m.rawA
	}

	r, g, bl := m.fn(m, ga, gb)
	return dynamo.RGB{channel(r), channel(g), channel(bl)}
}

func channel(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Floor(v))
}
