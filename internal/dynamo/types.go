package dynamo

import (
	"fmt"
	"math"
	"strings"
)

type Mode int

const (
	ModeA Mode = iota
	ModeB
	ModeBlend
	ModeSubtract
)

var modeNames = [...]string{"a", "b", "blend", "subtract"}

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

func (m Mode) Valid() bool {
	return m >= ModeA && m <= ModeSubtract
}

// Next cycles through the modes in declaration order.
func (m Mode) Next() Mode {
	return (m + 1) % Mode(len(modeNames))
}

func Modes() []Mode {
	return []Mode{ModeA, ModeB, ModeBlend, ModeSubtract}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "a-only", "chemicala":
		return ModeA, nil
	case "b", "b-only", "chemicalb":
		return ModeB, nil
	case "blend", "":
		return ModeBlend, nil
	case "subtract", "sub":
		return ModeSubtract, nil
	}
	return ModeBlend, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

type RGB [3]uint8

func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// Params is the full set of tunables read at the start of every tick.
type Params struct {
	DiffusionA     float64
	DiffusionB     float64
	Feed           float64
	Kill           float64
	TimeStep       float64
	Resolution     int
	Mode           Mode
	ColorA         RGB
	ColorB         RGB
	DropRadius     float64
	ColorThreshold float64
	Smoothing      float64
}

func DefaultParams() Params {
	return Params{
		DiffusionA:     1.54,
		DiffusionB:     1.99,
		Feed:           0.031,
		Kill:           0.048,
		TimeStep:       0.7,
		Resolution:     3,
		Mode:           ModeBlend,
		ColorA:         RGB{0, 0, 0},
		ColorB:         RGB{0, 0, 255},
		DropRadius:     5,
		ColorThreshold: 0.2,
		Smoothing:      0.2,
	}
}

// Validate returns the first violated bound, or nil.
func (p Params) Validate() error {
	checks := []struct {
		name  string
		value float64
		ok    bool
	}{
		{"diffusion_a", p.DiffusionA, p.DiffusionA > 0},
		{"diffusion_b", p.DiffusionB, p.DiffusionB > 0},
		{"feed", p.Feed, p.Feed > 0 && p.Feed < 1},
		{"kill", p.Kill, p.Kill > 0 && p.Kill < 1},
		{"drop_radius", p.DropRadius, p.DropRadius > 0},
		{"color_threshold", p.ColorThreshold, p.ColorThreshold >= 0 && p.ColorThreshold < 1},
		{"smoothing", p.Smoothing, p.Smoothing >= 0 && p.Smoothing < 1},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) || !c.ok {
			return &ParamError{Name: c.name, Value: c.value, Wrapped: ErrParameterBounds}
		}
	}

	if math.IsNaN(p.TimeStep) || math.IsInf(p.TimeStep, 0) || p.TimeStep <= 0 {
		return &ParamError{Name: "time_step", Value: p.TimeStep, Wrapped: ErrInvalidTimeStep}
	}
	if p.Resolution < 1 {
		return &ParamError{Name: "resolution", Value: float64(p.Resolution), Wrapped: ErrInvalidResolution}
	}
	if !p.Mode.Valid() {
		return &ParamError{Name: "mode", Value: float64(p.Mode), Wrapped: ErrUnknownMode}
	}
	return nil
}

// GridSize returns the cell dimensions for a display of the given pixel size.
func (p Params) GridSize(width, height int) (cols, rows int) {
	if p.Resolution < 1 {
		return 0, 0
	}
	return width / p.Resolution, height / p.Resolution
}

// SetParam updates one numeric field by name. Used by sweeps and scenario overrides.
func (p *Params) SetParam(name string, value float64) error {
	switch strings.ToLower(name) {
	case "diffusion_a", "da":
		p.DiffusionA = value
	case "diffusion_b", "db":
		p.DiffusionB = value
	case "feed", "f":
		p.Feed = value
	case "kill", "k":
		p.Kill = value
	case "time_step", "dt":
		p.TimeStep = value
	case "resolution":
		p.Resolution = int(value)
	case "drop_radius":
		p.DropRadius = value
	case "color_threshold":
		p.ColorThreshold = value
	case "smoothing":
		p.Smoothing = value
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}

// GetParams mirrors SetParam for display and export.
func (p Params) GetParams() map[string]float64 {
	return map[string]float64{
		"diffusion_a":     p.DiffusionA,
		"diffusion_b":     p.DiffusionB,
		"feed":            p.Feed,
		"kill":            p.Kill,
		"time_step":       p.TimeStep,
		"resolution":      float64(p.Resolution),
		"drop_radius":     p.DropRadius,
		"color_threshold": p.ColorThreshold,
		"smoothing":       p.Smoothing,
	}
}
