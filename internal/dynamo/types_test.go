package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultParamsValid(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("default params rejected: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		want   error
		field  string
	}{
		{"zero diffusion a", func(p *Params) { p.DiffusionA = 0 }, ErrParameterBounds, "diffusion_a"},
		{"negative diffusion b", func(p *Params) { p.DiffusionB = -1 }, ErrParameterBounds, "diffusion_b"},
		{"feed one", func(p *Params) { p.Feed = 1 }, ErrParameterBounds, "feed"},
		{"kill zero", func(p *Params) { p.Kill = 0 }, ErrParameterBounds, "kill"},
		{"nan feed", func(p *Params) { p.Feed = math.NaN() }, ErrParameterBounds, "feed"},
		{"zero time step", func(p *Params) { p.TimeStep = 0 }, ErrInvalidTimeStep, "time_step"},
		{"inf time step", func(p *Params) { p.TimeStep = math.Inf(1) }, ErrInvalidTimeStep, "time_step"},
		{"zero resolution", func(p *Params) { p.Resolution = 0 }, ErrInvalidResolution, "resolution"},
		{"zero drop radius", func(p *Params) { p.DropRadius = 0 }, ErrParameterBounds, "drop_radius"},
		{"threshold one", func(p *Params) { p.ColorThreshold = 1 }, ErrParameterBounds, "color_threshold"},
		{"smoothing negative", func(p *Params) { p.Smoothing = -0.1 }, ErrParameterBounds, "smoothing"},
		{"bad mode", func(p *Params) { p.Mode = Mode(9) }, ErrUnknownMode, "mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var pe *ParamError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParamError, got %T", err)
			}
			if pe.Name != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, pe.Name)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"a", ModeA},
		{"B", ModeB},
		{"blend", ModeBlend},
		{" subtract ", ModeSubtract},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if back, _ := ParseMode(got.String()); back != got {
			t.Errorf("round trip of %v gave %v", got, back)
		}
	}

	if _, err := ParseMode("sepia"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
}

func TestModeNextCycles(t *testing.T) {
	m := ModeA
	for range Modes() {
		m = m.Next()
	}
	if m != ModeA {
		t.Errorf("expected cycle back to a, got %v", m)
	}
}

func TestSetParam(t *testing.T) {
	p := DefaultParams()
	if err := p.SetParam("feed", 0.05); err != nil {
		t.Fatal(err)
	}
	if p.Feed != 0.05 {
		t.Errorf("feed not updated: %f", p.Feed)
	}
	if got := p.GetParams()["feed"]; got != 0.05 {
		t.Errorf("GetParams feed = %f", got)
	}
	if err := p.SetParam("gravity", 1); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func TestGridSize(t *testing.T) {
	p := DefaultParams()
	cols, rows := p.GridSize(800, 600)
	if cols != 266 || rows != 200 {
		t.Errorf("expected 266x200, got %dx%d", cols, rows)
	}
}

func TestRGBHex(t *testing.T) {
	if got := (RGB{0, 0, 255}).Hex(); got != "#0000ff" {
		t.Errorf("got %s", got)
	}
}
