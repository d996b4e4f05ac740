package render

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/san-kum/rdsim/internal/dynamo"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want dynamo.RGB
	}{
		{"#000000", dynamo.RGB{0, 0, 0}},
		{"#0000ff", dynamo.RGB{0, 0, 255}},
		{"ff8800", dynamo.RGB{255, 136, 0}},
		{" #FFFFFF ", dynamo.RGB{255, 255, 255}},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if err != nil {
			t.Fatalf("ParseHex(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if back := FormatHex(got); back != got.Hex() {
			t.Errorf("FormatHex(%v) = %s, want %s", got, back, got.Hex())
		}
	}

	if _, err := ParseHex("#zzzzzz"); !errors.Is(err, dynamo.ErrInvalidColor) {
		t.Errorf("expected ErrInvalidColor, got %v", err)
	}
}

func TestRandomPaletteDeterministic(t *testing.T) {
	a1, b1 := RandomPalette(rand.New(rand.NewPCG(7, 7)))
	a2, b2 := RandomPalette(rand.New(rand.NewPCG(7, 7)))
	if a1 != a2 || b1 != b2 {
		t.Error("same seed should give the same palette")
	}

	// Background is dark, foreground bright.
	lum := func(c dynamo.RGB) int { return int(c[0]) + int(c[1]) + int(c[2]) }
	if lum(a1) >= lum(b1) {
		t.Errorf("expected darker background: %v vs %v", a1, b1)
	}
}
