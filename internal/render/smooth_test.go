package render

import (
	"bytes"
	"testing"
)

func TestBlendPassThrough(t *testing.T) {
	f := []uint8{0, 17, 128, 255, 255, 3, 99, 255}
	for _, factor := range []float64{0, 0.2, 0.5, 0.99} {
		out := make([]uint8, len(f))
		Blend(out, f, f, factor)
		if !bytes.Equal(out, f) {
			t.Errorf("factor %g: blending a frame with itself changed it: %v", factor, out)
		}
	}
}

func TestBlendFormula(t *testing.T) {
	cur := []uint8{100, 0, 200, 255}
	prev := []uint8{0, 100, 100, 0}
	out := make([]uint8, 4)

	Blend(out, cur, prev, 0.2)

	want := []uint8{80, 20, 180, 255}
	if !bytes.Equal(out, want) {
		t.Errorf("got %v, want %v", out, want)
	}
}

func TestSmootherSeedsOnFirstFrame(t *testing.T) {
	s := NewSmoother()
	f := NewFrame(1, 1)
	copy(f.Pix, []uint8{10, 20, 30, 255})

	s.Smooth(f, 0.5)
	if !bytes.Equal(f.Pix, []uint8{10, 20, 30, 255}) {
		t.Errorf("first frame should pass through, got %v", f.Pix)
	}
	if !s.Primed() {
		t.Error("smoother should be primed")
	}

	next := NewFrame(1, 1)
	copy(next.Pix, []uint8{30, 40, 50, 255})
	s.Smooth(next, 0.5)
	if !bytes.Equal(next.Pix, []uint8{20, 30, 40, 255}) {
		t.Errorf("got %v", next.Pix)
	}
}

func TestSmootherRetainsBlendedOutput(t *testing.T) {
	s := NewSmoother()
	first := NewFrame(1, 1)
	copy(first.Pix, []uint8{0, 0, 0, 255})
	s.Smooth(first, 0.5)

	white := func() *Frame {
		f := NewFrame(1, 1)
		copy(f.Pix, []uint8{200, 200, 200, 255})
		return f
	}

	f1 := white()
	s.Smooth(f1, 0.5)
	f2 := white()
	s.Smooth(f2, 0.5)

	if f1.Pix[0] != 100 || f2.Pix[0] != 150 {
		t.Errorf("expected 100 then 150 from retained blend, got %d then %d", f1.Pix[0], f2.Pix[0])
	}
}

func TestSmootherZeroFactorAndReset(t *testing.T) {
	s := NewSmoother()
	a := NewFrame(1, 1)
	s.Smooth(a, 0.2)

	b := NewFrame(1, 1)
	b.Pix[0] = 90
	s.Smooth(b, 0)
	if b.Pix[0] != 90 {
		t.Errorf("factor 0 should pass through, got %d", b.Pix[0])
	}

	s.Reset()
	if s.Primed() {
		t.Error("reset should clear the retained frame")
	}

	big := NewFrame(2, 2)
	big.Pix[0] = 40
	s.Smooth(big, 0.9)
	if big.Pix[0] != 40 {
		t.Errorf("reseeded frame should pass through, got %d", big.Pix[0])
	}
}
