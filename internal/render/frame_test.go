package render

import (
	"testing"

	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/physics"
)

func TestRasterizeBlocks(t *testing.T) {
	g := physics.NewGrid(4, 3)
	g.Set(1, 2, 0.5, 0.4)

	p := testParams(dynamo.ModeBlend)
	m := NewMapper(p)
	f := Rasterize(nil, g, m, 3)

	if f.Width != 12 || f.Height != 9 {
		t.Fatalf("expected 12x9 frame, got %dx%d", f.Width, f.Height)
	}

	want := m.Map(0.5, 0.4)
	for y := 6; y < 9; y++ {
		for x := 3; x < 6; x++ {
			c := f.RGBAAt(x, y)
			if c.R != want[0] || c.G != want[1] || c.B != want[2] || c.A != 255 {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, c, want)
			}
		}
	}

	bg := f.RGBAAt(0, 0)
	if bg.R != p.ColorA[0] || bg.A != 255 {
		t.Errorf("untouched cell should show colorA, got %v", bg)
	}
}

func TestRasterizeReusesFrame(t *testing.T) {
	g := physics.NewGrid(5, 5)
	m := NewMapper(dynamo.DefaultParams())

	f1 := Rasterize(nil, g, m, 2)
	f2 := Rasterize(f1, g, m, 2)
	if f1 != f2 {
		t.Error("expected same-size frame to be reused")
	}

	f3 := Rasterize(f2, g, m, 3)
	if f3 == f2 || f3.Width != 15 {
		t.Errorf("expected new 15px frame on resolution change, got %d", f3.Width)
	}
}

func TestFrameImage(t *testing.T) {
	f := NewFrame(3, 2)
	f.Pix[(1*3+2)*4] = 77
	img := f.Image()
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("bounds %v", img.Bounds())
	}
	if img.RGBAAt(2, 1).R != 77 {
		t.Error("image should share the frame buffer")
	}
}
