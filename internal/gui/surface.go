package gui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/rdsim/internal/render"
)

// TextureSurface uploads presented frames into a GPU texture. It must be
// used from the goroutine that owns the raylib window.
type TextureSurface struct {
	tex    rl.Texture2D
	w, h   int
	pixels []color.RGBA
	loaded bool
}

func NewTextureSurface() *TextureSurface {
	return &TextureSurface{}
}

func (t *TextureSurface) Present(f *render.Frame) error {
	if f == nil || f.Width == 0 || f.Height == 0 {
		return nil
	}
	if !t.loaded || t.w != f.Width || t.h != f.Height {
		t.allocate(f.Width, f.Height)
	}
	t.pixels = toRGBA(t.pixels, f.Pix)
	rl.UpdateTexture(t.tex, t.pixels)
	return nil
}

func (t *TextureSurface) allocate(w, h int) {
	t.Unload()
	img := rl.GenImageColor(w, h, rl.Black)
	t.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(t.tex, rl.FilterPoint)
	rl.UnloadImage(img)
	t.w, t.h = w, h
	t.pixels = make([]color.RGBA, w*h)
	t.loaded = true
}

func (t *TextureSurface) Draw() {
	if !t.loaded {
		return
	}
	rl.DrawTexture(t.tex, 0, 0, rl.White)
}

func (t *TextureSurface) Size() (int, int) { return t.w, t.h }

// Unload frees the texture.
func (t *TextureSurface) Unload() {
	if t.loaded {
		rl.UnloadTexture(t.tex)
		t.loaded = false
	}
}

// toRGBA converts packed RGBA bytes to raylib's pixel layout, reusing dst.
func toRGBA(dst []color.RGBA, pix []uint8) []color.RGBA {
	n := len(pix) / 4
	if cap(dst) < n {
		dst = make([]color.RGBA, n)
	}
	dst = dst[:n]
	for i := range dst {
		o := i * 4
		dst[i] = color.RGBA{R: pix[o], G: pix[o+1], B: pix[o+2], A: pix[o+3]}
	}
	return dst
}
