package render

import (
	"image"
	"image/color"

	"github.com/san-kum/rdsim/internal/compute"
	"github.com/san-kum/rdsim/internal/physics"
)

// Frame is a packed RGBA pixel buffer, four bytes per pixel.
type Frame struct {
	Width, Height int
	Pix           []uint8
}

func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

func (f *Frame) SameSize(width, height int) bool {
	return f != nil && f.Width == width && f.Height == height
}

func (f *Frame) RGBAAt(x, y int) color.RGBA {
	o := (y*f.Width + x) * 4
	return color.RGBA{R: f.Pix[o], G: f.Pix[o+1], B: f.Pix[o+2], A: f.Pix[o+3]}
}

// Image wraps the buffer without copying.
func (f *Frame) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Pix,
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

func (f *Frame) Clone() *Frame {
	c := NewFrame(f.Width, f.Height)
	copy(c.Pix, f.Pix)
	return c
}

// Rasterize paints every grid cell as a res x res block into dst, allocating
// a new frame when dst is nil or has the wrong size. The mapper is only read,
// so rows are painted concurrently through the active compute backend.
func Rasterize(dst *Frame, g *physics.Grid, m *Mapper, res int) *Frame {
	if res < 1 {
		res = 1
	}
	cols, rows := g.Dimensions()
	w, h := cols*res, rows*res
	if !dst.SameSize(w, h) {
		dst = NewFrame(w, h)
	}

	cells := g.Cells()
	stride := w * 4

	compute.GetBackend().ForRows(rows, func(start, end int) {
		for j := start; j < end; j++ {
			for i := 0; i < cols; i++ {
				c := cells[j*cols+i]
				rgb := m.Map(c.A, c.B)
				for py := j * res; py < (j+1)*res; py++ {
					o := py*stride + i*res*4
					for px := 0; px < res; px++ {
						dst.Pix[o] = rgb[0]
						dst.Pix[o+1] = rgb[1]
						dst.Pix[o+2] = rgb[2]
						dst.Pix[o+3] = 255
						o += 4
					}
				}
			}
		}
	})
	return dst
}
