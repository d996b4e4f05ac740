package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/render"
)

// halfBlock paints the top pixel with the foreground and the bottom pixel
// with the background, so each terminal cell carries two pixels.
const halfBlock = "▀"

// Canvas is a truecolor terminal surface of Width x Height cells and
// Width x 2*Height pixels.
type Canvas struct {
	Width, Height int
	pix           []dynamo.RGB
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

// Resize reallocates the pixel buffer; contents are cleared.
func (c *Canvas) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c.Width, c.Height = w, h
	c.pix = make([]dynamo.RGB, w*h*2)
}

func (c *Canvas) PixelSize() (int, int) { return c.Width, c.Height * 2 }

// Set colors the pixel at (x, y); out-of-range pixels are ignored.
func (c *Canvas) Set(x, y int, rgb dynamo.RGB) {
	pw, ph := c.PixelSize()
	if x < 0 || y < 0 || x >= pw || y >= ph {
		return
	}
	c.pix[y*pw+x] = rgb
}

func (c *Canvas) At(x, y int) dynamo.RGB {
	pw, _ := c.PixelSize()
	return c.pix[y*pw+x]
}

func (c *Canvas) Clear() {
	clear(c.pix)
}

// Present samples the frame nearest-neighbour onto the canvas.
func (c *Canvas) Present(f *render.Frame) error {
	if f == nil || f.Width == 0 || f.Height == 0 {
		return nil
	}
	pw, ph := c.PixelSize()
	for y := 0; y < ph; y++ {
		sy := y * f.Height / ph
		for x := 0; x < pw; x++ {
			sx := x * f.Width / pw
			px := f.RGBAAt(sx, sy)
			c.pix[y*pw+x] = dynamo.RGB{px.R, px.G, px.B}
		}
	}
	return nil
}

// FramePoint maps a canvas cell to the centre of the frame pixels it covers.
func (c *Canvas) FramePoint(col, row, frameW, frameH int) (float64, float64) {
	pw, ph := c.PixelSize()
	px := (float64(col) + 0.5) * float64(frameW) / float64(pw)
	py := (float64(row*2) + 1) * float64(frameH) / float64(ph)
	return px, py
}

func (c *Canvas) String() string {
	pw, _ := c.PixelSize()
	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		top := c.pix[row*2*pw : (row*2+1)*pw]
		bot := c.pix[(row*2+1)*pw : (row*2+2)*pw]
		for x := 0; x < pw; {
			// Runs of identical cells share one style.
			n := 1
			for x+n < pw && top[x+n] == top[x] && bot[x+n] == bot[x] {
				n++
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(top[x].Hex())).
				Background(lipgloss.Color(bot[x].Hex()))
			b.WriteString(style.Render(strings.Repeat(halfBlock, n)))
			x += n
		}
		if row < c.Height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
