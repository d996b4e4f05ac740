package render

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/crazy3lf/colorconv"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/rdsim/internal/dynamo"
)

func ParseHex(s string) (dynamo.RGB, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return dynamo.RGB{}, fmt.Errorf("%w %q: %v", dynamo.ErrInvalidColor, s, err)
	}
	r, g, b := c.Clamped().RGB255()
	return dynamo.RGB{r, g, b}, nil
}

func MustParseHex(s string) dynamo.RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func FormatHex(c dynamo.RGB) string {
	return colorful.Color{
		R: float64(c[0]) / 255,
		G: float64(c[1]) / 255,
		B: float64(c[2]) / 255,
	}.Hex()
}

// RandomPalette picks a dark background and a saturated foreground with
// complementary-ish hues.
func RandomPalette(rng *rand.Rand) (a, b dynamo.RGB) {
	hue := rng.Float64() * 360
	ar, ag, ab, _ := colorconv.HSVToRGB(hue, 0.5+rng.Float64()*0.5, 0.1+rng.Float64()*0.2)
	shift := 120 + rng.Float64()*120
	br, bg, bb, _ := colorconv.HSVToRGB(mod360(hue+shift), 0.7+rng.Float64()*0.3, 0.8+rng.Float64()*0.2)
	return dynamo.RGB{ar, ag, ab}, dynamo.RGB{br, bg, bb}
}

func mod360(h float64) float64 {
	for h >= 360 {
		h -= 360
	}
	return h
}
