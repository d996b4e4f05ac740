package render

// Blend writes cur*(1-factor) + prev*factor into dst for the RGB channels,
// truncated toward zero. Alpha bytes are copied from cur.
func Blend(dst, cur, prev []uint8, factor float64) {
	for k := range cur {
		if k%4 == 3 {
			dst[k] = cur[k]
			continue
		}
		c := float64(cur[k])
		dst[k] = uint8(c + (float64(prev[k])-c)*factor)
	}
}

// Smoother keeps the previous output frame.
type Smoother struct {
	prev   []uint8
	primed bool
}

func NewSmoother() *Smoother {
	return &Smoother{}
}

// Smooth blends f in place with the retained frame and then retains the result.
// The first frame, or a frame of a different size, only seeds the buffer.
func (s *Smoother) Smooth(f *Frame, factor float64) {
	if !s.primed || len(s.prev) != len(f.Pix) {
		s.prev = append(s.prev[:0], f.Pix...)
		s.primed = true
		return
	}
	if factor > 0 {
		Blend(f.Pix, f.Pix, s.prev, factor)
	}
	copy(s.prev, f.Pix)
}

func (s *Smoother) Reset() {
	s.prev = s.prev[:0]
	s.primed = false
}

func (s *Smoother) Primed() bool { return s.primed }
