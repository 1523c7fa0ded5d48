package pattern

import "github.com/coreman2200/soundbars/internal/led"

// renderSum lights each run in proportion to the summed bar heights, coloured
// by position along the run. Centred runs grow outward from their middle.
func (r *Renderer) renderSum(buf led.Buffer, in Input) {
	full := r.layout.Bands * r.layout.Height()
	if full == 0 {
		return
	}
	sum := 0
	for _, b := range in.Bars {
		sum += b
	}

	for _, s := range r.layout.Runs() {
		n := s.Length
		if s.Centered {
			n = s.Half()
		}
		lit := min(sum*n/full, n)
		for p := 0; p < lit; p++ {
			c := in.Palette.ColorAt(uint8(p*255/n), 255)
			if s.Centered {
				lo, hi, _ := s.Mirror(p)
				buf.Set(lo, c)
				buf.Set(hi, c)
				continue
			}
			if i, ok := s.Index(p); ok {
				buf.Set(i, c)
			}
		}
	}
}
