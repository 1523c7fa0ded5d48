package pattern

import (
	"time"

	"github.com/coreman2200/soundbars/internal/layout"
	"github.com/coreman2200/soundbars/internal/led"
)

// pride is a slowly drifting rainbow with travelling brightness waves. Its
// phase advances with elapsed time, and each frame blends into the last.
type pride struct {
	pseudotime uint16
	hue16      uint16
	last       time.Duration
	started    bool
}

func (s *pride) render(buf led.Buffer, l layout.Layout, now time.Duration) {
	sat := uint8(beatsin88(now, 87, 220, 250))
	depth := uint8(beatsin88(now, 341, 96, 224))
	thetaInc := beatsin88(now, 203, 25*256, 40*256)
	msMul := beatsin88(now, 147, 23, 60)

	hue16 := s.hue16
	hueInc := beatsin88(now, 113, 1, 3000)

	if !s.started {
		s.last, s.started = now, true
	}
	delta := uint16((now - s.last) / time.Millisecond)
	s.last = now
	s.pseudotime += delta * msMul
	s.hue16 += delta * beatsin88(now, 400, 5, 9)

	theta := s.pseudotime
	n := l.Length()
	for p := 0; p < n; p++ {
		hue16 += hueInc
		theta += thetaInc

		b16 := uint32(int32(sin16(theta)) + 32768)
		bri16 := b16 * b16 / 65536
		bri8 := uint8(bri16*uint32(depth)/65536) + (255 - depth)

		c := led.HSV(uint8(hue16>>8), sat, bri8)
		if i, ok := l.Linear(n - 1 - p); ok {
			buf.Set(i, buf.At(i).Blend(c, 64))
		}
	}
}
