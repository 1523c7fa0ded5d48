package pattern

import (
	"time"

	"github.com/coreman2200/soundbars/internal/layout"
	"github.com/coreman2200/soundbars/internal/led"
	"github.com/coreman2200/soundbars/internal/palette"
)

const (
	twinkleSeed    = 11337
	twinkleSpeed   = 4
	twinkleDensity = 5
)

// renderTwinkle draws palette-coloured pixels fading in and out, each on its
// own clock. The per-pixel parameters come from a PRNG reseeded every frame,
// so a pixel keeps its rhythm from frame to frame.
func renderTwinkle(buf led.Buffer, l layout.Layout, in Input) {
	clock := uint32(in.Now / time.Millisecond)
	prng := uint16(twinkleSeed)
	for p := 0; p < l.Length(); p++ {
		prng = prng*2053 + 1384
		offset := uint32(prng)
		prng = prng*2053 + 1384
		speed := uint32((((prng&0xff)>>4)+(prng&0x0f))&0x0f) + 0x08
		myclock := clock*speed/8 + offset
		salt := uint8(prng >> 8)

		c, ok := twinkle(in.Palette, myclock, salt)
		if !ok {
			continue
		}
		if i, ok := l.Linear(p); ok {
			buf.Set(i, c)
		}
	}
}

func twinkle(pal *palette.Palette, ms uint32, salt uint8) (led.Color, bool) {
	ticks := ms >> (8 - twinkleSpeed)
	fast := uint8(ticks)
	slow := uint16(ticks>>8) + uint16(salt)
	slow += uint16(sin8(uint8(slow)))
	slow = slow*2053 + 1384
	slow8 := uint8(slow&0xff) + uint8(slow>>8)

	if (slow8&0x0e)/2 >= twinkleDensity {
		return led.Black, false
	}
	bright := attackDecayWave8(fast)
	if bright == 0 {
		return led.Black, false
	}
	return pal.ColorAt(slow8-salt, bright), true
}
