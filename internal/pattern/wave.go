package pattern

import (
	"math"
	"time"
)

// sin8 is a byte sine: a full turn over 256 with output centred on 128.
func sin8(theta uint8) uint8 {
	return uint8(128 + math.Round(127*math.Sin(float64(theta)*2*math.Pi/256)))
}

// sin16 is a signed 16 bit sine over a 65536 step turn.
func sin16(theta uint16) int16 {
	return int16(math.Round(32767 * math.Sin(float64(theta)*2*math.Pi/65536)))
}

// beatsin88 oscillates between low and high at bpm88/256 beats per minute.
func beatsin88(now time.Duration, bpm88, low, high uint16) uint16 {
	ms := uint64(now / time.Millisecond)
	beat := uint16((ms * uint64(bpm88) * 280) >> 16)
	s := uint32(int32(sin16(beat)) + 32768)
	width := uint32(high - low)
	return low + uint16((s*width)>>16)
}

// attackDecayWave8 rises quickly to 255 and falls back more slowly.
func attackDecayWave8(i uint8) uint8 {
	if i < 86 {
		return i * 3
	}
	i -= 86
	return 255 - (i + i/2)
}
