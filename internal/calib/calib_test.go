package calib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/soundbars/internal/layout"
	"github.com/coreman2200/soundbars/internal/led"
)

func run(t *testing.T, r *Runner, l layout.Layout) []led.Buffer {
	t.Helper()
	var frames []led.Buffer
	buf := led.NewBuffer(l.Count())
	for i := 0; i < 10000; i++ {
		if !r.Step(l, buf) {
			return frames
		}
		frames = append(frames, append(led.Buffer(nil), buf...))
	}
	t.Fatal("calibration never finished")
	return nil
}

func TestUnknownKind(t *testing.T) {
	_, err := NewRunner("strobe", 1)
	assert.Error(t, err)
}

func TestIndexSweepVisitsEveryPixel(t *testing.T) {
	l, _ := layout.Preset("bike")
	r, err := NewRunner(IndexSweep, 1)
	require.NoError(t, err)

	frames := run(t, r, l)
	require.Len(t, frames, l.Count())
	for i, f := range frames {
		assert.Equal(t, led.White, f[i])
		if i > 0 {
			assert.Equal(t, led.Black, f[i-1])
		}
	}
}

func TestHoldRepeatsSteps(t *testing.T) {
	l, _ := layout.Preset("strip")
	r, _ := NewRunner(RGBTest, 3)
	frames := run(t, r, l)
	require.Len(t, frames, 3*3*rgbCycles)
	assert.Equal(t, red, frames[2][0])
	assert.Equal(t, green, frames[3][0])
	assert.Equal(t, blue, frames[17][59])
}

func TestSegmentSweepMarksRunStart(t *testing.T) {
	l, _ := layout.Preset("ribcage")
	r, _ := NewRunner(SegmentSweep, 1)
	frames := run(t, r, l)
	require.Len(t, frames, 4)

	assert.Equal(t, red, frames[0][10])
	assert.Equal(t, led.White, frames[0][33])
	// second rib is reversed so it starts at its far end
	assert.Equal(t, red, frames[1][67])
	assert.Equal(t, led.White, frames[1][44])
	assert.Equal(t, led.Black, frames[1][10])
}

func TestSegmentSweepMatrixRows(t *testing.T) {
	l, _ := layout.Preset("matrix16")
	r, _ := NewRunner(SegmentSweep, 1)
	frames := run(t, r, l)
	require.Len(t, frames, 16)

	for y, f := range frames {
		i, _ := l.Matrix.Index(0, y)
		assert.Equal(t, red, f[i], "row %d", y)
		j, _ := l.Matrix.Index(15, y)
		assert.Equal(t, led.White, f[j], "row %d", y)
	}
}
