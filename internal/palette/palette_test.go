package palette

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/soundbars/internal/led"
)

func TestGradientEndpoints(t *testing.T) {
	p := Fire.Palette()
	assert.Equal(t, led.Color{R: 255}, p[0])
	assert.Equal(t, led.Color{R: 255, G: 215}, p[Size-1])
}

func TestGradientInterpolates(t *testing.T) {
	g := Gradient{rgb(0, 0, 0, 0), rgb(255, 254, 0, 0)}
	assert.Equal(t, uint8(0), g.At(0).R)
	assert.InDelta(t, 127, int(g.At(128).R), 1)
	assert.Equal(t, uint8(254), g.At(255).R)
}

func TestColorAtEntriesAndBlend(t *testing.T) {
	var p Palette
	p[0] = led.Color{R: 200}
	p[1] = led.Color{G: 200}

	assert.Equal(t, led.Color{R: 200}, p.ColorAt(0, 255))
	assert.Equal(t, led.Color{G: 200}, p.ColorAt(16, 255))

	mid := p.ColorAt(8, 255)
	assert.InDelta(t, 100, int(mid.R), 2)
	assert.InDelta(t, 100, int(mid.G), 2)
}

func TestColorAtWrapsFromLastEntry(t *testing.T) {
	var p Palette
	p[0] = led.Color{B: 240}
	c := p.ColorAt(248, 255)
	assert.Greater(t, c.B, uint8(0), "entry 15 blends toward entry 0")
}

func TestColorAtBrightness(t *testing.T) {
	var p Palette
	p[0] = led.Color{R: 255}
	assert.Equal(t, uint8(128), p.ColorAt(0, 128).R)
}

func TestBlendReachesTargetAndStays(t *testing.T) {
	var a, b Palette
	for i := range b {
		b[i] = led.Color{R: 255, G: 100, B: 7}
	}
	bl := NewBlender(a, b)
	bl.Advance()
	require.Equal(t, 1, bl.Cursor())

	for i := 0; i < 22; i++ {
		before := bl.Current()[0]
		bl.Step()
		after := bl.Current()[0]
		assert.LessOrEqual(t, int(after.R)-int(before.R), BlendStep)
	}
	require.True(t, bl.Settled())

	settled := *bl.Current()
	for i := 0; i < 10; i++ {
		bl.Step()
	}
	assert.Equal(t, settled, *bl.Current())
}

func TestBlendStepsDown(t *testing.T) {
	var a, b Palette
	a[3] = led.Color{R: 30}
	bl := NewBlender(a, b)
	bl.Advance()
	bl.Step()
	assert.Equal(t, uint8(18), bl.Current()[3].R)
	bl.Step()
	assert.Equal(t, uint8(6), bl.Current()[3].R)
	bl.Step()
	assert.Equal(t, uint8(0), bl.Current()[3].R)
}

func TestTickTimers(t *testing.T) {
	bl := NewBlenderFromGradients(Fire, Ice, Fairy)
	bl.Tick(0)
	assert.Equal(t, 0, bl.Cursor())

	bl.Tick(9 * time.Second)
	assert.Equal(t, 0, bl.Cursor())

	bl.Tick(AdvanceInterval)
	assert.Equal(t, 1, bl.Cursor())
	bl.Tick(2 * AdvanceInterval)
	bl.Tick(3 * AdvanceInterval)
	assert.Equal(t, 0, bl.Cursor(), "rotation wraps")
}

func TestSinglePaletteRotationIsStable(t *testing.T) {
	bl := NewBlenderFromGradients(Fire)
	start := *bl.Current()
	for now := time.Duration(0); now < 30*time.Second; now += 10 * time.Millisecond {
		bl.Tick(now)
	}
	assert.Equal(t, start, *bl.Current())
	assert.True(t, bl.Settled())
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		_, ok := Lookup(name)
		assert.True(t, ok, name)
	}
	_, ok := Lookup("plaid")
	assert.False(t, ok)
}
