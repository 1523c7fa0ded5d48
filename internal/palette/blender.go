package palette

import (
	"time"

	"github.com/coreman2200/soundbars/internal/led"
	"github.com/coreman2200/soundbars/internal/timer"
)

const (
	// AdvanceInterval is how long each gradient stays the target.
	AdvanceInterval = 10 * time.Second
	// BlendInterval is the cadence of blend steps toward the target.
	BlendInterval = 10 * time.Millisecond
	// BlendStep is the largest per-channel change in one blend step.
	BlendStep = 12
)

// Blender moves the current palette toward a target that cycles through a
// fixed rotation of palettes.
type Blender struct {
	rotation []Palette
	cursor   int

	current Palette
	target  Palette

	advance timer.Every
	blend   timer.Every
}

// NewBlender starts a blender on the first palette of rotation. An empty
// rotation falls back to Fire.
func NewBlender(rotation ...Palette) *Blender {
	if len(rotation) == 0 {
		rotation = []Palette{Fire.Palette()}
	}
	return &Blender{
		rotation: rotation,
		current:  rotation[0],
		target:   rotation[0],
		advance:  timer.NewEvery(AdvanceInterval),
		blend:    timer.NewEvery(BlendInterval),
	}
}

// NewBlenderFromGradients is NewBlender over expanded gradients.
func NewBlenderFromGradients(gradients ...Gradient) *Blender {
	rotation := make([]Palette, len(gradients))
	for i, g := range gradients {
		rotation[i] = g.Palette()
	}
	return NewBlender(rotation...)
}

// Tick runs whichever of the advance and blend timers are due at now.
func (b *Blender) Tick(now time.Duration) {
	if b.advance.Ready(now) {
		b.Advance()
	}
	if b.blend.Ready(now) {
		b.Step()
	}
}

// Advance makes the next palette in the rotation the target.
func (b *Blender) Advance() {
	b.cursor = (b.cursor + 1) % len(b.rotation)
	b.target = b.rotation[b.cursor]
}

// Step moves every channel of the current palette at most BlendStep toward
// the target.
func (b *Blender) Step() {
	for i := range b.current {
		c, t := b.current[i], b.target[i]
		b.current[i] = led.Color{
			R: approach(c.R, t.R),
			G: approach(c.G, t.G),
			B: approach(c.B, t.B),
		}
	}
}

func approach(c, t uint8) uint8 {
	switch {
	case int(t)-int(c) > BlendStep:
		return c + BlendStep
	case int(c)-int(t) > BlendStep:
		return c - BlendStep
	default:
		return t
	}
}

// Current returns the live palette.
func (b *Blender) Current() *Palette { return &b.current }

// Target returns the palette being blended toward.
func (b *Blender) Target() *Palette { return &b.target }

// Cursor returns the rotation index of the target.
func (b *Blender) Cursor() int { return b.cursor }

// Settled reports whether the current palette has reached the target.
func (b *Blender) Settled() bool { return b.current == b.target }
