package pattern

import (
	"time"

	"github.com/pkg/errors"

	"github.com/coreman2200/soundbars/internal/layout"
	"github.com/coreman2200/soundbars/internal/led"
	"github.com/coreman2200/soundbars/internal/palette"
	"github.com/coreman2200/soundbars/internal/timer"
)

const (
	// FadeAmount is the default per-frame trail decay.
	FadeAmount = 48
	// HeartbeatFade is the slower decay used under the heartbeat flash.
	HeartbeatFade = 8

	ColorCycleInterval = 10 * time.Millisecond
	ScrollInterval     = 30 * time.Millisecond
)

// Input is the per-frame data a pattern may draw from. Slices are indexed by
// logical band and must not be modified.
type Input struct {
	Now     time.Duration
	Raw     []int
	Bars    []int
	Peaks   []int
	Palette *palette.Palette
}

// Renderer draws the selected pattern. It owns the per-pattern soft timers,
// which keep their state across pattern switches.
type Renderer struct {
	layout   layout.Layout
	patterns []Pattern
	solid    led.Color

	purple, heat, outrun palette.Palette

	colorTimer uint8
	colorTick  timer.Every
	scroll     timer.Every
	scrollDue  bool
	heart      beat
	flashDue   bool
	pride      pride
}

// New creates a renderer for patterns on l. Bar patterns need a matrix.
func New(l layout.Layout, patterns []Pattern, solid led.Color) (*Renderer, error) {
	if len(patterns) == 0 {
		return nil, errors.New("pattern: empty rotation")
	}
	if !l.IsMatrix() {
		for _, p := range patterns {
			if p.Mode == Bars {
				return nil, errors.Errorf("pattern %s needs a matrix layout, %s is a strip", p.Name, l.Name)
			}
		}
	}
	return &Renderer{
		layout:    l,
		patterns:  patterns,
		solid:     solid,
		purple:    palette.Purple.Palette(),
		heat:      palette.Heat.Palette(),
		outrun:    palette.Outrun.Palette(),
		colorTick: timer.NewEvery(ColorCycleInterval),
		scroll:    timer.NewEvery(ScrollInterval),
		heart:     newBeat(),
	}, nil
}

// Patterns returns the rotation.
func (r *Renderer) Patterns() []Pattern { return r.patterns }

// Pattern returns rotation entry i, wrapping out-of-range indices.
func (r *Renderer) Pattern(i int) Pattern {
	n := len(r.patterns)
	return r.patterns[((i%n)+n)%n]
}

// SetSolid changes the colour used by the solid and heartbeat patterns.
func (r *Renderer) SetSolid(c led.Color) { r.solid = c }

// Tick runs the soft timers belonging to p. Timers of inactive patterns are
// left alone.
func (r *Renderer) Tick(now time.Duration, p Pattern) {
	switch {
	case p.Mode == Bars && p.Bars == ChangingBars:
		if r.colorTick.Ready(now) {
			r.colorTimer++
		}
	case p.Mode == Bars && p.Bars == Waterfall:
		if r.scroll.Ready(now) {
			r.scrollDue = true
		}
	case p.Mode == Heartbeat:
		if r.heart.update(now) {
			r.flashDue = true
		}
	}
}

// Prepare applies the background policy of p to the previous frame.
func (r *Renderer) Prepare(buf led.Buffer, p Pattern) {
	switch {
	case p.Mode == Heartbeat:
		buf.FadeToBlackBy(HeartbeatFade)
	case p.Mode == Solid, p.KeepsBackground():
	default:
		buf.FadeToBlackBy(FadeAmount)
	}
}

// Render draws p into buf.
func (r *Renderer) Render(buf led.Buffer, p Pattern, in Input) {
	switch p.Mode {
	case Sound:
		r.renderSum(buf, in)
	case Bars:
		r.renderBars(buf, p, in)
	case Twinkle:
		renderTwinkle(buf, r.layout, in)
	case Pride:
		r.pride.render(buf, r.layout, in.Now)
	case Heartbeat:
		if r.flashDue {
			r.flashDue = false
			r.fillRuns(buf, r.solid)
		}
	case Solid:
		buf.Fill(r.solid)
	}
}

// fillRuns sets every pixel the layout addresses.
func (r *Renderer) fillRuns(buf led.Buffer, c led.Color) {
	for p := 0; p < r.layout.Length(); p++ {
		if i, ok := r.layout.Linear(p); ok {
			buf.Set(i, c)
		}
	}
}

// ColorTimer returns the hue offset of the changing bar style.
func (r *Renderer) ColorTimer() uint8 { return r.colorTimer }
