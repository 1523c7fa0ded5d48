// Package calib draws wiring checks for a layout: walk every index, flash the
// colour channels, and light each run in turn with its first pixel marked.
package calib

import (
	"github.com/pkg/errors"

	"github.com/coreman2200/soundbars/internal/layout"
	"github.com/coreman2200/soundbars/internal/led"
)

type Kind string

const (
	IndexSweep   Kind = "index_sweep"
	RGBTest      Kind = "rgb_channels"
	SegmentSweep Kind = "segment_sweep"
)

// Kinds lists the available checks.
func Kinds() []Kind { return []Kind{IndexSweep, RGBTest, SegmentSweep} }

// DefaultHold is the number of frames each step is shown for.
const DefaultHold = 5

// rgbCycles is how many times RGBTest runs through the three channels.
const rgbCycles = 2

var (
	red   = led.Color{R: 255}
	green = led.Color{G: 255}
	blue  = led.Color{B: 255}
)

// Runner steps through one check.
type Runner struct {
	kind Kind
	hold int
	step int
	held int
}

// NewRunner returns a runner for kind showing each step for hold frames.
func NewRunner(kind Kind, hold int) (*Runner, error) {
	switch kind {
	case IndexSweep, RGBTest, SegmentSweep:
	default:
		return nil, errors.Errorf("unknown calibration %q", kind)
	}
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Runner{kind: kind, hold: hold}, nil
}

func (r *Runner) Kind() Kind { return r.kind }

// Step draws the current step into buf and reports false once the check has
// finished.
func (r *Runner) Step(l layout.Layout, buf led.Buffer) bool {
	buf.Clear()
	if !r.draw(l, buf) {
		return false
	}
	r.held++
	if r.held >= r.hold {
		r.held = 0
		r.step++
	}
	return true
}

func (r *Runner) draw(l layout.Layout, buf led.Buffer) bool {
	switch r.kind {
	case IndexSweep:
		if r.step >= len(buf) {
			return false
		}
		buf[r.step] = led.White
	case RGBTest:
		if r.step >= 3*rgbCycles {
			return false
		}
		buf.Fill([]led.Color{red, green, blue}[r.step%3])
	case SegmentSweep:
		runs := sweepRuns(l)
		if r.step >= len(runs) {
			return false
		}
		s := runs[r.step]
		for p := 0; p < s.Length; p++ {
			c := led.White
			if p == 0 {
				c = red
			}
			if i, ok := s.Index(p); ok {
				buf.Set(i, c)
			}
		}
	}
	return true
}

// sweepRuns is the runs of a strip, or the rows of a matrix bottom first.
func sweepRuns(l layout.Layout) []layout.Segment {
	if !l.IsMatrix() {
		return l.Runs()
	}
	m := l.Matrix
	rows := make([]layout.Segment, m.Height)
	for y := range rows {
		first, _ := m.Index(0, y)
		last, _ := m.Index(m.Width-1, y)
		rows[y] = layout.Segment{Start: min(first, last), Length: m.Width, Reversed: first > last}
	}
	return rows
}
