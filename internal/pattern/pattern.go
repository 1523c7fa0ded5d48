// Package pattern renders the selectable animations into a pixel buffer.
//
// A Pattern pairs a Mode with a bar style and a peak style; the Renderer is a
// single dispatcher over that pair, consulting the layout for every write.
package pattern

import (
	"github.com/pkg/errors"

	"github.com/coreman2200/soundbars/internal/layout"
)

// Mode selects the top-level animation.
type Mode int

const (
	// Sound lights a run proportional to the total bar energy.
	Sound Mode = iota
	// Bars draws one column per band.
	Bars
	Twinkle
	Pride
	Heartbeat
	Solid
)

var modeNames = [...]string{"sound", "bars", "twinkle", "pride", "heartbeat", "solid"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// BarStyle colours the columns of a Bars pattern.
type BarStyle int

const (
	RainbowBars BarStyle = iota
	PurpleBars
	CenterBars
	ChangingBars
	Waterfall
)

// PeakStyle colours the held peak above each column.
type PeakStyle int

const (
	NoPeak PeakStyle = iota
	WhitePeak
	OutrunPeak
)

// Pattern is one entry of the rotation.
type Pattern struct {
	Name string
	Mode Mode
	Bars BarStyle
	Peak PeakStyle
}

// KeepsBackground reports whether the pattern draws over the previous frame
// rather than a faded one.
func (p Pattern) KeepsBackground() bool {
	return p.Mode == Pride || (p.Mode == Bars && p.Bars == Waterfall)
}

var catalogue = []Pattern{
	{Name: "rainbow", Mode: Bars, Bars: RainbowBars, Peak: WhitePeak},
	{Name: "purple", Mode: Bars, Bars: PurpleBars, Peak: WhitePeak},
	{Name: "center", Mode: Bars, Bars: CenterBars},
	{Name: "changing", Mode: Bars, Bars: ChangingBars, Peak: OutrunPeak},
	{Name: "waterfall", Mode: Bars, Bars: Waterfall},
	{Name: "sound", Mode: Sound},
	{Name: "twinkle", Mode: Twinkle},
	{Name: "pride", Mode: Pride},
	{Name: "heartbeat", Mode: Heartbeat},
	{Name: "solid", Mode: Solid},
}

var (
	matrixRotation = []string{"rainbow", "purple", "center", "changing", "waterfall", "twinkle", "pride", "heartbeat", "solid"}
	stripRotation  = []string{"sound", "twinkle", "pride", "heartbeat", "solid"}
)

// Lookup returns the catalogue pattern called name.
func Lookup(name string) (Pattern, bool) {
	for _, p := range catalogue {
		if p.Name == name {
			return p, true
		}
	}
	return Pattern{}, false
}

// Named builds a rotation from pattern names.
func Named(names ...string) ([]Pattern, error) {
	out := make([]Pattern, 0, len(names))
	for _, n := range names {
		p, ok := Lookup(n)
		if !ok {
			return nil, errors.Errorf("unknown pattern %q", n)
		}
		out = append(out, p)
	}
	return out, nil
}

// Default returns the stock rotation for a layout.
func Default(l layout.Layout) []Pattern {
	names := stripRotation
	if l.IsMatrix() {
		names = matrixRotation
	}
	ps, _ := Named(names...)
	return ps
}
