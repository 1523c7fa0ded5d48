package layout

import (
	"sort"

	"github.com/pkg/errors"
)

var presets = map[string]Layout{
	"matrix16": {
		Matrix: &Matrix{Width: 16, Height: 16, Serpentine: true},
		Bands:  16,
	},
	"matrix8": {
		Matrix: &Matrix{Width: 8, Height: 18},
		Bands:  8,
	},
	"strip": {
		Segments: []Segment{{Start: 0, Length: 60, Centered: true}},
		Bands:    16,
		Scale:    16,
	},
	"ribcage": {
		Segments: ribs(10, 24, 10, 4),
		Bands:    16,
		Scale:    16,
	},
	"bike": {
		Segments: []Segment{
			{Start: 0, Length: 30},
			{Start: 30, Length: 22, Reversed: true},
			{Start: 52, Length: 40},
			{Start: 92, Length: 18, Reversed: true},
			{Start: 110, Length: 26},
		},
		Bands: 16,
		Scale: 16,
	},
}

// ribs lays out n equal runs separated by gap dark pixels, alternating
// direction so that every run starts at the same end of the frame.
func ribs(offset, length, gap, n int) []Segment {
	segs := make([]Segment, n)
	for i := range segs {
		segs[i] = Segment{
			Start:    offset + i*(length+gap),
			Length:   length,
			Reversed: i%2 == 1,
		}
	}
	return segs
}

// Preset returns the named built-in layout.
func Preset(name string) (Layout, error) {
	l, ok := presets[name]
	if !ok {
		return Layout{}, errors.Errorf("unknown layout %q", name)
	}
	l.Name = name
	if l.Matrix != nil {
		m := *l.Matrix
		l.Matrix = &m
	}
	l.Segments = append([]Segment(nil), l.Segments...)
	return l, nil
}

// PresetNames lists the built-in layouts.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
