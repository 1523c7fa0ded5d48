// Package layout maps logical positions (a band column and a height, or a
// position along a strip) onto physical LED indices.
package layout

import "github.com/pkg/errors"

// Matrix is a rectangular panel wired row by row.
type Matrix struct {
	Width, Height int
	// Serpentine reverses the column order on every odd row.
	Serpentine bool
	// FlipY wires row 0 at the bottom of the panel instead of the top.
	FlipY bool
}

// Index maps column x and height y (0 at the bottom) to a physical index.
func (m Matrix) Index(x, y int) (int, bool) {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return 0, false
	}
	row := m.Height - 1 - y
	if m.FlipY {
		row = y
	}
	xx := x
	if m.Serpentine && row%2 == 1 {
		xx = m.Width - 1 - x
	}
	return row*m.Width + xx, true
}

// Count is the number of pixels in the panel.
func (m Matrix) Count() int { return m.Width * m.Height }

// Segment is one run of a strip.
type Segment struct {
	Start    int
	Length   int
	Reversed bool
	// Centered runs light outward from their middle in sum patterns.
	Centered bool
}

// Index maps position p along the run to a physical index. Positions outside
// the run report false and must not be written.
func (s Segment) Index(p int) (int, bool) {
	if p < 0 || p >= s.Length {
		return 0, false
	}
	if s.Reversed {
		return s.Start + s.Length - 1 - p, true
	}
	return s.Start + p, true
}

// Half is the number of mirrored pairs in the run, counting an odd middle
// pixel as a pair with itself.
func (s Segment) Half() int { return (s.Length + 1) / 2 }

// Mirror maps distance p from the middle of the run to the pixel pair on
// either side of it.
func (s Segment) Mirror(p int) (lo, hi int, ok bool) {
	if p < 0 || p >= s.Half() {
		return 0, 0, false
	}
	hi = s.Start + s.Length/2 + p
	lo = s.Start + (s.Length-1)/2 - p
	return lo, hi, true
}

// Layout is a deployment's physical geometry. Exactly one of Matrix and
// Segments is set.
type Layout struct {
	Name     string
	Matrix   *Matrix
	Segments []Segment
	// Bands is the number of logical spectrum columns, 8 or 16.
	Bands int
	// Scale is the logical bar height of a strip layout.
	Scale int
}

// IsMatrix reports whether the layout is a 2D panel.
func (l Layout) IsMatrix() bool { return l.Matrix != nil }

// Count is the size of the pixel buffer the layout addresses.
func (l Layout) Count() int {
	if l.Matrix != nil {
		return l.Matrix.Count()
	}
	n := 0
	for _, s := range l.Segments {
		if end := s.Start + s.Length; end > n {
			n = end
		}
	}
	return n
}

// Height is the vertical extent bars are scaled to.
func (l Layout) Height() int {
	if l.Matrix != nil {
		return l.Matrix.Height
	}
	return l.Scale
}

// Runs returns the linear runs of the layout. A matrix is one run over the
// whole buffer in wiring order.
func (l Layout) Runs() []Segment {
	if l.Matrix != nil {
		return []Segment{{Start: 0, Length: l.Matrix.Count()}}
	}
	return l.Segments
}

// Length is the total number of positions across all runs.
func (l Layout) Length() int {
	n := 0
	for _, s := range l.Runs() {
		n += s.Length
	}
	return n
}

// Linear maps a position in the concatenation of all runs to a physical index.
func (l Layout) Linear(p int) (int, bool) {
	if p < 0 {
		return 0, false
	}
	for _, s := range l.Runs() {
		if p < s.Length {
			return s.Index(p)
		}
		p -= s.Length
	}
	return 0, false
}

// BarWidth is the number of matrix columns drawn per band.
func (l Layout) BarWidth() int {
	if l.Matrix == nil || l.Bands == 0 {
		return 0
	}
	return l.Matrix.Width / l.Bands
}

// Bar maps band, column col within the band and height y to a physical index.
func (l Layout) Bar(band, col, y int) (int, bool) {
	w := l.BarWidth()
	if w == 0 || col < 0 || col >= w || band < 0 || band >= l.Bands {
		return 0, false
	}
	return l.Matrix.Index(band*w+col, y)
}

// Validate checks the layout is internally consistent.
func (l Layout) Validate() error {
	if l.Bands != 8 && l.Bands != 16 {
		return errors.Errorf("layout %s: bands must be 8 or 16, got %d", l.Name, l.Bands)
	}
	if l.Matrix != nil {
		if len(l.Segments) > 0 {
			return errors.Errorf("layout %s: matrix and segments are exclusive", l.Name)
		}
		if l.Matrix.Height <= 0 || l.Matrix.Width < l.Bands {
			return errors.Errorf("layout %s: %dx%d matrix cannot hold %d bands", l.Name, l.Matrix.Width, l.Matrix.Height, l.Bands)
		}
		return nil
	}
	if len(l.Segments) == 0 {
		return errors.Errorf("layout %s: no matrix or segments", l.Name)
	}
	if l.Scale <= 0 {
		return errors.Errorf("layout %s: strip scale must be positive", l.Name)
	}
	used := make(map[int]int)
	for i, s := range l.Segments {
		if s.Start < 0 || s.Length <= 0 {
			return errors.Errorf("layout %s: segment %d has start %d length %d", l.Name, i, s.Start, s.Length)
		}
		for p := s.Start; p < s.Start+s.Length; p++ {
			if j, ok := used[p]; ok {
				return errors.Errorf("layout %s: segments %d and %d overlap at %d", l.Name, j, i, p)
			}
			used[p] = i
		}
	}
	return nil
}
