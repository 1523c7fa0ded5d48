package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentIndex(t *testing.T) {
	fwd := Segment{Start: 10, Length: 5}
	rev := Segment{Start: 10, Length: 5, Reversed: true}

	for p := 0; p < 5; p++ {
		i, ok := fwd.Index(p)
		require.True(t, ok)
		assert.Equal(t, 10+p, i)

		i, ok = rev.Index(p)
		require.True(t, ok)
		assert.Equal(t, 14-p, i)
	}

	for _, p := range []int{-1, 5, 99} {
		_, ok := fwd.Index(p)
		assert.False(t, ok, "p=%d", p)
		_, ok = rev.Index(p)
		assert.False(t, ok, "p=%d", p)
	}
}

func TestSegmentMirror(t *testing.T) {
	even := Segment{Start: 0, Length: 60}
	lo, hi, ok := even.Mirror(0)
	require.True(t, ok)
	assert.Equal(t, 29, lo)
	assert.Equal(t, 30, hi)

	lo, hi, ok = even.Mirror(29)
	require.True(t, ok)
	assert.Equal(t, 0, lo)
	assert.Equal(t, 59, hi)

	_, _, ok = even.Mirror(30)
	assert.False(t, ok)

	odd := Segment{Start: 100, Length: 5}
	lo, hi, ok = odd.Mirror(0)
	require.True(t, ok)
	assert.Equal(t, 102, lo)
	assert.Equal(t, 102, hi)
	lo, hi, _ = odd.Mirror(2)
	assert.Equal(t, 100, lo)
	assert.Equal(t, 104, hi)
}

func TestMatrixIndex(t *testing.T) {
	m := Matrix{Width: 4, Height: 3}
	i, ok := m.Index(0, 0)
	require.True(t, ok)
	assert.Equal(t, 8, i, "bottom row is the last wired row")

	i, _ = m.Index(3, 2)
	assert.Equal(t, 3, i)

	_, ok = m.Index(4, 0)
	assert.False(t, ok)
	_, ok = m.Index(0, 3)
	assert.False(t, ok)
}

func TestMatrixSerpentine(t *testing.T) {
	m := Matrix{Width: 4, Height: 2, Serpentine: true}
	// y=0 is row 1, which is odd and therefore reversed.
	i, _ := m.Index(0, 0)
	assert.Equal(t, 7, i)
	i, _ = m.Index(0, 1)
	assert.Equal(t, 0, i)

	m.FlipY = true
	i, _ = m.Index(0, 0)
	assert.Equal(t, 0, i)
	i, _ = m.Index(0, 1)
	assert.Equal(t, 7, i)
}

func TestMatrixIndexIsBijective(t *testing.T) {
	l, err := Preset("matrix16")
	require.NoError(t, err)
	seen := make(map[int]bool)
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			i, ok := l.Matrix.Index(x, y)
			require.True(t, ok)
			require.False(t, seen[i], "duplicate %d", i)
			seen[i] = true
		}
	}
	assert.Len(t, seen, l.Count())
}

func TestBar(t *testing.T) {
	l := Layout{Matrix: &Matrix{Width: 16, Height: 8}, Bands: 8}
	assert.Equal(t, 2, l.BarWidth())

	i, ok := l.Bar(3, 1, 0)
	require.True(t, ok)
	want, _ := l.Matrix.Index(7, 0)
	assert.Equal(t, want, i)

	_, ok = l.Bar(3, 2, 0)
	assert.False(t, ok)
	_, ok = l.Bar(8, 0, 0)
	assert.False(t, ok)
}

func TestLinearConcatenation(t *testing.T) {
	l, err := Preset("bike")
	require.NoError(t, err)
	assert.Equal(t, 136, l.Length())
	assert.Equal(t, 136, l.Count())

	i, ok := l.Linear(0)
	require.True(t, ok)
	assert.Equal(t, 0, i)

	// first pixel of the reversed second run
	i, _ = l.Linear(30)
	assert.Equal(t, 51, i)

	i, _ = l.Linear(135)
	assert.Equal(t, 135, i)

	_, ok = l.Linear(136)
	assert.False(t, ok)
}

func TestLinearMatrixRun(t *testing.T) {
	l, err := Preset("matrix8")
	require.NoError(t, err)
	require.Len(t, l.Runs(), 1)
	i, ok := l.Linear(143)
	require.True(t, ok)
	assert.Equal(t, 143, i)
}

func TestRibcage(t *testing.T) {
	l, err := Preset("ribcage")
	require.NoError(t, err)
	require.Len(t, l.Segments, 4)
	starts := []int{10, 44, 78, 112}
	for k, s := range l.Segments {
		assert.Equal(t, starts[k], s.Start)
		assert.Equal(t, 24, s.Length)
		assert.Equal(t, k%2 == 1, s.Reversed)
	}
	assert.Equal(t, 136, l.Count())
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range PresetNames() {
		l, err := Preset(name)
		require.NoError(t, err)
		assert.NoError(t, l.Validate(), name)
		assert.Equal(t, name, l.Name)
		assert.Greater(t, l.Height(), 0)
	}

	_, err := Preset("hexagon")
	assert.Error(t, err)
}

func TestPresetIsCopied(t *testing.T) {
	a, _ := Preset("bike")
	a.Segments[0].Length = 1
	b, _ := Preset("bike")
	assert.Equal(t, 30, b.Segments[0].Length)
}

func TestValidateRejects(t *testing.T) {
	overlap := Layout{Name: "x", Bands: 16, Scale: 16, Segments: []Segment{{0, 10, false, false}, {5, 10, false, false}}}
	assert.Error(t, overlap.Validate())

	narrow := Layout{Name: "y", Bands: 16, Matrix: &Matrix{Width: 8, Height: 8}}
	assert.Error(t, narrow.Validate())

	bands := Layout{Name: "z", Bands: 12, Scale: 16, Segments: []Segment{{0, 10, false, false}}}
	assert.Error(t, bands.Validate())
}
