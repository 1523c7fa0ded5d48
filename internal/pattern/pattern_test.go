package pattern

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/soundbars/internal/layout"
	"github.com/coreman2200/soundbars/internal/led"
	"github.com/coreman2200/soundbars/internal/palette"
)

var red = led.Color{R: 255}

func preset(t *testing.T, name string) layout.Layout {
	t.Helper()
	l, err := layout.Preset(name)
	require.NoError(t, err)
	return l
}

func newRenderer(t *testing.T, l layout.Layout) *Renderer {
	t.Helper()
	r, err := New(l, Default(l), red)
	require.NoError(t, err)
	return r
}

func named(t *testing.T, name string) Pattern {
	t.Helper()
	p, ok := Lookup(name)
	require.True(t, ok, name)
	return p
}

func input(l layout.Layout, bar, peak int) Input {
	in := Input{
		Raw:   make([]int, l.Bands),
		Bars:  make([]int, l.Bands),
		Peaks: make([]int, l.Bands),
	}
	for i := range in.Bars {
		in.Bars[i] = bar
		in.Peaks[i] = peak
	}
	p := palette.Ice.Palette()
	in.Palette = &p
	return in
}

func lit(buf led.Buffer) int {
	n := 0
	for _, c := range buf {
		if c != led.Black {
			n++
		}
	}
	return n
}

func TestDefaultRotations(t *testing.T) {
	names := func(ps []Pattern) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.Name)
		}
		return out
	}
	assert.Equal(t,
		[]string{"rainbow", "purple", "center", "changing", "waterfall", "twinkle", "pride", "heartbeat", "solid"},
		names(Default(preset(t, "matrix16"))))
	assert.Equal(t,
		[]string{"sound", "twinkle", "pride", "heartbeat", "solid"},
		names(Default(preset(t, "bike"))))

	_, err := Named("rainbow", "disco")
	assert.Error(t, err)
}

func TestBarsNeedMatrix(t *testing.T) {
	l := preset(t, "strip")
	_, err := New(l, []Pattern{named(t, "rainbow")}, red)
	assert.Error(t, err)
}

func TestPatternWraps(t *testing.T) {
	r := newRenderer(t, preset(t, "strip"))
	assert.Equal(t, "sound", r.Pattern(5).Name)
	assert.Equal(t, "solid", r.Pattern(-1).Name)
}

func TestBackgroundPolicy(t *testing.T) {
	r := newRenderer(t, preset(t, "matrix8"))
	cases := []struct {
		pattern string
		want    uint8
	}{
		{"rainbow", 207},
		{"twinkle", 207},
		{"heartbeat", 247},
		{"waterfall", 255},
		{"pride", 255},
		{"solid", 255},
	}
	for _, tc := range cases {
		buf := led.NewBuffer(4)
		buf.Fill(led.White)
		r.Prepare(buf, named(t, tc.pattern))
		assert.Equal(t, tc.want, buf[0].R, tc.pattern)
	}
}

func TestBeatAlternates(t *testing.T) {
	b := newBeat()
	assert.Equal(t, LongBeat, b.period())

	assert.False(t, b.update(699*time.Millisecond))
	assert.True(t, b.update(700*time.Millisecond))
	assert.Equal(t, ShortBeat, b.period())

	assert.False(t, b.update(1049*time.Millisecond))
	assert.True(t, b.update(1050*time.Millisecond))
	assert.Equal(t, LongBeat, b.period())

	assert.False(t, b.update(1749*time.Millisecond))
	assert.True(t, b.update(1750*time.Millisecond))
	assert.Equal(t, ShortBeat, b.period())
}

func TestHeartbeatFlashesOnPhaseEnd(t *testing.T) {
	l := preset(t, "bike")
	r := newRenderer(t, l)
	hb := named(t, "heartbeat")
	buf := led.NewBuffer(l.Count())

	r.Tick(500*time.Millisecond, hb)
	r.Render(buf, hb, input(l, 0, 0))
	assert.Zero(t, lit(buf))

	r.Tick(700*time.Millisecond, hb)
	r.Render(buf, hb, input(l, 0, 0))
	assert.Equal(t, l.Count(), lit(buf))
	assert.Equal(t, red, buf[0])

	// one flash per phase
	buf.Clear()
	r.Tick(710*time.Millisecond, hb)
	r.Render(buf, hb, input(l, 0, 0))
	assert.Zero(t, lit(buf))
}

func TestHeartbeatSelectedLateFlashesAtOnce(t *testing.T) {
	l := preset(t, "bike")
	r := newRenderer(t, l)
	sound, hb := named(t, "sound"), named(t, "heartbeat")
	buf := led.NewBuffer(l.Count())

	for now := time.Duration(0); now < 2*time.Second; now += 100 * time.Millisecond {
		r.Tick(now, sound)
	}

	r.Tick(2*time.Second, hb)
	r.Render(buf, hb, input(l, 0, 0))
	assert.Equal(t, l.Count(), lit(buf))

	// the short phase follows
	buf.Clear()
	r.Tick(2*time.Second+340*time.Millisecond, hb)
	r.Render(buf, hb, input(l, 0, 0))
	assert.Zero(t, lit(buf))
	r.Tick(2*time.Second+350*time.Millisecond, hb)
	r.Render(buf, hb, input(l, 0, 0))
	assert.Equal(t, l.Count(), lit(buf))
}

func TestRainbowBarsWithWhitePeak(t *testing.T) {
	l := preset(t, "matrix8")
	r := newRenderer(t, l)
	buf := led.NewBuffer(l.Count())
	r.Render(buf, named(t, "rainbow"), input(l, 4, 6))

	for band := 0; band < l.Bands; band++ {
		want := led.HSV(uint8(band*(255/l.Bands)), 255, 255)
		for y := 0; y < 4; y++ {
			i, _ := l.Bar(band, 0, y)
			assert.Equal(t, want, buf[i], "band %d y %d", band, y)
		}
		i, _ := l.Bar(band, 0, 4)
		assert.Equal(t, led.Black, buf[i])
		i, _ = l.Bar(band, 0, 6)
		assert.Equal(t, led.White, buf[i])
	}
	assert.Equal(t, 8*5, lit(buf))
}

func TestPeakClampedToTopRow(t *testing.T) {
	l := preset(t, "matrix8")
	r := newRenderer(t, l)
	buf := led.NewBuffer(l.Count())
	r.Render(buf, named(t, "purple"), input(l, 0, l.Height()))

	i, _ := l.Bar(0, 0, l.Height()-1)
	assert.Equal(t, led.White, buf[i])
	assert.Equal(t, 8, lit(buf))
}

func TestCenterBars(t *testing.T) {
	l := preset(t, "matrix8")
	r := newRenderer(t, l)
	center := named(t, "center")

	buf := led.NewBuffer(l.Count())
	r.Render(buf, center, input(l, 0, 0))
	assert.Zero(t, lit(buf), "an empty bar draws nothing")

	r.Render(buf, center, input(l, 4, 0))
	for y := 0; y < l.Height(); y++ {
		i, _ := l.Bar(0, 0, y)
		if y >= 7 && y <= 9 {
			assert.NotEqual(t, led.Black, buf[i], "y %d", y)
		} else {
			assert.Equal(t, led.Black, buf[i], "y %d", y)
		}
	}
}

func TestColorTimerRunsOnlyWhileChanging(t *testing.T) {
	l := preset(t, "matrix16")
	r := newRenderer(t, l)
	changing := named(t, "changing")
	rainbow := named(t, "rainbow")

	for now := time.Duration(0); now <= 50*time.Millisecond; now += 10 * time.Millisecond {
		r.Tick(now, changing)
	}
	assert.Equal(t, uint8(5), r.ColorTimer())

	for now := 60 * time.Millisecond; now <= 200*time.Millisecond; now += 10 * time.Millisecond {
		r.Tick(now, rainbow)
	}
	assert.Equal(t, uint8(5), r.ColorTimer(), "held, not reset, while another pattern runs")

	r.Tick(210*time.Millisecond, changing)
	assert.Equal(t, uint8(6), r.ColorTimer())
}

func TestWaterfallScrolls(t *testing.T) {
	l := preset(t, "matrix8")
	r := newRenderer(t, l)
	wf := named(t, "waterfall")
	buf := led.NewBuffer(l.Count())

	in := input(l, 0, 0)
	in.Raw[0] = 255
	r.Render(buf, wf, in)

	bottom, _ := l.Bar(0, 0, 0)
	assert.Equal(t, led.HSV(0, 255, 255), buf[bottom])
	quiet, _ := l.Bar(1, 0, 0)
	assert.Equal(t, led.HSV(160, 255, 255), buf[quiet])

	in.Raw[0] = 0
	r.Tick(30*time.Millisecond, wf)
	r.Render(buf, wf, in)

	above, _ := l.Bar(0, 0, 1)
	assert.Equal(t, led.HSV(0, 255, 255), buf[above])
	assert.Equal(t, led.HSV(160, 255, 255), buf[bottom])
}

func TestSumFillsCentredStrip(t *testing.T) {
	l := preset(t, "strip")
	r := newRenderer(t, l)
	sound := named(t, "sound")

	buf := led.NewBuffer(l.Count())
	r.Render(buf, sound, input(l, 0, 0))
	assert.Zero(t, lit(buf))

	r.Render(buf, sound, input(l, l.Height(), 0))
	assert.Equal(t, 60, lit(buf))

	buf.Clear()
	r.Render(buf, sound, input(l, l.Height()/4, 0))
	assert.Equal(t, 14, lit(buf), "a quarter of the energy lights 7 pairs")
	assert.NotEqual(t, led.Black, buf[29])
	assert.NotEqual(t, led.Black, buf[30])
	assert.Equal(t, led.Black, buf[0])
}

func TestSumStaysInsideSegments(t *testing.T) {
	l := preset(t, "ribcage")
	r := newRenderer(t, l)
	buf := led.NewBuffer(l.Count())
	r.Render(buf, named(t, "sound"), input(l, l.Height()/2, 0))

	assert.Equal(t, 4*12, lit(buf))
	for i := 0; i < 10; i++ {
		assert.Equal(t, led.Black, buf[i], "lead-in pixel %d", i)
	}
	// the reversed second rib fills from its far end
	assert.NotEqual(t, led.Black, buf[67])
	assert.Equal(t, led.Black, buf[44])
}

func TestSolidFills(t *testing.T) {
	l := preset(t, "strip")
	r := newRenderer(t, l)
	buf := led.NewBuffer(l.Count())
	r.Render(buf, named(t, "solid"), input(l, 0, 0))
	for _, c := range buf {
		assert.Equal(t, red, c)
	}

	r.SetSolid(led.White)
	r.Render(buf, named(t, "solid"), input(l, 0, 0))
	assert.Equal(t, led.White, buf[59])
}

func TestTwinkleIsDeterministic(t *testing.T) {
	l := preset(t, "matrix16")
	r := newRenderer(t, l)
	tw := named(t, "twinkle")

	var total int
	for now := time.Duration(0); now < 2*time.Second; now += 100 * time.Millisecond {
		a, b := led.NewBuffer(l.Count()), led.NewBuffer(l.Count())
		in := input(l, 0, 0)
		in.Now = now
		r.Render(a, tw, in)
		r.Render(b, tw, in)
		require.Equal(t, a, b)
		total += lit(a)
	}
	assert.Greater(t, total, 0)
}

func TestPrideLightsEveryPixel(t *testing.T) {
	l := preset(t, "bike")
	r := newRenderer(t, l)
	pr := named(t, "pride")
	buf := led.NewBuffer(l.Count())

	for now := time.Duration(0); now < time.Second; now += 10 * time.Millisecond {
		in := input(l, 0, 0)
		in.Now = now
		r.Render(buf, pr, in)
	}
	assert.Equal(t, l.Count(), lit(buf))
}

func TestAttackDecayWave(t *testing.T) {
	assert.Equal(t, uint8(0), attackDecayWave8(0))
	assert.Equal(t, uint8(255), attackDecayWave8(85))
	assert.Less(t, attackDecayWave8(200), attackDecayWave8(100))
}

func TestBeatsinStaysInRange(t *testing.T) {
	for ms := 0; ms < 60000; ms += 37 {
		v := beatsin88(time.Duration(ms)*time.Millisecond, 341, 96, 224)
		require.GreaterOrEqual(t, v, uint16(96))
		require.LessOrEqual(t, v, uint16(224))
	}
}
