package led

// Limiter keeps a frame inside the power supply's budget. It applies two
// stages:
//  1. Per-LED white cap: scales (R,G,B) so R+G+B <= WhiteCap*3*255.
//  2. Global current budget: estimates current and scales the whole frame to
//     stay under BudgetMilliamps, softly from Knee*budget upwards.
type Limiter struct {
	WhiteCap         float64 // fraction of full white, 0 or >=1 disables
	ChannelMilliamps float64 // mA per channel at full scale; WS2812 ≈ 20
	BudgetMilliamps  float64 // 0 disables
	Knee             float64 // fraction of budget where soft limiting starts
}

// Apply limits buf in place.
func (l *Limiter) Apply(buf Buffer) {
	if l == nil {
		return
	}
	l.whiteCap(buf)
	l.budget(buf)
}

func (l *Limiter) whiteCap(buf Buffer) {
	if l.WhiteCap <= 0 || l.WhiteCap >= 1 {
		return
	}
	limit := l.WhiteCap * 3 * 255
	for i, c := range buf {
		s := float64(c.R) + float64(c.G) + float64(c.B)
		if s > limit && s > 0 {
			buf[i] = scaleFloat(c, limit/s)
		}
	}
}

// Milliamps estimates the current drawn by buf.
func (l *Limiter) Milliamps(buf Buffer) float64 {
	chanmA := l.ChannelMilliamps
	if chanmA <= 0 {
		chanmA = 20
	}
	var sum float64
	for _, c := range buf {
		sum += float64(c.R) + float64(c.G) + float64(c.B)
	}
	return sum / 255 * chanmA
}

func (l *Limiter) budget(buf Buffer) {
	if l.BudgetMilliamps <= 0 {
		return
	}
	knee := l.Knee
	if knee <= 0 || knee >= 1 {
		knee = 0.9
	}

	total := l.Milliamps(buf)
	if total <= 0 {
		return
	}

	ratio := total / l.BudgetMilliamps
	var s float64
	switch {
	case ratio <= knee:
		return
	case ratio <= 1:
		// map ratio in [knee,1] to scale in [1, budget/total]
		minS := l.BudgetMilliamps / total
		t := (ratio - knee) / (1 - knee)
		s = 1 - t*(1-minS)
	default:
		s = l.BudgetMilliamps / total
	}
	if s >= 1 {
		return
	}
	for i, c := range buf {
		buf[i] = scaleFloat(c, s)
	}
}

func scaleFloat(c Color, s float64) Color {
	return Color{
		R: uint8(float64(c.R) * s),
		G: uint8(float64(c.G) * s),
		B: uint8(float64(c.B) * s),
	}
}
