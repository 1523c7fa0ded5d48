package pattern

import "github.com/coreman2200/soundbars/internal/led"

func (r *Renderer) renderBars(buf led.Buffer, p Pattern, in Input) {
	l := r.layout
	height := l.Height()

	if p.Bars == Waterfall {
		r.renderWaterfall(buf, in)
		return
	}

	for band := 0; band < l.Bands; band++ {
		bar := in.Bars[band]
		for col := 0; col < l.BarWidth(); col++ {
			switch p.Bars {
			case RainbowBars:
				c := led.HSV(uint8(band*(255/l.Bands)), 255, 255)
				for y := 0; y < bar; y++ {
					r.setBar(buf, band, col, y, c)
				}
			case PurpleBars:
				step := 255 / max(bar, 1)
				for y := 0; y < bar; y++ {
					r.setBar(buf, band, col, y, r.purple.ColorAt(uint8(y*step), 255))
				}
			case ChangingBars:
				for y := 0; y < bar; y++ {
					hue := uint8(y*(255/height)) + r.colorTimer
					r.setBar(buf, band, col, y, led.HSV(hue, 255, 255))
				}
			case CenterBars:
				r.centerBar(buf, band, col, bar)
			}

			r.peak(buf, p.Peak, band, col, in.Peaks[band])
		}
	}
}

// centerBar draws an odd-height bar centred vertically. A zero bar draws
// nothing.
func (r *Renderer) centerBar(buf led.Buffer, band, col, h int) {
	if h%2 == 0 && h > 0 {
		h--
	}
	yStart := (r.layout.Height() - h) / 2
	step := 255 / max(h, 1)
	for y := yStart; y < yStart+h; y++ {
		r.setBar(buf, band, col, y, r.heat.ColorAt(uint8((y-yStart)*step), 255))
	}
}

func (r *Renderer) peak(buf led.Buffer, style PeakStyle, band, col, peak int) {
	height := r.layout.Height()
	y := min(peak, height-1)
	switch style {
	case WhitePeak:
		r.setBar(buf, band, col, y, led.White)
	case OutrunPeak:
		r.setBar(buf, band, col, y, r.outrun.ColorAt(uint8(peak*(255/height)), 255))
	}
}

// renderWaterfall scrolls history up on the scroll timer and paints the
// newest magnitudes along the bottom row, blue for quiet through red.
func (r *Renderer) renderWaterfall(buf led.Buffer, in Input) {
	l := r.layout
	m := l.Matrix
	if r.scrollDue {
		r.scrollDue = false
		for y := m.Height - 1; y > 0; y-- {
			for x := 0; x < m.Width; x++ {
				dst, _ := m.Index(x, y)
				src, _ := m.Index(x, y-1)
				buf[dst] = buf[src]
			}
		}
	}

	for band := 0; band < l.Bands; band++ {
		v := min(max(in.Raw[band], 0), 255)
		hue := uint8(160 - v*160/255)
		c := led.HSV(hue, 255, 255)
		for col := 0; col < l.BarWidth(); col++ {
			r.setBar(buf, band, col, 0, c)
		}
	}
}

func (r *Renderer) setBar(buf led.Buffer, band, col, y int, c led.Color) {
	if i, ok := r.layout.Bar(band, col, y); ok {
		buf.Set(i, c)
	}
}
