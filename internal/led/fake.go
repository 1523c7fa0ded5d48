package led

// Fake records frames instead of driving LEDs. Useful for headless runs and
// tests.
type Fake struct {
	Count  int
	Last   []byte
	Err    error
	Closed bool
}

func (d *Fake) Write(rgb []byte) error {
	d.Count++
	d.Last = append(d.Last[:0], rgb...)
	return d.Err
}

func (d *Fake) Close() error {
	d.Closed = true
	return nil
}

// Pixel returns the recorded color of LED i in the last frame.
func (d *Fake) Pixel(i int) Color {
	if 3*i+2 >= len(d.Last) {
		return Black
	}
	return Color{d.Last[3*i], d.Last[3*i+1], d.Last[3*i+2]}
}
