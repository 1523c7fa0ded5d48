package led

// Buffer is the pixel buffer for one frame, indexed by physical LED position.
type Buffer []Color

// NewBuffer creates a buffer of n black pixels.
func NewBuffer(n int) Buffer {
	return make(Buffer, n)
}

// Set sets the pixel at i. Writes outside the buffer are dropped.
func (b Buffer) Set(i int, c Color) {
	if i < 0 || i >= len(b) {
		return
	}
	b[i] = c
}

// At returns the pixel at i, or black outside the buffer.
func (b Buffer) At(i int) Color {
	if i < 0 || i >= len(b) {
		return Black
	}
	return b[i]
}

// Fill sets every pixel to c.
func (b Buffer) Fill(c Color) {
	for i := range b {
		b[i] = c
	}
}

// Clear turns every pixel off.
func (b Buffer) Clear() { b.Fill(Black) }

// FadeToBlackBy dims every pixel by amount/256.
func (b Buffer) FadeToBlackBy(amount uint8) {
	if amount == 0 {
		return
	}
	for i := range b {
		b[i] = b[i].FadeToBlackBy(amount)
	}
}

// Scale applies a global brightness to every pixel.
func (b Buffer) Scale(brightness uint8) {
	if brightness == 255 {
		return
	}
	for i := range b {
		b[i] = b[i].Scale(brightness)
	}
}

// Bytes appends the buffer as packed RGB triples to dst[:0] and returns it.
func (b Buffer) Bytes(dst []byte) []byte {
	dst = dst[:0]
	for _, c := range b {
		dst = append(dst, c.R, c.G, c.B)
	}
	return dst
}
