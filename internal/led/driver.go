package led

// Driver abstracts an LED output sink.
type Driver interface {
	// Write pushes an RGB frame to hardware. len(rgb) must be 3*N.
	Write(rgb []byte) error
	// Close releases resources.
	Close() error
}

// Tee writes every frame to all of its drivers in order. The first error
// wins but every driver still sees the frame.
type Tee []Driver

func (t Tee) Write(rgb []byte) error {
	var first error
	for _, d := range t {
		if err := d.Write(rgb); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (t Tee) Close() error {
	var first error
	for _, d := range t {
		if err := d.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
