package audio

import "sync"

// ring keeps the most recent len(buf) mono samples.
type ring struct {
	mu  sync.RWMutex
	buf []float32
	pos int
}

func newRing(n int) *ring {
	return &ring{buf: make([]float32, n)}
}

func (r *ring) write(in []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.buf)
	if len(in) >= n {
		copy(r.buf, in[len(in)-n:])
		r.pos = 0
		return
	}
	k := copy(r.buf[r.pos:], in)
	if k < len(in) {
		copy(r.buf, in[k:])
	}
	r.pos = (r.pos + len(in)) % n
}

// snapshot copies the buffer oldest first into dst, growing it as needed.
func (r *ring) snapshot(dst []float32) []float32 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if cap(dst) < len(r.buf) {
		dst = make([]float32, len(r.buf))
	}
	dst = dst[:len(r.buf)]
	k := copy(dst, r.buf[r.pos:])
	copy(dst[k:], r.buf[:r.pos])
	return dst
}
