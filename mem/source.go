package mem

// Source supplies the backing regions of raw blocks. Alloc must return
// zeroed memory aligned to at least MinAlignment; Release receives exactly
// the slice (same address, length and capacity) Alloc returned.
type Source interface {
	Alloc(n int) ([]byte, error)
	Release(b []byte) error
}

// HeapSource allocates regions on the Go heap. Release drops nothing: the
// collector reclaims a region once no Block refers to it.
type HeapSource struct{}

// Alloc returns a zeroed region of n bytes.
func (HeapSource) Alloc(n int) ([]byte, error) {
	return make([]byte, n), nil
}

// Release is a no-op.
func (HeapSource) Release([]byte) error { return nil }
