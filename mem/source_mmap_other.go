//go:build !unix

package mem

// MmapSource is unavailable on this platform.
type MmapSource struct{}

// NewMmapSource returns ErrSourceUnsupported.
func NewMmapSource() (*MmapSource, error) { return nil, ErrSourceUnsupported }

// Alloc returns ErrSourceUnsupported.
func (*MmapSource) Alloc(int) ([]byte, error) { return nil, ErrSourceUnsupported }

// Release returns ErrSourceUnsupported.
func (*MmapSource) Release([]byte) error { return ErrSourceUnsupported }
