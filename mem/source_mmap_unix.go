//go:build unix

package mem

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// MmapSource maps every region as private anonymous memory. Mapping
// granularity is a page, so it suits large blocks.
type MmapSource struct{}

// NewMmapSource returns an MmapSource.
func NewMmapSource() (*MmapSource, error) { return &MmapSource{}, nil }

// Alloc maps n zeroed bytes.
func (*MmapSource) Alloc(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	b, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap %d bytes", n)
	}
	return b, nil
}

// Release unmaps b.
func (*MmapSource) Release(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return errors.Wrap(unix.Munmap(b), "munmap")
}
