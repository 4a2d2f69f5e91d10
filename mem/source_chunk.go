package mem

import (
	"slices"
	"sort"
	"sync"
	"unsafe"
)

// DefaultChunkSize is the default chunk size of a ChunkSource (64 KiB).
const DefaultChunkSize = 1 << 16

type chunk struct {
	buf    []byte  // backing memory
	offset uintptr // bump offset within buf
	live   int     // regions handed out and not yet released
}

func (c *chunk) base() uintptr { return uintptr(unsafe.Pointer(unsafe.SliceData(c.buf))) }

// ChunkSource carves regions out of large chunks with a bump pointer. A
// chunk is dropped once every region carved from it was released; the
// current chunk is cleared and rewound instead. Requests larger than the
// chunk size get a dedicated chunk. Safe for concurrent use.
type ChunkSource struct {
	mu        sync.Mutex
	chunks    []*chunk // sorted by base address
	chunkSize int
	current   *chunk
}

// NewChunkSource creates a ChunkSource. If chunkSize <= 0, DefaultChunkSize is used.
func NewChunkSource(chunkSize int) *ChunkSource {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	s := &ChunkSource{chunkSize: chunkSize}
	s.current = s.grow(chunkSize)
	return s
}

// Alloc returns a zeroed region of n bytes. Returns nil if n <= 0.
func (s *ChunkSource) Alloc(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if n > s.chunkSize {
		return s.carve(s.grow(n), n), nil
	}

	// Fast path: the current chunk has room
	if c := s.current; c != nil && alignPtr(c.offset)+uintptr(n) <= uintptr(len(c.buf)) {
		return s.carve(c, n), nil
	}

	if old := s.current; old != nil && old.live == 0 {
		s.drop(old)
	}
	s.current = s.grow(s.chunkSize)
	return s.carve(s.current, n), nil
}

// Release returns a region to its chunk. Regions that do not belong to
// this source are ignored.
func (s *ChunkSource) Release(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	p := uintptr(unsafe.Pointer(unsafe.SliceData(b)))

	s.mu.Lock()
	defer s.mu.Unlock()

	i := sort.Search(len(s.chunks), func(i int) bool { return s.chunks[i].base() > p }) - 1
	if i < 0 {
		return nil
	}
	c := s.chunks[i]
	if p >= c.base()+uintptr(len(c.buf)) {
		return nil
	}
	c.live--
	if c.live > 0 {
		return nil
	}
	if c == s.current {
		clear(c.buf[:c.offset])
		c.offset = 0
		return nil
	}
	s.drop(c)
	return nil
}

func (s *ChunkSource) carve(c *chunk, n int) []byte {
	off := alignPtr(c.offset)
	c.offset = off + uintptr(n)
	c.live++
	start := int(off)
	return c.buf[start : start+n : start+n]
}

// grow inserts a new chunk of at least min bytes.
func (s *ChunkSource) grow(min int) *chunk {
	size := s.chunkSize
	if min > size {
		size = min
	}
	c := &chunk{buf: make([]byte, size)}
	i := sort.Search(len(s.chunks), func(i int) bool { return s.chunks[i].base() > c.base() })
	s.chunks = slices.Insert(s.chunks, i, c)
	return c
}

func (s *ChunkSource) drop(c *chunk) {
	if i := slices.Index(s.chunks, c); i >= 0 {
		s.chunks = slices.Delete(s.chunks, i, i+1)
	}
}

// alignPtr aligns the offset up to pointer size alignment.
func alignPtr(off uintptr) uintptr {
	const align = unsafe.Sizeof(uintptr(0))
	mask := align - 1
	return (off + mask) & ^mask
}

// ChunkMetrics contains statistical information about a ChunkSource.
type ChunkMetrics struct {
	SizeInUse   int     // Bytes between chunk starts and bump offsets
	Capacity    int     // Total capacity in bytes
	NumChunks   int     // Number of chunks
	LiveRegions int     // Regions handed out and not yet released
	ChunkSize   int     // Default chunk size
	Utilization float64 // Ratio of used to total capacity (0.0-1.0)
}

// Metrics returns a snapshot of the source statistics.
func (s *ChunkSource) Metrics() ChunkMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := ChunkMetrics{NumChunks: len(s.chunks), ChunkSize: s.chunkSize}
	for _, c := range s.chunks {
		m.SizeInUse += int(c.offset)
		m.Capacity += len(c.buf)
		m.LiveRegions += c.live
	}
	if m.Capacity > 0 {
		m.Utilization = float64(m.SizeInUse) / float64(m.Capacity)
	}
	return m
}

// NumChunks returns the number of chunks currently held.
func (s *ChunkSource) NumChunks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chunks)
}

// Capacity returns the total capacity of all chunks in bytes.
func (s *ChunkSource) Capacity() int {
	return s.Metrics().Capacity
}
