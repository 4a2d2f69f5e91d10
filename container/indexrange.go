package container

import (
	"fmt"
	"iter"

	"github.com/g-wiedemair/fears/internal/diag"
)

// IndexRange is the sequence of consecutive integers [start, start+size).
type IndexRange struct {
	start int
	size  int
}

// NewIndexRange returns [0, size).
func NewIndexRange(size int) IndexRange {
	return IndexRangeFrom(0, size)
}

// IndexRangeFrom returns [start, start+size).
func IndexRangeFrom(start, size int) IndexRange {
	diag.Assert(start >= 0 && size >= 0, "invalid range start %d size %d", start, size)
	return IndexRange{start: start, size: size}
}

// IndexRangeBetween returns [begin, end).
func IndexRangeBetween(begin, end int) IndexRange {
	diag.Assert(begin <= end, "range begin %d after end %d", begin, end)
	return IndexRangeFrom(begin, end-begin)
}

func (r IndexRange) Start() int    { return r.start }
func (r IndexRange) Size() int     { return r.size }
func (r IndexRange) IsEmpty() bool { return r.size == 0 }

// First returns the first index.
func (r IndexRange) First() int {
	diag.Assert(r.size > 0, "First on empty range")
	return r.start
}

// Last returns the last index.
func (r IndexRange) Last() int {
	diag.Assert(r.size > 0, "Last on empty range")
	return r.start + r.size - 1
}

// OneAfterLast returns start+size.
func (r IndexRange) OneAfterLast() int { return r.start + r.size }

// At returns the i-th index of the range.
func (r IndexRange) At(i int) int {
	diag.Assert(i >= 0 && i < r.size, "index %d out of range [0, %d)", i, r.size)
	return r.start + i
}

// Contains reports whether v is one of the indices.
func (r IndexRange) Contains(v int) bool {
	return v >= r.start && v < r.start+r.size
}

// Equal reports whether both ranges yield the same indices.
func (r IndexRange) Equal(o IndexRange) bool {
	return r.size == o.size && (r.start == o.start || r.size == 0)
}

// Shift moves the range by n.
func (r IndexRange) Shift(n int) IndexRange {
	return IndexRangeFrom(r.start+n, r.size)
}

// Slice returns size indices starting at the start-th index.
func (r IndexRange) Slice(start, size int) IndexRange {
	diag.Assert(start >= 0 && size >= 0 && start+size <= r.size,
		"slice [%d, %d) out of range [0, %d)", start, start+size, r.size)
	return IndexRange{start: r.start + start, size: size}
}

// DropFront removes n indices from the front, clamped to Size.
func (r IndexRange) DropFront(n int) IndexRange {
	n = min(max(n, 0), r.size)
	return IndexRange{start: r.start + n, size: r.size - n}
}

// DropBack removes n indices from the back, clamped to Size.
func (r IndexRange) DropBack(n int) IndexRange {
	n = min(max(n, 0), r.size)
	return IndexRange{start: r.start, size: r.size - n}
}

// TakeFront keeps the first n indices, clamped to Size.
func (r IndexRange) TakeFront(n int) IndexRange {
	n = min(max(n, 0), r.size)
	return IndexRange{start: r.start, size: n}
}

// TakeBack keeps the last n indices, clamped to Size.
func (r IndexRange) TakeBack(n int) IndexRange {
	n = min(max(n, 0), r.size)
	return IndexRange{start: r.start + r.size - n, size: n}
}

// All yields each index in order. The sequence can be ranged over repeatedly.
func (r IndexRange) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := r.start; i < r.start+r.size; i++ {
			if !yield(i) {
				return
			}
		}
	}
}

func (r IndexRange) String() string {
	return fmt.Sprintf("[%d, %d)", r.start, r.start+r.size)
}
