package container

import (
	"iter"

	"github.com/g-wiedemair/fears/internal/diag"
	"github.com/g-wiedemair/fears/mem"
)

// Array is a fixed-size container. Its size is set at construction and
// changes only through Reinitialize.
type Array[T any] struct {
	_      noCopy
	alloc  *mem.Allocator
	tag    string
	inline [DefaultInlineCapacity]T // unused when InlineCapacity[T]() is 0
	heap   []T
	size   int
}

// NewArray returns an Array of size zero-valued elements.
func NewArray[T any](a *mem.Allocator, size int) *Array[T] {
	arr := &Array[T]{alloc: a, tag: callerTag(1, "Array")}
	arr.init(size)
	return arr
}

// NewArrayFilled returns an Array of size copies of value.
func NewArrayFilled[T any](a *mem.Allocator, size int, value T) *Array[T] {
	arr := &Array[T]{alloc: a, tag: callerTag(1, "Array")}
	arr.init(size)
	arr.Fill(value)
	return arr
}

// NewArrayFrom returns an Array holding a copy of values.
func NewArrayFrom[T any](a *mem.Allocator, values ...T) *Array[T] {
	arr := &Array[T]{alloc: a, tag: callerTag(1, "Array")}
	arr.init(len(values))
	copy(arr.Slice(), values)
	return arr
}

func (arr *Array[T]) init(size int) {
	diag.Assert(size >= 0, "negative array size %d", size)
	arr.size = size
	if size > InlineCapacity[T]() {
		arr.heap = allocate[T](arr.alloc, size, arr.tag)
	}
}

// Len returns the number of elements.
func (arr *Array[T]) Len() int { return arr.size }

// IsEmpty reports whether the array has no elements.
func (arr *Array[T]) IsEmpty() bool { return arr.size == 0 }

// IsInline reports whether the elements live inside the Array value.
func (arr *Array[T]) IsInline() bool { return arr.heap == nil }

// InlineCapacity returns the number of elements stored without allocation.
func (arr *Array[T]) InlineCapacity() int { return InlineCapacity[T]() }

// Slice returns the elements. The slice aliases the array storage.
func (arr *Array[T]) Slice() []T {
	if arr.heap != nil {
		return arr.heap[:arr.size]
	}
	return arr.inline[:arr.size]
}

// At returns the element at index i.
func (arr *Array[T]) At(i int) T {
	diag.Assert(i >= 0 && i < arr.size, "index %d out of range [0, %d)", i, arr.size)
	return arr.Slice()[i]
}

// Ptr returns a pointer to the element at index i.
func (arr *Array[T]) Ptr(i int) *T {
	diag.Assert(i >= 0 && i < arr.size, "index %d out of range [0, %d)", i, arr.size)
	return &arr.Slice()[i]
}

// Set stores v at index i.
func (arr *Array[T]) Set(i int, v T) {
	diag.Assert(i >= 0 && i < arr.size, "index %d out of range [0, %d)", i, arr.size)
	arr.Slice()[i] = v
}

// First returns the first element.
func (arr *Array[T]) First() T { return arr.At(0) }

// Last returns the last element.
func (arr *Array[T]) Last() T { return arr.At(arr.size - 1) }

// Fill sets every element to v.
func (arr *Array[T]) Fill(v T) {
	s := arr.Slice()
	for i := range s {
		s[i] = v
	}
}

// Span returns a read-only view of the elements.
func (arr *Array[T]) Span() Span[T] { return NewSpan(arr.Slice()) }

// All iterates over index/element pairs.
func (arr *Array[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range arr.Slice() {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Reinitialize discards all elements and resizes the array to size
// zero-valued elements.
func (arr *Array[T]) Reinitialize(size int) {
	if size == arr.size {
		clear(arr.Slice())
		return
	}
	arr.Release()
	arr.init(size)
}

// Clone returns an independent copy using the same allocator.
func (arr *Array[T]) Clone() *Array[T] {
	c := &Array[T]{alloc: arr.alloc, tag: arr.tag}
	c.init(arr.size)
	copy(c.Slice(), arr.Slice())
	return c
}

// Release returns heap storage to the allocator and leaves an empty array.
func (arr *Array[T]) Release() {
	release(arr.alloc, arr.heap)
	arr.heap = nil
	clear(arr.inline[:])
	arr.size = 0
}

// moveFrom replaces the contents of arr by those of other and leaves
// other empty.
func (arr *Array[T]) moveFrom(other *Array[T]) {
	arr.Release()
	arr.alloc = other.alloc
	arr.tag = other.tag
	arr.inline = other.inline
	arr.heap = other.heap
	arr.size = other.size

	clear(other.inline[:])
	other.heap = nil
	other.size = 0
}
