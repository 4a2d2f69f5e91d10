package container

import (
	"iter"

	"github.com/g-wiedemair/fears/internal/diag"
	"github.com/g-wiedemair/fears/mem"
)

// Vector is a growable array. Elements past Len are kept zero-valued.
// The zero Vector is empty, unaccounted and ready to use.
type Vector[T any] struct {
	_      noCopy
	alloc  *mem.Allocator
	tag    string
	inline [DefaultInlineCapacity]T // unused when InlineCapacity[T]() is 0
	heap   []T                      // len(heap) is the capacity when allocated
	n      int
}

// NewVector returns an empty Vector allocating from a.
func NewVector[T any](a *mem.Allocator) *Vector[T] {
	return &Vector[T]{alloc: a, tag: callerTag(1, "Vector")}
}

// NewVectorSize returns a Vector of n zero-valued elements.
func NewVectorSize[T any](a *mem.Allocator, n int) *Vector[T] {
	v := &Vector[T]{alloc: a, tag: callerTag(1, "Vector")}
	v.Resize(n)
	return v
}

// NewVectorFilled returns a Vector of n copies of value.
func NewVectorFilled[T any](a *mem.Allocator, n int, value T) *Vector[T] {
	v := &Vector[T]{alloc: a, tag: callerTag(1, "Vector")}
	v.Resize(n)
	s := v.Slice()
	for i := range s {
		s[i] = value
	}
	return v
}

// NewVectorFrom returns a Vector holding a copy of values.
func NewVectorFrom[T any](a *mem.Allocator, values ...T) *Vector[T] {
	v := &Vector[T]{alloc: a, tag: callerTag(1, "Vector")}
	v.Extend(values...)
	return v
}

func (v *Vector[T]) storage() []T {
	if v.heap != nil {
		return v.heap
	}
	return v.inline[:InlineCapacity[T]()]
}

// Len returns the number of elements.
func (v *Vector[T]) Len() int { return v.n }

// Cap returns the number of elements that fit without reallocation.
func (v *Vector[T]) Cap() int {
	if v.heap != nil {
		return len(v.heap)
	}
	return InlineCapacity[T]()
}

// IsEmpty reports whether the vector has no elements.
func (v *Vector[T]) IsEmpty() bool { return v.n == 0 }

// IsInline reports whether the elements live inside the Vector value.
func (v *Vector[T]) IsInline() bool { return v.heap == nil }

// Slice returns the elements. The slice is invalidated by capacity changes.
func (v *Vector[T]) Slice() []T { return v.storage()[:v.n] }

// Span returns a read-only view of the elements.
func (v *Vector[T]) Span() Span[T] { return NewSpan(v.Slice()) }

// At returns the element at index i.
func (v *Vector[T]) At(i int) T {
	diag.Assert(i >= 0 && i < v.n, "index %d out of range [0, %d)", i, v.n)
	return v.Slice()[i]
}

// Ptr returns a pointer to the element at index i.
func (v *Vector[T]) Ptr(i int) *T {
	diag.Assert(i >= 0 && i < v.n, "index %d out of range [0, %d)", i, v.n)
	return &v.Slice()[i]
}

// Set stores x at index i.
func (v *Vector[T]) Set(i int, x T) {
	diag.Assert(i >= 0 && i < v.n, "index %d out of range [0, %d)", i, v.n)
	v.Slice()[i] = x
}

// First returns the first element.
func (v *Vector[T]) First() T {
	diag.Assert(v.n > 0, "First on empty vector")
	return v.Slice()[0]
}

// Last returns the last element.
func (v *Vector[T]) Last() T {
	diag.Assert(v.n > 0, "Last on empty vector")
	return v.Slice()[v.n-1]
}

// Reserve makes room for at least n elements.
func (v *Vector[T]) Reserve(n int) {
	if n > v.Cap() {
		v.realloc(n)
	}
}

// realloc moves the elements into heap storage of at least minCap
// elements, doubling the capacity at least.
func (v *Vector[T]) realloc(minCap int) {
	newCap := max(minCap, 2*v.Cap())
	if v.tag == "" {
		v.tag = "Vector"
	}
	next := allocate[T](v.alloc, newCap, v.tag)
	copy(next, v.Slice())
	if v.heap != nil {
		release(v.alloc, v.heap)
	} else {
		clear(v.inline[:])
	}
	v.heap = next
}

// Append adds x at the end. Amortized O(1).
func (v *Vector[T]) Append(x T) {
	if v.n == v.Cap() {
		v.realloc(v.n + 1)
	}
	v.storage()[v.n] = x
	v.n++
}

// AppendAndGetIndex adds x at the end and returns its index.
func (v *Vector[T]) AppendAndGetIndex(x T) int {
	i := v.n
	v.Append(x)
	return i
}

// Extend appends values in order.
func (v *Vector[T]) Extend(values ...T) {
	v.Reserve(v.n + len(values))
	copy(v.storage()[v.n:], values)
	v.n += len(values)
}

// Prepend inserts x at index 0. O(n).
func (v *Vector[T]) Prepend(x T) {
	v.Insert(0, x)
}

// PrependSlice inserts values, in order, before the first element.
func (v *Vector[T]) PrependSlice(values []T) {
	v.Insert(0, values...)
}

// Insert inserts values before index i.
func (v *Vector[T]) Insert(i int, values ...T) {
	diag.Assert(i >= 0 && i <= v.n, "insert index %d out of range [0, %d]", i, v.n)
	k := len(values)
	if k == 0 {
		return
	}
	v.Reserve(v.n + k)
	s := v.storage()
	copy(s[i+k:v.n+k], s[i:v.n])
	copy(s[i:], values)
	v.n += k
}

// Remove deletes the element at index i, keeping the order of the others. O(n).
func (v *Vector[T]) Remove(i int) {
	diag.Assert(i >= 0 && i < v.n, "index %d out of range [0, %d)", i, v.n)
	s := v.storage()
	copy(s[i:], s[i+1:v.n])
	v.n--
	var zero T
	s[v.n] = zero
}

// RemoveAndReorder deletes the element at index i by moving the last
// element into its place. O(1).
func (v *Vector[T]) RemoveAndReorder(i int) {
	diag.Assert(i >= 0 && i < v.n, "index %d out of range [0, %d)", i, v.n)
	s := v.storage()
	v.n--
	s[i] = s[v.n]
	var zero T
	s[v.n] = zero
}

// PopLast removes and returns the last element.
func (v *Vector[T]) PopLast() T {
	diag.Assert(v.n > 0, "PopLast on empty vector")
	s := v.storage()
	v.n--
	x := s[v.n]
	var zero T
	s[v.n] = zero
	return x
}

// Resize changes the length to n. New elements are zero-valued.
func (v *Vector[T]) Resize(n int) {
	diag.Assert(n >= 0, "negative size %d", n)
	if n > v.n {
		v.Reserve(n)
	} else {
		clear(v.storage()[n:v.n])
	}
	v.n = n
}

// Clear removes all elements and keeps the capacity.
func (v *Vector[T]) Clear() {
	clear(v.Slice())
	v.n = 0
}

// ClearAndShrink removes all elements and returns heap storage.
func (v *Vector[T]) ClearAndShrink() {
	v.Release()
}

// All iterates over index/element pairs.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, x := range v.Slice() {
			if !yield(i, x) {
				return
			}
		}
	}
}

// Values iterates over the elements.
func (v *Vector[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, x := range v.Slice() {
			if !yield(x) {
				return
			}
		}
	}
}

// Clone returns an independent copy using the same allocator.
func (v *Vector[T]) Clone() *Vector[T] {
	c := &Vector[T]{alloc: v.alloc, tag: v.tag}
	c.Extend(v.Slice()...)
	return c
}

// Release returns heap storage to the allocator and leaves an empty vector.
func (v *Vector[T]) Release() {
	release(v.alloc, v.heap)
	v.heap = nil
	clear(v.inline[:])
	v.n = 0
}

// Equal reports whether a and b have the same length and pairwise equal elements.
func Equal[T comparable](a, b *Vector[T]) bool {
	if a.Len() != b.Len() {
		return false
	}
	bs := b.Slice()
	for i, x := range a.Slice() {
		if x != bs[i] {
			return false
		}
	}
	return true
}

// IndexOf returns the index of the first element equal to x, or -1.
func IndexOf[T comparable](v *Vector[T], x T) int {
	for i, y := range v.Slice() {
		if y == x {
			return i
		}
	}
	return -1
}

// Contains reports whether v holds an element equal to x.
func Contains[T comparable](v *Vector[T], x T) bool { return IndexOf(v, x) >= 0 }

// AppendNonDuplicates appends x unless v already contains it. O(n).
func AppendNonDuplicates[T comparable](v *Vector[T], x T) {
	if !Contains(v, x) {
		v.Append(x)
	}
}
