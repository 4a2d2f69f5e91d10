package container

import (
	"iter"

	"github.com/g-wiedemair/fears/internal/diag"
)

// Span is a non-owning read-only view of consecutive elements. It is
// invalidated when the viewed storage is released or reallocated.
type Span[T any] struct {
	s []T
}

// NewSpan returns a view of s.
func NewSpan[T any](s []T) Span[T] {
	return Span[T]{s: s[:len(s):len(s)]}
}

func (sp Span[T]) Len() int      { return len(sp.s) }
func (sp Span[T]) IsEmpty() bool { return len(sp.s) == 0 }

// At returns the element at index i.
func (sp Span[T]) At(i int) T {
	diag.Assert(i >= 0 && i < len(sp.s), "index %d out of range [0, %d)", i, len(sp.s))
	return sp.s[i]
}

// First returns the first element.
func (sp Span[T]) First() T {
	diag.Assert(len(sp.s) > 0, "First on empty span")
	return sp.s[0]
}

// Last returns the last element.
func (sp Span[T]) Last() T {
	diag.Assert(len(sp.s) > 0, "Last on empty span")
	return sp.s[len(sp.s)-1]
}

// Slice returns size elements starting at start.
func (sp Span[T]) Slice(start, size int) Span[T] {
	diag.Assert(start >= 0 && size >= 0 && start+size <= len(sp.s),
		"slice [%d, %d) out of range [0, %d)", start, start+size, len(sp.s))
	return Span[T]{s: sp.s[start : start+size : start+size]}
}

// SliceRange returns the elements covered by r.
func (sp Span[T]) SliceRange(r IndexRange) Span[T] {
	return sp.Slice(r.Start(), r.Size())
}

// DropFront removes n elements from the front, clamped to Len.
func (sp Span[T]) DropFront(n int) Span[T] {
	n = min(max(n, 0), len(sp.s))
	return Span[T]{s: sp.s[n:]}
}

// DropBack removes n elements from the back, clamped to Len.
func (sp Span[T]) DropBack(n int) Span[T] {
	n = min(max(n, 0), len(sp.s))
	end := len(sp.s) - n
	return Span[T]{s: sp.s[:end:end]}
}

// TakeFront keeps the first n elements, clamped to Len.
func (sp Span[T]) TakeFront(n int) Span[T] {
	n = min(max(n, 0), len(sp.s))
	return Span[T]{s: sp.s[:n:n]}
}

// TakeBack keeps the last n elements, clamped to Len.
func (sp Span[T]) TakeBack(n int) Span[T] {
	n = min(max(n, 0), len(sp.s))
	return Span[T]{s: sp.s[len(sp.s)-n:]}
}

// IndexRange returns the range of valid indices.
func (sp Span[T]) IndexRange() IndexRange { return NewIndexRange(len(sp.s)) }

// All iterates over index/element pairs.
func (sp Span[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, x := range sp.s {
			if !yield(i, x) {
				return
			}
		}
	}
}

// ToSlice returns a copy of the viewed elements.
func (sp Span[T]) ToSlice() []T {
	if len(sp.s) == 0 {
		return nil
	}
	out := make([]T, len(sp.s))
	copy(out, sp.s)
	return out
}

// SpanEqual reports whether a and b have the same length and pairwise equal elements.
func SpanEqual[T comparable](a, b Span[T]) bool {
	if len(a.s) != len(b.s) {
		return false
	}
	for i := range a.s {
		if a.s[i] != b.s[i] {
			return false
		}
	}
	return true
}

// SpanContains reports whether sp holds an element equal to x.
func SpanContains[T comparable](sp Span[T], x T) bool {
	for _, y := range sp.s {
		if y == x {
			return true
		}
	}
	return false
}
