// Package container provides small-buffer-optimized containers whose heap
// storage is accounted by a mem.Allocator.
//
// Array, Vector and HashMap keep up to InlineCapacity elements (4 for
// element types smaller than 100 bytes, otherwise none) inside the
// container itself and only allocate once they grow past it. Heap storage
// is obtained with mem.NewArray under a tag naming the construction site,
// so the guarded allocator backend can attribute leaks to it. A nil
// allocator selects unaccounted Go heap storage.
//
// Containers must not be copied after first use; Clone makes an
// independent copy. Slices, pointers and iterators obtained from a
// container are invalidated by any operation that changes its capacity.
// Containers are not safe for concurrent mutation.
//
// Span and StringRef are read-only views that never own memory, and
// IndexRange is a half-open range of indices.
package container
