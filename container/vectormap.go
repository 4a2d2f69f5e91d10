package container

import (
	"iter"

	"github.com/g-wiedemair/fears/mem"
)

// VectorMap keeps values in insertion order and indexes them by key.
type VectorMap[K comparable, V any] struct {
	_      noCopy
	values Vector[V]
	index  *HashMap[K, int]
}

// NewVectorMap returns an empty VectorMap.
func NewVectorMap[K comparable, V any](a *mem.Allocator, opts ...MapOption) *VectorMap[K, V] {
	tag := callerTag(1, "VectorMap")
	vm := &VectorMap[K, V]{index: newHashMap[K, int](a, DefaultHasher[K](), tag, opts)}
	vm.values.alloc = a
	vm.values.tag = tag
	return vm
}

// Add appends v under k. An existing k leaves the map unchanged and
// returns false. If appending panics, k is removed again.
func (vm *VectorMap[K, V]) Add(k K, v V) bool {
	if !vm.index.Add(k, vm.values.Len()) {
		return false
	}
	appended := false
	defer func() {
		if !appended {
			vm.index.Remove(k)
		}
	}()
	vm.values.Append(v)
	appended = true
	return true
}

// Lookup returns the value of k.
func (vm *VectorMap[K, V]) Lookup(k K) (V, bool) {
	i, ok := vm.index.Lookup(k)
	if !ok {
		var zero V
		return zero, false
	}
	return vm.values.At(i), true
}

// LookupPtr returns a pointer to the value of k, or nil.
func (vm *VectorMap[K, V]) LookupPtr(k K) *V {
	i, ok := vm.index.Lookup(k)
	if !ok {
		return nil
	}
	return vm.values.Ptr(i)
}

func (vm *VectorMap[K, V]) Contains(k K) bool { return vm.index.Contains(k) }

// At returns the i-th value in insertion order.
func (vm *VectorMap[K, V]) At(i int) V { return vm.values.At(i) }

func (vm *VectorMap[K, V]) Len() int      { return vm.values.Len() }
func (vm *VectorMap[K, V]) IsEmpty() bool { return vm.values.IsEmpty() }

// Reserve makes room for n entries.
func (vm *VectorMap[K, V]) Reserve(n int) {
	vm.values.Reserve(n)
	vm.index.Reserve(n)
}

// Values returns the values in insertion order.
func (vm *VectorMap[K, V]) Values() Span[V] { return vm.values.Span() }

// All iterates over key/value pairs in insertion order.
func (vm *VectorMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		keys := make([]K, vm.values.Len())
		for k, i := range vm.index.Items() {
			keys[i] = k
		}
		for i, v := range vm.values.All() {
			if !yield(keys[i], v) {
				return
			}
		}
	}
}

// Release returns heap storage of both the values and the index.
func (vm *VectorMap[K, V]) Release() {
	vm.values.Release()
	vm.index.Release()
}
