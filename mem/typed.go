package mem

import (
	"reflect"
	"unsafe"
)

// Destructor is implemented by values that release resources before their
// memory is returned by Destroy or DestroyArray. It is not run for blocks
// that are already freed.
type Destructor interface {
	Destroy()
}

// Construct allocates a typed block holding value and returns a pointer to it.
func Construct[T any](a *Allocator, tag string, value T) (*T, error) {
	b, err := a.backend.MallocFrame(reflect.TypeFor[T](), 1, tag)
	if err != nil {
		return nil, err
	}
	p := (*T)(b.ptr)
	*p = value
	return p, nil
}

// Destroy runs the Destroy method of *p when present and releases the block.
// p must come from Construct on the same Allocator.
func Destroy[T any](a *Allocator, p *T) error {
	if p == nil {
		return a.backend.Free(Block{}, KindTyped)
	}
	if d, ok := any(p).(Destructor); ok && a.backend.Live(unsafe.Pointer(p)) {
		d.Destroy()
	}
	var zero T
	err := a.backend.Free(Block{ptr: unsafe.Pointer(p), n: int(unsafe.Sizeof(zero))}, KindTyped)
	if err == nil {
		*p = zero
	}
	return err
}

// NewArray allocates a typed block of n zero-valued elements.
// Returns nil if n == 0.
func NewArray[T any](a *Allocator, n int, tag string) ([]T, error) {
	if n == 0 {
		return nil, nil
	}
	b, err := a.backend.MallocFrame(reflect.TypeFor[T](), n, tag)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*T)(b.ptr), n), nil
}

// FreeArray releases a slice returned by NewArray. The slice may have been
// shortened but must start at the original first element. Elements are
// zeroed once released; Destroy methods are not run.
func FreeArray[T any](a *Allocator, s []T) error {
	if cap(s) == 0 {
		return nil
	}
	s = s[:cap(s)]
	var zero T
	b := Block{ptr: unsafe.Pointer(unsafe.SliceData(s)), n: len(s) * int(unsafe.Sizeof(zero))}
	err := a.backend.Free(b, KindTyped)
	if err == nil {
		clear(s)
	}
	return err
}

// DestroyArray runs the Destroy method of every element that has one and
// releases the slice like FreeArray.
func DestroyArray[T any](a *Allocator, s []T) error {
	s = s[:cap(s)]
	if len(s) > 0 && a.backend.Live(unsafe.Pointer(unsafe.SliceData(s))) {
		for i := range s {
			if d, ok := any(&s[i]).(Destructor); ok {
				d.Destroy()
			}
		}
	}
	return FreeArray(a, s)
}
