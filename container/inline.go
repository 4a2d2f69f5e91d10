package container

import (
	"fmt"
	"path/filepath"
	"runtime"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/g-wiedemair/fears/mem"
)

const (
	// DefaultInlineCapacity is the inline element count for small element types.
	DefaultInlineCapacity = 4
	// InlineSizeLimit is the element size from which no inline storage is used.
	InlineSizeLimit = 100
)

// InlineCapacity returns the number of elements of T stored inside a
// container before it allocates.
func InlineCapacity[T any]() int {
	var zero T
	if unsafe.Sizeof(zero) < InlineSizeLimit {
		return DefaultInlineCapacity
	}
	return 0
}

// noCopy may be embedded into structs which must not be copied after the
// first use. go vet reports copies.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// callerTag names the source location skip frames above its caller.
func callerTag(skip int, fallback string) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return fallback
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

// allocate returns n zero-valued elements. Allocation failure is fatal.
func allocate[T any](a *mem.Allocator, n int, tag string) []T {
	if n <= 0 {
		return nil
	}
	if a == nil {
		return make([]T, n)
	}
	s, err := mem.NewArray[T](a, n, tag)
	if err != nil {
		panic(errors.Wrapf(err, "container: allocate %d elements for %s", n, tag))
	}
	return s
}

// release returns storage obtained from allocate. Misuse is reported by
// the allocator.
func release[T any](a *mem.Allocator, s []T) {
	if cap(s) == 0 {
		return
	}
	if a == nil {
		clear(s[:cap(s)])
		return
	}
	_ = mem.FreeArray(a, s)
}
