package mem

import (
	"fmt"
	"unsafe"
)

// Kind records which API created a block.
type Kind uint8

const (
	// KindRaw blocks come from Malloc, MallocAligned and Calloc and are released with Free.
	KindRaw Kind = iota + 1
	// KindTyped blocks come from Construct and NewArray and are released with Destroy or FreeArray.
	KindTyped
)

func (k Kind) String() string {
	switch k {
	case KindRaw:
		return "raw"
	case KindTyped:
		return "typed"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Block is a handle to a payload handed out by an Allocator. The zero
// Block is nil. Copying a Block does not copy the payload; exactly one
// copy may be passed to Free.
type Block struct {
	ptr unsafe.Pointer
	n   int
}

// BlockAt rebuilds a handle from a payload address returned by Pointer.
func BlockAt(p unsafe.Pointer, n int) Block {
	return Block{ptr: p, n: n}
}

// Bytes returns the payload as a byte slice of the requested length.
func (b Block) Bytes() []byte {
	if b.ptr == nil {
		return nil
	}
	return unsafe.Slice((*byte)(b.ptr), b.n)
}

// Pointer returns the payload address.
func (b Block) Pointer() unsafe.Pointer { return b.ptr }

// Len returns the requested payload length.
func (b Block) Len() int { return b.n }

// IsNil reports whether b refers to no payload.
func (b Block) IsNil() bool { return b.ptr == nil }

// BlockInfo describes a live block tracked by the guarded backend.
type BlockInfo struct {
	Tag       string  // owner tag given at allocation
	Len       uint64  // payload length rounded to 4
	Addr      uintptr // payload address
	Kind      Kind    // creating API
	Alignment int     // effective alignment
}

func (bi BlockInfo) String() string {
	return fmt.Sprintf("%s len: %d - 0x%x", bi.Tag, bi.Len, bi.Addr)
}
