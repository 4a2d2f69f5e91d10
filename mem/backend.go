package mem

import (
	"fmt"
	"io"
	"reflect"
	"unsafe"

	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/g-wiedemair/fears/internal/diag"
)

// Backend is an allocation strategy. The lockfree and the guarded
// backends implement it; an Allocator holds exactly one.
type Backend interface {
	// Name returns "lockfree" or "guarded".
	Name() string
	// MallocAligned returns an uninitialized block of n bytes.
	MallocAligned(n, alignment int, tag string, kind Kind) (Block, error)
	// Calloc returns a zeroed block of n bytes with MinAlignment.
	Calloc(n int, tag string) (Block, error)
	// MallocFrame returns a zeroed typed block holding count elements of elem.
	MallocFrame(elem reflect.Type, count int, tag string) (Block, error)
	// Free releases b after validating it.
	Free(b Block, kind Kind) error
	// Live reports whether p is the payload of a block not yet freed.
	Live(p unsafe.Pointer) bool
	MemoryInUse() uint64
	BlocksInUse() uint64
	Usage() Usage
	// Memlist returns the live blocks in allocation order when tracked.
	Memlist() []BlockInfo
	PrintMemlist(w io.Writer)
}

// env is the state shared by both backends of one Allocator.
type env struct {
	store   *blockStore
	rep     *diag.Reporter
	memset  bool
	leakRan *atomic.Bool
}

// request is a validated allocation request.
type request struct {
	n         int
	length    uint64
	alignment int
	tag       string
	kind      Kind
	zero      bool
}

func (e *env) rawRequest(n, alignment int, tag string, kind Kind, zero bool) (request, error) {
	if n < 0 {
		e.rep.BlockError("size_overflow", tag, fmt.Sprintf("negative length %d", n))
		return request{}, errors.Wrapf(ErrSizeOverflow, "negative length %d", n)
	}
	if !validAlignment(alignment) {
		diag.Assert(false, "alignment %d is not a power of two <= %d", alignment, MaxAlignment)
		e.rep.BlockError("invalid_alignment", tag, fmt.Sprintf("illegal alignment %d", alignment))
		return request{}, errors.Wrapf(ErrInvalidAlignment, "alignment %d", alignment)
	}
	if alignment < MinAlignment {
		alignment = MinAlignment
	}
	return request{
		n:         n,
		length:    roundLen(uint64(n)),
		alignment: alignment,
		tag:       tag,
		kind:      kind,
		zero:      zero,
	}, nil
}

// obtain fetches storage for a raw request and reports exhaustion.
func (e *env) obtain(req request, inUse uint64) (region, error) {
	r, err := e.store.raw(req.length, req.alignment)
	if err != nil {
		e.rep.BlockError("out_of_memory", req.tag,
			fmt.Sprintf("unable to allocate %d bytes, total %d in use: %v", req.n, inUse, err))
		return region{}, err
	}
	if !req.zero && e.memset {
		fill(r.payload, req.length, 0xFF)
	}
	return r, nil
}

func (e *env) obtainFrame(elem reflect.Type, count int, tag string, inUse uint64) (region, request, error) {
	r, length, err := e.store.frame(elem, count)
	if err != nil {
		e.rep.BlockError("out_of_memory", tag,
			fmt.Sprintf("unable to allocate %d x %s, total %d in use: %v", count, elem, inUse, err))
		return region{}, request{}, err
	}
	alignment := elem.Align()
	if alignment < MinAlignment {
		alignment = MinAlignment
	}
	return r, request{
		n:         int(elem.Size()) * count,
		length:    length,
		alignment: alignment,
		tag:       tag,
		kind:      KindTyped,
		zero:      true,
	}, nil
}

func stamp(r region, req request, slot uint32) {
	h := header{
		tag1:      tagHead1,
		kind:      req.kind,
		flags:     r.flags,
		alignment: uint16(req.alignment),
		length:    req.length,
		slot:      slot,
		offset:    r.offset(),
		tag2:      tagHead2,
		slack:     r.slack(req.length),
	}
	h.store(r.payload)
	storeTail(r.payload, h.tailOffset(), tagTail)
}

func addrName(p unsafe.Pointer) string { return fmt.Sprintf("0x%x", uintptr(p)) }

// precheck validates the handle itself. It reports and returns an error
// for nil and misaligned handles.
func (e *env) precheck(b Block) error {
	if e.leakRan.Load() {
		e.rep.Errorf("Freeing memory after the leak detector has run. " +
			"Release long-lived data through LeakDetector.KeepAlive instead.")
	}
	if b.ptr == nil {
		e.rep.BlockError("nil_block", "unknown", "attempt to free nil block")
		return ErrNilBlock
	}
	if uintptr(b.ptr)%uintptr(MinAlignment) != 0 {
		e.rep.BlockError("illegal_pointer", addrName(b.ptr), "attempt to free illegal pointer")
		return ErrIllegalPointer
	}
	return nil
}

func (e *env) checkKind(h header, want Kind, name string) error {
	if h.kind == want {
		return nil
	}
	if want == KindRaw {
		e.rep.BlockError("kind_mismatch", name, "attempt to use raw Free on a block created with Construct or NewArray")
	} else {
		e.rep.BlockError("kind_mismatch", name, "attempt to use Destroy or FreeArray on a block created with Malloc or Calloc")
	}
	return ErrKindMismatch
}

// retire scrubs a validated block and returns its storage.
func (e *env) retire(h header, payload unsafe.Pointer, name string) {
	if e.memset && h.flags&flagFrame == 0 {
		fill(payload, h.length, 0xFF)
	}
	markFree(payload)
	storeTail(payload, h.tailOffset(), tagFree)
	if err := e.store.release(h, payload); err != nil {
		e.rep.BlockError("release_failed", name, err.Error())
	}
}
