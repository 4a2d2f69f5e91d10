package mem

import (
	"io"
	"reflect"
	"unsafe"

	"go.uber.org/atomic"
)

// lockfree keeps atomic counters only. Headers are validated on free, but
// no list of live blocks exists.
type lockfree struct {
	*env
	blocks atomic.Int64
	bytes  atomic.Int64
	peak   atomic.Int64
}

func newLockfree(e *env) *lockfree { return &lockfree{env: e} }

func (l *lockfree) Name() string { return BackendLockfree }

func (l *lockfree) MallocAligned(n, alignment int, tag string, kind Kind) (Block, error) {
	return l.malloc(n, alignment, tag, kind, false)
}

func (l *lockfree) Calloc(n int, tag string) (Block, error) {
	return l.malloc(n, MinAlignment, tag, KindRaw, true)
}

func (l *lockfree) malloc(n, alignment int, tag string, kind Kind, zero bool) (Block, error) {
	req, err := l.rawRequest(n, alignment, tag, kind, zero)
	if err != nil {
		return Block{}, err
	}
	r, err := l.obtain(req, l.MemoryInUse())
	if err != nil {
		return Block{}, err
	}
	stamp(r, req, 0)
	l.account(req.length)
	return Block{ptr: r.payload, n: n}, nil
}

func (l *lockfree) MallocFrame(elem reflect.Type, count int, tag string) (Block, error) {
	r, req, err := l.obtainFrame(elem, count, tag, l.MemoryInUse())
	if err != nil {
		return Block{}, err
	}
	stamp(r, req, 0)
	l.account(req.length)
	return Block{ptr: r.payload, n: req.n}, nil
}

func (l *lockfree) account(length uint64) {
	l.blocks.Inc()
	cur := l.bytes.Add(int64(length))
	for {
		p := l.peak.Load()
		if cur <= p || l.peak.CompareAndSwap(p, cur) {
			return
		}
	}
}

// Free validates the header tags and releases b. Double frees are
// recognised while the region stays readable, which holds for HeapSource;
// other sources may unmap or reuse it.
func (l *lockfree) Free(b Block, kind Kind) error {
	if err := l.precheck(b); err != nil {
		return err
	}
	name := addrName(b.ptr)
	h := loadHeader(b.ptr)
	if h.freed() {
		l.rep.BlockError("double_free", name, "double free")
		return ErrDoubleFree
	}
	if !h.valid() {
		l.rep.BlockError("corrupt_header", name, "error in header")
		return ErrCorruptHeader
	}
	// The kind report may panic; the block must still be intact then.
	err := l.checkKind(h, kind, name)
	if !claimHead1(b.ptr) {
		l.rep.BlockError("double_free", name, "double free")
		return ErrDoubleFree
	}

	l.blocks.Dec()
	l.bytes.Sub(int64(h.length))
	l.retire(h, b.ptr, name)
	return err
}

func (l *lockfree) Live(p unsafe.Pointer) bool {
	if p == nil || uintptr(p)%uintptr(MinAlignment) != 0 {
		return false
	}
	return loadHeader(p).valid()
}

func (l *lockfree) MemoryInUse() uint64 { return uint64(l.bytes.Load()) }

func (l *lockfree) BlocksInUse() uint64 { return uint64(l.blocks.Load()) }

func (l *lockfree) Usage() Usage {
	return Usage{
		MemoryInUse: l.MemoryInUse(),
		BlocksInUse: l.BlocksInUse(),
		PeakMemory:  uint64(l.peak.Load()),
		Backend:     BackendLockfree,
	}
}

func (l *lockfree) Memlist() []BlockInfo { return nil }

func (l *lockfree) PrintMemlist(io.Writer) {}
