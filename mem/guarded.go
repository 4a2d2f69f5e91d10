package mem

import (
	"fmt"
	"io"
	"reflect"
	"sync"
	"unsafe"

	"github.com/dolthub/swiss"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

// DefaultFreedHistory is the number of freed addresses remembered for
// double-free reports.
const DefaultFreedHistory = 4096

const noSlot = -1

// entry is one slot of the live block table. Slots are linked in
// allocation order through prev and next.
type entry struct {
	prev, next int32
	payload    unsafe.Pointer // keeps the backing storage reachable
	tag        string
	length     uint64
	kind       Kind
	alignment  int
}

// guarded serializes every operation on one mutex and tracks each live
// block, its owner tag and its tail tag.
type guarded struct {
	*env
	mu sync.Mutex

	entries    []entry
	freeSlots  []int32
	head, tail int32
	byAddr     *swiss.Map[uintptr, int32]
	freed      *lru.Cache[uintptr, string] // nil when history is disabled

	blocks uint64
	bytes  uint64
	peak   uint64
}

func newGuarded(e *env, history int) (*guarded, error) {
	g := &guarded{
		env:    e,
		head:   noSlot,
		tail:   noSlot,
		byAddr: swiss.NewMap[uintptr, int32](64),
	}
	if history > 0 {
		c, err := lru.New[uintptr, string](history)
		if err != nil {
			return nil, errors.Wrap(err, "freed block history")
		}
		g.freed = c
	}
	return g, nil
}

func (g *guarded) Name() string { return BackendGuarded }

func (g *guarded) MallocAligned(n, alignment int, tag string, kind Kind) (Block, error) {
	return g.malloc(n, alignment, tag, kind, false)
}

func (g *guarded) Calloc(n int, tag string) (Block, error) {
	return g.malloc(n, MinAlignment, tag, KindRaw, true)
}

func (g *guarded) malloc(n, alignment int, tag string, kind Kind, zero bool) (Block, error) {
	req, err := g.rawRequest(n, alignment, tag, kind, zero)
	if err != nil {
		return Block{}, err
	}
	r, err := g.obtain(req, g.MemoryInUse())
	if err != nil {
		return Block{}, err
	}
	g.insert(r, req)
	return Block{ptr: r.payload, n: n}, nil
}

func (g *guarded) MallocFrame(elem reflect.Type, count int, tag string) (Block, error) {
	r, req, err := g.obtainFrame(elem, count, tag, g.MemoryInUse())
	if err != nil {
		return Block{}, err
	}
	g.insert(r, req)
	return Block{ptr: r.payload, n: req.n}, nil
}

// insert stamps the header and links the block at the list tail.
func (g *guarded) insert(r region, req request) {
	g.mu.Lock()
	defer g.mu.Unlock()

	slot := g.allocSlot()
	g.entries[slot] = entry{
		prev:      g.tail,
		next:      noSlot,
		payload:   r.payload,
		tag:       req.tag,
		length:    req.length,
		kind:      req.kind,
		alignment: req.alignment,
	}
	if g.tail != noSlot {
		g.entries[g.tail].next = slot
	} else {
		g.head = slot
	}
	g.tail = slot
	stamp(r, req, uint32(slot)+1)

	addr := uintptr(r.payload)
	g.byAddr.Put(addr, slot)
	if g.freed != nil {
		g.freed.Remove(addr)
	}

	g.blocks++
	g.bytes += req.length
	if g.bytes > g.peak {
		g.peak = g.bytes
	}
}

func (g *guarded) allocSlot() int32 {
	if n := len(g.freeSlots); n > 0 {
		s := g.freeSlots[n-1]
		g.freeSlots = g.freeSlots[:n-1]
		return s
	}
	g.entries = append(g.entries, entry{})
	return int32(len(g.entries) - 1)
}

func (g *guarded) unlink(slot int32) {
	e := &g.entries[slot]
	if e.prev != noSlot {
		g.entries[e.prev].next = e.next
	} else {
		g.head = e.next
	}
	if e.next != noSlot {
		g.entries[e.next].prev = e.prev
	} else {
		g.tail = e.prev
	}
	*e = entry{}
	g.freeSlots = append(g.freeSlots, slot)
}

func (g *guarded) Free(b Block, kind Kind) error {
	if err := g.precheck(b); err != nil {
		return err
	}
	addr := uintptr(b.ptr)

	g.mu.Lock()
	defer g.mu.Unlock()

	slot, ok := g.byAddr.Get(addr)
	if !ok {
		if g.freed != nil {
			if tag, seen := g.freed.Get(addr); seen {
				g.rep.BlockError("double_free", tag, "double free")
				return ErrDoubleFree
			}
		}
		g.rep.BlockError("not_in_memlist", addrName(b.ptr), "pointer not in memlist")
		return ErrNotInMemlist
	}

	e := &g.entries[slot]
	tag := e.tag
	h := loadHeader(b.ptr)
	if !h.valid() || h.slot != uint32(slot)+1 || h.length != e.length {
		g.rep.BlockError("corrupt_header", tag, "error in header")
		g.checkMemlist(slot)
		return ErrCorruptHeader
	}
	if loadTail(b.ptr, h.tailOffset()) != tagTail {
		g.rep.BlockError("corrupt_tail", tag, "end corrupt")
		g.checkMemlist(slot)
		return ErrCorruptTail
	}
	err := g.checkKind(h, kind, tag)

	g.unlink(slot)
	g.byAddr.Delete(addr)
	if g.freed != nil {
		g.freed.Add(addr, tag)
	}
	g.blocks--
	g.bytes -= h.length
	g.retire(h, b.ptr, tag)
	return err
}

func (g *guarded) Live(p unsafe.Pointer) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.byAddr.Get(uintptr(p))
	return ok
}

// checkMemlist reports every live block other than skip whose header or
// tail is damaged. Called with g.mu held.
func (g *guarded) checkMemlist(skip int32) {
	for s := g.head; s != noSlot; s = g.entries[s].next {
		if s == skip {
			continue
		}
		e := &g.entries[s]
		h := loadHeader(e.payload)
		if !h.valid() || h.slot != uint32(s)+1 {
			g.rep.BlockError("corrupt_header", e.tag, "header is also corrupt")
			continue
		}
		if loadTail(e.payload, h.tailOffset()) != tagTail {
			g.rep.BlockError("corrupt_tail", e.tag, "end is also corrupt")
		}
	}
}

func (g *guarded) MemoryInUse() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.bytes
}

func (g *guarded) BlocksInUse() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.blocks
}

func (g *guarded) Usage() Usage {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Usage{
		MemoryInUse: g.bytes,
		BlocksInUse: g.blocks,
		PeakMemory:  g.peak,
		Backend:     BackendGuarded,
	}
}

func (g *guarded) Memlist() []BlockInfo {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]BlockInfo, 0, g.blocks)
	for s := g.head; s != noSlot; s = g.entries[s].next {
		e := &g.entries[s]
		out = append(out, BlockInfo{
			Tag:       e.tag,
			Len:       e.length,
			Addr:      uintptr(e.payload),
			Kind:      e.kind,
			Alignment: e.alignment,
		})
	}
	return out
}

func (g *guarded) PrintMemlist(w io.Writer) {
	for _, bi := range g.Memlist() {
		fmt.Fprintln(w, bi.String())
	}
}
