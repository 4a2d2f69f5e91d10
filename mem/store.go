package mem

import (
	"fmt"
	"math"
	"math/bits"
	"reflect"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
)

// region is the storage behind one block.
type region struct {
	base    unsafe.Pointer
	total   int
	payload unsafe.Pointer
	flags   uint8
	tail    uint64 // tail offset from payload, frames only
}

func (r region) offset() uint32 { return uint32(uintptr(r.payload) - uintptr(r.base)) }

func (r region) slack(length uint64) uint32 {
	if r.flags&flagFrame != 0 {
		return uint32(r.tail - length)
	}
	return uint32(r.total - int(r.offset()) - int(length) - tailSize)
}

// blockStore obtains and returns block storage. Raw regions come from the
// Source; typed frames come from the Go heap.
type blockStore struct {
	src      Source
	maxBlock uint64
	frames   sync.Map // frameKey -> reflect.Type
}

func (s *blockStore) checkLimit(length uint64) error {
	if s.maxBlock > 0 && length > s.maxBlock {
		return errors.Wrapf(ErrOutOfMemory, "%d bytes exceed the block size limit of %d", length, s.maxBlock)
	}
	return nil
}

// raw returns a region whose payload of length bytes is aligned to alignment.
func (s *blockStore) raw(length uint64, alignment int) (region, error) {
	if err := s.checkLimit(length); err != nil {
		return region{}, err
	}
	pad := uint64(alignment - MinAlignment)
	if length > math.MaxInt-headerSize-tailSize-pad {
		return region{}, errors.Wrapf(ErrSizeOverflow, "length %d", length)
	}
	total := int(headerSize + pad + length + tailSize)

	b, err := s.src.Alloc(total)
	if err != nil {
		return region{}, errors.Wrap(ErrOutOfMemory, err.Error())
	}
	if len(b) < total {
		return region{}, errors.Wrapf(ErrOutOfMemory, "source returned %d of %d bytes", len(b), total)
	}
	base := unsafe.Pointer(unsafe.SliceData(b))
	off := int(alignUp(uintptr(base)+headerSize, alignment) - uintptr(base))
	return region{base: base, total: total, payload: unsafe.Add(base, off)}, nil
}

type frameKey struct {
	elem  reflect.Type
	count int
}

var byteType = reflect.TypeFor[byte]()

// frame allocates a Go heap object laid out as header, elements, padding
// and tail, so the collector scans the elements as usual. The element
// count is rounded up to a frame class; spare elements stay zero.
func (s *blockStore) frame(elem reflect.Type, count int) (region, uint64, error) {
	if count < 0 {
		return region{}, 0, errors.Wrapf(ErrSizeOverflow, "negative count %d", count)
	}
	esize := uint64(elem.Size())
	if esize > 0 && uint64(count) > (math.MaxInt/4)/esize {
		return region{}, 0, errors.Wrapf(ErrSizeOverflow, "%d elements of %d bytes", count, esize)
	}
	size := esize * uint64(count)
	length := roundLen(size)
	if err := s.checkLimit(length); err != nil {
		return region{}, 0, err
	}

	class := frameCount(count)
	if (uint64(class)-uint64(count))*esize > math.MaxUint32-4 {
		class = count
	}
	tail := roundLen(esize * uint64(class))
	ft := s.frameType(elem, class, int(tail-esize*uint64(class)))
	v := reflect.New(ft)
	base := v.UnsafePointer()
	return region{
		base:    base,
		total:   int(ft.Size()),
		payload: unsafe.Add(base, headerSize),
		flags:   flagFrame,
		tail:    tail,
	}, length, nil
}

// frameCount rounds n up to one of at most four classes per power of two,
// which bounds the number of frame types built per element type.
func frameCount(n int) int {
	if n <= 8 {
		return n
	}
	step := 1 << (bits.Len(uint(n-1)) - 3)
	return (n + step - 1) &^ (step - 1)
}

func (s *blockStore) frameType(elem reflect.Type, count, pad int) reflect.Type {
	key := frameKey{elem: elem, count: count}
	if t, ok := s.frames.Load(key); ok {
		return t.(reflect.Type)
	}
	t := reflect.StructOf([]reflect.StructField{
		{Name: "Head", Type: reflect.ArrayOf(headerSize, byteType)},
		{Name: "Data", Type: reflect.ArrayOf(count, elem)},
		{Name: "Pad", Type: reflect.ArrayOf(pad, byteType)},
		{Name: "Tail", Type: reflect.ArrayOf(tailSize, byteType)},
	})
	if f := t.Field(1); f.Offset != headerSize {
		panic(fmt.Sprintf("mem: frame payload of %s at offset %d", elem, f.Offset))
	}
	actual, _ := s.frames.LoadOrStore(key, t)
	return actual.(reflect.Type)
}

// release hands raw regions back to the source. Frames are left to the
// collector.
func (s *blockStore) release(h header, payload unsafe.Pointer) error {
	if h.flags&flagFrame != 0 {
		return nil
	}
	base := unsafe.Add(payload, -int(h.offset))
	total := int(h.offset) + int(h.length) + tailSize + int(h.slack)
	return s.src.Release(unsafe.Slice((*byte)(base), total))
}
