package mem

import (
	"encoding/binary"
	"sync/atomic"
	"unsafe"

	"github.com/g-wiedemair/fears/internal/buf"
)

// Tags are four ASCII characters stored little-endian.
const (
	tagHead1 = uint32('M') | uint32('E')<<8 | uint32('M')<<16 | uint32('O')<<24
	tagHead2 = uint32('R') | uint32('Y')<<8 | uint32('B')<<16 | uint32('L')<<24
	tagTail  = uint32('O') | uint32('C')<<8 | uint32('K')<<16 | uint32('!')<<24
	tagFree  = uint32('F') | uint32('R')<<8 | uint32('E')<<16 | uint32('E')<<24
)

const (
	headerSize = 32
	tailSize   = 8

	// MinAlignment is the alignment every payload satisfies.
	MinAlignment = int(unsafe.Sizeof(uintptr(0)))
	// MaxAlignment is the largest alignment MallocAligned accepts.
	MaxAlignment = 1024
)

// Field offsets inside the header.
const (
	offTag1      = 0
	offKind      = 4
	offFlags     = 5
	offAlignment = 6
	offLength    = 8
	offSlot      = 16
	offOffset    = 20
	offTag2      = 24
	offSlack     = 28
)

// flagFrame marks blocks whose storage is a typed Go heap frame.
const flagFrame uint8 = 1 << 0

// header is the decoded form of the bytes preceding a payload.
type header struct {
	tag1      uint32
	kind      Kind
	flags     uint8
	alignment uint16
	length    uint64 // rounded to a multiple of 4
	slot      uint32 // guarded slot + 1, 0 when untracked
	offset    uint32 // payload offset from the region base
	tag2      uint32
	slack     uint32 // raw: region bytes after the tail; frame: bytes between payload end and tail
}

func headerBytes(payload unsafe.Pointer) []byte {
	return unsafe.Slice((*byte)(unsafe.Add(payload, -headerSize)), headerSize)
}

func loadHeader(payload unsafe.Pointer) header {
	b := headerBytes(payload)
	return header{
		tag1:      buf.U32LE(b[offTag1:]),
		kind:      Kind(b[offKind]),
		flags:     b[offFlags],
		alignment: buf.U16LE(b[offAlignment:]),
		length:    buf.U64LE(b[offLength:]),
		slot:      buf.U32LE(b[offSlot:]),
		offset:    buf.U32LE(b[offOffset:]),
		tag2:      buf.U32LE(b[offTag2:]),
		slack:     buf.U32LE(b[offSlack:]),
	}
}

func (h *header) store(payload unsafe.Pointer) {
	b := headerBytes(payload)
	buf.PutU32LE(b[offTag1:], h.tag1)
	b[offKind] = byte(h.kind)
	b[offFlags] = h.flags
	buf.PutU16LE(b[offAlignment:], h.alignment)
	buf.PutU64LE(b[offLength:], h.length)
	buf.PutU32LE(b[offSlot:], h.slot)
	buf.PutU32LE(b[offOffset:], h.offset)
	buf.PutU32LE(b[offTag2:], h.tag2)
	buf.PutU32LE(b[offSlack:], h.slack)
}

func (h header) live() bool { return h.tag1 == tagHead1 && h.tag2 == tagHead2 }

func (h header) freed() bool { return h.tag1 == tagFree && h.tag2 == tagFree }

// valid reports whether a live header is internally consistent.
func (h header) valid() bool {
	if !h.live() || h.length&3 != 0 {
		return false
	}
	if h.kind != KindRaw && h.kind != KindTyped {
		return false
	}
	a := int(h.alignment)
	return validAlignment(a) && a >= MinAlignment && int(h.offset) >= headerSize
}

// tailOffset returns the tail position relative to the payload. Frames
// may hold spare elements between the payload end and the tail.
func (h header) tailOffset() uint64 {
	if h.flags&flagFrame != 0 {
		return h.length + uint64(h.slack)
	}
	return h.length
}

func tailBytes(payload unsafe.Pointer, off uint64) []byte {
	return unsafe.Slice((*byte)(unsafe.Add(payload, int(off))), tailSize)
}

func loadTail(payload unsafe.Pointer, off uint64) uint32 {
	return buf.U32LE(tailBytes(payload, off))
}

func storeTail(payload unsafe.Pointer, off uint64, tag uint32) {
	buf.PutU32LE(tailBytes(payload, off), tag)
}

// markFree overwrites both header tags with FREE.
func markFree(payload unsafe.Pointer) {
	b := headerBytes(payload)
	buf.PutU32LE(b[offTag1:], tagFree)
	buf.PutU32LE(b[offTag2:], tagFree)
}

// claimHead1 atomically flips the first header tag from live to FREE and
// reports whether this caller won the flip.
func claimHead1(payload unsafe.Pointer) bool {
	word := (*uint32)(unsafe.Add(payload, -headerSize+offTag1))
	return atomic.CompareAndSwapUint32(word, nativeHead1, nativeFree)
}

var (
	nativeHead1 = nativeWord(tagHead1)
	nativeFree  = nativeWord(tagFree)
)

// nativeWord returns the in-memory value of a little-endian tag as read by
// a native uint32 load.
func nativeWord(tag uint32) uint32 {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], tag)
	return binary.NativeEndian.Uint32(b[:])
}

func roundLen(n uint64) uint64 { return (n + 3) &^ 3 }

func validAlignment(a int) bool {
	return a > 0 && a <= MaxAlignment && a&(a-1) == 0
}

func alignUp(p uintptr, a int) uintptr {
	mask := uintptr(a) - 1
	return (p + mask) &^ mask
}

func fill(payload unsafe.Pointer, length uint64, v byte) {
	if length == 0 {
		return
	}
	b := unsafe.Slice((*byte)(payload), int(length))
	for i := range b {
		b[i] = v
	}
}
