package mem

import "github.com/pkg/errors"

var (
	// ErrNilBlock is returned when a nil block is freed.
	ErrNilBlock = errors.New("mem: attempt to free nil block")

	// ErrIllegalPointer is returned when the freed address is not aligned to MinAlignment.
	ErrIllegalPointer = errors.New("mem: attempt to free illegal pointer")

	// ErrDoubleFree indicates a block that was already freed.
	ErrDoubleFree = errors.New("mem: double free")

	// ErrKindMismatch indicates a raw block released through the typed API or vice versa.
	// The block is still released.
	ErrKindMismatch = errors.New("mem: block released through the wrong API")

	// ErrCorruptHeader indicates that the in-band header tags or fields are damaged.
	ErrCorruptHeader = errors.New("mem: error in header")

	// ErrCorruptTail indicates that the tag after the payload was overwritten.
	ErrCorruptTail = errors.New("mem: end corrupt")

	// ErrNotInMemlist indicates an address the guarded backend never handed out.
	ErrNotInMemlist = errors.New("mem: pointer not in memlist")

	// ErrInvalidAlignment indicates an alignment that is not a power of two or exceeds MaxAlignment.
	ErrInvalidAlignment = errors.New("mem: alignment must be a power of two not above 1024")

	// ErrOutOfMemory indicates that the block source or the block size limit refused a request.
	ErrOutOfMemory = errors.New("mem: out of memory")

	// ErrSizeOverflow indicates a negative size or a count*size product that overflows.
	ErrSizeOverflow = errors.New("mem: size overflow")

	// ErrAllocatorInUse is returned when switching backends while blocks are live.
	ErrAllocatorInUse = errors.New("mem: backend switch with live blocks")

	// ErrBackendFixed is returned when the backend was already switched once.
	ErrBackendFixed = errors.New("mem: backend already switched")

	// ErrSourceUnsupported indicates a block source that is not available on this platform.
	ErrSourceUnsupported = errors.New("mem: block source not supported on this platform")

	// ErrInvalidConfig wraps configuration validation failures.
	ErrInvalidConfig = errors.New("mem: invalid config")
)
