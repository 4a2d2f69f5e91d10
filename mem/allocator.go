package mem

import (
	"fmt"
	"io"
	"math"
	"math/bits"
	"sync"

	"github.com/go-kit/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"

	"github.com/g-wiedemair/fears/internal/diag"
)

// Allocator routes every allocation to its backend. It starts with the
// lockfree backend; UseGuarded rebinds it to the guarded backend once,
// while no block is live. Allocation and free are safe for concurrent use;
// switching the backend concurrently with them is not.
type Allocator struct {
	cfg     Config
	rep     *diag.Reporter
	store   *blockStore
	env     *env
	leakRan atomic.Bool
	closed  atomic.Bool
	metrics *allocMetrics

	mu       sync.Mutex // guards backend switching and leak detector creation
	backend  Backend
	switched bool
	leaks    *LeakDetector
}

// Option configures an Allocator.
type Option func(*options)

type options struct {
	logger   log.Logger
	callback func(string)
	reg      prometheus.Registerer
	source   Source
}

// WithLogger sets the logger receiving memory error reports.
func WithLogger(l log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithErrorCallback routes memory error reports to fn instead of the logger.
func WithErrorCallback(fn func(string)) Option {
	return func(o *options) { o.callback = fn }
}

// WithRegisterer exports allocator metrics to reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.reg = reg }
}

// WithSource overrides the raw block source selected by Config.Source.
func WithSource(src Source) Option {
	return func(o *options) { o.source = src }
}

// New creates an Allocator.
func New(cfg Config, opts ...Option) (*Allocator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	src := o.source
	if src == nil {
		var err error
		if src, err = cfg.newSource(); err != nil {
			return nil, err
		}
	}

	a := &Allocator{
		cfg:   cfg,
		store: &blockStore{src: src, maxBlock: cfg.MaxBlockSize.Bytes()},
	}
	a.rep = diag.NewReporter(
		diag.WithLogger(o.logger),
		diag.WithCallback(o.callback),
		diag.WithAbort(cfg.AbortOnError),
		diag.WithBacktrace(cfg.Backtrace),
		diag.WithReportHook(func(reason string) { a.metrics.observeError(reason) }),
	)
	a.env = &env{
		store:   a.store,
		rep:     a.rep,
		memset:  cfg.DebugMemset,
		leakRan: &a.leakRan,
	}
	a.backend = newLockfree(a.env)

	if cfg.Backend == BackendGuarded {
		if err := a.UseGuarded(); err != nil {
			return nil, err
		}
	}
	if cfg.LeakDetection {
		a.InitLeakDetection()
	}
	if o.reg != nil {
		m, err := newAllocMetrics(o.reg, a)
		if err != nil {
			return nil, err
		}
		a.metrics = m
	}
	return a, nil
}

// UseGuarded switches to the guarded backend. It fails with
// ErrAllocatorInUse while blocks are live and with ErrBackendFixed after
// the first switch.
func (a *Allocator) UseGuarded() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.switched {
		return ErrBackendFixed
	}
	if n := a.backend.BlocksInUse(); n != 0 {
		a.rep.Errorf("cannot switch to the guarded backend with %d blocks in use", n)
		return errors.Wrapf(ErrAllocatorInUse, "%d blocks in use", n)
	}
	g, err := newGuarded(a.env, a.cfg.FreedHistory)
	if err != nil {
		return err
	}
	a.backend = g
	a.switched = true
	return nil
}

// Backend returns the active backend.
func (a *Allocator) Backend() Backend { return a.backend }

// Malloc returns an uninitialized block of n bytes. With DebugMemset the
// payload is filled with 0xFF.
func (a *Allocator) Malloc(n int, tag string) (Block, error) {
	return a.backend.MallocAligned(n, MinAlignment, tag, KindRaw)
}

// MallocAligned returns an uninitialized block of n bytes whose address is
// a multiple of alignment, a power of two not above MaxAlignment.
func (a *Allocator) MallocAligned(n, alignment int, tag string) (Block, error) {
	return a.backend.MallocAligned(n, alignment, tag, KindRaw)
}

// Calloc returns a zeroed block of n bytes.
func (a *Allocator) Calloc(n int, tag string) (Block, error) {
	return a.backend.Calloc(n, tag)
}

// MallocArray returns an uninitialized block of count*size bytes. An
// overflowing product is reported and returns ErrSizeOverflow.
func (a *Allocator) MallocArray(count, size int, tag string) (Block, error) {
	n, err := a.arraySize(count, size, tag)
	if err != nil {
		return Block{}, err
	}
	return a.Malloc(n, tag)
}

// CallocArray returns a zeroed block of count*size bytes.
func (a *Allocator) CallocArray(count, size int, tag string) (Block, error) {
	n, err := a.arraySize(count, size, tag)
	if err != nil {
		return Block{}, err
	}
	return a.Calloc(n, tag)
}

func (a *Allocator) arraySize(count, size int, tag string) (int, error) {
	if count >= 0 && size >= 0 {
		hi, lo := bits.Mul64(uint64(count), uint64(size))
		if hi == 0 && lo <= math.MaxInt {
			return int(lo), nil
		}
	}
	a.rep.BlockError("size_overflow", tag,
		fmt.Sprintf("array allocation aborted due to integer overflow: %d x %d", count, size))
	return 0, errors.Wrapf(ErrSizeOverflow, "%d x %d", count, size)
}

// Free releases a block obtained from Malloc, MallocAligned, Calloc,
// MallocArray or CallocArray.
func (a *Allocator) Free(b Block) error {
	return a.backend.Free(b, KindRaw)
}

// MemoryInUse returns the payload bytes of live blocks.
func (a *Allocator) MemoryInUse() uint64 { return a.backend.MemoryInUse() }

// BlocksInUse returns the number of live blocks.
func (a *Allocator) BlocksInUse() uint64 { return a.backend.BlocksInUse() }

// Usage returns a snapshot of allocator statistics.
func (a *Allocator) Usage() Usage { return a.backend.Usage() }

// Memlist returns the live blocks in allocation order. Only the guarded
// backend tracks blocks; the lockfree backend returns nil.
func (a *Allocator) Memlist() []BlockInfo { return a.backend.Memlist() }

// PrintMemlist writes one line per live block to w.
func (a *Allocator) PrintMemlist(w io.Writer) { a.backend.PrintMemlist(w) }

// SetErrorCallback routes memory error reports to fn. A nil fn restores logging.
func (a *Allocator) SetErrorCallback(fn func(string)) { a.rep.SetCallback(fn) }

// InitLeakDetection creates the leak detector. Later calls return the same detector.
func (a *Allocator) InitLeakDetection() *LeakDetector {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.leaks == nil {
		a.leaks = newLeakDetector(a, a.cfg.FailOnLeak)
	}
	return a.leaks
}

// LeakDetector returns the leak detector, or nil before InitLeakDetection.
func (a *Allocator) LeakDetector() *LeakDetector {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.leaks
}

// Close runs the leak detector, if any, and unregisters metrics. The
// returned error is a *LeakError when blocks are still live. Close is
// idempotent.
func (a *Allocator) Close() error {
	if !a.closed.CompareAndSwap(false, true) {
		return nil
	}
	defer a.metrics.unregister()
	if d := a.LeakDetector(); d != nil {
		return d.Run()
	}
	return nil
}
