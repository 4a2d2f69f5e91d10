package mem

import (
	"fmt"
	"io"
	"sync"

	"github.com/dustin/go-humanize"
)

// LeakError reports blocks still live when the leak detector ran.
type LeakError struct {
	Blocks uint64
	Bytes  uint64
}

func (e *LeakError) Error() string {
	return fmt.Sprintf("Not freed memory blocks: %d, total unfree memory %s", e.Blocks, humanize.IBytes(e.Bytes))
}

// LeakDetector checks for live blocks at teardown. Data registered with
// KeepAlive is released only after the check, so long-lived objects that
// own blocks are not reported.
type LeakDetector struct {
	a          *Allocator
	failOnLeak bool

	mu   sync.Mutex // guards keep
	keep []any
}

func newLeakDetector(a *Allocator, failOnLeak bool) *LeakDetector {
	return &LeakDetector{a: a, failOnLeak: failOnLeak}
}

// KeepAlive registers data to be released after the leak check, in
// reverse registration order. io.Closer values are closed.
func (d *LeakDetector) KeepAlive(data any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.keep = append(d.keep, data)
}

// HasRun reports whether the check already ran.
func (d *LeakDetector) HasRun() bool { return d.a.leakRan.Load() }

// Run performs the check once. It returns a *LeakError when blocks are
// live and panics with it when fail-on-leak is set. Later calls return nil.
func (d *LeakDetector) Run() error {
	if !d.a.leakRan.CompareAndSwap(false, true) {
		return nil
	}
	err := d.check()
	d.release()
	if err != nil && d.failOnLeak {
		panic(err)
	}
	return err
}

func (d *LeakDetector) check() error {
	u := d.a.Usage()
	if u.BlocksInUse == 0 {
		return nil
	}
	err := &LeakError{Blocks: u.BlocksInUse, Bytes: u.MemoryInUse}
	d.a.rep.Errorf("Error: %s", err)
	for _, bi := range d.a.Memlist() {
		d.a.rep.Warn("leaked block", "tag", bi.Tag, "len", bi.Len, "addr", fmt.Sprintf("0x%x", bi.Addr))
	}
	return err
}

func (d *LeakDetector) release() {
	d.mu.Lock()
	keep := d.keep
	d.keep = nil
	d.mu.Unlock()

	for i := len(keep) - 1; i >= 0; i-- {
		if c, ok := keep[i].(io.Closer); ok {
			if err := c.Close(); err != nil {
				d.a.rep.Warn("closing kept-alive data failed", "err", err)
			}
		}
	}
}
