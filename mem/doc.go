// Package mem implements the block allocator of fears with accounting and
// leak detection.
//
// # Overview
//
// An Allocator hands out Blocks: payloads preceded by a 32-byte header that
// records the creating API, the alignment and the rounded length, and
// followed by a tail tag. Two backends share this layout:
//
//   - lockfree keeps atomic counters of live blocks and bytes and validates
//     the header tags when a block is freed.
//   - guarded serializes every operation on one mutex, keeps a list of live
//     blocks with their owner tags, checks the tail tag on free and can
//     print the list at any time.
//
// The backend is chosen at startup. An Allocator starts lockfree and can be
// switched to guarded exactly once, before the first block is allocated.
//
// # Basic Usage
//
//	a, err := mem.New(mem.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer a.Close() // runs the leak detector
//
//	// Raw blocks
//	b, err := a.Malloc(1024, "mesh buffer")
//	buf := b.Bytes()
//	...
//	a.Free(b)
//
//	// Typed blocks
//	node, err := mem.Construct(a, "node", Node{ID: 1})
//	...
//	mem.Destroy(a, node)
//
// # Storage
//
// Raw blocks come from a Source: the Go heap (default), a ChunkSource that
// bumps through large chunks, or anonymous mmap on unix. Typed blocks are
// always Go heap objects so that pointers inside them stay visible to the
// garbage collector.
//
// # Diagnostics
//
// Misuse such as a double free, a corrupt header or tail, or a block
// released through the wrong API is reported as "MemoryBlock <tag>:
// <message>" to the error callback or the logger, counted in metrics and
// returned as an error. The offending free is refused unless the block
// itself is intact. Config.AbortOnError turns every report into a panic.
//
// # Leak Detection
//
// When leak detection is enabled, Close reports the number and total size
// of live blocks and, with the guarded backend, one line per block.
// Config.FailOnLeak turns a leak into a panic.
package mem
