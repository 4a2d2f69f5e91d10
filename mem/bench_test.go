package mem

import (
	"runtime"
	"testing"
)

func benchAllocator(b *testing.B, backend, source string) *Allocator {
	cfg := DefaultConfig()
	cfg.Backend = backend
	cfg.Source = source
	cfg.LeakDetection = false
	a, err := New(cfg)
	if err != nil {
		b.Fatal(err)
	}
	return a
}

// BenchmarkMallocFree allocates and frees 100 small blocks per iteration
func BenchmarkMallocFree(b *testing.B) {
	for _, backend := range backends {
		for _, source := range []string{SourceHeap, SourceChunk} {
			b.Run(backend+"/"+source, func(b *testing.B) {
				a := benchAllocator(b, backend, source)
				blocks := make([]Block, 100)
				b.ReportAllocs()
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					for j := range blocks {
						blocks[j], _ = a.Malloc(64, "bench")
					}
					for _, blk := range blocks {
						_ = a.Free(blk)
					}
				}
			})
		}
	}

	b.Run("Builtin", func(b *testing.B) {
		objects := make([][]byte, 100)
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for j := range objects {
				objects[j] = make([]byte, 64)
			}
			if i%10 == 0 {
				runtime.GC()
			}
		}
	})
}

// BenchmarkConstruct measures typed allocation of a 64-byte struct
func BenchmarkConstruct(b *testing.B) {
	type element struct {
		ID   int64
		Data [56]byte
	}
	for _, backend := range backends {
		b.Run(backend, func(b *testing.B) {
			a := benchAllocator(b, backend, SourceHeap)
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				p, _ := Construct(a, "element", element{ID: int64(i)})
				_ = Destroy(a, p)
			}
		})
	}
}

// BenchmarkParallelMallocFree compares lock contention of the backends
func BenchmarkParallelMallocFree(b *testing.B) {
	for _, backend := range backends {
		b.Run(backend, func(b *testing.B) {
			a := benchAllocator(b, backend, SourceHeap)
			b.ReportAllocs()
			b.ResetTimer()

			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					blk, _ := a.Malloc(128, "parallel")
					_ = a.Free(blk)
				}
			})
		})
	}
}
