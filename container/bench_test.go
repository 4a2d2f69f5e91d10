package container

import (
	"strconv"
	"testing"

	"github.com/g-wiedemair/fears/mem"
)

func benchAllocator(b *testing.B) *mem.Allocator {
	cfg := mem.DefaultConfig()
	cfg.LeakDetection = false
	a, err := mem.New(cfg)
	if err != nil {
		b.Fatal(err)
	}
	return a
}

// BenchmarkVectorAppend appends 1000 ints per iteration
func BenchmarkVectorAppend(b *testing.B) {
	b.Run("Vector", func(b *testing.B) {
		a := benchAllocator(b)
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			v := NewVector[int](a)
			for j := 0; j < 1000; j++ {
				v.Append(j)
			}
			v.Release()
		}
	})

	b.Run("Builtin", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			var s []int
			for j := 0; j < 1000; j++ {
				s = append(s, j)
			}
			_ = s
		}
	})
}

// BenchmarkHashMapAdd inserts 1000 keys per iteration
func BenchmarkHashMapAdd(b *testing.B) {
	keys := make([]string, 1000)
	for i := range keys {
		keys[i] = "key" + strconv.Itoa(i)
	}
	hashers := map[string]Hasher[string]{
		"djb2":   DefaultHasher[string](),
		"xxhash": XXHashStrings(),
		"fnv1a":  FNV1aStrings(),
	}
	for name, h := range hashers {
		b.Run(name, func(b *testing.B) {
			a := benchAllocator(b)
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				m := NewHashMapWith[string, int](a, h)
				for j, k := range keys {
					m.Add(k, j)
				}
				m.Release()
			}
		})
	}

	b.Run("Builtin", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			m := make(map[string]int)
			for j, k := range keys {
				m[k] = j
			}
		}
	})
}

// BenchmarkHashMapLookup looks up 1000 int keys per iteration
func BenchmarkHashMapLookup(b *testing.B) {
	m := NewHashMap[int, int](nil)
	for i := 0; i < 1000; i++ {
		m.Add(i, i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for j := 0; j < 1000; j++ {
			if _, ok := m.Lookup(j); !ok {
				b.Fatal("missing key")
			}
		}
	}
}
