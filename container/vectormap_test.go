package container

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/g-wiedemair/fears/mem"
)

func TestVectorMapAdd(t *testing.T) {
	a := newAllocator(t)
	vm := NewVectorMap[string, int](a)
	defer vm.Release()

	require.True(t, vm.Add("c", 3))
	require.True(t, vm.Add("a", 1))
	require.False(t, vm.Add("c", 30))
	require.True(t, vm.Add("b", 2))

	require.Equal(t, 3, vm.Len())
	require.Equal(t, []int{3, 1, 2}, vm.Values().ToSlice())
	v, ok := vm.Lookup("c")
	require.True(t, ok)
	require.Equal(t, 3, v)
	require.Equal(t, 1, vm.At(1))

	*vm.LookupPtr("b") = 20
	require.Equal(t, 20, vm.At(2))
	require.Nil(t, vm.LookupPtr("z"))
	require.False(t, vm.Contains("z"))

	var keys []string
	for k, v := range vm.All() {
		keys = append(keys, k)
		got, ok := vm.Lookup(k)
		require.True(t, ok)
		require.Equal(t, v, got)
	}
	require.Equal(t, []string{"c", "a", "b"}, keys)
}

func TestVectorMapGrowth(t *testing.T) {
	a := newAllocator(t)
	vm := NewVectorMap[int, int](a)
	vm.Reserve(64)
	for i := range 500 {
		require.True(t, vm.Add(i, -i))
	}
	for i := range 500 {
		v, ok := vm.Lookup(i)
		require.True(t, ok)
		require.Equal(t, -i, v)
		require.Equal(t, -i, vm.At(i))
	}
	vm.Release()
	require.True(t, vm.IsEmpty())
	require.Zero(t, a.BlocksInUse())
}

func TestVectorMapAddFailureKeepsIndexConsistent(t *testing.T) {
	cfg := mem.DefaultConfig()
	cfg.Backend = mem.BackendGuarded
	cfg.LeakDetection = false
	cfg.MaxBlockSize = 400
	var reports []string
	a, err := mem.New(cfg, mem.WithErrorCallback(func(msg string) { reports = append(reports, msg) }))
	require.NoError(t, err)

	// Values are 96 bytes: the fifth value needs 768 bytes of heap storage
	// while the index still fits the block size limit.
	vm := NewVectorMap[int, [12]uint64](a)
	for i := range 4 {
		require.True(t, vm.Add(i, [12]uint64{uint64(i)}))
	}
	require.Panics(t, func() { vm.Add(4, [12]uint64{4}) })
	require.Len(t, reports, 1)

	require.Equal(t, 4, vm.Len())
	require.False(t, vm.Contains(4))
	require.Nil(t, vm.LookupPtr(4))
	for i := range 4 {
		v, ok := vm.Lookup(i)
		require.True(t, ok)
		require.Equal(t, uint64(i), v[0])
	}

	vm.Release()
	require.Zero(t, a.BlocksInUse())
	require.NoError(t, a.Close())
}
