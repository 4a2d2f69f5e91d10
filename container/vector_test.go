package container

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestVectorGrowth(t *testing.T) {
	a := newAllocator(t)
	v := NewVector[int](a)
	defer v.Release()

	tests := []struct {
		n      int
		cap    int
		inline bool
		blocks uint64
	}{
		{n: 0, cap: 4, inline: true},
		{n: 4, cap: 4, inline: true},
		{n: 5, cap: 8, blocks: 1},
		{n: 8, cap: 8, blocks: 1},
		{n: 9, cap: 16, blocks: 1},
		{n: 100, cap: 128, blocks: 1},
	}
	for _, tt := range tests {
		for v.Len() < tt.n {
			v.Append(v.Len())
		}
		require.Equal(t, tt.cap, v.Cap(), "n=%d", tt.n)
		require.Equal(t, tt.inline, v.IsInline(), "n=%d", tt.n)
		require.Equal(t, tt.blocks, a.BlocksInUse(), "n=%d", tt.n)
		for i, x := range v.All() {
			require.Equal(t, i, x)
		}
	}
}

func TestVectorInlineRoundTrip(t *testing.T) {
	a := newAllocator(t)
	for _, n := range []int{3, 4, 5} {
		v := NewVectorSize[int](a, n)
		for i := range n {
			v.Set(i, 10+i)
		}
		v.Append(99)
		require.Equal(t, n+1, v.Len())
		require.Equal(t, 99, v.Last())
		require.Equal(t, 10, v.First())
		require.Equal(t, n+1 <= DefaultInlineCapacity, v.IsInline())
		v.ClearAndShrink()
		require.True(t, v.IsInline())
		require.Zero(t, a.BlocksInUse())
	}
}

func TestVectorEdits(t *testing.T) {
	a := newAllocator(t)
	v := NewVectorFrom(a, 1, 2, 3)
	defer v.Release()

	v.Prepend(0)
	v.PrependSlice([]int{-2, -1})
	v.Insert(3, 7, 8)
	v.Extend(4, 5)
	if diff := cmp.Diff([]int{-2, -1, 0, 7, 8, 1, 2, 3, 4, 5}, v.Slice()); diff != "" {
		t.Fatalf("after inserts (-want +got):\n%s", diff)
	}

	v.Remove(3)
	v.Remove(3)
	require.Equal(t, []int{-2, -1, 0, 1, 2, 3, 4, 5}, v.Slice())

	v.RemoveAndReorder(0)
	require.Equal(t, []int{5, -1, 0, 1, 2, 3, 4}, v.Slice())

	require.Equal(t, 4, v.PopLast())
	require.Equal(t, 6, v.AppendAndGetIndex(9))
	require.Equal(t, 9, *v.Ptr(6))
}

func TestVectorResizeZeroesTail(t *testing.T) {
	v := NewVectorFilled[string](nil, 6, "a")
	v.Resize(2)
	v.Resize(6)
	require.Equal(t, []string{"a", "a", "", "", "", ""}, v.Slice())

	v.Reserve(50)
	require.GreaterOrEqual(t, v.Cap(), 50)
	require.Equal(t, 6, v.Len())

	v.Clear()
	require.True(t, v.IsEmpty())
	require.GreaterOrEqual(t, v.Cap(), 50)
	v.Release()
}

func TestVectorHelpers(t *testing.T) {
	a := newAllocator(t)
	v := NewVectorFrom(a, 3, 1, 4, 1, 5)
	defer v.Release()

	require.Equal(t, 1, IndexOf(v, 1))
	require.Equal(t, -1, IndexOf(v, 9))
	require.True(t, Contains(v, 5))

	AppendNonDuplicates(v, 4)
	AppendNonDuplicates(v, 9)
	require.Equal(t, []int{3, 1, 4, 1, 5, 9}, v.Slice())

	c := v.Clone()
	require.True(t, Equal(v, c))
	c.Set(0, 0)
	require.False(t, Equal(v, c))
	c.PopLast()
	require.False(t, Equal(v, c))
	c.Release()

	var collected []int
	for x := range v.Values() {
		collected = append(collected, x)
	}
	require.Equal(t, v.Span().ToSlice(), collected)
}

func TestVectorLargeElements(t *testing.T) {
	a := newAllocator(t)
	var v Vector[big]
	v.alloc = a
	require.Zero(t, v.Cap())
	v.Append(big{1})
	require.False(t, v.IsInline())
	require.Equal(t, uint64(1), v.At(0)[0])
	v.Release()
}

func TestVectorZeroValue(t *testing.T) {
	var v Vector[int]
	for i := range 10 {
		v.Append(i)
	}
	require.Equal(t, 10, v.Len())
	v.Release()
}
