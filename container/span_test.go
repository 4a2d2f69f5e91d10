package container

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpanViews(t *testing.T) {
	sp := NewSpan([]int{0, 1, 2, 3, 4, 5})

	tests := []struct {
		name string
		got  Span[int]
		want []int
	}{
		{"slice", sp.Slice(1, 3), []int{1, 2, 3}},
		{"slice-range", sp.SliceRange(IndexRangeBetween(4, 6)), []int{4, 5}},
		{"drop-front", sp.DropFront(4), []int{4, 5}},
		{"drop-back", sp.DropBack(4), []int{0, 1}},
		{"take-front", sp.TakeFront(2), []int{0, 1}},
		{"take-back", sp.TakeBack(2), []int{4, 5}},
		{"drop-too-many", sp.DropFront(10), nil},
		{"take-too-many", sp.TakeBack(10), []int{0, 1, 2, 3, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.got.ToSlice())
		})
	}

	require.Equal(t, 0, sp.First())
	require.Equal(t, 5, sp.Last())
	require.Equal(t, 3, sp.At(3))
	require.True(t, sp.IndexRange().Equal(NewIndexRange(6)))
	require.True(t, sp.Slice(2, 0).IsEmpty())
}

func TestSpanDoesNotOwn(t *testing.T) {
	backing := []int{1, 2, 3}
	sp := NewSpan(backing)
	backing[1] = 20
	require.Equal(t, 20, sp.At(1))

	out := sp.ToSlice()
	out[0] = 10
	require.Equal(t, 1, sp.At(0))
}

func TestSpanHelpers(t *testing.T) {
	a := NewSpan([]string{"x", "y"})
	require.True(t, SpanEqual(a, NewSpan([]string{"x", "y"})))
	require.False(t, SpanEqual(a, a.TakeFront(1)))
	require.True(t, SpanContains(a, "y"))
	require.False(t, SpanContains(a, "z"))

	var keys []int
	for i, v := range a.All() {
		keys = append(keys, i)
		require.Equal(t, a.At(i), v)
	}
	require.Equal(t, []int{0, 1}, keys)
}

func TestIndexRange(t *testing.T) {
	r := IndexRangeFrom(3, 4)
	require.Equal(t, []int{3, 4, 5, 6}, slices.Collect(r.All()))
	require.Equal(t, []int{3, 4, 5, 6}, slices.Collect(r.All()), "restartable")
	require.Equal(t, 3, r.First())
	require.Equal(t, 6, r.Last())
	require.Equal(t, 7, r.OneAfterLast())
	require.Equal(t, 5, r.At(2))
	require.True(t, r.Contains(6))
	require.False(t, r.Contains(7))
	require.Equal(t, "[3, 7)", r.String())

	require.True(t, r.Shift(2).Equal(IndexRangeBetween(5, 9)))
	require.True(t, r.Slice(1, 2).Equal(IndexRangeFrom(4, 2)))
	require.True(t, r.DropFront(1).Equal(IndexRangeFrom(4, 3)))
	require.True(t, r.DropBack(1).Equal(IndexRangeFrom(3, 3)))
	require.True(t, r.TakeFront(2).Equal(IndexRangeFrom(3, 2)))
	require.True(t, r.TakeBack(2).Equal(IndexRangeFrom(5, 2)))
	require.True(t, r.DropFront(9).IsEmpty())

	require.True(t, IndexRangeFrom(2, 0).Equal(IndexRangeFrom(9, 0)))
	require.False(t, IndexRangeFrom(2, 1).Equal(IndexRangeFrom(9, 1)))
	require.Empty(t, slices.Collect(NewIndexRange(0).All()))
}

func TestStringRef(t *testing.T) {
	b := []byte("mesh.node.count")
	s := StringRefFromBytes(b)

	require.Equal(t, 15, s.Len())
	require.Equal(t, byte('m'), s.At(0))
	require.Equal(t, StringRef("node"), s.Substr(5, 4))
	require.Equal(t, StringRef("count"), s.Substr(10, 100))
	require.True(t, s.StartsWith("mesh."))
	require.True(t, s.EndsWith(".count"))
	require.Equal(t, 4, s.Find("."))
	require.Equal(t, NotFound, s.Find("edge"))
	require.Equal(t, StringRef("node.count"), s.DropPrefix(5))
	require.Equal(t, StringRef("mesh"), s.DropSuffix(11))
	require.Equal(t, "mesh.node.count", s.String())
	require.True(t, StringRefFromBytes(nil).IsEmpty())

	b[0] = 'M'
	require.Equal(t, byte('M'), s.At(0))
}
