package mem

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestTagsSpellASCII(t *testing.T) {
	tests := []struct {
		tag  uint32
		want string
	}{
		{tagHead1, "MEMO"},
		{tagHead2, "RYBL"},
		{tagTail, "OCK!"},
		{tagFree, "FREE"},
	}
	for _, tt := range tests {
		b := []byte{byte(tt.tag), byte(tt.tag >> 8), byte(tt.tag >> 16), byte(tt.tag >> 24)}
		require.Equal(t, tt.want, string(b))
	}
}

func TestHeaderStoreLoad(t *testing.T) {
	words := make([]uint64, 8)
	payload := unsafe.Pointer(&words[4])

	h := header{
		tag1:      tagHead1,
		kind:      KindTyped,
		flags:     flagFrame,
		alignment: 64,
		length:    100,
		slot:      7,
		offset:    40,
		tag2:      tagHead2,
		slack:     3,
	}
	h.store(payload)
	require.Equal(t, h, loadHeader(payload))
	require.True(t, h.live())
	require.True(t, h.valid())

	raw := unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), 32)
	require.Equal(t, "MEMO", string(raw[0:4]))
	require.Equal(t, "RYBL", string(raw[24:28]))

	markFree(payload)
	got := loadHeader(payload)
	require.True(t, got.freed())
	require.False(t, got.valid())
}

func TestHeaderValid(t *testing.T) {
	base := header{tag1: tagHead1, tag2: tagHead2, kind: KindRaw, alignment: 8, length: 16, offset: 32}
	require.True(t, base.valid())

	tests := []struct {
		name   string
		mutate func(*header)
	}{
		{"unaligned length", func(h *header) { h.length = 15 }},
		{"bad tag", func(h *header) { h.tag1 = 0 }},
		{"unknown kind", func(h *header) { h.kind = 9 }},
		{"alignment not a power of two", func(h *header) { h.alignment = 24 }},
		{"alignment too large", func(h *header) { h.alignment = 2048 }},
		{"alignment below minimum", func(h *header) { h.alignment = 1 }},
		{"offset inside header", func(h *header) { h.offset = 8 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := base
			tt.mutate(&h)
			require.False(t, h.valid())
		})
	}
}

func TestRoundLen(t *testing.T) {
	tests := []struct{ in, want uint64 }{
		{0, 0}, {1, 4}, {3, 4}, {4, 4}, {5, 8}, {100, 100}, {101, 104},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, roundLen(tt.in), "roundLen(%d)", tt.in)
	}
}

func TestValidAlignment(t *testing.T) {
	for a := 1; a <= MaxAlignment; a <<= 1 {
		require.True(t, validAlignment(a), "alignment %d", a)
	}
	for _, a := range []int{0, -8, 3, 12, 2048} {
		require.False(t, validAlignment(a), "alignment %d", a)
	}
}

func TestClaimHead1Once(t *testing.T) {
	words := make([]uint64, 8)
	payload := unsafe.Pointer(&words[4])
	h := header{tag1: tagHead1, tag2: tagHead2}
	h.store(payload)

	require.True(t, claimHead1(payload))
	require.False(t, claimHead1(payload))
	require.Equal(t, tagFree, loadHeader(payload).tag1)
}
