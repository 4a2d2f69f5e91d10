package buf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTripFields(t *testing.T) {
	b := make([]byte, 16)
	PutU16LE(b[0:], 0xBEEF)
	PutU32LE(b[2:], 0x4F4D454D)
	PutU64LE(b[8:], 1<<40|7)

	require.Equal(t, uint16(0xBEEF), U16LE(b[0:]))
	require.Equal(t, uint32(0x4F4D454D), U32LE(b[2:]))
	require.Equal(t, uint64(1<<40|7), U64LE(b[8:]))
	require.Equal(t, []byte{'M', 'E', 'M', 'O'}, b[2:6])
}

func TestShortBuffers(t *testing.T) {
	short := []byte{1}
	require.Zero(t, U16LE(short))
	require.Zero(t, U32LE(short))
	require.Zero(t, U64LE(short))

	PutU32LE(short, 0xFFFFFFFF)
	PutU64LE(short, 0xFFFFFFFF)
	require.Equal(t, []byte{1}, short)
}
