package container

import (
	"strings"
	"unsafe"

	"github.com/g-wiedemair/fears/internal/diag"
)

// NotFound is returned by StringRef.Find when the substring is absent.
const NotFound = -1

// StringRef is a non-owning read-only view of characters.
type StringRef string

// StringRefFromBytes views b without copying. b must not be modified
// while the StringRef is in use.
func StringRefFromBytes(b []byte) StringRef {
	if len(b) == 0 {
		return ""
	}
	return StringRef(unsafe.String(unsafe.SliceData(b), len(b)))
}

func (s StringRef) Len() int       { return len(s) }
func (s StringRef) IsEmpty() bool  { return len(s) == 0 }
func (s StringRef) String() string { return string(s) }

// At returns the byte at index i.
func (s StringRef) At(i int) byte {
	diag.Assert(i >= 0 && i < len(s), "index %d out of range [0, %d)", i, len(s))
	return s[i]
}

// Substr returns at most size bytes starting at start. start may equal Len.
func (s StringRef) Substr(start, size int) StringRef {
	diag.Assert(start >= 0 && start <= len(s) && size >= 0, "substr(%d, %d) of length %d", start, size, len(s))
	end := min(start+size, len(s))
	return s[start:end]
}

func (s StringRef) StartsWith(prefix StringRef) bool {
	return strings.HasPrefix(string(s), string(prefix))
}

func (s StringRef) EndsWith(suffix StringRef) bool {
	return strings.HasSuffix(string(s), string(suffix))
}

// Find returns the index of the first occurrence of sub, or NotFound.
func (s StringRef) Find(sub StringRef) int {
	return strings.Index(string(s), string(sub))
}

// DropPrefix removes the first n bytes.
func (s StringRef) DropPrefix(n int) StringRef {
	diag.Assert(n >= 0 && n <= len(s), "drop %d of length %d", n, len(s))
	return s[n:]
}

// DropSuffix removes the last n bytes.
func (s StringRef) DropSuffix(n int) StringRef {
	diag.Assert(n >= 0 && n <= len(s), "drop %d of length %d", n, len(s))
	return s[:len(s)-n]
}

// Hash returns the djb2 hash of the bytes.
func (s StringRef) Hash() uint64 { return HashString(string(s)) }
