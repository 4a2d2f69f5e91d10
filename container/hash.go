package container

import (
	"hash/maphash"
	"math"
	"reflect"
	"unsafe"

	"github.com/cespare/xxhash/v2"
	"github.com/segmentio/fasthash/fnv1a"
)

// Hasher hashes and compares keys of a HashMap. Keys that are Equal must
// have the same Hash.
type Hasher[K any] interface {
	Hash(k K) uint64
	Equal(a, b K) bool
}

// Hashable is implemented by keys that provide their own hash.
type Hashable interface {
	Hash() uint64
}

const boolHash = 1298191

// HashString returns the djb2 hash of s.
func HashString(s string) uint64 {
	h := uint64(5381)
	for i := 0; i < len(s); i++ {
		h = h*33 + uint64(s[i])
	}
	return h
}

type funcHasher[K comparable] struct {
	hash func(K) uint64
}

func (h funcHasher[K]) Hash(k K) uint64 { return h.hash(k) }
func (funcHasher[K]) Equal(a, b K) bool { return a == b }

// DefaultHasher returns the hasher used when none is given. Integers hash
// to their value, floats to their bit pattern with -0 folded into +0,
// pointers to address>>4 and strings with djb2. Keys implementing Hashable use their Hash method.
// Other comparable keys are hashed with hash/maphash.
func DefaultHasher[K comparable]() Hasher[K] {
	t := reflect.TypeFor[K]()
	if t.Implements(reflect.TypeFor[Hashable]()) {
		return funcHasher[K]{hash: func(k K) uint64 { return any(k).(Hashable).Hash() }}
	}
	return funcHasher[K]{hash: kindHash[K](t)}
}

func kindHash[K comparable](t reflect.Type) func(K) uint64 {
	switch t.Kind() {
	case reflect.Int8:
		return func(k K) uint64 { return uint64(*(*int8)(unsafe.Pointer(&k))) }
	case reflect.Int16:
		return func(k K) uint64 { return uint64(*(*int16)(unsafe.Pointer(&k))) }
	case reflect.Int32:
		return func(k K) uint64 { return uint64(*(*int32)(unsafe.Pointer(&k))) }
	case reflect.Int64:
		return func(k K) uint64 { return uint64(*(*int64)(unsafe.Pointer(&k))) }
	case reflect.Int:
		return func(k K) uint64 { return uint64(*(*int)(unsafe.Pointer(&k))) }
	case reflect.Uint8:
		return func(k K) uint64 { return uint64(*(*uint8)(unsafe.Pointer(&k))) }
	case reflect.Uint16:
		return func(k K) uint64 { return uint64(*(*uint16)(unsafe.Pointer(&k))) }
	case reflect.Uint32:
		return func(k K) uint64 { return uint64(*(*uint32)(unsafe.Pointer(&k))) }
	case reflect.Uint64:
		return func(k K) uint64 { return *(*uint64)(unsafe.Pointer(&k)) }
	case reflect.Uint, reflect.Uintptr:
		return func(k K) uint64 { return uint64(*(*uintptr)(unsafe.Pointer(&k))) }
	case reflect.Float32:
		return func(k K) uint64 {
			f := *(*float32)(unsafe.Pointer(&k))
			if f == 0 {
				f = 0 // -0 == +0
			}
			return uint64(math.Float32bits(f))
		}
	case reflect.Float64:
		return func(k K) uint64 {
			f := *(*float64)(unsafe.Pointer(&k))
			if f == 0 {
				f = 0
			}
			return math.Float64bits(f)
		}
	case reflect.Bool:
		return func(k K) uint64 {
			if *(*bool)(unsafe.Pointer(&k)) {
				return boolHash
			}
			return 0
		}
	case reflect.String:
		return func(k K) uint64 { return HashString(*(*string)(unsafe.Pointer(&k))) }
	case reflect.Pointer, reflect.UnsafePointer:
		return func(k K) uint64 { return uint64(uintptr(*(*unsafe.Pointer)(unsafe.Pointer(&k)))) >> 4 }
	}
	seed := maphash.MakeSeed()
	return func(k K) uint64 { return maphash.Comparable(seed, k) }
}

type xxhashStrings struct{}

func (xxhashStrings) Hash(s string) uint64   { return xxhash.Sum64String(s) }
func (xxhashStrings) Equal(a, b string) bool { return a == b }

// XXHashStrings hashes string keys with xxHash64.
func XXHashStrings() Hasher[string] { return xxhashStrings{} }

type fnv1aStrings struct{}

func (fnv1aStrings) Hash(s string) uint64   { return fnv1a.HashString64(s) }
func (fnv1aStrings) Equal(a, b string) bool { return a == b }

// FNV1aStrings hashes string keys with 64-bit FNV-1a.
func FNV1aStrings() Hasher[string] { return fnv1aStrings{} }
