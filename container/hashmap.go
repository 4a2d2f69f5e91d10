package container

import (
	"iter"

	"github.com/g-wiedemair/fears/internal/diag"
	"github.com/g-wiedemair/fears/mem"
)

type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	slotRemoved
)

type slot[K, V any] struct {
	state slotState
	key   K
	value V
}

type mapConfig struct {
	probing Probing
	load    LoadFactor
}

// MapOption configures a HashMap.
type MapOption func(*mapConfig)

// WithProbing sets the probing strategy.
func WithProbing(p Probing) MapOption {
	return func(c *mapConfig) { c.probing = p }
}

// WithMaxLoadFactor sets the maximum load factor. It panics unless 0 < num < den.
func WithMaxLoadFactor(num, den int) MapOption {
	lf := LoadFactor{Num: num, Den: den}
	if err := lf.Validate(); err != nil {
		panic(err)
	}
	return func(c *mapConfig) { c.load = lf }
}

// HashMap is an open addressing hash table with a power-of-two slot count.
// Removed entries leave tombstones that are dropped on the next growth.
// Iterators are invalidated by any mutation.
type HashMap[K, V any] struct {
	_      noCopy
	hasher Hasher[K]
	cfg    mapConfig
	slots  Array[slot[K, V]]

	usable             int
	removed            int
	occupiedAndRemoved int
	mask               uint64
}

// NewHashMap returns an empty map using DefaultHasher.
func NewHashMap[K comparable, V any](a *mem.Allocator, opts ...MapOption) *HashMap[K, V] {
	return newHashMap[K, V](a, DefaultHasher[K](), callerTag(1, "HashMap"), opts)
}

// NewHashMapWith returns an empty map using h.
func NewHashMapWith[K, V any](a *mem.Allocator, h Hasher[K], opts ...MapOption) *HashMap[K, V] {
	return newHashMap[K, V](a, h, callerTag(1, "HashMap"), opts)
}

func newHashMap[K, V any](a *mem.Allocator, h Hasher[K], tag string, opts []MapOption) *HashMap[K, V] {
	m := &HashMap[K, V]{hasher: h, cfg: mapConfig{probing: DefaultProbing, load: DefaultLoadFactor}}
	for _, o := range opts {
		o(&m.cfg)
	}
	m.slots.alloc = a
	m.slots.tag = tag
	m.reset()
	return m
}

// reset installs the single empty slot of a new map.
func (m *HashMap[K, V]) reset() {
	m.slots.Reinitialize(1)
	m.usable = 0
	m.removed = 0
	m.occupiedAndRemoved = 0
	m.mask = 0
}

// Len returns the number of entries.
func (m *HashMap[K, V]) Len() int { return m.occupiedAndRemoved - m.removed }

// IsEmpty reports whether the map has no entries.
func (m *HashMap[K, V]) IsEmpty() bool { return m.Len() == 0 }

func (m *HashMap[K, V]) TotalSlots() int              { return m.slots.Len() }
func (m *HashMap[K, V]) UsableSlots() int             { return m.usable }
func (m *HashMap[K, V]) RemovedSlots() int            { return m.removed }
func (m *HashMap[K, V]) OccupiedAndRemovedSlots() int { return m.occupiedAndRemoved }

func (m *HashMap[K, V]) ensureCanAdd() {
	if m.occupiedAndRemoved >= m.usable {
		m.rehash(m.Len() + 1)
	}
}

// Reserve makes room for n entries without further growth.
func (m *HashMap[K, V]) Reserve(n int) {
	if n > m.usable {
		m.rehash(n)
	}
}

// rehash moves the occupied slots into a table sized for minUsable entries.
// A panic while rehashing leaves the old table in place.
func (m *HashMap[K, V]) rehash(minUsable int) {
	total, usable := m.cfg.load.slots(InlineCapacity[slot[K, V]](), minUsable)

	var next Array[slot[K, V]]
	next.alloc = m.slots.alloc
	next.tag = m.slots.tag
	next.init(total)
	done := false
	defer func() {
		if !done {
			next.Release()
		}
	}()

	mask := uint64(total - 1)
	dst := next.Slice()
	old := m.slots.Slice()
	for i := range old {
		s := &old[i]
		if s.state != slotOccupied {
			continue
		}
		pr := m.cfg.probing.start(m.hasher.Hash(s.key))
		for {
			j := pr.slot(mask)
			if dst[j].state == slotEmpty {
				dst[j] = slot[K, V]{state: slotOccupied, key: s.key, value: s.value}
				break
			}
		}
	}

	size := m.Len()
	done = true
	m.slots.moveFrom(&next)
	m.usable = usable
	m.removed = 0
	m.occupiedAndRemoved = size
	m.mask = mask
}

// find returns the slot holding k, or nil.
func (m *HashMap[K, V]) find(k K) *slot[K, V] {
	if m.Len() == 0 {
		return nil
	}
	slots := m.slots.Slice()
	pr := m.cfg.probing.start(m.hasher.Hash(k))
	for {
		s := &slots[pr.slot(m.mask)]
		switch s.state {
		case slotEmpty:
			return nil
		case slotOccupied:
			if m.hasher.Equal(s.key, k) {
				return s
			}
		}
	}
}

// insertSlot returns the slot holding k or, when absent, the empty slot
// where k belongs. The map must have room for one more entry.
func (m *HashMap[K, V]) insertSlot(k K) (s *slot[K, V], found bool) {
	slots := m.slots.Slice()
	pr := m.cfg.probing.start(m.hasher.Hash(k))
	for {
		s := &slots[pr.slot(m.mask)]
		switch s.state {
		case slotEmpty:
			return s, false
		case slotOccupied:
			if m.hasher.Equal(s.key, k) {
				return s, true
			}
		}
	}
}

func (m *HashMap[K, V]) occupy(s *slot[K, V], k K, v V) {
	*s = slot[K, V]{state: slotOccupied, key: k, value: v}
	m.occupiedAndRemoved++
}

// Add inserts k with v. It returns false and leaves the map unchanged
// when k is already present.
func (m *HashMap[K, V]) Add(k K, v V) bool {
	m.ensureCanAdd()
	s, found := m.insertSlot(k)
	if found {
		return false
	}
	m.occupy(s, k, v)
	return true
}

// AddOverwrite inserts k with v or replaces the value of an existing k.
// It returns true when k was new.
func (m *HashMap[K, V]) AddOverwrite(k K, v V) bool {
	m.ensureCanAdd()
	s, found := m.insertSlot(k)
	if found {
		s.value = v
		return false
	}
	m.occupy(s, k, v)
	return true
}

// AddNew inserts k, which must not be present.
func (m *HashMap[K, V]) AddNew(k K, v V) {
	m.ensureCanAdd()
	s, found := m.insertSlot(k)
	diag.Assert(!found, "AddNew with existing key")
	if found {
		return
	}
	m.occupy(s, k, v)
}

// Lookup returns the value of k.
func (m *HashMap[K, V]) Lookup(k K) (V, bool) {
	if s := m.find(k); s != nil {
		return s.value, true
	}
	var zero V
	return zero, false
}

// LookupDefault returns the value of k, or def when k is absent.
func (m *HashMap[K, V]) LookupDefault(k K, def V) V {
	if s := m.find(k); s != nil {
		return s.value
	}
	return def
}

// LookupPtr returns a pointer to the value of k, or nil. The pointer is
// invalidated by the next insertion.
func (m *HashMap[K, V]) LookupPtr(k K) *V {
	if s := m.find(k); s != nil {
		return &s.value
	}
	return nil
}

// LookupOrAdd returns a pointer to the value of k, inserting v first when
// k is absent.
func (m *HashMap[K, V]) LookupOrAdd(k K, v V) *V {
	m.ensureCanAdd()
	s, found := m.insertSlot(k)
	if !found {
		m.occupy(s, k, v)
	}
	return &s.value
}

// Contains reports whether k is present.
func (m *HashMap[K, V]) Contains(k K) bool { return m.find(k) != nil }

// Remove deletes k and reports whether it was present.
func (m *HashMap[K, V]) Remove(k K) bool {
	_, ok := m.Pop(k)
	return ok
}

// Pop deletes k and returns its value.
func (m *HashMap[K, V]) Pop(k K) (V, bool) {
	s := m.find(k)
	if s == nil {
		var zero V
		return zero, false
	}
	v := s.value
	*s = slot[K, V]{state: slotRemoved}
	m.removed++
	return v, true
}

// Clear removes all entries and returns heap storage.
func (m *HashMap[K, V]) Clear() {
	m.slots.Release()
	m.reset()
}

// Release returns all storage to the allocator. The map stays usable and
// reports zero total slots until the next insertion.
func (m *HashMap[K, V]) Release() {
	m.slots.Release()
	m.usable = 0
	m.removed = 0
	m.occupiedAndRemoved = 0
	m.mask = 0
}

// Items iterates over key/value pairs in slot order.
func (m *HashMap[K, V]) Items() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, s := range m.slots.Slice() {
			if s.state == slotOccupied && !yield(s.key, s.value) {
				return
			}
		}
	}
}

// Keys iterates over the keys in slot order.
func (m *HashMap[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.Items() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values iterates over the values in slot order.
func (m *HashMap[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range m.Items() {
			if !yield(v) {
				return
			}
		}
	}
}
