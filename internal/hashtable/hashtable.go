// Package hashtable implements a string-to-string hash table with chained
// buckets, FNV-1a hashing and load-factor driven resizing.
//
// A HashTable is not safe for concurrent use. Callers that share one across
// goroutines must serialize access themselves.
package hashtable

import (
	"errors"
	"fmt"
)

const (
	// DefaultInitialSize is the bucket count used by NewDefault.
	DefaultInitialSize = 4

	growThreshold   = 0.70
	shrinkThreshold = 0.40
	shrinkMinSize   = 10
)

// ErrInvalidSize is returned when a table is requested with a non-positive size.
var ErrInvalidSize = errors.New("hashtable: size must be positive")

type entry struct {
	key   string
	value string
}

// HashTable maps string keys to string values.
type HashTable struct {
	buckets     [][]entry
	count       int
	initialSize int
}

// New creates an empty table with initialSize buckets.
func New(initialSize int) (*HashTable, error) {
	if initialSize <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidSize, initialSize)
	}
	return &HashTable{
		buckets:     make([][]entry, initialSize),
		initialSize: initialSize,
	}, nil
}

// NewDefault creates an empty table with DefaultInitialSize buckets.
func NewDefault() *HashTable {
	h, _ := New(DefaultInitialSize)
	return h
}

func (h *HashTable) index(key string) int {
	return int(Hash(key) % uint32(len(h.buckets)))
}

// SetItem stores value under key. An existing key is updated in place and
// never triggers a resize.
func (h *HashTable) SetItem(key, value string) {
	idx := h.index(key)
	bucket := h.buckets[idx]
	for i := range bucket {
		if bucket[i].key == key {
			bucket[i].value = value
			return
		}
	}

	h.buckets[idx] = append(bucket, entry{key: key, value: value})
	h.count++

	if h.LoadFactor() > growThreshold {
		h.rebuild(len(h.buckets) * 2)
	}
}

// GetItem returns the value stored under key and whether it was present.
func (h *HashTable) GetItem(key string) (string, bool) {
	for _, e := range h.buckets[h.index(key)] {
		if e.key == key {
			return e.value, true
		}
	}
	return "", false
}

// RemoveItem deletes key. Removing a missing key is a no-op.
func (h *HashTable) RemoveItem(key string) {
	idx := h.index(key)
	bucket := h.buckets[idx]
	for i := range bucket {
		if bucket[i].key != key {
			continue
		}

		h.buckets[idx] = append(bucket[:i], bucket[i+1:]...)
		h.count--

		// The size guard only gates starting a shrink; the new size may
		// still land at or below shrinkMinSize.
		size := len(h.buckets)
		if h.LoadFactor() < shrinkThreshold && size > shrinkMinSize {
			h.rebuild((size + 1) / 2)
		}
		return
	}
}

// KeyExists reports whether key is stored.
func (h *HashTable) KeyExists(key string) bool {
	_, ok := h.GetItem(key)
	return ok
}

// Clear drops every entry and returns the table to its initial size.
func (h *HashTable) Clear() {
	h.buckets = make([][]entry, h.initialSize)
	h.count = 0
}

// Keys returns every stored key in bucket order.
func (h *HashTable) Keys() []string {
	keys := make([]string, 0, h.count)
	for _, bucket := range h.buckets {
		for _, e := range bucket {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// Len returns the number of stored entries.
func (h *HashTable) Len() int { return h.count }

// Size returns the current bucket count.
func (h *HashTable) Size() int { return len(h.buckets) }

// InitialSize returns the bucket count the table was created with.
func (h *HashTable) InitialSize() int { return h.initialSize }

// LoadFactor returns count / size.
func (h *HashTable) LoadFactor() float64 {
	return float64(h.count) / float64(len(h.buckets))
}

// rebuild rehashes every entry into newSize buckets through SetItem, so the
// grow check stays live while entries are re-placed. A nested rebuild
// replaces h.buckets; the loop keeps walking the snapshot taken here and the
// remaining entries land in whatever table is current.
func (h *HashTable) rebuild(newSize int) {
	if newSize <= 0 {
		newSize = 1
	}
	old := h.buckets
	h.buckets = make([][]entry, newSize)
	h.count = 0
	for _, bucket := range old {
		for _, e := range bucket {
			h.SetItem(e.key, e.value)
		}
	}
}
