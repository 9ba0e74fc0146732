// Package hashtable exposes the chained hash table Stash is built on.
package hashtable

import internalhashtable "github.com/SmitUplenchwar2687/Stash/internal/hashtable"

// HashTable is a chained hash table that resizes with its load factor.
// It is not safe for concurrent use.
type HashTable = internalhashtable.HashTable

// Stats describes how entries are spread across buckets.
type Stats = internalhashtable.Stats

// DefaultInitialSize is the bucket count used by NewDefault.
const DefaultInitialSize = internalhashtable.DefaultInitialSize

// ErrInvalidSize is returned for a non-positive initial size.
var ErrInvalidSize = internalhashtable.ErrInvalidSize

// New creates a table with initialSize buckets.
func New(initialSize int) (*HashTable, error) {
	return internalhashtable.New(initialSize)
}

// NewDefault creates a table with DefaultInitialSize buckets.
func NewDefault() *HashTable {
	return internalhashtable.NewDefault()
}

// Hash is the 32-bit FNV-1a hash of key's UTF-16 code units.
func Hash(key string) uint32 {
	return internalhashtable.Hash(key)
}
