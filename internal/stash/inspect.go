package stash

import (
	"context"
	"fmt"

	"github.com/SmitUplenchwar2687/Stash/internal/hashtable"
	"github.com/SmitUplenchwar2687/Stash/internal/storage"
)

// TableStats reports hash table occupancy for the stored data. A hashtable
// backend reports its live table; any other backend has its entries loaded
// into a fresh table of initialSize buckets.
func (s *Stash) TableStats(ctx context.Context, initialSize int) (hashtable.Stats, error) {
	if hs, ok := s.Backend().(*storage.HashTableStorage); ok {
		return hs.Stats(), nil
	}

	table, err := hashtable.New(initialSize)
	if err != nil {
		return hashtable.Stats{}, err
	}

	keys, err := s.Keys(ctx)
	if err != nil {
		return hashtable.Stats{}, err
	}
	for _, k := range keys {
		v, ok, err := s.Get(ctx, k)
		if err != nil {
			return hashtable.Stats{}, fmt.Errorf("loading %q: %w", k, err)
		}
		if ok {
			table.SetItem(k, v)
		}
	}
	return table.Stats(), nil
}
