package storage

import (
	"context"
	"sync"

	"github.com/SmitUplenchwar2687/Stash/internal/hashtable"
)

// HashTableStorage exposes a hashtable.HashTable through the Storage
// contract. The table itself is single-threaded; a mutex serializes callers.
type HashTableStorage struct {
	mu    sync.Mutex
	table *hashtable.HashTable
}

// NewHashTableStorage creates a backend whose table starts with cfg.InitialSize
// buckets. A nil cfg uses hashtable.DefaultInitialSize.
func NewHashTableStorage(cfg *HashTableConfig) (*HashTableStorage, error) {
	size := hashtable.DefaultInitialSize
	if cfg != nil && cfg.InitialSize != 0 {
		size = cfg.InitialSize
	}

	table, err := hashtable.New(size)
	if err != nil {
		return nil, err
	}
	return &HashTableStorage{table: table}, nil
}

func (s *HashTableStorage) SetItem(ctx context.Context, key, value string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.table.SetItem(key, value)
	return nil
}

func (s *HashTableStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := checkCtx(ctx); err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.table.GetItem(key)
	return v, ok, nil
}

func (s *HashTableStorage) RemoveItem(ctx context.Context, key string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.table.RemoveItem(key)
	return nil
}

func (s *HashTableStorage) Clear(ctx context.Context) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.table.Clear()
	return nil
}

func (s *HashTableStorage) KeyExists(ctx context.Context, key string) (bool, error) {
	if err := checkCtx(ctx); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.table.KeyExists(key), nil
}

func (s *HashTableStorage) Keys(ctx context.Context) ([]string, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.table.Keys(), nil
}

// Stats reports the underlying table's bucket occupancy.
func (s *HashTableStorage) Stats() hashtable.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Stats()
}
