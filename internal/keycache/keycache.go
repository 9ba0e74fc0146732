// Package keycache layers a key-existence set, and optionally a bounded value
// cache, over any storage backend.
package keycache

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/SmitUplenchwar2687/Stash/internal/storage"
)

// Options configures a Cache.
type Options struct {
	// Values bounds the number of cached values. Zero disables value caching.
	Values int
}

// Cache answers KeyExists and Keys from an in-memory key set once
// bootstrapped. Mutations write through to the backend first and only touch
// the set when the backend accepted them. All methods are safe for
// concurrent use.
type Cache struct {
	backend storage.Storage
	values  *lru.Cache

	// wmu orders each backend write with its key set and value cache
	// update, so concurrent mutations land in both in the same order.
	wmu sync.Mutex

	mu    sync.RWMutex
	keys  map[string]struct{}
	ready bool
}

var _ storage.Storage = (*Cache)(nil)

// New wraps backend. Call Bootstrap before relying on cached existence checks;
// until then every call falls through to the backend.
func New(backend storage.Storage, opts Options) (*Cache, error) {
	c := &Cache{
		backend: backend,
		keys:    make(map[string]struct{}),
	}
	if opts.Values > 0 {
		values, err := lru.New(opts.Values)
		if err != nil {
			return nil, fmt.Errorf("creating value cache: %w", err)
		}
		c.values = values
	}
	return c, nil
}

// Bootstrap loads the full key set from the backend.
func (c *Cache) Bootstrap(ctx context.Context) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	keys, err := c.backend.Keys(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap keys: %w", err)
	}

	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}

	c.mu.Lock()
	c.keys = set
	c.ready = true
	c.mu.Unlock()
	return nil
}

// Backend returns the wrapped storage.
func (c *Cache) Backend() storage.Storage {
	return c.backend
}

func (c *Cache) SetItem(ctx context.Context, key, value string) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	if err := c.backend.SetItem(ctx, key, value); err != nil {
		return err
	}

	c.mu.Lock()
	c.keys[key] = struct{}{}
	c.mu.Unlock()
	if c.values != nil {
		c.values.Add(key, value)
	}
	return nil
}

func (c *Cache) GetItem(ctx context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	ready := c.ready
	_, known := c.keys[key]
	c.mu.RUnlock()

	if ready && !known {
		return "", false, nil
	}
	if c.values == nil {
		return c.backend.GetItem(ctx, key)
	}
	if v, ok := c.values.Get(key); ok {
		return v.(string), true, nil
	}

	// Filling the value cache must not interleave with a mutation, or a
	// removed key's old value could be cached after the removal.
	c.wmu.Lock()
	defer c.wmu.Unlock()

	v, ok, err := c.backend.GetItem(ctx, key)
	if err != nil {
		return "", false, err
	}
	if ok {
		c.values.Add(key, v)
	}
	return v, ok, nil
}

func (c *Cache) RemoveItem(ctx context.Context, key string) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	if err := c.backend.RemoveItem(ctx, key); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.keys, key)
	c.mu.Unlock()
	if c.values != nil {
		c.values.Remove(key)
	}
	return nil
}

func (c *Cache) Clear(ctx context.Context) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	if err := c.backend.Clear(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	c.keys = make(map[string]struct{})
	c.mu.Unlock()
	if c.values != nil {
		c.values.Purge()
	}
	return nil
}

func (c *Cache) KeyExists(ctx context.Context, key string) (bool, error) {
	c.mu.RLock()
	if c.ready {
		_, ok := c.keys[key]
		c.mu.RUnlock()
		return ok, nil
	}
	c.mu.RUnlock()

	return c.backend.KeyExists(ctx, key)
}

func (c *Cache) Keys(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	if c.ready {
		keys := make([]string, 0, len(c.keys))
		for k := range c.keys {
			keys = append(keys, k)
		}
		c.mu.RUnlock()
		return keys, nil
	}
	c.mu.RUnlock()

	return c.backend.Keys(ctx)
}

// Len returns the size of the key set.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.keys)
}

// Close closes the wrapped backend.
func (c *Cache) Close() error {
	return storage.Close(c.backend)
}
