package storage

import (
	"context"
	"errors"
)

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("storage: backend is closed")

// Storage is the uniform key/value contract every backend satisfies.
// Implementations must be safe for concurrent use.
type Storage interface {
	// SetItem stores value under key, replacing any previous value.
	SetItem(ctx context.Context, key, value string) error

	// GetItem returns the value for key. A missing key yields "", false, nil;
	// absence is never reported as an error.
	GetItem(ctx context.Context, key string) (string, bool, error)

	// RemoveItem deletes key. Removing a missing key is not an error.
	RemoveItem(ctx context.Context, key string) error

	// Clear removes every key owned by the backend.
	Clear(ctx context.Context) error

	// KeyExists reports whether key is stored.
	KeyExists(ctx context.Context, key string) (bool, error)

	// Keys returns all stored keys in no particular order.
	Keys(ctx context.Context) ([]string, error)
}

// Close releases s if it holds resources. It is a no-op for backends that
// do not implement io.Closer.
func Close(s Storage) error {
	if c, ok := s.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func checkCtx(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
