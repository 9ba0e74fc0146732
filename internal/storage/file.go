package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStorage is a persistent backend holding all items in one JSON document.
// Every mutation rewrites the document through a temp file and rename, so a
// crash leaves either the old or the new contents on disk.
// Thread-safe for concurrent use.
type FileStorage struct {
	mu     sync.RWMutex
	path   string
	items  map[string]string
	closed bool
}

// NewFileStorage opens (or lazily creates) the document at cfg.Path.
func NewFileStorage(cfg *FileConfig) (*FileStorage, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, fmt.Errorf("file path is required")
	}

	s := &FileStorage{
		path:  cfg.Path,
		items: make(map[string]string),
	}

	data, err := os.ReadFile(cfg.Path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", cfg.Path, err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.items); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", cfg.Path, err)
		}
		if s.items == nil {
			s.items = make(map[string]string)
		}
	}
	return s, nil
}

func (s *FileStorage) SetItem(ctx context.Context, key, value string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	prev, had := s.items[key]
	s.items[key] = value
	if err := s.persist(); err != nil {
		if had {
			s.items[key] = prev
		} else {
			delete(s.items, key)
		}
		return err
	}
	return nil
}

func (s *FileStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := checkCtx(ctx); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, ErrClosed
	}

	v, ok := s.items[key]
	return v, ok, nil
}

func (s *FileStorage) RemoveItem(ctx context.Context, key string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	prev, had := s.items[key]
	if !had {
		return nil
	}
	delete(s.items, key)
	if err := s.persist(); err != nil {
		s.items[key] = prev
		return err
	}
	return nil
}

func (s *FileStorage) Clear(ctx context.Context) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	prev := s.items
	s.items = make(map[string]string)
	if err := s.persist(); err != nil {
		s.items = prev
		return err
	}
	return nil
}

func (s *FileStorage) KeyExists(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.GetItem(ctx, key)
	return ok, err
}

func (s *FileStorage) Keys(ctx context.Context) ([]string, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	return keys, nil
}

// Path returns the backing document path.
func (s *FileStorage) Path() string {
	return s.path
}

// Close marks the storage closed. It is idempotent.
func (s *FileStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// persist must be called with s.mu held.
func (s *FileStorage) persist() error {
	data, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("encoding items: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".stash-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}
