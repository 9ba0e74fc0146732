// Package stash is the facade applications use: a storage backend chosen by
// config, an optional key cache in front of it, and a journal of mutations.
package stash

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/SmitUplenchwar2687/Stash/internal/clock"
	"github.com/SmitUplenchwar2687/Stash/internal/config"
	"github.com/SmitUplenchwar2687/Stash/internal/journal"
	"github.com/SmitUplenchwar2687/Stash/internal/keycache"
	"github.com/SmitUplenchwar2687/Stash/internal/storage"
)

// Options configures a Stash built with New.
type Options struct {
	// Journal receives every successful mutation. Nil disables journaling.
	Journal *journal.Journal
	// JournalPath, when set, is where Close exports the journal.
	JournalPath string
	Logger      logrus.FieldLogger
	// Clock stamps change events. Nil uses the wall clock.
	Clock clock.Clock
}

// Stash exposes set/get/remove/clear/keys over a storage backend.
type Stash struct {
	store       storage.Storage
	journal     *journal.Journal
	journalPath string
	log         logrus.FieldLogger
	clock       clock.Clock

	// wmu serializes each mutation with its journal record and listener
	// fan-out, so events are recorded in the order the backend applied them.
	wmu sync.Mutex

	mu        sync.RWMutex
	listeners []func(journal.Entry)

	closeOnce sync.Once
	closeErr  error
}

// New wraps an existing backend.
func New(store storage.Storage, opts Options) *Stash {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &Stash{
		store:       store,
		clock:       clk,
		journal:     opts.Journal,
		journalPath: opts.JournalPath,
		log:         logger,
	}
}

// Open builds the backend described by cfg, layers the key cache over it when
// enabled and attaches a journal when a journal path is configured.
func Open(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (*Stash, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	backend, err := storage.New(&cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("creating %s storage: %w", cfg.Storage.Backend, err)
	}

	var store storage.Storage = backend
	if cfg.Cache.Enabled {
		kc, err := keycache.New(backend, keycache.Options{Values: cfg.Cache.Values})
		if err != nil {
			_ = storage.Close(backend)
			return nil, err
		}
		if err := kc.Bootstrap(ctx); err != nil {
			_ = storage.Close(backend)
			return nil, err
		}
		store = kc
	}

	opts := Options{Logger: logger}
	if cfg.Journal.Path != "" {
		opts.Journal = journal.New(nil)
		opts.JournalPath = cfg.Journal.Path
	}

	logger.WithFields(logrus.Fields{
		"backend": cfg.Storage.Backend,
		"cache":   cfg.Cache.Enabled,
		"journal": cfg.Journal.Path != "",
	}).Debug("stash opened")

	return New(store, opts), nil
}

// Set stores value under key.
func (s *Stash) Set(ctx context.Context, key, value string) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	if err := s.store.SetItem(ctx, key, value); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	s.emit(journal.Entry{Op: journal.OpSet, Key: key, Value: value})
	return nil
}

// Get returns the value for key and whether it exists.
func (s *Stash) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := s.store.GetItem(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return v, ok, nil
}

// Has reports whether key exists.
func (s *Stash) Has(ctx context.Context, key string) (bool, error) {
	ok, err := s.store.KeyExists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("exists %q: %w", key, err)
	}
	return ok, nil
}

// Remove deletes key.
func (s *Stash) Remove(ctx context.Context, key string) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	if err := s.store.RemoveItem(ctx, key); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	s.emit(journal.Entry{Op: journal.OpRemove, Key: key})
	return nil
}

// Clear deletes every key.
func (s *Stash) Clear(ctx context.Context) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	s.emit(journal.Entry{Op: journal.OpClear})
	return nil
}

// Keys returns every stored key.
func (s *Stash) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.store.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("keys: %w", err)
	}
	return keys, nil
}

// Storage returns the storage the facade talks to, including any cache layer.
func (s *Stash) Storage() storage.Storage {
	return s.store
}

// Backend returns the innermost backend, skipping the key cache.
func (s *Stash) Backend() storage.Storage {
	if kc, ok := s.store.(*keycache.Cache); ok {
		return kc.Backend()
	}
	return s.store
}

// Journal returns the attached journal, or nil.
func (s *Stash) Journal() *journal.Journal {
	return s.journal
}

// OnChange registers fn to receive every successful mutation, in the order
// mutations were applied. fn runs while the mutation is held and must not
// call back into the Stash's write methods.
func (s *Stash) OnChange(fn func(journal.Entry)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Close exports the journal when a path is configured and closes the backend.
// It is idempotent.
func (s *Stash) Close() error {
	s.closeOnce.Do(func() {
		var result *multierror.Error
		if s.journal != nil && s.journalPath != "" {
			s.log.WithFields(logrus.Fields{
				"entries": s.journal.Len(),
				"path":    s.journalPath,
			}).Info("exporting journal")
			if err := s.journal.ExportFile(s.journalPath); err != nil {
				result = multierror.Append(result, fmt.Errorf("exporting journal: %w", err))
			}
		}
		if err := storage.Close(s.store); err != nil {
			result = multierror.Append(result, fmt.Errorf("closing storage: %w", err))
		}
		s.closeErr = result.ErrorOrNil()
	})
	return s.closeErr
}

func (s *Stash) emit(e journal.Entry) {
	e.Timestamp = s.clock.Now()
	if s.journal != nil {
		if err := s.journal.Record(e); err != nil {
			s.log.WithError(err).Warn("journal record failed")
		}
	}

	s.mu.RLock()
	listeners := make([]func(journal.Entry), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(e)
	}
}
