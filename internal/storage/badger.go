package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	log "github.com/sirupsen/logrus"
)

// BadgerStorage is an embedded persistent backend built on badger.
type BadgerStorage struct {
	db *badger.DB

	closeOnce sync.Once
	closeErr  error
}

// NewBadgerStorage opens a badger database in cfg.Dir, or a purely in-memory
// one when cfg.InMemory is set.
func NewBadgerStorage(cfg *BadgerConfig) (*BadgerStorage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("badger config is required")
	}

	var opts badger.Options
	switch {
	case cfg.InMemory:
		opts = badger.DefaultOptions("").WithInMemory(true)
	case cfg.Dir != "":
		opts = badger.DefaultOptions(cfg.Dir)
	default:
		return nil, fmt.Errorf("badger dir is required unless in_memory is set")
	}
	opts = opts.WithLogger(log.WithField("component", "badger"))

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger: %w", err)
	}
	return &BadgerStorage{db: db}, nil
}

func (s *BadgerStorage) SetItem(ctx context.Context, key, value string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("badger set %q: %w", key, s.mapErr(err))
	}
	return nil
}

func (s *BadgerStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := checkCtx(ctx); err != nil {
		return "", false, err
	}

	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("badger get %q: %w", key, s.mapErr(err))
	}
	return string(value), true, nil
}

func (s *BadgerStorage) RemoveItem(ctx context.Context, key string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("badger delete %q: %w", key, s.mapErr(err))
	}
	return nil
}

func (s *BadgerStorage) Clear(ctx context.Context) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	if err := s.db.DropAll(); err != nil {
		return fmt.Errorf("badger drop all: %w", s.mapErr(err))
	}
	return nil
}

func (s *BadgerStorage) KeyExists(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.GetItem(ctx, key)
	return ok, err
}

func (s *BadgerStorage) Keys(ctx context.Context) ([]string, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger keys: %w", s.mapErr(err))
	}
	return keys, nil
}

// Close closes the database. It is idempotent.
func (s *BadgerStorage) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}

func (s *BadgerStorage) mapErr(err error) error {
	if errors.Is(err, badger.ErrDBClosed) {
		return ErrClosed
	}
	return err
}
