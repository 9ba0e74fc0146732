// Package journal exposes Stash's mutation journal and replay.
package journal

import (
	"context"
	"io"

	internaljournal "github.com/SmitUplenchwar2687/Stash/internal/journal"
	"github.com/SmitUplenchwar2687/Stash/internal/storage"
)

// Op names a mutation kind.
type Op = internaljournal.Op

const (
	OpSet    = internaljournal.OpSet
	OpRemove = internaljournal.OpRemove
	OpClear  = internaljournal.OpClear
)

// Entry is a single recorded mutation.
type Entry = internaljournal.Entry

// Journal captures mutation entries in arrival order.
type Journal = internaljournal.Journal

// Filter selects entries during replay.
type Filter = internaljournal.Filter

// Summary aggregates replay statistics.
type Summary = internaljournal.Summary

// New creates a Journal, optionally streaming entries to w.
func New(w io.Writer) *Journal {
	return internaljournal.New(w)
}

// LoadJSON reads entries from a JSON array.
func LoadJSON(r io.Reader) ([]Entry, error) {
	return internaljournal.LoadJSON(r)
}

// LoadFile reads entries from a JSON file.
func LoadFile(path string) ([]Entry, error) {
	return internaljournal.LoadFile(path)
}

// Replay applies entries to target in timestamp order.
func Replay(ctx context.Context, entries []Entry, target storage.Storage, filter Filter) (*Summary, error) {
	return internaljournal.Replay(ctx, entries, target, filter)
}
