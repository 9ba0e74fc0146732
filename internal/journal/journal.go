// Package journal records storage mutations so they can be exported and
// replayed onto another backend.
package journal

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// Op names a mutation kind.
type Op string

const (
	OpSet    Op = "set"
	OpRemove Op = "remove"
	OpClear  Op = "clear"
)

// Entry is a single recorded mutation.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Op        Op        `json:"op"`
	Key       string    `json:"key,omitempty"`
	Value     string    `json:"value,omitempty"`
}

// Journal captures mutation entries in arrival order.
// Thread-safe for concurrent use.
type Journal struct {
	mu      sync.Mutex
	entries []Entry
	writer  io.Writer // optional: stream entries as they arrive
	now     func() time.Time
}

// New creates a Journal. If w is non-nil, entries are also written to w as
// newline-delimited JSON as they arrive.
func New(w io.Writer) *Journal {
	return &Journal{
		writer: w,
		now:    time.Now,
	}
}

// Record appends e, stamping it with the current time if Timestamp is zero.
func (j *Journal) Record(e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if e.Timestamp.IsZero() {
		e.Timestamp = j.now()
	}
	j.entries = append(j.entries, e)

	if j.writer != nil {
		if err := json.NewEncoder(j.writer).Encode(e); err != nil {
			return err
		}
	}
	return nil
}

// Entries returns a copy of all recorded entries.
func (j *Journal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Len returns the number of recorded entries.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

// ExportJSON writes all entries to w as a JSON array.
func (j *Journal) ExportJSON(w io.Writer) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	entries := j.entries
	if entries == nil {
		entries = []Entry{}
	}
	return enc.Encode(entries)
}

// ExportFile writes all entries to a file as a JSON array.
func (j *Journal) ExportFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := j.ExportJSON(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadJSON reads entries from a JSON array.
func LoadJSON(r io.Reader) ([]Entry, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// LoadFile reads entries from a JSON array file.
func LoadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadJSON(f)
}
