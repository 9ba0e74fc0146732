package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SmitUplenchwar2687/Stash/internal/storage"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestJournal_Record(t *testing.T) {
	j := New(nil)
	j.now = func() time.Time { return epoch }

	if err := j.Record(Entry{Op: OpSet, Key: "k", Value: "v"}); err != nil {
		t.Fatal(err)
	}
	if j.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", j.Len())
	}
	got := j.Entries()[0]
	if !got.Timestamp.Equal(epoch) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, epoch)
	}
}

func TestJournal_KeepsExplicitTimestamp(t *testing.T) {
	j := New(nil)
	ts := epoch.Add(time.Hour)
	_ = j.Record(Entry{Timestamp: ts, Op: OpClear})
	if got := j.Entries()[0].Timestamp; !got.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", got, ts)
	}
}

func TestJournal_StreamsNDJSON(t *testing.T) {
	var buf bytes.Buffer
	j := New(&buf)
	_ = j.Record(Entry{Timestamp: epoch, Op: OpSet, Key: "a", Value: "1"})
	_ = j.Record(Entry{Timestamp: epoch, Op: OpRemove, Key: "a"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("streamed %d lines, want 2", len(lines))
	}
	var e Entry
	if err := json.Unmarshal([]byte(lines[1]), &e); err != nil {
		t.Fatal(err)
	}
	if e.Op != OpRemove || e.Key != "a" {
		t.Errorf("second line = %+v", e)
	}
}

func TestJournal_EntriesReturnsCopy(t *testing.T) {
	j := New(nil)
	_ = j.Record(Entry{Op: OpSet, Key: "a"})
	entries := j.Entries()
	entries[0].Key = "mutated"
	if j.Entries()[0].Key != "a" {
		t.Error("Entries() exposed internal slice")
	}
}

func TestJournal_ExportLoadFile(t *testing.T) {
	j := New(nil)
	_ = j.Record(Entry{Timestamp: epoch, Op: OpSet, Key: "a", Value: "1"})
	_ = j.Record(Entry{Timestamp: epoch.Add(time.Second), Op: OpClear})

	path := filepath.Join(t.TempDir(), "journal.json")
	if err := j.ExportFile(path); err != nil {
		t.Fatalf("ExportFile() error = %v", err)
	}
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(loaded) != 2 || loaded[1].Op != OpClear {
		t.Errorf("LoadFile() = %+v", loaded)
	}
}

func TestJournal_ExportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := New(nil).ExportJSON(&buf); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("ExportJSON() = %q, want []", buf.String())
	}
}

func TestJournal_ConcurrentRecord(t *testing.T) {
	j := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = j.Record(Entry{Op: OpSet, Key: "k"})
		}()
	}
	wg.Wait()
	if j.Len() != 100 {
		t.Errorf("Len() = %d, want 100", j.Len())
	}
}

func TestReplay_AppliesInTimestampOrder(t *testing.T) {
	entries := []Entry{
		{Timestamp: epoch.Add(2 * time.Second), Op: OpSet, Key: "a", Value: "late"},
		{Timestamp: epoch, Op: OpSet, Key: "a", Value: "early"},
		{Timestamp: epoch.Add(time.Second), Op: OpSet, Key: "b", Value: "1"},
		{Timestamp: epoch.Add(3 * time.Second), Op: OpRemove, Key: "b"},
	}
	target := storage.NewMemoryStorage()

	summary, err := Replay(context.Background(), entries, target, Filter{})
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if summary.Applied != 4 || summary.PerOp[OpSet] != 3 || summary.PerOp[OpRemove] != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if v, _, _ := target.GetItem(context.Background(), "a"); v != "late" {
		t.Errorf("a = %q, want late", v)
	}
	if ok, _ := target.KeyExists(context.Background(), "b"); ok {
		t.Error("b should be removed")
	}
}

func TestReplay_Filter(t *testing.T) {
	entries := []Entry{
		{Timestamp: epoch, Op: OpSet, Key: "a", Value: "1"},
		{Timestamp: epoch.Add(time.Second), Op: OpSet, Key: "b", Value: "2"},
		{Timestamp: epoch.Add(2 * time.Second), Op: OpRemove, Key: "a"},
	}
	target := storage.NewMemoryStorage()

	summary, err := Replay(context.Background(), entries, target, Filter{Keys: []string{"a"}, Ops: []Op{OpSet}})
	if err != nil {
		t.Fatal(err)
	}
	if summary.Total != 3 || summary.Filtered != 1 || summary.Applied != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if target.Len() != 1 {
		t.Errorf("target Len() = %d, want 1", target.Len())
	}
}

func TestFilter_TimeBounds(t *testing.T) {
	f := Filter{After: epoch, Before: epoch.Add(time.Minute)}
	if f.Match(Entry{Timestamp: epoch}) {
		t.Error("After bound is exclusive")
	}
	if !f.Match(Entry{Timestamp: epoch.Add(time.Second)}) {
		t.Error("entry inside the window should match")
	}
	if f.Match(Entry{Timestamp: epoch.Add(time.Minute)}) {
		t.Error("Before bound is exclusive")
	}
}

func TestFilter_ClearIgnoresKeyFilter(t *testing.T) {
	f := Filter{Keys: []string{"a"}}
	if !f.Match(Entry{Op: OpClear}) {
		t.Error("clear entries should pass a key filter")
	}
}

func TestReplay_UnknownOp(t *testing.T) {
	_, err := Replay(context.Background(), []Entry{{Op: "rename", Key: "x"}}, storage.NewMemoryStorage(), Filter{})
	if err == nil {
		t.Fatal("expected error for unknown op")
	}
}

func TestReplay_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Replay(ctx, []Entry{{Op: OpSet, Key: "x"}}, storage.NewMemoryStorage(), Filter{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Replay() error = %v, want context.Canceled", err)
	}
}
