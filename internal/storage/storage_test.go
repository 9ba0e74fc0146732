package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/SmitUplenchwar2687/Stash/internal/hashtable"
)

var ctx = context.Background()

func TestHashTableStorage_DefaultSize(t *testing.T) {
	s, err := NewHashTableStorage(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Stats().Size; got != hashtable.DefaultInitialSize {
		t.Errorf("Size = %d, want %d", got, hashtable.DefaultInitialSize)
	}
}

func TestHashTableStorage_InvalidSize(t *testing.T) {
	_, err := NewHashTableStorage(&HashTableConfig{InitialSize: -3})
	if !errors.Is(err, hashtable.ErrInvalidSize) {
		t.Fatalf("error = %v, want ErrInvalidSize", err)
	}
}

func TestHashTableStorage_GrowsLikeTable(t *testing.T) {
	s, err := NewHashTableStorage(&HashTableConfig{InitialSize: 4})
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		_ = s.SetItem(ctx, k, k)
	}
	st := s.Stats()
	if st.Size != 8 || st.Count != 3 {
		t.Errorf("Stats() size/count = %d/%d, want 8/3", st.Size, st.Count)
	}

	_ = s.Clear(ctx)
	if got := s.Stats().Size; got != 4 {
		t.Errorf("Size after Clear = %d, want 4", got)
	}
}

func TestHashTableStorage_ConcurrentAccess(t *testing.T) {
	s, _ := NewHashTableStorage(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			k := string(rune('A' + i))
			_ = s.SetItem(ctx, k, "v")
			_, _, _ = s.GetItem(ctx, k)
		}(i)
	}
	wg.Wait()

	keys, _ := s.Keys(ctx)
	if len(keys) != 50 {
		t.Errorf("len(Keys()) = %d, want 50", len(keys))
	}
}

func TestMemoryStorage_Len(t *testing.T) {
	s := NewMemoryStorage()
	_ = s.SetItem(ctx, "a", "1")
	_ = s.SetItem(ctx, "b", "2")
	_ = s.SetItem(ctx, "a", "3")
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	_ = s.Clear(ctx)
	if s.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", s.Len())
	}
}

func TestFileStorage_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "stash.json")

	s, err := NewFileStorage(&FileConfig{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	_ = s.SetItem(ctx, "theme", "dark")
	_ = s.SetItem(ctx, "lang", "en")
	_ = s.RemoveItem(ctx, "lang")
	_ = s.Close()

	reopened, err := NewFileStorage(&FileConfig{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	v, ok, err := reopened.GetItem(ctx, "theme")
	if err != nil || !ok || v != "dark" {
		t.Errorf("GetItem(theme) = %q, %v, %v, want dark", v, ok, err)
	}
	if ok, _ := reopened.KeyExists(ctx, "lang"); ok {
		t.Error("lang should not survive removal")
	}
}

func TestFileStorage_MissingPath(t *testing.T) {
	if _, err := NewFileStorage(&FileConfig{}); err == nil {
		t.Fatal("expected error for empty path")
	}
	if _, err := NewFileStorage(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestFileStorage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stash.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStorage(&FileConfig{Path: path}); err == nil {
		t.Fatal("expected error for corrupt document")
	}
}

func TestFileStorage_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stash.json")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := NewFileStorage(&FileConfig{Path: path})
	if err != nil {
		t.Fatalf("empty document should open, got %v", err)
	}
	keys, _ := s.Keys(ctx)
	if len(keys) != 0 {
		t.Errorf("Keys() = %v, want empty", keys)
	}
}

func TestFileStorage_Closed(t *testing.T) {
	s, err := NewFileStorage(&FileConfig{Path: filepath.Join(t.TempDir(), "s.json")})
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Close()
	_ = s.Close()

	if err := s.SetItem(ctx, "k", "v"); !errors.Is(err, ErrClosed) {
		t.Errorf("SetItem() after Close = %v, want ErrClosed", err)
	}
	if _, _, err := s.GetItem(ctx, "k"); !errors.Is(err, ErrClosed) {
		t.Errorf("GetItem() after Close = %v, want ErrClosed", err)
	}
}

func TestBadgerStorage_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := NewBadgerStorage(&BadgerConfig{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	_ = s.SetItem(ctx, "k", "v")
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewBadgerStorage(&BadgerConfig{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	v, ok, err := reopened.GetItem(ctx, "k")
	if err != nil || !ok || v != "v" {
		t.Errorf("GetItem() = %q, %v, %v, want v", v, ok, err)
	}
}

func TestBadgerStorage_RequiresDir(t *testing.T) {
	if _, err := NewBadgerStorage(&BadgerConfig{}); err == nil {
		t.Fatal("expected error without dir or in_memory")
	}
}

func TestClose_NonCloser(t *testing.T) {
	if err := Close(NewMemoryStorage()); err != nil {
		t.Errorf("Close(memory) = %v, want nil", err)
	}
}
