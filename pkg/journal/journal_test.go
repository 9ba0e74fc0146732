package journal

import (
	"context"
	"testing"

	"github.com/SmitUplenchwar2687/Stash/pkg/storage"
)

func TestReplayPublicAPI(t *testing.T) {
	j := New(nil)
	_ = j.Record(Entry{Op: OpSet, Key: "k", Value: "v"})

	target := storage.NewMemoryStorage()
	summary, err := Replay(context.Background(), j.Entries(), target, Filter{})
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if summary.Applied != 1 || target.Len() != 1 {
		t.Fatalf("applied = %d, stored = %d", summary.Applied, target.Len())
	}
}
