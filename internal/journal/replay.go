package journal

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SmitUplenchwar2687/Stash/internal/storage"
)

// Filter defines criteria for selecting entries during replay.
type Filter struct {
	Keys   []string  // Only include these keys (empty = all)
	Ops    []Op      // Only include these ops (empty = all)
	After  time.Time // Only include entries after this time (zero = no limit)
	Before time.Time // Only include entries before this time (zero = no limit)
}

// Match returns true if the entry passes the filter. Clear entries carry no
// key and pass any key filter.
func (f *Filter) Match(e Entry) bool {
	if len(f.Keys) > 0 && e.Op != OpClear && !contains(f.Keys, e.Key) {
		return false
	}
	if len(f.Ops) > 0 && !containsOp(f.Ops, e.Op) {
		return false
	}
	if !f.After.IsZero() && !e.Timestamp.After(f.After) {
		return false
	}
	if !f.Before.IsZero() && !e.Timestamp.Before(f.Before) {
		return false
	}
	return true
}

// Summary aggregates replay statistics.
type Summary struct {
	Total    int        `json:"total"`
	Filtered int        `json:"filtered"`
	Applied  int        `json:"applied"`
	PerOp    map[Op]int `json:"per_op"`
}

// Replay applies entries to target in timestamp order. Entries with equal
// timestamps keep their recorded order.
func Replay(ctx context.Context, entries []Entry, target storage.Storage, filter Filter) (*Summary, error) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, k int) bool {
		return sorted[i].Timestamp.Before(sorted[k].Timestamp)
	})

	summary := &Summary{
		Total: len(sorted),
		PerOp: make(map[Op]int),
	}

	for _, e := range sorted {
		if !filter.Match(e) {
			continue
		}
		summary.Filtered++

		if err := ctx.Err(); err != nil {
			return summary, err
		}

		var err error
		switch e.Op {
		case OpSet:
			err = target.SetItem(ctx, e.Key, e.Value)
		case OpRemove:
			err = target.RemoveItem(ctx, e.Key)
		case OpClear:
			err = target.Clear(ctx)
		default:
			err = fmt.Errorf("unknown op %q", e.Op)
		}
		if err != nil {
			return summary, fmt.Errorf("replaying %s %q: %w", e.Op, e.Key, err)
		}

		summary.Applied++
		summary.PerOp[e.Op]++
	}

	return summary, nil
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func containsOp(ops []Op, op Op) bool {
	for _, v := range ops {
		if v == op {
			return true
		}
	}
	return false
}
