package clock

import (
	"sync"
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestVirtualClock_Now(t *testing.T) {
	vc := NewVirtualClock(epoch)
	if got := vc.Now(); !got.Equal(epoch) {
		t.Errorf("Now() = %v, want %v", got, epoch)
	}
}

func TestVirtualClock_AdvanceMultiple(t *testing.T) {
	vc := NewVirtualClock(epoch)
	vc.Advance(1 * time.Hour)
	vc.Advance(30 * time.Minute)

	want := epoch.Add(90 * time.Minute)
	if got := vc.Now(); !got.Equal(want) {
		t.Errorf("Now() after multiple Advance = %v, want %v", got, want)
	}
}

func TestVirtualClock_AdvanceNegativePanics(t *testing.T) {
	vc := NewVirtualClock(epoch)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for negative advance")
		}
	}()
	vc.Advance(-time.Second)
}

func TestVirtualClock_Set(t *testing.T) {
	vc := NewVirtualClock(epoch)
	target := epoch.Add(24 * time.Hour)
	vc.Set(target)
	if got := vc.Now(); !got.Equal(target) {
		t.Errorf("Now() after Set = %v, want %v", got, target)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for moving backwards")
		}
	}()
	vc.Set(epoch)
}

func TestVirtualClock_ConcurrentAccess(t *testing.T) {
	vc := NewVirtualClock(epoch)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			vc.Advance(time.Millisecond)
		}()
		go func() {
			defer wg.Done()
			_ = vc.Now()
		}()
	}
	wg.Wait()

	if got := vc.Now(); !got.Equal(epoch.Add(50 * time.Millisecond)) {
		t.Errorf("Now() = %v, want epoch+50ms", got)
	}
}

func TestRealClock_Now(t *testing.T) {
	before := time.Now()
	got := NewRealClock().Now()
	if got.Before(before) {
		t.Errorf("RealClock.Now() = %v, before %v", got, before)
	}
}
