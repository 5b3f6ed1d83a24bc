package quota

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/avaraper/calily-backend/internal/pkg/logger"
)

func newTestGuard(t *testing.T, store Store) *Guard {
	t.Helper()
	return NewGuard(store, logger.NewNop())
}

func TestTryReserveExhaustsAtLimit(t *testing.T) {
	store := NewMemoryStore()
	guard := newTestGuard(t, store)
	ctx := context.Background()

	for i := 0; i < DailyLimit; i++ {
		if err := guard.TryReserve(ctx); err != nil {
			t.Fatalf("reservation %d: unexpected error %v", i+1, err)
		}
	}

	err := guard.TryReserve(ctx)
	var exceeded *ExceededError
	if !errors.As(err, &exceeded) {
		t.Fatalf("reservation %d: want ExceededError, got %v", DailyLimit+1, err)
	}
	if exceeded.RetryAfterHours < 1 || exceeded.RetryAfterHours > 24 {
		t.Fatalf("retry hours out of range: %d", exceeded.RetryAfterHours)
	}
	if got := store.Count(); got != DailyLimit {
		t.Fatalf("count after denial: want=%d got=%d", DailyLimit, got)
	}
}

func TestTryReserveRetryAfterRoundsUp(t *testing.T) {
	current := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return current }
	guard := newTestGuard(t, store)
	ctx := context.Background()

	for i := 0; i < DailyLimit; i++ {
		if err := guard.TryReserve(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// 30 minutes into the window, 23.5h remain, which rounds up to 24.
	current = current.Add(30 * time.Minute)
	var exceeded *ExceededError
	if err := guard.TryReserve(ctx); !errors.As(err, &exceeded) {
		t.Fatalf("want ExceededError, got %v", err)
	}
	if exceeded.RetryAfterHours != 24 {
		t.Fatalf("retry hours: want=24 got=%d", exceeded.RetryAfterHours)
	}

	current = current.Add(23 * time.Hour)
	exceeded = nil
	if err := guard.TryReserve(ctx); !errors.As(err, &exceeded) {
		t.Fatalf("want ExceededError, got %v", err)
	}
	if exceeded.RetryAfterHours != 1 {
		t.Fatalf("retry hours near reset: want=1 got=%d", exceeded.RetryAfterHours)
	}
}

func TestTryReserveResetsAfterWindow(t *testing.T) {
	current := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return current }
	guard := newTestGuard(t, store)
	ctx := context.Background()

	for i := 0; i < DailyLimit; i++ {
		if err := guard.TryReserve(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := guard.TryReserve(ctx); err == nil {
		t.Fatalf("want denial at limit")
	}

	current = current.Add(Window)
	if err := guard.TryReserve(ctx); err != nil {
		t.Fatalf("post-reset reservation failed: %v", err)
	}
	if got := store.Count(); got != 1 {
		t.Fatalf("post-reset count: want=1 got=%d", got)
	}
}

func TestTryReserveConcurrentNeverExceedsLimit(t *testing.T) {
	store := NewMemoryStore()
	guard := newTestGuard(t, store)
	ctx := context.Background()

	const callers = 300
	var wg sync.WaitGroup
	granted := make(chan struct{}, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if guard.TryReserve(ctx) == nil {
				granted <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(granted)

	total := 0
	for range granted {
		total++
	}
	if total != DailyLimit {
		t.Fatalf("granted reservations: want=%d got=%d", DailyLimit, total)
	}
	if got := store.Count(); got != DailyLimit {
		t.Fatalf("count: want=%d got=%d", DailyLimit, got)
	}
}
