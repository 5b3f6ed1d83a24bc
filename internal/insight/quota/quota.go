// Package quota enforces the rolling daily budget of external inference
// calls. The reserve check must happen before any network attempt; cache
// hits bypass it entirely.
package quota

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/avaraper/calily-backend/internal/pkg/logger"
	"github.com/avaraper/calily-backend/internal/utils"
)

// DailyLimit stays below the provider's 250/day ceiling as a safety margin.
const DailyLimit = 200

// Window is the rolling period the budget applies to.
const Window = 24 * time.Hour

// ExceededError reports a denied reservation and when to try again.
type ExceededError struct {
	RetryAfterHours int
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("daily AI call limit reached, retry in %d hours", e.RetryAfterHours)
}

// Store holds the shared (count, windowStart) state. Reserve is atomic: two
// concurrent callers at count = limit-1 must not both pass.
type Store interface {
	// Reserve attempts to consume one call from the budget. When denied it
	// reports how long remains until the window resets.
	Reserve(ctx context.Context, limit int, window time.Duration) (remaining time.Duration, ok bool, err error)
}

// Guard wraps a Store with the configured limit and window.
type Guard struct {
	store  Store
	limit  int
	window time.Duration
	log    *logger.Logger
}

func NewGuard(store Store, log *logger.Logger) *Guard {
	return &Guard{
		store:  store,
		limit:  utils.GetEnvAsInt("AI_DAILY_CALL_LIMIT", DailyLimit, log),
		window: Window,
		log:    log.With("service", "QuotaGuard"),
	}
}

// TryReserve consumes one call from the budget or returns *ExceededError.
// Any store infrastructure failure is returned as-is.
func (g *Guard) TryReserve(ctx context.Context) error {
	remaining, ok, err := g.store.Reserve(ctx, g.limit, g.window)
	if err != nil {
		return fmt.Errorf("quota reserve: %w", err)
	}
	if !ok {
		hours := int(math.Ceil(remaining.Hours()))
		if hours < 1 {
			hours = 1
		}
		g.log.Warn("Daily AI call limit reached", "limit", g.limit, "retry_after_hours", hours)
		return &ExceededError{RetryAfterHours: hours}
	}
	return nil
}

// MemoryStore is the single-process Store. State is one (count, windowStart)
// pair mutated under a mutex.
type MemoryStore struct {
	mu          sync.Mutex
	count       int
	windowStart time.Time

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) Reserve(_ context.Context, limit int, window time.Duration) (time.Duration, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.windowStart.IsZero() || now.Sub(s.windowStart) >= window {
		s.count = 0
		s.windowStart = now
	}

	if s.count >= limit {
		return window - now.Sub(s.windowStart), false, nil
	}

	s.count++
	return 0, true, nil
}

// Count reports the calls consumed in the current window.
func (s *MemoryStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}
