package insight

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/avaraper/calily-backend/internal/types"
)

func TestCacheKeyStableAcrossTextChanges(t *testing.T) {
	id := uuid.New()
	a := []types.JournalEntry{{ID: id, Text: "original text", CreatedAt: time.Now()}}
	b := []types.JournalEntry{{ID: id, Text: "edited text", CreatedAt: time.Now()}}

	if CacheKey(KindWeeklySummary, a, nil) != CacheKey(KindWeeklySummary, b, nil) {
		t.Fatalf("key must depend on identifiers, not text")
	}
}

func TestCacheKeyVariesByKindAndIDSet(t *testing.T) {
	e1 := types.JournalEntry{ID: uuid.New()}
	e2 := types.JournalEntry{ID: uuid.New()}
	m1 := types.Medication{ID: uuid.New()}

	base := CacheKey(KindWeeklySummary, []types.JournalEntry{e1}, nil)

	if got := CacheKey(KindPatternAnalysis, []types.JournalEntry{e1}, nil); got == base {
		t.Fatalf("same key across kinds: %s", got)
	}
	if got := CacheKey(KindWeeklySummary, []types.JournalEntry{e1, e2}, nil); got == base {
		t.Fatalf("same key across entry sets: %s", got)
	}
	if got := CacheKey(KindWeeklySummary, []types.JournalEntry{e1}, []types.Medication{m1}); got == base {
		t.Fatalf("same key despite added medication: %s", got)
	}
}

func TestCacheKeyOrderSensitive(t *testing.T) {
	e1 := types.JournalEntry{ID: uuid.New()}
	e2 := types.JournalEntry{ID: uuid.New()}

	k1 := CacheKey(KindTrendAnalysis, []types.JournalEntry{e1, e2}, nil)
	k2 := CacheKey(KindTrendAnalysis, []types.JournalEntry{e2, e1}, nil)
	if k1 == k2 {
		t.Fatalf("key should reflect caller-supplied entry order")
	}
}
