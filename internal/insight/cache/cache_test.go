package cache

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"
)

func TestPutThenGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	want := []byte(`{"summary":"steady week"}`)
	if err := store.Put(ctx, "weekly-summary:abc", want); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := store.Get(ctx, "weekly-summary:abc")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("payload: want=%s got=%s", want, got)
	}
}

func TestGetMissReturnsAbsent(t *testing.T) {
	store := NewMemoryStore()
	_, ok, err := store.Get(context.Background(), "never-stored")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("want miss for unknown key")
	}
}

func TestGetExpiresAfterTTL(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return current }
	ctx := context.Background()

	if err := store.Put(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("put: %v", err)
	}

	current = current.Add(TTL - time.Second)
	if _, ok, _ := store.Get(ctx, "k"); !ok {
		t.Fatalf("entry expired early")
	}

	current = current.Add(2 * time.Second)
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatalf("entry should be absent after TTL")
	}
	if store.Len() != 0 {
		t.Fatalf("expired entry should be dropped on read, len=%d", store.Len())
	}
}

func TestEvictsOldestInsertedAtCapacity(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < MaxEntries; i++ {
		if err := store.Put(ctx, fmt.Sprintf("key-%d", i), []byte("v")); err != nil {
			t.Fatalf("put %d: %v", i, err)
		}
	}

	// Reading the oldest entry must not refresh its eviction position.
	if _, ok, _ := store.Get(ctx, "key-0"); !ok {
		t.Fatalf("key-0 missing before eviction")
	}

	if err := store.Put(ctx, "key-overflow", []byte("v")); err != nil {
		t.Fatalf("put overflow: %v", err)
	}

	if _, ok, _ := store.Get(ctx, "key-0"); ok {
		t.Fatalf("key-0 should have been evicted")
	}
	if _, ok, _ := store.Get(ctx, "key-1"); !ok {
		t.Fatalf("key-1 evicted unexpectedly")
	}
	if _, ok, _ := store.Get(ctx, "key-overflow"); !ok {
		t.Fatalf("new key missing after eviction")
	}
	if store.Len() != MaxEntries {
		t.Fatalf("len: want=%d got=%d", MaxEntries, store.Len())
	}
}

func TestRePutKeepsInsertionPosition(t *testing.T) {
	store := NewMemoryStore()
	store.maxEntries = 2
	ctx := context.Background()

	_ = store.Put(ctx, "a", []byte("1"))
	_ = store.Put(ctx, "b", []byte("1"))
	_ = store.Put(ctx, "a", []byte("2"))
	_ = store.Put(ctx, "c", []byte("1"))

	if _, ok, _ := store.Get(ctx, "a"); ok {
		t.Fatalf("re-put must not refresh position; a should be evicted first")
	}
	got, ok, _ := store.Get(ctx, "b")
	if !ok || string(got) != "1" {
		t.Fatalf("b should survive, got ok=%v payload=%s", ok, got)
	}
}
