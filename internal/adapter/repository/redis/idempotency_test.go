package redis

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jsiquinajay/kardex/internal/usecase"
)

func TestIdempotencyCheckAndSetNewKey(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	exists, existing, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Fatalf("expected new key, got existing value %q", existing)
	}
}

func TestIdempotencyCheckAndSetReplay(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	response := []byte(`{"result":"success","transformation_id":"tr-1"}`)

	if _, _, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if err := store.Update(ctx, "key-1", response, time.Minute); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	exists, existing, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Fatal("expected stored response")
	}
	if !bytes.Equal(existing, response) {
		t.Fatalf("expected %s, got %s", response, existing)
	}
}

func TestIdempotencyConcurrentReservation(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	// First caller reserves; a second caller with the same key sees the
	// in-flight placeholder instead of starting its own write.
	if exists, _, err := store.CheckAndSet(ctx, "key-race", nil, time.Minute); err != nil || exists {
		t.Fatalf("expected fresh reservation, got exists=%v err=%v", exists, err)
	}

	exists, existing, err := store.CheckAndSet(ctx, "key-race", nil, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Fatal("expected the reservation to be visible")
	}
	if string(existing) != usecase.IdempotencyInFlight {
		t.Fatalf("expected in-flight placeholder, got %q", existing)
	}
}

func TestIdempotencyExpiry(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "key-ttl", []byte("done"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	exists, _, err := store.CheckAndSet(ctx, "key-ttl", nil, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Fatal("expected expired key to be reusable")
	}
}
