package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMutex_ExclusiveUntilUnlocked(t *testing.T) {
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	ctx := context.Background()

	a := NewMutex(rdb, "lock:sweep", time.Minute)
	b := NewMutex(rdb, "lock:sweep", time.Minute)

	unlock, err := a.TryLock(ctx)
	if err != nil {
		t.Fatalf("first TryLock: %v", err)
	}
	if _, err := b.TryLock(ctx); !errors.Is(err, ErrLockHeld) {
		t.Fatalf("second TryLock err = %v, want ErrLockHeld", err)
	}
	if ttl := s.TTL("lock:sweep"); ttl != time.Minute {
		t.Fatalf("ttl = %v, want 1m", ttl)
	}
	if err := unlock(ctx); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if s.Exists("lock:sweep") {
		t.Fatal("key should be gone after unlock")
	}
	if _, err := b.TryLock(ctx); err != nil {
		t.Fatalf("TryLock after unlock: %v", err)
	}
}

func TestMutex_StaleUnlockKeepsNewOwner(t *testing.T) {
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	ctx := context.Background()

	m := NewMutex(rdb, "lock:sweep", time.Second)
	stale, err := m.TryLock(ctx)
	if err != nil {
		t.Fatalf("TryLock: %v", err)
	}
	s.FastForward(2 * time.Second)

	if _, err := m.TryLock(ctx); err != nil {
		t.Fatalf("TryLock after expiry: %v", err)
	}
	if err := stale(ctx); err != nil {
		t.Fatalf("stale unlock: %v", err)
	}
	if !s.Exists("lock:sweep") {
		t.Fatal("stale unlock must not release the new owner's lock")
	}
}

func TestMutex_RedisDown(t *testing.T) {
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	s.Close()

	if _, err := NewMutex(rdb, "k", time.Second).TryLock(context.Background()); err == nil || errors.Is(err, ErrLockHeld) {
		t.Fatalf("want connection error, got %v", err)
	}
}
