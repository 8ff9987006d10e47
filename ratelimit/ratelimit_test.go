// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratelimit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newMemoryLimiter(limit int, window time.Duration) (*InMemoryLimiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	l := NewInMemory(limit, window)
	l.now = clock.Now
	return l, clock
}

func TestInMemory_AllowsUpToLimit(t *testing.T) {
	l, clock := newMemoryLimiter(5, 15*time.Minute)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		d, err := l.Allow(ctx, "contact:1.2.3.4")
		if err != nil {
			t.Fatal(err)
		}
		if !d.Allowed {
			t.Fatalf("request %d should be allowed", i)
		}
		if d.Remaining != 5-i {
			t.Errorf("request %d: expected remaining %d, got %d", i, 5-i, d.Remaining)
		}
	}

	d, _ := l.Allow(ctx, "contact:1.2.3.4")
	if d.Allowed {
		t.Fatal("sixth request should be rejected")
	}
	if d.Remaining != 0 {
		t.Errorf("expected remaining 0, got %d", d.Remaining)
	}
	if want := clock.Now().Add(15 * time.Minute); !d.ResetAt.Equal(want) {
		t.Errorf("expected reset at %v, got %v", want, d.ResetAt)
	}
}

func TestInMemory_WindowResets(t *testing.T) {
	l, clock := newMemoryLimiter(2, time.Minute)
	ctx := context.Background()

	l.Allow(ctx, "k")
	l.Allow(ctx, "k")
	if d, _ := l.Allow(ctx, "k"); d.Allowed {
		t.Fatal("third request should be rejected")
	}

	clock.Advance(59 * time.Second)
	if d, _ := l.Allow(ctx, "k"); d.Allowed {
		t.Fatal("window has not expired yet")
	}

	clock.Advance(time.Second)
	if d, _ := l.Allow(ctx, "k"); !d.Allowed {
		t.Fatal("request after window expiry should be allowed")
	}
}

func TestInMemory_KeysIndependent(t *testing.T) {
	l, _ := newMemoryLimiter(1, time.Minute)
	ctx := context.Background()

	if d, _ := l.Allow(ctx, "contact:1.2.3.4"); !d.Allowed {
		t.Fatal("first contact should be allowed")
	}
	if d, _ := l.Allow(ctx, "login:1.2.3.4"); !d.Allowed {
		t.Error("login budget should not be shared with contact")
	}
	if d, _ := l.Allow(ctx, "contact:5.6.7.8"); !d.Allowed {
		t.Error("another address should have its own budget")
	}
}

func TestInMemory_SweepsExpired(t *testing.T) {
	l, clock := newMemoryLimiter(5, time.Minute)
	ctx := context.Background()

	l.Allow(ctx, "a")
	l.Allow(ctx, "b")
	if l.Len() != 2 {
		t.Fatalf("expected 2 keys, got %d", l.Len())
	}

	clock.Advance(2 * time.Minute)
	l.Allow(ctx, "c")
	if l.Len() != 1 {
		t.Errorf("expired keys should be swept, got %d keys", l.Len())
	}
}

func TestInMemory_Concurrent(t *testing.T) {
	l, _ := newMemoryLimiter(5, time.Minute)
	ctx := context.Background()

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d, _ := l.Allow(ctx, "k"); d.Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	if allowed.Load() != 5 {
		t.Errorf("expected exactly 5 allowed, got %d", allowed.Load())
	}
}

func newRedisLimiter(t *testing.T, limit int, window time.Duration) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedis(client, limit, window), mr
}

func TestRedis_AllowsUpToLimit(t *testing.T) {
	l, mr := newRedisLimiter(t, 5, 15*time.Minute)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		d, err := l.Allow(ctx, "login:1.2.3.4")
		if err != nil {
			t.Fatalf("Allow failed: %v", err)
		}
		if !d.Allowed || d.Remaining != 5-i {
			t.Fatalf("request %d: unexpected decision %+v", i, d)
		}
	}

	d, err := l.Allow(ctx, "login:1.2.3.4")
	if err != nil {
		t.Fatal(err)
	}
	if d.Allowed {
		t.Fatal("sixth request should be rejected")
	}

	if ttl := mr.TTL(keyPrefix + "login:1.2.3.4"); ttl <= 0 || ttl > 15*time.Minute {
		t.Errorf("expected TTL within the window, got %v", ttl)
	}
}

func TestRedis_WindowResets(t *testing.T) {
	l, mr := newRedisLimiter(t, 1, time.Minute)
	ctx := context.Background()

	l.Allow(ctx, "k")
	if d, _ := l.Allow(ctx, "k"); d.Allowed {
		t.Fatal("second request should be rejected")
	}

	mr.FastForward(time.Minute)

	d, err := l.Allow(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if !d.Allowed {
		t.Fatal("request after window expiry should be allowed")
	}
}

func TestRedis_WindowNotExtended(t *testing.T) {
	l, mr := newRedisLimiter(t, 5, time.Minute)
	ctx := context.Background()

	first, err := l.Allow(ctx, "contact:1.2.3.4")
	if err != nil {
		t.Fatal(err)
	}
	if ttl := mr.TTL(keyPrefix + "contact:1.2.3.4"); ttl != time.Minute {
		t.Fatalf("first hit should set a full window, got %v", ttl)
	}

	mr.FastForward(20 * time.Second)

	second, err := l.Allow(ctx, "contact:1.2.3.4")
	if err != nil {
		t.Fatal(err)
	}
	if ttl := mr.TTL(keyPrefix + "contact:1.2.3.4"); ttl != 40*time.Second {
		t.Errorf("later hits must not extend the window, got TTL %v", ttl)
	}
	if second.Remaining != first.Remaining-1 {
		t.Errorf("expected remaining to drop by one, got %d then %d", first.Remaining, second.Remaining)
	}
}

func TestRedis_BackendError(t *testing.T) {
	l, mr := newRedisLimiter(t, 5, time.Minute)
	mr.Close()

	_, err := l.Allow(context.Background(), "k")
	if !errors.Is(err, ErrBackend) {
		t.Errorf("expected ErrBackend, got %v", err)
	}
}
