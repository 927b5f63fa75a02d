package middleware

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter_RefillAndRetryAfter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(ctx, 2, 1)
	rl.now = func() time.Time { return clock }

	if ok, _ := rl.Allow("10.0.0.1"); !ok {
		t.Fatal("first request should pass")
	}
	ok, wait := rl.Allow("10.0.0.1")
	if ok {
		t.Fatal("second request should be limited")
	}
	if wait != 500*time.Millisecond {
		t.Errorf("wait = %v, want 500ms", wait)
	}

	clock = clock.Add(500 * time.Millisecond)
	if ok, _ := rl.Allow("10.0.0.1"); !ok {
		t.Error("token should have refilled after 500ms")
	}
}

func TestRateLimiter_SweepDropsIdleBuckets(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(ctx, 1, 1)
	rl.now = func() time.Time { return clock }

	rl.Allow("10.0.0.1")
	clock = clock.Add(bucketIdle + time.Second)
	rl.Allow("10.0.0.2")
	rl.sweep()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.buckets["10.0.0.1"]; ok {
		t.Error("idle bucket survived sweep")
	}
	if _, ok := rl.buckets["10.0.0.2"]; !ok {
		t.Error("fresh bucket was swept")
	}
}
