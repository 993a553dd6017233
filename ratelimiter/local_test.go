package ratelimiter

import (
	"context"
	"testing"
	"time"
)

func TestTokenBucket_TryConsume(t *testing.T) {
	tb := NewTokenBucket(10, 10, time.Minute)

	if !tb.TryConsume(5) {
		t.Error("expected to consume 5 of 10 tokens")
	}
	if !tb.TryConsume(5) {
		t.Error("expected to consume remaining 5 tokens")
	}
	if tb.TryConsume(1) {
		t.Error("expected empty bucket to refuse consumption")
	}
}

func TestTokenBucket_Refill(t *testing.T) {
	tb := NewTokenBucket(10, 10, 50*time.Millisecond)

	if !tb.TryConsume(10) {
		t.Fatal("initial consume failed")
	}
	if tb.TryConsume(1) {
		t.Fatal("bucket should be empty")
	}

	time.Sleep(60 * time.Millisecond)

	if !tb.TryConsume(10) {
		t.Error("expected a full refill after the interval elapsed")
	}
}

func TestRateLimiter_RequestBudget(t *testing.T) {
	// Plenty of tokens but only two requests per interval.
	rl := &RateLimiter{
		TokensBucket:   NewTokenBucket(1000, 1000, time.Minute),
		RequestsBucket: NewTokenBucket(2, 2, time.Minute),
	}

	if !rl.TryConsume(10) {
		t.Error("first request should pass")
	}
	if !rl.TryConsume(10) {
		t.Error("second request should pass")
	}
	if rl.TryConsume(10) {
		t.Error("third request should be refused by the request budget")
	}
}

func TestRateLimiter_TimeUntilAvailable(t *testing.T) {
	rl := New(100, 10)

	if wait := rl.TimeUntilAvailable(50); wait != 0 {
		t.Errorf("expected zero wait with a full bucket, got %v", wait)
	}

	rl.TryConsume(100)

	if wait := rl.TimeUntilAvailable(50); wait <= 0 {
		t.Errorf("expected a positive wait after draining, got %v", wait)
	}
}

func TestRateLimiter_WaitAndConsume_MaxWaitExceeded(t *testing.T) {
	rl := New(100, 10)
	rl.TryConsume(100)

	err := rl.WaitAndConsume(context.Background(), 100, time.Millisecond)
	if err == nil {
		t.Error("expected an error when the wait exceeds maxWait")
	}
}

func TestRateLimiter_WaitAndConsume_ContextCancelled(t *testing.T) {
	rl := New(100, 10)
	rl.TryConsume(100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := rl.WaitAndConsume(ctx, 100, 0)
	if err == nil {
		t.Error("expected context cancellation error")
	}
}
