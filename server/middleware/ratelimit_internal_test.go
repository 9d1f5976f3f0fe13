package middleware

import (
	"testing"
	"time"
)

func TestLimiterRegistry_BurstThenRefill(t *testing.T) {
	now := time.Unix(1700000000, 0)
	r := newLimiterRegistry(2, func() time.Time { return now })

	for i := 0; i < 2; i++ {
		if _, ok := r.allow("a"); !ok {
			t.Fatalf("request %d should pass", i+1)
		}
	}
	wait, ok := r.allow("a")
	if ok {
		t.Fatal("third request in the burst should be limited")
	}
	if wait < 29*time.Second || wait > 31*time.Second {
		t.Errorf("wait = %v, want about 30s", wait)
	}
	if _, ok := r.allow("b"); !ok {
		t.Fatal("keys are limited independently")
	}

	now = now.Add(31 * time.Second)
	if _, ok := r.allow("a"); !ok {
		t.Fatal("one token should have refilled after 31s")
	}
	if _, ok := r.allow("a"); ok {
		t.Fatal("only one token should have refilled")
	}
}

func TestLimiterRegistry_RejectedRequestsDoNotConsume(t *testing.T) {
	now := time.Unix(1700000000, 0)
	r := newLimiterRegistry(1, func() time.Time { return now })

	r.allow("a")
	for i := 0; i < 5; i++ {
		r.allow("a")
	}
	now = now.Add(61 * time.Second)
	if _, ok := r.allow("a"); !ok {
		t.Fatal("rejected requests must not push the refill further out")
	}
}

func TestLimiterRegistry_SweepDropsIdleKeys(t *testing.T) {
	now := time.Unix(1700000000, 0)
	r := newLimiterRegistry(1, func() time.Time { return now })
	r.allow("idle")
	r.allow("busy")

	now = now.Add(2 * time.Minute)
	r.allow("busy")
	r.sweep(now)
	if _, ok := r.limiters["idle"]; ok {
		t.Error("expected idle key to be swept")
	}
	if _, ok := r.limiters["busy"]; !ok {
		t.Error("recently used key should stay")
	}
}
