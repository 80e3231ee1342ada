package server

import (
	"testing"
	"time"
)

func TestLimiterStore_EvictsIdleOwners(t *testing.T) {
	clock := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	s := newLimiterStore(60)
	s.now = func() time.Time { return clock }

	alice := s.get("alice")
	s.get("bob")
	if n := s.size(); n != 2 {
		t.Fatalf("size = %d, want 2", n)
	}

	clock = clock.Add(limiterIdle / 2)
	if got := s.get("alice"); got != alice {
		t.Fatal("active owner got a new limiter")
	}

	clock = clock.Add(limiterIdle/2 + time.Minute)
	s.get("carol")
	if n := s.size(); n != 2 {
		t.Fatalf("size = %d after sweep, want 2 (alice, carol)", n)
	}
	if _, ok := s.limiters["bob"]; ok {
		t.Fatal("idle owner bob was not evicted")
	}
	if got := s.get("alice"); got != alice {
		t.Fatal("alice was evicted while active")
	}
}

func TestLimiterStore_SweepsAtMostOncePerMinute(t *testing.T) {
	clock := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	s := newLimiterStore(60)
	s.now = func() time.Time { return clock }

	s.get("bob")
	clock = clock.Add(limiterIdle + time.Second)
	s.get("alice")
	if _, ok := s.limiters["bob"]; ok {
		t.Fatal("bob survived the first sweep")
	}

	s.get("bob")
	clock = clock.Add(30 * time.Second)
	s.lastSweep = clock.Add(-30 * time.Second)
	s.limiters["bob"].lastSeen = clock.Add(-2 * limiterIdle)
	s.get("alice")
	if _, ok := s.limiters["bob"]; !ok {
		t.Fatal("sweep ran again within a minute")
	}
}
