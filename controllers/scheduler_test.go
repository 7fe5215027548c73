package controllers

import (
	"context"
	"testing"
	"time"

	"coin-market/cache"
)

func newTestScheduler(f *fixture, locker Locker) *Scheduler {
	s := NewScheduler(f.market, f.rankings, locker, 10*time.Millisecond, quietLogger())
	s.now = func() time.Time { return testNow }
	return s
}

func TestSchedulerTick(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedPlayers(f.store)

	s := newTestScheduler(f, cache.NewLocalLocker())
	s.Tick(ctx)
	s.Tick(ctx)

	m, _ := f.store.LoadMarket(ctx)
	if m.LastSlotID != "20251212-1500" {
		t.Errorf("LastSlotID = %q", m.LastSlotID)
	}
	if f.store.advances != 1 {
		t.Errorf("advances = %d, want 1", f.store.advances)
	}
	if f.store.ranking == nil || f.store.ranking.LastUpdatedDate != "2025-12-12" {
		t.Errorf("ranking = %+v, want today's snapshot", f.store.ranking)
	}
}

func TestSchedulerTick_SkipsWhenLockHeld(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	locker := cache.NewLocalLocker()

	release, err := locker.Acquire(ctx, ClockLockKey, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	defer release()

	newTestScheduler(f, locker).Tick(ctx)
	if f.store.market != nil || f.store.ranking != nil {
		t.Error("tick ran while another holder had the clock lock")
	}
}

func TestSchedulerTick_ErrorsAreNotFatal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedPlayers(f.store)
	if _, err := f.market.Snapshot(ctx); err != nil {
		t.Fatal(err)
	}

	f.store.advanceErr = errBoom
	newTestScheduler(f, cache.NewLocalLocker()).Tick(ctx)
	if f.store.ranking == nil {
		t.Error("snapshot should still run when the market write fails")
	}
}

func TestSchedulerStartStop(t *testing.T) {
	f := newFixture(t)
	s := newTestScheduler(f, cache.NewLocalLocker())

	done := make(chan struct{})
	go func() {
		s.Start(context.Background())
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	s.Stop()
	s.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Stop")
	}
}

func TestSchedulerStart_ContextCancel(t *testing.T) {
	f := newFixture(t)
	s := newTestScheduler(f, cache.NewLocalLocker())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
