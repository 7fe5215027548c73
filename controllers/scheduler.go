// controllers/scheduler.go
package controllers

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"coin-market/cache"
)

// ClockLockKey names the lease that lets one replica run the clock at a time.
const ClockLockKey = "market-clock"

const clockLockTTL = 30 * time.Second

// Scheduler drives the market clock and the daily ranking snapshot.
type Scheduler struct {
	market   *MarketController
	rankings *RankingController
	locker   Locker
	interval time.Duration
	now      func() time.Time
	log      *slog.Logger

	stopOnce sync.Once
	stopChan chan struct{}
}

func NewScheduler(market *MarketController, rankings *RankingController, locker Locker, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		market:   market,
		rankings: rankings,
		locker:   locker,
		interval: interval,
		now:      time.Now,
		log:      logger,
		stopChan: make(chan struct{}),
	}
}

// Start ticks until ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("scheduler started", slog.Duration("interval", s.interval))
	s.Tick(ctx)
	for {
		select {
		case <-ticker.C:
			s.Tick(ctx)
		case <-s.stopChan:
			s.log.Info("scheduler stopped")
			return
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		}
	}
}

// Stop ends Start. Calling it more than once is a no-op.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

// Tick runs one pass under the clock lock. Errors are logged, never fatal.
func (s *Scheduler) Tick(ctx context.Context) {
	release, err := s.locker.Acquire(ctx, ClockLockKey, clockLockTTL)
	if errors.Is(err, cache.ErrLockHeld) {
		return
	}
	if err != nil {
		s.log.Warn("clock lock", slog.String("error", err.Error()))
		return
	}
	defer release()

	now := s.now()
	if _, err := s.market.TryAdvance(ctx, now); err != nil {
		s.log.Error("market advance failed", slog.String("error", err.Error()))
	}
	if _, err := s.rankings.TryDailySnapshot(ctx, now); err != nil {
		s.log.Error("daily snapshot failed", slog.String("error", err.Error()))
	}
}
