// Package scheduler runs periodic jobs on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"csei-backend/internal/infrastructure/cache"
	"csei-backend/internal/infrastructure/observability"
	"csei-backend/internal/usecase/balance"

	"github.com/robfig/cron/v3"
)

const DefaultSweepSchedule = "@every 15m"

type Sweeper interface {
	Run(ctx context.Context) (balance.SweepReport, error)
}

// Locker keeps replicas from sweeping at the same time.
type Locker interface {
	TryLock(ctx context.Context) (func(context.Context) error, error)
}

type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	lock    Locker
	timeout time.Duration
	log     *slog.Logger
}

// New builds a scheduler. lock may be nil for a single replica.
func New(sweeper Sweeper, lock Locker, timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = 20 * time.Minute
	}
	return &Scheduler{
		cron:    cron.New(),
		sweeper: sweeper,
		lock:    lock,
		timeout: timeout,
		log:     observability.Logger.With("component", "scheduler"),
	}
}

func (s *Scheduler) Start(spec string) error {
	if spec == "" {
		spec = DefaultSweepSchedule
	}
	if _, err := s.cron.AddFunc(spec, func() {
		s.log.Info("running balance sweep")
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if _, err := s.SweepOnce(ctx); err != nil && !errors.Is(err, cache.ErrLockHeld) {
			s.log.Error("balance sweep", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule balance sweep %q: %w", spec, err)
	}
	s.cron.Start()
	s.log.Info("scheduler started", "balance_sweep", spec)
	return nil
}

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	s.log.Info("scheduler stopped")
}

// SweepOnce runs the balance sweep under the lock. It returns
// cache.ErrLockHeld when another replica is already sweeping.
func (s *Scheduler) SweepOnce(ctx context.Context) (balance.SweepReport, error) {
	if s.lock != nil {
		unlock, err := s.lock.TryLock(ctx)
		if errors.Is(err, cache.ErrLockHeld) {
			s.log.InfoContext(ctx, "balance sweep skipped, lock held elsewhere")
			return balance.SweepReport{}, err
		}
		if err != nil {
			return balance.SweepReport{}, fmt.Errorf("acquire sweep lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				s.log.WarnContext(ctx, "release sweep lock", "error", err)
			}
		}()
	}
	return s.sweeper.Run(ctx)
}
