// Package balance notifies members when their ledger balance moves.
package balance

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"csei-backend/internal/domain/ledger"
	"csei-backend/internal/domain/member"
	"csei-backend/internal/domain/notify"
	"csei-backend/internal/infrastructure/observability"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultWorkers = 4
	recentLimit    = 3
)

type SweepReport struct {
	MembersChecked    int `json:"membersChecked"`
	NotificationsSent int `json:"notificationsSent"`
	Failures          int `json:"failures"`
}

type Sweeper struct {
	members  member.Repository
	ledger   ledger.Query
	notifier notify.Dispatcher
	workers  int
	log      *slog.Logger
	now      func() time.Time
}

func NewSweeper(members member.Repository, lq ledger.Query, n notify.Dispatcher, workers int) *Sweeper {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Sweeper{
		members:  members,
		ledger:   lq,
		notifier: n,
		workers:  workers,
		log:      observability.Logger.With("usecase", "balance"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type outcome int

const (
	unchanged outcome = iota
	notified
	failed
)

// Run compares every notifiable member's ledger balance with the last
// notified one and emails the difference. A failure for one member is logged
// and counted; it never stops the sweep.
func (s *Sweeper) Run(ctx context.Context) (report SweepReport, err error) {
	ctx, span := observability.StartSpan(ctx, "balance.Sweep")
	start := time.Now()
	defer func() {
		span.SetAttributes(
			attribute.Int("sweep.members_checked", report.MembersChecked),
			attribute.Int("sweep.notifications_sent", report.NotificationsSent),
			attribute.Int("sweep.failures", report.Failures),
		)
		observability.EndSpan(span, err)
		observability.SweepDuration.Observe(time.Since(start).Seconds())
		result := "ok"
		if err != nil {
			result = "error"
		}
		observability.SweepRuns.WithLabelValues(result).Inc()
	}()

	ms, err := s.members.ListNotifiable(ctx)
	if err != nil {
		return report, fmt.Errorf("list members: %w", err)
	}

	var sent, failures atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i := range ms {
		m := ms[i]
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			switch s.checkMember(ctx, m) {
			case notified:
				sent.Add(1)
			case failed:
				failures.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	report = SweepReport{
		MembersChecked:    len(ms),
		NotificationsSent: int(sent.Load()),
		Failures:          int(failures.Load()),
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}
	s.log.InfoContext(ctx, "balance sweep finished",
		"members_checked", report.MembersChecked,
		"notifications_sent", report.NotificationsSent,
		"failures", report.Failures,
	)
	return report, nil
}

func (s *Sweeper) checkMember(ctx context.Context, m member.Member) outcome {
	log := s.log.With("member_id", m.MemberID)

	current, err := s.ledger.ComputeBalance(ctx, m.MemberID)
	if err != nil {
		log.ErrorContext(ctx, "compute balance", "error", err)
		return failed
	}
	current = current.Round(2)
	previous := m.LastNotifiedBalance.Round(2)
	if current.Equal(previous) {
		return unchanged
	}

	recent, err := s.ledger.ListTransactions(ctx, m.MemberID, recentLimit)
	if err != nil {
		// the email still goes out, just without the recent list
		log.WarnContext(ctx, "list recent transactions", "error", err)
		recent = nil
	}

	msg, err := changeMessage(change{
		Name:     m.Name,
		To:       m.Email,
		Previous: previous,
		Current:  current,
		At:       s.now(),
		Recent:   recent,
	})
	if err != nil {
		log.ErrorContext(ctx, "compose balance email", "error", err)
		return failed
	}
	// the cached balance only moves once the email is handed off, so a
	// dropped message is retried on the next sweep
	if !s.notifier.Dispatch(ctx, msg) {
		log.WarnContext(ctx, "balance email not accepted")
		return failed
	}
	if err := s.members.UpdateLastNotifiedBalance(ctx, m.MemberID, current); err != nil {
		log.ErrorContext(ctx, "update last notified balance", "error", err)
		return failed
	}
	return notified
}
