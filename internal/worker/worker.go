// Package worker runs the periodic background jobs: recurring transactions,
// overdue debts, due reminders and expired subscriptions.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/recurring"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/telemetry"
)

// Store is the persistence the worker needs.
type Store interface {
	MarkOverdueDebts(ctx context.Context, now int64) (int64, error)
	ListDueReminders(ctx context.Context, userID string, now int64) ([]*models.Reminder, error)
	UpdateReminder(ctx context.Context, r *models.Reminder) error
	ListExpiredPremium(ctx context.Context, now int64) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	CreateAuditLog(ctx context.Context, entry *models.AuditLog) error
}

// Executor spawns due recurring transactions.
type Executor interface {
	Run(ctx context.Context, now time.Time) (recurring.Result, error)
}

// Observer records pass outcomes; *telemetry.Metrics implements it.
type Observer interface {
	WorkerPass(ok bool, overdue, notified, expired int)
}

// Pass summarizes one worker pass.
type Pass struct {
	Recurring recurring.Result
	Overdue   int
	Notified  int
	Expired   int
}

type Worker struct {
	store    Store
	executor Executor
	observer Observer
	loc      *time.Location
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a Worker. observer may be nil.
func New(store Store, executor Executor, observer Observer, loc *time.Location, logger *slog.Logger) *Worker {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		store:    store,
		executor: executor,
		observer: observer,
		loc:      loc,
		logger:   logger.With("component", "worker"),
		now:      time.Now,
	}
}

// Run performs a pass immediately and then every interval until ctx is done.
func (w *Worker) Run(ctx context.Context, every time.Duration) {
	w.logger.Info("Worker started", "interval", every.String())
	w.pass(ctx)

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Worker stopped")
			return
		case <-ticker.C:
			w.pass(ctx)
		}
	}
}

// Start runs the worker in a new goroutine. The returned channel is closed
// once Run has returned after ctx is done.
func (w *Worker) Start(ctx context.Context, every time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx, every)
	}()
	return done
}

func (w *Worker) pass(ctx context.Context) {
	if _, err := w.RunOnce(ctx); err != nil && ctx.Err() == nil {
		w.logger.Error("Worker pass failed", "error", err)
		telemetry.CaptureError(ctx, err, map[string]string{"component": "worker"})
	}
}

// RunOnce performs a single pass. Every step runs even when an earlier one
// fails; the errors are joined.
func (w *Worker) RunOnce(ctx context.Context) (Pass, error) {
	start := w.now()
	var (
		p    Pass
		errs []error
		err  error
	)

	if p.Recurring, err = w.executor.Run(ctx, start); err != nil {
		errs = append(errs, err)
	}
	if p.Overdue, err = w.markOverdue(ctx, start); err != nil {
		errs = append(errs, err)
	}
	if p.Notified, err = w.notifyReminders(ctx, start); err != nil {
		errs = append(errs, err)
	}
	if p.Expired, err = w.expireSubscriptions(ctx, start); err != nil {
		errs = append(errs, err)
	}

	err = errors.Join(errs...)
	if w.observer != nil {
		w.observer.WorkerPass(err == nil, p.Overdue, p.Notified, p.Expired)
	}
	w.logger.Debug("Worker pass completed",
		"executed", p.Recurring.Executed,
		"skipped", p.Recurring.Skipped,
		"overdue", p.Overdue,
		"notified", p.Notified,
		"expired", p.Expired,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return p, err
}

func (w *Worker) markOverdue(ctx context.Context, now time.Time) (int, error) {
	n, err := w.store.MarkOverdueDebts(ctx, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue debts: %w", err)
	}
	if n > 0 {
		w.logger.Info("Debts marked overdue", "count", n)
	}
	return int(n), nil
}

// notifyReminders flags due reminders as notified. Repeating reminders move
// on to their next occurrence so they come due again.
func (w *Worker) notifyReminders(ctx context.Context, now time.Time) (int, error) {
	due, err := w.store.ListDueReminders(ctx, "", now.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to list due reminders: %w", err)
	}

	var (
		notified int
		errs     []error
	)
	for _, r := range due {
		at := now.Unix()
		r.NotifiedAt = &at
		r.UpdatedAt = at
		recurring.RollForward(r, at, w.loc)
		if err := w.store.UpdateReminder(ctx, r); err != nil {
			errs = append(errs, fmt.Errorf("reminder %s: %w", r.ID, err))
			continue
		}
		notified++
		w.logger.Info("Reminder due", "reminder_id", r.ID, "user_id", r.UserID, "title", r.Title)
	}
	return notified, errors.Join(errs...)
}

func (w *Worker) expireSubscriptions(ctx context.Context, now time.Time) (int, error) {
	users, err := w.store.ListExpiredPremium(ctx, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to list expired subscriptions: %w", err)
	}

	var (
		expired int
		errs    []error
	)
	for _, u := range users {
		u.Plan = models.PlanFree
		u.PlanExpiresAt = nil
		u.UpdatedAt = now.Unix()
		if err := w.store.UpdateUser(ctx, u); err != nil {
			errs = append(errs, fmt.Errorf("user %s: %w", u.ID, err))
			continue
		}
		expired++
		entry := &models.AuditLog{
			ActorID:    models.SystemActor,
			Action:     "billing.subscription_expired",
			EntityType: "user",
			EntityID:   u.ID,
			CreatedAt:  now.Unix(),
		}
		if err := w.store.CreateAuditLog(ctx, entry); err != nil {
			w.logger.Warn("Failed to write audit log", "user_id", u.ID, "error", err)
		}
		w.logger.Info("Subscription expired", "user_id", u.ID)
	}
	return expired, errors.Join(errs...)
}
