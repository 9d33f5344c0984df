package recurring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/billing"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
)

// MaxCatchUp bounds how many missed occurrences of one template are spawned per run.
const MaxCatchUp = 31

// Store is the persistence the executor needs.
type Store interface {
	ListDueRecurring(ctx context.Context, now int64) ([]*models.RecurringTransaction, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// RecordRecurringExecution inserts txn and saves rt in one database transaction.
	RecordRecurringExecution(ctx context.Context, rt *models.RecurringTransaction, txn *models.Transaction) error
}

// Limiter reserves plan usage for spawned transactions.
type Limiter interface {
	Reserve(ctx context.Context, u *models.User, r billing.Resource) error
	Release(ctx context.Context, u *models.User, r billing.Resource) error
}

// Observer receives execution counts; the telemetry package implements it.
type Observer interface {
	RecurringExecuted(n int)
	RecurringSkipped(reason string)
}

// Result summarizes one executor run.
type Result struct {
	Executed    int
	Skipped     int
	Deactivated int
}

// Executor spawns the transactions of due recurring templates.
type Executor struct {
	store    Store
	limiter  Limiter
	observer Observer
	loc      *time.Location
	logger   *slog.Logger
}

// NewExecutor creates an Executor. observer may be nil.
func NewExecutor(store Store, limiter Limiter, observer Observer, loc *time.Location, logger *slog.Logger) *Executor {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{store: store, limiter: limiter, observer: observer, loc: loc, logger: logger}
}

// Location returns the time zone schedules are computed in.
func (e *Executor) Location() *time.Location {
	return e.loc
}

// Run executes every template that is due at now.
func (e *Executor) Run(ctx context.Context, now time.Time) (Result, error) {
	var res Result
	due, err := e.store.ListDueRecurring(ctx, now.Unix())
	if err != nil {
		return res, fmt.Errorf("failed to list due recurring transactions: %w", err)
	}

	var errs []error
	for _, rt := range due {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := e.runOne(ctx, rt, now, &res); err != nil {
			e.logger.Error("Recurring execution failed", "recurring_id", rt.ID, "user_id", rt.UserID, "error", err)
			errs = append(errs, fmt.Errorf("recurring %s: %w", rt.ID, err))
		}
	}

	if e.observer != nil && res.Executed > 0 {
		e.observer.RecurringExecuted(res.Executed)
	}
	return res, errors.Join(errs...)
}

func (e *Executor) runOne(ctx context.Context, rt *models.RecurringTransaction, now time.Time, res *Result) error {
	user, err := e.store.GetUserByID(ctx, rt.UserID)
	if err != nil {
		return fmt.Errorf("failed to get owner: %w", err)
	}
	if user.Disabled {
		res.Skipped++
		e.skip("user_disabled")
		return nil
	}

	for i := 0; i < MaxCatchUp && rt.Active && rt.NextExecution <= now.Unix(); i++ {
		if err := e.limiter.Reserve(ctx, user, billing.ResourceTransactions); err != nil {
			if errors.Is(err, billing.ErrLimitExceeded) {
				e.logger.Warn("Recurring execution skipped, plan limit reached",
					"recurring_id", rt.ID, "user_id", rt.UserID)
				res.Skipped++
				e.skip("plan_limit")
				return nil
			}
			return err
		}

		occurrence := rt.NextExecution
		txn := Spawn(rt, occurrence)
		deactivated := Advance(rt, occurrence, e.loc)

		if err := e.store.RecordRecurringExecution(ctx, rt, txn); err != nil {
			if rerr := e.limiter.Release(ctx, user, billing.ResourceTransactions); rerr != nil {
				e.logger.Warn("Failed to release usage", "user_id", user.ID, "error", rerr)
			}
			return err
		}

		res.Executed++
		if deactivated {
			res.Deactivated++
			e.logger.Info("Recurring transaction finished", "recurring_id", rt.ID)
		}
		e.logger.Debug("Recurring transaction executed",
			"recurring_id", rt.ID,
			"transaction_id", txn.ID,
			"date", time.Unix(occurrence, 0).In(e.loc).Format(time.DateOnly),
		)
	}
	return nil
}

// ExecuteNow spawns one extra entry dated now without moving the schedule.
func (e *Executor) ExecuteNow(ctx context.Context, user *models.User, rt *models.RecurringTransaction, now time.Time) (*models.Transaction, error) {
	if err := e.limiter.Reserve(ctx, user, billing.ResourceTransactions); err != nil {
		return nil, err
	}

	at := now.Unix()
	txn := Spawn(rt, at)
	rt.LastExecution = &at
	rt.UpdatedAt = at

	if err := e.store.RecordRecurringExecution(ctx, rt, txn); err != nil {
		if rerr := e.limiter.Release(ctx, user, billing.ResourceTransactions); rerr != nil {
			e.logger.Warn("Failed to release usage", "user_id", user.ID, "error", rerr)
		}
		return nil, err
	}
	if e.observer != nil {
		e.observer.RecurringExecuted(1)
	}
	return txn, nil
}

func (e *Executor) skip(reason string) {
	if e.observer != nil {
		e.observer.RecurringSkipped(reason)
	}
}
