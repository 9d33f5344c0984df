package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
)

// ErrLimitExceeded is returned when a plan's monthly cap has been reached.
var ErrLimitExceeded = errors.New("plan limit reached")

// UsageStore persists the monthly usage counters.
type UsageStore interface {
	// IncrementUsage adds one to the counter unless it has reached limit.
	// A negative limit means unlimited. It reports whether the increment happened.
	IncrementUsage(ctx context.Context, userID, period, resource string, limit int) (bool, error)
	// DecrementUsage removes one from the counter, never going below zero.
	DecrementUsage(ctx context.Context, userID, period, resource string) error
	// GetUsage returns every counter of a user for a period.
	GetUsage(ctx context.Context, userID, period string) (map[string]int, error)
}

// Period returns the usage period key ("2006-01") for t.
func Period(t time.Time) string {
	return t.Format("2006-01")
}

// EffectiveTier returns the plan that applies to u at now. A premium plan whose
// expiry has passed counts as free.
func EffectiveTier(u *models.User, now time.Time) models.PlanTier {
	if u.Plan != models.PlanPremium {
		return models.PlanFree
	}
	if u.PlanExpiresAt != nil && *u.PlanExpiresAt <= now.Unix() {
		return models.PlanFree
	}
	return models.PlanPremium
}

// Enforcer checks and records plan usage.
type Enforcer struct {
	store   UsageStore
	catalog *Catalog
	loc     *time.Location
	now     func() time.Time
}

// NewEnforcer creates an Enforcer that counts periods in loc.
func NewEnforcer(store UsageStore, catalog *Catalog, loc *time.Location) *Enforcer {
	if loc == nil {
		loc = time.UTC
	}
	return &Enforcer{store: store, catalog: catalog, loc: loc, now: time.Now}
}

// WithClock overrides the time source. Used by tests and the worker.
func (e *Enforcer) WithClock(now func() time.Time) *Enforcer {
	e.now = now
	return e
}

// Catalog returns the plan catalog the enforcer checks against.
func (e *Enforcer) Catalog() *Catalog {
	return e.catalog
}

func (e *Enforcer) period() string {
	return Period(e.now().In(e.loc))
}

// Reserve consumes one unit of r for u, or returns ErrLimitExceeded.
func (e *Enforcer) Reserve(ctx context.Context, u *models.User, r Resource) error {
	plan := e.catalog.Plan(EffectiveTier(u, e.now()))
	limit := plan.Limit(r)
	if limit == 0 {
		return fmt.Errorf("%w: %s plan does not include %s", ErrLimitExceeded, plan.Name, r)
	}

	ok, err := e.store.IncrementUsage(ctx, u.ID, e.period(), string(r), limit)
	if err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %d %s per month on the %s plan", ErrLimitExceeded, limit, r, plan.Name)
	}
	return nil
}

// Release returns a unit reserved by Reserve, e.g. when the create failed.
func (e *Enforcer) Release(ctx context.Context, u *models.User, r Resource) error {
	return e.store.DecrementUsage(ctx, u.ID, e.period(), string(r))
}

// ResourceUsage is the consumption of one resource in the current period.
type ResourceUsage struct {
	Resource Resource
	Used     int
	Limit    int // Unlimited (-1) when there is no cap
}

// UsageReport is a user's consumption for the current period.
type UsageReport struct {
	Tier      models.PlanTier
	Period    string
	Resources []ResourceUsage
}

// Usage reports the current period's counters for u against its plan.
func (e *Enforcer) Usage(ctx context.Context, u *models.User) (*UsageReport, error) {
	tier := EffectiveTier(u, e.now())
	plan := e.catalog.Plan(tier)
	period := e.period()

	counts, err := e.store.GetUsage(ctx, u.ID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to get usage: %w", err)
	}

	report := &UsageReport{Tier: tier, Period: period}
	for _, r := range Resources {
		report.Resources = append(report.Resources, ResourceUsage{
			Resource: r,
			Used:     counts[string(r)],
			Limit:    plan.Limit(r),
		})
	}
	return report, nil
}
