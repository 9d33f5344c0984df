// Package billing holds the subscription plan catalog and enforces the
// per-plan monthly limits on how many records a user may create.
package billing

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
)

// Resource is a kind of record counted against a plan limit.
type Resource string

const (
	ResourceTransactions Resource = "transactions"
	ResourceDebts        Resource = "debts"
	ResourceContacts     Resource = "contacts"
	ResourceReminders    Resource = "reminders"
	ResourceRecurring    Resource = "recurring_transactions"
	ResourceCategories   Resource = "categories"
	ResourceBudgets      Resource = "budgets"
	ResourceGoals        Resource = "goals"
)

// Resources lists every limited resource in display order.
var Resources = []Resource{
	ResourceTransactions,
	ResourceDebts,
	ResourceContacts,
	ResourceReminders,
	ResourceRecurring,
	ResourceCategories,
	ResourceBudgets,
	ResourceGoals,
}

// Valid reports whether r is one of Resources.
func (r Resource) Valid() bool {
	for _, known := range Resources {
		if r == known {
			return true
		}
	}
	return false
}

// Unlimited marks a resource without a cap.
const Unlimited = -1

// Limits maps a resource to its monthly cap.
type Limits map[Resource]int

// Plan describes one subscription tier.
type Plan struct {
	Tier         models.PlanTier
	Name         string
	PriceMonthly decimal.Decimal
	Currency     string
	Limits       Limits
	Features     []string
}

// Limit returns the cap for r. Resources missing from the table are unlimited.
func (p *Plan) Limit(r Resource) int {
	if n, ok := p.Limits[r]; ok {
		return n
	}
	return Unlimited
}

// Catalog is the set of plans offered.
type Catalog struct {
	plans map[models.PlanTier]*Plan
}

// DefaultCatalog returns the built-in free and premium plans.
func DefaultCatalog() *Catalog {
	premium := Limits{}
	for _, r := range Resources {
		premium[r] = Unlimited
	}
	return &Catalog{plans: map[models.PlanTier]*Plan{
		models.PlanFree: {
			Tier:         models.PlanFree,
			Name:         "Free",
			PriceMonthly: decimal.Zero,
			Currency:     "USD",
			Limits: Limits{
				ResourceTransactions: 50,
				ResourceDebts:        5,
				ResourceContacts:     10,
				ResourceReminders:    5,
				ResourceRecurring:    3,
				ResourceCategories:   10,
				ResourceBudgets:      3,
				ResourceGoals:        2,
			},
			Features: []string{"Basic reports"},
		},
		models.PlanPremium: {
			Tier:         models.PlanPremium,
			Name:         "Premium",
			PriceMonthly: decimal.RequireFromString("9.99"),
			Currency:     "USD",
			Limits:       premium,
			Features:     []string{"Unlimited records", "Advanced reports", "Priority support"},
		},
	}}
}

// planFile mirrors one [plans.<tier>] table of the plans TOML file.
type planFile struct {
	Name         string         `toml:"name"`
	PriceMonthly string         `toml:"price_monthly"`
	Currency     string         `toml:"currency"`
	Limits       map[string]int `toml:"limits"`
	Features     []string       `toml:"features"`
}

type catalogFile struct {
	Plans map[string]planFile `toml:"plans"`
}

// LoadCatalog reads plan overrides from a TOML file on top of the defaults.
// An empty path returns the defaults.
func LoadCatalog(path string) (*Catalog, error) {
	cat := DefaultCatalog()
	if path == "" {
		return cat, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plans file: %w", err)
	}
	if err := cat.apply(data); err != nil {
		return nil, fmt.Errorf("parsing plans file: %w", err)
	}
	return cat, nil
}

func (c *Catalog) apply(data []byte) error {
	var f catalogFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return err
	}

	for name, pf := range f.Plans {
		tier := models.PlanTier(name)
		if !tier.Valid() {
			return fmt.Errorf("unknown plan tier %q", name)
		}
		plan := c.plans[tier]
		if pf.Name != "" {
			plan.Name = pf.Name
		}
		if pf.PriceMonthly != "" {
			price, err := decimal.NewFromString(pf.PriceMonthly)
			if err != nil {
				return fmt.Errorf("plan %s: invalid price_monthly: %w", name, err)
			}
			plan.PriceMonthly = price
		}
		if pf.Currency != "" {
			plan.Currency = pf.Currency
		}
		if len(pf.Features) > 0 {
			plan.Features = pf.Features
		}
		for res, n := range pf.Limits {
			if !Resource(res).Valid() {
				return fmt.Errorf("plan %s: unknown resource %q", name, res)
			}
			if n < Unlimited {
				return fmt.Errorf("plan %s: limit for %s must be >= -1", name, res)
			}
			plan.Limits[Resource(res)] = n
		}
	}
	return nil
}

// Plan returns the plan for tier, falling back to the free plan.
func (c *Catalog) Plan(tier models.PlanTier) *Plan {
	if p, ok := c.plans[tier]; ok {
		return p
	}
	return c.plans[models.PlanFree]
}

// Plans returns all plans, cheapest first.
func (c *Catalog) Plans() []*Plan {
	out := make([]*Plan, 0, len(c.plans))
	for _, p := range c.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PriceMonthly.LessThan(out[j].PriceMonthly)
	})
	return out
}
