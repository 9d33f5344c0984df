package calculator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
)

// BudgetProgress is how much of a budget was spent in its current period.
type BudgetProgress struct {
	PeriodStart int64
	PeriodEnd   int64
	Spent       decimal.Decimal
	Remaining   decimal.Decimal
	Percent     decimal.Decimal
	Exceeded    bool
}

// PeriodBounds returns the [start, end) window of the period containing now.
// Weeks start on Monday.
func PeriodBounds(period models.BudgetPeriod, now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	loc := now.Location()
	switch period {
	case models.BudgetWeekly:
		offset := (int(now.Weekday()) + 6) % 7
		start := time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 0, 7)
	case models.BudgetYearly:
		start := time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(1, 0, 0)
	default:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0)
	}
}

// ComputeBudgetProgress sums the expenses that count against b during the period
// containing now. A budget without a category counts every expense.
func ComputeBudgetProgress(b *models.Budget, txns []*models.Transaction, now time.Time) BudgetProgress {
	start, end := PeriodBounds(b.Period, now)
	p := BudgetProgress{PeriodStart: start.Unix(), PeriodEnd: end.Unix()}

	for _, t := range txns {
		if t.Type != models.TransactionExpense {
			continue
		}
		if t.Date < p.PeriodStart || t.Date >= p.PeriodEnd {
			continue
		}
		if b.CategoryID != "" && t.CategoryID != b.CategoryID && t.SubcategoryID != b.CategoryID {
			continue
		}
		p.Spent = p.Spent.Add(t.Amount)
	}

	p.Remaining = b.Amount.Sub(p.Spent)
	p.Exceeded = p.Spent.GreaterThan(b.Amount)
	if b.Amount.IsPositive() {
		p.Percent = p.Spent.Div(b.Amount).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return p
}
