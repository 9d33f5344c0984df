package calculator

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
)

// CategoryTotal is the expense total for one category.
type CategoryTotal struct {
	CategoryID string
	Total      decimal.Decimal
	Count      int
}

// Summary aggregates income and expenses over a date range.
type Summary struct {
	Income     decimal.Decimal
	Expense    decimal.Decimal
	Net        decimal.Decimal
	Count      int
	ByCategory []CategoryTotal // Expenses only, largest first
}

// Summarize totals transactions whose Date falls in [from, to).
// A zero bound is open.
func Summarize(txns []*models.Transaction, from, to int64) Summary {
	var s Summary
	byCategory := make(map[string]*CategoryTotal)

	for _, t := range txns {
		if from != 0 && t.Date < from {
			continue
		}
		if to != 0 && t.Date >= to {
			continue
		}
		s.Count++
		switch t.Type {
		case models.TransactionIncome:
			s.Income = s.Income.Add(t.Amount)
		case models.TransactionExpense:
			s.Expense = s.Expense.Add(t.Amount)
			ct, ok := byCategory[t.CategoryID]
			if !ok {
				ct = &CategoryTotal{CategoryID: t.CategoryID}
				byCategory[t.CategoryID] = ct
			}
			ct.Total = ct.Total.Add(t.Amount)
			ct.Count++
		}
	}
	s.Net = s.Income.Sub(s.Expense)

	for _, ct := range byCategory {
		s.ByCategory = append(s.ByCategory, *ct)
	}
	sort.Slice(s.ByCategory, func(i, j int) bool {
		if c := s.ByCategory[i].Total.Cmp(s.ByCategory[j].Total); c != 0 {
			return c > 0
		}
		return s.ByCategory[i].CategoryID < s.ByCategory[j].CategoryID
	})
	return s
}

// MonthTotal is the income and expense of one calendar month.
type MonthTotal struct {
	Month   time.Month
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// MonthlyTrend buckets transactions of the given year by month in loc.
func MonthlyTrend(txns []*models.Transaction, year int, loc *time.Location) []MonthTotal {
	months := make([]MonthTotal, 12)
	for i := range months {
		months[i].Month = time.Month(i + 1)
	}
	for _, t := range txns {
		d := time.Unix(t.Date, 0).In(loc)
		if d.Year() != year {
			continue
		}
		m := &months[d.Month()-1]
		switch t.Type {
		case models.TransactionIncome:
			m.Income = m.Income.Add(t.Amount)
		case models.TransactionExpense:
			m.Expense = m.Expense.Add(t.Amount)
		}
	}
	return months
}
