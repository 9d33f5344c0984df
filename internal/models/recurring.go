package models

import "github.com/shopspring/decimal"

// Frequency is the calendar unit a recurring template repeats on.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// RecurringTransaction is a template that periodically spawns a Transaction.
type RecurringTransaction struct {
	ID     string
	UserID string
	Type   TransactionType

	Amount      decimal.Decimal
	Currency    string
	Description string
	CategoryID  string

	Frequency Frequency

	// Interval multiplies the frequency (every 2 weeks, every 3 months).
	Interval int

	// StartDate anchors the schedule; occurrences are computed from it so that
	// month-end dates do not drift.
	StartDate int64
	EndDate   *int64

	// NextExecution is when the next transaction is due.
	NextExecution int64
	LastExecution *int64

	// ExecutionCount is how many scheduled occurrences have been spawned.
	ExecutionCount int

	Active bool

	CreatedAt int64
	UpdatedAt int64
}
