package models

import "github.com/shopspring/decimal"

// BudgetPeriod is the window a budget amount applies to.
type BudgetPeriod string

const (
	BudgetWeekly  BudgetPeriod = "weekly"
	BudgetMonthly BudgetPeriod = "monthly"
	BudgetYearly  BudgetPeriod = "yearly"
)

// Valid reports whether p is a known period.
func (p BudgetPeriod) Valid() bool {
	switch p {
	case BudgetWeekly, BudgetMonthly, BudgetYearly:
		return true
	}
	return false
}

// Budget caps expense spending in a category per period.
type Budget struct {
	ID         string
	UserID     string
	CategoryID string
	Name       string
	Amount     decimal.Decimal
	Period     BudgetPeriod

	CreatedAt int64
	UpdatedAt int64
}

// GoalStatus is the lifecycle state of a savings goal.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
)

// Goal is a savings target.
type Goal struct {
	ID            string
	UserID        string
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      *int64
	Status        GoalStatus

	CreatedAt int64
	UpdatedAt int64
}
