package calculator

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
)

var ErrGoalCompleted = errors.New("goal is already completed")

// Contribute adds money to a savings goal and completes it once the target is reached.
func Contribute(g *models.Goal, amount decimal.Decimal, now int64) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if g.Status == models.GoalCompleted {
		return ErrGoalCompleted
	}
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	if g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) {
		g.Status = models.GoalCompleted
	}
	g.UpdatedAt = now
	return nil
}

// GoalProgress returns the completed fraction of a goal as a percentage, capped at 100.
func GoalProgress(g *models.Goal) decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	pct := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Round(2)
	if pct.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.NewFromInt(100)
	}
	return pct
}
