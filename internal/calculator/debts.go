package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
)

var (
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrOverpayment     = errors.New("payment exceeds the outstanding amount")
	ErrDebtAlreadyPaid = errors.New("debt is already paid")
)

// ValidateAmount checks that a money amount is strictly positive.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// NewDebt initializes status and balances for a freshly created debt.
func NewDebt(d *models.Debt, now int64) error {
	if err := ValidateAmount(d.OriginalAmount); err != nil {
		return err
	}
	d.CurrentAmount = d.OriginalAmount
	d.Status = models.DebtOpen
	RefreshStatus(d, now)
	return nil
}

// ApplyPayment reduces the outstanding amount of a debt.
func ApplyPayment(d *models.Debt, amount decimal.Decimal, now int64) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if d.Status == models.DebtPaid {
		return ErrDebtAlreadyPaid
	}
	if amount.GreaterThan(d.CurrentAmount) {
		return fmt.Errorf("%w: outstanding %s", ErrOverpayment, d.CurrentAmount.StringFixed(2))
	}

	d.CurrentAmount = d.CurrentAmount.Sub(amount)
	d.UpdatedAt = now
	if d.CurrentAmount.IsZero() {
		d.Status = models.DebtPaid
		return nil
	}
	d.Status = models.DebtPartiallyPaid
	RefreshStatus(d, now)
	return nil
}

// MarkPaid settles a debt in full and returns the amount that was outstanding.
func MarkPaid(d *models.Debt, now int64) (decimal.Decimal, error) {
	if d.Status == models.DebtPaid {
		return decimal.Zero, ErrDebtAlreadyPaid
	}
	remainder := d.CurrentAmount
	d.CurrentAmount = decimal.Zero
	d.Status = models.DebtPaid
	d.UpdatedAt = now
	return remainder, nil
}

// RefreshStatus recomputes the status of an unpaid debt from its due date and
// payments. It reports whether the status changed.
func RefreshStatus(d *models.Debt, now int64) bool {
	if d.Status == models.DebtPaid {
		return false
	}
	want := models.DebtOpen
	if d.CurrentAmount.LessThan(d.OriginalAmount) {
		want = models.DebtPartiallyPaid
	}
	if d.DueDate != nil && *d.DueDate < now {
		want = models.DebtOverdue
	}
	if d.Status == want {
		return false
	}
	d.Status = want
	return true
}
