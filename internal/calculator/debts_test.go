package calculator

import (
	"errors"
	"testing"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
)

func newTestDebt(amount string, due *int64) *models.Debt {
	debt := &models.Debt{
		Direction:      models.DebtOwedToMe,
		OriginalAmount: d(amount),
		Currency:       "USD",
		DueDate:        due,
	}
	return debt
}

func TestNewDebt(t *testing.T) {
	t.Run("non-positive amount fails", func(t *testing.T) {
		for _, amount := range []string{"0", "-5"} {
			if err := NewDebt(newTestDebt(amount, nil), 100); !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("NewDebt(%s) error = %v, want ErrInvalidAmount", amount, err)
			}
		}
	})

	t.Run("opens with full balance", func(t *testing.T) {
		debt := newTestDebt("50", nil)
		if err := NewDebt(debt, 100); err != nil {
			t.Fatalf("NewDebt failed: %v", err)
		}
		if !debt.CurrentAmount.Equal(d("50")) {
			t.Errorf("CurrentAmount = %s, want 50", debt.CurrentAmount)
		}
		if debt.Status != models.DebtOpen {
			t.Errorf("Status = %s, want open", debt.Status)
		}
	})

	t.Run("past due date starts overdue", func(t *testing.T) {
		due := int64(50)
		debt := newTestDebt("50", &due)
		if err := NewDebt(debt, 100); err != nil {
			t.Fatalf("NewDebt failed: %v", err)
		}
		if debt.Status != models.DebtOverdue {
			t.Errorf("Status = %s, want overdue", debt.Status)
		}
	})
}

func TestApplyPayment(t *testing.T) {
	t.Run("partial then full payment", func(t *testing.T) {
		debt := newTestDebt("100", nil)
		_ = NewDebt(debt, 0)

		if err := ApplyPayment(debt, d("40"), 10); err != nil {
			t.Fatalf("ApplyPayment failed: %v", err)
		}
		if debt.Status != models.DebtPartiallyPaid {
			t.Errorf("Status = %s, want partially_paid", debt.Status)
		}
		if !debt.CurrentAmount.Equal(d("60")) {
			t.Errorf("CurrentAmount = %s, want 60", debt.CurrentAmount)
		}

		if err := ApplyPayment(debt, d("60"), 20); err != nil {
			t.Fatalf("ApplyPayment failed: %v", err)
		}
		if debt.Status != models.DebtPaid {
			t.Errorf("Status = %s, want paid", debt.Status)
		}
		if !debt.CurrentAmount.IsZero() {
			t.Errorf("CurrentAmount = %s, want 0", debt.CurrentAmount)
		}
	})

	t.Run("overpayment rejected", func(t *testing.T) {
		debt := newTestDebt("10", nil)
		_ = NewDebt(debt, 0)
		if err := ApplyPayment(debt, d("10.01"), 10); !errors.Is(err, ErrOverpayment) {
			t.Errorf("error = %v, want ErrOverpayment", err)
		}
		if !debt.CurrentAmount.Equal(d("10")) {
			t.Errorf("balance changed on rejected payment: %s", debt.CurrentAmount)
		}
	})

	t.Run("non-positive payment rejected", func(t *testing.T) {
		debt := newTestDebt("10", nil)
		_ = NewDebt(debt, 0)
		if err := ApplyPayment(debt, d("0"), 10); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("error = %v, want ErrInvalidAmount", err)
		}
	})

	t.Run("partial payment on overdue debt stays overdue", func(t *testing.T) {
		due := int64(5)
		debt := newTestDebt("10", &due)
		_ = NewDebt(debt, 10)
		if err := ApplyPayment(debt, d("3"), 10); err != nil {
			t.Fatalf("ApplyPayment failed: %v", err)
		}
		if debt.Status != models.DebtOverdue {
			t.Errorf("Status = %s, want overdue", debt.Status)
		}
	})
}

func TestMarkPaid(t *testing.T) {
	debt := newTestDebt("75.50", nil)
	_ = NewDebt(debt, 0)
	_ = ApplyPayment(debt, d("25.50"), 1)

	remainder, err := MarkPaid(debt, 2)
	if err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}
	if !remainder.Equal(d("50")) {
		t.Errorf("remainder = %s, want 50", remainder)
	}
	if !debt.CurrentAmount.IsZero() {
		t.Errorf("CurrentAmount = %s, want 0", debt.CurrentAmount)
	}
	if debt.Status != models.DebtPaid {
		t.Errorf("Status = %s, want paid", debt.Status)
	}

	if _, err := MarkPaid(debt, 3); !errors.Is(err, ErrDebtAlreadyPaid) {
		t.Errorf("second MarkPaid error = %v, want ErrDebtAlreadyPaid", err)
	}
}

func TestRefreshStatus(t *testing.T) {
	due := int64(100)
	debt := newTestDebt("10", &due)
	_ = NewDebt(debt, 0)

	if RefreshStatus(debt, 99) {
		t.Error("status should not change before due date")
	}
	if !RefreshStatus(debt, 101) {
		t.Error("status should change after due date")
	}
	if debt.Status != models.DebtOverdue {
		t.Errorf("Status = %s, want overdue", debt.Status)
	}

	debt.Status = models.DebtPaid
	if RefreshStatus(debt, 200) {
		t.Error("paid debts never become overdue")
	}
}
