package models

import "github.com/shopspring/decimal"

// DebtDirection says who owes whom.
type DebtDirection string

const (
	// DebtOwedToMe means the contact owes the user.
	DebtOwedToMe DebtDirection = "owed_to_me"
	// DebtIOwe means the user owes the contact.
	DebtIOwe DebtDirection = "i_owe"
)

// Valid reports whether d is a known direction.
func (d DebtDirection) Valid() bool {
	return d == DebtOwedToMe || d == DebtIOwe
}

// DebtStatus is the lifecycle state of a debt.
type DebtStatus string

const (
	DebtOpen          DebtStatus = "open"
	DebtPartiallyPaid DebtStatus = "partially_paid"
	DebtPaid          DebtStatus = "paid"
	DebtOverdue       DebtStatus = "overdue"
)

// Valid reports whether s is a known status.
func (s DebtStatus) Valid() bool {
	switch s {
	case DebtOpen, DebtPartiallyPaid, DebtPaid, DebtOverdue:
		return true
	}
	return false
}

// Debt is a tracked balance owed to or by a counterparty.
type Debt struct {
	ID        string
	UserID    string
	ContactID string
	Direction DebtDirection

	Description string

	// OriginalAmount is the amount at creation; CurrentAmount is what remains.
	OriginalAmount decimal.Decimal
	CurrentAmount  decimal.Decimal
	Currency       string

	// DueDate is optional (Unix seconds).
	DueDate *int64
	Status  DebtStatus

	CreatedAt int64
	UpdatedAt int64
}

// DebtPayment records a (partial) repayment of a debt.
type DebtPayment struct {
	ID     string
	DebtID string
	Amount decimal.Decimal
	Note   string
	PaidAt int64
}
