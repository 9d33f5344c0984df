package models

import "github.com/shopspring/decimal"

// TransactionType is the direction of a ledger entry.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Valid reports whether t is income or expense.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction is a single ledger entry.
type Transaction struct {
	ID     string
	UserID string
	Type   TransactionType

	// Amount is always positive; Type carries the sign.
	Amount   decimal.Decimal
	Currency string

	Description   string
	CategoryID    string
	SubcategoryID string

	// ContactID optionally links the entry to a counterparty.
	ContactID string

	// RecurringID is set when the entry was spawned by a recurring template.
	RecurringID string

	// Date is when the money moved (Unix seconds).
	Date int64

	CreatedAt int64
	UpdatedAt int64
}

// Category groups transactions. A category with a ParentID is a subcategory.
// Categories with an empty UserID are system categories shared by everyone.
type Category struct {
	ID       string
	UserID   string
	ParentID string
	Name     string
	Type     TransactionType
	Color    string
	Icon     string

	CreatedAt int64
}

// IsSystem reports whether the category is a shared system category.
func (c *Category) IsSystem() bool {
	return c.UserID == ""
}
