package models

// Contact is a counterparty the user lends to or borrows from.
type Contact struct {
	ID     string
	UserID string
	Name   string
	Email  string
	Phone  string
	Notes  string

	CreatedAt int64
	UpdatedAt int64
}
