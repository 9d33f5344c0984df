package models

// Reminder is a dated note, optionally repeating and optionally tied to a debt.
type Reminder struct {
	ID          string
	UserID      string
	Title       string
	Description string

	DueAt int64

	// Repeat is empty for one-off reminders.
	Repeat Frequency
	// AnchorAt is the due time repeats are counted from. Zero means DueAt.
	AnchorAt int64

	DebtID string

	Completed   bool
	CompletedAt *int64

	// NotifiedAt is set by the worker once the reminder has come due.
	NotifiedAt *int64

	CreatedAt int64
	UpdatedAt int64
}
