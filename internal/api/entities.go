package api

import "github.com/shopspring/decimal"

type User struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	DisplayName     string `json:"displayName"`
	Role            string `json:"role"`
	Plan            string `json:"plan"`
	PlanExpiresAt   *int64 `json:"planExpiresAt,omitempty"`
	DefaultCurrency string `json:"defaultCurrency"`
	Disabled        bool   `json:"disabled"`
	CreatedAt       int64  `json:"createdAt"`
}

type Transaction struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Description   string          `json:"description"`
	CategoryID    string          `json:"categoryId,omitempty"`
	SubcategoryID string          `json:"subcategoryId,omitempty"`
	ContactID     string          `json:"contactId,omitempty"`
	RecurringID   string          `json:"recurringId,omitempty"`
	Date          int64           `json:"date"`
	CreatedAt     int64           `json:"createdAt"`
	UpdatedAt     int64           `json:"updatedAt"`
}

type Category struct {
	ID       string `json:"id"`
	ParentID string `json:"parentId,omitempty"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Color    string `json:"color,omitempty"`
	Icon     string `json:"icon,omitempty"`
	System   bool   `json:"system"`
}

type Debt struct {
	ID             string          `json:"id"`
	ContactID      string          `json:"contactId,omitempty"`
	Direction      string          `json:"direction"`
	Description    string          `json:"description"`
	OriginalAmount decimal.Decimal `json:"originalAmount"`
	CurrentAmount  decimal.Decimal `json:"currentAmount"`
	Currency       string          `json:"currency"`
	DueDate        *int64          `json:"dueDate,omitempty"`
	Status         string          `json:"status"`
	CreatedAt      int64           `json:"createdAt"`
	UpdatedAt      int64           `json:"updatedAt"`
}

type DebtPayment struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note,omitempty"`
	PaidAt int64           `json:"paidAt"`
}

type Contact struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

type ContactBalance struct {
	ContactID string          `json:"contactId"`
	Currency  string          `json:"currency"`
	OwedToMe  decimal.Decimal `json:"owedToMe"`
	IOwe      decimal.Decimal `json:"iOwe"`
	Net       decimal.Decimal `json:"net"`
	OpenDebts int             `json:"openDebts"`
}

type Reminder struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueAt       int64  `json:"dueAt"`
	Repeat      string `json:"repeat,omitempty"`
	DebtID      string `json:"debtId,omitempty"`
	Completed   bool   `json:"completed"`
	CompletedAt *int64 `json:"completedAt,omitempty"`
	NotifiedAt  *int64 `json:"notifiedAt,omitempty"`
}

type RecurringTransaction struct {
	ID             string          `json:"id"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Description    string          `json:"description"`
	CategoryID     string          `json:"categoryId,omitempty"`
	Frequency      string          `json:"frequency"`
	Interval       int             `json:"interval"`
	StartDate      int64           `json:"startDate"`
	EndDate        *int64          `json:"endDate,omitempty"`
	NextExecution  int64           `json:"nextExecution"`
	LastExecution  *int64          `json:"lastExecution,omitempty"`
	ExecutionCount int             `json:"executionCount"`
	Active         bool            `json:"active"`
}

type BudgetProgress struct {
	PeriodStart int64           `json:"periodStart"`
	PeriodEnd   int64           `json:"periodEnd"`
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	Percent     decimal.Decimal `json:"percent"`
	Exceeded    bool            `json:"exceeded"`
}

type Budget struct {
	ID         string          `json:"id"`
	CategoryID string          `json:"categoryId,omitempty"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Period     string          `json:"period"`
	Progress   *BudgetProgress `json:"progress,omitempty"`
}

type Goal struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      *int64          `json:"deadline,omitempty"`
	Status        string          `json:"status"`
	Progress      decimal.Decimal `json:"progress"`
}

type Currency struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	IsDefault bool   `json:"isDefault"`
}

type AuditLog struct {
	ID         string `json:"id"`
	ActorID    string `json:"actorId"`
	Action     string `json:"action"`
	EntityType string `json:"entityType"`
	EntityID   string `json:"entityId,omitempty"`
	Details    string `json:"details,omitempty"`
	CreatedAt  int64  `json:"createdAt"`
}

type Setting struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	UpdatedBy string `json:"updatedBy,omitempty"`
	UpdatedAt int64  `json:"updatedAt"`
}

type Plan struct {
	Tier         string          `json:"tier"`
	Name         string          `json:"name"`
	PriceMonthly decimal.Decimal `json:"priceMonthly"`
	Currency     string          `json:"currency"`
	Limits       map[string]int  `json:"limits"`
	Features     []string        `json:"features,omitempty"`
}

type ResourceUsage struct {
	Resource string `json:"resource"`
	Used     int    `json:"used"`
	Limit    int    `json:"limit"`
}
