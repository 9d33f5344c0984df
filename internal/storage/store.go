// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist or belongs to another user.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique key is already taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInUse is returned when a record cannot be deleted because others refer to it.
	ErrInUse = errors.New("record is in use")
)

// Page bounds a list query. A zero Limit means the store default.
type Page struct {
	Limit  int
	Offset int
}

// TransactionFilter narrows ListTransactions.
type TransactionFilter struct {
	Type        models.TransactionType
	CategoryID  string
	ContactID   string
	RecurringID string
	From        int64 // inclusive, 0 = open
	To          int64 // exclusive, 0 = open
	Search      string
	Page
}

// DebtFilter narrows ListDebts.
type DebtFilter struct {
	Status    models.DebtStatus
	Direction models.DebtDirection
	ContactID string
	Page
}

// UserFilter narrows ListUsers.
type UserFilter struct {
	Search string
	Role   models.Role
	Page
}

// AuditFilter narrows ListAuditLogs.
type AuditFilter struct {
	ActorID    string
	Action     string
	EntityType string
	Page
}

// Stats are system-wide counts for the admin dashboard.
type Stats struct {
	Users           int
	PremiumUsers    int
	DisabledUsers   int
	Transactions    int
	OpenDebts       int
	ActiveRecurring int
	Contacts        int
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context, filter UserFilter) ([]*models.User, int, error)
	ListExpiredPremium(ctx context.Context, now int64) ([]*models.User, error)
}

// TransactionStore persists ledger entries.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]*models.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *models.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id string) error
}

// CategoryStore persists categories. Reads include system categories.
type CategoryStore interface {
	CreateCategory(ctx context.Context, cat *models.Category) error
	GetCategory(ctx context.Context, userID, id string) (*models.Category, error)
	ListCategories(ctx context.Context, userID string) ([]*models.Category, error)
	UpdateCategory(ctx context.Context, cat *models.Category) error
	DeleteCategory(ctx context.Context, userID, id string) error
}

// DebtStore persists debts and their payments.
type DebtStore interface {
	CreateDebt(ctx context.Context, debt *models.Debt) error
	GetDebt(ctx context.Context, userID, id string) (*models.Debt, error)
	ListDebts(ctx context.Context, userID string, filter DebtFilter) ([]*models.Debt, error)
	UpdateDebt(ctx context.Context, debt *models.Debt) error
	DeleteDebt(ctx context.Context, userID, id string) error
	// AddDebtPayment inserts payment, saves debt and, when txn is not nil,
	// inserts the matching ledger entry in one database transaction.
	AddDebtPayment(ctx context.Context, debt *models.Debt, payment *models.DebtPayment, txn *models.Transaction) error
	// CreateSplitExpense inserts the expense and every share debt in one
	// database transaction.
	CreateSplitExpense(ctx context.Context, txn *models.Transaction, debts []*models.Debt) error
	ListDebtPayments(ctx context.Context, debtID string) ([]*models.DebtPayment, error)
	// MarkOverdueDebts flags unpaid debts past their due date and returns how many changed.
	MarkOverdueDebts(ctx context.Context, now int64) (int64, error)
}

// ContactStore persists contacts.
type ContactStore interface {
	CreateContact(ctx context.Context, contact *models.Contact) error
	GetContact(ctx context.Context, userID, id string) (*models.Contact, error)
	ListContacts(ctx context.Context, userID, search string) ([]*models.Contact, error)
	UpdateContact(ctx context.Context, contact *models.Contact) error
	DeleteContact(ctx context.Context, userID, id string) error
}

// ReminderStore persists reminders.
type ReminderStore interface {
	CreateReminder(ctx context.Context, r *models.Reminder) error
	GetReminder(ctx context.Context, userID, id string) (*models.Reminder, error)
	ListReminders(ctx context.Context, userID string, includeCompleted bool) ([]*models.Reminder, error)
	UpdateReminder(ctx context.Context, r *models.Reminder) error
	DeleteReminder(ctx context.Context, userID, id string) error
	// ListDueReminders returns open reminders with DueAt <= now. An empty
	// userID lists reminders of every user not notified since they came due.
	ListDueReminders(ctx context.Context, userID string, now int64) ([]*models.Reminder, error)
}

// RecurringStore persists recurring templates.
type RecurringStore interface {
	CreateRecurring(ctx context.Context, rt *models.RecurringTransaction) error
	GetRecurring(ctx context.Context, userID, id string) (*models.RecurringTransaction, error)
	ListRecurring(ctx context.Context, userID string) ([]*models.RecurringTransaction, error)
	UpdateRecurring(ctx context.Context, rt *models.RecurringTransaction) error
	DeleteRecurring(ctx context.Context, userID, id string) error
	ListDueRecurring(ctx context.Context, now int64) ([]*models.RecurringTransaction, error)
	RecordRecurringExecution(ctx context.Context, rt *models.RecurringTransaction, txn *models.Transaction) error
}

// PlanningStore persists budgets and goals.
type PlanningStore interface {
	CreateBudget(ctx context.Context, b *models.Budget) error
	GetBudget(ctx context.Context, userID, id string) (*models.Budget, error)
	ListBudgets(ctx context.Context, userID string) ([]*models.Budget, error)
	UpdateBudget(ctx context.Context, b *models.Budget) error
	DeleteBudget(ctx context.Context, userID, id string) error

	CreateGoal(ctx context.Context, g *models.Goal) error
	GetGoal(ctx context.Context, userID, id string) (*models.Goal, error)
	ListGoals(ctx context.Context, userID string) ([]*models.Goal, error)
	UpdateGoal(ctx context.Context, g *models.Goal) error
	DeleteGoal(ctx context.Context, userID, id string) error
}

// AdminStore persists currencies, audit logs, settings and dashboard stats.
type AdminStore interface {
	ListCurrencies(ctx context.Context) ([]*models.Currency, error)
	GetCurrency(ctx context.Context, code string) (*models.Currency, error)
	CreateCurrency(ctx context.Context, c *models.Currency) error
	SetDefaultCurrency(ctx context.Context, code string) error
	DeleteCurrency(ctx context.Context, code string) error

	CreateAuditLog(ctx context.Context, entry *models.AuditLog) error
	ListAuditLogs(ctx context.Context, filter AuditFilter) ([]*models.AuditLog, error)

	GetSetting(ctx context.Context, key string) (*models.SystemSetting, error)
	ListSettings(ctx context.Context) ([]*models.SystemSetting, error)
	SetSetting(ctx context.Context, setting *models.SystemSetting) error

	GetStats(ctx context.Context) (*Stats, error)
}

// UsageStore persists monthly plan usage counters.
type UsageStore interface {
	IncrementUsage(ctx context.Context, userID, period, resource string, limit int) (bool, error)
	DecrementUsage(ctx context.Context, userID, period, resource string) error
	GetUsage(ctx context.Context, userID, period string) (map[string]int, error)
}

// Store is the full persistence interface used by the services.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	TransactionStore
	CategoryStore
	DebtStore
	ContactStore
	ReminderStore
	RecurringStore
	PlanningStore
	AdminStore
	UsageStore

	// Close releases any resources held by the store.
	Close() error
}
