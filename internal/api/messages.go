package api

import "github.com/shopspring/decimal"

// AuthService

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CurrentUserResponse struct {
	User        *User    `json:"user"`
	Permissions []string `json:"permissions,omitempty"`
}

type UpdateProfileRequest struct {
	DisplayName     string `json:"displayName,omitempty"`
	DefaultCurrency string `json:"defaultCurrency,omitempty"`
}

type UserResponse struct {
	User *User `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Shared

type IDRequest struct {
	ID string `json:"id"`
}

// TransactionService

type CreateTransactionRequest struct {
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency,omitempty"`
	Description   string          `json:"description,omitempty"`
	CategoryID    string          `json:"categoryId,omitempty"`
	SubcategoryID string          `json:"subcategoryId,omitempty"`
	ContactID     string          `json:"contactId,omitempty"`
	Date          int64           `json:"date,omitempty"`
}

type UpdateTransactionRequest struct {
	ID            string           `json:"id"`
	Type          *string          `json:"type,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Currency      *string          `json:"currency,omitempty"`
	Description   *string          `json:"description,omitempty"`
	CategoryID    *string          `json:"categoryId,omitempty"`
	SubcategoryID *string          `json:"subcategoryId,omitempty"`
	ContactID     *string          `json:"contactId,omitempty"`
	Date          *int64           `json:"date,omitempty"`
}

type TransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type ListTransactionsRequest struct {
	Type        string `json:"type,omitempty"`
	CategoryID  string `json:"categoryId,omitempty"`
	ContactID   string `json:"contactId,omitempty"`
	RecurringID string `json:"recurringId,omitempty"`
	From        int64  `json:"from,omitempty"`
	To          int64  `json:"to,omitempty"`
	Search      string `json:"search,omitempty"`
	Page
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

type GetSummaryRequest struct {
	From int64 `json:"from,omitempty"`
	To   int64 `json:"to,omitempty"`
}

type CategoryTotal struct {
	CategoryID string          `json:"categoryId"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
}

type GetSummaryResponse struct {
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	Net        decimal.Decimal `json:"net"`
	Count      int             `json:"count"`
	ByCategory []CategoryTotal `json:"byCategory"`
}

type GetMonthlyTrendRequest struct {
	Year int `json:"year"`
}

type MonthTotal struct {
	Month   int             `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

type GetMonthlyTrendResponse struct {
	Year   int          `json:"year"`
	Months []MonthTotal `json:"months"`
}

// CategoryService

type CreateCategoryRequest struct {
	ParentID string `json:"parentId,omitempty"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Color    string `json:"color,omitempty"`
	Icon     string `json:"icon,omitempty"`
}

type UpdateCategoryRequest struct {
	ID    string  `json:"id"`
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
	Icon  *string `json:"icon,omitempty"`
}

type CategoryResponse struct {
	Category *Category `json:"category"`
}

type ListCategoriesResponse struct {
	Categories []*Category `json:"categories"`
}

// DebtService

type CreateDebtRequest struct {
	ContactID   string          `json:"contactId,omitempty"`
	Direction   string          `json:"direction"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency,omitempty"`
	DueDate     *int64          `json:"dueDate,omitempty"`
}

type UpdateDebtRequest struct {
	ID           string  `json:"id"`
	ContactID    *string `json:"contactId,omitempty"`
	Description  *string `json:"description,omitempty"`
	DueDate      *int64  `json:"dueDate,omitempty"`
	ClearDueDate bool    `json:"clearDueDate,omitempty"`
}

type DebtResponse struct {
	Debt     *Debt          `json:"debt"`
	Payments []*DebtPayment `json:"payments,omitempty"`
}

type ListDebtsRequest struct {
	Status    string `json:"status,omitempty"`
	Direction string `json:"direction,omitempty"`
	ContactID string `json:"contactId,omitempty"`
	Page
}

type ListDebtsResponse struct {
	Debts []*Debt `json:"debts"`
}

type AddPaymentRequest struct {
	DebtID string          `json:"debtId"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note,omitempty"`
	// RecordTransaction also books the payment as income or expense.
	RecordTransaction bool `json:"recordTransaction,omitempty"`
}

type MarkPaidRequest struct {
	DebtID            string `json:"debtId"`
	RecordTransaction bool   `json:"recordTransaction,omitempty"`
}

type ContactBalancesResponse struct {
	Balances []ContactBalance `json:"balances"`
}

type SplitItem struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	AssignedTo  []string        `json:"assignedTo"`
}

// SplitExpenseRequest splits a shared bill. Participants are contact ids plus
// the literal "me" for the user's own share.
type SplitExpenseRequest struct {
	Description  string          `json:"description"`
	Total        decimal.Decimal `json:"total"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Currency     string          `json:"currency,omitempty"`
	Participants []string        `json:"participants"`
	Items        []SplitItem     `json:"items,omitempty"`
	CategoryID   string          `json:"categoryId,omitempty"`
	DueDate      *int64          `json:"dueDate,omitempty"`
}

type Share struct {
	Participant string          `json:"participant"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
	DebtID      string          `json:"debtId,omitempty"`
}

type SplitExpenseResponse struct {
	Transaction *Transaction `json:"transaction"`
	Shares      []Share      `json:"shares"`
}

// ContactService

type ContactRequest struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
}

type ContactResponse struct {
	Contact  *Contact         `json:"contact"`
	Balances []ContactBalance `json:"balances,omitempty"`
}

type ListContactsRequest struct {
	Search string `json:"search,omitempty"`
}

type ListContactsResponse struct {
	Contacts []*Contact `json:"contacts"`
}

// ReminderService

type CreateReminderRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueAt       int64  `json:"dueAt"`
	Repeat      string `json:"repeat,omitempty"`
	DebtID      string `json:"debtId,omitempty"`
}

type UpdateReminderRequest struct {
	ID          string  `json:"id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueAt       *int64  `json:"dueAt,omitempty"`
	Repeat      *string `json:"repeat,omitempty"`
}

type ReminderResponse struct {
	Reminder *Reminder `json:"reminder"`
}

type ListRemindersRequest struct {
	IncludeCompleted bool `json:"includeCompleted,omitempty"`
}

type ListRemindersResponse struct {
	Reminders []*Reminder `json:"reminders"`
}

// RecurringService

type CreateRecurringRequest struct {
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency,omitempty"`
	Description string          `json:"description,omitempty"`
	CategoryID  string          `json:"categoryId,omitempty"`
	Frequency   string          `json:"frequency"`
	Interval    int             `json:"interval,omitempty"`
	StartDate   int64           `json:"startDate,omitempty"`
	EndDate     *int64          `json:"endDate,omitempty"`
}

type UpdateRecurringRequest struct {
	ID          string           `json:"id"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Currency    *string          `json:"currency,omitempty"`
	Description *string          `json:"description,omitempty"`
	CategoryID  *string          `json:"categoryId,omitempty"`
	// Changing frequency, interval or start date restarts the schedule at
	// StartDate, or at the next pending execution when StartDate is unset.
	Frequency    *string `json:"frequency,omitempty"`
	Interval     *int    `json:"interval,omitempty"`
	StartDate    *int64  `json:"startDate,omitempty"`
	EndDate      *int64  `json:"endDate,omitempty"`
	ClearEndDate bool    `json:"clearEndDate,omitempty"`
}

type RecurringResponse struct {
	Recurring *RecurringTransaction `json:"recurring"`
}

type ListRecurringResponse struct {
	Recurring []*RecurringTransaction `json:"recurring"`
}

type SetRecurringActiveRequest struct {
	ID     string `json:"id"`
	Active bool   `json:"active"`
}

type ExecuteRecurringResponse struct {
	Transaction *Transaction          `json:"transaction"`
	Recurring   *RecurringTransaction `json:"recurring"`
}

type PreviewRecurringRequest struct {
	ID    string `json:"id"`
	Count int    `json:"count,omitempty"`
}

type PreviewRecurringResponse struct {
	Dates []int64 `json:"dates"`
}

// BudgetService

type CreateBudgetRequest struct {
	CategoryID string          `json:"categoryId,omitempty"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Period     string          `json:"period"`
}

type UpdateBudgetRequest struct {
	ID         string           `json:"id"`
	CategoryID *string          `json:"categoryId,omitempty"`
	Name       *string          `json:"name,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Period     *string          `json:"period,omitempty"`
}

type BudgetResponse struct {
	Budget *Budget `json:"budget"`
}

type ListBudgetsResponse struct {
	Budgets []*Budget `json:"budgets"`
}

type CreateGoalRequest struct {
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	Deadline     *int64          `json:"deadline,omitempty"`
}

type GoalResponse struct {
	Goal *Goal `json:"goal"`
}

type ListGoalsResponse struct {
	Goals []*Goal `json:"goals"`
}

type ContributeGoalRequest struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
}

// BillingService

type ListPlansResponse struct {
	Plans []*Plan `json:"plans"`
}

type GetUsageResponse struct {
	Tier          string          `json:"tier"`
	Period        string          `json:"period"`
	PlanExpiresAt *int64          `json:"planExpiresAt,omitempty"`
	Resources     []ResourceUsage `json:"resources"`
}

type CreateCheckoutRequest struct {
	Plan string `json:"plan"`
}

type CreateCheckoutResponse struct {
	URL string `json:"url"`
}

// BillingWebhook is the body of POST /webhooks/billing.
type BillingWebhook struct {
	UserID string `json:"user_id"`
	Event  string `json:"event"`
}

// CurrencyService

type ListCurrenciesResponse struct {
	Currencies []*Currency `json:"currencies"`
}

// AdminService

type ListUsersRequest struct {
	Search string `json:"search,omitempty"`
	Role   string `json:"role,omitempty"`
	Page
}

type ListUsersResponse struct {
	Users []*User `json:"users"`
	Total int     `json:"total"`
}

type SetUserRoleRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

type SetUserPlanRequest struct {
	UserID    string `json:"userId"`
	Plan      string `json:"plan"`
	ExpiresAt *int64 `json:"expiresAt,omitempty"`
}

type SetUserDisabledRequest struct {
	UserID   string `json:"userId"`
	Disabled bool   `json:"disabled"`
}

type ListAuditLogsRequest struct {
	ActorID    string `json:"actorId,omitempty"`
	Action     string `json:"action,omitempty"`
	EntityType string `json:"entityType,omitempty"`
	Page
}

type ListAuditLogsResponse struct {
	Logs []*AuditLog `json:"logs"`
}

type ListSettingsResponse struct {
	Settings []*Setting `json:"settings"`
}

type UpdateSettingRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type SettingResponse struct {
	Setting *Setting `json:"setting"`
}

type CurrencyRequest struct {
	Code   string `json:"code"`
	Name   string `json:"name,omitempty"`
	Symbol string `json:"symbol,omitempty"`
}

type CurrencyResponse struct {
	Currency *Currency `json:"currency"`
}

type StatsResponse struct {
	Users           int `json:"users"`
	PremiumUsers    int `json:"premiumUsers"`
	DisabledUsers   int `json:"disabledUsers"`
	Transactions    int `json:"transactions"`
	OpenDebts       int `json:"openDebts"`
	ActiveRecurring int `json:"activeRecurring"`
	Contacts        int `json:"contacts"`
}
