// Package api defines the request and response messages of the FinanceZZ
// Connect services. Messages travel as JSON; money is a decimal string and
// timestamps are unix seconds.
package api

const (
	AuthServiceName        = "financezz.v1.AuthService"
	TransactionServiceName = "financezz.v1.TransactionService"
	CategoryServiceName    = "financezz.v1.CategoryService"
	DebtServiceName        = "financezz.v1.DebtService"
	ContactServiceName     = "financezz.v1.ContactService"
	ReminderServiceName    = "financezz.v1.ReminderService"
	RecurringServiceName   = "financezz.v1.RecurringService"
	BudgetServiceName      = "financezz.v1.BudgetService"
	BillingServiceName     = "financezz.v1.BillingService"
	CurrencyServiceName    = "financezz.v1.CurrencyService"
	AdminServiceName       = "financezz.v1.AdminService"
)

// Procedure returns the Connect procedure path of method on service.
func Procedure(service, method string) string {
	return "/" + service + "/" + method
}

// Page bounds list calls. Zero values use the server defaults.
type Page struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// Empty is used by calls without a payload.
type Empty struct{}
