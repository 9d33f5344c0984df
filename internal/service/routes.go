package service

import (
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/api"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/auth"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/billing"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/middleware"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/recurring"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/rpc"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/storage"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/telemetry"
)

// WebhookPath is where the payment provider posts subscription events.
const WebhookPath = "/webhooks/billing"

func NewAuthServiceHandler(s *AuthService, opts ...connect.HandlerOption) (string, http.Handler) {
	svc := rpc.NewService(api.AuthServiceName, opts...)
	rpc.Unary(svc, "Register", s.Register)
	rpc.Unary(svc, "Login", s.Login)
	rpc.Unary(svc, "Logout", s.Logout)
	rpc.Unary(svc, "GetCurrentUser", s.GetCurrentUser)
	rpc.Unary(svc, "UpdateProfile", s.UpdateProfile)
	rpc.Unary(svc, "ChangePassword", s.ChangePassword)
	return svc.Handler()
}

func NewTransactionServiceHandler(s *TransactionService, opts ...connect.HandlerOption) (string, http.Handler) {
	svc := rpc.NewService(api.TransactionServiceName, opts...)
	rpc.Unary(svc, "CreateTransaction", s.CreateTransaction)
	rpc.Unary(svc, "GetTransaction", s.GetTransaction)
	rpc.Unary(svc, "ListTransactions", s.ListTransactions)
	rpc.Unary(svc, "UpdateTransaction", s.UpdateTransaction)
	rpc.Unary(svc, "DeleteTransaction", s.DeleteTransaction)
	rpc.Unary(svc, "GetSummary", s.GetSummary)
	rpc.Unary(svc, "GetMonthlyTrend", s.GetMonthlyTrend)
	return svc.Handler()
}

func NewCategoryServiceHandler(s *CategoryService, opts ...connect.HandlerOption) (string, http.Handler) {
	svc := rpc.NewService(api.CategoryServiceName, opts...)
	rpc.Unary(svc, "CreateCategory", s.CreateCategory)
	rpc.Unary(svc, "ListCategories", s.ListCategories)
	rpc.Unary(svc, "UpdateCategory", s.UpdateCategory)
	rpc.Unary(svc, "DeleteCategory", s.DeleteCategory)
	return svc.Handler()
}

func NewDebtServiceHandler(s *DebtService, opts ...connect.HandlerOption) (string, http.Handler) {
	svc := rpc.NewService(api.DebtServiceName, opts...)
	rpc.Unary(svc, "CreateDebt", s.CreateDebt)
	rpc.Unary(svc, "GetDebt", s.GetDebt)
	rpc.Unary(svc, "ListDebts", s.ListDebts)
	rpc.Unary(svc, "UpdateDebt", s.UpdateDebt)
	rpc.Unary(svc, "DeleteDebt", s.DeleteDebt)
	rpc.Unary(svc, "AddPayment", s.AddPayment)
	rpc.Unary(svc, "MarkPaid", s.MarkPaid)
	rpc.Unary(svc, "GetContactBalances", s.GetContactBalances)
	rpc.Unary(svc, "SplitExpense", s.SplitExpense)
	return svc.Handler()
}

func NewContactServiceHandler(s *ContactService, opts ...connect.HandlerOption) (string, http.Handler) {
	svc := rpc.NewService(api.ContactServiceName, opts...)
	rpc.Unary(svc, "CreateContact", s.CreateContact)
	rpc.Unary(svc, "GetContact", s.GetContact)
	rpc.Unary(svc, "ListContacts", s.ListContacts)
	rpc.Unary(svc, "UpdateContact", s.UpdateContact)
	rpc.Unary(svc, "DeleteContact", s.DeleteContact)
	return svc.Handler()
}

func NewReminderServiceHandler(s *ReminderService, opts ...connect.HandlerOption) (string, http.Handler) {
	svc := rpc.NewService(api.ReminderServiceName, opts...)
	rpc.Unary(svc, "CreateReminder", s.CreateReminder)
	rpc.Unary(svc, "ListReminders", s.ListReminders)
	rpc.Unary(svc, "ListDueReminders", s.ListDueReminders)
	rpc.Unary(svc, "UpdateReminder", s.UpdateReminder)
	rpc.Unary(svc, "CompleteReminder", s.CompleteReminder)
	rpc.Unary(svc, "DeleteReminder", s.DeleteReminder)
	return svc.Handler()
}

func NewRecurringServiceHandler(s *RecurringService, opts ...connect.HandlerOption) (string, http.Handler) {
	svc := rpc.NewService(api.RecurringServiceName, opts...)
	rpc.Unary(svc, "CreateRecurring", s.CreateRecurring)
	rpc.Unary(svc, "GetRecurring", s.GetRecurring)
	rpc.Unary(svc, "ListRecurring", s.ListRecurring)
	rpc.Unary(svc, "UpdateRecurring", s.UpdateRecurring)
	rpc.Unary(svc, "SetRecurringActive", s.SetRecurringActive)
	rpc.Unary(svc, "DeleteRecurring", s.DeleteRecurring)
	rpc.Unary(svc, "ExecuteRecurringNow", s.ExecuteRecurringNow)
	rpc.Unary(svc, "PreviewRecurring", s.PreviewRecurring)
	return svc.Handler()
}

func NewBudgetServiceHandler(s *BudgetService, opts ...connect.HandlerOption) (string, http.Handler) {
	svc := rpc.NewService(api.BudgetServiceName, opts...)
	rpc.Unary(svc, "CreateBudget", s.CreateBudget)
	rpc.Unary(svc, "ListBudgets", s.ListBudgets)
	rpc.Unary(svc, "UpdateBudget", s.UpdateBudget)
	rpc.Unary(svc, "DeleteBudget", s.DeleteBudget)
	rpc.Unary(svc, "CreateGoal", s.CreateGoal)
	rpc.Unary(svc, "ListGoals", s.ListGoals)
	rpc.Unary(svc, "ContributeGoal", s.ContributeGoal)
	rpc.Unary(svc, "DeleteGoal", s.DeleteGoal)
	return svc.Handler()
}

func NewBillingServiceHandler(s *BillingService, opts ...connect.HandlerOption) (string, http.Handler) {
	svc := rpc.NewService(api.BillingServiceName, opts...)
	rpc.Unary(svc, "ListPlans", s.ListPlans)
	rpc.Unary(svc, "GetUsage", s.GetUsage)
	rpc.Unary(svc, "CreateCheckout", s.CreateCheckout)
	rpc.Unary(svc, "CancelSubscription", s.CancelSubscription)
	return svc.Handler()
}

func NewCurrencyServiceHandler(s *CurrencyService, opts ...connect.HandlerOption) (string, http.Handler) {
	svc := rpc.NewService(api.CurrencyServiceName, opts...)
	rpc.Unary(svc, "ListCurrencies", s.ListCurrencies)
	return svc.Handler()
}

func NewAdminServiceHandler(s *AdminService, opts ...connect.HandlerOption) (string, http.Handler) {
	svc := rpc.NewService(api.AdminServiceName, opts...)
	rpc.Unary(svc, "ListUsers", s.ListUsers)
	rpc.Unary(svc, "SetUserRole", s.SetUserRole)
	rpc.Unary(svc, "SetUserPlan", s.SetUserPlan)
	rpc.Unary(svc, "SetUserDisabled", s.SetUserDisabled)
	rpc.Unary(svc, "ListAuditLogs", s.ListAuditLogs)
	rpc.Unary(svc, "ListSettings", s.ListSettings)
	rpc.Unary(svc, "UpdateSetting", s.UpdateSetting)
	rpc.Unary(svc, "CreateCurrency", s.CreateCurrency)
	rpc.Unary(svc, "SetDefaultCurrency", s.SetDefaultCurrency)
	rpc.Unary(svc, "DeleteCurrency", s.DeleteCurrency)
	rpc.Unary(svc, "GetStats", s.GetStats)
	return svc.Handler()
}

// AdminPermissions is the permission each AdminService procedure requires.
var AdminPermissions = map[string]auth.Permission{
	api.Procedure(api.AdminServiceName, "ListUsers"):          auth.PermUsersRead,
	api.Procedure(api.AdminServiceName, "GetStats"):           auth.PermUsersRead,
	api.Procedure(api.AdminServiceName, "SetUserRole"):        auth.PermUsersWrite,
	api.Procedure(api.AdminServiceName, "SetUserPlan"):        auth.PermUsersWrite,
	api.Procedure(api.AdminServiceName, "SetUserDisabled"):    auth.PermUsersWrite,
	api.Procedure(api.AdminServiceName, "ListAuditLogs"):      auth.PermAuditRead,
	api.Procedure(api.AdminServiceName, "ListSettings"):       auth.PermSettingsWrite,
	api.Procedure(api.AdminServiceName, "UpdateSetting"):      auth.PermSettingsWrite,
	api.Procedure(api.AdminServiceName, "CreateCurrency"):     auth.PermCurrenciesWrite,
	api.Procedure(api.AdminServiceName, "SetDefaultCurrency"): auth.PermCurrenciesWrite,
	api.Procedure(api.AdminServiceName, "DeleteCurrency"):     auth.PermCurrenciesWrite,
}

// Deps are the collaborators the services are built from. Metrics and
// AuthLimiter are optional.
type Deps struct {
	Store         storage.Store
	Authenticator auth.Authenticator
	JWT           *auth.JWTManager
	Enforcer      *billing.Enforcer
	Executor      *recurring.Executor
	Checkout      billing.CheckoutConfig
	WebhookSecret string
	PremiumPeriod time.Duration
	AuthLimiter   *middleware.PeerLimiter
	Metrics       *telemetry.Metrics
	Location      *time.Location
	Logger        *slog.Logger
}

// Register mounts every Connect service and the billing webhook on mux.
func Register(mux *http.ServeMux, d Deps) {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}

	var outer []connect.Interceptor
	if d.Metrics != nil {
		outer = append(outer, middleware.MetricsInterceptor(d.Metrics))
	}

	// AuthService: Register and Login are public, so auth is optional there
	// and the handlers check for a caller themselves.
	authChain := append([]connect.Interceptor{}, outer...)
	authChain = append(authChain, middleware.LoggingInterceptor(logger))
	if d.AuthLimiter != nil {
		authChain = append(authChain, middleware.RateLimitInterceptor(d.AuthLimiter))
	}
	authChain = append(authChain, middleware.OptionalAuth(d.JWT))

	userChain := append([]connect.Interceptor{}, outer...)
	userChain = append(userChain,
		middleware.RequireAuth(d.JWT),
		middleware.LoggingInterceptor(logger),
		middleware.MaintenanceInterceptor(d.Store, d.Store),
	)
	adminChain := append(append([]connect.Interceptor{}, userChain...),
		middleware.RequirePermission(d.Store, AdminPermissions))

	authOpts := connect.WithInterceptors(authChain...)
	userOpts := connect.WithInterceptors(userChain...)
	adminOpts := connect.WithInterceptors(adminChain...)

	mux.Handle(NewAuthServiceHandler(NewAuthService(d.Authenticator, d.JWT, d.Store, logger), authOpts))
	mux.Handle(NewTransactionServiceHandler(NewTransactionService(d.Store, d.Enforcer, loc, logger), userOpts))
	mux.Handle(NewCategoryServiceHandler(NewCategoryService(d.Store, d.Enforcer, logger), userOpts))
	mux.Handle(NewDebtServiceHandler(NewDebtService(d.Store, d.Enforcer, logger), userOpts))
	mux.Handle(NewContactServiceHandler(NewContactService(d.Store, d.Enforcer, logger), userOpts))
	mux.Handle(NewReminderServiceHandler(NewReminderService(d.Store, d.Enforcer, loc, logger), userOpts))
	mux.Handle(NewRecurringServiceHandler(NewRecurringService(d.Store, d.Enforcer, d.Executor, logger), userOpts))
	mux.Handle(NewBudgetServiceHandler(NewBudgetService(d.Store, d.Enforcer, loc, logger), userOpts))
	mux.Handle(NewBillingServiceHandler(NewBillingService(d.Store, d.Enforcer, d.Checkout, logger), userOpts))
	mux.Handle(NewCurrencyServiceHandler(NewCurrencyService(d.Store, logger), userOpts))
	mux.Handle(NewAdminServiceHandler(NewAdminService(d.Store, logger), adminOpts))

	mux.Handle(WebhookPath, NewBillingWebhookHandler(d.Store, d.WebhookSecret, d.PremiumPeriod, logger))
}
