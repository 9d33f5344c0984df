package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/api"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/storage"
)

var currencyCode = regexp.MustCompile(`^[A-Z]{3}$`)

// CurrencyService implements the CurrencyService RPC interface.
type CurrencyService struct {
	store  storage.Store
	logger *slog.Logger
}

func NewCurrencyService(store storage.Store, logger *slog.Logger) *CurrencyService {
	return &CurrencyService{store: store, logger: logger}
}

func (s *CurrencyService) ListCurrencies(ctx context.Context, req *connect.Request[api.Empty]) (*connect.Response[api.ListCurrenciesResponse], error) {
	currencies, err := s.store.ListCurrencies(ctx)
	if err != nil {
		s.logger.Error("ListCurrencies failed", "error", err)
		return nil, toConnectError(err)
	}
	resp := &api.ListCurrenciesResponse{Currencies: make([]*api.Currency, 0, len(currencies))}
	for _, c := range currencies {
		resp.Currencies = append(resp.Currencies, toAPICurrency(c))
	}
	return connect.NewResponse(resp), nil
}

// AdminService implements the AdminService RPC interface. Access control is
// done by the permission interceptor; every mutation is audited.
type AdminService struct {
	store  storage.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewAdminService(store storage.Store, logger *slog.Logger) *AdminService {
	return &AdminService{store: store, logger: logger, now: time.Now}
}

func (s *AdminService) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	admin, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("ListUsers request received", "admin_id", admin.ID, "search", req.Msg.Search)

	role := models.Role(req.Msg.Role)
	if role != "" && !role.Valid() {
		return nil, toConnectError(invalidf("unknown role %q", req.Msg.Role))
	}
	users, total, err := s.store.ListUsers(ctx, storage.UserFilter{
		Search: strings.TrimSpace(req.Msg.Search),
		Role:   role,
		Page:   storage.Page{Limit: req.Msg.Limit, Offset: req.Msg.Offset},
	})
	if err != nil {
		s.logger.Error("ListUsers failed", "error", err)
		return nil, toConnectError(err)
	}
	resp := &api.ListUsersResponse{Users: make([]*api.User, 0, len(users)), Total: total}
	for _, u := range users {
		resp.Users = append(resp.Users, toAPIUser(u))
	}
	return connect.NewResponse(resp), nil
}

// mutateUser loads a user, applies change and saves it with an audit row.
func (s *AdminService) mutateUser(ctx context.Context, userID, action string, change func(u *models.User) (string, error)) (*connect.Response[api.UserResponse], error) {
	admin, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("Admin user update", "admin_id", admin.ID, "user_id", userID, "action", action)

	if err := requireID("userId", userID); err != nil {
		return nil, toConnectError(err)
	}
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if user.ID == admin.ID && action != "admin.set_plan" {
		return nil, toConnectError(invalidf("admins cannot change their own role or status"))
	}
	details, err := change(user)
	if err != nil {
		return nil, toConnectError(err)
	}
	user.UpdatedAt = s.now().Unix()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		s.logger.Error("Admin user update failed", "user_id", user.ID, "action", action, "error", err)
		return nil, toConnectError(err)
	}
	audit(ctx, s.store, s.logger, admin.ID, action, "user", user.ID, details)
	return connect.NewResponse(&api.UserResponse{User: toAPIUser(user)}), nil
}

func (s *AdminService) SetUserRole(ctx context.Context, req *connect.Request[api.SetUserRoleRequest]) (*connect.Response[api.UserResponse], error) {
	return s.mutateUser(ctx, req.Msg.UserID, "admin.set_role", func(u *models.User) (string, error) {
		role := models.Role(req.Msg.Role)
		if !role.Valid() {
			return "", invalidf("unknown role %q", req.Msg.Role)
		}
		details := fmt.Sprintf("%s -> %s", u.Role, role)
		u.Role = role
		return details, nil
	})
}

// SetUserPlan grants or revokes a plan. ExpiresAt is only kept for premium.
func (s *AdminService) SetUserPlan(ctx context.Context, req *connect.Request[api.SetUserPlanRequest]) (*connect.Response[api.UserResponse], error) {
	return s.mutateUser(ctx, req.Msg.UserID, "admin.set_plan", func(u *models.User) (string, error) {
		plan := models.PlanTier(req.Msg.Plan)
		if !plan.Valid() {
			return "", invalidf("unknown plan %q", req.Msg.Plan)
		}
		u.Plan = plan
		u.PlanExpiresAt = nil
		if plan == models.PlanPremium && req.Msg.ExpiresAt != nil {
			if *req.Msg.ExpiresAt <= s.now().Unix() {
				return "", invalidf("expiresAt must be in the future")
			}
			u.PlanExpiresAt = req.Msg.ExpiresAt
		}
		return string(plan), nil
	})
}

func (s *AdminService) SetUserDisabled(ctx context.Context, req *connect.Request[api.SetUserDisabledRequest]) (*connect.Response[api.UserResponse], error) {
	action := "admin.enable_user"
	if req.Msg.Disabled {
		action = "admin.disable_user"
	}
	return s.mutateUser(ctx, req.Msg.UserID, action, func(u *models.User) (string, error) {
		u.Disabled = req.Msg.Disabled
		return "", nil
	})
}

func (s *AdminService) ListAuditLogs(ctx context.Context, req *connect.Request[api.ListAuditLogsRequest]) (*connect.Response[api.ListAuditLogsResponse], error) {
	logs, err := s.store.ListAuditLogs(ctx, storage.AuditFilter{
		ActorID:    req.Msg.ActorID,
		Action:     req.Msg.Action,
		EntityType: req.Msg.EntityType,
		Page:       storage.Page{Limit: req.Msg.Limit, Offset: req.Msg.Offset},
	})
	if err != nil {
		s.logger.Error("ListAuditLogs failed", "error", err)
		return nil, toConnectError(err)
	}
	resp := &api.ListAuditLogsResponse{Logs: make([]*api.AuditLog, 0, len(logs))}
	for _, e := range logs {
		resp.Logs = append(resp.Logs, toAPIAuditLog(e))
	}
	return connect.NewResponse(resp), nil
}

func (s *AdminService) ListSettings(ctx context.Context, req *connect.Request[api.Empty]) (*connect.Response[api.ListSettingsResponse], error) {
	settings, err := s.store.ListSettings(ctx)
	if err != nil {
		s.logger.Error("ListSettings failed", "error", err)
		return nil, toConnectError(err)
	}
	resp := &api.ListSettingsResponse{Settings: make([]*api.Setting, 0, len(settings))}
	for _, st := range settings {
		resp.Settings = append(resp.Settings, toAPISetting(st))
	}
	return connect.NewResponse(resp), nil
}

// booleanSettings only accept "true" or "false".
var booleanSettings = map[string]bool{
	models.SettingRegistrationEnabled: true,
	models.SettingMaintenanceMode:     true,
}

func (s *AdminService) UpdateSetting(ctx context.Context, req *connect.Request[api.UpdateSettingRequest]) (*connect.Response[api.SettingResponse], error) {
	admin, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	key := strings.TrimSpace(req.Msg.Key)
	value := strings.TrimSpace(req.Msg.Value)
	s.logger.Info("UpdateSetting request received", "admin_id", admin.ID, "key", key, "value", value)

	if key, err = requireName("key", key, 100); err != nil {
		return nil, toConnectError(err)
	}
	if booleanSettings[key] && value != "true" && value != "false" {
		return nil, toConnectError(invalidf("%s must be true or false", key))
	}
	setting := &models.SystemSetting{Key: key, Value: value, UpdatedBy: admin.ID, UpdatedAt: s.now().Unix()}
	if err := s.store.SetSetting(ctx, setting); err != nil {
		s.logger.Error("UpdateSetting failed", "key", key, "error", err)
		return nil, toConnectError(err)
	}
	audit(ctx, s.store, s.logger, admin.ID, "admin.update_setting", "setting", key, value)
	return connect.NewResponse(&api.SettingResponse{Setting: toAPISetting(setting)}), nil
}

func (s *AdminService) CreateCurrency(ctx context.Context, req *connect.Request[api.CurrencyRequest]) (*connect.Response[api.CurrencyResponse], error) {
	admin, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	code := strings.ToUpper(strings.TrimSpace(req.Msg.Code))
	s.logger.Info("CreateCurrency request received", "admin_id", admin.ID, "code", code)

	if !currencyCode.MatchString(code) {
		return nil, toConnectError(invalidf("currency code must be three letters"))
	}
	name, err := requireName("name", req.Msg.Name, 100)
	if err != nil {
		return nil, toConnectError(err)
	}
	currency := &models.Currency{Code: code, Name: name, Symbol: strings.TrimSpace(req.Msg.Symbol)}
	if err := s.store.CreateCurrency(ctx, currency); err != nil {
		s.logger.Warn("CreateCurrency failed", "code", code, "error", err)
		return nil, toConnectError(err)
	}
	audit(ctx, s.store, s.logger, admin.ID, "admin.create_currency", "currency", code, name)
	return connect.NewResponse(&api.CurrencyResponse{Currency: toAPICurrency(currency)}), nil
}

func (s *AdminService) SetDefaultCurrency(ctx context.Context, req *connect.Request[api.CurrencyRequest]) (*connect.Response[api.CurrencyResponse], error) {
	admin, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	code := strings.ToUpper(strings.TrimSpace(req.Msg.Code))
	s.logger.Info("SetDefaultCurrency request received", "admin_id", admin.ID, "code", code)

	if err := s.store.SetDefaultCurrency(ctx, code); err != nil {
		s.logger.Warn("SetDefaultCurrency failed", "code", code, "error", err)
		return nil, toConnectError(err)
	}
	currency, err := s.store.GetCurrency(ctx, code)
	if err != nil {
		return nil, toConnectError(err)
	}
	audit(ctx, s.store, s.logger, admin.ID, "admin.set_default_currency", "currency", code, "")
	return connect.NewResponse(&api.CurrencyResponse{Currency: toAPICurrency(currency)}), nil
}

// DeleteCurrency removes a currency. The default currency cannot be deleted.
func (s *AdminService) DeleteCurrency(ctx context.Context, req *connect.Request[api.CurrencyRequest]) (*connect.Response[api.Empty], error) {
	admin, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	code := strings.ToUpper(strings.TrimSpace(req.Msg.Code))
	s.logger.Info("DeleteCurrency request received", "admin_id", admin.ID, "code", code)

	if err := s.store.DeleteCurrency(ctx, code); err != nil {
		s.logger.Warn("DeleteCurrency failed", "code", code, "error", err)
		return nil, toConnectError(err)
	}
	audit(ctx, s.store, s.logger, admin.ID, "admin.delete_currency", "currency", code, "")
	return connect.NewResponse(&api.Empty{}), nil
}

func (s *AdminService) GetStats(ctx context.Context, req *connect.Request[api.Empty]) (*connect.Response[api.StatsResponse], error) {
	stats, err := s.store.GetStats(ctx)
	if err != nil {
		s.logger.Error("GetStats failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.StatsResponse{
		Users:           stats.Users,
		PremiumUsers:    stats.PremiumUsers,
		DisabledUsers:   stats.DisabledUsers,
		Transactions:    stats.Transactions,
		OpenDebts:       stats.OpenDebts,
		ActiveRecurring: stats.ActiveRecurring,
		Contacts:        stats.Contacts,
	}), nil
}
