package middleware

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/auth"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
)

var ErrMaintenance = errors.New("service is under maintenance")

// SettingsReader reads system settings.
type SettingsReader interface {
	GetSetting(ctx context.Context, key string) (*models.SystemSetting, error)
}

// MaintenanceInterceptor refuses calls from non-staff users while the
// maintenance_mode setting is "true". It must run after RequireAuth.
func MaintenanceInterceptor(settings SettingsReader, users UserLookup) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			s, err := settings.GetSetting(ctx, models.SettingMaintenanceMode)
			if err != nil || s.Value != "true" {
				return next(ctx, req)
			}
			if userID := GetUserID(ctx); userID != "" {
				if u, err := users.GetUserByID(ctx, userID); err == nil && auth.IsStaff(u.Role) {
					return next(ctx, req)
				}
			}
			return nil, connect.NewError(connect.CodeUnavailable, ErrMaintenance)
		}
	}
}
