package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/auth"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/billing"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/middleware"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/storage"
)

// caller loads the authenticated user from the request context.
func caller(ctx context.Context, users middleware.UserLookup) (*models.User, error) {
	if u := middleware.GetUser(ctx); u != nil {
		return u, nil
	}
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, auth.ErrMissingToken
	}
	user, err := users.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, auth.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if user.Disabled {
		return nil, auth.ErrAccountDisabled
	}
	return user, nil
}

// reserved takes one unit of r for user, runs create and releases the unit
// when create fails.
func reserved(ctx context.Context, enforcer *billing.Enforcer, logger *slog.Logger, user *models.User, r billing.Resource, create func() error) error {
	return reservedAll(ctx, enforcer, logger, user, []billing.Resource{r}, create)
}

// reservedAll takes one unit of every entry in rs before running create. A
// failed reservation or a failed create releases every unit already taken.
func reservedAll(ctx context.Context, enforcer *billing.Enforcer, logger *slog.Logger, user *models.User, rs []billing.Resource, create func() error) error {
	release := func(taken []billing.Resource) {
		for _, r := range taken {
			if err := enforcer.Release(ctx, user, r); err != nil {
				logger.Warn("Failed to release usage", "user_id", user.ID, "resource", r, "error", err)
			}
		}
	}
	for i, r := range rs {
		if err := enforcer.Reserve(ctx, user, r); err != nil {
			release(rs[:i])
			return err
		}
	}
	if err := create(); err != nil {
		release(rs)
		return err
	}
	return nil
}

// audit writes an audit log row. Failures are logged, never returned.
func audit(ctx context.Context, store storage.AdminStore, logger *slog.Logger, actorID, action, entityType, entityID, details string) {
	entry := &models.AuditLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		CreatedAt:  time.Now().Unix(),
	}
	if err := store.CreateAuditLog(ctx, entry); err != nil {
		logger.Warn("Failed to write audit log", "action", action, "entity_id", entityID, "error", err)
	}
}

// resolveCurrency upper-cases code, falls back to the user's default and
// checks the currency exists.
func resolveCurrency(ctx context.Context, store storage.AdminStore, user *models.User, code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = user.DefaultCurrency
	}
	if _, err := store.GetCurrency(ctx, code); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", invalidf("unknown currency %q", code)
		}
		return "", err
	}
	return code, nil
}

func requireID(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalidf("%s is required", field)
	}
	return nil
}

func requireName(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalidf("%s is required", field)
	}
	if len(value) > max {
		return "", invalidf("%s must be at most %d characters", field, max)
	}
	return value, nil
}
