package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/api"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/auth"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/middleware"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/storage"
)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         storage.Store
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store storage.Store, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
		logger:        logger,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.AuthResponse], error) {
	s.logger.Info("Register request received", "email", req.Msg.Email)

	displayName, err := requireName("display name", req.Msg.DisplayName, 100)
	if err != nil {
		return nil, toConnectError(err)
	}

	user, err := s.authenticator.Register(ctx, req.Msg.Email, displayName, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Register failed", "email", req.Msg.Email, "error", err)
		return nil, toConnectError(err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	audit(ctx, s.store, s.logger, user.ID, "auth.register", "user", user.ID, "")
	s.logger.Info("User registered successfully", "user_id", user.ID, "role", user.Role)
	return connect.NewResponse(&api.AuthResponse{User: toAPIUser(user), Token: token}), nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.AuthResponse], error) {
	s.logger.Info("Login request received", "email", req.Msg.Email)

	if req.Msg.Email == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Msg.Email, "error", err)
		if errors.Is(err, auth.ErrAccountDisabled) {
			return nil, connect.NewError(connect.CodePermissionDenied, err)
		}
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, connect.NewError(connect.CodeUnauthenticated, err)
		}
		return nil, toConnectError(err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	audit(ctx, s.store, s.logger, user.ID, "auth.login", "user", user.ID, "")
	s.logger.Info("User logged in successfully", "user_id", user.ID)
	return connect.NewResponse(&api.AuthResponse{User: toAPIUser(user), Token: token}), nil
}

// Logout is a no-op on the server: JWTs are stateless and the client discards
// its token. The event is still audited when the caller is known.
func (s *AuthService) Logout(ctx context.Context, req *connect.Request[api.Empty]) (*connect.Response[api.Empty], error) {
	if userID := middleware.GetUserID(ctx); userID != "" {
		s.logger.Info("Logout request received", "user_id", userID)
		audit(ctx, s.store, s.logger, userID, "auth.logout", "user", userID, "")
	}
	return connect.NewResponse(&api.Empty{}), nil
}

// GetCurrentUser returns the currently authenticated user's information.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[api.Empty]) (*connect.Response[api.CurrentUserResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("GetCurrentUser request received", "user_id", user.ID)

	var perms []string
	for _, p := range auth.Permissions(user.Role) {
		perms = append(perms, string(p))
	}
	return connect.NewResponse(&api.CurrentUserResponse{User: toAPIUser(user), Permissions: perms}), nil
}

// UpdateProfile changes the display name and default currency.
func (s *AuthService) UpdateProfile(ctx context.Context, req *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UserResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("UpdateProfile request received", "user_id", user.ID)

	if strings.TrimSpace(req.Msg.DisplayName) != "" {
		name, err := requireName("display name", req.Msg.DisplayName, 100)
		if err != nil {
			return nil, toConnectError(err)
		}
		user.DisplayName = name
	}
	if req.Msg.DefaultCurrency != "" {
		code, err := resolveCurrency(ctx, s.store, user, req.Msg.DefaultCurrency)
		if err != nil {
			return nil, toConnectError(err)
		}
		user.DefaultCurrency = code
	}
	user.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		s.logger.Error("UpdateProfile failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.UserResponse{User: toAPIUser(user)}), nil
}

// ChangePassword replaces the caller's password.
func (s *AuthService) ChangePassword(ctx context.Context, req *connect.Request[api.ChangePasswordRequest]) (*connect.Response[api.Empty], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("ChangePassword request received", "user_id", user.ID)

	if err := s.authenticator.ChangeCredential(ctx, user.ID, req.Msg.CurrentPassword, req.Msg.NewPassword); err != nil {
		s.logger.Warn("ChangePassword failed", "user_id", user.ID, "error", err)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, connect.NewError(connect.CodePermissionDenied, err)
		}
		return nil, toConnectError(err)
	}

	audit(ctx, s.store, s.logger, user.ID, "auth.change_password", "user", user.ID, "")
	return connect.NewResponse(&api.Empty{}), nil
}
