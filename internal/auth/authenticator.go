package auth

import (
	"context"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
)

// Authenticator verifies account credentials. PasswordAuthenticator is the
// implementation used by the server.
type Authenticator interface {
	// Register creates an account, promoting configured admin emails.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the account for email when credential matches.
	// Disabled accounts fail with ErrAccountDisabled.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ChangeCredential replaces the credential of userID after verifying the current one.
	ChangeCredential(ctx context.Context, userID, current, next string) error

	ValidateCredential(credential string) error
}
