package models

import "time"

// Role is the access level of a user account.
type Role string

const (
	RoleUser    Role = "user"
	RoleSupport Role = "support"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleSupport, RoleAdmin:
		return true
	}
	return false
}

// PlanTier identifies a subscription plan.
type PlanTier string

const (
	PlanFree    PlanTier = "free"
	PlanPremium PlanTier = "premium"
)

// Valid reports whether t is a known plan tier.
func (t PlanTier) Valid() bool {
	return t == PlanFree || t == PlanPremium
}

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique, used for login).
	Email string

	// DisplayName is the user's display name.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// Role controls access to the admin panel.
	Role Role

	// Plan is the subscription tier the user paid for.
	Plan PlanTier

	// PlanExpiresAt is when a premium plan lapses. Nil means it does not expire.
	PlanExpiresAt *int64

	// DefaultCurrency is the ISO code used when a record omits a currency.
	DefaultCurrency string

	// Disabled users cannot log in.
	Disabled bool

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp when the user was last modified.
	UpdatedAt int64
}

// NewUser creates a new User with timestamps set to now.
// The ID is assigned by the store.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		Email:           email,
		DisplayName:     displayName,
		PasswordHash:    passwordHash,
		Role:            RoleUser,
		Plan:            PlanFree,
		DefaultCurrency: "USD",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
