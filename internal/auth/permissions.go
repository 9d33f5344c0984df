package auth

import (
	"errors"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
)

// ErrPermissionDenied is returned when a role lacks a permission.
var ErrPermissionDenied = errors.New("permission denied")

// Permission names an administrative capability.
type Permission string

const (
	PermUsersRead       Permission = "users:read"
	PermUsersWrite      Permission = "users:write"
	PermAuditRead       Permission = "audit:read"
	PermSettingsWrite   Permission = "settings:write"
	PermCurrenciesWrite Permission = "currencies:write"
)

var rolePermissions = map[models.Role][]Permission{
	models.RoleUser:    nil,
	models.RoleSupport: {PermUsersRead, PermAuditRead},
	models.RoleAdmin: {
		PermUsersRead,
		PermUsersWrite,
		PermAuditRead,
		PermSettingsWrite,
		PermCurrenciesWrite,
	},
}

// Permissions lists what role may do.
func Permissions(role models.Role) []Permission {
	return append([]Permission(nil), rolePermissions[role]...)
}

// Can reports whether role grants perm.
func Can(role models.Role, perm Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// IsStaff reports whether role has any administrative permission.
func IsStaff(role models.Role) bool {
	return len(rolePermissions[role]) > 0
}
