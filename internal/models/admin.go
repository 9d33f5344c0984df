package models

// Currency is a supported currency. Exactly one currency is the default.
type Currency struct {
	Code      string
	Name      string
	Symbol    string
	IsDefault bool
}

// SystemActor is the audit ActorID of changes no user made, such as
// webhook events and worker jobs.
const SystemActor = "system"

// AuditLog records a security- or admin-relevant action.
type AuditLog struct {
	ID         string
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Details    string
	CreatedAt  int64
}

// SystemSetting is a key/value entry managed from the admin panel.
type SystemSetting struct {
	Key       string
	Value     string
	UpdatedBy string
	UpdatedAt int64
}

// Well-known system setting keys.
const (
	SettingRegistrationEnabled = "registration_enabled"
	SettingMaintenanceMode     = "maintenance_mode"
)

// UsageCounter is the number of records of one kind a user created in a month.
type UsageCounter struct {
	UserID   string
	Period   string
	Resource string
	Count    int
}
