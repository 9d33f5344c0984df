package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/storage"
)

func scanCurrency(row scanner) (*models.Currency, error) {
	c := &models.Currency{}
	var isDefault int
	if err := row.Scan(&c.Code, &c.Name, &c.Symbol, &isDefault); err != nil {
		return nil, err
	}
	c.IsDefault = isDefault != 0
	return c, nil
}

// ListCurrencies returns every currency, the default first.
func (s *SQLiteStore) ListCurrencies(ctx context.Context) ([]*models.Currency, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, name, symbol, is_default FROM currencies ORDER BY is_default DESC, code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	defer rows.Close()

	var out []*models.Currency
	for rows.Next() {
		c, err := scanCurrency(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan currency: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetCurrency(ctx context.Context, code string) (*models.Currency, error) {
	row := s.db.QueryRowContext(ctx, `SELECT code, name, symbol, is_default FROM currencies WHERE code = ?`, code)
	c, err := scanCurrency(row)
	if err != nil {
		return nil, notFound(err, "currency", code)
	}
	return c, nil
}

// CreateCurrency adds a non-default currency.
func (s *SQLiteStore) CreateCurrency(ctx context.Context, c *models.Currency) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO currencies (code, name, symbol, is_default) VALUES (?, ?, ?, 0)`,
		c.Code, c.Name, c.Symbol)
	if isUniqueViolation(err) {
		return fmt.Errorf("currency %s: %w", c.Code, storage.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to create currency: %w", err)
	}
	c.IsDefault = false
	return nil
}

// SetDefaultCurrency makes code the only default currency.
func (s *SQLiteStore) SetDefaultCurrency(ctx context.Context, code string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM currencies WHERE code = ?`, code).Scan(&exists); err != nil {
		return fmt.Errorf("failed to look up currency: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("currency %s: %w", code, storage.ErrNotFound)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE currencies SET is_default = 0 WHERE is_default = 1`); err != nil {
		return fmt.Errorf("failed to clear default currency: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE currencies SET is_default = 1 WHERE code = ?`, code); err != nil {
		return fmt.Errorf("failed to set default currency: %w", err)
	}
	return tx.Commit()
}

// DeleteCurrency removes a currency. The default currency cannot be removed.
func (s *SQLiteStore) DeleteCurrency(ctx context.Context, code string) error {
	c, err := s.GetCurrency(ctx, code)
	if err != nil {
		return err
	}
	if c.IsDefault {
		return fmt.Errorf("currency %s is the default: %w", code, storage.ErrInUse)
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM currencies WHERE code = ?", code)
	return expectAffected(res, err, "currency", code)
}

func (s *SQLiteStore) CreateAuditLog(ctx context.Context, e *models.AuditLog) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, actor_id, action, entity_type, entity_id, details, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ActorID, e.Action, e.EntityType, e.EntityID, e.Details, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// ListAuditLogs returns audit entries, newest first.
func (s *SQLiteStore) ListAuditLogs(ctx context.Context, f storage.AuditFilter) ([]*models.AuditLog, error) {
	query := `SELECT id, actor_id, action, entity_type, entity_id, details, created_at FROM audit_logs WHERE 1 = 1`
	var args []any
	if f.ActorID != "" {
		query += " AND actor_id = ?"
		args = append(args, f.ActorID)
	}
	if f.Action != "" {
		query += " AND action = ?"
		args = append(args, f.Action)
	}
	if f.EntityType != "" {
		query += " AND entity_type = ?"
		args = append(args, f.EntityType)
	}
	limit, offset := pageBounds(f.Page)
	query += " ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	var out []*models.AuditLog
	for rows.Next() {
		e := &models.AuditLog{}
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.EntityType, &e.EntityID, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetSetting(ctx context.Context, key string) (*models.SystemSetting, error) {
	st := &models.SystemSetting{}
	err := s.db.QueryRowContext(ctx,
		`SELECT key, value, updated_by, updated_at FROM system_settings WHERE key = ?`, key).
		Scan(&st.Key, &st.Value, &st.UpdatedBy, &st.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "setting", key)
	}
	return st, nil
}

func (s *SQLiteStore) ListSettings(ctx context.Context) ([]*models.SystemSetting, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value, updated_by, updated_at FROM system_settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	var out []*models.SystemSetting
	for rows.Next() {
		st := &models.SystemSetting{}
		if err := rows.Scan(&st.Key, &st.Value, &st.UpdatedBy, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// SetSetting inserts or replaces a setting value.
func (s *SQLiteStore) SetSetting(ctx context.Context, st *models.SystemSetting) error {
	if st.UpdatedAt == 0 {
		st.UpdatedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO system_settings (key, value, updated_by, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_by = excluded.updated_by,
			updated_at = excluded.updated_at`,
		st.Key, st.Value, st.UpdatedBy, st.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetStats(ctx context.Context) (*storage.Stats, error) {
	st := &storage.Stats{}
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE plan = ?),
			(SELECT COUNT(*) FROM users WHERE disabled = 1),
			(SELECT COUNT(*) FROM transactions),
			(SELECT COUNT(*) FROM debts WHERE status != ?),
			(SELECT COUNT(*) FROM recurring_transactions WHERE active = 1),
			(SELECT COUNT(*) FROM contacts)`,
		models.PlanPremium, models.DebtPaid,
	).Scan(&st.Users, &st.PremiumUsers, &st.DisabledUsers, &st.Transactions, &st.OpenDebts,
		&st.ActiveRecurring, &st.Contacts)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return st, nil
}
