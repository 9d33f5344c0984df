package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
)

const recurringColumns = `id, user_id, type, amount, currency, description, category_id, frequency,
	interval, start_date, end_date, next_execution, last_execution, execution_count, active,
	created_at, updated_at`

func scanRecurring(row scanner) (*models.RecurringTransaction, error) {
	rt := &models.RecurringTransaction{}
	var end, last sql.NullInt64
	var active int
	if err := row.Scan(&rt.ID, &rt.UserID, &rt.Type, &rt.Amount, &rt.Currency, &rt.Description,
		&rt.CategoryID, &rt.Frequency, &rt.Interval, &rt.StartDate, &end, &rt.NextExecution,
		&last, &rt.ExecutionCount, &active, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
		return nil, err
	}
	rt.EndDate = intPtr(end)
	rt.LastExecution = intPtr(last)
	rt.Active = active != 0
	return rt, nil
}

func (s *SQLiteStore) queryRecurring(ctx context.Context, query string, args ...any) ([]*models.RecurringTransaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring transactions: %w", err)
	}
	defer rows.Close()

	var out []*models.RecurringTransaction
	for rows.Next() {
		rt, err := scanRecurring(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurring transaction: %w", err)
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func updateRecurring(ctx context.Context, db execer, rt *models.RecurringTransaction) error {
	res, err := db.ExecContext(ctx, `
		UPDATE recurring_transactions
		SET type = ?, amount = ?, currency = ?, description = ?, category_id = ?, frequency = ?,
			interval = ?, start_date = ?, end_date = ?, next_execution = ?, last_execution = ?,
			execution_count = ?, active = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		rt.Type, rt.Amount, rt.Currency, rt.Description, rt.CategoryID, rt.Frequency,
		rt.Interval, rt.StartDate, nullInt(rt.EndDate), rt.NextExecution, nullInt(rt.LastExecution),
		rt.ExecutionCount, boolInt(rt.Active), rt.UpdatedAt, rt.ID, rt.UserID)
	return expectAffected(res, err, "recurring transaction", rt.ID)
}

func (s *SQLiteStore) CreateRecurring(ctx context.Context, rt *models.RecurringTransaction) error {
	if rt.ID == "" {
		rt.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if rt.CreatedAt == 0 {
		rt.CreatedAt = now
	}
	if rt.UpdatedAt == 0 {
		rt.UpdatedAt = now
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO recurring_transactions (`+recurringColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rt.ID, rt.UserID, rt.Type, rt.Amount, rt.Currency, rt.Description, rt.CategoryID,
		rt.Frequency, rt.Interval, rt.StartDate, nullInt(rt.EndDate), rt.NextExecution,
		nullInt(rt.LastExecution), rt.ExecutionCount, boolInt(rt.Active), rt.CreatedAt, rt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create recurring transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetRecurring(ctx context.Context, userID, id string) (*models.RecurringTransaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recurringColumns+` FROM recurring_transactions WHERE id = ? AND user_id = ?`, id, userID)
	rt, err := scanRecurring(row)
	if err != nil {
		return nil, notFound(err, "recurring transaction", id)
	}
	return rt, nil
}

// ListRecurring returns the user's templates, active ones first, by next run.
func (s *SQLiteStore) ListRecurring(ctx context.Context, userID string) ([]*models.RecurringTransaction, error) {
	return s.queryRecurring(ctx,
		`SELECT `+recurringColumns+` FROM recurring_transactions
		 WHERE user_id = ? ORDER BY active DESC, next_execution, id`, userID)
}

func (s *SQLiteStore) UpdateRecurring(ctx context.Context, rt *models.RecurringTransaction) error {
	return updateRecurring(ctx, s.db, rt)
}

// DeleteRecurring removes a template. Transactions it already spawned keep
// their recurring_id.
func (s *SQLiteStore) DeleteRecurring(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM recurring_transactions WHERE id = ? AND user_id = ?", id, userID)
	return expectAffected(res, err, "recurring transaction", id)
}

// ListDueRecurring returns active templates of every user whose next run is at or before now.
func (s *SQLiteStore) ListDueRecurring(ctx context.Context, now int64) ([]*models.RecurringTransaction, error) {
	return s.queryRecurring(ctx,
		`SELECT `+recurringColumns+` FROM recurring_transactions
		 WHERE active = 1 AND next_execution <= ? ORDER BY next_execution, id`, now)
}

func (s *SQLiteStore) RecordRecurringExecution(ctx context.Context, rt *models.RecurringTransaction, txn *models.Transaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertTransaction(ctx, tx, txn); err != nil {
		return err
	}
	if err := updateRecurring(ctx, tx, rt); err != nil {
		return err
	}
	return tx.Commit()
}
