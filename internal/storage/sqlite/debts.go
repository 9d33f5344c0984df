package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/storage"
)

const debtColumns = `id, user_id, contact_id, direction, description, original_amount,
	current_amount, currency, due_date, status, created_at, updated_at`

func scanDebt(row scanner) (*models.Debt, error) {
	d := &models.Debt{}
	var due sql.NullInt64
	if err := row.Scan(&d.ID, &d.UserID, &d.ContactID, &d.Direction, &d.Description,
		&d.OriginalAmount, &d.CurrentAmount, &d.Currency, &due, &d.Status,
		&d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.DueDate = intPtr(due)
	return d, nil
}

func insertDebt(ctx context.Context, db execer, d *models.Debt) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedAt == 0 {
		d.CreatedAt = time.Now().Unix()
	}
	if d.UpdatedAt == 0 {
		d.UpdatedAt = d.CreatedAt
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO debts (`+debtColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.UserID, d.ContactID, d.Direction, d.Description, d.OriginalAmount,
		d.CurrentAmount, d.Currency, nullInt(d.DueDate), d.Status, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create debt: %w", err)
	}
	return nil
}

func updateDebt(ctx context.Context, db execer, d *models.Debt) error {
	res, err := db.ExecContext(ctx, `
		UPDATE debts
		SET contact_id = ?, direction = ?, description = ?, original_amount = ?, current_amount = ?,
			currency = ?, due_date = ?, status = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		d.ContactID, d.Direction, d.Description, d.OriginalAmount, d.CurrentAmount,
		d.Currency, nullInt(d.DueDate), d.Status, d.UpdatedAt, d.ID, d.UserID)
	return expectAffected(res, err, "debt", d.ID)
}

// CreateDebt stores a debt as given. Status and balances are set by the caller.
func (s *SQLiteStore) CreateDebt(ctx context.Context, d *models.Debt) error {
	return insertDebt(ctx, s.db, d)
}

func (s *SQLiteStore) GetDebt(ctx context.Context, userID, id string) (*models.Debt, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE id = ? AND user_id = ?`, id, userID)
	d, err := scanDebt(row)
	if err != nil {
		return nil, notFound(err, "debt", id)
	}
	return d, nil
}

// ListDebts returns the user's debts, soonest due first. Debts without a due
// date sort last.
func (s *SQLiteStore) ListDebts(ctx context.Context, userID string, f storage.DebtFilter) ([]*models.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts WHERE user_id = ?`
	args := []any{userID}
	if f.Status != "" {
		query += " AND status = ?"
		args = append(args, f.Status)
	}
	if f.Direction != "" {
		query += " AND direction = ?"
		args = append(args, f.Direction)
	}
	if f.ContactID != "" {
		query += " AND contact_id = ?"
		args = append(args, f.ContactID)
	}
	limit, offset := pageBounds(f.Page)
	query += " ORDER BY due_date IS NULL, due_date, created_at DESC, id LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	defer rows.Close()

	var out []*models.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateDebt(ctx context.Context, d *models.Debt) error {
	return updateDebt(ctx, s.db, d)
}

// DeleteDebt removes a debt and, through the foreign key, its payments.
func (s *SQLiteStore) DeleteDebt(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM debts WHERE id = ? AND user_id = ?", id, userID)
	return expectAffected(res, err, "debt", id)
}

// AddDebtPayment records payment, the resulting debt balance and the optional
// ledger entry atomically.
func (s *SQLiteStore) AddDebtPayment(ctx context.Context, d *models.Debt, p *models.DebtPayment, txn *models.Transaction) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.DebtID = d.ID
	if p.PaidAt == 0 {
		p.PaidAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := updateDebt(ctx, tx, d); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO debt_payments (id, debt_id, amount, note, paid_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.DebtID, p.Amount, p.Note, p.PaidAt)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	if txn != nil {
		if err := insertTransaction(ctx, tx, txn); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CreateSplitExpense stores a shared expense and the debts of its shares atomically.
func (s *SQLiteStore) CreateSplitExpense(ctx context.Context, txn *models.Transaction, debts []*models.Debt) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertTransaction(ctx, tx, txn); err != nil {
		return err
	}
	for _, d := range debts {
		if err := insertDebt(ctx, tx, d); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListDebtPayments returns a debt's payments in the order they were made.
func (s *SQLiteStore) ListDebtPayments(ctx context.Context, debtID string) ([]*models.DebtPayment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, debt_id, amount, note, paid_at FROM debt_payments WHERE debt_id = ? ORDER BY paid_at, id`,
		debtID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var out []*models.DebtPayment
	for rows.Next() {
		p := &models.DebtPayment{}
		if err := rows.Scan(&p.ID, &p.DebtID, &p.Amount, &p.Note, &p.PaidAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkOverdueDebts moves open and partially paid debts whose due date has
// passed into the overdue state.
func (s *SQLiteStore) MarkOverdueDebts(ctx context.Context, now int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE debts SET status = ?, updated_at = ?
		WHERE status IN (?, ?) AND due_date IS NOT NULL AND due_date < ?`,
		models.DebtOverdue, now, models.DebtOpen, models.DebtPartiallyPaid, now)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue debts: %w", err)
	}
	return res.RowsAffected()
}
