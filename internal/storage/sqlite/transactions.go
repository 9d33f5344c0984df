package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/storage"
)

const transactionColumns = `id, user_id, type, amount, currency, description, category_id,
	subcategory_id, contact_id, recurring_id, date, created_at, updated_at`

func scanTransaction(row scanner) (*models.Transaction, error) {
	t := &models.Transaction{}
	err := row.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Currency, &t.Description,
		&t.CategoryID, &t.SubcategoryID, &t.ContactID, &t.RecurringID, &t.Date,
		&t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func insertTransaction(ctx context.Context, db execer, t *models.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if t.CreatedAt == 0 {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	if t.Date == 0 {
		t.Date = now
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Type, t.Amount, t.Currency, t.Description, t.CategoryID,
		t.SubcategoryID, t.ContactID, t.RecurringID, t.Date, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// CreateTransaction persists a new ledger entry.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	return insertTransaction(ctx, s.db, t)
}

// GetTransaction retrieves one of the user's transactions.
func (s *SQLiteStore) GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	t, err := scanTransaction(row)
	if err != nil {
		return nil, notFound(err, "transaction", id)
	}
	return t, nil
}

// ListTransactions returns the user's transactions, newest first.
func (s *SQLiteStore) ListTransactions(ctx context.Context, userID string, f storage.TransactionFilter) ([]*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = ?`
	args := []any{userID}

	if f.Type != "" {
		query += " AND type = ?"
		args = append(args, f.Type)
	}
	if f.CategoryID != "" {
		query += " AND (category_id = ? OR subcategory_id = ?)"
		args = append(args, f.CategoryID, f.CategoryID)
	}
	if f.ContactID != "" {
		query += " AND contact_id = ?"
		args = append(args, f.ContactID)
	}
	if f.RecurringID != "" {
		query += " AND recurring_id = ?"
		args = append(args, f.RecurringID)
	}
	if f.From != 0 {
		query += " AND date >= ?"
		args = append(args, f.From)
	}
	if f.To != 0 {
		query += " AND date < ?"
		args = append(args, f.To)
	}
	if f.Search != "" {
		query += ` AND description LIKE ? ESCAPE '\'`
		args = append(args, likePattern(f.Search))
	}

	limit, offset := pageBounds(f.Page)
	query += " ORDER BY date DESC, created_at DESC, id LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var out []*models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return out, nil
}

// UpdateTransaction saves an existing transaction.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	t.UpdatedAt = time.Now().Unix()
	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET type = ?, amount = ?, currency = ?, description = ?, category_id = ?,
			subcategory_id = ?, contact_id = ?, date = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		t.Type, t.Amount, t.Currency, t.Description, t.CategoryID,
		t.SubcategoryID, t.ContactID, t.Date, t.UpdatedAt,
		t.ID, t.UserID,
	)
	return expectAffected(res, err, "transaction", t.ID)
}

// DeleteTransaction removes one of the user's transactions.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ? AND user_id = ?", id, userID)
	return expectAffected(res, err, "transaction", id)
}
