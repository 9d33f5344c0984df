package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/storage"
)

const contactColumns = `id, user_id, name, email, phone, notes, created_at, updated_at`

func scanContact(row scanner) (*models.Contact, error) {
	c := &models.Contact{}
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (s *SQLiteStore) CreateContact(ctx context.Context, c *models.Contact) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	c.CreatedAt, c.UpdatedAt = now, now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (`+contactColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, c.Email, c.Phone, c.Notes, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetContact(ctx context.Context, userID, id string) (*models.Contact, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = ? AND user_id = ?`, id, userID)
	c, err := scanContact(row)
	if err != nil {
		return nil, notFound(err, "contact", id)
	}
	return c, nil
}

// ListContacts returns the user's contacts by name, optionally filtered by a
// search term matched against name, email and phone.
func (s *SQLiteStore) ListContacts(ctx context.Context, userID, search string) ([]*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE user_id = ?`
	args := []any{userID}
	if search != "" {
		p := likePattern(search)
		query += ` AND (name LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\' OR phone LIKE ? ESCAPE '\')`
		args = append(args, p, p, p)
	}
	query += " ORDER BY name COLLATE NOCASE, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var out []*models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateContact(ctx context.Context, c *models.Contact) error {
	c.UpdatedAt = time.Now().Unix()
	res, err := s.db.ExecContext(ctx,
		`UPDATE contacts SET name = ?, email = ?, phone = ?, notes = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		c.Name, c.Email, c.Phone, c.Notes, c.UpdatedAt, c.ID, c.UserID)
	return expectAffected(res, err, "contact", c.ID)
}

// DeleteContact removes a contact. It fails with storage.ErrInUse while the
// contact still has unpaid debts.
func (s *SQLiteStore) DeleteContact(ctx context.Context, userID, id string) error {
	var open int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM debts WHERE user_id = ? AND contact_id = ? AND status != ?`,
		userID, id, models.DebtPaid).Scan(&open)
	if err != nil {
		return fmt.Errorf("failed to count contact debts: %w", err)
	}
	if open > 0 {
		return fmt.Errorf("contact %s has %d open debts: %w", id, open, storage.ErrInUse)
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM contacts WHERE id = ? AND user_id = ?", id, userID)
	return expectAffected(res, err, "contact", id)
}
