package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
)

const categoryColumns = `id, user_id, parent_id, name, type, color, icon, created_at`

func scanCategory(row scanner) (*models.Category, error) {
	c := &models.Category{}
	var userID, parentID sql.NullString
	if err := row.Scan(&c.ID, &userID, &parentID, &c.Name, &c.Type, &c.Color, &c.Icon, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.UserID = userID.String
	c.ParentID = parentID.String
	return c, nil
}

// CreateCategory stores a user-owned category.
func (s *SQLiteStore) CreateCategory(ctx context.Context, c *models.Category) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt == 0 {
		c.CreatedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (`+categoryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, nullString(c.UserID), nullString(c.ParentID), c.Name, c.Type, c.Color, c.Icon, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// GetCategory returns a system category or one owned by userID.
func (s *SQLiteStore) GetCategory(ctx context.Context, userID, id string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ? AND (user_id IS NULL OR user_id = ?)`,
		id, userID)
	c, err := scanCategory(row)
	if err != nil {
		return nil, notFound(err, "category", id)
	}
	return c, nil
}

// ListCategories returns system categories followed by the user's own.
func (s *SQLiteStore) ListCategories(ctx context.Context, userID string) ([]*models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories
		 WHERE user_id IS NULL OR user_id = ?
		 ORDER BY user_id IS NOT NULL, type, name`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var out []*models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateCategory saves a user-owned category. System categories never match.
func (s *SQLiteStore) UpdateCategory(ctx context.Context, c *models.Category) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET parent_id = ?, name = ?, type = ?, color = ?, icon = ?
		 WHERE id = ? AND user_id = ?`,
		nullString(c.ParentID), c.Name, c.Type, c.Color, c.Icon, c.ID, c.UserID)
	return expectAffected(res, err, "category", c.ID)
}

// DeleteCategory removes a user-owned category and its subcategories.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ? AND user_id = ?", id, userID)
	return expectAffected(res, err, "category", id)
}
