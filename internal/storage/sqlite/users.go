package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/storage"
)

const userColumns = `id, email, display_name, password_hash, role, plan, plan_expires_at,
	default_currency, disabled, created_at, updated_at`

func scanUser(row scanner) (*models.User, error) {
	user := &models.User{}
	var expires sql.NullInt64
	var disabled int
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHash,
		&user.Role,
		&user.Plan,
		&expires,
		&user.DefaultCurrency,
		&disabled,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	user.PlanExpiresAt = intPtr(expires)
	user.Disabled = disabled != 0
	return user, nil
}

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.DisplayName,
		user.PasswordHash,
		user.Role,
		user.Plan,
		nullInt(user.PlanExpiresAt),
		user.DefaultCurrency,
		boolInt(user.Disabled),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("email %s: %w", user.Email, storage.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by their email address (case-insensitive).
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	user, err := scanUser(row)
	if err != nil {
		return nil, notFound(err, "user", email)
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return user, nil
}

// UpdateUser saves every mutable field of a user.
func (s *SQLiteStore) UpdateUser(ctx context.Context, user *models.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET display_name = ?, password_hash = ?, role = ?, plan = ?, plan_expires_at = ?,
			default_currency = ?, disabled = ?, updated_at = ?
		WHERE id = ?`,
		user.DisplayName,
		user.PasswordHash,
		user.Role,
		user.Plan,
		nullInt(user.PlanExpiresAt),
		user.DefaultCurrency,
		boolInt(user.Disabled),
		user.UpdatedAt,
		user.ID,
	)
	return expectAffected(res, err, "user", user.ID)
}

// ListUsers returns a page of users, newest first, and the total matching count.
func (s *SQLiteStore) ListUsers(ctx context.Context, filter storage.UserFilter) ([]*models.User, int, error) {
	where := "WHERE 1 = 1"
	var args []any
	if filter.Search != "" {
		where += ` AND (email LIKE ? ESCAPE '\' OR display_name LIKE ? ESCAPE '\')`
		p := likePattern(filter.Search)
		args = append(args, p, p)
	}
	if filter.Role != "" {
		where += " AND role = ?"
		args = append(args, filter.Role)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	limit, offset := pageBounds(filter.Page)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users `+where+` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		append(args, limit, offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating users: %w", err)
	}
	return users, total, nil
}

// ListExpiredPremium returns premium users whose plan expired at or before now.
func (s *SQLiteStore) ListExpiredPremium(ctx context.Context, now int64) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE plan = ? AND plan_expires_at IS NOT NULL AND plan_expires_at <= ?`,
		models.PlanPremium, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired plans: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
