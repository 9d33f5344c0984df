package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
)

const reminderColumns = `id, user_id, title, description, due_at, repeat, anchor_at, debt_id, completed,
	completed_at, notified_at, created_at, updated_at`

func scanReminder(row scanner) (*models.Reminder, error) {
	r := &models.Reminder{}
	var completed int
	var completedAt, notifiedAt sql.NullInt64
	if err := row.Scan(&r.ID, &r.UserID, &r.Title, &r.Description, &r.DueAt, &r.Repeat, &r.AnchorAt, &r.DebtID,
		&completed, &completedAt, &notifiedAt, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.Completed = completed != 0
	r.CompletedAt = intPtr(completedAt)
	r.NotifiedAt = intPtr(notifiedAt)
	return r, nil
}

func (s *SQLiteStore) queryReminders(ctx context.Context, query string, args ...any) ([]*models.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	var out []*models.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CreateReminder(ctx context.Context, r *models.Reminder) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	r.CreatedAt, r.UpdatedAt = now, now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reminders (`+reminderColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.Title, r.Description, r.DueAt, r.Repeat, r.AnchorAt, r.DebtID, boolInt(r.Completed),
		nullInt(r.CompletedAt), nullInt(r.NotifiedAt), r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetReminder(ctx context.Context, userID, id string) (*models.Reminder, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE id = ? AND user_id = ?`, id, userID)
	r, err := scanReminder(row)
	if err != nil {
		return nil, notFound(err, "reminder", id)
	}
	return r, nil
}

// ListReminders returns the user's reminders ordered by due time.
func (s *SQLiteStore) ListReminders(ctx context.Context, userID string, includeCompleted bool) ([]*models.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE user_id = ?`
	if !includeCompleted {
		query += " AND completed = 0"
	}
	return s.queryReminders(ctx, query+" ORDER BY due_at, id", userID)
}

func (s *SQLiteStore) UpdateReminder(ctx context.Context, r *models.Reminder) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE reminders
		SET title = ?, description = ?, due_at = ?, repeat = ?, anchor_at = ?, debt_id = ?, completed = ?,
			completed_at = ?, notified_at = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		r.Title, r.Description, r.DueAt, r.Repeat, r.AnchorAt, r.DebtID, boolInt(r.Completed),
		nullInt(r.CompletedAt), nullInt(r.NotifiedAt), r.UpdatedAt, r.ID, r.UserID)
	return expectAffected(res, err, "reminder", r.ID)
}

func (s *SQLiteStore) DeleteReminder(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM reminders WHERE id = ? AND user_id = ?", id, userID)
	return expectAffected(res, err, "reminder", id)
}

func (s *SQLiteStore) ListDueReminders(ctx context.Context, userID string, now int64) ([]*models.Reminder, error) {
	if userID == "" {
		return s.queryReminders(ctx,
			`SELECT `+reminderColumns+` FROM reminders
			 WHERE completed = 0 AND due_at <= ? AND (notified_at IS NULL OR notified_at < due_at)
			 ORDER BY due_at, id`, now)
	}
	return s.queryReminders(ctx,
		`SELECT `+reminderColumns+` FROM reminders
		 WHERE user_id = ? AND completed = 0 AND due_at <= ?
		 ORDER BY due_at, id`, userID, now)
}
