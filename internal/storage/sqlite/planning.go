package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
)

const (
	budgetColumns = `id, user_id, category_id, name, amount, period, created_at, updated_at`
	goalColumns   = `id, user_id, name, target_amount, current_amount, deadline, status, created_at, updated_at`
)

func scanBudget(row scanner) (*models.Budget, error) {
	b := &models.Budget{}
	err := row.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Name, &b.Amount, &b.Period, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func scanGoal(row scanner) (*models.Goal, error) {
	g := &models.Goal{}
	var deadline sql.NullInt64
	if err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &deadline,
		&g.Status, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	g.Deadline = intPtr(deadline)
	return g, nil
}

func (s *SQLiteStore) CreateBudget(ctx context.Context, b *models.Budget) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	b.CreatedAt, b.UpdatedAt = now, now
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (`+budgetColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.CategoryID, b.Name, b.Amount, b.Period, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetBudget(ctx context.Context, userID, id string) (*models.Budget, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	b, err := scanBudget(row)
	if err != nil {
		return nil, notFound(err, "budget", id)
	}
	return b, nil
}

func (s *SQLiteStore) ListBudgets(ctx context.Context, userID string) ([]*models.Budget, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = ? ORDER BY name, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var out []*models.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateBudget(ctx context.Context, b *models.Budget) error {
	b.UpdatedAt = time.Now().Unix()
	res, err := s.db.ExecContext(ctx,
		`UPDATE budgets SET category_id = ?, name = ?, amount = ?, period = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		b.CategoryID, b.Name, b.Amount, b.Period, b.UpdatedAt, b.ID, b.UserID)
	return expectAffected(res, err, "budget", b.ID)
}

func (s *SQLiteStore) DeleteBudget(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM budgets WHERE id = ? AND user_id = ?", id, userID)
	return expectAffected(res, err, "budget", id)
}

func (s *SQLiteStore) CreateGoal(ctx context.Context, g *models.Goal) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	g.CreatedAt, g.UpdatedAt = now, now
	if g.Status == "" {
		g.Status = models.GoalActive
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO goals (`+goalColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Name, g.TargetAmount, g.CurrentAmount, nullInt(g.Deadline),
		g.Status, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetGoal(ctx context.Context, userID, id string) (*models.Goal, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	g, err := scanGoal(row)
	if err != nil {
		return nil, notFound(err, "goal", id)
	}
	return g, nil
}

func (s *SQLiteStore) ListGoals(ctx context.Context, userID string) ([]*models.Goal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = ?
		 ORDER BY status, deadline IS NULL, deadline, name`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var out []*models.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateGoal(ctx context.Context, g *models.Goal) error {
	if g.UpdatedAt == 0 {
		g.UpdatedAt = time.Now().Unix()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE goals SET name = ?, target_amount = ?, current_amount = ?, deadline = ?, status = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		g.Name, g.TargetAmount, g.CurrentAmount, nullInt(g.Deadline), g.Status, g.UpdatedAt, g.ID, g.UserID)
	return expectAffected(res, err, "goal", g.ID)
}

func (s *SQLiteStore) DeleteGoal(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM goals WHERE id = ? AND user_id = ?", id, userID)
	return expectAffected(res, err, "goal", id)
}
