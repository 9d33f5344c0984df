package sqlite

import (
	"context"
	"fmt"
)

// IncrementUsage bumps the counter for resource unless it already reached
// limit. A negative limit means unlimited. It reports whether the counter moved.
func (s *SQLiteStore) IncrementUsage(ctx context.Context, userID, period, resource string, limit int) (bool, error) {
	if limit == 0 {
		return false, nil
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO usage_counters (user_id, period, resource, count) VALUES (?, ?, ?, 1)
		ON CONFLICT(user_id, period, resource) DO UPDATE SET count = count + 1
		WHERE ? < 0 OR count < ?`,
		userID, period, resource, limit, limit)
	if err != nil {
		return false, fmt.Errorf("failed to increment usage: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) DecrementUsage(ctx context.Context, userID, period, resource string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE usage_counters SET count = MAX(count - 1, 0)
		WHERE user_id = ? AND period = ? AND resource = ?`,
		userID, period, resource)
	if err != nil {
		return fmt.Errorf("failed to decrement usage: %w", err)
	}
	return nil
}

// GetUsage returns every counter of the user for period keyed by resource.
func (s *SQLiteStore) GetUsage(ctx context.Context, userID, period string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT resource, count FROM usage_counters WHERE user_id = ? AND period = ?`, userID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to get usage: %w", err)
	}
	defer rows.Close()

	usage := make(map[string]int)
	for rows.Next() {
		var resource string
		var count int
		if err := rows.Scan(&resource, &count); err != nil {
			return nil, fmt.Errorf("failed to scan usage: %w", err)
		}
		usage[resource] = count
	}
	return usage, rows.Err()
}
