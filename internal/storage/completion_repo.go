package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type CompletionRepo struct {
	db *sql.DB
}

func NewCompletionRepo(db *sql.DB) *CompletionRepo {
	return &CompletionRepo{db: db}
}

func (r *CompletionRepo) Get(ctx context.Context, habitID int64, date string) (*Completion, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, habit_id, date, completed
		FROM completions
		WHERE habit_id = ? AND date = ?
	`, habitID, date)
	var c Completion
	if err := row.Scan(&c.ID, &c.HabitID, &c.Date, &c.Completed); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("completion get: %w", err)
	}
	return &c, nil
}

// Upsert writes the single logical record for (habit, day), overwriting any
// earlier toggle for the same pair.
func (r *CompletionRepo) Upsert(ctx context.Context, q Queryer, habitID int64, date string, completed bool) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO completions (habit_id, date, completed)
		VALUES (?, ?, ?)
		ON CONFLICT(habit_id, date) DO UPDATE SET completed = excluded.completed
	`, habitID, date, completed)
	if err != nil {
		return fmt.Errorf("completion upsert: %w", err)
	}
	return nil
}

func (r *CompletionRepo) ListAll(ctx context.Context) ([]Completion, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, habit_id, date, completed FROM completions ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("completion list: %w", err)
	}
	defer rows.Close()

	var out []Completion
	for rows.Next() {
		var c Completion
		if err := rows.Scan(&c.ID, &c.HabitID, &c.Date, &c.Completed); err != nil {
			return nil, fmt.Errorf("completion scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CompletionRepo) ListByHabit(ctx context.Context, habitID int64) ([]Completion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, habit_id, date, completed
		FROM completions
		WHERE habit_id = ?
		ORDER BY date
	`, habitID)
	if err != nil {
		return nil, fmt.Errorf("completion list by habit: %w", err)
	}
	defer rows.Close()

	var out []Completion
	for rows.Next() {
		var c Completion
		if err := rows.Scan(&c.ID, &c.HabitID, &c.Date, &c.Completed); err != nil {
			return nil, fmt.Errorf("completion scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CountCompleted counts every completed=true record ever logged.
func (r *CompletionRepo) CountCompleted(ctx context.Context) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM completions WHERE completed = 1`)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("completion count: %w", err)
	}
	return n, nil
}
