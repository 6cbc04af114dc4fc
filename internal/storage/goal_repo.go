package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type GoalRepo struct {
	db *sql.DB
}

func NewGoalRepo(db *sql.DB) *GoalRepo {
	return &GoalRepo{db: db}
}

type GoalInsert struct {
	Title       string
	Description *string
	Category    string
	Deadline    *string
	Difficulty  int
	XPReward    int
	Priority    bool
	Steps       []GoalStep
}

const goalColumns = `id, title, description, category, deadline, progress, difficulty,
	xp_reward, completed, priority, steps, created_at`

func scanGoal(scan func(dest ...any) error) (*Goal, error) {
	var g Goal
	var steps sql.NullString
	err := scan(&g.ID, &g.Title, &g.Description, &g.Category, &g.Deadline, &g.Progress,
		&g.Difficulty, &g.XPReward, &g.Completed, &g.Priority, &steps, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	if steps.Valid && steps.String != "" {
		if err := json.Unmarshal([]byte(steps.String), &g.Steps); err != nil {
			return nil, fmt.Errorf("goal steps: %w", err)
		}
	}
	return &g, nil
}

func (r *GoalRepo) Get(ctx context.Context, id int64) (*Goal, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = ?`, id)
	g, err := scanGoal(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("goal get: %w", err)
	}
	return g, nil
}

func (r *GoalRepo) ListAll(ctx context.Context) ([]Goal, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+goalColumns+` FROM goals ORDER BY deadline IS NULL, deadline, id`)
	if err != nil {
		return nil, fmt.Errorf("goal list: %w", err)
	}
	defer rows.Close()

	var out []Goal
	for rows.Next() {
		g, err := scanGoal(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("goal scan: %w", err)
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

func (r *GoalRepo) Insert(ctx context.Context, in GoalInsert) (int64, error) {
	steps, err := marshalSteps(in.Steps)
	if err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO goals (title, description, category, deadline, difficulty, xp_reward, priority, steps)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, in.Title, in.Description, in.Category, in.Deadline, in.Difficulty, in.XPReward, in.Priority, steps)
	if err != nil {
		return 0, fmt.Errorf("goal insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("goal last insert id: %w", err)
	}
	return id, nil
}

// Update persists the full mutable state of a goal row. Difficulty and
// xp_reward are frozen at creation and not written here.
func (r *GoalRepo) Update(ctx context.Context, q Queryer, g *Goal) error {
	steps, err := marshalSteps(g.Steps)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, `
		UPDATE goals
		SET title = ?, description = ?, category = ?, deadline = ?, progress = ?,
			completed = ?, priority = ?, steps = ?
		WHERE id = ?
	`, g.Title, g.Description, g.Category, g.Deadline, g.Progress,
		g.Completed, g.Priority, steps, g.ID)
	if err != nil {
		return fmt.Errorf("goal update: %w", err)
	}
	return nil
}

func (r *GoalRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("goal delete: %w", err)
	}
	return nil
}

func marshalSteps(steps []GoalStep) (*string, error) {
	if len(steps) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(steps)
	if err != nil {
		return nil, fmt.Errorf("goal steps: %w", err)
	}
	s := string(b)
	return &s, nil
}
