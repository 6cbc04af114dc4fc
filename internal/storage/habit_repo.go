package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type HabitRepo struct {
	db *sql.DB
}

func NewHabitRepo(db *sql.DB) *HabitRepo {
	return &HabitRepo{db: db}
}

type HabitInsert struct {
	Name           string
	Description    *string
	Category       string
	Difficulty     int
	XPReward       int
	DifficultyNote *string
	Priority       bool
	Color          string
	Frequency      string
	FrequencyDays  []int
	CustomInterval *int
}

const habitColumns = `id, name, description, category, difficulty, xp_reward, difficulty_note,
	priority, color, frequency, frequency_days, custom_interval, active, created_at`

func scanHabit(scan func(dest ...any) error) (*Habit, error) {
	var h Habit
	var freqDays sql.NullString
	err := scan(&h.ID, &h.Name, &h.Description, &h.Category, &h.Difficulty, &h.XPReward,
		&h.DifficultyNote, &h.Priority, &h.Color, &h.Frequency, &freqDays, &h.CustomInterval,
		&h.Active, &h.CreatedAt)
	if err != nil {
		return nil, err
	}
	if freqDays.Valid && freqDays.String != "" {
		if err := json.Unmarshal([]byte(freqDays.String), &h.FrequencyDays); err != nil {
			return nil, fmt.Errorf("habit frequency days: %w", err)
		}
	}
	return &h, nil
}

func (r *HabitRepo) Get(ctx context.Context, id int64) (*Habit, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)
	h, err := scanHabit(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("habit get: %w", err)
	}
	return h, nil
}

// ListAll returns all habits, priority first.
func (r *HabitRepo) ListAll(ctx context.Context) ([]Habit, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+habitColumns+` FROM habits ORDER BY priority DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("habit list: %w", err)
	}
	defer rows.Close()

	var out []Habit
	for rows.Next() {
		h, err := scanHabit(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("habit scan: %w", err)
		}
		out = append(out, *h)
	}
	return out, rows.Err()
}

func (r *HabitRepo) Insert(ctx context.Context, in HabitInsert) (int64, error) {
	var freqDays *string
	if len(in.FrequencyDays) > 0 {
		b, err := json.Marshal(in.FrequencyDays)
		if err != nil {
			return 0, fmt.Errorf("habit frequency days: %w", err)
		}
		s := string(b)
		freqDays = &s
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO habits (name, description, category, difficulty, xp_reward, difficulty_note,
			priority, color, frequency, frequency_days, custom_interval)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, in.Name, in.Description, in.Category, in.Difficulty, in.XPReward, in.DifficultyNote,
		in.Priority, in.Color, in.Frequency, freqDays, in.CustomInterval)
	if err != nil {
		return 0, fmt.Errorf("habit insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("habit last insert id: %w", err)
	}
	return id, nil
}

// HabitUpdate carries mutable fields. Difficulty and xp_reward are frozen at
// creation and deliberately absent.
type HabitUpdate struct {
	Name           *string
	Description    *string
	Category       *string
	Priority       *bool
	Color          *string
	Frequency      *string
	FrequencyDays  []int
	CustomInterval *int
	Active         *bool
}

func (r *HabitRepo) Update(ctx context.Context, id int64, in HabitUpdate) error {
	h, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if h == nil {
		return sql.ErrNoRows
	}

	if in.Name != nil {
		h.Name = *in.Name
	}
	if in.Description != nil {
		h.Description = in.Description
	}
	if in.Category != nil {
		h.Category = *in.Category
	}
	if in.Priority != nil {
		h.Priority = *in.Priority
	}
	if in.Color != nil {
		h.Color = *in.Color
	}
	if in.Frequency != nil {
		h.Frequency = *in.Frequency
	}
	if in.FrequencyDays != nil {
		h.FrequencyDays = in.FrequencyDays
	}
	if in.CustomInterval != nil {
		h.CustomInterval = in.CustomInterval
	}
	if in.Active != nil {
		h.Active = *in.Active
	}

	var freqDays *string
	if len(h.FrequencyDays) > 0 {
		b, err := json.Marshal(h.FrequencyDays)
		if err != nil {
			return fmt.Errorf("habit frequency days: %w", err)
		}
		s := string(b)
		freqDays = &s
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE habits
		SET name = ?, description = ?, category = ?, priority = ?, color = ?,
			frequency = ?, frequency_days = ?, custom_interval = ?, active = ?
		WHERE id = ?
	`, h.Name, h.Description, h.Category, h.Priority, h.Color,
		h.Frequency, freqDays, h.CustomInterval, h.Active, id)
	if err != nil {
		return fmt.Errorf("habit update: %w", err)
	}
	return nil
}

// Delete soft-deletes by clearing the active flag; the completion history
// stays in the log.
func (r *HabitRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE habits SET active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("habit delete: %w", err)
	}
	return nil
}
