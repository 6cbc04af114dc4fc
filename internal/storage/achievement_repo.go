package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

type AchievementRepo struct {
	db *sql.DB
}

func NewAchievementRepo(db *sql.DB) *AchievementRepo {
	return &AchievementRepo{db: db}
}

type AchievementInsert struct {
	Key          string
	Title        string
	Description  string
	Icon         string
	Category     string
	Tier         string
	XPReward     int
	GoldReward   int
	StatBonus    *StatBonus
	SpecialPower *string
}

const achievementColumns = `id, key, title, description, icon, category, tier,
	xp_reward, gold_reward, stat_bonus, special_power, unlocked_at`

func scanAchievement(scan func(dest ...any) error) (*Achievement, error) {
	var a Achievement
	var bonus sql.NullString
	err := scan(&a.ID, &a.Key, &a.Title, &a.Description, &a.Icon, &a.Category, &a.Tier,
		&a.XPReward, &a.GoldReward, &bonus, &a.SpecialPower, &a.UnlockedAt)
	if err != nil {
		return nil, err
	}
	if bonus.Valid && bonus.String != "" {
		var sb StatBonus
		if err := json.Unmarshal([]byte(bonus.String), &sb); err != nil {
			return nil, fmt.Errorf("achievement stat bonus: %w", err)
		}
		a.StatBonus = &sb
	}
	return &a, nil
}

func (r *AchievementRepo) Get(ctx context.Context, key string) (*Achievement, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+achievementColumns+` FROM achievements WHERE key = ?`, key)
	a, err := scanAchievement(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("achievement get: %w", err)
	}
	return a, nil
}

func (r *AchievementRepo) ListAll(ctx context.Context) ([]Achievement, error) {
	return r.list(ctx, `SELECT `+achievementColumns+` FROM achievements ORDER BY id`)
}

func (r *AchievementRepo) ListUnlocked(ctx context.Context) ([]Achievement, error) {
	return r.list(ctx, `SELECT `+achievementColumns+` FROM achievements WHERE unlocked_at IS NOT NULL ORDER BY unlocked_at`)
}

func (r *AchievementRepo) list(ctx context.Context, query string) ([]Achievement, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("achievement list: %w", err)
	}
	defer rows.Close()

	var out []Achievement
	for rows.Next() {
		a, err := scanAchievement(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("achievement scan: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// MarkUnlocked stamps unlocked_at only when it is still null, and reports
// whether this call won the transition. Calling again is a no-op.
func (r *AchievementRepo) MarkUnlocked(ctx context.Context, key string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE achievements SET unlocked_at = ? WHERE key = ? AND unlocked_at IS NULL
	`, at, key)
	if err != nil {
		return false, fmt.Errorf("achievement unlock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("achievement unlock rows: %w", err)
	}
	return n > 0, nil
}

// Seed inserts any missing catalog rows. Existing rows (and their
// unlocked_at stamps) are left alone.
func (r *AchievementRepo) Seed(ctx context.Context, defs []AchievementInsert) error {
	for _, d := range defs {
		var bonus *string
		if d.StatBonus != nil {
			b, err := json.Marshal(d.StatBonus)
			if err != nil {
				return fmt.Errorf("achievement stat bonus: %w", err)
			}
			s := string(b)
			bonus = &s
		}
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO achievements (key, title, description, icon, category, tier,
				xp_reward, gold_reward, stat_bonus, special_power)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(key) DO NOTHING
		`, d.Key, d.Title, d.Description, d.Icon, d.Category, d.Tier,
			d.XPReward, d.GoldReward, bonus, d.SpecialPower)
		if err != nil {
			return fmt.Errorf("achievement seed: %w", err)
		}
	}
	return nil
}
