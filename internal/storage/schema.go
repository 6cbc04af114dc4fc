package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ledger (
			key TEXT PRIMARY KEY,
			level INTEGER DEFAULT 1,
			current_xp INTEGER DEFAULT 0,
			total_xp INTEGER DEFAULT 0,
			current_gold INTEGER DEFAULT 0,
			lifetime_gold INTEGER DEFAULT 0,

			strength INTEGER DEFAULT 0,
			intelligence INTEGER DEFAULT 0,
			vitality INTEGER DEFAULT 0,
			agility INTEGER DEFAULT 0,
			sense INTEGER DEFAULT 0,
			willpower INTEGER DEFAULT 0,

			last_level_up DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS habits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT,
			category TEXT NOT NULL,
			difficulty INTEGER NOT NULL DEFAULT 1,
			xp_reward INTEGER NOT NULL,
			difficulty_note TEXT,
			priority INTEGER DEFAULT 0,
			color TEXT NOT NULL DEFAULT 'bg-blue-500',
			frequency TEXT DEFAULT 'daily',
			frequency_days TEXT,
			custom_interval INTEGER,
			active INTEGER DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS goals (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT,
			category TEXT DEFAULT 'personal',
			deadline TEXT,
			progress INTEGER DEFAULT 0,
			difficulty INTEGER NOT NULL DEFAULT 1,
			xp_reward INTEGER NOT NULL DEFAULT 1000,
			completed INTEGER DEFAULT 0,
			priority INTEGER DEFAULT 0,
			steps TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		// One logical record per (habit, day); toggles overwrite.
		`CREATE TABLE IF NOT EXISTS completions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			habit_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 1,
			UNIQUE(habit_id, date),
			FOREIGN KEY(habit_id) REFERENCES habits(id)
		);`,
		`CREATE TABLE IF NOT EXISTS achievements (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			key TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			icon TEXT NOT NULL DEFAULT '',
			category TEXT DEFAULT 'general',
			tier TEXT DEFAULT 'bronze',
			xp_reward INTEGER DEFAULT 50,
			gold_reward INTEGER DEFAULT 0,
			stat_bonus TEXT,
			special_power TEXT,
			unlocked_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS inventory (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			item_id TEXT NOT NULL UNIQUE,
			quantity INTEGER DEFAULT 1,
			purchased_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_completions_date ON completions(date);`,
		`CREATE INDEX IF NOT EXISTS idx_completions_habit_id_date ON completions(habit_id, date);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
