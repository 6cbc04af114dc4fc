package storage

import (
	"context"
	"database/sql"
	"fmt"
)

const MainLedgerKey = "main_user"

type LedgerRepo struct {
	db *sql.DB
}

func NewLedgerRepo(db *sql.DB) *LedgerRepo {
	return &LedgerRepo{db: db}
}

const ledgerColumns = `key, level, current_xp, total_xp, current_gold, lifetime_gold,
	strength, intelligence, vitality, agility, sense, willpower, last_level_up`

func scanLedger(row *sql.Row) (*Ledger, error) {
	var l Ledger
	err := row.Scan(&l.Key, &l.Level, &l.CurrentXP, &l.TotalXP, &l.CurrentGold, &l.LifetimeGold,
		&l.Strength, &l.Intelligence, &l.Vitality, &l.Agility, &l.Sense, &l.Willpower, &l.LastLevelUp)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("ledger get: %w", err)
	}
	return &l, nil
}

func (r *LedgerRepo) Get(ctx context.Context, q Queryer, key string) (*Ledger, error) {
	row := q.QueryRowContext(ctx, `SELECT `+ledgerColumns+` FROM ledger WHERE key = ?`, key)
	return scanLedger(row)
}

// GetOrCreateMain returns the singleton ledger, inserting a fresh level-1
// row on first read.
func (r *LedgerRepo) GetOrCreateMain(ctx context.Context) (*Ledger, error) {
	return r.GetOrCreateMainIn(ctx, r.db)
}

func (r *LedgerRepo) GetOrCreateMainIn(ctx context.Context, q Queryer) (*Ledger, error) {
	l, err := r.Get(ctx, q, MainLedgerKey)
	if err != nil {
		return nil, err
	}
	if l != nil {
		return l, nil
	}

	if _, err := q.ExecContext(ctx, `INSERT INTO ledger (key) VALUES (?)`, MainLedgerKey); err != nil {
		return nil, fmt.Errorf("ledger insert: %w", err)
	}
	return r.Get(ctx, q, MainLedgerKey)
}

func (r *LedgerRepo) Update(ctx context.Context, q Queryer, l *Ledger) error {
	_, err := q.ExecContext(ctx, `
		UPDATE ledger
		SET level = ?, current_xp = ?, total_xp = ?, current_gold = ?, lifetime_gold = ?,
			strength = ?, intelligence = ?, vitality = ?, agility = ?, sense = ?, willpower = ?,
			last_level_up = ?
		WHERE key = ?
	`, l.Level, l.CurrentXP, l.TotalXP, l.CurrentGold, l.LifetimeGold,
		l.Strength, l.Intelligence, l.Vitality, l.Agility, l.Sense, l.Willpower,
		l.LastLevelUp, l.Key)
	if err != nil {
		return fmt.Errorf("ledger update: %w", err)
	}
	return nil
}
