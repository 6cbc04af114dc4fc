package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type InventoryRepo struct {
	db *sql.DB
}

func NewInventoryRepo(db *sql.DB) *InventoryRepo {
	return &InventoryRepo{db: db}
}

func (r *InventoryRepo) Get(ctx context.Context, itemID string) (*InventoryItem, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, item_id, quantity, purchased_at FROM inventory WHERE item_id = ?
	`, itemID)
	var it InventoryItem
	if err := row.Scan(&it.ID, &it.ItemID, &it.Quantity, &it.PurchasedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("inventory get: %w", err)
	}
	return &it, nil
}

func (r *InventoryRepo) ListAll(ctx context.Context) ([]InventoryItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, item_id, quantity, purchased_at FROM inventory ORDER BY purchased_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("inventory list: %w", err)
	}
	defer rows.Close()

	var out []InventoryItem
	for rows.Next() {
		var it InventoryItem
		if err := rows.Scan(&it.ID, &it.ItemID, &it.Quantity, &it.PurchasedAt); err != nil {
			return nil, fmt.Errorf("inventory scan: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *InventoryRepo) Add(ctx context.Context, q Queryer, itemID string, quantity int) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO inventory (item_id, quantity)
		VALUES (?, ?)
		ON CONFLICT(item_id) DO UPDATE SET quantity = quantity + excluded.quantity
	`, itemID, quantity)
	if err != nil {
		return fmt.Errorf("inventory add: %w", err)
	}
	return nil
}

// Remove decrements quantity, deleting the row when it reaches zero.
func (r *InventoryRepo) Remove(ctx context.Context, q Queryer, itemID string, quantity int) error {
	res, err := q.ExecContext(ctx, `
		UPDATE inventory SET quantity = quantity - ? WHERE item_id = ? AND quantity >= ?
	`, quantity, itemID, quantity)
	if err != nil {
		return fmt.Errorf("inventory remove: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("inventory remove rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("inventory remove: not enough of %s", itemID)
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM inventory WHERE item_id = ? AND quantity <= 0`, itemID); err != nil {
		return fmt.Errorf("inventory cleanup: %w", err)
	}
	return nil
}
