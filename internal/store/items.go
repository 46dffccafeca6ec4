package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mabuhanifa/aahaar-backend/internal/model"
)

// CreateInventoryItem creates a new inventory item.
func CreateInventoryItem(ctx context.Context, db *sql.DB, name, unit string, stock, lowStockThreshold float64, notes string) (*model.InventoryItem, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO inventory_items (name, unit, stock, low_stock_threshold, notes)
		 VALUES (?, ?, ?, ?, ?)`,
		name, unit, stock, lowStockThreshold, notes,
	)
	if err != nil {
		return nil, fmt.Errorf("creating inventory item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting inventory item id: %w", err)
	}

	return GetInventoryItem(ctx, db, id)
}

// GetInventoryItem returns an inventory item by ID.
func GetInventoryItem(ctx context.Context, db *sql.DB, id int64) (*model.InventoryItem, error) {
	item := &model.InventoryItem{}
	var notes sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, unit, stock, low_stock_threshold, notes, created_at, updated_at, deleted_at
		 FROM inventory_items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Name, &item.Unit, &item.Stock, &item.LowStockThreshold, &notes, &item.CreatedAt, &item.UpdatedAt, &item.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting inventory item: %w", err)
	}
	item.Notes = notes.String
	return item, nil
}

// GetInventoryItemByName returns an active inventory item by its unique name.
func GetInventoryItemByName(ctx context.Context, db *sql.DB, name string) (*model.InventoryItem, error) {
	item := &model.InventoryItem{}
	var notes sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, unit, stock, low_stock_threshold, notes, created_at, updated_at, deleted_at
		 FROM inventory_items WHERE name = ? AND deleted_at IS NULL`, name,
	).Scan(&item.ID, &item.Name, &item.Unit, &item.Stock, &item.LowStockThreshold, &notes, &item.CreatedAt, &item.UpdatedAt, &item.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting inventory item by name: %w", err)
	}
	item.Notes = notes.String
	return item, nil
}

// ListInventoryItems returns all non-deleted inventory items.
func ListInventoryItems(ctx context.Context, db *sql.DB) ([]model.InventoryItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, unit, stock, low_stock_threshold, notes, created_at, updated_at, deleted_at
		 FROM inventory_items WHERE deleted_at IS NULL ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing inventory items: %w", err)
	}
	defer rows.Close()

	var items []model.InventoryItem
	for rows.Next() {
		var item model.InventoryItem
		var notes sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &item.Unit, &item.Stock, &item.LowStockThreshold, &notes, &item.CreatedAt, &item.UpdatedAt, &item.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning inventory item: %w", err)
		}
		item.Notes = notes.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateInventoryItem updates an item's metadata. Stock is only touched
// through AdjustStock.
func UpdateInventoryItem(ctx context.Context, db *sql.DB, id int64, name, unit string, lowStockThreshold float64, notes string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE inventory_items SET name = ?, unit = ?, low_stock_threshold = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		name, unit, lowStockThreshold, notes, id,
	)
	if err != nil {
		return fmt.Errorf("updating inventory item: %w", err)
	}
	return nil
}

// DeleteInventoryItem soft-deletes an inventory item.
func DeleteInventoryItem(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE inventory_items SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id,
	)
	if err != nil {
		return fmt.Errorf("deleting inventory item: %w", err)
	}
	return nil
}

// AdjustStock applies a stock delta to an active item by name and
// returns the updated row, or nil if no such item exists. The delta is
// applied in a single UPDATE so concurrent adjustments serialize on the
// database write lock instead of racing a read-modify-write.
func AdjustStock(ctx context.Context, db *sql.DB, name string, delta float64) (*model.InventoryItem, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE inventory_items SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE name = ? AND deleted_at IS NULL`,
		delta, name,
	)
	if err != nil {
		return nil, fmt.Errorf("adjusting stock: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking stock adjustment: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}

	item := &model.InventoryItem{}
	var notes sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT id, name, unit, stock, low_stock_threshold, notes, created_at, updated_at, deleted_at
		 FROM inventory_items WHERE name = ? AND deleted_at IS NULL`, name,
	).Scan(&item.ID, &item.Name, &item.Unit, &item.Stock, &item.LowStockThreshold, &notes, &item.CreatedAt, &item.UpdatedAt, &item.DeletedAt)
	if err != nil {
		return nil, fmt.Errorf("reading adjusted stock: %w", err)
	}
	item.Notes = notes.String

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing stock adjustment: %w", err)
	}
	return item, nil
}
