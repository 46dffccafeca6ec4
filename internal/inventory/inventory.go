// Package inventory implements the stock reconciliation engine:
// deductions and additions against named items, with low-stock alerting.
package inventory

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mabuhanifa/aahaar-backend/internal/apperr"
	"github.com/mabuhanifa/aahaar-backend/internal/model"
	"github.com/mabuhanifa/aahaar-backend/internal/notify"
	"github.com/mabuhanifa/aahaar-backend/internal/store"
)

// Engine mutates stock levels and raises low-stock alerts.
type Engine struct {
	DB       *sql.DB
	Notifier notify.Sender
}

// Deduct removes quantity units of the named item. Deducting more than
// the available stock is allowed: the stock goes negative and a warning
// is logged, so fulfilment work is never blocked by bookkeeping.
func (e *Engine) Deduct(ctx context.Context, itemName string, quantity float64) (*model.InventoryItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("deduct quantity must be positive: %w", apperr.ErrInvalidArgument)
	}

	item, err := store.GetInventoryItemByName(ctx, e.DB, itemName)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("inventory item %q: %w", itemName, apperr.ErrNotFound)
	}

	if item.Stock < quantity {
		slog.Warn("deducting more than available stock",
			"item", itemName, "stock", item.Stock, "quantity", quantity)
	}

	updated, err := store.AdjustStock(ctx, e.DB, itemName, -quantity)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("inventory item %q: %w", itemName, apperr.ErrNotFound)
	}

	e.checkLowStock(ctx, updated)
	return updated, nil
}

// Add restocks quantity units of the named item.
func (e *Engine) Add(ctx context.Context, itemName string, quantity float64) (*model.InventoryItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("add quantity must be positive: %w", apperr.ErrInvalidArgument)
	}

	item, err := store.GetInventoryItemByName(ctx, e.DB, itemName)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("inventory item %q: %w", itemName, apperr.ErrNotFound)
	}

	updated, err := store.AdjustStock(ctx, e.DB, itemName, quantity)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("inventory item %q: %w", itemName, apperr.ErrNotFound)
	}

	// An addition can still leave the item at or below its threshold.
	e.checkLowStock(ctx, updated)
	return updated, nil
}

// checkLowStock alerts admins and managers whenever stock sits at or
// below the item's threshold. There is no debounce: every qualifying
// mutation alerts again.
func (e *Engine) checkLowStock(ctx context.Context, item *model.InventoryItem) {
	if item.Stock > item.LowStockThreshold {
		return
	}

	slog.Warn("low stock",
		"item", item.Name, "stock", item.Stock, "unit", item.Unit, "threshold", item.LowStockThreshold)

	e.Notifier.Send(ctx, notify.TypeLowInventory,
		notify.Roles(model.RoleAdmin, model.RoleManager),
		map[string]any{
			"itemName":  item.Name,
			"stock":     item.Stock,
			"threshold": item.LowStockThreshold,
			"unit":      item.Unit,
		})
}
