package model

import "time"

// InventoryItem is a named, unit-quantified stock record with a
// low-stock alert threshold. Stock may go negative: over-deduction is
// logged as an anomaly, never clamped.
type InventoryItem struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Unit              string     `json:"unit"`
	Stock             float64    `json:"stock"`
	LowStockThreshold float64    `json:"low_stock_threshold"`
	Notes             string     `json:"notes,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	DeletedAt         *time.Time `json:"deleted_at,omitempty"`
}
