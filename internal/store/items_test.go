package store

import (
	"context"
	"testing"

	"github.com/mabuhanifa/aahaar-backend/internal/db"
)

func TestCreateAndGetInventoryItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateInventoryItem(ctx, database, "Rice", "kg", 100, 20, "long grain")
	if err != nil {
		t.Fatalf("CreateInventoryItem: %v", err)
	}
	if item.Stock != 100 || item.LowStockThreshold != 20 {
		t.Errorf("unexpected item: %+v", item)
	}

	byName, err := GetInventoryItemByName(ctx, database, "Rice")
	if err != nil {
		t.Fatalf("GetInventoryItemByName: %v", err)
	}
	if byName == nil || byName.ID != item.ID {
		t.Errorf("expected item %d by name, got %+v", item.ID, byName)
	}
}

func TestAdjustStock(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateInventoryItem(ctx, database, "Lentils", "kg", 10, 2, "")

	item, err := AdjustStock(ctx, database, "Lentils", -2.5)
	if err != nil {
		t.Fatalf("AdjustStock: %v", err)
	}
	if item.Stock != 7.5 {
		t.Errorf("expected stock 7.5, got %v", item.Stock)
	}

	// Deltas apply in sequence and may go negative.
	item, err = AdjustStock(ctx, database, "Lentils", -10)
	if err != nil {
		t.Fatalf("AdjustStock: %v", err)
	}
	if item.Stock != -2.5 {
		t.Errorf("expected stock -2.5, got %v", item.Stock)
	}
}

func TestAdjustStockUnknownItem(t *testing.T) {
	database := db.NewTestDB(t)

	item, err := AdjustStock(context.Background(), database, "Ghee", 1)
	if err != nil {
		t.Fatalf("AdjustStock: %v", err)
	}
	if item != nil {
		t.Errorf("expected nil for unknown item, got %+v", item)
	}
}

func TestDeleteInventoryItemFreesName(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateInventoryItem(ctx, database, "Salt", "kg", 5, 1, "")

	if err := DeleteInventoryItem(ctx, database, item.ID); err != nil {
		t.Fatalf("DeleteInventoryItem: %v", err)
	}

	// Deleted items are hidden from lookups and adjustments.
	if got, _ := GetInventoryItemByName(ctx, database, "Salt"); got != nil {
		t.Error("expected deleted item to be hidden")
	}
	if adjusted, _ := AdjustStock(ctx, database, "Salt", 1); adjusted != nil {
		t.Error("expected no adjustment on deleted item")
	}

	// The name can be reused.
	if _, err := CreateInventoryItem(ctx, database, "Salt", "kg", 2, 1, ""); err != nil {
		t.Errorf("expected name reuse after delete, got %v", err)
	}
}

func TestDuplicateItemNameRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateInventoryItem(ctx, database, "Oil", "l", 3, 1, "")
	if _, err := CreateInventoryItem(ctx, database, "Oil", "l", 1, 1, ""); err == nil {
		t.Error("expected error for duplicate item name")
	}
}
