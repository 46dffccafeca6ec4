package api

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mabuhanifa/aahaar-backend/internal/inventory"
	"github.com/mabuhanifa/aahaar-backend/internal/model"
	"github.com/mabuhanifa/aahaar-backend/internal/store"
)

// InventoryHandler handles food stock endpoints.
type InventoryHandler struct {
	DB        *sql.DB
	Inventory *inventory.Engine
}

type createItemRequest struct {
	Name              string  `json:"name"`
	Unit              string  `json:"unit"`
	Stock             float64 `json:"stock"`
	LowStockThreshold float64 `json:"low_stock_threshold"`
	Notes             string  `json:"notes"`
}

type updateItemRequest struct {
	Name              string  `json:"name"`
	Unit              string  `json:"unit"`
	LowStockThreshold float64 `json:"low_stock_threshold"`
	Notes             string  `json:"notes"`
}

type stockChangeRequest struct {
	Quantity float64 `json:"quantity"`
}

// List handles GET /api/inventory.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListInventoryItems(r.Context(), h.DB)
	if err != nil {
		slog.Error("listing inventory", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list inventory")
		return
	}
	if items == nil {
		items = []model.InventoryItem{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/inventory.
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Unit == "" {
		jsonError(w, http.StatusBadRequest, "name and unit required")
		return
	}
	if req.Stock < 0 || req.LowStockThreshold < 0 {
		jsonError(w, http.StatusBadRequest, "stock and threshold must not be negative")
		return
	}

	item, err := store.CreateInventoryItem(r.Context(), h.DB, req.Name, req.Unit, req.Stock, req.LowStockThreshold, req.Notes)
	if err != nil {
		jsonError(w, http.StatusConflict, "item name already exists")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("inventory item created", "by", claims.Email, "item", req.Name)
	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/inventory/{id}.
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetInventoryItem(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("getting inventory item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/inventory/{id}. Stock is never set directly;
// it only moves through deduct/add.
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Unit == "" {
		jsonError(w, http.StatusBadRequest, "name and unit required")
		return
	}

	if err := store.UpdateInventoryItem(r.Context(), h.DB, id, req.Name, req.Unit, req.LowStockThreshold, req.Notes); err != nil {
		slog.Error("updating inventory item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	item, _ := store.GetInventoryItem(r.Context(), h.DB, id)
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/inventory/{id}.
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := store.DeleteInventoryItem(r.Context(), h.DB, id); err != nil {
		slog.Error("deleting inventory item", "error", err)
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// Deduct handles POST /api/inventory/{name}/deduct.
func (h *InventoryHandler) Deduct(w http.ResponseWriter, r *http.Request) {
	h.changeStock(w, r, h.Inventory.Deduct)
}

// Add handles POST /api/inventory/{name}/add.
func (h *InventoryHandler) Add(w http.ResponseWriter, r *http.Request) {
	h.changeStock(w, r, h.Inventory.Add)
}

func (h *InventoryHandler) changeStock(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, name string, qty float64) (*model.InventoryItem, error)) {
	var req stockChangeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := apply(r.Context(), r.PathValue("name"), req.Quantity)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}
