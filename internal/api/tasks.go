package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mabuhanifa/aahaar-backend/internal/model"
	"github.com/mabuhanifa/aahaar-backend/internal/store"
	"github.com/mabuhanifa/aahaar-backend/internal/task"
)

// TasksHandler handles fulfilment task endpoints.
type TasksHandler struct {
	DB    *sql.DB
	Tasks *task.Engine
}

type createTaskRequest struct {
	Type       string `json:"type"`
	DonationID int64  `json:"donation_id"`
	StaffID    *int64 `json:"staff_id"`
	LocationID *int64 `json:"location_id"`
	Notes      string `json:"notes"`
}

type assignTaskRequest struct {
	StaffID int64 `json:"staff_id"`
}

type updateTaskStatusRequest struct {
	Status string `json:"status"`
}

type taskStatusResponse struct {
	Task     *model.Task `json:"task"`
	Warnings []string    `json:"warnings,omitempty"`
}

// Create handles POST /api/tasks.
func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DonationID <= 0 {
		jsonError(w, http.StatusBadRequest, "donation_id required")
		return
	}

	t, err := h.Tasks.Create(r.Context(), req.Type, req.DonationID, req.StaffID, req.LocationID, req.Notes)
	if err != nil {
		serviceError(w, err)
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("task created", "by", claims.Email, "task", t.ID, "type", t.Type)
	jsonResponse(w, http.StatusCreated, t)
}

// List handles GET /api/tasks. Supports ?status= filtering.
func (h *TasksHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := store.ListTasks(r.Context(), h.DB, r.URL.Query().Get("status"))
	if err != nil {
		slog.Error("listing tasks", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	jsonResponse(w, http.StatusOK, tasks)
}

// Get handles GET /api/tasks/{id}.
func (h *TasksHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	t, err := store.GetTask(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("getting task", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get task")
		return
	}
	if t == nil {
		jsonError(w, http.StatusNotFound, "task not found")
		return
	}
	jsonResponse(w, http.StatusOK, t)
}

// Assign handles POST /api/tasks/{id}/assign.
func (h *TasksHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var req assignTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.StaffID <= 0 {
		jsonError(w, http.StatusBadRequest, "staff_id required")
		return
	}

	t, err := h.Tasks.Assign(r.Context(), id, req.StaffID)
	if err != nil {
		serviceError(w, err)
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("task assigned", "by", claims.Email, "task", id, "staff", req.StaffID)
	jsonResponse(w, http.StatusOK, t)
}

// UpdateStatus handles PUT /api/tasks/{id}/status. Completing a task
// consumes inventory; partial inventory failures come back as warnings
// alongside the completed task.
func (h *TasksHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var req updateTaskStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, warnings, err := h.Tasks.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		serviceError(w, err)
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("task status updated", "by", claims.Email, "task", id, "status", req.Status, "warnings", len(warnings))
	jsonResponse(w, http.StatusOK, taskStatusResponse{Task: t, Warnings: warnings})
}
