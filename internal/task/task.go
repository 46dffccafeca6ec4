// Package task implements the task lifecycle engine: creation,
// assignment and the status transitions that drive inventory
// reconciliation and completion notifications.
package task

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

// Deducter is the slice of the inventory engine the lifecycle needs.
type Deducter interface {
	Deduct(ctx context.Context, itemName string, quantity float64) (*model.InventoryItem, error)
}

// Engine drives task state and its completion side effects.
type Engine struct {
	DB        *sql.DB
	Inventory Deducter
	Notifier  notify.Sender
}

// casAttempts bounds retries when a concurrent writer moves the status
// between our read and our conditional update.
const casAttempts = 3

// Create creates a task for a donation. autoAssigned is true iff no
// staff member was assigned at creation.
func (e *Engine) Create(ctx context.Context, taskType string, donationID int64, staffID, locationID *int64, notes string) (*model.Task, error) {
	if !model.ValidTaskType(taskType) {
		return nil, fmt.Errorf("task type %q: %w", taskType, apperr.ErrInvalidArgument)
	}

	donation, err := store.GetDonation(ctx, e.DB, donationID)
	if err != nil {
		return nil, err
	}
	if donation == nil {
		return nil, fmt.Errorf("donation %d: %w", donationID, apperr.ErrNotFound)
	}

	return store.CreateTask(ctx, e.DB, taskType, donationID, staffID, locationID, notes)
}

// Assign sets the assigned staff member and forces autoAssigned off.
func (e *Engine) Assign(ctx context.Context, taskID, staffID int64) (*model.Task, error) {
	task, err := store.GetTask(ctx, e.DB, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("task %d: %w", taskID, apperr.ErrNotFound)
	}

	staff, err := store.GetUser(ctx, e.DB, staffID)
	if err != nil {
		return nil, err
	}
	if staff == nil || staff.DeletedAt != nil {
		return nil, fmt.Errorf("staff user %d: %w", staffID, apperr.ErrNotFound)
	}

	if err := store.AssignTask(ctx, e.DB, taskID, staffID); err != nil {
		return nil, err
	}
	return store.GetTask(ctx, e.DB, taskID)
}

// UpdateStatus sets a task's status. Any transition is permitted, but
// it is applied with a compare-and-set on the status read beforehand,
// so the side effects of entering completed run at most once even under
// concurrent updates.
//
// On the winning first transition into completed, the task type's
// inventory requirements are deducted one by one. Deductions are
// best-effort: each failure is logged and reported in the returned
// warnings, and never blocks the transition or the remaining
// deductions. A single TASK_COMPLETED notification then goes to admins
// and managers regardless of deduction outcomes.
func (e *Engine) UpdateStatus(ctx context.Context, taskID int64, newStatus string) (*model.Task, []string, error) {
	if !model.ValidTaskStatus(newStatus) {
		return nil, nil, fmt.Errorf("task status %q: %w", newStatus, apperr.ErrInvalidArgument)
	}

	var task *model.Task
	var oldStatus string
	won := false

	for attempt := 0; attempt < casAttempts; attempt++ {
		var err error
		task, err = store.GetTask(ctx, e.DB, taskID)
		if err != nil {
			return nil, nil, err
		}
		if task == nil {
			return nil, nil, fmt.Errorf("task %d: %w", taskID, apperr.ErrNotFound)
		}

		oldStatus = task.Status
		changed, err := store.TransitionTaskStatus(ctx, e.DB, taskID, oldStatus, newStatus)
		if err != nil {
			return nil, nil, err
		}
		if changed {
			won = true
			break
		}
	}
	if !won {
		return nil, nil, fmt.Errorf("task %d status changed concurrently: %w", taskID, apperr.ErrConflict)
	}

	var warnings []string
	if oldStatus != model.TaskStatusCompleted && newStatus == model.TaskStatusCompleted {
		warnings = e.completeTask(ctx, task)
	}

	updated, err := store.GetTask(ctx, e.DB, taskID)
	if err != nil {
		return nil, warnings, err
	}
	return updated, warnings, nil
}

// completeTask runs the completion side effects: inventory deduction
// per the task type's requirements, then the completion notification.
func (e *Engine) completeTask(ctx context.Context, task *model.Task) []string {
	var warnings []string

	for _, req := range RequirementsFor(task.Type) {
		if _, err := e.Inventory.Deduct(ctx, req.ItemName, req.Quantity); err != nil {
			slog.Error("inventory deduction failed on task completion",
				"task", task.ID, "item", req.ItemName, "quantity", req.Quantity, "error", err)
			warnings = append(warnings,
				fmt.Sprintf("deducting %v %s: %v", req.Quantity, req.ItemName, err))
		}
	}

	payload := map[string]any{
		"taskId":     task.ID,
		"taskType":   task.Type,
		"donationId": task.DonationID,
	}
	if task.AssignedStaffID != nil {
		payload["assignedStaffId"] = *task.AssignedStaffID
	}

	e.Notifier.Send(ctx, notify.TypeTaskCompleted,
		notify.Roles(model.RoleAdmin, model.RoleManager), payload)

	return warnings
}
