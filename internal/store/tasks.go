package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mabuhanifa/aahaar-backend/internal/model"
)

// CreateTask creates a task in not_started status. autoAssigned is
// derived from whether staff was assigned at creation.
func CreateTask(ctx context.Context, db *sql.DB, taskType string, donationID int64, staffID, locationID *int64, notes string) (*model.Task, error) {
	autoAssigned := 0
	if staffID == nil {
		autoAssigned = 1
	}
	result, err := db.ExecContext(ctx,
		`INSERT INTO tasks (type, donation_id, assigned_staff_id, auto_assigned, location_id, notes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		taskType, donationID, staffID, autoAssigned, locationID, notes,
	)
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting task id: %w", err)
	}

	return GetTask(ctx, db, id)
}

// GetTask returns a task by ID, including its linked media IDs in upload order.
func GetTask(ctx context.Context, db *sql.DB, id int64) (*model.Task, error) {
	t := &model.Task{}
	var notes sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, type, status, donation_id, assigned_staff_id, auto_assigned, location_id, notes, created_at, updated_at
		 FROM tasks WHERE id = ?`, id,
	).Scan(&t.ID, &t.Type, &t.Status, &t.DonationID, &t.AssignedStaffID, &t.AutoAssigned, &t.LocationID, &notes, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting task: %w", err)
	}
	t.Notes = notes.String

	if t.MediaIDs, err = listMediaIDs(ctx, db, `task_id`, t.ID); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTasks returns all tasks, optionally filtered by status.
func ListTasks(ctx context.Context, db *sql.DB, status string) ([]model.Task, error) {
	var rows *sql.Rows
	var err error

	if status != "" {
		rows, err = db.QueryContext(ctx,
			`SELECT id, type, status, donation_id, assigned_staff_id, auto_assigned, location_id, notes, created_at, updated_at
			 FROM tasks WHERE status = ? ORDER BY created_at DESC, id DESC`, status,
		)
	} else {
		rows, err = db.QueryContext(ctx,
			`SELECT id, type, status, donation_id, assigned_staff_id, auto_assigned, location_id, notes, created_at, updated_at
			 FROM tasks ORDER BY created_at DESC, id DESC`,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		var notes sql.NullString
		if err := rows.Scan(&t.ID, &t.Type, &t.Status, &t.DonationID, &t.AssignedStaffID, &t.AutoAssigned, &t.LocationID, &notes, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		t.Notes = notes.String
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// AssignTask sets the assigned staff member and forces autoAssigned off.
func AssignTask(ctx context.Context, db *sql.DB, taskID, staffID int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE tasks SET assigned_staff_id = ?, auto_assigned = 0, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		staffID, taskID,
	)
	if err != nil {
		return fmt.Errorf("assigning task: %w", err)
	}
	return nil
}

// TransitionTaskStatus sets a task's status only if it still holds the
// expected old status. Returns whether the update applied; a false
// result with no error means another writer moved the status first.
// This compare-and-set is what keeps completion side effects at-most-once.
func TransitionTaskStatus(ctx context.Context, db *sql.DB, id int64, oldStatus, newStatus string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		newStatus, id, oldStatus,
	)
	if err != nil {
		return false, fmt.Errorf("transitioning task status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking transition result: %w", err)
	}
	return affected > 0, nil
}
