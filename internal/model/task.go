package model

import "time"

// Task is a unit of fulfilment work tied to a donation: preparing food,
// delivering rations or recording proof media.
type Task struct {
	ID              int64      `json:"id"`
	Type            string     `json:"type"`
	Status          string     `json:"status"`
	DonationID      int64      `json:"donation_id"`
	AssignedStaffID *int64     `json:"assigned_staff_id,omitempty"`
	AutoAssigned    bool       `json:"auto_assigned"`
	LocationID      *int64     `json:"location_id,omitempty"`
	MediaIDs        []int64    `json:"media_ids,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Task types.
const (
	TaskTypePrepareFood   = "prepare_food"
	TaskTypeDeliverRation = "deliver_ration"
	TaskTypeRecordMedia   = "record_media"
)

// Task statuses. Any status may be set from any other; side effects
// fire only on the first transition into completed.
const (
	TaskStatusNotStarted = "not_started"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)

// ValidTaskType reports whether t is a known task type.
func ValidTaskType(t string) bool {
	switch t {
	case TaskTypePrepareFood, TaskTypeDeliverRation, TaskTypeRecordMedia:
		return true
	}
	return false
}

// ValidTaskStatus reports whether s is a known task status.
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusNotStarted, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}
