package model

import "time"

// Media is an uploaded proof file, linked to exactly one of a donation
// or a task. File data lives in the database alongside the metadata.
type Media struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	MIME       string    `json:"mime"`
	Size       int64     `json:"size"`
	Type       string    `json:"type"`
	DonationID *int64    `json:"donation_id,omitempty"`
	TaskID     *int64    `json:"task_id,omitempty"`
	UploadedBy *int64    `json:"uploaded_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Media types.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
	MediaTypeOther = "other"
)
