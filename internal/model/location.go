package model

import "time"

// Location represents a served area (district/upazila/village).
type Location struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	District  string     `json:"district"`
	Upazila   string     `json:"upazila,omitempty"`
	Village   string     `json:"village,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
