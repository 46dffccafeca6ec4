package model

import (
	"slices"
	"time"
)

// User represents an account: donors, staff and administrators alike.
// A user holds a set of roles rather than a single role.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name,omitempty"`
	Roles        []string   `json:"roles"`
	LocationID   *int64     `json:"location_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Roles.
const (
	RoleDonor     = "donor"
	RoleAdmin     = "admin"
	RoleCook      = "cook"
	RoleManager   = "manager"
	RoleVolunteer = "volunteer"
)

// ValidRole reports whether role is a known role name.
func ValidRole(role string) bool {
	switch role {
	case RoleDonor, RoleAdmin, RoleCook, RoleManager, RoleVolunteer:
		return true
	}
	return false
}

// HasAnyRole reports whether the user's role set intersects roles.
func (u *User) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if slices.Contains(u.Roles, r) {
			return true
		}
	}
	return false
}
