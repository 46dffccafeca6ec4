package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mabuhanifa/aahaar-backend/internal/model"
)

// CreateUser creates a new user with the given role set.
func CreateUser(ctx context.Context, db *sql.DB, email, passwordHash, name string, roles []string, locationID *int64) (*model.User, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, name, location_id) VALUES (?, ?, ?, ?)`,
		email, passwordHash, name, locationID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	for _, role := range roles {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO user_roles (user_id, role) VALUES (?, ?)`, id, role,
		); err != nil {
			return nil, fmt.Errorf("assigning role %q: %w", role, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing user creation: %w", err)
	}

	return GetUser(ctx, db, id)
}

// GetUser returns a user by ID.
func GetUser(ctx context.Context, db *sql.DB, id int64) (*model.User, error) {
	u := &model.User{}
	var name sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, location_id, created_at, deleted_at
		 FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &name, &u.LocationID, &u.CreatedAt, &u.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	u.Name = name.String

	if u.Roles, err = getUserRoles(ctx, db, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByEmail returns an active user by email.
func GetUserByEmail(ctx context.Context, db *sql.DB, email string) (*model.User, error) {
	u := &model.User{}
	var name sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, location_id, created_at, deleted_at
		 FROM users WHERE email = ? AND deleted_at IS NULL`, email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &name, &u.LocationID, &u.CreatedAt, &u.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	u.Name = name.String

	if u.Roles, err = getUserRoles(ctx, db, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// ListUsers returns all non-deleted users.
func ListUsers(ctx context.Context, db *sql.DB) ([]model.User, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, email, password_hash, name, location_id, created_at, deleted_at
		 FROM users WHERE deleted_at IS NULL ORDER BY email`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	users, err := scanUsers(rows)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].Roles, err = getUserRoles(ctx, db, users[i].ID); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// FindUsersByRoles returns all active users whose role set intersects roles.
// A user holding several of the roles appears once.
func FindUsersByRoles(ctx context.Context, db *sql.DB, roles []string) ([]model.User, error) {
	if len(roles) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(roles)), ", ")
	args := make([]any, len(roles))
	for i, r := range roles {
		args[i] = r
	}

	rows, err := db.QueryContext(ctx,
		`SELECT DISTINCT u.id, u.email, u.password_hash, u.name, u.location_id, u.created_at, u.deleted_at
		 FROM users u
		 JOIN user_roles r ON r.user_id = u.id
		 WHERE r.role IN (`+placeholders+`) AND u.deleted_at IS NULL
		 ORDER BY u.id`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("finding users by roles: %w", err)
	}
	defer rows.Close()

	users, err := scanUsers(rows)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].Roles, err = getUserRoles(ctx, db, users[i].ID); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// UpdateUser updates a user's name and assigned location.
func UpdateUser(ctx context.Context, db *sql.DB, id int64, name string, locationID *int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET name = ?, location_id = ? WHERE id = ? AND deleted_at IS NULL`,
		name, locationID, id,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

// UpdateUserRoles replaces a user's role set.
func UpdateUserRoles(ctx context.Context, db *sql.DB, id int64, roles []string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = ?`, id); err != nil {
		return fmt.Errorf("clearing roles: %w", err)
	}
	for _, role := range roles {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO user_roles (user_id, role) VALUES (?, ?)`, id, role,
		); err != nil {
			return fmt.Errorf("assigning role %q: %w", role, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing role update: %w", err)
	}
	return nil
}

// UpdateUserPassword updates a user's password hash.
func UpdateUserPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ? AND deleted_at IS NULL`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return nil
}

// DeleteUser soft-deletes a user.
func DeleteUser(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id,
	)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

func getUserRoles(ctx context.Context, db *sql.DB, userID int64) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT role FROM user_roles WHERE user_id = ? ORDER BY role`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting user roles: %w", err)
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("scanning role: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func scanUsers(rows *sql.Rows) ([]model.User, error) {
	var users []model.User
	for rows.Next() {
		var u model.User
		var name sql.NullString
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &name, &u.LocationID, &u.CreatedAt, &u.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		u.Name = name.String
		users = append(users, u)
	}
	return users, rows.Err()
}
