package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mabuhanifa/aahaar-backend/internal/model"
)

// CreateLocation creates a new location.
func CreateLocation(ctx context.Context, db *sql.DB, name, district, upazila, village, notes string) (*model.Location, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO locations (name, district, upazila, village, notes) VALUES (?, ?, ?, ?, ?)`,
		name, district, upazila, village, notes,
	)
	if err != nil {
		return nil, fmt.Errorf("creating location: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting location id: %w", err)
	}

	return GetLocation(ctx, db, id)
}

// GetLocation returns a location by ID.
func GetLocation(ctx context.Context, db *sql.DB, id int64) (*model.Location, error) {
	loc := &model.Location{}
	var upazila, village, notes sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, district, upazila, village, notes, created_at, deleted_at
		 FROM locations WHERE id = ?`, id,
	).Scan(&loc.ID, &loc.Name, &loc.District, &upazila, &village, &notes, &loc.CreatedAt, &loc.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting location: %w", err)
	}
	loc.Upazila = upazila.String
	loc.Village = village.String
	loc.Notes = notes.String
	return loc, nil
}

// ListLocations returns all non-deleted locations, optionally filtered by district.
func ListLocations(ctx context.Context, db *sql.DB, district string) ([]model.Location, error) {
	var rows *sql.Rows
	var err error

	if district != "" {
		rows, err = db.QueryContext(ctx,
			`SELECT id, name, district, upazila, village, notes, created_at, deleted_at
			 FROM locations WHERE deleted_at IS NULL AND district = ? ORDER BY name`, district,
		)
	} else {
		rows, err = db.QueryContext(ctx,
			`SELECT id, name, district, upazila, village, notes, created_at, deleted_at
			 FROM locations WHERE deleted_at IS NULL ORDER BY name`,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}
	defer rows.Close()

	var locations []model.Location
	for rows.Next() {
		var loc model.Location
		var upazila, village, notes sql.NullString
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.District, &upazila, &village, &notes, &loc.CreatedAt, &loc.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning location: %w", err)
		}
		loc.Upazila = upazila.String
		loc.Village = village.String
		loc.Notes = notes.String
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

// UpdateLocation updates a location's fields.
func UpdateLocation(ctx context.Context, db *sql.DB, id int64, name, district, upazila, village, notes string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE locations SET name = ?, district = ?, upazila = ?, village = ?, notes = ?
		 WHERE id = ? AND deleted_at IS NULL`,
		name, district, upazila, village, notes, id,
	)
	if err != nil {
		return fmt.Errorf("updating location: %w", err)
	}
	return nil
}

// DeleteLocation soft-deletes a location.
func DeleteLocation(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE locations SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id,
	)
	if err != nil {
		return fmt.Errorf("deleting location: %w", err)
	}
	return nil
}
