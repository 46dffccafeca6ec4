package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mabuhanifa/aahaar-backend/internal/model"
)

// CreateMedia stores an uploaded file and its metadata. Exactly one of
// donationID/taskID must be set (enforced by a schema check).
func CreateMedia(ctx context.Context, db *sql.DB, filename, mime string, data []byte, mediaType string, donationID, taskID, uploadedBy *int64) (*model.Media, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO media (filename, mime, size, data, type, donation_id, task_id, uploaded_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		filename, mime, len(data), data, mediaType, donationID, taskID, uploadedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("creating media: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting media id: %w", err)
	}

	return GetMedia(ctx, db, id)
}

// GetMedia returns media metadata (without file data) by ID.
func GetMedia(ctx context.Context, db *sql.DB, id int64) (*model.Media, error) {
	m := &model.Media{}
	err := db.QueryRowContext(ctx,
		`SELECT id, filename, mime, size, type, donation_id, task_id, uploaded_by, created_at
		 FROM media WHERE id = ?`, id,
	).Scan(&m.ID, &m.Filename, &m.MIME, &m.Size, &m.Type, &m.DonationID, &m.TaskID, &m.UploadedBy, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting media: %w", err)
	}
	return m, nil
}

// GetMediaData returns a media file's data and MIME type.
func GetMediaData(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var data []byte
	var mime string
	err := db.QueryRowContext(ctx,
		`SELECT data, mime FROM media WHERE id = ?`, id,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting media data: %w", err)
	}
	return data, mime, nil
}

// listMediaIDs returns media IDs linked via the given column, in upload order.
func listMediaIDs(ctx context.Context, db *sql.DB, column string, id int64) ([]int64, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id FROM media WHERE `+column+` = ? ORDER BY id`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("listing media ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var mediaID int64
		if err := rows.Scan(&mediaID); err != nil {
			return nil, fmt.Errorf("scanning media id: %w", err)
		}
		ids = append(ids, mediaID)
	}
	return ids, rows.Err()
}
