package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mabuhanifa/aahaar-backend/internal/model"
)

// CreateDonation creates a new donation in pending status.
func CreateDonation(ctx context.Context, db *sql.DB, donationType string, amount decimal.Decimal, donorID *int64, anonymousEmail, anonymousReferenceID string, locationID *int64, notes string) (*model.Donation, error) {
	var anonEmail, anonRef any
	if anonymousEmail != "" {
		anonEmail = anonymousEmail
	}
	if anonymousReferenceID != "" {
		anonRef = anonymousReferenceID
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO donations (type, amount, donor_id, anonymous_email, anonymous_reference_id, location_id, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		donationType, amount.String(), donorID, anonEmail, anonRef, locationID, notes,
	)
	if err != nil {
		return nil, fmt.Errorf("creating donation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting donation id: %w", err)
	}

	return GetDonation(ctx, db, id)
}

// GetDonation returns a donation by ID, including its linked media IDs.
func GetDonation(ctx context.Context, db *sql.DB, id int64) (*model.Donation, error) {
	return getDonation(ctx, db, `WHERE id = ?`, id)
}

// GetDonationByReference returns an anonymous donation by its reference ID.
func GetDonationByReference(ctx context.Context, db *sql.DB, referenceID string) (*model.Donation, error) {
	return getDonation(ctx, db, `WHERE anonymous_reference_id = ?`, referenceID)
}

func getDonation(ctx context.Context, db *sql.DB, where string, arg any) (*model.Donation, error) {
	d := &model.Donation{}
	var amount string
	var anonEmail, anonRef, notes sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, type, amount, status, donor_id, anonymous_email, anonymous_reference_id,
		        payment_id, location_id, notes, created_at, updated_at
		 FROM donations `+where, arg,
	).Scan(&d.ID, &d.Type, &amount, &d.Status, &d.DonorID, &anonEmail, &anonRef,
		&d.PaymentID, &d.LocationID, &notes, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting donation: %w", err)
	}

	if d.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("parsing donation amount: %w", err)
	}
	d.AnonymousEmail = anonEmail.String
	d.AnonymousReferenceID = anonRef.String
	d.Notes = notes.String

	if d.MediaIDs, err = listMediaIDs(ctx, db, `donation_id`, d.ID); err != nil {
		return nil, err
	}
	return d, nil
}

// ListDonations returns all donations, optionally filtered by status.
func ListDonations(ctx context.Context, db *sql.DB, status string) ([]model.Donation, error) {
	var rows *sql.Rows
	var err error

	if status != "" {
		rows, err = db.QueryContext(ctx,
			`SELECT id, type, amount, status, donor_id, anonymous_email, anonymous_reference_id,
			        payment_id, location_id, notes, created_at, updated_at
			 FROM donations WHERE status = ? ORDER BY created_at DESC, id DESC`, status,
		)
	} else {
		rows, err = db.QueryContext(ctx,
			`SELECT id, type, amount, status, donor_id, anonymous_email, anonymous_reference_id,
			        payment_id, location_id, notes, created_at, updated_at
			 FROM donations ORDER BY created_at DESC, id DESC`,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("listing donations: %w", err)
	}
	defer rows.Close()

	return scanDonations(rows)
}

// ListDonationsByDonor returns all donations made by a donor.
func ListDonationsByDonor(ctx context.Context, db *sql.DB, donorID int64) ([]model.Donation, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, type, amount, status, donor_id, anonymous_email, anonymous_reference_id,
		        payment_id, location_id, notes, created_at, updated_at
		 FROM donations WHERE donor_id = ? ORDER BY created_at DESC, id DESC`, donorID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing donor donations: %w", err)
	}
	defer rows.Close()

	return scanDonations(rows)
}

// UpdateDonationStatus sets a donation's status.
func UpdateDonationStatus(ctx context.Context, db *sql.DB, id int64, status string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE donations SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("updating donation status: %w", err)
	}
	return nil
}

// LinkDonationPayment records the payment backing a donation.
func LinkDonationPayment(ctx context.Context, db *sql.DB, donationID, paymentID int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE donations SET payment_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		paymentID, donationID,
	)
	if err != nil {
		return fmt.Errorf("linking donation payment: %w", err)
	}
	return nil
}

func scanDonations(rows *sql.Rows) ([]model.Donation, error) {
	var donations []model.Donation
	for rows.Next() {
		var d model.Donation
		var amount string
		var anonEmail, anonRef, notes sql.NullString
		if err := rows.Scan(&d.ID, &d.Type, &amount, &d.Status, &d.DonorID, &anonEmail, &anonRef,
			&d.PaymentID, &d.LocationID, &notes, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning donation: %w", err)
		}
		var err error
		if d.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parsing donation amount: %w", err)
		}
		d.AnonymousEmail = anonEmail.String
		d.AnonymousReferenceID = anonRef.String
		d.Notes = notes.String
		donations = append(donations, d)
	}
	return donations, rows.Err()
}
