package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mabuhanifa/aahaar-backend/internal/model"
)

// CreatePayment records a pending gateway transaction for a donation.
func CreatePayment(ctx context.Context, db *sql.DB, donationID int64, amount decimal.Decimal, method, transactionID, notes string) (*model.Payment, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO payments (donation_id, amount, method, transaction_id, notes)
		 VALUES (?, ?, ?, ?, ?)`,
		donationID, amount.String(), method, transactionID, notes,
	)
	if err != nil {
		return nil, fmt.Errorf("creating payment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting payment id: %w", err)
	}

	return GetPayment(ctx, db, id)
}

// GetPayment returns a payment by ID.
func GetPayment(ctx context.Context, db *sql.DB, id int64) (*model.Payment, error) {
	return getPayment(ctx, db, `WHERE id = ?`, id)
}

// GetPaymentByTransactionID returns a payment by its gateway transaction ID.
func GetPaymentByTransactionID(ctx context.Context, db *sql.DB, transactionID string) (*model.Payment, error) {
	return getPayment(ctx, db, `WHERE transaction_id = ?`, transactionID)
}

// GetPaymentByDonation returns the most recent payment for a donation.
func GetPaymentByDonation(ctx context.Context, db *sql.DB, donationID int64) (*model.Payment, error) {
	return getPayment(ctx, db, `WHERE donation_id = ? ORDER BY id DESC LIMIT 1`, donationID)
}

func getPayment(ctx context.Context, db *sql.DB, where string, arg any) (*model.Payment, error) {
	p := &model.Payment{}
	var amount string
	var notes sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, donation_id, amount, method, status, transaction_id, notes, created_at, updated_at
		 FROM payments `+where, arg,
	).Scan(&p.ID, &p.DonationID, &amount, &p.Method, &p.Status, &p.TransactionID, &notes, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting payment: %w", err)
	}

	if p.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("parsing payment amount: %w", err)
	}
	p.Notes = notes.String
	return p, nil
}

// UpdatePaymentStatus sets a payment's status.
func UpdatePaymentStatus(ctx context.Context, db *sql.DB, id int64, status string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE payments SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("updating payment status: %w", err)
	}
	return nil
}
