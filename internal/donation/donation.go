// Package donation implements donation intake: recording the donation,
// initiating its payment and notifying the donor.
package donation

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mabuhanifa/aahaar-backend/internal/apperr"
	"github.com/mabuhanifa/aahaar-backend/internal/model"
	"github.com/mabuhanifa/aahaar-backend/internal/notify"
	"github.com/mabuhanifa/aahaar-backend/internal/payment"
	"github.com/mabuhanifa/aahaar-backend/internal/store"
)

// Service handles donation intake and lookups.
type Service struct {
	DB       *sql.DB
	Payments *payment.Service
	Notifier notify.Sender
}

// Create records a donation and initiates its payment. Authenticated
// donations reference the donor; anonymous donations carry a contact
// email and get a generated reference ID for later proof lookup.
//
// Payment initiation failure cancels the donation but is not returned
// as an error: the donation record survives for auditing.
func (s *Service) Create(ctx context.Context, donationType string, amount decimal.Decimal, notes string, locationID *int64, donor *model.User, anonymousEmail string) (*model.Donation, error) {
	if !model.ValidDonationType(donationType) {
		return nil, fmt.Errorf("donation type %q: %w", donationType, apperr.ErrInvalidArgument)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("donation amount must be positive: %w", apperr.ErrInvalidArgument)
	}
	if donor == nil && anonymousEmail == "" {
		return nil, fmt.Errorf("anonymous donation requires an email: %w", apperr.ErrInvalidArgument)
	}

	var donorID *int64
	referenceID := ""
	if donor != nil {
		donorID = &donor.ID
		anonymousEmail = ""
	} else {
		referenceID = uuid.NewString()
	}

	d, err := store.CreateDonation(ctx, s.DB, donationType, amount, donorID, anonymousEmail, referenceID, locationID, notes)
	if err != nil {
		return nil, err
	}

	if _, err := s.Payments.CreateIntent(ctx, d.ID, amount); err != nil {
		slog.Error("payment initiation failed", "donation", d.ID, "error", err)
		if err := store.UpdateDonationStatus(ctx, s.DB, d.ID, model.DonationStatusCancelled); err != nil {
			slog.Error("cancelling donation after failed payment initiation", "donation", d.ID, "error", err)
		}
	}

	recipient := notify.Email(anonymousEmail)
	if donor != nil {
		recipient = notify.User(donor.ID)
	}
	s.Notifier.Send(ctx, notify.TypeDonationReceived, recipient, map[string]any{
		"donationId":  d.ID,
		"amount":      amount.String(),
		"type":        donationType,
		"referenceId": referenceID,
	})

	return store.GetDonation(ctx, s.DB, d.ID)
}

// Get returns a donation by ID.
func (s *Service) Get(ctx context.Context, id int64) (*model.Donation, error) {
	d, err := store.GetDonation(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("donation %d: %w", id, apperr.ErrNotFound)
	}
	return d, nil
}

// GetByReference returns an anonymous donation by its reference ID.
func (s *Service) GetByReference(ctx context.Context, referenceID string) (*model.Donation, error) {
	d, err := store.GetDonationByReference(ctx, s.DB, referenceID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("donation reference %q: %w", referenceID, apperr.ErrNotFound)
	}
	return d, nil
}
