// Package payment records gateway transactions backing donations. The
// gateway itself is opaque: this package only creates intents through
// it and applies the status events it reports back.
package payment

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mabuhanifa/aahaar-backend/internal/apperr"
	"github.com/mabuhanifa/aahaar-backend/internal/model"
	"github.com/mabuhanifa/aahaar-backend/internal/store"
)

// Gateway creates payment intents with an external payment provider
// and returns the provider's transaction ID.
type Gateway interface {
	CreateIntent(ctx context.Context, donationID int64, amount decimal.Decimal) (transactionID string, err error)
}

// MockGateway is the placeholder gateway used when no real provider is
// configured. Intents always succeed with a generated transaction ID.
type MockGateway struct{}

// CreateIntent implements Gateway.
func (MockGateway) CreateIntent(_ context.Context, _ int64, _ decimal.Decimal) (string, error) {
	return "mock_" + uuid.NewString(), nil
}

// Service books payments against donations.
type Service struct {
	DB      *sql.DB
	Gateway Gateway
	Method  string // payment method recorded on new intents
}

func (s *Service) method() string {
	if s.Method == "" {
		return model.PaymentMethodMocked
	}
	return s.Method
}

// CreateIntent asks the gateway for a payment intent, records the
// pending payment and links it to the donation.
func (s *Service) CreateIntent(ctx context.Context, donationID int64, amount decimal.Decimal) (*model.Payment, error) {
	transactionID, err := s.Gateway.CreateIntent(ctx, donationID, amount)
	if err != nil {
		return nil, fmt.Errorf("creating payment intent: %w", err)
	}

	p, err := store.CreatePayment(ctx, s.DB, donationID, amount, s.method(), transactionID,
		"payment intent "+transactionID)
	if err != nil {
		return nil, err
	}

	if err := store.LinkDonationPayment(ctx, s.DB, donationID, p.ID); err != nil {
		return nil, err
	}

	slog.Info("payment intent created", "donation", donationID, "transaction", transactionID)
	return p, nil
}

// HandleGatewayEvent applies a status event reported by the gateway for
// a transaction. Payment completion moves the backing donation into
// fulfilment; failure cancels it.
func (s *Service) HandleGatewayEvent(ctx context.Context, transactionID, status string) error {
	p, err := store.GetPaymentByTransactionID(ctx, s.DB, transactionID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("payment with transaction %q: %w", transactionID, apperr.ErrNotFound)
	}

	switch status {
	case model.PaymentStatusCompleted:
		if err := store.UpdatePaymentStatus(ctx, s.DB, p.ID, model.PaymentStatusCompleted); err != nil {
			return err
		}
		if err := store.UpdateDonationStatus(ctx, s.DB, p.DonationID, model.DonationStatusInProgress); err != nil {
			return err
		}
		slog.Info("payment completed", "transaction", transactionID, "donation", p.DonationID)
	case model.PaymentStatusFailed:
		if err := store.UpdatePaymentStatus(ctx, s.DB, p.ID, model.PaymentStatusFailed); err != nil {
			return err
		}
		if err := store.UpdateDonationStatus(ctx, s.DB, p.DonationID, model.DonationStatusCancelled); err != nil {
			return err
		}
		slog.Warn("payment failed", "transaction", transactionID, "donation", p.DonationID)
	case model.PaymentStatusRefunded:
		if err := store.UpdatePaymentStatus(ctx, s.DB, p.ID, model.PaymentStatusRefunded); err != nil {
			return err
		}
		slog.Info("payment refunded", "transaction", transactionID, "donation", p.DonationID)
	default:
		return fmt.Errorf("payment status %q: %w", status, apperr.ErrInvalidArgument)
	}

	return nil
}
