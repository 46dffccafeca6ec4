package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment represents a payment-gateway transaction backing a donation.
type Payment struct {
	ID            int64           `json:"id"`
	DonationID    int64           `json:"donation_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	Status        string          `json:"status"`
	TransactionID string          `json:"transaction_id"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Payment methods.
const (
	PaymentMethodStripe = "stripe"
	PaymentMethodPayPal = "paypal"
	PaymentMethodMocked = "mocked"
)

// Payment statuses, as reported by the gateway.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)
