package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Donation represents a monetary donation, authenticated or anonymous.
// Anonymous donations carry a contact email and a reference ID the
// donor can use to look up fulfilment proof later.
type Donation struct {
	ID                   int64           `json:"id"`
	Type                 string          `json:"type"`
	Amount               decimal.Decimal `json:"amount"`
	Status               string          `json:"status"`
	DonorID              *int64          `json:"donor_id,omitempty"`
	AnonymousEmail       string          `json:"anonymous_email,omitempty"`
	AnonymousReferenceID string          `json:"anonymous_reference_id,omitempty"`
	PaymentID            *int64          `json:"payment_id,omitempty"`
	LocationID           *int64          `json:"location_id,omitempty"`
	Notes                string          `json:"notes,omitempty"`
	MediaIDs             []int64         `json:"media_ids,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// Donation types.
const (
	DonationTypeFeedingPeople = "feeding_people"
	DonationTypeGivingRation  = "giving_ration"
	DonationTypeRandomAmount  = "random_amount"
)

// Donation statuses.
const (
	DonationStatusPending    = "pending"
	DonationStatusInProgress = "in_progress"
	DonationStatusFulfilled  = "fulfilled"
	DonationStatusVerified   = "verified"
	DonationStatusCancelled  = "cancelled"
)

// ValidDonationType reports whether t is a known donation type.
func ValidDonationType(t string) bool {
	switch t {
	case DonationTypeFeedingPeople, DonationTypeGivingRation, DonationTypeRandomAmount:
		return true
	}
	return false
}
