package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mabuhanifa/aahaar-backend/internal/db"
	"github.com/mabuhanifa/aahaar-backend/internal/model"
)

func TestCreateAndGetDonation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	d, err := CreateDonation(ctx, database, model.DonationTypeGivingRation,
		decimal.RequireFromString("1500.50"), nil, "anon@example.org", "ref-abc", nil, "eid gift")
	if err != nil {
		t.Fatalf("CreateDonation: %v", err)
	}
	if d.Status != model.DonationStatusPending {
		t.Errorf("expected pending, got %s", d.Status)
	}
	if !d.Amount.Equal(decimal.RequireFromString("1500.50")) {
		t.Errorf("expected amount 1500.50, got %s", d.Amount)
	}

	byRef, err := GetDonationByReference(ctx, database, "ref-abc")
	if err != nil {
		t.Fatalf("GetDonationByReference: %v", err)
	}
	if byRef == nil || byRef.ID != d.ID {
		t.Errorf("expected donation %d by reference, got %+v", d.ID, byRef)
	}

	if missing, _ := GetDonationByReference(ctx, database, "nope"); missing != nil {
		t.Error("expected nil for unknown reference")
	}
}

func TestListDonationsByDonor(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	donor, _ := CreateUser(ctx, database, "donor@example.org", "hash", "Donor", []string{model.RoleDonor}, nil)

	CreateDonation(ctx, database, model.DonationTypeFeedingPeople, decimal.NewFromInt(100), &donor.ID, "", "", nil, "")
	CreateDonation(ctx, database, model.DonationTypeRandomAmount, decimal.NewFromInt(200), &donor.ID, "", "", nil, "")
	CreateDonation(ctx, database, model.DonationTypeRandomAmount, decimal.NewFromInt(300), nil, "other@example.org", "ref-x", nil, "")

	mine, err := ListDonationsByDonor(ctx, database, donor.ID)
	if err != nil {
		t.Fatalf("ListDonationsByDonor: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("expected 2 donations, got %d", len(mine))
	}

	all, err := ListDonations(ctx, database, "")
	if err != nil {
		t.Fatalf("ListDonations: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 donations, got %d", len(all))
	}
}

func TestUpdateDonationStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	d, _ := CreateDonation(ctx, database, model.DonationTypeRandomAmount, decimal.NewFromInt(50), nil, "a@b.c", "ref-1", nil, "")

	if err := UpdateDonationStatus(ctx, database, d.ID, model.DonationStatusFulfilled); err != nil {
		t.Fatalf("UpdateDonationStatus: %v", err)
	}

	got, _ := GetDonation(ctx, database, d.ID)
	if got.Status != model.DonationStatusFulfilled {
		t.Errorf("expected fulfilled, got %s", got.Status)
	}

	pending, _ := ListDonations(ctx, database, model.DonationStatusPending)
	if len(pending) != 0 {
		t.Errorf("expected no pending donations, got %d", len(pending))
	}
}

func TestDuplicateReferenceRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateDonation(ctx, database, model.DonationTypeRandomAmount, decimal.NewFromInt(10), nil, "a@b.c", "ref-dup", nil, "")
	if _, err := CreateDonation(ctx, database, model.DonationTypeRandomAmount, decimal.NewFromInt(20), nil, "d@e.f", "ref-dup", nil, ""); err == nil {
		t.Error("expected error for duplicate reference id")
	}
}
