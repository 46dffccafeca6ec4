package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mabuhanifa/aahaar-backend/internal/db"
	"github.com/mabuhanifa/aahaar-backend/internal/model"
)

func TestCreateAndGetPayment(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	d, _ := CreateDonation(ctx, database, model.DonationTypeRandomAmount, decimal.NewFromInt(250), nil, "a@b.c", "ref-p", nil, "")

	p, err := CreatePayment(ctx, database, d.ID, d.Amount, model.PaymentMethodMocked, "txn_123", "")
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if p.Status != model.PaymentStatusPending {
		t.Errorf("expected pending, got %s", p.Status)
	}

	byTxn, err := GetPaymentByTransactionID(ctx, database, "txn_123")
	if err != nil {
		t.Fatalf("GetPaymentByTransactionID: %v", err)
	}
	if byTxn == nil || byTxn.ID != p.ID {
		t.Errorf("expected payment %d, got %+v", p.ID, byTxn)
	}

	byDonation, err := GetPaymentByDonation(ctx, database, d.ID)
	if err != nil {
		t.Fatalf("GetPaymentByDonation: %v", err)
	}
	if byDonation == nil || byDonation.ID != p.ID {
		t.Errorf("expected payment %d, got %+v", p.ID, byDonation)
	}

	if missing, _ := GetPaymentByTransactionID(ctx, database, "txn_unknown"); missing != nil {
		t.Error("expected nil for unknown transaction")
	}
}

func TestUpdatePaymentStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	d, _ := CreateDonation(ctx, database, model.DonationTypeRandomAmount, decimal.NewFromInt(80), nil, "a@b.c", "ref-q", nil, "")
	p, _ := CreatePayment(ctx, database, d.ID, d.Amount, model.PaymentMethodMocked, "txn_456", "")

	if err := UpdatePaymentStatus(ctx, database, p.ID, model.PaymentStatusCompleted); err != nil {
		t.Fatalf("UpdatePaymentStatus: %v", err)
	}

	got, _ := GetPayment(ctx, database, p.ID)
	if got.Status != model.PaymentStatusCompleted {
		t.Errorf("expected completed, got %s", got.Status)
	}
}

func TestDuplicateTransactionIDRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	d, _ := CreateDonation(ctx, database, model.DonationTypeRandomAmount, decimal.NewFromInt(80), nil, "a@b.c", "ref-r", nil, "")
	CreatePayment(ctx, database, d.ID, d.Amount, model.PaymentMethodMocked, "txn_dup", "")
	if _, err := CreatePayment(ctx, database, d.ID, d.Amount, model.PaymentMethodMocked, "txn_dup", ""); err == nil {
		t.Error("expected error for duplicate transaction id")
	}
}
