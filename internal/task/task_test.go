package task

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mabuhanifa/aahaar-backend/internal/apperr"
	"github.com/mabuhanifa/aahaar-backend/internal/db"
	"github.com/mabuhanifa/aahaar-backend/internal/inventory"
	"github.com/mabuhanifa/aahaar-backend/internal/model"
	"github.com/mabuhanifa/aahaar-backend/internal/notify"
	"github.com/mabuhanifa/aahaar-backend/internal/store"
)

// fakeSender records dispatched notifications.
type fakeSender struct {
	sent []sentNotification
}

type sentNotification struct {
	Type    string
	Payload map[string]any
}

func (f *fakeSender) Send(_ context.Context, notificationType string, _ notify.Recipient, payload map[string]any) {
	f.sent = append(f.sent, sentNotification{notificationType, payload})
}

func (f *fakeSender) countByType(notificationType string) int {
	n := 0
	for _, s := range f.sent {
		if s.Type == notificationType {
			n++
		}
	}
	return n
}

func newTestEngine(t *testing.T) (*Engine, *sql.DB, *fakeSender) {
	t.Helper()
	database := db.NewTestDB(t)
	sender := &fakeSender{}
	inv := &inventory.Engine{DB: database, Notifier: sender}
	return &Engine{DB: database, Inventory: inv, Notifier: sender}, database, sender
}

func createDonation(t *testing.T, database *sql.DB) *model.Donation {
	t.Helper()
	d, err := store.CreateDonation(context.Background(), database,
		model.DonationTypeFeedingPeople, decimal.NewFromInt(500), nil, "anon@example.org", "ref-1", nil, "")
	if err != nil {
		t.Fatalf("CreateDonation: %v", err)
	}
	return d
}

func TestCreateTaskDefaults(t *testing.T) {
	engine, database, _ := newTestEngine(t)
	ctx := context.Background()
	donation := createDonation(t, database)

	task, err := engine.Create(ctx, model.TaskTypePrepareFood, donation.ID, nil, nil, "cook for 50")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if task.Status != model.TaskStatusNotStarted {
		t.Errorf("expected not_started, got %s", task.Status)
	}
	if !task.AutoAssigned {
		t.Error("expected autoAssigned for a task created without staff")
	}
}

func TestCreateTaskWithStaffNotAutoAssigned(t *testing.T) {
	engine, database, _ := newTestEngine(t)
	ctx := context.Background()
	donation := createDonation(t, database)

	staff, _ := store.CreateUser(ctx, database, "cook@example.org", "x", "Cook", []string{model.RoleCook}, nil)

	task, err := engine.Create(ctx, model.TaskTypePrepareFood, donation.ID, &staff.ID, nil, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.AutoAssigned {
		t.Error("expected autoAssigned=false when staff assigned at creation")
	}
}

func TestCreateTaskUnknownDonation(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	if _, err := engine.Create(context.Background(), model.TaskTypePrepareFood, 999, nil, nil, ""); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAssignTask(t *testing.T) {
	engine, database, _ := newTestEngine(t)
	ctx := context.Background()
	donation := createDonation(t, database)

	task, _ := engine.Create(ctx, model.TaskTypeDeliverRation, donation.ID, nil, nil, "")
	staff, _ := store.CreateUser(ctx, database, "volunteer@example.org", "x", "Vol", []string{model.RoleVolunteer}, nil)

	updated, err := engine.Assign(ctx, task.ID, staff.ID)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if updated.AssignedStaffID == nil || *updated.AssignedStaffID != staff.ID {
		t.Errorf("expected staff %d assigned, got %v", staff.ID, updated.AssignedStaffID)
	}
	if updated.AutoAssigned {
		t.Error("explicit assignment must force autoAssigned=false")
	}
}

func TestAssignUnknownTask(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	if _, err := engine.Assign(context.Background(), 999, 1); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStatusUnknownTask(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	if _, _, err := engine.UpdateStatus(context.Background(), 999, model.TaskStatusCompleted); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStatusInvalidStatus(t *testing.T) {
	engine, database, _ := newTestEngine(t)
	donation := createDonation(t, database)
	task, _ := engine.Create(context.Background(), model.TaskTypeRecordMedia, donation.ID, nil, nil, "")

	if _, _, err := engine.UpdateStatus(context.Background(), task.ID, "done"); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestCompletionDeductsRequirements(t *testing.T) {
	engine, database, sender := newTestEngine(t)
	ctx := context.Background()
	donation := createDonation(t, database)

	store.CreateInventoryItem(ctx, database, "Rice", "kg", 100, 10, "")
	store.CreateInventoryItem(ctx, database, "Lentils", "kg", 50, 10, "")

	task, _ := engine.Create(ctx, model.TaskTypePrepareFood, donation.ID, nil, nil, "")

	updated, warnings, err := engine.UpdateStatus(ctx, task.ID, model.TaskStatusCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != model.TaskStatusCompleted {
		t.Errorf("expected completed, got %s", updated.Status)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}

	rice, _ := store.GetInventoryItemByName(ctx, database, "Rice")
	if rice.Stock != 99 {
		t.Errorf("expected Rice stock 99, got %v", rice.Stock)
	}
	lentils, _ := store.GetInventoryItemByName(ctx, database, "Lentils")
	if lentils.Stock != 49.5 {
		t.Errorf("expected Lentils stock 49.5, got %v", lentils.Stock)
	}

	if n := sender.countByType(notify.TypeTaskCompleted); n != 1 {
		t.Errorf("expected exactly 1 TASK_COMPLETED, got %d", n)
	}
}

func TestCompletionIsIdempotent(t *testing.T) {
	engine, database, sender := newTestEngine(t)
	ctx := context.Background()
	donation := createDonation(t, database)

	store.CreateInventoryItem(ctx, database, "Rice", "kg", 100, 10, "")
	store.CreateInventoryItem(ctx, database, "Lentils", "kg", 50, 10, "")

	task, _ := engine.Create(ctx, model.TaskTypePrepareFood, donation.ID, nil, nil, "")

	if _, _, err := engine.UpdateStatus(ctx, task.ID, model.TaskStatusCompleted); err != nil {
		t.Fatalf("first completion: %v", err)
	}
	if _, warnings, err := engine.UpdateStatus(ctx, task.ID, model.TaskStatusCompleted); err != nil {
		t.Fatalf("second completion: %v", err)
	} else if len(warnings) != 0 {
		t.Errorf("expected no warnings on re-completion, got %v", warnings)
	}

	// Deduction and notification fire exactly once total.
	rice, _ := store.GetInventoryItemByName(ctx, database, "Rice")
	if rice.Stock != 99 {
		t.Errorf("expected Rice stock 99 after double completion, got %v", rice.Stock)
	}
	if n := sender.countByType(notify.TypeTaskCompleted); n != 1 {
		t.Errorf("expected exactly 1 TASK_COMPLETED, got %d", n)
	}
}

func TestCompletionWithMissingItemStillCompletes(t *testing.T) {
	engine, database, sender := newTestEngine(t)
	ctx := context.Background()
	donation := createDonation(t, database)

	// Only Rice exists; the Lentils deduction fails and is reported.
	store.CreateInventoryItem(ctx, database, "Rice", "kg", 100, 10, "")

	task, _ := engine.Create(ctx, model.TaskTypePrepareFood, donation.ID, nil, nil, "")

	updated, warnings, err := engine.UpdateStatus(ctx, task.ID, model.TaskStatusCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != model.TaskStatusCompleted {
		t.Errorf("deduction failure must not block completion; got %s", updated.Status)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning for Lentils, got %v", warnings)
	}

	rice, _ := store.GetInventoryItemByName(ctx, database, "Rice")
	if rice.Stock != 99 {
		t.Errorf("expected Rice deducted to 99, got %v", rice.Stock)
	}
	if n := sender.countByType(notify.TypeTaskCompleted); n != 1 {
		t.Errorf("completion notification must fire despite warnings; got %d", n)
	}
}

func TestDeliverRationAtZeroStock(t *testing.T) {
	engine, database, sender := newTestEngine(t)
	ctx := context.Background()
	donation := createDonation(t, database)

	store.CreateInventoryItem(ctx, database, "Ration Pack", "piece", 0, 5, "")

	task, _ := engine.Create(ctx, model.TaskTypeDeliverRation, donation.ID, nil, nil, "")

	updated, warnings, err := engine.UpdateStatus(ctx, task.ID, model.TaskStatusCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != model.TaskStatusCompleted {
		t.Errorf("expected completed, got %s", updated.Status)
	}
	if len(warnings) != 0 {
		t.Errorf("over-deduction is allowed, expected no warnings, got %v", warnings)
	}

	pack, _ := store.GetInventoryItemByName(ctx, database, "Ration Pack")
	if pack.Stock != -1 {
		t.Errorf("expected stock -1, got %v", pack.Stock)
	}

	if n := sender.countByType(notify.TypeLowInventory); n != 1 {
		t.Errorf("expected 1 LOW_INVENTORY alert, got %d", n)
	}
	if n := sender.countByType(notify.TypeTaskCompleted); n != 1 {
		t.Errorf("expected exactly 1 TASK_COMPLETED, got %d", n)
	}
}

func TestRecordMediaCompletionConsumesNothing(t *testing.T) {
	engine, database, sender := newTestEngine(t)
	ctx := context.Background()
	donation := createDonation(t, database)

	store.CreateInventoryItem(ctx, database, "Rice", "kg", 100, 10, "")

	task, _ := engine.Create(ctx, model.TaskTypeRecordMedia, donation.ID, nil, nil, "")

	_, warnings, err := engine.UpdateStatus(ctx, task.ID, model.TaskStatusCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}

	rice, _ := store.GetInventoryItemByName(ctx, database, "Rice")
	if rice.Stock != 100 {
		t.Errorf("record_media must not consume inventory; stock %v", rice.Stock)
	}
	if n := sender.countByType(notify.TypeTaskCompleted); n != 1 {
		t.Errorf("expected 1 TASK_COMPLETED, got %d", n)
	}
}

func TestBackwardTransitionAllowed(t *testing.T) {
	engine, database, _ := newTestEngine(t)
	ctx := context.Background()
	donation := createDonation(t, database)

	task, _ := engine.Create(ctx, model.TaskTypeRecordMedia, donation.ID, nil, nil, "")

	if _, _, err := engine.UpdateStatus(ctx, task.ID, model.TaskStatusCompleted); err != nil {
		t.Fatalf("completing: %v", err)
	}

	// The transition graph is not enforced; moving backward is permitted.
	updated, _, err := engine.UpdateStatus(ctx, task.ID, model.TaskStatusNotStarted)
	if err != nil {
		t.Fatalf("backward transition: %v", err)
	}
	if updated.Status != model.TaskStatusNotStarted {
		t.Errorf("expected not_started, got %s", updated.Status)
	}
}

func TestCompletionPayload(t *testing.T) {
	engine, database, sender := newTestEngine(t)
	ctx := context.Background()
	donation := createDonation(t, database)

	staff, _ := store.CreateUser(ctx, database, "cook@example.org", "x", "Cook", []string{model.RoleCook}, nil)
	task, _ := engine.Create(ctx, model.TaskTypeRecordMedia, donation.ID, &staff.ID, nil, "")

	if _, _, err := engine.UpdateStatus(ctx, task.ID, model.TaskStatusCompleted); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	var completed *sentNotification
	for i := range sender.sent {
		if sender.sent[i].Type == notify.TypeTaskCompleted {
			completed = &sender.sent[i]
		}
	}
	if completed == nil {
		t.Fatal("no TASK_COMPLETED notification")
	}

	if completed.Payload["taskId"] != task.ID {
		t.Errorf("unexpected taskId: %v", completed.Payload["taskId"])
	}
	if completed.Payload["taskType"] != model.TaskTypeRecordMedia {
		t.Errorf("unexpected taskType: %v", completed.Payload["taskType"])
	}
	if completed.Payload["donationId"] != donation.ID {
		t.Errorf("unexpected donationId: %v", completed.Payload["donationId"])
	}
	if completed.Payload["assignedStaffId"] != staff.ID {
		t.Errorf("unexpected assignedStaffId: %v", completed.Payload["assignedStaffId"])
	}
}
