package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"assettrack/internal/db"
	"assettrack/internal/model"
)

func TestCreateMaintenanceRequestDefaults(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, database, "reporter")
	item := createTestItem(t, database, "SN-001")

	request, err := CreateMaintenanceRequest(ctx, database, item.ID, user.ID, "screen flickers", "")
	if err != nil {
		t.Fatalf("CreateMaintenanceRequest: %v", err)
	}
	if request.Priority != model.PriorityLow {
		t.Errorf("expected default priority Low, got %q", request.Priority)
	}
	if request.Status != model.MaintenanceOpen {
		t.Errorf("expected status Open, got %q", request.Status)
	}
	if request.RequesterName != user.FullName {
		t.Errorf("expected requester name %q, got %q", user.FullName, request.RequesterName)
	}

	// Reporting a problem does not change the item's status.
	got, _ := GetItem(ctx, database, item.ID)
	if got.Status != model.StatusAvailable {
		t.Errorf("expected item to stay Available, got %q", got.Status)
	}
}

func TestCreateMaintenanceRequestValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, database, "reporter")
	item := createTestItem(t, database, "SN-001")

	_, err := CreateMaintenanceRequest(ctx, database, 9999, user.ID, "broken", "")
	if !errors.Is(err, model.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}

	_, err = CreateMaintenanceRequest(ctx, database, item.ID, user.ID, "broken", "Urgent")
	if !errors.Is(err, model.ErrInvalidPriority) {
		t.Errorf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestResolveFreesItemUnderRepair(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin := createTestUser(t, database, "admin")
	item := createTestItem(t, database, "SN-001")
	ChangeItemStatus(ctx, database, item.ID, admin.ID, model.StatusUnderRepair, "")

	request, _ := CreateMaintenanceRequest(ctx, database, item.ID, admin.ID, "battery swap", model.PriorityHigh)

	resolved, err := UpdateMaintenanceRequest(ctx, database, request.ID, admin.ID, model.MaintenanceResolved, nil)
	if err != nil {
		t.Fatalf("UpdateMaintenanceRequest: %v", err)
	}
	if resolved.Status != model.MaintenanceResolved {
		t.Errorf("expected status Resolved, got %q", resolved.Status)
	}
	if resolved.ResolvedAt == nil || resolved.ResolvedBy == nil {
		t.Error("expected resolution timestamp and resolver to be stamped")
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Status != model.StatusAvailable {
		t.Errorf("expected item freed to Available, got %q", got.Status)
	}
}

func TestResolveLeavesOtherItemStatusesAlone(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin := createTestUser(t, database, "admin")
	employee := createTestUser(t, database, "employee")
	item := createTestItem(t, database, "SN-001")

	CreateAssignment(ctx, database, CreateAssignmentParams{
		ItemID: item.ID, EmployeeID: employee.ID, AssignedBy: admin.ID,
	})

	request, _ := CreateMaintenanceRequest(ctx, database, item.ID, employee.ID, "sticky key", "")
	if _, err := UpdateMaintenanceRequest(ctx, database, request.ID, admin.ID, model.MaintenanceResolved, nil); err != nil {
		t.Fatalf("UpdateMaintenanceRequest: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Status != model.StatusAssigned {
		t.Errorf("expected assigned item to stay Assigned, got %q", got.Status)
	}
}

func TestUpdateMaintenanceDueDate(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin := createTestUser(t, database, "admin")
	item := createTestItem(t, database, "SN-001")
	request, _ := CreateMaintenanceRequest(ctx, database, item.ID, admin.ID, "annual service", "")

	due := time.Now().AddDate(0, 0, 7)
	updated, err := UpdateMaintenanceRequest(ctx, database, request.ID, admin.ID, model.MaintenanceInProgress, &due)
	if err != nil {
		t.Fatalf("UpdateMaintenanceRequest: %v", err)
	}
	if updated.Status != model.MaintenanceInProgress {
		t.Errorf("expected status In Progress, got %q", updated.Status)
	}
	if updated.DueDate == nil {
		t.Error("expected due date to be set")
	}
	if updated.ResolvedAt != nil {
		t.Error("expected no resolution timestamp before Resolved")
	}
}

func TestListMaintenanceRequestsByUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, database, "alice")
	bob := createTestUser(t, database, "bob")
	item := createTestItem(t, database, "SN-001")

	CreateMaintenanceRequest(ctx, database, item.ID, alice.ID, "issue one", "")
	CreateMaintenanceRequest(ctx, database, item.ID, bob.ID, "issue two", "")

	mine, _ := ListMaintenanceRequestsByUser(ctx, database, alice.ID)
	if len(mine) != 1 {
		t.Errorf("expected 1 request for alice, got %d", len(mine))
	}

	all, _ := ListMaintenanceRequests(ctx, database)
	if len(all) != 2 {
		t.Errorf("expected 2 requests total, got %d", len(all))
	}
}
