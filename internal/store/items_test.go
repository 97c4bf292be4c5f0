package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"assettrack/internal/db"
	"assettrack/internal/model"
)

func createTestItem(t *testing.T, database *sql.DB, serial string) *model.Item {
	t.Helper()
	item, err := CreateItem(context.Background(), database, model.Item{
		Name:          "Laptop " + serial,
		Category:      "Laptop",
		Brand:         "Dell",
		Model:         "XPS 15",
		SerialNumber:  serial,
		Location:      "Office A",
		PurchaseDate:  time.Now(),
		PurchasePrice: 1500,
	})
	if err != nil {
		t.Fatalf("CreateItem(%s): %v", serial, err)
	}
	return item
}

func TestCreateItemDefaultsToAvailable(t *testing.T) {
	database := db.NewTestDB(t)

	item := createTestItem(t, database, "SN-001")
	if item.Status != model.StatusAvailable {
		t.Errorf("expected status Available, got %q", item.Status)
	}
}

func TestDuplicateSerialRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	createTestItem(t, database, "SN-001")

	_, err := CreateItem(ctx, database, model.Item{
		Name: "Other", Category: "Laptop", Brand: "HP", Model: "EliteBook",
		SerialNumber: "SN-001", Location: "Office B", PurchaseDate: time.Now(),
	})
	if !errors.Is(err, model.ErrDuplicateSerial) {
		t.Errorf("expected ErrDuplicateSerial, got %v", err)
	}
}

func TestListItemsByStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, database, "admin")
	createTestItem(t, database, "SN-001")
	item2 := createTestItem(t, database, "SN-002")
	ChangeItemStatus(ctx, database, item2.ID, user.ID, model.StatusDamaged, "")

	all, _ := ListItems(ctx, database, "")
	if len(all) != 2 {
		t.Errorf("expected 2 items, got %d", len(all))
	}

	available, _ := ListItems(ctx, database, model.StatusAvailable)
	if len(available) != 1 {
		t.Errorf("expected 1 available item, got %d", len(available))
	}
}

func TestUpdateItemLeavesStatusAlone(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, database, "admin")
	item := createTestItem(t, database, "SN-001")
	ChangeItemStatus(ctx, database, item.ID, user.ID, model.StatusUnderRepair, "")

	updated, err := UpdateItem(ctx, database, item.ID, model.Item{
		Name: "Renamed", Category: "Laptop", Brand: "Dell", Model: "XPS 15",
		SerialNumber: "SN-001", Location: "Office B", PurchaseDate: time.Now(),
	})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Errorf("expected name Renamed, got %q", updated.Name)
	}
	if updated.Status != model.StatusUnderRepair {
		t.Errorf("expected status to survive update, got %q", updated.Status)
	}
}

func TestDeleteAssignedItemRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin := createTestUser(t, database, "admin")
	employee := createTestUser(t, database, "employee")
	item := createTestItem(t, database, "SN-001")

	_, err := CreateAssignment(ctx, database, CreateAssignmentParams{
		ItemID: item.ID, EmployeeID: employee.ID, AssignedBy: admin.ID,
	})
	if err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}

	if err := DeleteItem(ctx, database, item.ID); !errors.Is(err, model.ErrItemAssigned) {
		t.Errorf("expected ErrItemAssigned, got %v", err)
	}
}

func TestSoftDeleteFreesSerial(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := createTestItem(t, database, "SN-001")
	if err := DeleteItem(ctx, database, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	items, _ := ListItems(ctx, database, "")
	if len(items) != 0 {
		t.Errorf("expected 0 items after soft delete, got %d", len(items))
	}

	if _, err := CreateItem(ctx, database, model.Item{
		Name: "Replacement", Category: "Laptop", Brand: "Dell", Model: "XPS 15",
		SerialNumber: "SN-001", Location: "Office A", PurchaseDate: time.Now(),
	}); err != nil {
		t.Errorf("expected serial reuse after soft delete, got %v", err)
	}
}

func TestChangeItemStatusWritesHistory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, database, "admin")
	item := createTestItem(t, database, "SN-001")

	changed, err := ChangeItemStatus(ctx, database, item.ID, user.ID, model.StatusDamaged, "dropped")
	if err != nil {
		t.Fatalf("ChangeItemStatus: %v", err)
	}
	if changed.Status != model.StatusDamaged {
		t.Errorf("expected status Damaged, got %q", changed.Status)
	}

	history, err := GetStatusHistory(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetStatusHistory: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(history))
	}
	entry := history[0]
	if entry.FromStatus != model.StatusAvailable || entry.ToStatus != model.StatusDamaged {
		t.Errorf("unexpected transition %q -> %q", entry.FromStatus, entry.ToStatus)
	}
	if entry.Note != "dropped" {
		t.Errorf("expected note 'dropped', got %q", entry.Note)
	}
	if entry.ChangedByName != user.FullName {
		t.Errorf("expected actor name %q, got %q", user.FullName, entry.ChangedByName)
	}
}

func TestChangeItemStatusNoOp(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, database, "admin")
	item := createTestItem(t, database, "SN-001")

	got, err := ChangeItemStatus(ctx, database, item.ID, user.ID, model.StatusAvailable, "")
	if err != nil {
		t.Fatalf("ChangeItemStatus: %v", err)
	}
	if got == nil || got.Status != model.StatusAvailable {
		t.Fatalf("expected item back from no-op change, got %+v", got)
	}

	history, _ := GetStatusHistory(ctx, database, item.ID)
	if len(history) != 0 {
		t.Errorf("expected no history for a same-status change, got %d entries", len(history))
	}

	// The no-op must release its connection; the test pool has only one,
	// so a follow-up change hangs if it leaks.
	if _, err := ChangeItemStatus(ctx, database, item.ID, user.ID, model.StatusDamaged, ""); err != nil {
		t.Fatalf("ChangeItemStatus after no-op: %v", err)
	}
}

func TestChangeItemStatusInvalid(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, database, "admin")
	item := createTestItem(t, database, "SN-001")

	_, err := ChangeItemStatus(ctx, database, item.ID, user.ID, "Broken", "")
	if !errors.Is(err, model.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestStatusHistoryLimit(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, database, "admin")
	item := createTestItem(t, database, "SN-001")

	// Alternate statuses so every change writes an entry.
	statuses := []string{model.StatusDamaged, model.StatusAvailable}
	for i := 0; i < 25; i++ {
		if _, err := ChangeItemStatus(ctx, database, item.ID, user.ID, statuses[i%2], fmt.Sprintf("change %d", i)); err != nil {
			t.Fatalf("ChangeItemStatus %d: %v", i, err)
		}
	}

	history, err := GetStatusHistory(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetStatusHistory: %v", err)
	}
	if len(history) != 20 {
		t.Errorf("expected history capped at 20 entries, got %d", len(history))
	}
	if history[0].Note != "change 24" {
		t.Errorf("expected newest entry first, got %q", history[0].Note)
	}
}

func TestItemPhoto(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := createTestItem(t, database, "SN-001")
	photoData := []byte("fake image data")
	if err := SetItemPhoto(ctx, database, item.ID, photoData, "image/jpeg"); err != nil {
		t.Fatalf("SetItemPhoto: %v", err)
	}

	data, mime, err := GetItemPhoto(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItemPhoto: %v", err)
	}
	if string(data) != "fake image data" {
		t.Errorf("expected photo data, got %q", string(data))
	}
	if mime != "image/jpeg" {
		t.Errorf("expected mime 'image/jpeg', got %q", mime)
	}
}
