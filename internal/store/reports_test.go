package store

import (
	"context"
	"testing"

	"assettrack/internal/db"
	"assettrack/internal/model"
)

func TestGetOverview(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin := createTestUser(t, database, "admin")
	employee := createTestUser(t, database, "employee")

	createTestItem(t, database, "SN-001")
	assigned := createTestItem(t, database, "SN-002")
	repair := createTestItem(t, database, "SN-003")

	CreateAssignment(ctx, database, CreateAssignmentParams{
		ItemID: assigned.ID, EmployeeID: employee.ID, AssignedBy: admin.ID,
	})
	ChangeItemStatus(ctx, database, repair.ID, admin.ID, model.StatusUnderRepair, "")

	overview, err := GetOverview(ctx, database)
	if err != nil {
		t.Fatalf("GetOverview: %v", err)
	}
	if overview.TotalItems != 3 {
		t.Errorf("expected 3 items, got %d", overview.TotalItems)
	}
	if overview.AvailableItems != 1 {
		t.Errorf("expected 1 available item, got %d", overview.AvailableItems)
	}
	if overview.AssignedItems != 1 {
		t.Errorf("expected 1 assigned item, got %d", overview.AssignedItems)
	}
	if overview.UnderRepairItems != 1 {
		t.Errorf("expected 1 item under repair, got %d", overview.UnderRepairItems)
	}
	if overview.TotalUsers != 2 {
		t.Errorf("expected 2 users, got %d", overview.TotalUsers)
	}
	if overview.ActiveAssignments != 1 {
		t.Errorf("expected 1 active assignment, got %d", overview.ActiveAssignments)
	}
}
