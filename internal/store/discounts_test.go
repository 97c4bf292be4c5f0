package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"assettrack/internal/db"
	"assettrack/internal/model"
)

func TestCreateDiscountComputesPrice(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin := createTestUser(t, database, "admin")
	employee := createTestUser(t, database, "employee")
	item, err := CreateItem(ctx, database, model.Item{
		Name: "Monitor", Category: "Monitor", Brand: "LG", Model: "27UK850",
		SerialNumber: "SN-001", Location: "Office A",
		PurchaseDate: time.Now(), PurchasePrice: 1000,
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	date := time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC)
	discount, err := CreateDiscount(ctx, database, item.ID, employee.ID, admin.ID, date)
	if err != nil {
		t.Fatalf("CreateDiscount: %v", err)
	}
	if discount.Percent != 11 {
		t.Errorf("expected 11%% on day 11, got %d%%", discount.Percent)
	}
	if discount.OriginalPrice != 1000 {
		t.Errorf("expected original price 1000, got %v", discount.OriginalPrice)
	}
	if discount.DiscountedPrice != 890 {
		t.Errorf("expected discounted price 890, got %v", discount.DiscountedPrice)
	}
	if discount.RecipientName != employee.FullName {
		t.Errorf("expected recipient name %q, got %q", employee.FullName, discount.RecipientName)
	}

	// Granting a discount leaves the item Available, so it can be granted again.
	if _, err := CreateDiscount(ctx, database, item.ID, employee.ID, admin.ID, date); err != nil {
		t.Errorf("expected repeated discount to succeed, got %v", err)
	}
}

func TestDiscountWindowRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin := createTestUser(t, database, "admin")
	employee := createTestUser(t, database, "employee")
	item := createTestItem(t, database, "SN-001")

	date := time.Date(2026, time.March, 16, 0, 0, 0, 0, time.UTC)
	_, err := CreateDiscount(ctx, database, item.ID, employee.ID, admin.ID, date)
	if !errors.Is(err, model.ErrDiscountWindow) {
		t.Errorf("expected ErrDiscountWindow on day 16, got %v", err)
	}
}

func TestDiscountRequiresAvailableItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin := createTestUser(t, database, "admin")
	employee := createTestUser(t, database, "employee")
	item := createTestItem(t, database, "SN-001")

	CreateAssignment(ctx, database, CreateAssignmentParams{
		ItemID: item.ID, EmployeeID: employee.ID, AssignedBy: admin.ID,
	})

	date := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)
	_, err := CreateDiscount(ctx, database, item.ID, employee.ID, admin.ID, date)
	if !errors.Is(err, model.ErrItemUnavailable) {
		t.Errorf("expected ErrItemUnavailable for assigned item, got %v", err)
	}
}

func TestListDiscountsByUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin := createTestUser(t, database, "admin")
	alice := createTestUser(t, database, "alice")
	bob := createTestUser(t, database, "bob")
	item := createTestItem(t, database, "SN-001")

	date := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)
	CreateDiscount(ctx, database, item.ID, alice.ID, admin.ID, date)
	CreateDiscount(ctx, database, item.ID, bob.ID, admin.ID, date)

	mine, _ := ListDiscountsByUser(ctx, database, alice.ID)
	if len(mine) != 1 {
		t.Errorf("expected 1 discount for alice, got %d", len(mine))
	}

	all, _ := ListDiscounts(ctx, database)
	if len(all) != 2 {
		t.Errorf("expected 2 discounts total, got %d", len(all))
	}
}
