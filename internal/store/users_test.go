package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"assettrack/internal/db"
	"assettrack/internal/model"
)

func createTestUser(t *testing.T, database *sql.DB, username string) *model.User {
	t.Helper()
	user, err := CreateUser(context.Background(), database, model.User{
		FullName:     "Test " + username,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
		Department:   "IT",
	})
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", username, err)
	}
	return user
}

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, database, "alice")
	if user.Role != model.RoleUser {
		t.Errorf("expected role User, got %q", user.Role)
	}

	got, err := GetUser(ctx, database, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != "alice@example.com" {
		t.Errorf("expected email alice@example.com, got %q", got.Email)
	}
}

func TestDuplicateUserRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	createTestUser(t, database, "alice")

	_, err := CreateUser(ctx, database, model.User{
		FullName:     "Alice Clone",
		Username:     "alice",
		Email:        "other@example.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
	})
	if !errors.Is(err, model.ErrDuplicateUser) {
		t.Errorf("expected ErrDuplicateUser for duplicate username, got %v", err)
	}

	_, err = CreateUser(ctx, database, model.User{
		FullName:     "Alice Clone",
		Username:     "alice2",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
	})
	if !errors.Is(err, model.ErrDuplicateUser) {
		t.Errorf("expected ErrDuplicateUser for duplicate email, got %v", err)
	}
}

func TestGetUserByLogin(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, database, "bob")

	byUsername, _ := GetUserByLogin(ctx, database, "bob")
	if byUsername == nil || byUsername.ID != user.ID {
		t.Error("expected to find user by username")
	}

	byEmail, _ := GetUserByLogin(ctx, database, "bob@example.com")
	if byEmail == nil || byEmail.ID != user.ID {
		t.Error("expected to find user by email")
	}

	missing, _ := GetUserByLogin(ctx, database, "nobody")
	if missing != nil {
		t.Error("expected nil for unknown login")
	}
}

func TestUpdateUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, database, "carol")

	updated, err := UpdateUser(ctx, database, user.ID, "Carol Jones", "carol@example.com", model.RoleAdmin, "Finance", "EMP-42")
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.Role != model.RoleAdmin {
		t.Errorf("expected role Admin, got %q", updated.Role)
	}
	if updated.Department != "Finance" {
		t.Errorf("expected department Finance, got %q", updated.Department)
	}

	_, err = UpdateUser(ctx, database, 9999, "Ghost", "ghost@example.com", model.RoleUser, "", "")
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSoftDeleteUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, database, "dave")
	if err := DeleteUser(ctx, database, user.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	users, _ := ListUsers(ctx, database)
	if len(users) != 0 {
		t.Errorf("expected 0 users after soft delete, got %d", len(users))
	}

	// Still fetchable by ID so joined names keep resolving.
	got, _ := GetUser(ctx, database, user.ID)
	if got == nil || got.DeletedAt == nil {
		t.Error("expected soft-deleted user to remain fetchable with deleted_at set")
	}

	// The username becomes reusable.
	if _, err := CreateUser(ctx, database, model.User{
		FullName:     "Dave Again",
		Username:     "dave",
		Email:        "dave@example.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
	}); err != nil {
		t.Errorf("expected username reuse after soft delete, got %v", err)
	}
}
