package store

import (
	"context"
	"database/sql"
	"fmt"

	"assettrack/internal/model"
)

const userColumns = `id, full_name, username, email, password_hash, role, department, employee_id, created_at, deleted_at`

// CreateUser creates a new user. The caller provides the bcrypt hash.
func CreateUser(ctx context.Context, db *sql.DB, u model.User) (*model.User, error) {
	taken, err := loginTaken(ctx, db, u.Username, u.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, model.ErrDuplicateUser
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO users (full_name, username, email, password_hash, role, department, employee_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.FullName, u.Username, u.Email, u.PasswordHash, u.Role, u.Department, u.EmployeeID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	return GetUser(ctx, db, id)
}

// GetUser returns a user by ID.
func GetUser(ctx context.Context, db *sql.DB, id int64) (*model.User, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// GetUserByLogin returns a user matching the given username or email
// (including soft-deleted, so auth can reject them explicitly).
func GetUserByLogin(ctx context.Context, db *sql.DB, login string) (*model.User, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ? OR email = ?`, login, login,
	)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by login: %w", err)
	}
	return u, nil
}

// ListUsers returns all non-deleted users sorted by name.
func ListUsers(ctx context.Context, db *sql.DB) ([]model.User, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE deleted_at IS NULL ORDER BY full_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// CountUsers returns the number of non-deleted users.
func CountUsers(ctx context.Context, db *sql.DB) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}

// UpdateUser updates a user's profile fields and role.
func UpdateUser(ctx context.Context, db *sql.DB, id int64, fullName, email, role, department, employeeID string) (*model.User, error) {
	existing, err := GetUser(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if existing == nil || existing.DeletedAt != nil {
		return nil, model.ErrUserNotFound
	}

	taken, err := loginTaken(ctx, db, existing.Username, email, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, model.ErrDuplicateUser
	}

	_, err = db.ExecContext(ctx,
		`UPDATE users SET full_name = ?, email = ?, role = ?, department = ?, employee_id = ?
		 WHERE id = ? AND deleted_at IS NULL`,
		fullName, email, role, department, employeeID, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return GetUser(ctx, db, id)
}

// UpdateUserPassword updates a user's password hash.
func UpdateUserPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ? AND deleted_at IS NULL`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}

// DeleteUser soft-deletes a user.
func DeleteUser(ctx context.Context, db *sql.DB, id int64) error {
	existing, err := GetUser(ctx, db, id)
	if err != nil {
		return err
	}
	if existing == nil || existing.DeletedAt != nil {
		return model.ErrUserNotFound
	}

	_, err = db.ExecContext(ctx,
		`UPDATE users SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

// loginTaken reports whether another active user already claims the given
// username or email. excludeID skips a user (for updates).
func loginTaken(ctx context.Context, db *sql.DB, username, email string, excludeID int64) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users
		 WHERE (username = ? OR email = ?) AND deleted_at IS NULL AND id != ?`,
		username, email, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking login uniqueness: %w", err)
	}
	return count > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	u := &model.User{}
	var department, employeeID sql.NullString
	err := row.Scan(&u.ID, &u.FullName, &u.Username, &u.Email, &u.PasswordHash,
		&u.Role, &department, &employeeID, &u.CreatedAt, &u.DeletedAt)
	if err != nil {
		return nil, err
	}
	u.Department = department.String
	u.EmployeeID = employeeID.String
	return u, nil
}
