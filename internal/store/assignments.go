package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"assettrack/internal/model"
)

const assignmentQuery = `
	SELECT a.id, a.item_id, a.employee_id, a.assigned_by, a.assignment_date,
	       a.expected_return_date, a.actual_return_date, a.status, a.condition,
	       a.notes, a.created_at,
	       i.name, i.serial_number, e.full_name, e.department, ab.full_name
	FROM assignments a
	JOIN items i ON i.id = a.item_id
	JOIN users e ON e.id = a.employee_id
	JOIN users ab ON ab.id = a.assigned_by`

// CreateAssignmentParams holds the inputs for assigning an item.
type CreateAssignmentParams struct {
	ItemID             int64
	EmployeeID         int64
	AssignedBy         int64
	AssignmentDate     *time.Time
	ExpectedReturnDate *time.Time
	Condition          string
	Notes              string
}

// CreateAssignment assigns an available item to an employee. The item's
// status moves to Assigned atomically with the availability check, so two
// concurrent assigns of the same item cannot both succeed.
func CreateAssignment(ctx context.Context, db *sql.DB, p CreateAssignmentParams) (*model.Assignment, error) {
	if p.Condition == "" {
		p.Condition = model.ConditionGood
	}
	if !model.ValidCondition(p.Condition) {
		return nil, model.ErrInvalidCondition
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	employee, err := getUserTx(ctx, tx, p.EmployeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil || employee.DeletedAt != nil {
		return nil, model.ErrUserNotFound
	}

	// Conditional update doubles as the availability check: zero rows means
	// the item is missing or not Available.
	result, err := tx.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ? AND deleted_at IS NULL`,
		model.StatusAssigned, p.ItemID, model.StatusAvailable,
	)
	if err != nil {
		return nil, fmt.Errorf("claiming item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("claiming item: %w", err)
	}
	if n == 0 {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM items WHERE id = ? AND deleted_at IS NULL`, p.ItemID,
		).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("checking item: %w", err)
		}
		if exists == 0 {
			return nil, model.ErrItemNotFound
		}
		return nil, model.ErrItemUnavailable
	}

	assignmentDate := time.Now()
	if p.AssignmentDate != nil {
		assignmentDate = *p.AssignmentDate
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO assignments (item_id, employee_id, assigned_by, assignment_date,
		                          expected_return_date, status, condition, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ItemID, p.EmployeeID, p.AssignedBy, assignmentDate,
		p.ExpectedReturnDate, model.AssignmentActive, p.Condition, p.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("creating assignment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing assignment: %w", err)
	}

	id, _ := res.LastInsertId()
	return GetAssignment(ctx, db, id)
}

// GetAssignment returns an assignment by ID with item and employee fields
// populated.
func GetAssignment(ctx context.Context, db *sql.DB, id int64) (*model.Assignment, error) {
	row := db.QueryRowContext(ctx, assignmentQuery+` WHERE a.id = ?`, id)
	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting assignment: %w", err)
	}
	return a, nil
}

// ListAssignments returns all assignments, newest first.
func ListAssignments(ctx context.Context, db *sql.DB) ([]model.Assignment, error) {
	return listAssignments(ctx, db, assignmentQuery+` ORDER BY a.created_at DESC, a.id DESC`)
}

// ListAssignmentsByEmployee returns assignments for one employee, newest first.
func ListAssignmentsByEmployee(ctx context.Context, db *sql.DB, employeeID int64) ([]model.Assignment, error) {
	return listAssignments(ctx, db,
		assignmentQuery+` WHERE a.employee_id = ? ORDER BY a.created_at DESC, a.id DESC`,
		employeeID)
}

// ReturnAssignment marks an assignment as returned and moves the item to
// Under Repair when the return condition is Fair or Poor, Available
// otherwise. Returning an already-returned assignment is not rejected.
func ReturnAssignment(ctx context.Context, db *sql.DB, id int64, condition string, actualReturnDate *time.Time, notes string) (*model.Assignment, error) {
	if condition != "" && !model.ValidCondition(condition) {
		return nil, model.ErrInvalidCondition
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var itemID int64
	var currentCondition string
	err = tx.QueryRowContext(ctx,
		`SELECT item_id, condition FROM assignments WHERE id = ?`, id,
	).Scan(&itemID, &currentCondition)
	if err == sql.ErrNoRows {
		return nil, model.ErrAssignmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading assignment: %w", err)
	}

	if condition == "" {
		condition = currentCondition
	}
	returnedAt := time.Now()
	if actualReturnDate != nil {
		returnedAt = *actualReturnDate
	}

	if notes != "" {
		_, err = tx.ExecContext(ctx,
			`UPDATE assignments SET status = ?, condition = ?, actual_return_date = ?, notes = ?
			 WHERE id = ?`,
			model.AssignmentReturned, condition, returnedAt, notes, id,
		)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE assignments SET status = ?, condition = ?, actual_return_date = ?
			 WHERE id = ?`,
			model.AssignmentReturned, condition, returnedAt, id,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("updating assignment: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		model.StatusAfterReturn(condition), itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing return: %w", err)
	}

	return GetAssignment(ctx, db, id)
}

// UpdateAssignmentParams holds the optional fields of an assignment update.
// Nil pointers leave the current value in place.
type UpdateAssignmentParams struct {
	Status             *string
	Condition          *string
	Notes              *string
	ExpectedReturnDate *time.Time
}

// UpdateAssignment updates an assignment's mutable fields. It does not
// touch the item status; use ReturnAssignment for returns.
func UpdateAssignment(ctx context.Context, db *sql.DB, id int64, p UpdateAssignmentParams) (*model.Assignment, error) {
	if p.Status != nil && !model.ValidAssignmentStatus(*p.Status) {
		return nil, model.ErrInvalidStatus
	}
	if p.Condition != nil && !model.ValidCondition(*p.Condition) {
		return nil, model.ErrInvalidCondition
	}

	existing, err := GetAssignment(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, model.ErrAssignmentNotFound
	}

	status := existing.Status
	if p.Status != nil {
		status = *p.Status
	}
	condition := existing.Condition
	if p.Condition != nil {
		condition = *p.Condition
	}
	notes := existing.Notes
	if p.Notes != nil {
		notes = *p.Notes
	}
	expected := existing.ExpectedReturnDate
	if p.ExpectedReturnDate != nil {
		expected = p.ExpectedReturnDate
	}

	_, err = db.ExecContext(ctx,
		`UPDATE assignments SET status = ?, condition = ?, notes = ?, expected_return_date = ?
		 WHERE id = ?`,
		status, condition, notes, expected, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating assignment: %w", err)
	}
	return GetAssignment(ctx, db, id)
}

// DeleteAssignment removes an assignment and resets the item to Available.
// The reset is unconditional: an item that was separately marked Damaged or
// Disposed comes back as Available.
func DeleteAssignment(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var itemID int64
	err = tx.QueryRowContext(ctx,
		`SELECT item_id FROM assignments WHERE id = ?`, id,
	).Scan(&itemID)
	if err == sql.ErrNoRows {
		return model.ErrAssignmentNotFound
	}
	if err != nil {
		return fmt.Errorf("reading assignment: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		model.StatusAvailable, itemID,
	)
	if err != nil {
		return fmt.Errorf("resetting item status: %w", err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM assignments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting assignment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing assignment delete: %w", err)
	}
	return nil
}

// CountActiveAssignments returns the number of Active assignments for an item.
func CountActiveAssignments(ctx context.Context, db *sql.DB, itemID int64) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM assignments WHERE item_id = ? AND status = ?`,
		itemID, model.AssignmentActive,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting active assignments: %w", err)
	}
	return count, nil
}

func getUserTx(ctx context.Context, tx *sql.Tx, id int64) (*model.User, error) {
	row := tx.QueryRowContext(ctx,
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

func listAssignments(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.Assignment, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning assignment: %w", err)
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}

func scanAssignment(row rowScanner) (*model.Assignment, error) {
	a := &model.Assignment{}
	var notes, department sql.NullString
	err := row.Scan(&a.ID, &a.ItemID, &a.EmployeeID, &a.AssignedBy, &a.AssignmentDate,
		&a.ExpectedReturnDate, &a.ActualReturnDate, &a.Status, &a.Condition,
		&notes, &a.CreatedAt,
		&a.ItemName, &a.ItemSerialNumber, &a.EmployeeName, &department, &a.AssignedByName)
	if err != nil {
		return nil, err
	}
	a.Notes = notes.String
	a.EmployeeDepartment = department.String
	return a, nil
}
