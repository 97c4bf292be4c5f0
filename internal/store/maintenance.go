package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"assettrack/internal/model"
)

const maintenanceQuery = `
	SELECT m.id, m.item_id, m.requested_by, m.notes, m.priority, m.status,
	       m.due_date, m.resolved_at, m.resolved_by, m.created_at,
	       i.name, i.serial_number, u.full_name
	FROM maintenance_requests m
	JOIN items i ON i.id = m.item_id
	JOIN users u ON u.id = m.requested_by`

// CreateMaintenanceRequest opens a repair ticket for an item. The item may
// be in any lifecycle status, including Assigned.
func CreateMaintenanceRequest(ctx context.Context, db *sql.DB, itemID, requestedBy int64, notes, priority string) (*model.MaintenanceRequest, error) {
	if priority == "" {
		priority = model.PriorityLow
	}
	if !model.ValidPriority(priority) {
		return nil, model.ErrInvalidPriority
	}

	item, err := GetItem(ctx, db, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.DeletedAt != nil {
		return nil, model.ErrItemNotFound
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO maintenance_requests (item_id, requested_by, notes, priority, status)
		 VALUES (?, ?, ?, ?, ?)`,
		itemID, requestedBy, notes, priority, model.MaintenanceOpen,
	)
	if err != nil {
		return nil, fmt.Errorf("creating maintenance request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting request id: %w", err)
	}
	return GetMaintenanceRequest(ctx, db, id)
}

// GetMaintenanceRequest returns a request by ID with item and requester
// fields populated.
func GetMaintenanceRequest(ctx context.Context, db *sql.DB, id int64) (*model.MaintenanceRequest, error) {
	row := db.QueryRowContext(ctx, maintenanceQuery+` WHERE m.id = ?`, id)
	m, err := scanMaintenanceRequest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting maintenance request: %w", err)
	}
	return m, nil
}

// ListMaintenanceRequests returns all requests, newest first.
func ListMaintenanceRequests(ctx context.Context, db *sql.DB) ([]model.MaintenanceRequest, error) {
	return listMaintenanceRequests(ctx, db,
		maintenanceQuery+` ORDER BY m.created_at DESC, m.id DESC`)
}

// ListMaintenanceRequestsByUser returns requests opened by one user, newest first.
func ListMaintenanceRequestsByUser(ctx context.Context, db *sql.DB, userID int64) ([]model.MaintenanceRequest, error) {
	return listMaintenanceRequests(ctx, db,
		maintenanceQuery+` WHERE m.requested_by = ? ORDER BY m.created_at DESC, m.id DESC`,
		userID)
}

// UpdateMaintenanceRequest updates a request's status and/or due date.
// Moving a request to Resolved stamps the resolution and, if the item is
// currently Under Repair, releases it back to Available. An item in any
// other status is left untouched.
func UpdateMaintenanceRequest(ctx context.Context, db *sql.DB, id, resolverID int64, status string, dueDate *time.Time) (*model.MaintenanceRequest, error) {
	if status != "" && !model.ValidMaintenanceStatus(status) {
		return nil, model.ErrInvalidStatus
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var itemID int64
	err = tx.QueryRowContext(ctx,
		`SELECT item_id FROM maintenance_requests WHERE id = ?`, id,
	).Scan(&itemID)
	if err == sql.ErrNoRows {
		return nil, model.ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading maintenance request: %w", err)
	}

	if status != "" {
		_, err = tx.ExecContext(ctx,
			`UPDATE maintenance_requests SET status = ? WHERE id = ?`, status, id)
		if err != nil {
			return nil, fmt.Errorf("updating request status: %w", err)
		}
	}
	if dueDate != nil {
		_, err = tx.ExecContext(ctx,
			`UPDATE maintenance_requests SET due_date = ? WHERE id = ?`, dueDate, id)
		if err != nil {
			return nil, fmt.Errorf("updating request due date: %w", err)
		}
	}

	if status == model.MaintenanceResolved {
		_, err = tx.ExecContext(ctx,
			`UPDATE maintenance_requests SET resolved_at = CURRENT_TIMESTAMP, resolved_by = ?
			 WHERE id = ?`, resolverID, id)
		if err != nil {
			return nil, fmt.Errorf("stamping resolution: %w", err)
		}

		// Only release items that are actually in repair.
		_, err = tx.ExecContext(ctx,
			`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ? AND status = ?`,
			model.StatusAvailable, itemID, model.StatusUnderRepair)
		if err != nil {
			return nil, fmt.Errorf("releasing item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing maintenance update: %w", err)
	}

	return GetMaintenanceRequest(ctx, db, id)
}

func listMaintenanceRequests(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.MaintenanceRequest, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing maintenance requests: %w", err)
	}
	defer rows.Close()

	var requests []model.MaintenanceRequest
	for rows.Next() {
		m, err := scanMaintenanceRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning maintenance request: %w", err)
		}
		requests = append(requests, *m)
	}
	return requests, rows.Err()
}

func scanMaintenanceRequest(row rowScanner) (*model.MaintenanceRequest, error) {
	m := &model.MaintenanceRequest{}
	var notes sql.NullString
	err := row.Scan(&m.ID, &m.ItemID, &m.RequestedBy, &notes, &m.Priority, &m.Status,
		&m.DueDate, &m.ResolvedAt, &m.ResolvedBy, &m.CreatedAt,
		&m.ItemName, &m.ItemSerialNumber, &m.RequesterName)
	if err != nil {
		return nil, err
	}
	m.Notes = notes.String
	return m, nil
}
