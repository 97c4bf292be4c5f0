package store

import (
	"context"
	"database/sql"
	"fmt"

	"assettrack/internal/model"
)

// Overview holds the dashboard counters.
type Overview struct {
	TotalItems        int `json:"total_items"`
	AvailableItems    int `json:"available_items"`
	AssignedItems     int `json:"assigned_items"`
	UnderRepairItems  int `json:"under_repair_items"`
	TotalUsers        int `json:"total_users"`
	ActiveAssignments int `json:"active_assignments"`
}

// GetOverview returns inventory and assignment counts for the dashboard.
func GetOverview(ctx context.Context, db *sql.DB) (*Overview, error) {
	o := &Overview{}

	counts := []struct {
		dest  *int
		query string
		args  []any
	}{
		{&o.TotalItems, `SELECT COUNT(*) FROM items WHERE deleted_at IS NULL`, nil},
		{&o.AvailableItems, `SELECT COUNT(*) FROM items WHERE deleted_at IS NULL AND status = ?`, []any{model.StatusAvailable}},
		{&o.AssignedItems, `SELECT COUNT(*) FROM items WHERE deleted_at IS NULL AND status = ?`, []any{model.StatusAssigned}},
		{&o.UnderRepairItems, `SELECT COUNT(*) FROM items WHERE deleted_at IS NULL AND status = ?`, []any{model.StatusUnderRepair}},
		{&o.TotalUsers, `SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`, nil},
		{&o.ActiveAssignments, `SELECT COUNT(*) FROM assignments WHERE status = ?`, []any{model.AssignmentActive}},
	}

	for _, c := range counts {
		if err := db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("counting for overview: %w", err)
		}
	}

	return o, nil
}
