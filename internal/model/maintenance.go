package model

import "time"

// MaintenanceRequest is a repair ticket against an item. It can be opened
// regardless of the item's current status.
type MaintenanceRequest struct {
	ID          int64      `json:"id"`
	ItemID      int64      `json:"item_id"`
	RequestedBy int64      `json:"requested_by"`
	Notes       string     `json:"notes,omitempty"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy  *int64     `json:"resolved_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`

	// Joined fields (not always populated).
	ItemName         string `json:"item_name,omitempty"`
	ItemSerialNumber string `json:"item_serial_number,omitempty"`
	RequesterName    string `json:"requester_name,omitempty"`
}

// Maintenance request statuses.
const (
	MaintenanceOpen       = "Open"
	MaintenanceInProgress = "In Progress"
	MaintenanceResolved   = "Resolved"
)

// ValidMaintenanceStatus reports whether s is a known request status.
func ValidMaintenanceStatus(s string) bool {
	return s == MaintenanceOpen || s == MaintenanceInProgress || s == MaintenanceResolved
}

// Maintenance priorities.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// ValidPriority reports whether p is a known priority.
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}
