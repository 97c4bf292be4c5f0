package model

import "time"

// Item represents a tracked physical asset, identified by its serial number.
type Item struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Category      string     `json:"category"`
	Brand         string     `json:"brand"`
	Model         string     `json:"model"`
	SerialNumber  string     `json:"serial_number"`
	Status        string     `json:"status"`
	Location      string     `json:"location"`
	Description   string     `json:"description,omitempty"`
	PurchaseDate  time.Time  `json:"purchase_date"`
	PurchasePrice float64    `json:"purchase_price"`
	PhotoMime     string     `json:"photo_mime,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
}

// Item lifecycle statuses.
const (
	StatusAvailable   = "Available"
	StatusAssigned    = "Assigned"
	StatusUnderRepair = "Under Repair"
	StatusDamaged     = "Damaged"
	StatusDisposed    = "Disposed"
)

// ValidItemStatus reports whether s is one of the five lifecycle statuses.
func ValidItemStatus(s string) bool {
	switch s {
	case StatusAvailable, StatusAssigned, StatusUnderRepair, StatusDamaged, StatusDisposed:
		return true
	}
	return false
}
