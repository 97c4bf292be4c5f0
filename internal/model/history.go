package model

import "time"

// StatusHistoryEntry is an immutable record of one item status transition.
type StatusHistoryEntry struct {
	ID         int64     `json:"id"`
	ItemID     int64     `json:"item_id"`
	ChangedBy  int64     `json:"changed_by"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	// Joined field (not always populated).
	ChangedByName string `json:"changed_by_name,omitempty"`
}
