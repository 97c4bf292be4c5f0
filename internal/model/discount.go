package model

import "time"

// Discount is a one-time price markdown offer for an item, granted to an
// employee before the item is sold off. Granting a discount does not change
// the item's status.
type Discount struct {
	ID              int64     `json:"id"`
	ItemID          int64     `json:"item_id"`
	GrantedTo       int64     `json:"granted_to"`
	GrantedBy       int64     `json:"granted_by"`
	Date            time.Time `json:"date"`
	Percent         int       `json:"percent"`
	OriginalPrice   float64   `json:"original_price"`
	DiscountedPrice float64   `json:"discounted_price"`
	CreatedAt       time.Time `json:"created_at"`

	// Joined fields (not always populated).
	ItemName         string `json:"item_name,omitempty"`
	ItemSerialNumber string `json:"item_serial_number,omitempty"`
	RecipientName    string `json:"recipient_name,omitempty"`
}
