package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"assettrack/internal/model"
	"assettrack/internal/pricing"
)

const discountQuery = `
	SELECT d.id, d.item_id, d.granted_to, d.granted_by, d.date, d.percent,
	       d.original_price, d.discounted_price, d.created_at,
	       i.name, i.serial_number, u.full_name
	FROM discounts d
	JOIN items i ON i.id = d.item_id
	JOIN users u ON u.id = d.granted_to`

// CreateDiscount grants a markdown on an available item. The percent is
// derived from the grant date (day of month, 1-15); dates outside that
// window are rejected. The item's status is not changed, so an item can be
// discounted repeatedly.
func CreateDiscount(ctx context.Context, db *sql.DB, itemID, userID, actorID int64, date time.Time) (*model.Discount, error) {
	percent, ok := pricing.PercentForDate(date)
	if !ok {
		return nil, model.ErrDiscountWindow
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	recipient, err := getUserTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if recipient == nil || recipient.DeletedAt != nil {
		return nil, model.ErrUserNotFound
	}

	var status string
	var originalPrice float64
	err = tx.QueryRowContext(ctx,
		`SELECT status, purchase_price FROM items WHERE id = ? AND deleted_at IS NULL`,
		itemID,
	).Scan(&status, &originalPrice)
	if err == sql.ErrNoRows {
		return nil, model.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading item: %w", err)
	}
	if status != model.StatusAvailable {
		return nil, model.ErrItemUnavailable
	}

	discountedPrice := pricing.DiscountedPrice(originalPrice, percent)

	result, err := tx.ExecContext(ctx,
		`INSERT INTO discounts (item_id, granted_to, granted_by, date, percent,
		                        original_price, discounted_price)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		itemID, userID, actorID, date, percent, originalPrice, discountedPrice,
	)
	if err != nil {
		return nil, fmt.Errorf("creating discount: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing discount: %w", err)
	}

	id, _ := result.LastInsertId()
	return GetDiscount(ctx, db, id)
}

// GetDiscount returns a discount by ID with item and recipient fields
// populated.
func GetDiscount(ctx context.Context, db *sql.DB, id int64) (*model.Discount, error) {
	row := db.QueryRowContext(ctx, discountQuery+` WHERE d.id = ?`, id)
	d, err := scanDiscount(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting discount: %w", err)
	}
	return d, nil
}

// ListDiscounts returns all discounts, newest first.
func ListDiscounts(ctx context.Context, db *sql.DB) ([]model.Discount, error) {
	return listDiscounts(ctx, db, discountQuery+` ORDER BY d.created_at DESC, d.id DESC`)
}

// ListDiscountsByUser returns discounts granted to one user, newest first.
func ListDiscountsByUser(ctx context.Context, db *sql.DB, userID int64) ([]model.Discount, error) {
	return listDiscounts(ctx, db,
		discountQuery+` WHERE d.granted_to = ? ORDER BY d.created_at DESC, d.id DESC`,
		userID)
}

func listDiscounts(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.Discount, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing discounts: %w", err)
	}
	defer rows.Close()

	var discounts []model.Discount
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning discount: %w", err)
		}
		discounts = append(discounts, *d)
	}
	return discounts, rows.Err()
}

func scanDiscount(row rowScanner) (*model.Discount, error) {
	d := &model.Discount{}
	err := row.Scan(&d.ID, &d.ItemID, &d.GrantedTo, &d.GrantedBy, &d.Date, &d.Percent,
		&d.OriginalPrice, &d.DiscountedPrice, &d.CreatedAt,
		&d.ItemName, &d.ItemSerialNumber, &d.RecipientName)
	if err != nil {
		return nil, err
	}
	return d, nil
}
