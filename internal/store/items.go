package store

import (
	"context"
	"database/sql"
	"fmt"

	"assettrack/internal/model"
)

const itemColumns = `id, name, category, brand, model, serial_number, status, location,
	description, purchase_date, purchase_price, photo_mime, created_at, updated_at, deleted_at`

// CreateItem creates a new item. The serial number must be unique among
// non-deleted items.
func CreateItem(ctx context.Context, db *sql.DB, item model.Item) (*model.Item, error) {
	taken, err := serialTaken(ctx, db, item.SerialNumber, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, model.ErrDuplicateSerial
	}

	if item.Status == "" {
		item.Status = model.StatusAvailable
	}
	if !model.ValidItemStatus(item.Status) {
		return nil, model.ErrInvalidStatus
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO items (name, category, brand, model, serial_number, status, location,
		                    description, purchase_date, purchase_price)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Name, item.Category, item.Brand, item.Model, item.SerialNumber,
		item.Status, item.Location, item.Description, item.PurchaseDate, item.PurchasePrice,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, including soft-deleted ones (for history).
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns non-deleted items, newest first, optionally filtered by status.
func ListItems(ctx context.Context, db *sql.DB, status string) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE deleted_at IS NULL`
	var args []any
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateItem updates an item's descriptive and financial attributes. The
// lifecycle status is not touched here; use ChangeItemStatus for that.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, item model.Item) (*model.Item, error) {
	existing, err := GetItem(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if existing == nil || existing.DeletedAt != nil {
		return nil, model.ErrItemNotFound
	}

	taken, err := serialTaken(ctx, db, item.SerialNumber, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, model.ErrDuplicateSerial
	}

	_, err = db.ExecContext(ctx,
		`UPDATE items SET name = ?, category = ?, brand = ?, model = ?, serial_number = ?,
		        location = ?, description = ?, purchase_date = ?, purchase_price = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		item.Name, item.Category, item.Brand, item.Model, item.SerialNumber,
		item.Location, item.Description, item.PurchaseDate, item.PurchasePrice, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	return GetItem(ctx, db, id)
}

// DeleteItem soft-deletes an item. Items that are currently assigned cannot
// be deleted.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	existing, err := GetItem(ctx, db, id)
	if err != nil {
		return err
	}
	if existing == nil || existing.DeletedAt != nil {
		return model.ErrItemNotFound
	}
	if existing.Status == model.StatusAssigned {
		return model.ErrItemAssigned
	}

	_, err = db.ExecContext(ctx,
		`UPDATE items SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// ChangeItemStatus moves an item to a new lifecycle status and records the
// transition in the status history. Setting the current status again is a
// no-op that writes no history. This is the only path that writes history;
// assignment and maintenance flows mutate status silently.
func ChangeItemStatus(ctx context.Context, db *sql.DB, itemID, actorID int64, newStatus, note string) (*model.Item, error) {
	if !model.ValidItemStatus(newStatus) {
		return nil, model.ErrInvalidStatus
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM items WHERE id = ? AND deleted_at IS NULL`, itemID,
	).Scan(&current)
	if err == sql.ErrNoRows {
		return nil, model.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading item status: %w", err)
	}

	if current == newStatus {
		// Release the transaction's connection before re-reading, or the
		// re-read can starve on an exhausted pool.
		tx.Rollback()
		return GetItem(ctx, db, itemID)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		newStatus, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item status: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO item_status_history (item_id, changed_by, from_status, to_status, note)
		 VALUES (?, ?, ?, ?, ?)`,
		itemID, actorID, current, newStatus, note,
	)
	if err != nil {
		return nil, fmt.Errorf("recording status history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing status change: %w", err)
	}

	return GetItem(ctx, db, itemID)
}

// GetStatusHistory returns the 20 most recent status transitions for an
// item, newest first, with the actor's name resolved.
func GetStatusHistory(ctx context.Context, db *sql.DB, itemID int64) ([]model.StatusHistoryEntry, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT h.id, h.item_id, h.changed_by, h.from_status, h.to_status, h.note, h.created_at,
		        u.full_name
		 FROM item_status_history h
		 JOIN users u ON u.id = h.changed_by
		 WHERE h.item_id = ?
		 ORDER BY h.created_at DESC, h.id DESC
		 LIMIT 20`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting status history: %w", err)
	}
	defer rows.Close()

	var entries []model.StatusHistoryEntry
	for rows.Next() {
		var e model.StatusHistoryEntry
		var note sql.NullString
		if err := rows.Scan(&e.ID, &e.ItemID, &e.ChangedBy, &e.FromStatus, &e.ToStatus,
			&note, &e.CreatedAt, &e.ChangedByName); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		e.Note = note.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SetItemPhoto stores a processed photo for an item.
func SetItemPhoto(ctx context.Context, db *sql.DB, id int64, data []byte, mime string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET photo = ?, photo_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		data, mime, id,
	)
	if err != nil {
		return fmt.Errorf("saving item photo: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving item photo: %w", err)
	}
	if n == 0 {
		return model.ErrItemNotFound
	}
	return nil
}

// GetItemPhoto returns an item's photo data and MIME type, or nil data if
// no photo is stored.
func GetItemPhoto(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var data []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM items WHERE id = ?`, id,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", model.ErrItemNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item photo: %w", err)
	}
	return data, mime.String, nil
}

// serialTaken reports whether another active item already uses the serial
// number. excludeID skips an item (for updates).
func serialTaken(ctx context.Context, db *sql.DB, serial string, excludeID int64) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items
		 WHERE serial_number = ? AND deleted_at IS NULL AND id != ?`,
		serial, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking serial number uniqueness: %w", err)
	}
	return count > 0, nil
}

func scanItem(row rowScanner) (*model.Item, error) {
	item := &model.Item{}
	var description, photoMime sql.NullString
	err := row.Scan(&item.ID, &item.Name, &item.Category, &item.Brand, &item.Model,
		&item.SerialNumber, &item.Status, &item.Location, &description,
		&item.PurchaseDate, &item.PurchasePrice, &photoMime,
		&item.CreatedAt, &item.UpdatedAt, &item.DeletedAt)
	if err != nil {
		return nil, err
	}
	item.Description = description.String
	item.PhotoMime = photoMime.String
	return item, nil
}
