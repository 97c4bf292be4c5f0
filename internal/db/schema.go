package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    full_name     TEXT NOT NULL,
    username      TEXT NOT NULL,
    email         TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'User' CHECK (role IN ('Admin', 'User')),
    department    TEXT NOT NULL DEFAULT 'General',
    employee_id   TEXT,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_active
    ON users(email) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS items (
    id             INTEGER PRIMARY KEY,
    name           TEXT NOT NULL,
    category       TEXT NOT NULL,
    brand          TEXT NOT NULL,
    model          TEXT NOT NULL,
    serial_number  TEXT NOT NULL,
    status         TEXT NOT NULL DEFAULT 'Available'
        CHECK (status IN ('Available', 'Assigned', 'Under Repair', 'Damaged', 'Disposed')),
    location       TEXT NOT NULL,
    description    TEXT,
    purchase_date  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    purchase_price REAL NOT NULL DEFAULT 0,
    photo          BLOB,
    photo_mime     TEXT,
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at     DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_items_serial_active
    ON items(serial_number) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS assignments (
    id                   INTEGER PRIMARY KEY,
    item_id              INTEGER NOT NULL REFERENCES items(id),
    employee_id          INTEGER NOT NULL REFERENCES users(id),
    assigned_by          INTEGER NOT NULL REFERENCES users(id),
    assignment_date      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    expected_return_date DATETIME,
    actual_return_date   DATETIME,
    status               TEXT NOT NULL DEFAULT 'Active'
        CHECK (status IN ('Active', 'Returned', 'Overdue')),
    condition            TEXT NOT NULL DEFAULT 'Good'
        CHECK (condition IN ('Excellent', 'Good', 'Fair', 'Poor')),
    notes                TEXT,
    created_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS item_status_history (
    id          INTEGER PRIMARY KEY,
    item_id     INTEGER NOT NULL REFERENCES items(id),
    changed_by  INTEGER NOT NULL REFERENCES users(id),
    from_status TEXT NOT NULL,
    to_status   TEXT NOT NULL,
    note        TEXT,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_history_item
    ON item_status_history(item_id, created_at);

CREATE TABLE IF NOT EXISTS maintenance_requests (
    id           INTEGER PRIMARY KEY,
    item_id      INTEGER NOT NULL REFERENCES items(id),
    requested_by INTEGER NOT NULL REFERENCES users(id),
    notes        TEXT,
    priority     TEXT NOT NULL DEFAULT 'Low' CHECK (priority IN ('Low', 'Medium', 'High')),
    status       TEXT NOT NULL DEFAULT 'Open' CHECK (status IN ('Open', 'In Progress', 'Resolved')),
    due_date     DATETIME,
    resolved_at  DATETIME,
    resolved_by  INTEGER REFERENCES users(id),
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS discounts (
    id               INTEGER PRIMARY KEY,
    item_id          INTEGER NOT NULL REFERENCES items(id),
    granted_to       INTEGER NOT NULL REFERENCES users(id),
    granted_by       INTEGER NOT NULL REFERENCES users(id),
    date             DATETIME NOT NULL,
    percent          INTEGER NOT NULL,
    original_price   REAL NOT NULL,
    discounted_price REAL NOT NULL,
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
