package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS locations (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    district   TEXT NOT NULL,
    upazila    TEXT,
    village    TEXT,
    notes      TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_locations_name_active
    ON locations(name) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    email         TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    name          TEXT,
    location_id   INTEGER REFERENCES locations(id),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_active
    ON users(email) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS user_roles (
    user_id INTEGER NOT NULL REFERENCES users(id),
    role    TEXT NOT NULL CHECK (role IN ('donor', 'admin', 'cook', 'manager', 'volunteer')),
    PRIMARY KEY (user_id, role)
);

CREATE TABLE IF NOT EXISTS donations (
    id                     INTEGER PRIMARY KEY,
    type                   TEXT NOT NULL CHECK (type IN ('feeding_people', 'giving_ration', 'random_amount')),
    amount                 TEXT NOT NULL,
    status                 TEXT NOT NULL DEFAULT 'pending'
        CHECK (status IN ('pending', 'in_progress', 'fulfilled', 'verified', 'cancelled')),
    donor_id               INTEGER REFERENCES users(id),
    anonymous_email        TEXT,
    anonymous_reference_id TEXT,
    payment_id             INTEGER REFERENCES payments(id),
    location_id            INTEGER REFERENCES locations(id),
    notes                  TEXT,
    created_at             DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at             DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_donations_reference
    ON donations(anonymous_reference_id) WHERE anonymous_reference_id IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_donations_donor ON donations(donor_id);
CREATE INDEX IF NOT EXISTS idx_donations_status ON donations(status);

CREATE TABLE IF NOT EXISTS payments (
    id             INTEGER PRIMARY KEY,
    donation_id    INTEGER NOT NULL REFERENCES donations(id),
    amount         TEXT NOT NULL,
    method         TEXT NOT NULL CHECK (method IN ('stripe', 'paypal', 'mocked')),
    status         TEXT NOT NULL DEFAULT 'pending'
        CHECK (status IN ('pending', 'completed', 'failed', 'refunded')),
    transaction_id TEXT NOT NULL UNIQUE,
    notes          TEXT,
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_payments_donation ON payments(donation_id);

CREATE TABLE IF NOT EXISTS tasks (
    id                INTEGER PRIMARY KEY,
    type              TEXT NOT NULL CHECK (type IN ('prepare_food', 'deliver_ration', 'record_media')),
    status            TEXT NOT NULL DEFAULT 'not_started'
        CHECK (status IN ('not_started', 'in_progress', 'completed')),
    donation_id       INTEGER NOT NULL REFERENCES donations(id),
    assigned_staff_id INTEGER REFERENCES users(id),
    auto_assigned     INTEGER NOT NULL DEFAULT 0,
    location_id       INTEGER REFERENCES locations(id),
    notes             TEXT,
    created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_tasks_donation ON tasks(donation_id);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);

CREATE TABLE IF NOT EXISTS inventory_items (
    id                  INTEGER PRIMARY KEY,
    name                TEXT NOT NULL,
    unit                TEXT NOT NULL,
    stock               REAL NOT NULL DEFAULT 0,
    low_stock_threshold REAL NOT NULL DEFAULT 10,
    notes               TEXT,
    created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at          DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_inventory_items_name_active
    ON inventory_items(name) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS media (
    id          INTEGER PRIMARY KEY,
    filename    TEXT NOT NULL,
    mime        TEXT NOT NULL,
    size        INTEGER NOT NULL,
    data        BLOB NOT NULL,
    type        TEXT NOT NULL CHECK (type IN ('image', 'video', 'other')),
    donation_id INTEGER REFERENCES donations(id),
    task_id     INTEGER REFERENCES tasks(id),
    uploaded_by INTEGER REFERENCES users(id),
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CHECK ((donation_id IS NULL) != (task_id IS NULL))
);

CREATE INDEX IF NOT EXISTS idx_media_donation ON media(donation_id);
CREATE INDEX IF NOT EXISTS idx_media_task ON media(task_id);

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
