package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS rooms (
	id              TEXT PRIMARY KEY,
	number          TEXT NOT NULL,
	building        TEXT NOT NULL,
	room_type       TEXT NOT NULL DEFAULT '',
	floor           INTEGER,
	capacity        INTEGER NOT NULL DEFAULT 1,
	bed_description TEXT NOT NULL DEFAULT '',
	is_active       BOOLEAN NOT NULL DEFAULT TRUE,
	has_tv          BOOLEAN NOT NULL DEFAULT FALSE,
	ac              TEXT NOT NULL DEFAULT 'NON_AC',
	status          TEXT NOT NULL DEFAULT 'AVAILABLE',
	condition       TEXT NOT NULL DEFAULT 'CLEAN',
	next_booking_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS snapshot_meta (
	id       SMALLINT PRIMARY KEY,
	taken_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS room_states (
	room_id   TEXT PRIMARY KEY,
	status    TEXT NOT NULL,
	condition TEXT NOT NULL,
	has_tv    BOOLEAN NOT NULL,
	ac        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS stays (
	id              UUID PRIMARY KEY,
	room_id         TEXT NOT NULL UNIQUE,
	guest_name      TEXT NOT NULL,
	guest_phone     TEXT NOT NULL DEFAULT '',
	check_in_at     TIMESTAMPTZ NOT NULL,
	expected_out_at TIMESTAMPTZ,
	status          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS folios (
	id         UUID PRIMARY KEY,
	room_id    TEXT NOT NULL UNIQUE,
	guest_name TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS folio_charges (
	id          UUID PRIMARY KEY,
	folio_id    UUID NOT NULL REFERENCES folios(id) ON DELETE CASCADE,
	seq         INTEGER NOT NULL,
	at          TIMESTAMPTZ NOT NULL,
	category    TEXT NOT NULL,
	description TEXT NOT NULL,
	amount      BIGINT NOT NULL CHECK (amount > 0)
);

CREATE TABLE IF NOT EXISTS folio_payments (
	id       UUID PRIMARY KEY,
	folio_id UUID NOT NULL REFERENCES folios(id) ON DELETE CASCADE,
	seq      INTEGER NOT NULL,
	at       TIMESTAMPTZ NOT NULL,
	method   TEXT NOT NULL,
	amount   BIGINT NOT NULL CHECK (amount > 0)
);
`

// EnsureSchema creates the tables used by the postgres adapters.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
