package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=tradeledger sslmode=disable"
func NewDB(connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// schema is applied on startup; every statement is idempotent
const schema = `
CREATE TABLE IF NOT EXISTS cash_events (
	id       UUID PRIMARY KEY,
	date     DATE NOT NULL,
	amount   NUMERIC(20, 8) NOT NULL CHECK (amount > 0),
	kind     TEXT NOT NULL CHECK (kind IN ('DEPOSIT', 'WITHDRAWAL')),
	owner_id TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT ''
);

ALTER TABLE cash_events ADD COLUMN IF NOT EXISTS description TEXT NOT NULL DEFAULT '';

CREATE TABLE IF NOT EXISTS trade_events (
	id      UUID PRIMARY KEY,
	date    DATE NOT NULL,
	name    TEXT NOT NULL,
	pnl     NUMERIC(20, 8) NOT NULL,
	op_kind TEXT NOT NULL CHECK (op_kind IN ('BUY', 'SELL'))
);

CREATE TABLE IF NOT EXISTS stakeholder_profiles (
	id                 TEXT PRIMARY KEY,
	profit_share_ratio NUMERIC(10, 8) NOT NULL CHECK (profit_share_ratio >= 0 AND profit_share_ratio <= 1)
);

CREATE INDEX IF NOT EXISTS cash_events_date_idx ON cash_events (date);
CREATE INDEX IF NOT EXISTS trade_events_date_idx ON trade_events (date);
`

// EnsureSchema creates the ledger tables when they do not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
