// Package sqlite provides a SQLite-backed ledger store for single-host deployments.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/simaogato/tradeledger-backend/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS cash_events (
	id       TEXT PRIMARY KEY,
	date     TEXT NOT NULL,
	amount   TEXT NOT NULL,
	kind     TEXT NOT NULL CHECK (kind IN ('DEPOSIT', 'WITHDRAWAL')),
	owner_id TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS trade_events (
	id      TEXT PRIMARY KEY,
	date    TEXT NOT NULL,
	name    TEXT NOT NULL,
	pnl     TEXT NOT NULL,
	op_kind TEXT NOT NULL CHECK (op_kind IN ('BUY', 'SELL'))
);
CREATE TABLE IF NOT EXISTS stakeholder_profiles (
	id                 TEXT PRIMARY KEY,
	profit_share_ratio TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS cash_events_date_idx ON cash_events (date);
CREATE INDEX IF NOT EXISTS trade_events_date_idx ON trade_events (date);
`

// Store persists the ledger in SQLite. Dates are stored as YYYY-MM-DD text and
// amounts as decimal strings, so no precision is lost.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite ledger store and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer at a time
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	if err := addDescriptionColumn(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return &Store{sqlDB: sqlDB}, nil
}

// addDescriptionColumn upgrades databases created before cash events carried a description
func addDescriptionColumn(sqlDB *sql.DB) error {
	var count int
	err := sqlDB.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('cash_events') WHERE name = 'description'`).Scan(&count)
	if err != nil {
		return fmt.Errorf("inspect cash_events columns: %w", err)
	}
	if count > 0 {
		return nil
	}
	if _, err := sqlDB.Exec(`ALTER TABLE cash_events ADD COLUMN description TEXT NOT NULL DEFAULT ''`); err != nil {
		return fmt.Errorf("add cash_events.description: %w", err)
	}
	return nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// FetchAll reads the whole ledger inside one transaction.
func (s *Store) FetchAll(ctx context.Context) (*domain.LedgerSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	snapshot := &domain.LedgerSnapshot{}
	if snapshot.CashEvents, err = listCashEvents(ctx, tx); err != nil {
		return nil, err
	}
	if snapshot.TradeEvents, err = listTradeEvents(ctx, tx); err != nil {
		return nil, err
	}
	if snapshot.Profiles, err = listProfiles(ctx, tx); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit snapshot: %w", err)
	}
	return snapshot, nil
}

func listCashEvents(ctx context.Context, tx *sql.Tx) ([]domain.CashEvent, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, date, amount, kind, owner_id, description FROM cash_events ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("query cash events: %w", err)
	}
	defer rows.Close()

	events := make([]domain.CashEvent, 0)
	for rows.Next() {
		var id, date, amount, kind, owner, description string
		if err := rows.Scan(&id, &date, &amount, &kind, &owner, &description); err != nil {
			return nil, fmt.Errorf("scan cash event: %w", err)
		}
		e := domain.CashEvent{Kind: domain.CashKind(kind), OwnerID: domain.StakeholderID(owner), Description: description}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse cash event id %q: %w", id, err)
		}
		if e.Date, err = domain.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parse cash event %s date: %w", id, err)
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse cash event %s amount: %w", id, err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cash events: %w", err)
	}
	return events, nil
}

func listTradeEvents(ctx context.Context, tx *sql.Tx) ([]domain.TradeEvent, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, date, name, pnl, op_kind FROM trade_events ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("query trade events: %w", err)
	}
	defer rows.Close()

	events := make([]domain.TradeEvent, 0)
	for rows.Next() {
		var id, date, name, pnl, opKind string
		if err := rows.Scan(&id, &date, &name, &pnl, &opKind); err != nil {
			return nil, fmt.Errorf("scan trade event: %w", err)
		}
		e := domain.TradeEvent{Name: name, OpKind: domain.OpKind(opKind)}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse trade event id %q: %w", id, err)
		}
		if e.Date, err = domain.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parse trade event %s date: %w", id, err)
		}
		if e.PnL, err = decimal.NewFromString(pnl); err != nil {
			return nil, fmt.Errorf("parse trade event %s pnl: %w", id, err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade events: %w", err)
	}
	return events, nil
}

func listProfiles(ctx context.Context, tx *sql.Tx) ([]domain.StakeholderProfile, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, profit_share_ratio FROM stakeholder_profiles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query stakeholder profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]domain.StakeholderProfile, 0)
	for rows.Next() {
		var id, ratio string
		if err := rows.Scan(&id, &ratio); err != nil {
			return nil, fmt.Errorf("scan stakeholder profile: %w", err)
		}
		r, err := decimal.NewFromString(ratio)
		if err != nil {
			return nil, fmt.Errorf("parse stakeholder %s ratio: %w", id, err)
		}
		profiles = append(profiles, domain.StakeholderProfile{ID: domain.StakeholderID(id), ProfitShareRatio: r})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stakeholder profiles: %w", err)
	}
	return profiles, nil
}

// CreateCashEvent inserts one cash event.
func (s *Store) CreateCashEvent(ctx context.Context, e *domain.CashEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO cash_events (id, date, amount, kind, owner_id, description) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.Date.String(), e.Amount.String(), string(e.Kind), string(e.OwnerID), e.Description,
	)
	if err != nil {
		return fmt.Errorf("insert cash event: %w", err)
	}
	return nil
}

// UpdateCashEvent replaces one cash event.
func (s *Store) UpdateCashEvent(ctx context.Context, e *domain.CashEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx,
		`UPDATE cash_events SET date = ?, amount = ?, kind = ?, owner_id = ?, description = ? WHERE id = ?`,
		e.Date.String(), e.Amount.String(), string(e.Kind), string(e.OwnerID), e.Description, e.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update cash event: %w", err)
	}
	return requireAffected(result, "cash event", e.ID)
}

// DeleteCashEvent removes one cash event.
func (s *Store) DeleteCashEvent(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM cash_events WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete cash event: %w", err)
	}
	return requireAffected(result, "cash event", id)
}

// CreateTradeEvent inserts one trade event.
func (s *Store) CreateTradeEvent(ctx context.Context, e *domain.TradeEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO trade_events (id, date, name, pnl, op_kind) VALUES (?, ?, ?, ?, ?)`,
		e.ID.String(), e.Date.String(), e.Name, e.PnL.String(), string(e.OpKind),
	)
	if err != nil {
		return fmt.Errorf("insert trade event: %w", err)
	}
	return nil
}

// UpdateTradeEvent replaces one trade event.
func (s *Store) UpdateTradeEvent(ctx context.Context, e *domain.TradeEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx,
		`UPDATE trade_events SET date = ?, name = ?, pnl = ?, op_kind = ? WHERE id = ?`,
		e.Date.String(), e.Name, e.PnL.String(), string(e.OpKind), e.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update trade event: %w", err)
	}
	return requireAffected(result, "trade event", e.ID)
}

// DeleteTradeEvent removes one trade event.
func (s *Store) DeleteTradeEvent(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM trade_events WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete trade event: %w", err)
	}
	return requireAffected(result, "trade event", id)
}

// UpsertProfile creates or replaces one stakeholder profile.
func (s *Store) UpsertProfile(ctx context.Context, p *domain.StakeholderProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO stakeholder_profiles (id, profit_share_ratio) VALUES (?, ?)
		 ON CONFLICT (id) DO UPDATE SET profit_share_ratio = excluded.profit_share_ratio`,
		string(p.ID), p.ProfitShareRatio.String(),
	)
	if err != nil {
		return fmt.Errorf("upsert stakeholder profile: %w", err)
	}
	return nil
}

func requireAffected(result sql.Result, what string, id uuid.UUID) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, domain.ErrNotFound)
	}
	return nil
}

var _ domain.LedgerRepository = (*Store)(nil)
