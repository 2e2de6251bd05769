package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/tradeledger-backend/internal/domain"
)

// ledgerRepository implements domain.LedgerRepository
type ledgerRepository struct {
	db *DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *DB) domain.LedgerRepository {
	return &ledgerRepository{db: db}
}

// FetchAll reads every table inside one read-only repeatable-read transaction,
// so the three collections describe the same point in time
func (r *ledgerRepository) FetchAll(ctx context.Context) (*domain.LedgerSnapshot, error) {
	dbTx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	snapshot := &domain.LedgerSnapshot{}

	if snapshot.CashEvents, err = fetchCashEvents(ctx, dbTx); err != nil {
		return nil, err
	}
	if snapshot.TradeEvents, err = fetchTradeEvents(ctx, dbTx); err != nil {
		return nil, err
	}
	if snapshot.Profiles, err = fetchProfiles(ctx, dbTx); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return snapshot, nil
}

func fetchCashEvents(ctx context.Context, dbTx *sql.Tx) ([]domain.CashEvent, error) {
	rows, err := dbTx.QueryContext(ctx, `
		SELECT id, date, amount, kind, owner_id, description
		FROM cash_events
		ORDER BY date, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cash events: %w", err)
	}
	defer rows.Close()

	events := make([]domain.CashEvent, 0)
	for rows.Next() {
		var e domain.CashEvent
		var date time.Time
		var amountStr, kind, owner string

		if err := rows.Scan(&e.ID, &date, &amountStr, &kind, &owner, &e.Description); err != nil {
			return nil, fmt.Errorf("failed to scan cash event: %w", err)
		}

		// Parse amount (DECIMAL)
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount: %w", err)
		}

		e.Date = domain.DateOf(date)
		e.Amount = amount
		e.Kind = domain.CashKind(kind)
		e.OwnerID = domain.StakeholderID(owner)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cash events: %w", err)
	}

	return events, nil
}

func fetchTradeEvents(ctx context.Context, dbTx *sql.Tx) ([]domain.TradeEvent, error) {
	rows, err := dbTx.QueryContext(ctx, `
		SELECT id, date, name, pnl, op_kind
		FROM trade_events
		ORDER BY date, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list trade events: %w", err)
	}
	defer rows.Close()

	events := make([]domain.TradeEvent, 0)
	for rows.Next() {
		var e domain.TradeEvent
		var date time.Time
		var pnlStr, opKind string

		if err := rows.Scan(&e.ID, &date, &e.Name, &pnlStr, &opKind); err != nil {
			return nil, fmt.Errorf("failed to scan trade event: %w", err)
		}

		pnl, err := decimal.NewFromString(pnlStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pnl: %w", err)
		}

		e.Date = domain.DateOf(date)
		e.PnL = pnl
		e.OpKind = domain.OpKind(opKind)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trade events: %w", err)
	}

	return events, nil
}

func fetchProfiles(ctx context.Context, dbTx *sql.Tx) ([]domain.StakeholderProfile, error) {
	rows, err := dbTx.QueryContext(ctx, `
		SELECT id, profit_share_ratio
		FROM stakeholder_profiles
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list stakeholder profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]domain.StakeholderProfile, 0)
	for rows.Next() {
		var id, ratioStr string
		if err := rows.Scan(&id, &ratioStr); err != nil {
			return nil, fmt.Errorf("failed to scan stakeholder profile: %w", err)
		}

		ratio, err := decimal.NewFromString(ratioStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse profit_share_ratio: %w", err)
		}

		profiles = append(profiles, domain.StakeholderProfile{
			ID:               domain.StakeholderID(id),
			ProfitShareRatio: ratio,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stakeholder profiles: %w", err)
	}

	return profiles, nil
}

// CreateCashEvent inserts a new cash event
func (r *ledgerRepository) CreateCashEvent(ctx context.Context, e *domain.CashEvent) error {
	query := `
		INSERT INTO cash_events (id, date, amount, kind, owner_id, description)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.Date.String(),
		e.Amount.String(),
		string(e.Kind),
		string(e.OwnerID),
		e.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to insert cash event: %w", err)
	}

	return nil
}

// UpdateCashEvent replaces the fields of an existing cash event
func (r *ledgerRepository) UpdateCashEvent(ctx context.Context, e *domain.CashEvent) error {
	query := `
		UPDATE cash_events
		SET date = $2, amount = $3, kind = $4, owner_id = $5, description = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.Date.String(),
		e.Amount.String(),
		string(e.Kind),
		string(e.OwnerID),
		e.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to update cash event: %w", err)
	}

	return requireAffected(result, "cash event", e.ID)
}

// DeleteCashEvent removes a cash event
func (r *ledgerRepository) DeleteCashEvent(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cash_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete cash event: %w", err)
	}

	return requireAffected(result, "cash event", id)
}

// CreateTradeEvent inserts a new trade event
func (r *ledgerRepository) CreateTradeEvent(ctx context.Context, e *domain.TradeEvent) error {
	query := `
		INSERT INTO trade_events (id, date, name, pnl, op_kind)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.Date.String(),
		e.Name,
		e.PnL.String(),
		string(e.OpKind),
	)
	if err != nil {
		return fmt.Errorf("failed to insert trade event: %w", err)
	}

	return nil
}

// UpdateTradeEvent replaces the fields of an existing trade event
func (r *ledgerRepository) UpdateTradeEvent(ctx context.Context, e *domain.TradeEvent) error {
	query := `
		UPDATE trade_events
		SET date = $2, name = $3, pnl = $4, op_kind = $5
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.Date.String(),
		e.Name,
		e.PnL.String(),
		string(e.OpKind),
	)
	if err != nil {
		return fmt.Errorf("failed to update trade event: %w", err)
	}

	return requireAffected(result, "trade event", e.ID)
}

// DeleteTradeEvent removes a trade event
func (r *ledgerRepository) DeleteTradeEvent(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trade_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trade event: %w", err)
	}

	return requireAffected(result, "trade event", id)
}

// UpsertProfile creates or replaces a stakeholder profile
func (r *ledgerRepository) UpsertProfile(ctx context.Context, p *domain.StakeholderProfile) error {
	query := `
		INSERT INTO stakeholder_profiles (id, profit_share_ratio)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET profit_share_ratio = EXCLUDED.profit_share_ratio
	`

	if _, err := r.db.ExecContext(ctx, query, string(p.ID), p.ProfitShareRatio.String()); err != nil {
		return fmt.Errorf("failed to upsert stakeholder profile: %w", err)
	}

	return nil
}

// requireAffected turns "no row matched" into domain.ErrNotFound
func requireAffected(result sql.Result, what string, id uuid.UUID) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, domain.ErrNotFound)
	}
	return nil
}
