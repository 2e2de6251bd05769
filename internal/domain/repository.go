package domain

import (
	"context"

	"github.com/google/uuid"
)

// LedgerStore is the read side of the ledger store
type LedgerStore interface {
	// FetchAll returns a complete replacement snapshot of all events and profiles
	FetchAll(ctx context.Context) (*LedgerSnapshot, error)
}

// LedgerWriter defines the mutation operations owned by the store.
// Update and Delete return ErrNotFound (wrapped) when no record has the given id.
type LedgerWriter interface {
	CreateCashEvent(ctx context.Context, e *CashEvent) error
	UpdateCashEvent(ctx context.Context, e *CashEvent) error
	DeleteCashEvent(ctx context.Context, id uuid.UUID) error

	CreateTradeEvent(ctx context.Context, e *TradeEvent) error
	UpdateTradeEvent(ctx context.Context, e *TradeEvent) error
	DeleteTradeEvent(ctx context.Context, id uuid.UUID) error

	// UpsertProfile creates or replaces the profile with the same id
	UpsertProfile(ctx context.Context, p *StakeholderProfile) error
}

// LedgerRepository is implemented by the store adapters (postgres, sqlite)
type LedgerRepository interface {
	LedgerStore
	LedgerWriter
}
