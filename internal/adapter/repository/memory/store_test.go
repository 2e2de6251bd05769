package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/tradeledger-backend/internal/domain"
)

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	late := &domain.CashEvent{ID: uuid.New(), Date: domain.MustParseDate("2024-02-01"), Amount: decimal.NewFromInt(10), Kind: domain.CashKindDeposit, OwnerID: "x"}
	early := &domain.CashEvent{ID: uuid.New(), Date: domain.MustParseDate("2024-01-01"), Amount: decimal.NewFromInt(20), Kind: domain.CashKindDeposit, OwnerID: "y"}
	trade := &domain.TradeEvent{ID: uuid.New(), Date: domain.MustParseDate("2024-01-02"), Name: "EURUSD", PnL: decimal.NewFromInt(-4), OpKind: domain.OpKindSell}

	require.NoError(t, s.CreateCashEvent(ctx, late))
	require.NoError(t, s.CreateCashEvent(ctx, early))
	require.NoError(t, s.CreateTradeEvent(ctx, trade))
	require.NoError(t, s.UpsertProfile(ctx, &domain.StakeholderProfile{ID: "y", ProfitShareRatio: decimal.RequireFromString("0.5")}))
	require.NoError(t, s.UpsertProfile(ctx, &domain.StakeholderProfile{ID: "x", ProfitShareRatio: decimal.RequireFromString("0.5")}))

	snapshot, err := s.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot.CashEvents, 2)
	assert.Equal(t, early.ID, snapshot.CashEvents[0].ID, "cash events are ordered by date")
	require.Len(t, snapshot.TradeEvents, 1)
	require.Len(t, snapshot.Profiles, 2)
	assert.Equal(t, domain.StakeholderID("x"), snapshot.Profiles[0].ID)

	// The snapshot is a copy
	snapshot.CashEvents[0].Amount = decimal.NewFromInt(999)
	again, err := s.FetchAll(ctx)
	require.NoError(t, err)
	assert.True(t, again.CashEvents[0].Amount.Equal(decimal.NewFromInt(20)))
}

func TestStore_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	e := &domain.CashEvent{ID: uuid.New(), Date: domain.MustParseDate("2024-01-01"), Amount: decimal.NewFromInt(10), Kind: domain.CashKindDeposit, OwnerID: "x"}
	require.NoError(t, s.CreateCashEvent(ctx, e))

	assert.Error(t, s.CreateCashEvent(ctx, e), "duplicate ids are rejected")

	e.Amount = decimal.NewFromInt(15)
	require.NoError(t, s.UpdateCashEvent(ctx, e))
	require.NoError(t, s.DeleteCashEvent(ctx, e.ID))

	assert.ErrorIs(t, s.DeleteCashEvent(ctx, e.ID), domain.ErrNotFound)
	assert.ErrorIs(t, s.UpdateCashEvent(ctx, e), domain.ErrNotFound)
	assert.ErrorIs(t, s.DeleteTradeEvent(ctx, uuid.New()), domain.ErrNotFound)
	assert.ErrorIs(t, s.UpdateTradeEvent(ctx, &domain.TradeEvent{ID: uuid.New()}), domain.ErrNotFound)
}

func TestStore_FetchErrors(t *testing.T) {
	s := NewStore()
	s.FetchErr = errors.New("sheet unavailable")

	_, err := s.FetchAll(context.Background())
	assert.EqualError(t, err, "sheet unavailable")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewStore().FetchAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
