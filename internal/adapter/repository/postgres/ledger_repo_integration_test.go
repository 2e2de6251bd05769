//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/tradeledger-backend/internal/domain"
)

// getDBConnectionString returns the connection string for the test database
func getDBConnectionString() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}
	return "host=localhost port=5432 user=postgres password=postgres dbname=tradeledger sslmode=disable"
}

func TestLedgerRepository_Integration(t *testing.T) {
	ctx := context.Background()

	db, err := NewDB(getDBConnectionString())
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.EnsureSchema(ctx))

	repo := NewLedgerRepository(db)

	owner := domain.StakeholderID("it-" + uuid.NewString()[:8])
	require.NoError(t, repo.UpsertProfile(ctx, &domain.StakeholderProfile{ID: owner, ProfitShareRatio: decimal.RequireFromString("0.25")}))
	require.NoError(t, repo.UpsertProfile(ctx, &domain.StakeholderProfile{ID: owner, ProfitShareRatio: decimal.RequireFromString("0.5")}))

	cash := &domain.CashEvent{
		ID:      uuid.New(),
		Date:    domain.MustParseDate("2024-01-01"),
		Amount:  decimal.RequireFromString("1000.50"),
		Kind:    domain.CashKindDeposit,
		OwnerID: owner,

		Description: "opening balance",
	}
	trade := &domain.TradeEvent{
		ID:     uuid.New(),
		Date:   domain.MustParseDate("2024-01-02"),
		Name:   "EURUSD",
		PnL:    decimal.RequireFromString("-30.25"),
		OpKind: domain.OpKindSell,
	}
	require.NoError(t, repo.CreateCashEvent(ctx, cash))
	require.NoError(t, repo.CreateTradeEvent(ctx, trade))
	defer func() {
		_ = repo.DeleteCashEvent(ctx, cash.ID)
		_ = repo.DeleteTradeEvent(ctx, trade.ID)
		_, _ = db.ExecContext(ctx, `DELETE FROM stakeholder_profiles WHERE id = $1`, string(owner))
	}()

	snapshot, err := repo.FetchAll(ctx)
	require.NoError(t, err)

	var gotCash *domain.CashEvent
	for i := range snapshot.CashEvents {
		if snapshot.CashEvents[i].ID == cash.ID {
			gotCash = &snapshot.CashEvents[i]
		}
	}
	require.NotNil(t, gotCash)
	assert.Equal(t, "2024-01-01", gotCash.Date.String())
	assert.True(t, gotCash.Amount.Equal(cash.Amount))
	assert.Equal(t, "opening balance", gotCash.Description)

	p, ok := snapshot.Profile(owner)
	require.True(t, ok)
	assert.True(t, p.ProfitShareRatio.Equal(decimal.RequireFromString("0.5")))

	trade.PnL = decimal.NewFromInt(12)
	require.NoError(t, repo.UpdateTradeEvent(ctx, trade))

	require.NoError(t, repo.DeleteCashEvent(ctx, cash.ID))
	assert.ErrorIs(t, repo.DeleteCashEvent(ctx, cash.ID), domain.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateCashEvent(ctx, cash), domain.ErrNotFound)
}
