package dailypnl

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/tradeledger-backend/internal/domain"
	"github.com/simaogato/tradeledger-backend/internal/usecase/capital"
)

func trade(date string, pnl int64) domain.TradeEvent {
	return domain.TradeEvent{
		Date:   domain.MustParseDate(date),
		Name:   "EURUSD",
		PnL:    decimal.NewFromInt(pnl),
		OpKind: domain.OpKindSell,
	}
}

func deposit(date string, amount int64) domain.CashEvent {
	return domain.CashEvent{
		Date:    domain.MustParseDate(date),
		Amount:  decimal.NewFromInt(amount),
		Kind:    domain.CashKindDeposit,
		OwnerID: "x",
	}
}

func requirePct(t *testing.T, want int64, got *decimal.Decimal) {
	t.Helper()
	require.NotNil(t, got)
	assert.True(t, got.Equal(decimal.NewFromInt(want)), "pnlPct: got %s, want %d", got, want)
}

func TestAggregate_SingleDepositScenario(t *testing.T) {
	// Deposit 1000 on 2024-01-01, trade +100 on 2024-01-01, trade -30 on 2024-01-02
	tl := capital.BuildTimeline([]domain.CashEvent{deposit("2024-01-01", 1000)})
	trades := []domain.TradeEvent{
		trade("2024-01-01", 100),
		trade("2024-01-02", -30),
	}

	buckets := Aggregate(trades, tl)

	require.Len(t, buckets, 2)

	day1 := buckets[0]
	assert.Equal(t, "2024-01-01", day1.Date.String())
	assert.True(t, day1.Profit.Equal(decimal.NewFromInt(100)))
	assert.True(t, day1.Loss.IsZero())
	assert.True(t, day1.NetPnL.Equal(decimal.NewFromInt(100)))
	assert.True(t, day1.StartCapital.Equal(decimal.NewFromInt(1000)))
	requirePct(t, 10, day1.PnLPct)

	day2 := buckets[1]
	assert.Equal(t, "2024-01-02", day2.Date.String())
	assert.True(t, day2.Profit.IsZero())
	assert.True(t, day2.Loss.Equal(decimal.NewFromInt(30)))
	assert.True(t, day2.NetPnL.Equal(decimal.NewFromInt(-30)))
	assert.True(t, day2.StartCapital.Equal(decimal.NewFromInt(1000)), "trade P&L never enters the capital basis")
	requirePct(t, -3, day2.PnLPct)
}

func TestAggregate_SplitsProfitAndLossWithinADay(t *testing.T) {
	tl := capital.BuildTimeline([]domain.CashEvent{deposit("2024-01-01", 2000)})
	trades := []domain.TradeEvent{
		trade("2024-01-03", 150),
		trade("2024-01-03", -50),
		trade("2024-01-03", 0),
		trade("2024-01-03", 20),
	}

	buckets := Aggregate(trades, tl)

	require.Len(t, buckets, 1)
	b := buckets[0]
	assert.True(t, b.Profit.Equal(decimal.NewFromInt(170)))
	assert.True(t, b.Loss.Equal(decimal.NewFromInt(50)))
	assert.True(t, b.NetPnL.Equal(decimal.NewFromInt(120)))
	assert.Equal(t, 4, b.TradeCount)
	requirePct(t, 6, b.PnLPct)
}

func TestAggregate_UndefinedReturnWithoutCapital(t *testing.T) {
	tl := capital.BuildTimeline(nil)

	buckets := Aggregate([]domain.TradeEvent{
		trade("2024-01-01", 100),
		trade("2024-01-02", 40),
		trade("2024-01-02", -40),
	}, tl)

	require.Len(t, buckets, 2)
	assert.Nil(t, buckets[0].PnLPct, "non-zero net against no capital has no percentage")
	requirePct(t, 0, buckets[1].PnLPct)
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil, capital.BuildTimeline(nil)))
	assert.Empty(t, Aggregate(nil, nil))
}

func TestAggregate_PermutationInvariant(t *testing.T) {
	tl := capital.BuildTimeline([]domain.CashEvent{
		deposit("2024-01-01", 5000),
		deposit("2024-01-15", 2500),
	})

	rng := rand.New(rand.NewSource(7))
	trades := make([]domain.TradeEvent, 0, 60)
	for i := 0; i < 60; i++ {
		day := domain.MustParseDate("2024-01-01").AddDays(rng.Intn(30)).String()
		trades = append(trades, trade(day, int64(rng.Intn(400)-200)))
	}

	want := Aggregate(trades, tl)

	for round := 0; round < 5; round++ {
		shuffled := append([]domain.TradeEvent(nil), trades...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got := Aggregate(shuffled, tl)

		require.Len(t, got, len(want))
		for i := range want {
			assert.Equal(t, want[i].Date, got[i].Date)
			assert.True(t, want[i].NetPnL.Equal(got[i].NetPnL))
			assert.True(t, want[i].StartCapital.Equal(got[i].StartCapital))
		}
	}
}

func TestPercentReturn(t *testing.T) {
	tests := []struct {
		name    string
		net     string
		capital string
		wantNil bool
		wantPct string
	}{
		{name: "positive capital", net: "25", capital: "500", wantPct: "5"},
		{name: "fractional return", net: "1", capital: "3", wantPct: "33.3333333333333333"},
		{name: "zero capital, zero net", net: "0", capital: "0", wantPct: "0"},
		{name: "negative capital, zero net", net: "0", capital: "-10", wantPct: "0"},
		{name: "zero capital, profit", net: "10", capital: "0", wantNil: true},
		{name: "negative capital, loss", net: "-10", capital: "-100", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentReturn(decimal.RequireFromString(tt.net), decimal.RequireFromString(tt.capital))
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.wantPct)), "got %s", got)
		})
	}
}

func TestSum(t *testing.T) {
	tl := capital.BuildTimeline([]domain.CashEvent{deposit("2024-01-01", 1000)})
	buckets := Aggregate([]domain.TradeEvent{
		trade("2024-01-01", 100),
		trade("2024-01-02", -30),
		trade("2024-01-02", 10),
	}, tl)

	totals := Sum(buckets)

	assert.True(t, totals.Profit.Equal(decimal.NewFromInt(110)))
	assert.True(t, totals.Loss.Equal(decimal.NewFromInt(30)))
	assert.True(t, totals.NetPnL.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, 3, totals.Trades)
	assert.Equal(t, 2, totals.Days)
}
