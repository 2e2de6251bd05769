package dailypnl

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/simaogato/tradeledger-backend/internal/domain"
	"github.com/simaogato/tradeledger-backend/internal/usecase/capital"
)

var hundred = decimal.NewFromInt(100)

// Bucket is the P&L of a single calendar day measured against that day's starting capital
type Bucket struct {
	Date         domain.Date
	Profit       decimal.Decimal // sum of positive trade P&L, >= 0
	Loss         decimal.Decimal // sum of |negative trade P&L|, >= 0
	NetPnL       decimal.Decimal // Profit - Loss
	StartCapital decimal.Decimal
	PnLPct       *decimal.Decimal // nil when the return is undefined
	TradeCount   int
}

// Aggregate groups trades by calendar day and measures each day against the capital base
// resolved from the (unfiltered) timeline.
//
// trades is whatever subset the caller filtered; tl must be built from all cash events.
// One bucket is returned per distinct trade date, in ascending date order. Inputs are not
// modified and no state survives the call.
func Aggregate(trades []domain.TradeEvent, tl *capital.Timeline) []Bucket {
	resolver := capital.NewResolver(tl)
	byDate := make(map[domain.Date]*Bucket)

	for _, trade := range trades {
		b, ok := byDate[trade.Date]
		if !ok {
			b = &Bucket{
				Date:         trade.Date,
				StartCapital: resolver.Resolve(trade.Date),
			}
			byDate[trade.Date] = b
		}

		switch {
		case trade.PnL.IsPositive():
			b.Profit = b.Profit.Add(trade.PnL)
		case trade.PnL.IsNegative():
			b.Loss = b.Loss.Add(trade.PnL.Abs())
		}
		b.TradeCount++
	}

	buckets := make([]Bucket, 0, len(byDate))
	for _, b := range byDate {
		b.NetPnL = b.Profit.Sub(b.Loss)
		b.PnLPct = PercentReturn(b.NetPnL, b.StartCapital)
		buckets = append(buckets, *b)
	}

	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Date.Before(buckets[j].Date) })

	return buckets
}

// PercentReturn returns net/capital*100.
// With no positive capital the return is 0 for a flat day and undefined (nil) otherwise,
// so a division by zero never surfaces.
func PercentReturn(net, capital decimal.Decimal) *decimal.Decimal {
	if !capital.IsPositive() {
		if net.IsZero() {
			zero := decimal.Zero
			return &zero
		}
		return nil
	}
	pct := net.Mul(hundred).Div(capital)
	return &pct
}

// Totals sums the buckets of a report
type Totals struct {
	Profit decimal.Decimal
	Loss   decimal.Decimal
	NetPnL decimal.Decimal
	Trades int
	Days   int
}

// Sum adds up the buckets
func Sum(buckets []Bucket) Totals {
	var t Totals
	for _, b := range buckets {
		t.Profit = t.Profit.Add(b.Profit)
		t.Loss = t.Loss.Add(b.Loss)
		t.Trades += b.TradeCount
	}
	t.NetPnL = t.Profit.Sub(t.Loss)
	t.Days = len(buckets)
	return t
}
