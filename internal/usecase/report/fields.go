package report

import (
	"github.com/simaogato/tradeledger-backend/internal/domain"
	"github.com/simaogato/tradeledger-backend/internal/usecase/dailypnl"
	"github.com/simaogato/tradeledger-backend/internal/usecase/sorter"
)

// Sort keys shared by every listing
const (
	KeyDate = "date"
)

// BucketFields are the sortable columns of the daily P&L table
var BucketFields = sorter.Fields[dailypnl.Bucket]{
	KeyDate:        func(b dailypnl.Bucket) sorter.Value { return sorter.Date(b.Date) },
	"profit":       func(b dailypnl.Bucket) sorter.Value { return sorter.Number(b.Profit) },
	"loss":         func(b dailypnl.Bucket) sorter.Value { return sorter.Number(b.Loss) },
	"netPnl":       func(b dailypnl.Bucket) sorter.Value { return sorter.Number(b.NetPnL) },
	"startCapital": func(b dailypnl.Bucket) sorter.Value { return sorter.Number(b.StartCapital) },
	"pnlPct":       func(b dailypnl.Bucket) sorter.Value { return sorter.NullableNumber(b.PnLPct) },
	"trades":       func(b dailypnl.Bucket) sorter.Value { return sorter.Int(b.TradeCount) },
}

// CashFields are the sortable columns of the cash event listing
var CashFields = sorter.Fields[domain.CashEvent]{
	KeyDate:       func(e domain.CashEvent) sorter.Value { return sorter.Date(e.Date) },
	"amount":      func(e domain.CashEvent) sorter.Value { return sorter.Number(e.Amount) },
	"kind":        func(e domain.CashEvent) sorter.Value { return sorter.Text(string(e.Kind)) },
	"ownerId":     func(e domain.CashEvent) sorter.Value { return sorter.Text(string(e.OwnerID)) },
	"description": func(e domain.CashEvent) sorter.Value { return sorter.Text(e.Description) },
}

// TradeFields are the sortable columns of the trade listing
var TradeFields = sorter.Fields[domain.TradeEvent]{
	KeyDate:  func(e domain.TradeEvent) sorter.Value { return sorter.Date(e.Date) },
	"name":   func(e domain.TradeEvent) sorter.Value { return sorter.Text(e.Name) },
	"pnl":    func(e domain.TradeEvent) sorter.Value { return sorter.Number(e.PnL) },
	"opKind": func(e domain.TradeEvent) sorter.Value { return sorter.Text(string(e.OpKind)) },
}
