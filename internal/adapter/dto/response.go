package dto

import (
	"github.com/simaogato/tradeledger-backend/internal/domain"
	"github.com/simaogato/tradeledger-backend/internal/usecase/attribution"
	"github.com/simaogato/tradeledger-backend/internal/usecase/dailypnl"
	"github.com/simaogato/tradeledger-backend/internal/usecase/ledger"
	"github.com/simaogato/tradeledger-backend/internal/usecase/report"
)

// RangeResponse is an inclusive date range; empty bounds are open
type RangeResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// BucketResponse is one row of the daily P&L table
type BucketResponse struct {
	Date         string  `json:"date"`
	Profit       string  `json:"profit"`
	Loss         string  `json:"loss"`
	NetPnL       string  `json:"netPnl"`
	StartCapital string  `json:"startCapital"`
	PnLPct       *string `json:"pnlPct"`
	Trades       int     `json:"trades"`
}

// TotalsResponse sums the daily P&L table
type TotalsResponse struct {
	Profit string `json:"profit"`
	Loss   string `json:"loss"`
	NetPnL string `json:"netPnl"`
	Trades int    `json:"trades"`
	Days   int    `json:"days"`
}

// DailyPnlResponse is the daily P&L table
type DailyPnlResponse struct {
	Range    RangeResponse    `json:"range"`
	Buckets  []BucketResponse `json:"buckets"`
	Totals   TotalsResponse   `json:"totals"`
	Degraded bool             `json:"degraded"`
}

// StakeholderResponse is one stakeholder's attributed capital
type StakeholderResponse struct {
	ID               string `json:"id"`
	ProfitShareRatio string `json:"profitShareRatio"`
	Deposits         string `json:"deposits"`
	Withdrawals      string `json:"withdrawals"`
	PnLShare         string `json:"pnlShare"`
	Capital          string `json:"capital"`
}

// AttributionResponse is the attribution report
type AttributionResponse struct {
	Stakeholders      []StakeholderResponse `json:"stakeholders"`
	AllTimeNetPnL     string                `json:"allTimeNetPnl"`
	TotalDeposits     string                `json:"totalDeposits"`
	TotalWithdrawals  string                `json:"totalWithdrawals"`
	AttributedCapital string                `json:"attributedCapital"`
	AccountCapital    string                `json:"accountCapital"`
	RatiosBalanced    bool                  `json:"ratiosBalanced"`
	Reconciles        bool                  `json:"reconciles"`
	Degraded          bool                  `json:"degraded"`
}

// CapitalResponse is the capital at the start of one day
type CapitalResponse struct {
	Date     string `json:"date"`
	Capital  string `json:"capital"`
	Degraded bool   `json:"degraded"`
}

// CashEventResponse is one cash event
type CashEventResponse struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Amount  string `json:"amount"`
	Kind    string `json:"kind"`
	OwnerID string `json:"ownerId"`

	Description string `json:"description"`
}

// TradeEventResponse is one trade event
type TradeEventResponse struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Name   string `json:"name"`
	PnL    string `json:"pnl"`
	OpKind string `json:"opKind"`
}

// CashEventsResponse lists cash events. Total is deposits minus withdrawals.
type CashEventsResponse struct {
	Events   []CashEventResponse `json:"events"`
	Total    string              `json:"total"`
	Degraded bool                `json:"degraded"`
}

// TradeEventsResponse lists trade events. Total is the summed pnl.
type TradeEventsResponse struct {
	Events   []TradeEventResponse `json:"events"`
	Total    string               `json:"total"`
	Degraded bool                 `json:"degraded"`
}

// ProfileResponse is a stored stakeholder profile
type ProfileResponse struct {
	ID               string `json:"id"`
	ProfitShareRatio string `json:"profitShareRatio"`
	RatiosBalanced   bool   `json:"ratiosBalanced"`
}

// DeleteResponse acknowledges a deletion
type DeleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// NewDailyPnlResponse converts a daily P&L report
func NewDailyPnlResponse(r *report.DailyPnlReport) DailyPnlResponse {
	buckets := make([]BucketResponse, 0, len(r.Buckets))
	for _, b := range r.Buckets {
		buckets = append(buckets, newBucketResponse(b))
	}
	return DailyPnlResponse{
		Range:   RangeResponse{Start: r.Range.Start.String(), End: r.Range.End.String()},
		Buckets: buckets,
		Totals: TotalsResponse{
			Profit: r.Totals.Profit.String(),
			Loss:   r.Totals.Loss.String(),
			NetPnL: r.Totals.NetPnL.String(),
			Trades: r.Totals.Trades,
			Days:   r.Totals.Days,
		},
		Degraded: r.Degraded,
	}
}

func newBucketResponse(b dailypnl.Bucket) BucketResponse {
	resp := BucketResponse{
		Date:         b.Date.String(),
		Profit:       b.Profit.String(),
		Loss:         b.Loss.String(),
		NetPnL:       b.NetPnL.String(),
		StartCapital: b.StartCapital.String(),
		Trades:       b.TradeCount,
	}
	if b.PnLPct != nil {
		pct := b.PnLPct.StringFixed(4)
		resp.PnLPct = &pct
	}
	return resp
}

// NewAttributionResponse converts an attribution report
func NewAttributionResponse(r *report.AttributionReport) AttributionResponse {
	stakeholders := make([]StakeholderResponse, 0, len(r.Results))
	for _, res := range r.Results {
		stakeholders = append(stakeholders, newStakeholderResponse(res))
	}
	return AttributionResponse{
		Stakeholders:      stakeholders,
		AllTimeNetPnL:     r.AllTimeNetPnL.String(),
		TotalDeposits:     r.TotalDeposits.String(),
		TotalWithdrawals:  r.TotalWithdrawals.String(),
		AttributedCapital: r.AttributedCapital.String(),
		AccountCapital:    r.AccountCapital.String(),
		RatiosBalanced:    r.RatiosBalanced,
		Reconciles:        r.Reconciles(),
		Degraded:          r.Degraded,
	}
}

func newStakeholderResponse(r attribution.Result) StakeholderResponse {
	return StakeholderResponse{
		ID:               string(r.StakeholderID),
		ProfitShareRatio: r.ProfitShareRatio.String(),
		Deposits:         r.Deposits.String(),
		Withdrawals:      r.Withdrawals.String(),
		PnLShare:         r.PnLShare.String(),
		Capital:          r.Capital.String(),
	}
}

// NewCapitalResponse converts a capital lookup
func NewCapitalResponse(r *report.CapitalReport) CapitalResponse {
	return CapitalResponse{Date: r.Date.String(), Capital: r.Capital.String(), Degraded: r.Degraded}
}

// NewCashEventResponse converts one cash event
func NewCashEventResponse(e *domain.CashEvent) CashEventResponse {
	return CashEventResponse{
		ID:      e.ID.String(),
		Date:    e.Date.String(),
		Amount:  e.Amount.String(),
		Kind:    string(e.Kind),
		OwnerID: string(e.OwnerID),

		Description: e.Description,
	}
}

// NewTradeEventResponse converts one trade event
func NewTradeEventResponse(e *domain.TradeEvent) TradeEventResponse {
	return TradeEventResponse{
		ID:     e.ID.String(),
		Date:   e.Date.String(),
		Name:   e.Name,
		PnL:    e.PnL.String(),
		OpKind: string(e.OpKind),
	}
}

// NewCashEventsResponse converts a cash listing
func NewCashEventsResponse(l *report.CashListing) CashEventsResponse {
	events := make([]CashEventResponse, 0, len(l.Events))
	for i := range l.Events {
		events = append(events, NewCashEventResponse(&l.Events[i]))
	}
	return CashEventsResponse{Events: events, Total: l.Total.String(), Degraded: l.Degraded}
}

// NewTradeEventsResponse converts a trade listing
func NewTradeEventsResponse(l *report.TradeListing) TradeEventsResponse {
	events := make([]TradeEventResponse, 0, len(l.Events))
	for i := range l.Events {
		events = append(events, NewTradeEventResponse(&l.Events[i]))
	}
	return TradeEventsResponse{Events: events, Total: l.Total.String(), Degraded: l.Degraded}
}

// NewProfileResponse converts a profile update
func NewProfileResponse(u *ledger.ProfileUpdate) ProfileResponse {
	return ProfileResponse{
		ID:               string(u.Profile.ID),
		ProfitShareRatio: u.Profile.ProfitShareRatio.String(),
		RatiosBalanced:   u.RatiosBalanced,
	}
}
