// Package dto holds the wire shapes shared by the gRPC and HTTP transports.
// Monetary values travel as decimal strings and dates as YYYY-MM-DD.
package dto

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/tradeledger-backend/internal/domain"
	"github.com/simaogato/tradeledger-backend/internal/usecase/ledger"
	"github.com/simaogato/tradeledger-backend/internal/usecase/report"
	"github.com/simaogato/tradeledger-backend/internal/usecase/sorter"
)

// WindowRequest selects a date range: a quick filter token or explicit bounds
type WindowRequest struct {
	Range string `json:"range,omitempty" form:"range"`
	Start string `json:"start,omitempty" form:"start"`
	End   string `json:"end,omitempty" form:"end"`
}

// OrderRequest selects the sort column and direction
type OrderRequest struct {
	SortKey   string `json:"sortKey,omitempty" form:"sortKey"`
	Direction string `json:"direction,omitempty" form:"direction"`
}

// DailyPnlRequest is the daily P&L table query
type DailyPnlRequest struct {
	WindowRequest
	OrderRequest
	Name string `json:"name,omitempty" form:"name"`
}

// CashEventsRequest is the cash listing query
type CashEventsRequest struct {
	WindowRequest
	OrderRequest
	OwnerID string `json:"ownerId,omitempty" form:"ownerId"`
	Kind    string `json:"kind,omitempty" form:"kind"` // DEPOSIT, WITHDRAWAL, or empty/ALL
}

// TradeEventsRequest is the trade listing query
type TradeEventsRequest struct {
	WindowRequest
	OrderRequest
	Name   string `json:"name,omitempty" form:"name"`
	MinPnL string `json:"minPnl,omitempty" form:"minPnl"`
	MaxPnL string `json:"maxPnl,omitempty" form:"maxPnl"`
}

// CapitalRequest asks for the capital at the start of one day
type CapitalRequest struct {
	Date string `json:"date" form:"date"`
}

// CashEventRequest records or replaces a cash event
type CashEventRequest struct {
	ID      string `json:"id,omitempty"`
	Date    string `json:"date"`
	Amount  string `json:"amount"`
	Kind    string `json:"kind"`
	OwnerID string `json:"ownerId"`

	Description string `json:"description,omitempty"`
}

// TradeEventRequest records or replaces a trade event
type TradeEventRequest struct {
	ID     string `json:"id,omitempty"`
	Date   string `json:"date"`
	Name   string `json:"name"`
	PnL    string `json:"pnl"`
	OpKind string `json:"opKind"`
}

// ProfileRequest sets a stakeholder's profit share ratio
type ProfileRequest struct {
	ID               string `json:"id"`
	ProfitShareRatio string `json:"profitShareRatio"`
}

// IDRequest names one record
type IDRequest struct {
	ID string `json:"id"`
}

// Window converts the request into a report window
func (r WindowRequest) Window() (report.Window, error) {
	start, err := parseOptionalDate("start", r.Start)
	if err != nil {
		return report.Window{}, err
	}
	end, err := parseOptionalDate("end", r.End)
	if err != nil {
		return report.Window{}, err
	}
	return report.Window{Token: r.Range, Start: start, End: end}, nil
}

// Order converts the request into a report order
func (r OrderRequest) Order() (report.Order, error) {
	dir, err := sorter.ParseDirection(r.Direction)
	if err != nil {
		return report.Order{}, fmt.Errorf("%w: %v", domain.ErrInvalidQuery, err)
	}
	// A key without a direction sorts ascending
	if r.SortKey != "" && strings.TrimSpace(r.Direction) == "" {
		dir = sorter.Ascending
	}
	return report.Order{Key: strings.TrimSpace(r.SortKey), Direction: dir}, nil
}

// Query converts the request into a report query
func (r DailyPnlRequest) Query() (report.DailyPnlQuery, error) {
	w, o, err := windowAndOrder(r.WindowRequest, r.OrderRequest)
	if err != nil {
		return report.DailyPnlQuery{}, err
	}
	return report.DailyPnlQuery{Window: w, Order: o, Name: r.Name}, nil
}

// Query converts the request into a report query
func (r CashEventsRequest) Query() (report.CashQuery, error) {
	w, o, err := windowAndOrder(r.WindowRequest, r.OrderRequest)
	if err != nil {
		return report.CashQuery{}, err
	}
	q := report.CashQuery{Window: w, Order: o, OwnerID: domain.StakeholderID(strings.TrimSpace(r.OwnerID))}
	if kind := strings.TrimSpace(r.Kind); kind != "" && !strings.EqualFold(kind, "all") {
		if q.Kind, err = domain.ParseCashKind(kind); err != nil {
			return report.CashQuery{}, fmt.Errorf("%w: %v", domain.ErrInvalidQuery, err)
		}
	}
	return q, nil
}

// Query converts the request into a report query
func (r TradeEventsRequest) Query() (report.TradeQuery, error) {
	w, o, err := windowAndOrder(r.WindowRequest, r.OrderRequest)
	if err != nil {
		return report.TradeQuery{}, err
	}
	q := report.TradeQuery{Window: w, Order: o, Name: r.Name}
	if q.MinPnL, err = parseOptionalBound("minPnl", r.MinPnL); err != nil {
		return report.TradeQuery{}, err
	}
	if q.MaxPnL, err = parseOptionalBound("maxPnl", r.MaxPnL); err != nil {
		return report.TradeQuery{}, err
	}
	return q, nil
}

// ParsedDate returns the requested date
func (r CapitalRequest) ParsedDate() (domain.Date, error) {
	if strings.TrimSpace(r.Date) == "" {
		return domain.Date{}, fmt.Errorf("%w: date", domain.ErrMissingField)
	}
	return domain.ParseDate(r.Date)
}

// Input converts the request into a ledger input
func (r CashEventRequest) Input() (ledger.CashInput, error) {
	date, err := parseRequiredDate(r.Date)
	if err != nil {
		return ledger.CashInput{}, err
	}
	amount, err := parseDecimal("amount", r.Amount)
	if err != nil {
		return ledger.CashInput{}, err
	}
	kind, err := domain.ParseCashKind(r.Kind)
	if err != nil {
		return ledger.CashInput{}, err
	}
	return ledger.CashInput{
		Date:    date,
		Amount:  amount,
		Kind:    kind,
		OwnerID: domain.StakeholderID(strings.TrimSpace(r.OwnerID)),

		Description: r.Description,
	}, nil
}

// Input converts the request into a ledger input
func (r TradeEventRequest) Input() (ledger.TradeInput, error) {
	date, err := parseRequiredDate(r.Date)
	if err != nil {
		return ledger.TradeInput{}, err
	}
	pnl, err := parseDecimal("pnl", r.PnL)
	if err != nil {
		return ledger.TradeInput{}, err
	}
	opKind, err := domain.ParseOpKind(r.OpKind)
	if err != nil {
		return ledger.TradeInput{}, err
	}
	return ledger.TradeInput{Date: date, Name: r.Name, PnL: pnl, OpKind: opKind}, nil
}

// Input converts the request into a ledger input
func (r ProfileRequest) Input() (ledger.ProfileInput, error) {
	if strings.TrimSpace(r.ID) == "" {
		return ledger.ProfileInput{}, fmt.Errorf("%w: id", domain.ErrMissingField)
	}
	if strings.TrimSpace(r.ProfitShareRatio) == "" {
		return ledger.ProfileInput{}, fmt.Errorf("%w: profitShareRatio", domain.ErrMissingField)
	}
	ratio, err := decimal.NewFromString(strings.TrimSpace(r.ProfitShareRatio))
	if err != nil {
		return ledger.ProfileInput{}, fmt.Errorf("%w: %q", domain.ErrInvalidRatio, r.ProfitShareRatio)
	}
	return ledger.ProfileInput{ID: domain.StakeholderID(strings.TrimSpace(r.ID)), ProfitShareRatio: ratio}, nil
}

// ParseID parses a record id
func ParseID(s string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, fmt.Errorf("%w: id", domain.ErrMissingField)
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: id %q", domain.ErrInvalidQuery, s)
	}
	return id, nil
}

func windowAndOrder(wr WindowRequest, or OrderRequest) (report.Window, report.Order, error) {
	w, err := wr.Window()
	if err != nil {
		return report.Window{}, report.Order{}, err
	}
	o, err := or.Order()
	if err != nil {
		return report.Window{}, report.Order{}, err
	}
	return w, o, nil
}

func parseOptionalDate(field, s string) (domain.Date, error) {
	if strings.TrimSpace(s) == "" {
		return domain.Date{}, nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return domain.Date{}, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

func parseOptionalBound(field, s string) (*decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q", domain.ErrInvalidQuery, field, s)
	}
	return &d, nil
}

func parseRequiredDate(s string) (domain.Date, error) {
	if strings.TrimSpace(s) == "" {
		return domain.Date{}, fmt.Errorf("%w: date", domain.ErrMissingField)
	}
	return domain.ParseDate(s)
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrMissingField, field)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s %q", domain.ErrInvalidAmount, field, s)
	}
	return d, nil
}
