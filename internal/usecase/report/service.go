// Package report turns a ledger snapshot into the read models served to clients:
// the daily P&L table, stakeholder attribution, capital lookups and event listings.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/simaogato/tradeledger-backend/internal/domain"
	"github.com/simaogato/tradeledger-backend/internal/logging"
	"github.com/simaogato/tradeledger-backend/internal/usecase/attribution"
	"github.com/simaogato/tradeledger-backend/internal/usecase/capital"
	"github.com/simaogato/tradeledger-backend/internal/usecase/dailypnl"
	"github.com/simaogato/tradeledger-backend/internal/usecase/rangefilter"
	"github.com/simaogato/tradeledger-backend/internal/usecase/sorter"
)

// Window selects a date range. Explicit Start/End bounds win over the quick filter token.
type Window struct {
	Token string
	Start domain.Date
	End   domain.Date
}

// Order selects a sort column. An empty key sorts by date ascending.
type Order struct {
	Key       string
	Direction sorter.Direction
}

// DailyPnlQuery filters and orders the daily P&L table
type DailyPnlQuery struct {
	Window
	Order
	Name string // case-insensitive substring of the trade name
}

// DailyPnlReport is the daily P&L table for one range
type DailyPnlReport struct {
	Range    rangefilter.Range
	Buckets  []dailypnl.Bucket
	Totals   dailypnl.Totals
	Degraded bool // the store could not be read; the report is empty
}

// AttributionReport splits the all-time account capital between stakeholders
type AttributionReport struct {
	attribution.Summary
	RatiosBalanced bool
	Degraded       bool
}

// CapitalReport is the capital available at the start of one day
type CapitalReport struct {
	Date     domain.Date
	Capital  decimal.Decimal
	Degraded bool
}

// CashQuery filters and orders the cash event listing
type CashQuery struct {
	Window
	Order
	OwnerID domain.StakeholderID
	Kind    domain.CashKind // empty lists both kinds
}

// CashListing is a filtered, ordered set of cash events
type CashListing struct {
	Events   []domain.CashEvent
	Total    decimal.Decimal // deposits minus withdrawals over Events
	Degraded bool
}

// TradeQuery filters and orders the trade listing.
// MinPnL and MaxPnL are inclusive bounds; nil leaves that side open.
type TradeQuery struct {
	Window
	Order
	Name   string
	MinPnL *decimal.Decimal
	MaxPnL *decimal.Decimal
}

// TradeListing is a filtered, ordered set of trade events
type TradeListing struct {
	Events   []domain.TradeEvent
	Total    decimal.Decimal // summed pnl over Events
	Degraded bool
}

// ReportService builds read models from the ledger store.
// Every call fetches the whole ledger and recomputes from scratch.
type ReportService struct {
	Store  domain.LedgerStore
	Locale language.Tag
	Now    func() time.Time

	logger zerolog.Logger
}

// NewReportService creates a new ReportService instance
func NewReportService(store domain.LedgerStore, locale language.Tag, logger zerolog.Logger) *ReportService {
	return &ReportService{
		Store:  store,
		Locale: locale,
		Now:    time.Now,
		logger: logging.Component(logger, "report"),
	}
}

// DailyPnl aggregates the trades in the query range into one bucket per day.
// Start capital comes from the full cash history, not only the filtered range.
func (s *ReportService) DailyPnl(ctx context.Context, q DailyPnlQuery) (*DailyPnlReport, error) {
	r, err := s.resolveWindow(q.Window)
	if err != nil {
		return nil, err
	}

	snapshot, degraded := s.fetch(ctx)

	name := strings.ToLower(strings.TrimSpace(q.Name))
	trades := make([]domain.TradeEvent, 0, len(snapshot.TradeEvents))
	for _, t := range snapshot.TradeEvents {
		if !r.Contains(t.Date) {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(t.Name), name) {
			continue
		}
		trades = append(trades, t)
	}

	timeline := capital.BuildTimeline(snapshot.CashEvents)
	buckets, err := sortRecords(dailypnl.Aggregate(trades, timeline), q.Order, BucketFields, s.Locale)
	if err != nil {
		return nil, err
	}

	return &DailyPnlReport{
		Range:    r,
		Buckets:  buckets,
		Totals:   dailypnl.Sum(buckets),
		Degraded: degraded,
	}, nil
}

// Attribution computes every configured stakeholder's share of the account
func (s *ReportService) Attribution(ctx context.Context) (*AttributionReport, error) {
	snapshot, degraded := s.fetch(ctx)

	balanced := domain.RatiosBalanced(snapshot.Profiles)
	if !balanced && len(snapshot.Profiles) > 0 {
		s.logger.Warn().Int("profiles", len(snapshot.Profiles)).Msg("profit share ratios do not sum to 1")
	}

	return &AttributionReport{
		Summary:        attribution.Compute(snapshot.CashEvents, snapshot.TradeEvents, snapshot.Profiles),
		RatiosBalanced: balanced,
		Degraded:       degraded,
	}, nil
}

// CapitalAt returns the capital at the start of date
func (s *ReportService) CapitalAt(ctx context.Context, date domain.Date) (*CapitalReport, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date", domain.ErrMissingField)
	}

	snapshot, degraded := s.fetch(ctx)
	timeline := capital.BuildTimeline(snapshot.CashEvents)

	return &CapitalReport{
		Date:     date,
		Capital:  capital.ResolveCapitalAtDate(date, timeline),
		Degraded: degraded,
	}, nil
}

// CashEvents lists cash events in the query range, optionally for one owner or kind
func (s *ReportService) CashEvents(ctx context.Context, q CashQuery) (*CashListing, error) {
	r, err := s.resolveWindow(q.Window)
	if err != nil {
		return nil, err
	}
	if q.Kind != "" && q.Kind != domain.CashKindDeposit && q.Kind != domain.CashKindWithdrawal {
		return nil, fmt.Errorf("%w: cash kind %q", domain.ErrInvalidQuery, q.Kind)
	}

	snapshot, degraded := s.fetch(ctx)

	events := make([]domain.CashEvent, 0, len(snapshot.CashEvents))
	for _, e := range snapshot.CashEvents {
		if !r.Contains(e.Date) {
			continue
		}
		if q.OwnerID != "" && e.OwnerID != q.OwnerID {
			continue
		}
		if q.Kind != "" && e.Kind != q.Kind {
			continue
		}
		events = append(events, e)
	}

	events, err = sortRecords(events, q.Order, CashFields, s.Locale)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, e := range events {
		total = total.Add(e.Signed())
	}
	return &CashListing{Events: events, Total: total, Degraded: degraded}, nil
}

// TradeEvents lists trades in the query range, optionally matching a name and a pnl band
func (s *ReportService) TradeEvents(ctx context.Context, q TradeQuery) (*TradeListing, error) {
	r, err := s.resolveWindow(q.Window)
	if err != nil {
		return nil, err
	}
	if q.MinPnL != nil && q.MaxPnL != nil && q.MaxPnL.LessThan(*q.MinPnL) {
		return nil, fmt.Errorf("%w: max pnl %s is below min pnl %s", domain.ErrInvalidQuery, q.MaxPnL, q.MinPnL)
	}

	snapshot, degraded := s.fetch(ctx)

	name := strings.ToLower(strings.TrimSpace(q.Name))
	events := make([]domain.TradeEvent, 0, len(snapshot.TradeEvents))
	for _, e := range snapshot.TradeEvents {
		if !r.Contains(e.Date) {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(e.Name), name) {
			continue
		}
		if q.MinPnL != nil && e.PnL.LessThan(*q.MinPnL) {
			continue
		}
		if q.MaxPnL != nil && e.PnL.GreaterThan(*q.MaxPnL) {
			continue
		}
		events = append(events, e)
	}

	events, err = sortRecords(events, q.Order, TradeFields, s.Locale)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, e := range events {
		total = total.Add(e.PnL)
	}
	return &TradeListing{Events: events, Total: total, Degraded: degraded}, nil
}

// fetch reads the ledger. A failed read is logged and replaced by an empty snapshot.
func (s *ReportService) fetch(ctx context.Context) (*domain.LedgerSnapshot, bool) {
	snapshot, err := s.Store.FetchAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch ledger snapshot")
		return &domain.LedgerSnapshot{}, true
	}
	if snapshot == nil {
		return &domain.LedgerSnapshot{}, false
	}
	return snapshot, false
}

func (s *ReportService) resolveWindow(w Window) (rangefilter.Range, error) {
	if !w.Start.IsZero() || !w.End.IsZero() {
		r := rangefilter.Range{Start: w.Start, End: w.End}
		if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
			return rangefilter.Range{}, fmt.Errorf("%w: range end %s is before start %s", domain.ErrInvalidQuery, r.End, r.Start)
		}
		return r, nil
	}

	token, err := rangefilter.ParseToken(w.Token)
	if err != nil {
		return rangefilter.Range{}, fmt.Errorf("%w: %v", domain.ErrInvalidQuery, err)
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	r, err := rangefilter.QuickFilterRange(token, now())
	if err != nil {
		return rangefilter.Range{}, fmt.Errorf("%w: %v", domain.ErrInvalidQuery, err)
	}
	return r, nil
}

func sortRecords[T any](records []T, o Order, fields sorter.Fields[T], locale language.Tag) ([]T, error) {
	key, dir := o.Key, o.Direction
	if key == "" {
		key = KeyDate
		if dir == sorter.None {
			dir = sorter.Ascending
		}
	}
	sorted, err := sorter.Sort(records, key, dir, fields, locale)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidQuery, err)
	}
	return sorted, nil
}
