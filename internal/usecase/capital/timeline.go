package capital

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/simaogato/tradeledger-backend/internal/domain"
)

// Timeline is the capital-at-start-of-day snapshot built from cash events only.
//
// It is sparse: only dates carrying at least one cash event have an entry. Entries are kept
// in a sorted array with prefix sums so that any date resolves with a binary search.
// Trade P&L never enters the capital basis.
type Timeline struct {
	dates    []domain.Date
	before   []decimal.Decimal // capital before the day's cash events
	after    []decimal.Decimal // capital after the day's cash events
	deposits []decimal.Decimal // sum of the day's deposits only
}

// SnapshotEntry is one recorded start-of-day capital value
type SnapshotEntry struct {
	Date    domain.Date
	Capital decimal.Decimal
}

// BuildTimeline computes the snapshot from all cash events (unfiltered, all time).
// The input slice is not modified.
func BuildTimeline(events []domain.CashEvent) *Timeline {
	// Group signed deltas and deposits per day
	deltas := make(map[domain.Date]decimal.Decimal)
	deposits := make(map[domain.Date]decimal.Decimal)
	for _, e := range events {
		deltas[e.Date] = deltas[e.Date].Add(e.Signed())
		if e.Kind == domain.CashKindDeposit {
			deposits[e.Date] = deposits[e.Date].Add(e.Amount)
		}
	}

	dates := make([]domain.Date, 0, len(deltas))
	for d := range deltas {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	tl := &Timeline{
		dates:    dates,
		before:   make([]decimal.Decimal, len(dates)),
		after:    make([]decimal.Decimal, len(dates)),
		deposits: make([]decimal.Decimal, len(dates)),
	}

	running := decimal.Zero
	for i, d := range dates {
		tl.before[i] = running
		running = running.Add(deltas[d])
		tl.after[i] = running
		tl.deposits[i] = deposits[d]
	}

	return tl
}

// Len returns the number of snapshot entries
func (t *Timeline) Len() int {
	if t == nil {
		return 0
	}
	return len(t.dates)
}

// At returns the recorded start-of-day capital for d, if d carries cash events
func (t *Timeline) At(d domain.Date) (decimal.Decimal, bool) {
	i, ok := t.index(d)
	if !ok {
		return decimal.Zero, false
	}
	return t.before[i], true
}

// Entries returns the snapshot in ascending date order
func (t *Timeline) Entries() []SnapshotEntry {
	entries := make([]SnapshotEntry, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		entries = append(entries, SnapshotEntry{Date: t.dates[i], Capital: t.before[i]})
	}
	return entries
}

// Closing returns the capital after every recorded cash event
func (t *Timeline) Closing() decimal.Decimal {
	if t.Len() == 0 {
		return decimal.Zero
	}
	return t.after[len(t.after)-1]
}

// search returns the position of the first entry not before d
func (t *Timeline) search(d domain.Date) int {
	return sort.Search(t.Len(), func(i int) bool { return !t.dates[i].Before(d) })
}

func (t *Timeline) index(d domain.Date) (int, bool) {
	i := t.search(d)
	if i < t.Len() && t.dates[i] == d {
		return i, true
	}
	return i, false
}
