package capital

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/tradeledger-backend/internal/domain"
)

// ResolveCapitalAtDate returns the capital base at the start of target.
//
// Resolution order:
//  1. The recorded snapshot for target, when one exists and is non-zero
//  2. The latest snapshot strictly before target plus every cash movement from that day
//     up to (excluding) target
//  3. With no earlier snapshot, the deposits dated exactly target. Same-day withdrawals are
//     NOT subtracted here, which mirrors the historical behavior of the ledger.
//  4. Zero
//
// A zero-valued snapshot is treated as absent, so the very first funding day resolves to
// its own deposits instead of zero.
func ResolveCapitalAtDate(target domain.Date, tl *Timeline) decimal.Decimal {
	if tl.Len() == 0 {
		return decimal.Zero
	}

	i, exact := tl.index(target)
	if exact && !tl.before[i].IsZero() {
		return tl.before[i]
	}

	// Latest snapshot strictly before target. Only that day's events lie in
	// [snapshotDate, target), so the day's closing capital is the base.
	if i > 0 {
		return tl.after[i-1]
	}

	// TODO: decide with both stakeholders whether same-day withdrawals should reduce the
	// first-day base; kept deposit-only until then.
	if exact {
		return tl.deposits[i]
	}

	return decimal.Zero
}

// Resolver memoizes ResolveCapitalAtDate per distinct date for the duration of a single
// aggregation pass. Create a new Resolver for every pass; it is not safe for concurrent use.
type Resolver struct {
	timeline *Timeline
	cache    map[domain.Date]decimal.Decimal
}

// NewResolver creates a resolver over tl
func NewResolver(tl *Timeline) *Resolver {
	return &Resolver{
		timeline: tl,
		cache:    make(map[domain.Date]decimal.Decimal),
	}
}

// Resolve returns the start-of-day capital for d, computing it at most once
func (r *Resolver) Resolve(d domain.Date) decimal.Decimal {
	if v, ok := r.cache[d]; ok {
		return v
	}
	v := ResolveCapitalAtDate(d, r.timeline)
	r.cache[d] = v
	return v
}
