package rangefilter

import (
	"fmt"
	"strings"
	"time"

	"github.com/simaogato/tradeledger-backend/internal/domain"
)

// Token names a quick filter
type Token string

const (
	Today     Token = "TODAY"
	Yesterday Token = "YESTERDAY"
	ThisWeek  Token = "THIS_WEEK"
	ThisMonth Token = "THIS_MONTH"
	LastMonth Token = "LAST_MONTH"
	AllTime   Token = "ALL_TIME"
)

// Tokens lists every quick filter in display order
var Tokens = []Token{Today, Yesterday, ThisWeek, ThisMonth, LastMonth, AllTime}

// ParseToken accepts the token in any case, with or without separators
// ("this_week", "ThisWeek", "this-week"). An empty string means AllTime.
func ParseToken(s string) (Token, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.NewReplacer("_", "", "-", "", " ", "").Replace(normalized)

	switch normalized {
	case "TODAY":
		return Today, nil
	case "YESTERDAY":
		return Yesterday, nil
	case "THISWEEK":
		return ThisWeek, nil
	case "THISMONTH":
		return ThisMonth, nil
	case "LASTMONTH":
		return LastMonth, nil
	case "ALLTIME", "ALL", "":
		return AllTime, nil
	default:
		return "", fmt.Errorf("unknown quick filter %q", s)
	}
}

// Range is an inclusive pair of calendar dates. A zero bound is unbounded.
type Range struct {
	Start domain.Date
	End   domain.Date
}

// Unbounded reports whether neither side is bounded
func (r Range) Unbounded() bool { return r.Start.IsZero() && r.End.IsZero() }

// Contains reports whether d lies in the range (bounds included)
func (r Range) Contains(d domain.Date) bool {
	if !r.Start.IsZero() && d.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && d.After(r.End) {
		return false
	}
	return true
}

// QuickFilterRange resolves token to concrete bounds relative to now.
// The calendar day is taken in now's location; weeks start on Monday regardless of locale.
func QuickFilterRange(token Token, now time.Time) (Range, error) {
	today := domain.DateOf(now)

	switch token {
	case Today:
		return Range{Start: today, End: today}, nil
	case Yesterday:
		y := today.AddDays(-1)
		return Range{Start: y, End: y}, nil
	case ThisWeek:
		monday := today.StartOfWeek()
		return Range{Start: monday, End: monday.AddDays(6)}, nil
	case ThisMonth:
		return Range{Start: today.StartOfMonth(), End: today.EndOfMonth()}, nil
	case LastMonth:
		last := today.StartOfMonth().AddDays(-1)
		return Range{Start: last.StartOfMonth(), End: last}, nil
	case AllTime:
		return Range{}, nil
	default:
		return Range{}, fmt.Errorf("unknown quick filter %q", token)
	}
}
