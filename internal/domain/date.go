package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat is the canonical YYYY-MM-DD layout used by the ledger store
const DateFormat = "2006-01-02"

// readDateFormat is permissive and accepts single-digit month/day
const readDateFormat = "2006-1-2"

// Date is a calendar day with no time-of-day and no timezone.
// The zero value means "no date" and is used for unbounded range ends.
type Date struct {
	y int
	m time.Month
	d int
}

// NewDate returns a normalized Date (e.g. Feb 30 becomes Mar 1 or 2)
func NewDate(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{t.Year(), t.Month(), t.Day()}
}

// DateOf returns the calendar day of t in t's own location
func DateOf(t time.Time) Date {
	return NewDate(t.Date())
}

// ParseDate parses a calendar date in YYYY-MM-DD form
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(readDateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// MustParseDate is like ParseDate but panics on error. Meant for tests and constants.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) Year() int             { return d.y }
func (d Date) Month() time.Month     { return d.m }
func (d Date) Day() int              { return d.d }
func (d Date) IsZero() bool          { return d == Date{} }
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

// String formats the date as YYYY-MM-DD, or "" for the zero date
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.time().Format(DateFormat)
}

// Time returns midnight UTC of the day
func (d Date) Time() time.Time { return d.time() }

func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Before reports whether d is strictly before x
func (d Date) Before(x Date) bool { return d.Compare(x) < 0 }

// After reports whether d is strictly after x
func (d Date) After(x Date) bool { return d.Compare(x) > 0 }

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after x
func (d Date) Compare(x Date) int {
	switch {
	case d.y != x.y:
		return cmpInt(d.y, x.y)
	case d.m != x.m:
		return cmpInt(int(d.m), int(x.m))
	default:
		return cmpInt(d.d, x.d)
	}
}

// AddDays returns the date i days later (or earlier for negative i)
func (d Date) AddDays(i int) Date { return NewDate(d.y, d.m, d.d+i) }

// StartOfWeek returns the Monday of d's week
func (d Date) StartOfWeek() Date {
	offset := int(d.Weekday() - time.Monday)
	if offset < 0 {
		offset += 7
	}
	return d.AddDays(-offset)
}

// StartOfMonth returns the first day of d's month
func (d Date) StartOfMonth() Date { return NewDate(d.y, d.m, 1) }

// EndOfMonth returns the last day of d's month
func (d Date) EndOfMonth() Date { return NewDate(d.y, d.m+1, 0) }

// MarshalText implements encoding.TextMarshaler
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
