package sorter

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/tradeledger-backend/internal/domain"
)

// Kind is the comparison family of a field value
type Kind int

const (
	KindNumber Kind = iota
	KindText
	KindDate
)

// Value is a single sortable field value
type Value struct {
	kind Kind
	null bool
	num  decimal.Decimal
	text string
	date domain.Date
}

// Number is a numeric value
func Number(d decimal.Decimal) Value { return Value{kind: KindNumber, num: d} }

// Int is a numeric value from an int
func Int(i int) Value { return Number(decimal.NewFromInt(int64(i))) }

// NullableNumber is a numeric value where nil sorts as negative infinity
func NullableNumber(d *decimal.Decimal) Value {
	if d == nil {
		return Value{kind: KindNumber, null: true}
	}
	return Number(*d)
}

// Text is compared with the locale collation
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Date is a calendar date value
func Date(d domain.Date) Value {
	if d.IsZero() {
		return Value{kind: KindDate, null: true}
	}
	return Value{kind: KindDate, date: d}
}

// DateString parses a stored calendar date so that "2024-1-5" and "2024-01-05" compare
// equal. An unparseable string sorts like a null.
func DateString(s string) Value {
	d, err := domain.ParseDate(s)
	if err != nil {
		return Value{kind: KindDate, null: true}
	}
	return Date(d)
}

// IsNull reports whether v sorts as negative infinity
func (v Value) IsNull() bool { return v.null }
