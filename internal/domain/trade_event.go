package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpKind is the side of the operation that closed with the recorded P&L
type OpKind string

const (
	OpKindBuy  OpKind = "BUY"
	OpKindSell OpKind = "SELL"
)

// ParseOpKind accepts the kind in any letter case
func ParseOpKind(s string) (OpKind, error) {
	switch OpKind(strings.ToUpper(strings.TrimSpace(s))) {
	case OpKindBuy:
		return OpKindBuy, nil
	case OpKindSell:
		return OpKindSell, nil
	default:
		return "", fmt.Errorf("%w: operation kind %q", ErrInvalidKind, s)
	}
}

// TradeEvent is a shared trade outcome. It belongs to no single stakeholder.
type TradeEvent struct {
	ID     uuid.UUID
	Date   Date
	Name   string
	PnL    decimal.Decimal // signed
	OpKind OpKind
}

// Validate ensures the trade event adheres to domain rules.
// A zero P&L is allowed; it is recorded but affects neither profit nor loss.
func (e *TradeEvent) Validate() error {
	if e.Date.IsZero() {
		return fmt.Errorf("%w: trade date", ErrMissingField)
	}
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: trade name", ErrMissingField)
	}
	if e.OpKind != OpKindBuy && e.OpKind != OpKindSell {
		return fmt.Errorf("%w: trade operation must be BUY or SELL", ErrInvalidKind)
	}
	return nil
}
