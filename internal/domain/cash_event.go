package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashKind is the direction of a cash movement
type CashKind string

const (
	CashKindDeposit    CashKind = "DEPOSIT"
	CashKindWithdrawal CashKind = "WITHDRAWAL"
)

// ParseCashKind accepts the kind in any letter case
func ParseCashKind(s string) (CashKind, error) {
	switch CashKind(strings.ToUpper(strings.TrimSpace(s))) {
	case CashKindDeposit:
		return CashKindDeposit, nil
	case CashKindWithdrawal:
		return CashKindWithdrawal, nil
	default:
		return "", fmt.Errorf("%w: cash kind %q", ErrInvalidKind, s)
	}
}

// StakeholderID identifies one of the account's co-owners
type StakeholderID string

// CashEvent is a deposit or withdrawal owned by exactly one stakeholder
type CashEvent struct {
	ID      uuid.UUID
	Date    Date
	Amount  decimal.Decimal // ABSOLUTE VALUE (Always Positive)
	Kind    CashKind
	OwnerID StakeholderID

	Description string // optional free-text note
}

// Signed returns the amount with the sign of its effect on capital
func (e CashEvent) Signed() decimal.Decimal {
	if e.Kind == CashKindWithdrawal {
		return e.Amount.Neg()
	}
	return e.Amount
}

// Validate ensures the cash event adheres to domain rules
func (e *CashEvent) Validate() error {
	if e.Date.IsZero() {
		return fmt.Errorf("%w: cash event date", ErrMissingField)
	}
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: cash event amount must be positive", ErrInvalidAmount)
	}
	if e.Kind != CashKindDeposit && e.Kind != CashKindWithdrawal {
		return fmt.Errorf("%w: cash event kind must be DEPOSIT or WITHDRAWAL", ErrInvalidKind)
	}
	if e.OwnerID == "" {
		return fmt.Errorf("%w: cash event owner", ErrMissingField)
	}
	return nil
}
