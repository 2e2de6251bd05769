package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// StakeholderProfile carries the fraction of all-time trade P&L credited to a stakeholder
type StakeholderProfile struct {
	ID               StakeholderID
	ProfitShareRatio decimal.Decimal // in [0,1]
}

// Validate ensures the ratio is a fraction
func (p *StakeholderProfile) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: stakeholder id", ErrMissingField)
	}
	if p.ProfitShareRatio.IsNegative() || p.ProfitShareRatio.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: %s must be between 0 and 1", ErrInvalidRatio, p.ProfitShareRatio)
	}
	return nil
}

// RatiosBalanced reports whether the profit share ratios sum to exactly 1.
// This is a configuration invariant; the attribution engine never enforces it.
func RatiosBalanced(profiles []StakeholderProfile) bool {
	total := decimal.Zero
	for _, p := range profiles {
		total = total.Add(p.ProfitShareRatio)
	}
	return total.Equal(decimal.NewFromInt(1))
}
