package attribution

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/tradeledger-backend/internal/domain"
)

// Result is the all-time capital attributed to one stakeholder
type Result struct {
	StakeholderID    domain.StakeholderID
	ProfitShareRatio decimal.Decimal
	Deposits         decimal.Decimal
	Withdrawals      decimal.Decimal
	PnLShare         decimal.Decimal // AllTimeNetPnL * ProfitShareRatio
	Capital          decimal.Decimal // Deposits - Withdrawals + PnLShare
}

// Summary holds the per-stakeholder results together with the account-level totals
type Summary struct {
	Results          []Result
	AllTimeNetPnL    decimal.Decimal
	TotalDeposits    decimal.Decimal // all owners, including unknown ones
	TotalWithdrawals decimal.Decimal
	// AttributedCapital is the sum of Results[].Capital
	AttributedCapital decimal.Decimal
	// AccountCapital is TotalDeposits - TotalWithdrawals + AllTimeNetPnL. It equals
	// AttributedCapital only when the ratios sum to 1 and every cash owner is configured.
	AccountCapital decimal.Decimal
}

// Compute attributes all-time capital between the configured stakeholders.
//
// Logic:
//  1. AllTimeNetPnL is the sum of every trade's P&L, without any date bound
//  2. Deposits and withdrawals are summed per owner
//  3. Each profile receives Deposits - Withdrawals + AllTimeNetPnL * ratio
//
// Ratios are trusted as given: they are neither normalized nor checked. Results follow the
// order of profiles; cash events of an owner with no profile contribute nothing.
func Compute(cashEvents []domain.CashEvent, trades []domain.TradeEvent, profiles []domain.StakeholderProfile) Summary {
	summary := Summary{
		Results: make([]Result, 0, len(profiles)),
	}

	for _, t := range trades {
		summary.AllTimeNetPnL = summary.AllTimeNetPnL.Add(t.PnL)
	}

	// Index is restricted to the configured stakeholders
	index := make(map[domain.StakeholderID]int, len(profiles))
	for _, p := range profiles {
		if _, dup := index[p.ID]; dup {
			continue
		}
		index[p.ID] = len(summary.Results)
		summary.Results = append(summary.Results, Result{
			StakeholderID:    p.ID,
			ProfitShareRatio: p.ProfitShareRatio,
		})
	}

	for _, e := range cashEvents {
		switch e.Kind {
		case domain.CashKindDeposit:
			summary.TotalDeposits = summary.TotalDeposits.Add(e.Amount)
		case domain.CashKindWithdrawal:
			summary.TotalWithdrawals = summary.TotalWithdrawals.Add(e.Amount)
		}

		i, known := index[e.OwnerID]
		if !known {
			continue
		}
		r := &summary.Results[i]
		switch e.Kind {
		case domain.CashKindDeposit:
			r.Deposits = r.Deposits.Add(e.Amount)
		case domain.CashKindWithdrawal:
			r.Withdrawals = r.Withdrawals.Add(e.Amount)
		}
	}

	for i := range summary.Results {
		r := &summary.Results[i]
		r.PnLShare = summary.AllTimeNetPnL.Mul(r.ProfitShareRatio)
		r.Capital = r.Deposits.Sub(r.Withdrawals).Add(r.PnLShare)
		summary.AttributedCapital = summary.AttributedCapital.Add(r.Capital)
	}

	summary.AccountCapital = summary.TotalDeposits.Sub(summary.TotalWithdrawals).Add(summary.AllTimeNetPnL)

	return summary
}

// Find returns the result for id
func (s Summary) Find(id domain.StakeholderID) (Result, bool) {
	for _, r := range s.Results {
		if r.StakeholderID == id {
			return r, true
		}
	}
	return Result{}, false
}

// Reconciles reports whether the attributed capital matches the account capital
func (s Summary) Reconciles() bool {
	return s.AttributedCapital.Equal(s.AccountCapital)
}
