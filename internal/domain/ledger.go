package domain

// LedgerSnapshot is a complete, already-fetched copy of everything the store holds.
// Every report is recomputed from a fresh snapshot.
type LedgerSnapshot struct {
	CashEvents  []CashEvent
	TradeEvents []TradeEvent
	Profiles    []StakeholderProfile
}

// Profile returns the profile for id, if configured
func (s *LedgerSnapshot) Profile(id StakeholderID) (StakeholderProfile, bool) {
	for _, p := range s.Profiles {
		if p.ID == id {
			return p, true
		}
	}
	return StakeholderProfile{}, false
}
