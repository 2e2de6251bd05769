// Package memory provides a process-local ledger store, used for development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/simaogato/tradeledger-backend/internal/domain"
)

// Store keeps the ledger in maps guarded by a mutex.
// FetchAll hands out copies so callers never share state with the store.
type Store struct {
	mu       sync.RWMutex
	cash     map[uuid.UUID]domain.CashEvent
	trades   map[uuid.UUID]domain.TradeEvent
	profiles map[domain.StakeholderID]domain.StakeholderProfile

	// FetchErr, when set, is returned by FetchAll. Lets callers exercise a failing store.
	FetchErr error
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		cash:     make(map[uuid.UUID]domain.CashEvent),
		trades:   make(map[uuid.UUID]domain.TradeEvent),
		profiles: make(map[domain.StakeholderID]domain.StakeholderProfile),
	}
}

// FetchAll returns every record, ordered by date then id
func (s *Store) FetchAll(ctx context.Context) (*domain.LedgerSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.FetchErr != nil {
		return nil, s.FetchErr
	}

	snapshot := &domain.LedgerSnapshot{
		CashEvents:  make([]domain.CashEvent, 0, len(s.cash)),
		TradeEvents: make([]domain.TradeEvent, 0, len(s.trades)),
		Profiles:    make([]domain.StakeholderProfile, 0, len(s.profiles)),
	}
	for _, e := range s.cash {
		snapshot.CashEvents = append(snapshot.CashEvents, e)
	}
	for _, e := range s.trades {
		snapshot.TradeEvents = append(snapshot.TradeEvents, e)
	}
	for _, p := range s.profiles {
		snapshot.Profiles = append(snapshot.Profiles, p)
	}

	sort.Slice(snapshot.CashEvents, func(i, j int) bool {
		a, b := snapshot.CashEvents[i], snapshot.CashEvents[j]
		if a.Date != b.Date {
			return a.Date.Before(b.Date)
		}
		return a.ID.String() < b.ID.String()
	})
	sort.Slice(snapshot.TradeEvents, func(i, j int) bool {
		a, b := snapshot.TradeEvents[i], snapshot.TradeEvents[j]
		if a.Date != b.Date {
			return a.Date.Before(b.Date)
		}
		return a.ID.String() < b.ID.String()
	})
	sort.Slice(snapshot.Profiles, func(i, j int) bool {
		return snapshot.Profiles[i].ID < snapshot.Profiles[j].ID
	})

	return snapshot, nil
}

// CreateCashEvent stores a new cash event
func (s *Store) CreateCashEvent(ctx context.Context, e *domain.CashEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cash[e.ID]; exists {
		return fmt.Errorf("cash event %s already exists", e.ID)
	}
	s.cash[e.ID] = *e
	return nil
}

// UpdateCashEvent replaces an existing cash event
func (s *Store) UpdateCashEvent(ctx context.Context, e *domain.CashEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cash[e.ID]; !exists {
		return fmt.Errorf("cash event %s: %w", e.ID, domain.ErrNotFound)
	}
	s.cash[e.ID] = *e
	return nil
}

// DeleteCashEvent removes a cash event
func (s *Store) DeleteCashEvent(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cash[id]; !exists {
		return fmt.Errorf("cash event %s: %w", id, domain.ErrNotFound)
	}
	delete(s.cash, id)
	return nil
}

// CreateTradeEvent stores a new trade event
func (s *Store) CreateTradeEvent(ctx context.Context, e *domain.TradeEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.trades[e.ID]; exists {
		return fmt.Errorf("trade event %s already exists", e.ID)
	}
	s.trades[e.ID] = *e
	return nil
}

// UpdateTradeEvent replaces an existing trade event
func (s *Store) UpdateTradeEvent(ctx context.Context, e *domain.TradeEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.trades[e.ID]; !exists {
		return fmt.Errorf("trade event %s: %w", e.ID, domain.ErrNotFound)
	}
	s.trades[e.ID] = *e
	return nil
}

// DeleteTradeEvent removes a trade event
func (s *Store) DeleteTradeEvent(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.trades[id]; !exists {
		return fmt.Errorf("trade event %s: %w", id, domain.ErrNotFound)
	}
	delete(s.trades, id)
	return nil
}

// UpsertProfile creates or replaces a stakeholder profile
func (s *Store) UpsertProfile(ctx context.Context, p *domain.StakeholderProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[p.ID] = *p
	return nil
}

var _ domain.LedgerRepository = (*Store)(nil)
