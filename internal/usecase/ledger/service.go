package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/simaogato/tradeledger-backend/internal/domain"
	"github.com/simaogato/tradeledger-backend/internal/logging"
)

// CashInput represents the input for recording a deposit or withdrawal
type CashInput struct {
	Date    domain.Date
	Amount  decimal.Decimal // must be positive; Kind carries the direction
	Kind    domain.CashKind
	OwnerID domain.StakeholderID

	Description string // optional
}

// TradeInput represents the input for recording a trade outcome
type TradeInput struct {
	Date   domain.Date
	Name   string
	PnL    decimal.Decimal
	OpKind domain.OpKind
}

// ProfileInput represents a new profit share ratio for an existing stakeholder
type ProfileInput struct {
	ID               domain.StakeholderID
	ProfitShareRatio decimal.Decimal
}

// ProfileUpdate is the stored profile and whether all ratios now sum to 1
type ProfileUpdate struct {
	Profile        domain.StakeholderProfile
	RatiosBalanced bool
}

// LedgerService handles writes to the ledger
type LedgerService struct {
	Repo domain.LedgerRepository

	logger zerolog.Logger
}

// NewLedgerService creates a new LedgerService instance
func NewLedgerService(repo domain.LedgerRepository, logger zerolog.Logger) *LedgerService {
	return &LedgerService{
		Repo:   repo,
		logger: logging.Component(logger, "ledger"),
	}
}

// RecordCashEvent validates and stores a new cash event.
// The owner must be one of the configured stakeholders.
func (s *LedgerService) RecordCashEvent(ctx context.Context, input CashInput) (*domain.CashEvent, error) {
	event := &domain.CashEvent{
		ID:      uuid.New(),
		Date:    input.Date,
		Amount:  input.Amount,
		Kind:    input.Kind,
		OwnerID: input.OwnerID,

		Description: strings.TrimSpace(input.Description),
	}
	if err := s.checkCashEvent(ctx, event); err != nil {
		return nil, err
	}

	if err := s.Repo.CreateCashEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create cash event: %w", err)
	}

	s.logger.Info().
		Str("id", event.ID.String()).
		Str("kind", string(event.Kind)).
		Str("owner", string(event.OwnerID)).
		Str("amount", event.Amount.String()).
		Msg("cash event recorded")
	return event, nil
}

// UpdateCashEvent replaces the cash event with the given id
func (s *LedgerService) UpdateCashEvent(ctx context.Context, id uuid.UUID, input CashInput) (*domain.CashEvent, error) {
	event := &domain.CashEvent{
		ID:      id,
		Date:    input.Date,
		Amount:  input.Amount,
		Kind:    input.Kind,
		OwnerID: input.OwnerID,

		Description: strings.TrimSpace(input.Description),
	}
	if err := s.checkCashEvent(ctx, event); err != nil {
		return nil, err
	}

	if err := s.Repo.UpdateCashEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update cash event: %w", err)
	}
	return event, nil
}

// DeleteCashEvent removes the cash event with the given id
func (s *LedgerService) DeleteCashEvent(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteCashEvent(ctx, id); err != nil {
		return fmt.Errorf("failed to delete cash event: %w", err)
	}
	s.logger.Info().Str("id", id.String()).Msg("cash event deleted")
	return nil
}

// RecordTradeEvent validates and stores a new trade event
func (s *LedgerService) RecordTradeEvent(ctx context.Context, input TradeInput) (*domain.TradeEvent, error) {
	event := &domain.TradeEvent{
		ID:     uuid.New(),
		Date:   input.Date,
		Name:   strings.TrimSpace(input.Name),
		PnL:    input.PnL,
		OpKind: input.OpKind,
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	if err := s.Repo.CreateTradeEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create trade event: %w", err)
	}

	s.logger.Info().
		Str("id", event.ID.String()).
		Str("name", event.Name).
		Str("pnl", event.PnL.String()).
		Msg("trade event recorded")
	return event, nil
}

// UpdateTradeEvent replaces the trade event with the given id
func (s *LedgerService) UpdateTradeEvent(ctx context.Context, id uuid.UUID, input TradeInput) (*domain.TradeEvent, error) {
	event := &domain.TradeEvent{
		ID:     id,
		Date:   input.Date,
		Name:   strings.TrimSpace(input.Name),
		PnL:    input.PnL,
		OpKind: input.OpKind,
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	if err := s.Repo.UpdateTradeEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update trade event: %w", err)
	}
	return event, nil
}

// DeleteTradeEvent removes the trade event with the given id
func (s *LedgerService) DeleteTradeEvent(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteTradeEvent(ctx, id); err != nil {
		return fmt.Errorf("failed to delete trade event: %w", err)
	}
	s.logger.Info().Str("id", id.String()).Msg("trade event deleted")
	return nil
}

// UpdateProfile changes the profit share ratio of a configured stakeholder.
// The set of stakeholders is closed: unknown ids are rejected. An unbalanced
// result is stored and logged, since the other ratio is usually edited next.
func (s *LedgerService) UpdateProfile(ctx context.Context, input ProfileInput) (*ProfileUpdate, error) {
	profile := &domain.StakeholderProfile{
		ID:               domain.StakeholderID(strings.TrimSpace(string(input.ID))),
		ProfitShareRatio: input.ProfitShareRatio,
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	snapshot, err := s.Repo.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stakeholder profiles: %w", err)
	}
	if _, ok := snapshot.Profile(profile.ID); !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownOwner, profile.ID)
	}

	if err := s.Repo.UpsertProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update stakeholder profile: %w", err)
	}

	profiles := make([]domain.StakeholderProfile, 0, len(snapshot.Profiles))
	for _, p := range snapshot.Profiles {
		if p.ID == profile.ID {
			p = *profile
		}
		profiles = append(profiles, p)
	}
	balanced := domain.RatiosBalanced(profiles)

	event := s.logger.Info()
	if !balanced {
		event = s.logger.Warn()
	}
	event.
		Str("stakeholder", string(profile.ID)).
		Str("ratio", profile.ProfitShareRatio.String()).
		Bool("ratios_balanced", balanced).
		Msg("stakeholder profile updated")

	return &ProfileUpdate{Profile: *profile, RatiosBalanced: balanced}, nil
}

func (s *LedgerService) checkCashEvent(ctx context.Context, event *domain.CashEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	snapshot, err := s.Repo.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stakeholder profiles: %w", err)
	}
	if _, ok := snapshot.Profile(event.OwnerID); !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownOwner, event.OwnerID)
	}
	return nil
}
