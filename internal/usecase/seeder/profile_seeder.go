package seeder

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/simaogato/tradeledger-backend/internal/domain"
	"github.com/simaogato/tradeledger-backend/internal/logging"
)

// ProfileSeeder makes sure the configured stakeholders exist in the store
type ProfileSeeder struct {
	repo     domain.LedgerRepository
	profiles []domain.StakeholderProfile
	logger   zerolog.Logger
}

// NewProfileSeeder creates a new ProfileSeeder instance
func NewProfileSeeder(repo domain.LedgerRepository, profiles []domain.StakeholderProfile, logger zerolog.Logger) *ProfileSeeder {
	return &ProfileSeeder{
		repo:     repo,
		profiles: profiles,
		logger:   logging.Component(logger, "seeder"),
	}
}

// Seed inserts every configured profile missing from the store.
// A stored ratio wins over the configured one, since ratios can be edited at runtime.
// Ratios that do not sum to 1 are logged, not rejected.
func (s *ProfileSeeder) Seed(ctx context.Context) error {
	if len(s.profiles) == 0 {
		return nil
	}

	snapshot, err := s.repo.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stakeholder profiles: %w", err)
	}

	for i := range s.profiles {
		profile := s.profiles[i]

		// Validate before upserting
		if err := profile.Validate(); err != nil {
			return err
		}

		if existing, ok := snapshot.Profile(profile.ID); ok {
			if !existing.ProfitShareRatio.Equal(profile.ProfitShareRatio) {
				s.logger.Warn().
					Str("stakeholder", string(profile.ID)).
					Str("stored", existing.ProfitShareRatio.String()).
					Str("configured", profile.ProfitShareRatio.String()).
					Msg("keeping stored profit share ratio")
			}
			continue
		}

		if err := s.repo.UpsertProfile(ctx, &profile); err != nil {
			return fmt.Errorf("failed to upsert stakeholder %s: %w", profile.ID, err)
		}
		s.logger.Info().
			Str("stakeholder", string(profile.ID)).
			Str("ratio", profile.ProfitShareRatio.String()).
			Msg("stakeholder profile seeded")
	}

	if !domain.RatiosBalanced(s.profiles) {
		s.logger.Warn().Int("profiles", len(s.profiles)).Msg("configured profit share ratios do not sum to 1")
	}

	return nil
}
