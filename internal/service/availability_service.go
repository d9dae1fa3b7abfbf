package service

import (
	"sync"

	"peony/internal/domain"
	"peony/internal/models"
	"peony/internal/schedule"

	"github.com/rs/zerolog"
)

// AvailabilityService subscribes to the override change feed and answers
// slot-availability questions against the latest snapshot. Each delivery
// replaces the whole local map; resolutions are recomputed per request and
// never cached.
type AvailabilityService struct {
	season *schedule.Season
	logger *zerolog.Logger

	mu        sync.RWMutex
	overrides models.OverrideMap

	unsubscribe func()
}

func NewAvailabilityService(season *schedule.Season, feed domain.ChangeFeed, logger *zerolog.Logger) *AvailabilityService {
	s := &AvailabilityService{
		season:    season,
		logger:    logger,
		overrides: models.OverrideMap{},
	}
	if feed != nil {
		s.unsubscribe = feed.Subscribe(s.onSnapshot)
	}
	return s
}

// onSnapshot is the change-feed callback: full-state replacement, no merge.
func (s *AvailabilityService) onSnapshot(snapshot models.OverrideMap) {
	s.mu.Lock()
	s.overrides = snapshot
	s.mu.Unlock()
	s.logger.Debug().Int("records", len(snapshot)).Msg("override snapshot replaced")
}

// Close tears the feed subscription down at session end.
func (s *AvailabilityService) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Classify returns the date's tier.
func (s *AvailabilityService) Classify(date models.DateKey) (models.Tier, error) {
	return s.season.Classify(date)
}

// ResolveDate answers which slots are currently open on the date.
func (s *AvailabilityService) ResolveDate(date models.DateKey) (schedule.Resolution, error) {
	s.mu.RLock()
	overrides := s.overrides
	s.mu.RUnlock()

	return s.season.Resolve(date, overrides)
}

// SeasonCalendar resolves every date of the season in ascending order, for
// calendar views. Out-of-season errors cannot occur here by construction.
func (s *AvailabilityService) SeasonCalendar() []schedule.Resolution {
	s.mu.RLock()
	overrides := s.overrides
	s.mu.RUnlock()

	dates := s.season.Dates()
	out := make([]schedule.Resolution, 0, len(dates))
	for _, date := range dates {
		res, err := s.season.Resolve(date, overrides)
		if err != nil {
			s.logger.Error().Err(err).Str("date", date.String()).Msg("season date failed to resolve")
			continue
		}
		out = append(out, res)
	}
	return out
}
