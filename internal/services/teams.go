package services

import (
	"context"
	"time"

	"github.com/jstittsworth/gameday-tracker/internal/providers"
	"github.com/sirupsen/logrus"
)

// statsAPI is the slice of the upstream client the services consume. Satisfied
// by providers.StatsAPIClient; tests substitute stubs.
type statsAPI interface {
	Teams(ctx context.Context) ([]providers.Team, error)
	Schedule(ctx context.Context, date string) ([]providers.ScheduledGame, error)
	LiveFeed(ctx context.Context, gamePk int64) (*providers.LiveFeed, error)
	TeamStats(ctx context.Context, teamID int, season int) (*providers.TeamStatsResponse, error)
}

// TeamDirectoryService resolves team display names to upstream numeric IDs.
// The directory changes once a season at most, so it is cached for a day.
type TeamDirectoryService struct {
	api    statsAPI
	cache  Cache
	ttl    time.Duration
	logger *logrus.Logger
}

func NewTeamDirectoryService(api statsAPI, cache Cache, ttl time.Duration, logger *logrus.Logger) *TeamDirectoryService {
	return &TeamDirectoryService{
		api:    api,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// TeamIDs returns the name-to-ID mapping. On upstream failure it returns an
// empty map; callers treat that as "cannot resolve any team this cycle" and
// skip enrichment rather than fail.
func (s *TeamDirectoryService) TeamIDs(ctx context.Context) map[string]int {
	var ids map[string]int
	if err := s.cache.Get(ctx, teamDirectoryCacheKey, &ids); err == nil && len(ids) > 0 {
		return ids
	}

	teams, err := s.api.Teams(ctx)
	if err != nil {
		s.logger.WithField("component", "team_directory").WithError(err).Warn("Failed to fetch team directory")
		return map[string]int{}
	}

	ids = make(map[string]int, len(teams))
	for _, t := range teams {
		ids[t.Name] = t.ID
	}

	if err := s.cache.Set(ctx, teamDirectoryCacheKey, ids, s.ttl); err != nil {
		s.logger.WithField("component", "team_directory").WithError(err).Warn("Failed to cache team directory")
	}

	return ids
}
