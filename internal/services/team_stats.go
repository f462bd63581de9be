package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jstittsworth/gameday-tracker/internal/models"
	"github.com/jstittsworth/gameday-tracker/internal/providers"
	"github.com/sirupsen/logrus"
)

// TeamStatsService retrieves season hitting and pitching aggregates per team,
// cached for a day per team ID.
type TeamStatsService struct {
	api    statsAPI
	cache  Cache
	ttl    time.Duration
	logger *logrus.Logger
	now    func() time.Time
}

func NewTeamStatsService(api statsAPI, cache Cache, ttl time.Duration, logger *logrus.Logger) *TeamStatsService {
	return &TeamStatsService{
		api:    api,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// DefaultSeasons returns the seasons fetched when the caller passes none:
// last year and this year.
func (s *TeamStatsService) DefaultSeasons() []int {
	year := s.now().Year()
	return []int{year - 1, year}
}

// TeamStats returns per-season hitting and pitching splits for one team,
// keyed "{season}_{hitting|pitching}". A season whose fetch fails is omitted;
// total failure yields an empty map, never an error. Downstream formatting
// must treat a missing entry as "no stats available".
func (s *TeamStatsService) TeamStats(ctx context.Context, teamID int, seasons []int) map[string]models.TeamSplitStats {
	if len(seasons) == 0 {
		seasons = s.DefaultSeasons()
	}

	cacheKey := teamStatsCacheKey(teamID)
	var cached map[string]models.TeamSplitStats
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil && len(cached) > 0 {
		return cached
	}

	stats := make(map[string]models.TeamSplitStats)
	for _, season := range seasons {
		resp, err := s.api.TeamStats(ctx, teamID, season)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"component": "team_stats",
				"team_id":   teamID,
				"season":    season,
			}).WithError(err).Warn("Failed to fetch team stats for season")
			continue
		}

		for _, group := range resp.Stats {
			name := group.Group.DisplayName
			if name != "hitting" && name != "pitching" {
				continue
			}
			for _, split := range group.Splits {
				stats[fmt.Sprintf("%d_%s", season, name)] = splitToModel(name, split.Stat)
			}
		}
	}

	if len(stats) > 0 {
		if err := s.cache.Set(ctx, cacheKey, stats, s.ttl); err != nil {
			s.logger.WithField("component", "team_stats").WithError(err).Warn("Failed to cache team stats")
		}
	}

	return stats
}

// splitToModel keeps only the fields belonging to the split's group so a
// hitting entry never carries stray pitching numbers.
func splitToModel(group string, stat providers.SeasonSplit) models.TeamSplitStats {
	if group == "hitting" {
		return models.TeamSplitStats{
			Avg:      stat.Avg,
			OPS:      stat.OPS,
			Runs:     stat.Runs,
			HomeRuns: stat.HomeRuns,
			RBI:      stat.RBI,
		}
	}
	return models.TeamSplitStats{
		ERA:        stat.ERA,
		WHIP:       stat.WHIP,
		StrikeOuts: stat.StrikeOuts,
		Saves:      stat.Saves,
	}
}
