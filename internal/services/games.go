package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jstittsworth/gameday-tracker/internal/models"
	"github.com/jstittsworth/gameday-tracker/internal/providers"
	"github.com/sirupsen/logrus"
)

const isoDate = "2006-01-02"

// GameProducer yields the games for one date. GameService implements it for
// real data; FallbackGenerator implements it for degraded mode.
type GameProducer interface {
	GamesForDate(ctx context.Context, date string) ([]models.Game, error)
}

// GameService fetches the per-day schedule, normalizes each upstream record
// into a Game, enriches finished games with box-score detail, and maintains
// the date-partitioned schedule cache.
type GameService struct {
	api       statsAPI
	cache     Cache
	teams     *TeamDirectoryService
	teamStats *TeamStatsService
	ttls      CacheTTLs
	logger    *logrus.Logger
	loc       *time.Location

	// fallback, when set, supplies clearly-labeled placeholder games after a
	// total fetch failure.
	fallback GameProducer

	now func() time.Time
}

func NewGameService(
	api statsAPI,
	cache Cache,
	teams *TeamDirectoryService,
	teamStats *TeamStatsService,
	ttls CacheTTLs,
	logger *logrus.Logger,
	loc *time.Location,
) *GameService {
	if loc == nil {
		loc = time.Local
	}
	return &GameService{
		api:       api,
		cache:     cache,
		teams:     teams,
		teamStats: teamStats,
		ttls:      ttls,
		logger:    logger,
		loc:       loc,
		now:       time.Now,
	}
}

// SetFallback installs the degraded-mode game source.
func (s *GameService) SetFallback(fb GameProducer) {
	s.fallback = fb
}

// GamesForDate returns the normalized games scheduled on date (YYYY-MM-DD),
// serving from the schedule cache when fresh. A schedule endpoint failure
// returns an error; every per-game problem is absorbed.
func (s *GameService) GamesForDate(ctx context.Context, date string) ([]models.Game, error) {
	cacheKey := scheduleCacheKey(date)

	var cached []models.Game
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	schedule, err := s.api.Schedule(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("schedule fetch failed for %s: %w", date, err)
	}

	teamIDs := s.teams.TeamIDs(ctx)

	games := make([]models.Game, 0, len(schedule))
	for _, sg := range schedule {
		game, ok := s.normalizeGame(ctx, sg, date, teamIDs)
		if !ok {
			continue
		}
		games = append(games, game)
	}

	if err := s.cache.Set(ctx, cacheKey, games, s.scheduleTTL(games)); err != nil {
		s.logger.WithField("component", "game_fetcher").WithError(err).Warn("Failed to cache schedule")
	}
	s.pruneScheduleCache(ctx, date)

	return games, nil
}

// normalizeGame converts one upstream schedule record into a Game. Returns
// false when the game must be skipped (unresolvable team).
func (s *GameService) normalizeGame(ctx context.Context, sg providers.ScheduledGame, date string, teamIDs map[string]int) (models.Game, bool) {
	homeName := sg.Teams.Home.Team.Name
	awayName := sg.Teams.Away.Team.Name

	homeID, homeOK := teamIDs[homeName]
	awayID, awayOK := teamIDs[awayName]
	if !homeOK || !awayOK {
		s.logger.WithFields(logrus.Fields{
			"component": "game_fetcher",
			"game_pk":   sg.GamePk,
			"home_team": homeName,
			"away_team": awayName,
		}).Warn("Skipping game with unresolvable team")
		return models.Game{}, false
	}

	start, timeStr := s.parseStartTime(sg.GameDate)

	game := models.Game{
		ID:          sg.GamePk,
		League:      "MLB",
		HomeTeam:    homeName,
		AwayTeam:    awayName,
		HomeScore:   sg.Teams.Home.Score,
		AwayScore:   sg.Teams.Away.Score,
		Time:        timeStr,
		Date:        date,
		PlayerStats: map[string][]models.PlayerStatLine{},
		Highlights:  []models.Highlight{},
		TeamStats:   map[string]models.TeamSplitStats{},
		Source:      "mlb-statsapi",
	}

	game.Status = s.deriveStatus(sg.Status.DetailedState, date, start, sg.Teams.Home.Score, sg.Teams.Away.Score)

	if game.Status == models.StatusLive {
		game.Period = sg.Linescore.CurrentInningOrdinal
		game.GameClock = sg.Linescore.InningState
	}

	if game.Status == models.StatusFinished {
		s.enrichGame(ctx, &game)
	}

	// Team stats attach regardless of enrichment outcome.
	s.attachTeamStats(ctx, &game, homeID, awayID)

	return game, true
}

// deriveStatus maps the upstream detailed state onto the canonical status
// set. Unrecognized states fall back to a heuristic: a past date means the
// game is over; otherwise a started game with a nonzero score is treated as
// over. The heuristic misreads a 0-0 final as Upcoming; upstream terminal
// states take precedence whenever the feed populates them.
func (s *GameService) deriveStatus(detailedState, date string, start time.Time, homeScore, awayScore int) models.GameStatus {
	switch {
	case strings.HasPrefix(detailedState, "Final"), strings.HasPrefix(detailedState, "Game Over"):
		return models.StatusFinished
	case strings.HasPrefix(detailedState, "In Progress"):
		return models.StatusLive
	case strings.HasPrefix(detailedState, "Delayed"):
		return models.StatusDelayed
	case strings.HasPrefix(detailedState, "Postponed"):
		return models.StatusPostponed
	case strings.HasPrefix(detailedState, "Scheduled"):
		return models.StatusUpcoming
	}

	now := s.now().In(s.loc)
	today := now.Format(isoDate)
	if date < today {
		return models.StatusFinished
	}
	if !start.IsZero() && now.After(start) && (homeScore > 0 || awayScore > 0) {
		return models.StatusFinished
	}
	return models.StatusUpcoming
}

// gameEnrichment is the cached box-score detail for one finished game. It has
// its own cache entry because the schedule partition expires well before the
// feed data for a final changes.
type gameEnrichment struct {
	PlayerStats    map[string][]models.PlayerStatLine `json:"player_stats"`
	Highlights     []models.Highlight                 `json:"highlights"`
	WinningPitcher string                             `json:"winning_pitcher"`
	LosingPitcher  string                             `json:"losing_pitcher"`
	SavePitcher    string                             `json:"save_pitcher"`
}

// enrichGame pulls the live feed for a finished game and fills box score
// lines, highlights, and pitching decisions. On failure the game is left
// intact with its empty defaults.
func (s *GameService) enrichGame(ctx context.Context, game *models.Game) {
	cacheKey := playerStatsCacheKey(game.ID)

	var enr gameEnrichment
	if err := s.cache.Get(ctx, cacheKey, &enr); err == nil {
		applyEnrichment(game, enr)
		return
	}

	feed, err := s.api.LiveFeed(ctx, game.ID)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"component": "game_fetcher",
			"game_pk":   game.ID,
		}).WithError(err).Warn("Live feed fetch failed, emitting game without enrichment")
		return
	}

	box := feed.LiveData.Boxscore.Teams
	enr.PlayerStats = map[string][]models.PlayerStatLine{
		game.HomeTeam: boxscoreLines(box.Home),
		game.AwayTeam: boxscoreLines(box.Away),
	}

	enr.Highlights = make([]models.Highlight, 0)
	for _, play := range feed.LiveData.Plays.AllPlays {
		if !play.About.IsScoringPlay || play.Result.Description == "" {
			continue
		}
		enr.Highlights = append(enr.Highlights, models.Highlight{
			Description: play.Result.Description,
			Timestamp:   inningLabel(play.About.HalfInning, play.About.Inning),
		})
	}

	enr.WinningPitcher = feed.LiveData.Decisions.Winner.FullName
	enr.LosingPitcher = feed.LiveData.Decisions.Loser.FullName
	enr.SavePitcher = feed.LiveData.Decisions.Save.FullName

	if err := s.cache.Set(ctx, cacheKey, enr, s.ttls.PlayerStats); err != nil {
		s.logger.WithField("component", "game_fetcher").WithError(err).Warn("Failed to cache game enrichment")
	}

	applyEnrichment(game, enr)
}

func applyEnrichment(game *models.Game, enr gameEnrichment) {
	game.PlayerStats = enr.PlayerStats
	game.Highlights = enr.Highlights
	game.WinningPitcher = enr.WinningPitcher
	game.LosingPitcher = enr.LosingPitcher
	game.SavePitcher = enr.SavePitcher
}

// boxscoreLines flattens one team's player map into stat lines, dropping
// players whose stats are all zero.
func boxscoreLines(team providers.BoxscoreTeam) []models.PlayerStatLine {
	lines := make([]models.PlayerStatLine, 0, len(team.Players))
	for _, p := range team.Players {
		line := models.PlayerStatLine{
			Name:           p.Person.FullName,
			Hits:           p.Stats.Batting.Hits,
			Runs:           p.Stats.Batting.Runs,
			RBI:            p.Stats.Batting.RBI,
			HomeRuns:       p.Stats.Batting.HomeRuns,
			Walks:          p.Stats.Batting.BaseOnBalls,
			Strikeouts:     p.Stats.Batting.StrikeOuts,
			InningsPitched: p.Stats.Pitching.InningsPitched,
			HitsAllowed:    p.Stats.Pitching.Hits,
			EarnedRuns:     p.Stats.Pitching.EarnedRuns,
		}
		// Pitchers record strikeouts and walks in the pitching split.
		if line.Strikeouts == 0 {
			line.Strikeouts = p.Stats.Pitching.StrikeOuts
		}
		if line.Walks == 0 {
			line.Walks = p.Stats.Pitching.BaseOnBalls
		}
		if line.HasStats() {
			lines = append(lines, line)
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Name < lines[j].Name })
	return lines
}

func inningLabel(halfInning string, inning int) string {
	half := "Top"
	if halfInning == "bottom" {
		half = "Bottom"
	}
	return fmt.Sprintf("%s %d", half, inning)
}

// attachTeamStats adds both sides' season aggregates under
// "{team_name}_{season}_{group}" keys.
func (s *GameService) attachTeamStats(ctx context.Context, game *models.Game, homeID, awayID int) {
	for _, side := range []struct {
		name string
		id   int
	}{
		{game.HomeTeam, homeID},
		{game.AwayTeam, awayID},
	} {
		for key, split := range s.teamStats.TeamStats(ctx, side.id, nil) {
			game.TeamStats[fmt.Sprintf("%s_%s", side.name, key)] = split
		}
	}
}

// scheduleTTL picks the freshness window from the cached day's composition:
// a day with any live game stays hot, a fully finished day can rest, and
// everything else uses the upcoming window.
func (s *GameService) scheduleTTL(games []models.Game) time.Duration {
	if len(games) == 0 {
		return s.ttls.UpcomingGames
	}
	finished := 0
	for _, g := range games {
		if g.Status == models.StatusLive {
			return s.ttls.LiveGames
		}
		if g.Status == models.StatusFinished {
			finished++
		}
	}
	if finished == len(games) {
		return s.ttls.FinishedGames
	}
	return s.ttls.UpcomingGames
}

// pruneScheduleCache evicts every cached date partition farther than one day
// from today. The partition registry lives in the cache itself so pruning
// works across processes sharing a Redis backend.
func (s *GameService) pruneScheduleCache(ctx context.Context, date string) {
	var dates []string
	if err := s.cache.Get(ctx, scheduleDatesCacheKey, &dates); err != nil {
		dates = nil
	}

	seen := false
	for _, d := range dates {
		if d == date {
			seen = true
			break
		}
	}
	if !seen {
		dates = append(dates, date)
	}

	y, m, d := s.now().In(s.loc).Date()
	todayMidnight := time.Date(y, m, d, 0, 0, 0, 0, s.loc)

	kept := dates[:0]
	var evict []string
	for _, ds := range dates {
		day, err := time.ParseInLocation(isoDate, ds, s.loc)
		if err != nil {
			evict = append(evict, scheduleCacheKey(ds))
			continue
		}
		days := int(todayMidnight.Sub(day).Hours() / 24)
		if days < 0 {
			days = -days
		}
		if days > 1 {
			evict = append(evict, scheduleCacheKey(ds))
			continue
		}
		kept = append(kept, ds)
	}

	if len(evict) > 0 {
		if err := s.cache.Delete(ctx, evict...); err != nil {
			s.logger.WithField("component", "game_fetcher").WithError(err).Warn("Failed to prune schedule cache")
		}
		s.logger.WithFields(logrus.Fields{
			"component": "game_fetcher",
			"evicted":   len(evict),
		}).Debug("Pruned stale schedule partitions")
	}

	if err := s.cache.Set(ctx, scheduleDatesCacheKey, kept, 0); err != nil {
		s.logger.WithField("component", "game_fetcher").WithError(err).Warn("Failed to update schedule date registry")
	}
}

// Today returns the current date in the service's location.
func (s *GameService) Today() string {
	return s.now().In(s.loc).Format(isoDate)
}

// LiveGames is the query facade: it fetches the date's games, applies the
// status filter ("All" passes through), and sorts ascending by the HH:MM
// time string. The sort key is local time-of-day, valid only for single-date
// queries. It never returns an error; a total fetch failure yields the
// fallback source's games when one is configured, else an empty slice.
func (s *GameService) LiveGames(ctx context.Context, statusFilter string, date string) []models.Game {
	if date == "" {
		date = s.Today()
	}

	games, err := s.GamesForDate(ctx, date)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"component": "game_fetcher",
			"date":      date,
		}).WithError(err).Error("Game fetch failed")

		if s.fallback == nil {
			return []models.Game{}
		}
		games, err = s.fallback.GamesForDate(ctx, date)
		if err != nil {
			return []models.Game{}
		}
	}

	filtered := make([]models.Game, 0, len(games))
	for _, g := range games {
		if statusFilter == models.StatusFilterAll || statusFilter == "" || string(g.Status) == statusFilter {
			filtered = append(filtered, g)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Time < filtered[j].Time
	})

	return filtered
}

// parseStartTime converts the upstream RFC3339 game date into local wall
// time plus the HH:MM display string.
func (s *GameService) parseStartTime(gameDate string) (time.Time, string) {
	t, err := time.Parse(time.RFC3339, gameDate)
	if err != nil {
		return time.Time{}, ""
	}
	local := t.In(s.loc)
	return local, local.Format("15:04")
}
