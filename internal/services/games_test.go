package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/gameday-tracker/internal/models"
	"github.com/jstittsworth/gameday-tracker/internal/providers"
)

// stubAPI is the in-memory upstream used across the service tests.
type stubAPI struct {
	teams       []providers.Team
	teamsErr    error
	schedule    map[string][]providers.ScheduledGame
	scheduleErr error
	feeds       map[int64]*providers.LiveFeed
	feedErr     error
	stats       map[int]*providers.TeamStatsResponse
	statsErr    error

	teamsCalls    int
	scheduleCalls int
	feedCalls     int
	statsCalls    int
}

func (s *stubAPI) Teams(ctx context.Context) ([]providers.Team, error) {
	s.teamsCalls++
	if s.teamsErr != nil {
		return nil, s.teamsErr
	}
	return s.teams, nil
}

func (s *stubAPI) Schedule(ctx context.Context, date string) ([]providers.ScheduledGame, error) {
	s.scheduleCalls++
	if s.scheduleErr != nil {
		return nil, s.scheduleErr
	}
	return s.schedule[date], nil
}

func (s *stubAPI) LiveFeed(ctx context.Context, gamePk int64) (*providers.LiveFeed, error) {
	s.feedCalls++
	if s.feedErr != nil {
		return nil, s.feedErr
	}
	feed, ok := s.feeds[gamePk]
	if !ok {
		return nil, errors.New("no feed")
	}
	return feed, nil
}

func (s *stubAPI) TeamStats(ctx context.Context, teamID int, season int) (*providers.TeamStatsResponse, error) {
	s.statsCalls++
	if s.statsErr != nil {
		return nil, s.statsErr
	}
	resp, ok := s.stats[teamID]
	if !ok {
		return &providers.TeamStatsResponse{}, nil
	}
	return resp, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// testNow is a fixed afternoon so date math in the tests is deterministic.
var testNow = time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)

func newTestGameService(api *stubAPI) (*GameService, *MemoryCache) {
	logger := testLogger()
	cache := NewMemoryCache()
	teams := NewTeamDirectoryService(api, cache, 24*time.Hour, logger)
	teamStats := NewTeamStatsService(api, cache, 24*time.Hour, logger)
	teamStats.now = func() time.Time { return testNow }

	svc := NewGameService(api, cache, teams, teamStats, DefaultCacheTTLs(), logger, time.UTC)
	svc.now = func() time.Time { return testNow }
	return svc, cache
}

func scheduledGame(pk int64, home, away, state, gameDate string, homeScore, awayScore int) providers.ScheduledGame {
	var sg providers.ScheduledGame
	sg.GamePk = pk
	sg.GameDate = gameDate
	sg.Status.DetailedState = state
	sg.Teams.Home.Team.Name = home
	sg.Teams.Home.Score = homeScore
	sg.Teams.Away.Team.Name = away
	sg.Teams.Away.Score = awayScore
	return sg
}

var directoryTeams = []providers.Team{
	{ID: 147, Name: "New York Yankees", Abbreviation: "NYY"},
	{ID: 111, Name: "Boston Red Sox", Abbreviation: "BOS"},
	{ID: 119, Name: "Los Angeles Dodgers", Abbreviation: "LAD"},
}

func TestGamesForDateUsesScheduleCache(t *testing.T) {
	api := &stubAPI{
		teams: directoryTeams,
		schedule: map[string][]providers.ScheduledGame{
			"2026-08-28": {
				scheduledGame(1, "New York Yankees", "Boston Red Sox", "Scheduled", "2026-08-28T23:05:00Z", 0, 0),
			},
		},
	}
	svc, _ := newTestGameService(api)

	first, err := svc.GamesForDate(context.Background(), "2026-08-28")
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.GamesForDate(context.Background(), "2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, api.scheduleCalls, "second call should be served from cache")
}

func TestGamesForDateSkipsUnresolvableTeam(t *testing.T) {
	api := &stubAPI{
		teams: directoryTeams,
		schedule: map[string][]providers.ScheduledGame{
			"2026-08-28": {
				scheduledGame(1, "New York Yankees", "Boston Red Sox", "Scheduled", "2026-08-28T23:05:00Z", 0, 0),
				scheduledGame(2, "Springfield Isotopes", "Boston Red Sox", "Scheduled", "2026-08-28T23:05:00Z", 0, 0),
			},
		},
	}
	svc, _ := newTestGameService(api)

	games, err := svc.GamesForDate(context.Background(), "2026-08-28")
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, int64(1), games[0].ID)
}

func TestGamesForDateScheduleFailure(t *testing.T) {
	api := &stubAPI{scheduleErr: errors.New("upstream down")}
	svc, _ := newTestGameService(api)

	_, err := svc.GamesForDate(context.Background(), "2026-08-28")
	require.Error(t, err)
}

func TestDeriveStatus(t *testing.T) {
	svc, _ := newTestGameService(&stubAPI{})

	started := testNow.Add(-3 * time.Hour)
	notStarted := testNow.Add(3 * time.Hour)

	tests := []struct {
		name  string
		state string
		date  string
		start time.Time
		home  int
		away  int
		want  models.GameStatus
	}{
		{"final", "Final", "2026-08-28", started, 5, 3, models.StatusFinished},
		{"final suffixed", "Final: Tied", "2026-08-28", started, 4, 4, models.StatusFinished},
		{"game over", "Game Over", "2026-08-28", started, 2, 1, models.StatusFinished},
		{"in progress", "In Progress", "2026-08-28", started, 1, 0, models.StatusLive},
		{"delayed", "Delayed: Rain", "2026-08-28", notStarted, 0, 0, models.StatusDelayed},
		{"postponed", "Postponed", "2026-08-28", notStarted, 0, 0, models.StatusPostponed},
		{"scheduled", "Scheduled", "2026-08-28", notStarted, 0, 0, models.StatusUpcoming},
		{"unknown past date", "Warmup", "2026-08-27", started, 0, 0, models.StatusFinished},
		{"unknown started with score", "", "2026-08-28", started, 3, 2, models.StatusFinished},
		{"unknown not started", "", "2026-08-28", notStarted, 0, 0, models.StatusUpcoming},
		// Known limitation: a scoreless final with no terminal state reads
		// as upcoming.
		{"unknown scoreless", "", "2026-08-28", started, 0, 0, models.StatusUpcoming},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.deriveStatus(tt.state, tt.date, tt.start, tt.home, tt.away)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFinishedGameEnrichment(t *testing.T) {
	feed := &providers.LiveFeed{}
	batter := providers.BoxscorePlayer{}
	batter.Person.FullName = "Aaron Judge"
	batter.Stats.Batting.Hits = 2
	batter.Stats.Batting.Runs = 1
	batter.Stats.Batting.HomeRuns = 1
	batter.Stats.Batting.RBI = 2

	pitcher := providers.BoxscorePlayer{}
	pitcher.Person.FullName = "Gerrit Cole"
	pitcher.Stats.Pitching.InningsPitched = "7.0"
	pitcher.Stats.Pitching.Hits = 4
	pitcher.Stats.Pitching.EarnedRuns = 1
	pitcher.Stats.Pitching.StrikeOuts = 9

	benchPlayer := providers.BoxscorePlayer{}
	benchPlayer.Person.FullName = "Bench Player"

	feed.LiveData.Boxscore.Teams.Home.Players = map[string]providers.BoxscorePlayer{
		"ID99": batter,
		"ID45": pitcher,
		"ID77": benchPlayer,
	}

	scoring := providers.Play{}
	scoring.Result.Description = "Aaron Judge homers (54) on a fly ball to center field."
	scoring.About.Inning = 5
	scoring.About.HalfInning = "bottom"
	scoring.About.IsScoringPlay = true

	groundout := providers.Play{}
	groundout.Result.Description = "Groundout to short."
	groundout.About.Inning = 5
	groundout.About.HalfInning = "top"
	feed.LiveData.Plays.AllPlays = []providers.Play{groundout, scoring}
	feed.LiveData.Decisions.Winner.FullName = "Gerrit Cole"
	feed.LiveData.Decisions.Loser.FullName = "Chris Sale"
	feed.LiveData.Decisions.Save.FullName = "Closer Guy"

	api := &stubAPI{
		teams: directoryTeams,
		schedule: map[string][]providers.ScheduledGame{
			"2026-08-27": {
				scheduledGame(7, "New York Yankees", "Boston Red Sox", "Final", "2026-08-27T23:05:00Z", 5, 2),
			},
		},
		feeds: map[int64]*providers.LiveFeed{7: feed},
	}
	svc, _ := newTestGameService(api)

	games, err := svc.GamesForDate(context.Background(), "2026-08-27")
	require.NoError(t, err)
	require.Len(t, games, 1)

	g := games[0]
	assert.Equal(t, models.StatusFinished, g.Status)

	lines := g.PlayerStats["New York Yankees"]
	require.Len(t, lines, 2, "zero-stat player is omitted")
	// Flattened lines come back sorted by name.
	assert.Equal(t, "Aaron Judge", lines[0].Name)
	assert.Equal(t, "Gerrit Cole", lines[1].Name)
	assert.Equal(t, 9, lines[1].Strikeouts, "pitcher strikeouts come from the pitching split")
	assert.Equal(t, "7.0", lines[1].InningsPitched)

	require.Len(t, g.Highlights, 1)
	assert.Equal(t, "Bottom 5", g.Highlights[0].Timestamp)
	assert.Equal(t, "Gerrit Cole", g.WinningPitcher)
	assert.Equal(t, "Chris Sale", g.LosingPitcher)
	assert.Equal(t, "Closer Guy", g.SavePitcher)
}

func TestEnrichmentSurvivesSchedulePartitionEviction(t *testing.T) {
	feed := &providers.LiveFeed{}
	feed.LiveData.Decisions.Winner.FullName = "Gerrit Cole"

	api := &stubAPI{
		teams: directoryTeams,
		schedule: map[string][]providers.ScheduledGame{
			"2026-08-27": {
				scheduledGame(7, "New York Yankees", "Boston Red Sox", "Final", "2026-08-27T23:05:00Z", 5, 2),
			},
		},
		feeds: map[int64]*providers.LiveFeed{7: feed},
	}
	svc, cache := newTestGameService(api)
	ctx := context.Background()

	_, err := svc.GamesForDate(ctx, "2026-08-27")
	require.NoError(t, err)
	require.Equal(t, 1, api.feedCalls)

	// The schedule partition expires; the per-game enrichment does not.
	require.NoError(t, cache.Delete(ctx, scheduleCacheKey("2026-08-27")))

	games, err := svc.GamesForDate(ctx, "2026-08-27")
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Gerrit Cole", games[0].WinningPitcher)
	assert.Equal(t, 1, api.feedCalls, "enrichment should be served from its own cache entry")
}

func TestFinishedGameFeedFailureKeepsGame(t *testing.T) {
	api := &stubAPI{
		teams: directoryTeams,
		schedule: map[string][]providers.ScheduledGame{
			"2026-08-27": {
				scheduledGame(7, "New York Yankees", "Boston Red Sox", "Final", "2026-08-27T23:05:00Z", 5, 2),
			},
		},
		feedErr: errors.New("feed unavailable"),
	}
	svc, _ := newTestGameService(api)

	games, err := svc.GamesForDate(context.Background(), "2026-08-27")
	require.NoError(t, err)
	require.Len(t, games, 1)

	g := games[0]
	assert.Equal(t, models.StatusFinished, g.Status)
	assert.Empty(t, g.PlayerStats)
	assert.Empty(t, g.Highlights)
	assert.Empty(t, g.WinningPitcher)
}

func TestLiveGameCarriesInningState(t *testing.T) {
	sg := scheduledGame(3, "New York Yankees", "Boston Red Sox", "In Progress", "2026-08-28T17:05:00Z", 2, 1)
	sg.Linescore.CurrentInningOrdinal = "7th"
	sg.Linescore.InningState = "Top"

	api := &stubAPI{
		teams:    directoryTeams,
		schedule: map[string][]providers.ScheduledGame{"2026-08-28": {sg}},
	}
	svc, _ := newTestGameService(api)

	games, err := svc.GamesForDate(context.Background(), "2026-08-28")
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, models.StatusLive, games[0].Status)
	assert.Equal(t, "7th", games[0].Period)
	assert.Equal(t, "Top", games[0].GameClock)
	assert.Equal(t, 0, api.feedCalls, "live games are not enriched from the feed")
}

func TestScheduleTTL(t *testing.T) {
	svc, _ := newTestGameService(&stubAPI{})
	ttls := DefaultCacheTTLs()

	mk := func(statuses ...models.GameStatus) []models.Game {
		games := make([]models.Game, len(statuses))
		for i, st := range statuses {
			games[i] = models.Game{Status: st}
		}
		return games
	}

	assert.Equal(t, ttls.UpcomingGames, svc.scheduleTTL(nil))
	assert.Equal(t, ttls.LiveGames, svc.scheduleTTL(mk(models.StatusFinished, models.StatusLive)))
	assert.Equal(t, ttls.FinishedGames, svc.scheduleTTL(mk(models.StatusFinished, models.StatusFinished)))
	assert.Equal(t, ttls.UpcomingGames, svc.scheduleTTL(mk(models.StatusFinished, models.StatusUpcoming)))
	assert.Equal(t, ttls.UpcomingGames, svc.scheduleTTL(mk(models.StatusPostponed)))
}

func TestPruneScheduleCacheEvictsDistantDates(t *testing.T) {
	api := &stubAPI{
		teams:    directoryTeams,
		schedule: map[string][]providers.ScheduledGame{},
	}
	svc, cache := newTestGameService(api)
	ctx := context.Background()

	// Seed a stale partition from last week plus its registry entry.
	require.NoError(t, cache.Set(ctx, scheduleCacheKey("2026-08-20"), []models.Game{{ID: 1}}, 0))
	require.NoError(t, cache.Set(ctx, scheduleDatesCacheKey, []string{"2026-08-20"}, 0))

	_, err := svc.GamesForDate(ctx, "2026-08-28")
	require.NoError(t, err)

	var stale []models.Game
	assert.ErrorIs(t, cache.Get(ctx, scheduleCacheKey("2026-08-20"), &stale), ErrCacheMiss)

	var dates []string
	require.NoError(t, cache.Get(ctx, scheduleDatesCacheKey, &dates))
	assert.Equal(t, []string{"2026-08-28"}, dates)
}

func TestPruneScheduleCacheKeepsAdjacentDates(t *testing.T) {
	api := &stubAPI{
		teams:    directoryTeams,
		schedule: map[string][]providers.ScheduledGame{},
	}
	svc, cache := newTestGameService(api)
	ctx := context.Background()

	for _, date := range []string{"2026-08-27", "2026-08-28", "2026-08-29"} {
		_, err := svc.GamesForDate(ctx, date)
		require.NoError(t, err)
	}

	var dates []string
	require.NoError(t, cache.Get(ctx, scheduleDatesCacheKey, &dates))
	assert.ElementsMatch(t, []string{"2026-08-27", "2026-08-28", "2026-08-29"}, dates)
}

func TestLiveGamesFiltersAndSorts(t *testing.T) {
	api := &stubAPI{
		teams: directoryTeams,
		schedule: map[string][]providers.ScheduledGame{
			"2026-08-28": {
				scheduledGame(1, "New York Yankees", "Boston Red Sox", "Scheduled", "2026-08-28T23:05:00Z", 0, 0),
				scheduledGame(2, "Los Angeles Dodgers", "Boston Red Sox", "Scheduled", "2026-08-28T17:10:00Z", 0, 0),
				scheduledGame(3, "Boston Red Sox", "New York Yankees", "In Progress", "2026-08-28T20:05:00Z", 1, 0),
			},
		},
	}
	svc, _ := newTestGameService(api)
	ctx := context.Background()

	all := svc.LiveGames(ctx, models.StatusFilterAll, "2026-08-28")
	require.Len(t, all, 3)
	assert.Equal(t, []int64{2, 3, 1}, []int64{all[0].ID, all[1].ID, all[2].ID}, "ascending by start time")

	upcoming := svc.LiveGames(ctx, string(models.StatusUpcoming), "2026-08-28")
	require.Len(t, upcoming, 2)
	for _, g := range upcoming {
		assert.Equal(t, models.StatusUpcoming, g.Status)
	}
}

func TestLiveGamesFallbackOnTotalFailure(t *testing.T) {
	api := &stubAPI{scheduleErr: errors.New("upstream down")}
	svc, _ := newTestGameService(api)
	ctx := context.Background()

	// Without a fallback the facade degrades to an empty slice.
	games := svc.LiveGames(ctx, models.StatusFilterAll, "2026-08-28")
	assert.Empty(t, games)

	svc.SetFallback(NewFallbackGenerator(testLogger()))
	games = svc.LiveGames(ctx, models.StatusFilterAll, "2026-08-28")
	require.NotEmpty(t, games)
	for _, g := range games {
		assert.Equal(t, "fallback", g.Source)
		assert.Equal(t, "2026-08-28", g.Date)
	}
}

func TestLiveGamesDefaultsToToday(t *testing.T) {
	api := &stubAPI{
		teams: directoryTeams,
		schedule: map[string][]providers.ScheduledGame{
			"2026-08-28": {
				scheduledGame(1, "New York Yankees", "Boston Red Sox", "Scheduled", "2026-08-28T23:05:00Z", 0, 0),
			},
		},
	}
	svc, _ := newTestGameService(api)

	games := svc.LiveGames(context.Background(), "", "")
	require.Len(t, games, 1)
	assert.Equal(t, "2026-08-28", games[0].Date)
}

func TestGameTeamStatsAttached(t *testing.T) {
	resp := teamStatsResponse(t, `{
		"stats": [
			{
				"group": {"displayName": "hitting"},
				"splits": [
					{"season": "2026", "stat": {"avg": ".267", "ops": ".771", "runs": 640, "homeRuns": 180, "rbi": 610}}
				]
			}
		]
	}`)

	api := &stubAPI{
		teams: directoryTeams,
		schedule: map[string][]providers.ScheduledGame{
			"2026-08-28": {
				scheduledGame(1, "New York Yankees", "Boston Red Sox", "Scheduled", "2026-08-28T23:05:00Z", 0, 0),
			},
		},
		stats: map[int]*providers.TeamStatsResponse{147: resp, 111: resp},
	}
	svc, _ := newTestGameService(api)

	games, err := svc.GamesForDate(context.Background(), "2026-08-28")
	require.NoError(t, err)
	require.Len(t, games, 1)

	split, ok := games[0].TeamStats["New York Yankees_2026_hitting"]
	require.True(t, ok)
	assert.Equal(t, ".267", split.Avg)
	assert.Equal(t, 180, split.HomeRuns)
}
