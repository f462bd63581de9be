package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Limiter throttles outbound requests. Satisfied by services.RequestLimiter.
type Limiter interface {
	Acquire(ctx context.Context) error
}

// Breaker wraps upstream calls with failure cut-off. Satisfied by
// services.CircuitBreakerService.
type Breaker interface {
	Execute(service string, fn func() (interface{}, error)) (interface{}, error)
}

const breakerName = "statsapi"

// StatsAPIClient fetches schedule, team, and box-score data from the MLB
// stats API. Every request passes through the shared rate limiter and the
// statsapi circuit breaker.
type StatsAPIClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    Limiter
	breaker    Breaker
	logger     *logrus.Logger
}

// NewStatsAPIClient creates a stats API client. apiKey may be empty; the
// public endpoints do not require one.
func NewStatsAPIClient(baseURL, apiKey string, timeout time.Duration, limiter Limiter, breaker Breaker, logger *logrus.Logger) *StatsAPIClient {
	return &StatsAPIClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
		limiter: limiter,
		breaker: breaker,
		logger:  logger,
	}
}

// Teams fetches the league team directory.
func (c *StatsAPIClient) Teams(ctx context.Context) ([]Team, error) {
	var resp teamsResponse
	params := url.Values{"sportId": {"1"}}
	if err := c.getJSON(ctx, "/v1/teams", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch teams: %w", err)
	}
	return resp.Teams, nil
}

// Schedule fetches the game listing for one date (YYYY-MM-DD).
func (c *StatsAPIClient) Schedule(ctx context.Context, date string) ([]ScheduledGame, error) {
	var resp scheduleResponse
	params := url.Values{
		"sportId": {"1"},
		"date":    {date},
		"hydrate": {"linescore"},
	}
	if err := c.getJSON(ctx, "/v1/schedule", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch schedule for %s: %w", date, err)
	}

	for _, d := range resp.Dates {
		if d.Date == date {
			return d.Games, nil
		}
	}
	return nil, nil
}

// LiveFeed fetches box-score and play detail for a single game.
func (c *StatsAPIClient) LiveFeed(ctx context.Context, gamePk int64) (*LiveFeed, error) {
	var feed LiveFeed
	path := fmt.Sprintf("/v1.1/game/%d/feed/live", gamePk)
	if err := c.getJSON(ctx, path, nil, &feed); err != nil {
		return nil, fmt.Errorf("failed to fetch live feed for game %d: %w", gamePk, err)
	}
	return &feed, nil
}

// TeamStats fetches regular-season hitting and pitching aggregates for one
// team and season.
func (c *StatsAPIClient) TeamStats(ctx context.Context, teamID int, season int) (*TeamStatsResponse, error) {
	var resp TeamStatsResponse
	path := fmt.Sprintf("/v1/teams/%d/stats", teamID)
	params := url.Values{
		"stats":  {"regularSeason"},
		"group":  {"hitting,pitching"},
		"season": {strconv.Itoa(season)},
	}
	if err := c.getJSON(ctx, path, params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch stats for team %d season %d: %w", teamID, season, err)
	}
	return &resp, nil
}

// getJSON performs a rate-limited, breaker-guarded GET and decodes the body.
func (c *StatsAPIClient) getJSON(ctx context.Context, path string, params url.Values, dest interface{}) error {
	if err := c.limiter.Acquire(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	_, err := c.breaker.Execute(breakerName, func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		if c.apiKey != "" {
			req.Header.Set("X-API-Key", c.apiKey)
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
		}

		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return nil, fmt.Errorf("failed to decode response from %s: %w", path, err)
		}

		c.logger.WithFields(logrus.Fields{
			"component": "statsapi",
			"path":      path,
			"duration":  time.Since(start),
		}).Debug("Upstream request completed")

		return nil, nil
	})

	return err
}
