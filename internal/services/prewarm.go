package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jstittsworth/gameday-tracker/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CacheWarmer pre-populates the schedule cache for yesterday, today, and
// tomorrow, choosing a status subset for today from the time of day so the
// warm run does not re-fetch a predictable day in full.
type CacheWarmer struct {
	games  *GameService
	logger *logrus.Logger
	cron   *cron.Cron
	loc    *time.Location
	now    func() time.Time

	mu        sync.Mutex
	isRunning bool
	lastRun   time.Time
}

func NewCacheWarmer(games *GameService, logger *logrus.Logger, loc *time.Location) *CacheWarmer {
	if loc == nil {
		loc = time.Local
	}
	return &CacheWarmer{
		games:  games,
		logger: logger,
		cron:   cron.New(),
		loc:    loc,
		now:    time.Now,
	}
}

// Prewarm warms all three date partitions. Intended to run once at process
// start and again on the daily schedule.
func (w *CacheWarmer) Prewarm(ctx context.Context) {
	now := w.now().In(w.loc)
	today := now.Format(isoDate)
	yesterday := now.AddDate(0, 0, -1).Format(isoDate)
	tomorrow := now.AddDate(0, 0, 1).Format(isoDate)

	w.warm(ctx, yesterday, string(models.StatusFinished))
	w.warm(ctx, today, w.todayFilter(now))
	w.warm(ctx, tomorrow, string(models.StatusUpcoming))

	w.mu.Lock()
	w.lastRun = w.now()
	w.mu.Unlock()
}

// todayFilter picks today's warm subset: mornings only need the slate of
// upcoming games, evenings only the finals, and the hours between get the
// full day.
func (w *CacheWarmer) todayFilter(now time.Time) string {
	switch hour := now.Hour(); {
	case hour < 12:
		return string(models.StatusUpcoming)
	case hour < 20:
		return models.StatusFilterAll
	default:
		return string(models.StatusFinished)
	}
}

func (w *CacheWarmer) warm(ctx context.Context, date, statusFilter string) {
	games := w.games.LiveGames(ctx, statusFilter, date)
	w.logger.WithFields(logrus.Fields{
		"component": "cache_warmer",
		"date":      date,
		"filter":    statusFilter,
		"games":     len(games),
	}).Info("Warmed schedule partition")
}

// Start schedules recurring warm runs: today's partition refreshes every ten
// minutes and the full three-day warm repeats each morning.
func (w *CacheWarmer) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return fmt.Errorf("cache warmer is already running")
	}

	if _, err := w.cron.AddFunc("@every 10m", func() {
		ctx := context.Background()
		now := w.now().In(w.loc)
		w.warm(ctx, now.Format(isoDate), w.todayFilter(now))
	}); err != nil {
		return fmt.Errorf("failed to schedule today refresh: %w", err)
	}

	if _, err := w.cron.AddFunc("0 5 * * *", func() {
		w.Prewarm(context.Background())
	}); err != nil {
		return fmt.Errorf("failed to schedule daily prewarm: %w", err)
	}

	w.cron.Start()
	w.isRunning = true

	w.logger.WithField("component", "cache_warmer").Info("Cache warmer started")
	return nil
}

// Stop halts the scheduled warm runs.
func (w *CacheWarmer) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.isRunning {
		return
	}

	ctx := w.cron.Stop()
	<-ctx.Done()

	w.isRunning = false
	w.logger.WithField("component", "cache_warmer").Info("Cache warmer stopped")
}

// Status reports the warmer's state for the health endpoint.
func (w *CacheWarmer) Status() map[string]interface{} {
	w.mu.Lock()
	defer w.mu.Unlock()

	return map[string]interface{}{
		"is_running": w.isRunning,
		"last_run":   w.lastRun,
		"cron_jobs":  len(w.cron.Entries()),
	}
}
