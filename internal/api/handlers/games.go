package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jstittsworth/gameday-tracker/internal/models"
	"github.com/jstittsworth/gameday-tracker/internal/services"
	"github.com/jstittsworth/gameday-tracker/pkg/utils"
	"github.com/sirupsen/logrus"
)

// GamesHandler serves the game list, box scores, and summaries.
type GamesHandler struct {
	games      *services.GameService
	teams      *services.TeamDirectoryService
	summarizer services.SummaryGenerator
	logger     *logrus.Logger
}

func NewGamesHandler(games *services.GameService, teams *services.TeamDirectoryService, summarizer services.SummaryGenerator, logger *logrus.Logger) *GamesHandler {
	return &GamesHandler{
		games:      games,
		teams:      teams,
		summarizer: summarizer,
		logger:     logger,
	}
}

var validStatusFilters = map[string]bool{
	models.StatusFilterAll:         true,
	string(models.StatusUpcoming):  true,
	string(models.StatusLive):      true,
	string(models.StatusFinished):  true,
	string(models.StatusDelayed):   true,
	string(models.StatusPostponed): true,
}

// ListGames returns the filtered, sorted games for a date.
// GET /games?status=All&date=2026-08-28
func (h *GamesHandler) ListGames(c *gin.Context) {
	status := c.DefaultQuery("status", models.StatusFilterAll)
	if !validStatusFilters[status] {
		utils.SendBadRequest(c, "invalid status filter")
		return
	}

	date := c.DefaultQuery("date", h.games.Today())
	games := h.games.LiveGames(c.Request.Context(), status, date)

	utils.SendSuccess(c, gin.H{
		"date":   date,
		"status": status,
		"count":  len(games),
		"games":  games,
	})
}

// GetBoxScore returns the hitting/pitching tables and team stat summaries for
// one game.
// GET /games/:id/boxscore?date=2026-08-28
func (h *GamesHandler) GetBoxScore(c *gin.Context) {
	game, ok := h.findGame(c)
	if !ok {
		return
	}

	utils.SendSuccess(c, gin.H{
		"game_id":    game.ID,
		"box_score":  services.BuildBoxScore(game),
		"team_stats": services.TeamStatSummary(game),
	})
}

// GetSummary returns generated summary text for one game.
// GET /games/:id/summary?date=2026-08-28
func (h *GamesHandler) GetSummary(c *gin.Context) {
	game, ok := h.findGame(c)
	if !ok {
		return
	}

	summary, err := h.summarizer.GameSummary(game)
	if err != nil {
		h.logger.WithField("game_id", game.ID).WithError(err).Error("Summary generation failed")
		utils.SendError(c, 500, "failed to generate summary")
		return
	}

	utils.SendSuccess(c, gin.H{
		"game_id": game.ID,
		"summary": summary,
	})
}

// ListTeams returns the resolved team directory.
// GET /teams
func (h *GamesHandler) ListTeams(c *gin.Context) {
	ids := h.teams.TeamIDs(c.Request.Context())
	utils.SendSuccess(c, gin.H{
		"count": len(ids),
		"teams": ids,
	})
}

func (h *GamesHandler) findGame(c *gin.Context) (models.Game, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.SendBadRequest(c, "invalid game id")
		return models.Game{}, false
	}

	date := c.DefaultQuery("date", h.games.Today())
	for _, g := range h.games.LiveGames(c.Request.Context(), models.StatusFilterAll, date) {
		if g.ID == id {
			return g, true
		}
	}

	utils.SendNotFound(c, "game not found")
	return models.Game{}, false
}
