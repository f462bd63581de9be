package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jstittsworth/gameday-tracker/internal/api/handlers"
	"github.com/jstittsworth/gameday-tracker/internal/services"
	"github.com/sirupsen/logrus"
)

// SetupRoutes configures all API routes on the given router group.
func SetupRoutes(
	group *gin.RouterGroup,
	games *services.GameService,
	teams *services.TeamDirectoryService,
	summarizer services.SummaryGenerator,
	subscriptions *services.SubscriptionService,
	logger *logrus.Logger,
) {
	gamesHandler := handlers.NewGamesHandler(games, teams, summarizer, logger)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptions)

	group.GET("/games", gamesHandler.ListGames)
	group.GET("/games/:id/boxscore", gamesHandler.GetBoxScore)
	group.GET("/games/:id/summary", gamesHandler.GetSummary)
	group.GET("/teams", gamesHandler.ListTeams)

	group.POST("/subscriptions", subscriptionHandler.Subscribe)
}
