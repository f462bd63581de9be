package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jstittsworth/gameday-tracker/internal/services"
)

// HealthHandler reports service liveness plus the state of the cache backend,
// circuit breaker, and cache warmer.
type HealthHandler struct {
	cacheBackend string
	breaker      *services.CircuitBreakerService
	warmer       *services.CacheWarmer
}

func NewHealthHandler(cacheBackend string, breaker *services.CircuitBreakerService, warmer *services.CacheWarmer) *HealthHandler {
	return &HealthHandler{
		cacheBackend: cacheBackend,
		breaker:      breaker,
		warmer:       warmer,
	}
}

// GetHealth handles GET /health.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"time":          time.Now().UTC(),
		"cache_backend": h.cacheBackend,
		"upstream":      h.breaker.GetState(services.BreakerStatsAPI).String(),
		"cache_warmer":  h.warmer.Status(),
	})
}
