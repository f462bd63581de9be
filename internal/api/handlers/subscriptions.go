package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jstittsworth/gameday-tracker/internal/services"
	"github.com/jstittsworth/gameday-tracker/pkg/utils"
)

// SubscriptionHandler accepts game update subscriptions.
type SubscriptionHandler struct {
	subscriptions *services.SubscriptionService
}

func NewSubscriptionHandler(subscriptions *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

type subscribeRequest struct {
	Phone     string `json:"phone" binding:"required"`
	GameID    int64  `json:"game_id" binding:"required"`
	Frequency string `json:"frequency" binding:"required"`
}

// Subscribe records a new subscription.
// POST /subscriptions
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, "phone, game_id, and frequency are required")
		return
	}

	sub, err := h.subscriptions.Subscribe(req.Phone, req.GameID, req.Frequency)
	if err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	utils.SendCreated(c, sub)
}
