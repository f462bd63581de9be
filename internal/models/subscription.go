package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription records a request for game update notifications. Delivery runs
// through the configured notifier; the default provider only logs.
type Subscription struct {
	ID           uuid.UUID `json:"id"`
	Phone        string    `json:"phone"`
	GameID       int64     `json:"game_id"`
	Frequency    string    `json:"frequency"`
	SubscribedAt time.Time `json:"subscribed_at"`
}
