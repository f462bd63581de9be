package services

import (
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jstittsworth/gameday-tracker/internal/models"
	"github.com/sirupsen/logrus"
)

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)

// validFrequencies are the update cadences a subscriber may request.
var validFrequencies = map[string]bool{
	"every_score": true,
	"inning_end":  true,
	"final_only":  true,
}

// SubscriptionService records game update subscriptions in process and sends
// a confirmation through the configured notifier. There is no persistence:
// subscriptions live until the process exits.
type SubscriptionService struct {
	notifier Notifier
	logger   *logrus.Logger

	mu   sync.RWMutex
	subs map[uuid.UUID]models.Subscription
}

func NewSubscriptionService(notifier Notifier, logger *logrus.Logger) *SubscriptionService {
	return &SubscriptionService{
		notifier: notifier,
		logger:   logger,
		subs:     make(map[uuid.UUID]models.Subscription),
	}
}

// Subscribe validates and records a subscription, then sends a best-effort
// confirmation message.
func (s *SubscriptionService) Subscribe(phone string, gameID int64, frequency string) (models.Subscription, error) {
	if !phonePattern.MatchString(phone) {
		return models.Subscription{}, fmt.Errorf("invalid phone number")
	}
	if !validFrequencies[frequency] {
		return models.Subscription{}, fmt.Errorf("invalid frequency %q", frequency)
	}

	sub := models.Subscription{
		ID:           uuid.New(),
		Phone:        phone,
		GameID:       gameID,
		Frequency:    frequency,
		SubscribedAt: time.Now(),
	}

	s.mu.Lock()
	s.subs[sub.ID] = sub
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"component":       "subscriptions",
		"subscription_id": sub.ID,
		"game_id":         gameID,
		"frequency":       frequency,
	}).Info("New subscription")

	msg := fmt.Sprintf("You're subscribed to updates for game %d (%s).", gameID, frequency)
	if err := s.notifier.SendMessage(phone, msg); err != nil {
		s.logger.WithField("component", "subscriptions").WithError(err).Warn("Confirmation message failed")
	}

	return sub, nil
}

// Count reports the number of active subscriptions.
func (s *SubscriptionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
