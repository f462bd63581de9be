package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Notifier delivers subscription messages. The default provider only logs;
// real delivery requires explicit Twilio configuration.
type Notifier interface {
	SendMessage(phoneNumber, message string) error
}

// MockNotifier logs messages instead of sending them.
type MockNotifier struct {
	logger *logrus.Logger
}

func NewMockNotifier(logger *logrus.Logger) *MockNotifier {
	return &MockNotifier{logger: logger}
}

func (n *MockNotifier) SendMessage(phoneNumber, message string) error {
	n.logger.WithFields(logrus.Fields{
		"component": "notifier",
		"provider":  "mock",
		"phone":     phoneNumber,
	}).Infof("MOCK SMS: %s", message)
	return nil
}

// TwilioNotifier sends messages through the Twilio API. Selected only when
// SMS_PROVIDER=twilio and credentials are present.
type TwilioNotifier struct {
	client     *twilio.RestClient
	fromNumber string
	logger     *logrus.Logger
}

func NewTwilioNotifier(accountSID, authToken, fromNumber string, logger *logrus.Logger) *TwilioNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioNotifier{
		client:     client,
		fromNumber: fromNumber,
		logger:     logger,
	}
}

func (n *TwilioNotifier) SendMessage(phoneNumber, message string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(phoneNumber)
	params.SetFrom(n.fromNumber)
	params.SetBody(message)

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send failed: %w", err)
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	n.logger.WithFields(logrus.Fields{
		"component":   "notifier",
		"provider":    "twilio",
		"message_sid": sid,
	}).Info("SMS sent")
	return nil
}
