package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/panscim/panscim/internal/logger"
	"go.uber.org/zap"
)

// webhookSender posts notifications to the external notification
// collaborator. With no URL configured it only logs them, which keeps local
// runs working without the collaborator up.
type webhookSender struct {
	url    string
	client *http.Client
}

func newSender(url string) *webhookSender {
	return &webhookSender{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *webhookSender) Send(userID string, title string, message string) error {

	if s.url == "" {
		logger.Info("notification (no webhook configured)",
			zap.String("user", userID),
			zap.String("title", title))
		return nil
	}

	payload, err := json.Marshal(map[string]string{
		"user_id": userID,
		"title":   title,
		"message": message,
	})
	if err != nil {
		return err
	}

	response, err := s.client.Post(s.url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode >= 300 {
		return fmt.Errorf("notification webhook returned %d", response.StatusCode)
	}

	return nil
}
