package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// PushService sends push notifications through an HTTP provider API,
// targeted by user identifier list.
type PushService struct {
	apiURL string
	apiKey string
}

// NewPushService creates a new PushService.
func NewPushService(apiURL, apiKey string) *PushService {
	return &PushService{
		apiURL: apiURL,
		apiKey: apiKey,
	}
}

type pushMessage struct {
	UserIDs []string `json:"user_ids"`
	Title   string   `json:"title"`
	Body    string   `json:"body"`
}

// Send delivers one push notification to the given users. A single
// attempt, no retry.
func (s *PushService) Send(userIDs []string, title, body string) error {
	if s.apiURL == "" {
		log.Println("[Push] Provider not configured")
		return nil
	}
	if len(userIDs) == 0 {
		return nil
	}

	msg := pushMessage{
		UserIDs: userIDs,
		Title:   title,
		Body:    body,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("[Push] Failed to send notification: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("[Push] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("push provider returned status %d", resp.StatusCode)
	}

	return nil
}
