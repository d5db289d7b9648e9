package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// EmailService sends transactional email through an HTTP provider API.
type EmailService struct {
	apiURL string
	apiKey string
	from   string
}

// NewEmailService creates a new EmailService.
func NewEmailService(apiURL, apiKey, from string) *EmailService {
	return &EmailService{
		apiURL: apiURL,
		apiKey: apiKey,
		from:   from,
	}
}

type emailMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// Send delivers one transactional email. A single attempt, no retry.
func (s *EmailService) Send(to, subject, text string) error {
	if s.apiURL == "" {
		log.Println("[Email] Provider not configured")
		return nil
	}

	msg := emailMessage{
		From:    s.from,
		To:      to,
		Subject: subject,
		Text:    text,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("[Email] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("[Email] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}

	return nil
}
