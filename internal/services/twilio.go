package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/pawnest/pawnest-backend/internal/config"
)

type TwilioService struct {
	client *twilio.RestClient
	from   string // "whatsapp:+14155238886"
}

// NewTwilioService creates a new Twilio service instance. With missing
// credentials the service stays in disabled mode and drops messages
// with a log line, so the API keeps working without WhatsApp.
func NewTwilioService(cfg *config.Config) *TwilioService {
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioWhatsAppFrom == "" {
		log.Println("⚠️  Twilio credentials not found - WhatsApp delivery disabled")
		return &TwilioService{}
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})

	return &TwilioService{
		client: client,
		from:   cfg.TwilioWhatsAppFrom,
	}
}

// SendWhatsAppMessage sends a WhatsApp message via Twilio
func (t *TwilioService) SendWhatsAppMessage(to string, message string) error {
	if t.client == nil {
		log.Printf("[WhatsApp] Not configured, dropping message to %s", to)
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(fmt.Sprintf("whatsapp:%s", to))
	params.SetBody(message)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send WhatsApp message: %v", err)
		return err
	}

	log.Printf("✅ WhatsApp message sent! SID: %s", *resp.Sid)
	return nil
}

// SendWhatsAppTemplate sends a WhatsApp template message via Twilio
func (t *TwilioService) SendWhatsAppTemplate(to string, templateSID string, contentVariables map[string]string) error {
	if t.client == nil {
		log.Printf("[WhatsApp] Not configured, dropping template %s to %s", templateSID, to)
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(fmt.Sprintf("whatsapp:%s", to))
	params.SetContentSid(templateSID)

	// SetContentVariables expects a JSON string
	if len(contentVariables) > 0 {
		variablesJSON, err := json.Marshal(contentVariables)
		if err != nil {
			log.Printf("❌ Failed to marshal content variables: %v", err)
			return err
		}
		params.SetContentVariables(string(variablesJSON))
	}

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send WhatsApp template: %v", err)
		return err
	}

	log.Printf("✅ WhatsApp template sent! SID: %s, Template: %s", *resp.Sid, templateSID)
	return nil
}
