package services

import (
	"log"

	"github.com/pawnest/pawnest-backend/internal/utils"
)

// Notifier fans lifecycle events out to the messaging channels.
// Delivery is best-effort: one attempt per channel, failures are
// logged and never reach the caller, so a dead provider cannot block
// a booking transition.
type Notifier struct {
	whatsapp *TwilioService
	email    *EmailService
	push     *PushService
}

// NewNotifier creates a Notifier over the given channels
func NewNotifier(whatsapp *TwilioService, email *EmailService, push *PushService) *Notifier {
	return &Notifier{
		whatsapp: whatsapp,
		email:    email,
		push:     push,
	}
}

// SendWhatsApp normalizes the destination and sends one message
func (n *Notifier) SendWhatsApp(phone, message string) {
	to := utils.NormalizePhone(phone)
	if to == "" {
		log.Printf("[Notify] Skipping WhatsApp send, unusable phone %q", phone)
		return
	}
	if err := n.whatsapp.SendWhatsAppMessage(to, message); err != nil {
		log.Printf("[Notify] WhatsApp send to %s failed: %v", to, err)
	}
}

// SendEmail sends one transactional email
func (n *Notifier) SendEmail(to, subject, text string) {
	if to == "" {
		return
	}
	if err := n.email.Send(to, subject, text); err != nil {
		log.Printf("[Notify] Email send to %s failed: %v", to, err)
	}
}

// SendPush sends one push notification to the given users
func (n *Notifier) SendPush(userIDs []string, title, body string) {
	if err := n.push.Send(userIDs, title, body); err != nil {
		log.Printf("[Notify] Push send failed: %v", err)
	}
}
