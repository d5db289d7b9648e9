package services

import "fmt"

// Message templates for the WhatsApp channel. Kept in one place so
// wording changes don't touch dispatch logic.

// LoginOTPMessage is sent when a login code is issued
func LoginOTPMessage(code string) string {
	return fmt.Sprintf("🐾 Your PawNest login code is %s. It expires in 10 minutes. Never share this code.", code)
}

// ServiceOTPMessage is sent to the owner when a start or end code is issued
func ServiceOTPMessage(code, action, petName string) string {
	return fmt.Sprintf("🐾 Share code %s with your sitter to %s the service for %s.", code, action, petName)
}

// ServiceStartedMessage notifies the owner that the sitter has started
func ServiceStartedMessage(petName string) string {
	if petName == "" {
		return "🐾 Your sitter has started the service. We'll let you know when it's done!"
	}
	return fmt.Sprintf("🐾 Your sitter has started looking after %s. We'll let you know when the service is done!", petName)
}

// ServiceCompletedMessage notifies the owner that the service is done
func ServiceCompletedMessage(petName string) string {
	if petName == "" {
		return "🐾 Your service is complete. Thanks for booking with PawNest!"
	}
	return fmt.Sprintf("🐾 %s's service is complete. Thanks for booking with PawNest!", petName)
}

// BookingConfirmedMessage is sent when a booking is confirmed
func BookingConfirmedMessage(bookingID, date, clock string) string {
	return fmt.Sprintf("🐾 Booking %s confirmed for %s at %s. See you then!", bookingID, date, clock)
}

// PaymentConfirmedMessage is sent when a session payment settles
func PaymentConfirmedMessage(sessionID string, amount float64) string {
	return fmt.Sprintf("🐾 Payment of ₹%.2f received for session %s. Thank you!", amount, sessionID)
}

// BookingReminderMessage is sent ahead of an upcoming booking
func BookingReminderMessage(petName, date, clock string) string {
	return fmt.Sprintf("🐾 Reminder: %s has a booking on %s at %s.", petName, date, clock)
}
