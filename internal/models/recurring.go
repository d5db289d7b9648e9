package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// RecurringBooking is the plan a set of sessions is generated from
type RecurringBooking struct {
	gorm.Model

	RecurringID string `json:"recurring_id" gorm:"uniqueIndex"`
	OwnerID     string `json:"owner_id" gorm:"index"`
	PetID       string `json:"pet_id"`
	ServiceID   string `json:"service_id"`
	SitterID    string `json:"sitter_id"`

	StartDate       string  `json:"start_date"` // "2006-01-02"
	Time            string  `json:"time"`       // "15:04"
	Frequency       string  `json:"frequency"`  // "DAILY" or "WEEKLY"
	Occurrences     int     `json:"occurrences"`
	DurationMinutes int     `json:"duration_minutes"`
	SessionPrice    float64 `json:"session_price"`
	Notes           string  `json:"notes"`
	Status          string  `json:"status"`
}

// Frequency constants
const (
	FrequencyDaily  = "DAILY"
	FrequencyWeekly = "WEEKLY"
)

func (r *RecurringBooking) BeforeCreate(tx *gorm.DB) error {
	if r.RecurringID == "" {
		r.RecurringID = GenerateRecordID("RP")
	}
	if r.Status == "" {
		r.Status = BookingStatusPending
	}
	return nil
}

// RecurringSession is one dated occurrence of a recurring plan. It
// lives in its own table with its own identifier space and lifecycle
// columns; it is never a child row of the regular bookings table.
type RecurringSession struct {
	gorm.Model

	SessionID   string `json:"session_id" gorm:"uniqueIndex"`
	RecurringID string `json:"recurring_id" gorm:"index"`
	OwnerID     string `json:"owner_id" gorm:"index"`
	PetID       string `json:"pet_id"`
	ServiceID   string `json:"service_id"`
	SitterID    string `json:"sitter_id" gorm:"index"`

	SessionDate    string  `json:"session_date"` // "2006-01-02"
	SessionTime    string  `json:"session_time"` // "15:04"
	SessionPrice   float64 `json:"session_price"`
	SequenceNumber int     `json:"sequence_number"`

	PaymentStatus string `json:"payment_status"`
	Status        string `json:"status"`

	ServiceStartedAt *time.Time `json:"service_started_at"`
	ServiceEndedAt   *time.Time `json:"service_ended_at"`
}

// PaymentStatus constants
const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
)

func (s *RecurringSession) BeforeCreate(tx *gorm.DB) error {
	if s.SessionID == "" {
		s.SessionID = GenerateRecordID("RS")
	}
	if s.Status == "" {
		s.Status = BookingStatusPending
	}
	if s.PaymentStatus == "" {
		s.PaymentStatus = PaymentStatusPending
	}
	return nil
}

// HasStatus compares status case-insensitively
func (s *RecurringSession) HasStatus(status string) bool {
	return strings.EqualFold(s.Status, status)
}

// ScheduledAt derives the sortable date-time key for merged lists
func (s *RecurringSession) ScheduledAt() time.Time {
	return ParseScheduledAt(s.SessionDate, s.SessionTime)
}
