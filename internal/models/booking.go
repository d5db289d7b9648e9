package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Booking represents a single (non-recurring) pet-care engagement
type Booking struct {
	gorm.Model

	BookingID string `json:"booking_id" gorm:"uniqueIndex"`
	OwnerID   string `json:"owner_id" gorm:"index"` // references User.UserID
	PetID     string `json:"pet_id"`
	ServiceID string `json:"service_id"`
	SitterID  string `json:"sitter_id" gorm:"index"` // empty until assigned

	Date            string `json:"date"` // "2006-01-02"
	Time            string `json:"time"` // "15:04"
	DurationMinutes int    `json:"duration_minutes"`

	// Status comparisons are case-insensitive throughout
	Status string `json:"status"`

	TotalPrice float64 `json:"total_price"`
	Notes      string  `json:"notes"`

	ActualStartTime *time.Time `json:"actual_start_time"`
	ActualEndTime   *time.Time `json:"actual_end_time"`

	IsRecurring bool `json:"is_recurring" gorm:"default:false"`
}

// BookingStatus constants
const (
	BookingStatusPending   = "PENDING"
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusAssigned  = "ASSIGNED"
	BookingStatusUpcoming  = "UPCOMING"
	BookingStatusOngoing   = "ONGOING"
	BookingStatusCompleted = "COMPLETED"
	BookingStatusCancelled = "CANCELLED"
)

// BookingKind tags which table owns a given identifier. The service
// start/end flow resolves the kind once and never re-branches.
type BookingKind string

const (
	BookingKindRegular   BookingKind = "regular"
	BookingKindRecurring BookingKind = "recurring"
)

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.BookingID == "" {
		b.BookingID = GenerateRecordID("PB")
	}
	if b.Status == "" {
		b.Status = BookingStatusPending
	}
	return nil
}

// HasStatus compares status case-insensitively
func (b *Booking) HasStatus(status string) bool {
	return strings.EqualFold(b.Status, status)
}

// ScheduledAt derives the sortable date-time key from the Date and
// Time columns. Unparseable values sort to the zero time.
func (b *Booking) ScheduledAt() time.Time {
	return ParseScheduledAt(b.Date, b.Time)
}

// IsCancellable reports whether the booking is still in an early state
func (b *Booking) IsCancellable() bool {
	switch strings.ToUpper(b.Status) {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusAssigned, BookingStatusUpcoming:
		return true
	}
	return false
}

// ParseScheduledAt combines a "2006-01-02" date and "15:04" time into
// a single timestamp for sorting merged booking lists
func ParseScheduledAt(date, clock string) time.Time {
	if clock == "" {
		clock = "00:00"
	}
	t, err := time.Parse("2006-01-02 15:04", fmt.Sprintf("%s %s", date, clock))
	if err != nil {
		return time.Time{}
	}
	return t
}
