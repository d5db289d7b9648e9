package models

import (
	"time"

	"gorm.io/gorm"
)

// LoginOTP gates phone-based login. At most one outstanding row per
// phone: issuance deletes prior rows before inserting.
type LoginOTP struct {
	gorm.Model
	Phone     string    `gorm:"not null;index"`
	Code      string    `gorm:"not null"`
	UserID    string    `gorm:"index"` // set when an active user already owns the phone
	UserType  string    // requested account type, kept for onboarding
	ExpiresAt time.Time `gorm:"not null"`
	IsUsed    bool      `gorm:"default:false"`
	UsedAt    *time.Time
}

// ServiceOTP gates a service start or end event. Scoped to either a
// regular booking or a recurring session, never both. Reissue does not
// invalidate earlier codes, so several may be live at once.
type ServiceOTP struct {
	gorm.Model
	BookingID string `gorm:"index"` // regular booking, or
	SessionID string `gorm:"index"` // recurring session
	Type      string `gorm:"not null"` // "START" or "END"
	Code      string `gorm:"not null"`
	IsUsed    bool   `gorm:"default:false"`
	ExpiresAt *time.Time
	UsedAt    *time.Time
}

// ServiceOTP type constants
const (
	OTPTypeStart = "START"
	OTPTypeEnd   = "END"
)

// IsExpired reports whether the code is past its expiry. Codes
// without an expiry never expire.
func (o *ServiceOTP) IsExpired(now time.Time) bool {
	return o.ExpiresAt != nil && now.After(*o.ExpiresAt)
}

// RefID returns whichever identifier scopes the code
func (o *ServiceOTP) RefID() string {
	if o.BookingID != "" {
		return o.BookingID
	}
	return o.SessionID
}
