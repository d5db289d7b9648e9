package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawnest/pawnest-backend/internal/models"
	"github.com/pawnest/pawnest-backend/internal/storage"
)

func testNotifier() *Notifier {
	// All channels unconfigured: sends are logged and dropped
	return NewNotifier(&TwilioService{}, NewEmailService("", "", ""), NewPushService("", ""))
}

// TestIssueLoginOTP tests code shape, expiry, and persistence
func TestIssueLoginOTP(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewOTPService(store, testNotifier())

	before := time.Now()
	otp, err := svc.IssueLoginOTP("+919876543210", models.UserTypeOwner)
	require.NoError(t, err)

	assert.Len(t, otp.Code, 6)
	assert.WithinDuration(t, before.Add(10*time.Minute), otp.ExpiresAt, 2*time.Second)
	assert.False(t, otp.IsUsed)

	stored, err := store.GetActiveLoginOTP("+919876543210", otp.Code)
	require.NoError(t, err)
	assert.Equal(t, otp.Code, stored.Code)
}

// TestIssueLoginOTPInvalidPhone tests validation failures
func TestIssueLoginOTPInvalidPhone(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewOTPService(store, testNotifier())

	tests := []struct {
		name  string
		phone string
	}{
		{name: "letters", phone: "abc"},
		{name: "leading zero", phone: "+0123456789"},
		{name: "too long", phone: "+1234567890123456"},
		{name: "plus only", phone: "+"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.IssueLoginOTP(tt.phone, "")
			assert.ErrorIs(t, err, ErrInvalidPhone)
		})
	}
}

// TestIssueLoginOTPReplacesPrior tests the delete-before-insert rule
func TestIssueLoginOTPReplacesPrior(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewOTPService(store, testNotifier())

	first, err := svc.IssueLoginOTP("+919876543210", "")
	require.NoError(t, err)

	second, err := svc.IssueLoginOTP("+919876543210", "")
	require.NoError(t, err)

	if first.Code != second.Code {
		_, err = store.GetActiveLoginOTP("+919876543210", first.Code)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	}

	_, err = store.GetActiveLoginOTP("+919876543210", second.Code)
	assert.NoError(t, err)
}

// TestIssueLoginOTPLinksExistingUser tests that a claimed phone gets
// its user ID attached to the code
func TestIssueLoginOTPLinksExistingUser(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewOTPService(store, testNotifier())

	user, err := store.CreateUser(&models.User{Phone: "+919876543210"})
	require.NoError(t, err)

	otp, err := svc.IssueLoginOTP("+91 98765 43210", "")
	require.NoError(t, err)
	assert.Equal(t, user.UserID, otp.UserID)
}

// TestVerifyLoginOTPCreatesUser tests first verified claim of a phone
func TestVerifyLoginOTPCreatesUser(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewOTPService(store, testNotifier())

	otp, err := svc.IssueLoginOTP("+919876543210", models.UserTypeOwner)
	require.NoError(t, err)

	user, err := svc.VerifyLoginOTP("+919876543210", otp.Code)
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", user.Phone)
	assert.False(t, user.IsOnboarded)

	// Code is spent now
	_, err = svc.VerifyLoginOTP("+919876543210", otp.Code)
	assert.ErrorIs(t, err, storage.ErrInvalidOTP)
}

// TestVerifyLoginOTPExpired tests expiry enforcement
func TestVerifyLoginOTPExpired(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewOTPService(store, testNotifier())

	_, err := store.ReplaceLoginOTP(&models.LoginOTP{
		Phone:     "+919876543210",
		Code:      "123456",
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)

	_, err = svc.VerifyLoginOTP("+919876543210", "123456")
	assert.ErrorIs(t, err, storage.ErrInvalidOTP)
}

// TestVerifyLoginOTPSitterGetsExtension tests sitter profile creation
// on first sitter login
func TestVerifyLoginOTPSitterGetsExtension(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewOTPService(store, testNotifier())

	otp, err := svc.IssueLoginOTP("+919876543210", models.UserTypeSitter)
	require.NoError(t, err)

	user, err := svc.VerifyLoginOTP("+919876543210", otp.Code)
	require.NoError(t, err)
	require.True(t, user.IsSitter())

	sitter, err := store.GetSitterByUserID(user.UserID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, sitter.Rating)
}

// TestIssueServiceOTPKeepsPriorCodes tests that service OTP reissue
// leaves earlier unspent codes valid, unlike login OTPs
func TestIssueServiceOTPKeepsPriorCodes(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewOTPService(store, testNotifier())

	booking, err := store.CreateBooking(&models.Booking{OwnerID: "owner-1", PetID: "pet-1"})
	require.NoError(t, err)

	first, kind, err := svc.IssueServiceOTP(booking.BookingID, models.OTPTypeStart)
	require.NoError(t, err)
	assert.Equal(t, models.BookingKindRegular, kind)

	second, _, err := svc.IssueServiceOTP(booking.BookingID, models.OTPTypeStart)
	require.NoError(t, err)

	// Both codes consume independently
	require.NoError(t, store.ConsumeServiceOTP(models.BookingKindRegular, booking.BookingID, second.Code, models.OTPTypeStart, time.Now()))
	if first.Code != second.Code {
		require.NoError(t, store.ConsumeServiceOTP(models.BookingKindRegular, booking.BookingID, first.Code, models.OTPTypeStart, time.Now()))
	}
}

// TestIssueServiceOTPUnknownBooking tests the not-found path
func TestIssueServiceOTPUnknownBooking(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewOTPService(store, testNotifier())

	_, _, err := svc.IssueServiceOTP("PB-missing", models.OTPTypeStart)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIssueServiceOTPRecurring tests session scoping
func TestIssueServiceOTPRecurring(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewOTPService(store, testNotifier())

	session := &models.RecurringSession{OwnerID: "owner-1", PetID: "pet-1", SequenceNumber: 1}
	_, err := store.CreateRecurringBooking(&models.RecurringBooking{OwnerID: "owner-1"}, []*models.RecurringSession{session})
	require.NoError(t, err)

	otp, kind, err := svc.IssueServiceOTP(session.SessionID, models.OTPTypeEnd)
	require.NoError(t, err)
	assert.Equal(t, models.BookingKindRecurring, kind)
	assert.Equal(t, session.SessionID, otp.SessionID)
	assert.Empty(t, otp.BookingID)
}
