package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawnest/pawnest-backend/internal/models"
)

func seedBooking(t *testing.T, store *MemoryStore, status string) *models.Booking {
	t.Helper()
	booking, err := store.CreateBooking(&models.Booking{
		OwnerID: "owner-1",
		PetID:   "pet-1",
		Date:    "2026-09-15",
		Time:    "10:00",
		Status:  status,
	})
	require.NoError(t, err)
	return booking
}

func seedSession(t *testing.T, store *MemoryStore, status string) *models.RecurringSession {
	t.Helper()
	plan := &models.RecurringBooking{OwnerID: "owner-1", PetID: "pet-1"}
	session := &models.RecurringSession{
		OwnerID:        "owner-1",
		PetID:          "pet-1",
		SessionDate:    "2026-09-16",
		SessionTime:    "11:00",
		SequenceNumber: 1,
		Status:         status,
	}
	_, err := store.CreateRecurringBooking(plan, []*models.RecurringSession{session})
	require.NoError(t, err)
	return session
}

// TestReplaceLoginOTP tests the one-outstanding-code-per-phone rule
func TestReplaceLoginOTP(t *testing.T) {
	store := NewMemoryStore()

	first := &models.LoginOTP{Phone: "+919876543210", Code: "111111", ExpiresAt: time.Now().Add(10 * time.Minute)}
	_, err := store.ReplaceLoginOTP(first)
	require.NoError(t, err)

	second := &models.LoginOTP{Phone: "+919876543210", Code: "222222", ExpiresAt: time.Now().Add(10 * time.Minute)}
	_, err = store.ReplaceLoginOTP(second)
	require.NoError(t, err)

	// The first code is gone
	_, err = store.GetActiveLoginOTP("+919876543210", "111111")
	assert.ErrorIs(t, err, ErrNotFound)

	// The second is live
	otp, err := store.GetActiveLoginOTP("+919876543210", "222222")
	require.NoError(t, err)
	assert.False(t, otp.IsUsed)
}

// TestReplaceLoginOTPOtherPhonesUntouched tests per-phone scoping
func TestReplaceLoginOTPOtherPhonesUntouched(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.ReplaceLoginOTP(&models.LoginOTP{Phone: "+919876543210", Code: "111111", ExpiresAt: time.Now().Add(10 * time.Minute)})
	require.NoError(t, err)
	_, err = store.ReplaceLoginOTP(&models.LoginOTP{Phone: "+14155550134", Code: "333333", ExpiresAt: time.Now().Add(10 * time.Minute)})
	require.NoError(t, err)

	otp, err := store.GetActiveLoginOTP("+919876543210", "111111")
	require.NoError(t, err)
	assert.Equal(t, "111111", otp.Code)
}

// TestConsumeServiceOTPRegular tests the happy path against the
// regular bookings table
func TestConsumeServiceOTPRegular(t *testing.T) {
	store := NewMemoryStore()
	booking := seedBooking(t, store, models.BookingStatusConfirmed)

	_, err := store.CreateServiceOTP(&models.ServiceOTP{
		BookingID: booking.BookingID,
		Type:      models.OTPTypeStart,
		Code:      "654321",
	})
	require.NoError(t, err)

	now := time.Now()
	err = store.ConsumeServiceOTP(models.BookingKindRegular, booking.BookingID, "654321", models.OTPTypeStart, now)
	require.NoError(t, err)

	updated, err := store.GetBooking(booking.BookingID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusOngoing, updated.Status)
	require.NotNil(t, updated.ActualStartTime)
	assert.WithinDuration(t, now, *updated.ActualStartTime, time.Second)
}

// TestConsumeServiceOTPSecondAttemptFails tests single-use consumption
func TestConsumeServiceOTPSecondAttemptFails(t *testing.T) {
	store := NewMemoryStore()
	booking := seedBooking(t, store, models.BookingStatusConfirmed)

	_, err := store.CreateServiceOTP(&models.ServiceOTP{
		BookingID: booking.BookingID,
		Type:      models.OTPTypeStart,
		Code:      "654321",
	})
	require.NoError(t, err)

	require.NoError(t, store.ConsumeServiceOTP(models.BookingKindRegular, booking.BookingID, "654321", models.OTPTypeStart, time.Now()))

	err = store.ConsumeServiceOTP(models.BookingKindRegular, booking.BookingID, "654321", models.OTPTypeStart, time.Now())
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

// TestConsumeServiceOTPWrongType tests that an END code cannot start
// a service
func TestConsumeServiceOTPWrongType(t *testing.T) {
	store := NewMemoryStore()
	booking := seedBooking(t, store, models.BookingStatusConfirmed)

	_, err := store.CreateServiceOTP(&models.ServiceOTP{
		BookingID: booking.BookingID,
		Type:      models.OTPTypeEnd,
		Code:      "654321",
	})
	require.NoError(t, err)

	err = store.ConsumeServiceOTP(models.BookingKindRegular, booking.BookingID, "654321", models.OTPTypeStart, time.Now())
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

// TestConsumeServiceOTPWrongBooking tests booking-scoped validation
func TestConsumeServiceOTPWrongBooking(t *testing.T) {
	store := NewMemoryStore()
	first := seedBooking(t, store, models.BookingStatusConfirmed)
	second := seedBooking(t, store, models.BookingStatusConfirmed)

	_, err := store.CreateServiceOTP(&models.ServiceOTP{
		BookingID: first.BookingID,
		Type:      models.OTPTypeStart,
		Code:      "654321",
	})
	require.NoError(t, err)

	err = store.ConsumeServiceOTP(models.BookingKindRegular, second.BookingID, "654321", models.OTPTypeStart, time.Now())
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

// TestConsumeServiceOTPExpired tests expiry enforcement
func TestConsumeServiceOTPExpired(t *testing.T) {
	store := NewMemoryStore()
	booking := seedBooking(t, store, models.BookingStatusConfirmed)

	expired := time.Now().Add(-time.Minute)
	_, err := store.CreateServiceOTP(&models.ServiceOTP{
		BookingID: booking.BookingID,
		Type:      models.OTPTypeStart,
		Code:      "654321",
		ExpiresAt: &expired,
	})
	require.NoError(t, err)

	err = store.ConsumeServiceOTP(models.BookingKindRegular, booking.BookingID, "654321", models.OTPTypeStart, time.Now())
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

// TestConsumeServiceOTPRecurring tests that a session identifier only
// mutates the recurring sessions table
func TestConsumeServiceOTPRecurring(t *testing.T) {
	store := NewMemoryStore()
	booking := seedBooking(t, store, models.BookingStatusConfirmed)
	session := seedSession(t, store, models.BookingStatusConfirmed)

	_, err := store.CreateServiceOTP(&models.ServiceOTP{
		SessionID: session.SessionID,
		Type:      models.OTPTypeStart,
		Code:      "654321",
	})
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, store.ConsumeServiceOTP(models.BookingKindRecurring, session.SessionID, "654321", models.OTPTypeStart, now))

	updated, err := store.GetRecurringSession(session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusOngoing, updated.Status)
	require.NotNil(t, updated.ServiceStartedAt)

	// The regular booking is untouched
	untouched, err := store.GetBooking(booking.BookingID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, untouched.Status)
	assert.Nil(t, untouched.ActualStartTime)
}

// TestConsumeServiceOTPEndCompletes tests the END transition
func TestConsumeServiceOTPEndCompletes(t *testing.T) {
	store := NewMemoryStore()
	booking := seedBooking(t, store, models.BookingStatusOngoing)

	_, err := store.CreateServiceOTP(&models.ServiceOTP{
		BookingID: booking.BookingID,
		Type:      models.OTPTypeEnd,
		Code:      "777777",
	})
	require.NoError(t, err)

	require.NoError(t, store.ConsumeServiceOTP(models.BookingKindRegular, booking.BookingID, "777777", models.OTPTypeEnd, time.Now()))

	updated, err := store.GetBooking(booking.BookingID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, updated.Status)
	require.NotNil(t, updated.ActualEndTime)
}

// TestStatusFilterCaseInsensitive tests lower-case status predicates
func TestStatusFilterCaseInsensitive(t *testing.T) {
	store := NewMemoryStore()
	seedBooking(t, store, "ongoing")

	bookings, err := store.GetBookingsByOwnerAndStatus("owner-1", "ONGOING")
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

// TestDeleteExpiredOTPs tests the cleanup sweep
func TestDeleteExpiredOTPs(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.ReplaceLoginOTP(&models.LoginOTP{Phone: "+919876543210", Code: "111111", ExpiresAt: time.Now().Add(-time.Minute)})
	require.NoError(t, err)
	_, err = store.ReplaceLoginOTP(&models.LoginOTP{Phone: "+14155550134", Code: "222222", ExpiresAt: time.Now().Add(10 * time.Minute)})
	require.NoError(t, err)

	require.NoError(t, store.DeleteExpiredOTPs())

	_, err = store.GetActiveLoginOTP("+919876543210", "111111")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetActiveLoginOTP("+14155550134", "222222")
	assert.NoError(t, err)
}
