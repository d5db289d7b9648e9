package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawnest/pawnest-backend/internal/models"
	"github.com/pawnest/pawnest-backend/internal/storage"
)

func lifecycleFixture(t *testing.T) (storage.Store, *LifecycleService, *OTPService) {
	t.Helper()
	store := storage.NewMemoryStore()
	notifier := testNotifier()
	return store, NewLifecycleService(store, notifier), NewOTPService(store, notifier)
}

// TestResolveRegularBeforeRecurring tests that the regular booking
// table wins when both tables hold the ID
func TestResolveRegularBeforeRecurring(t *testing.T) {
	store, lifecycle, _ := lifecycleFixture(t)

	booking, err := store.CreateBooking(&models.Booking{OwnerID: "owner-1", PetID: "pet-1"})
	require.NoError(t, err)

	session := &models.RecurringSession{SessionID: booking.BookingID, OwnerID: "owner-2", SequenceNumber: 1}
	_, err = store.CreateRecurringBooking(&models.RecurringBooking{OwnerID: "owner-2"}, []*models.RecurringSession{session})
	require.NoError(t, err)

	ref, err := lifecycle.Resolve(booking.BookingID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingKindRegular, ref.Kind)
	assert.Equal(t, "owner-1", ref.OwnerID)
}

// TestResolveUnknownID tests the not-found path
func TestResolveUnknownID(t *testing.T) {
	_, lifecycle, _ := lifecycleFixture(t)

	_, err := lifecycle.Resolve("PB-missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

// TestStartServiceRegular tests the full OTP-gated start transition
func TestStartServiceRegular(t *testing.T) {
	store, lifecycle, otpSvc := lifecycleFixture(t)

	booking, err := store.CreateBooking(&models.Booking{
		OwnerID: "owner-1",
		PetID:   "pet-1",
		Status:  models.BookingStatusConfirmed,
	})
	require.NoError(t, err)

	otp, _, err := otpSvc.IssueServiceOTP(booking.BookingID, models.OTPTypeStart)
	require.NoError(t, err)

	kind, err := lifecycle.StartService(booking.BookingID, otp.Code)
	require.NoError(t, err)
	assert.Equal(t, models.BookingKindRegular, kind)

	updated, err := store.GetBooking(booking.BookingID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusOngoing, updated.Status)
	require.NotNil(t, updated.ActualStartTime)
	assert.WithinDuration(t, time.Now(), *updated.ActualStartTime, 2*time.Second)

	// A spent code never works twice
	_, err = lifecycle.StartService(booking.BookingID, otp.Code)
	assert.ErrorIs(t, err, storage.ErrInvalidOTP)
}

// TestStartServiceWrongCode tests rejection without a status change
func TestStartServiceWrongCode(t *testing.T) {
	store, lifecycle, _ := lifecycleFixture(t)

	booking, err := store.CreateBooking(&models.Booking{
		OwnerID: "owner-1",
		Status:  models.BookingStatusConfirmed,
	})
	require.NoError(t, err)

	_, err = lifecycle.StartService(booking.BookingID, "000000")
	assert.ErrorIs(t, err, storage.ErrInvalidOTP)

	updated, err := store.GetBooking(booking.BookingID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, updated.Status)
}

// TestEndServiceRegular tests the completion transition
func TestEndServiceRegular(t *testing.T) {
	store, lifecycle, otpSvc := lifecycleFixture(t)

	booking, err := store.CreateBooking(&models.Booking{
		OwnerID: "owner-1",
		Status:  models.BookingStatusOngoing,
	})
	require.NoError(t, err)

	otp, _, err := otpSvc.IssueServiceOTP(booking.BookingID, models.OTPTypeEnd)
	require.NoError(t, err)

	kind, err := lifecycle.EndService(booking.BookingID, otp.Code)
	require.NoError(t, err)
	assert.Equal(t, models.BookingKindRegular, kind)

	updated, err := store.GetBooking(booking.BookingID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, updated.Status)
	assert.NotNil(t, updated.ActualEndTime)
}

// TestStartServiceRecurringSession tests routing into the session table
func TestStartServiceRecurringSession(t *testing.T) {
	store, lifecycle, otpSvc := lifecycleFixture(t)

	session := &models.RecurringSession{
		OwnerID:        "owner-1",
		PetID:          "pet-1",
		Status:         models.BookingStatusUpcoming,
		SequenceNumber: 1,
	}
	_, err := store.CreateRecurringBooking(&models.RecurringBooking{OwnerID: "owner-1"}, []*models.RecurringSession{session})
	require.NoError(t, err)

	otp, _, err := otpSvc.IssueServiceOTP(session.SessionID, models.OTPTypeStart)
	require.NoError(t, err)

	kind, err := lifecycle.StartService(session.SessionID, otp.Code)
	require.NoError(t, err)
	assert.Equal(t, models.BookingKindRecurring, kind)

	updated, err := store.GetRecurringSession(session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusOngoing, updated.Status)
	assert.NotNil(t, updated.ServiceStartedAt)
}

// TestEndServiceWrongType tests that a START code cannot end a service
func TestEndServiceWrongType(t *testing.T) {
	store, lifecycle, otpSvc := lifecycleFixture(t)

	booking, err := store.CreateBooking(&models.Booking{
		OwnerID: "owner-1",
		Status:  models.BookingStatusOngoing,
	})
	require.NoError(t, err)

	otp, _, err := otpSvc.IssueServiceOTP(booking.BookingID, models.OTPTypeStart)
	require.NoError(t, err)

	_, err = lifecycle.EndService(booking.BookingID, otp.Code)
	assert.ErrorIs(t, err, storage.ErrInvalidOTP)
}
