package services

import (
	"time"

	"github.com/pawnest/pawnest-backend/internal/models"
	"github.com/pawnest/pawnest-backend/internal/storage"
)

// SessionRef is the tagged view of "something a sitter shows up for":
// either a regular booking or one recurring session. It is resolved
// once per request; everything downstream works off the ref without
// re-probing tables.
type SessionRef struct {
	Kind     models.BookingKind
	ID       string
	OwnerID  string
	PetID    string
	SitterID string
	Status   string
}

// LifecycleService drives OTP-gated booking status transitions
type LifecycleService struct {
	store    storage.Store
	notifier *Notifier
}

func NewLifecycleService(store storage.Store, notifier *Notifier) *LifecycleService {
	return &LifecycleService{store: store, notifier: notifier}
}

// Resolve finds which table owns the identifier. The regular bookings
// table is probed first; if an identifier ever existed in both tables
// the regular booking wins, so the precedence stays deterministic.
func (s *LifecycleService) Resolve(bookingID string) (*SessionRef, error) {
	if booking, err := s.store.GetBooking(bookingID); err == nil {
		return &SessionRef{
			Kind:     models.BookingKindRegular,
			ID:       booking.BookingID,
			OwnerID:  booking.OwnerID,
			PetID:    booking.PetID,
			SitterID: booking.SitterID,
			Status:   booking.Status,
		}, nil
	}

	if session, err := s.store.GetRecurringSession(bookingID); err == nil {
		return &SessionRef{
			Kind:     models.BookingKindRecurring,
			ID:       session.SessionID,
			OwnerID:  session.OwnerID,
			PetID:    session.PetID,
			SitterID: session.SitterID,
			Status:   session.Status,
		}, nil
	}

	return nil, storage.ErrNotFound
}

// StartService verifies a START code and moves the booking or session
// to ONGOING with a started-at timestamp. Code consumption and the
// status flip happen in one store transaction.
func (s *LifecycleService) StartService(bookingID, code string) (models.BookingKind, error) {
	ref, err := s.Resolve(bookingID)
	if err != nil {
		return "", err
	}

	// Owner is told the sitter has arrived before the code is checked;
	// delivery failure never blocks the transition
	s.notifyOwner(ref, ServiceStartedMessage, "Service started")

	if err := s.store.ConsumeServiceOTP(ref.Kind, ref.ID, code, models.OTPTypeStart, time.Now()); err != nil {
		return "", err
	}

	return ref.Kind, nil
}

// EndService verifies an END code and moves the booking or session to
// COMPLETED with an ended-at timestamp
func (s *LifecycleService) EndService(bookingID, code string) (models.BookingKind, error) {
	ref, err := s.Resolve(bookingID)
	if err != nil {
		return "", err
	}

	s.notifyOwner(ref, ServiceCompletedMessage, "Service completed")

	if err := s.store.ConsumeServiceOTP(ref.Kind, ref.ID, code, models.OTPTypeEnd, time.Now()); err != nil {
		return "", err
	}

	return ref.Kind, nil
}

func (s *LifecycleService) notifyOwner(ref *SessionRef, message func(string) string, pushTitle string) {
	petName := ""
	if pet, err := s.store.GetPet(ref.PetID); err == nil {
		petName = pet.Name
	}

	if owner, err := s.store.GetUserByID(ref.OwnerID); err == nil {
		text := message(petName)
		s.notifier.SendWhatsApp(owner.Phone, text)
		s.notifier.SendEmail(owner.Email, pushTitle, text)
		s.notifier.SendPush([]string{owner.UserID}, pushTitle, text)
	}
}
