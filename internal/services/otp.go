package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/pawnest/pawnest-backend/internal/models"
	"github.com/pawnest/pawnest-backend/internal/storage"
	"github.com/pawnest/pawnest-backend/internal/utils"
)

// ErrInvalidPhone is returned for numbers failing E.164 validation
var ErrInvalidPhone = errors.New("invalid phone number")

const loginOTPTTL = 10 * time.Minute

type OTPService struct {
	store    storage.Store
	notifier *Notifier
}

func NewOTPService(store storage.Store, notifier *Notifier) *OTPService {
	return &OTPService{store: store, notifier: notifier}
}

// IssueLoginOTP generates a login code for the phone, replaces any
// outstanding code, and sends the new one over WhatsApp. The send is
// best-effort: a delivery failure leaves the stored row in place.
func (s *OTPService) IssueLoginOTP(phone, userType string) (*models.LoginOTP, error) {
	normalized := utils.NormalizePhone(phone)
	if !utils.IsValidPhone(normalized) {
		return nil, ErrInvalidPhone
	}

	code, err := utils.GenerateSecureOTP()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP: %w", err)
	}

	otp := &models.LoginOTP{
		Phone:     normalized,
		Code:      code,
		UserType:  userType,
		ExpiresAt: time.Now().Add(loginOTPTTL),
		IsUsed:    false,
	}

	// Tie the code to an existing account when the phone is already claimed
	if user, err := s.store.GetUserByPhone(normalized); err == nil {
		otp.UserID = user.UserID
		if otp.UserType == "" {
			otp.UserType = user.UserType
		}
	}

	if _, err := s.store.ReplaceLoginOTP(otp); err != nil {
		return nil, err
	}

	s.notifier.SendWhatsApp(normalized, LoginOTPMessage(code))

	return otp, nil
}

// VerifyLoginOTP consumes a login code and returns the matching user,
// creating the account on a first successful phone claim.
func (s *OTPService) VerifyLoginOTP(phone, code string) (*models.User, error) {
	normalized := utils.NormalizePhone(phone)

	otp, err := s.store.GetActiveLoginOTP(normalized, code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, storage.ErrInvalidOTP
		}
		return nil, err
	}

	if time.Now().After(otp.ExpiresAt) {
		return nil, storage.ErrInvalidOTP
	}

	now := time.Now()
	otp.IsUsed = true
	otp.UsedAt = &now
	if err := s.store.UpdateLoginOTP(otp); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByPhone(normalized)
	if errors.Is(err, storage.ErrNotFound) {
		user, err = s.store.CreateUser(&models.User{
			Phone:       normalized,
			UserType:    otp.UserType,
			IsOnboarded: false,
		})
	}
	if err != nil {
		return nil, err
	}

	// Sitter accounts get their profile extension on first login
	if user.IsSitter() {
		if _, err := s.store.GetSitterByUserID(user.UserID); errors.Is(err, storage.ErrNotFound) {
			if _, err := s.store.CreateSitter(&models.Sitter{UserID: user.UserID}); err != nil {
				return nil, err
			}
		}
	}

	return user, nil
}

// IssueServiceOTP generates a START or END code for a booking or
// recurring session and sends it to the owner. Earlier unspent codes
// for the same booking stay valid.
func (s *OTPService) IssueServiceOTP(bookingID, otpType string) (*models.ServiceOTP, models.BookingKind, error) {
	if otpType != models.OTPTypeStart && otpType != models.OTPTypeEnd {
		return nil, "", fmt.Errorf("unknown OTP type %q", otpType)
	}

	code, err := utils.GenerateSecureOTP()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate OTP: %w", err)
	}

	expiresAt := time.Now().Add(loginOTPTTL)
	otp := &models.ServiceOTP{
		Type:      otpType,
		Code:      code,
		ExpiresAt: &expiresAt,
	}

	var kind models.BookingKind
	var ownerID, petID string

	// Regular bookings are probed first; on an identifier collision the
	// regular table wins
	if booking, err := s.store.GetBooking(bookingID); err == nil {
		kind = models.BookingKindRegular
		otp.BookingID = booking.BookingID
		ownerID = booking.OwnerID
		petID = booking.PetID
	} else if session, err := s.store.GetRecurringSession(bookingID); err == nil {
		kind = models.BookingKindRecurring
		otp.SessionID = session.SessionID
		ownerID = session.OwnerID
		petID = session.PetID
	} else {
		return nil, "", storage.ErrNotFound
	}

	if _, err := s.store.CreateServiceOTP(otp); err != nil {
		return nil, "", err
	}

	action := "start"
	if otpType == models.OTPTypeEnd {
		action = "end"
	}
	petName := ""
	if pet, err := s.store.GetPet(petID); err == nil {
		petName = pet.Name
	}
	if owner, err := s.store.GetUserByID(ownerID); err == nil {
		s.notifier.SendWhatsApp(owner.Phone, ServiceOTPMessage(code, action, petName))
	}

	return otp, kind, nil
}
