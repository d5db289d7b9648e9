package storage

import (
	"errors"
	"time"

	"github.com/pawnest/pawnest-backend/internal/models"
)

// Sentinel errors shared by both store implementations. Handlers map
// these to 404/400; everything else becomes a generic 500.
var (
	ErrNotFound   = errors.New("record not found")
	ErrInvalidOTP = errors.New("invalid or expired OTP")
)

// Store defines the interface for storage operations
type Store interface {
	// User operations
	CreateUser(user *models.User) (*models.User, error)
	GetUserByID(userID string) (*models.User, error)
	GetUserByPhone(phone string) (*models.User, error)
	UpdateUser(user *models.User) error

	// Sitter operations
	CreateSitter(sitter *models.Sitter) (*models.Sitter, error)
	GetSitter(sitterID string) (*models.Sitter, error)
	GetSitterByUserID(userID string) (*models.Sitter, error)
	GetAllSitters() ([]*models.Sitter, error)
	UpdateSitter(sitter *models.Sitter) error

	// Pet operations
	CreatePet(pet *models.Pet) (*models.Pet, error)
	GetPet(petID string) (*models.Pet, error)
	GetPetsByOwner(ownerID string) ([]*models.Pet, error)
	UpdatePet(pet *models.Pet) error
	DeletePet(petID string) error

	// Service catalog operations
	CreateService(svc *models.Service) (*models.Service, error)
	GetService(serviceID string) (*models.Service, error)
	GetActiveServices() ([]*models.Service, error)
	UpdateService(svc *models.Service) error

	// Booking operations
	CreateBooking(booking *models.Booking) (*models.Booking, error)
	GetBooking(bookingID string) (*models.Booking, error)
	GetBookingsByOwner(ownerID string) ([]*models.Booking, error)
	GetBookingsByOwnerAndStatus(ownerID, status string) ([]*models.Booking, error)
	GetBookingsBySitter(sitterID string) ([]*models.Booking, error)
	GetBookingsByStatus(status string) ([]*models.Booking, error)
	UpdateBooking(booking *models.Booking) error
	UpdateBookingStatus(bookingID, status string) error

	// Recurring plan and session operations
	CreateRecurringBooking(plan *models.RecurringBooking, sessions []*models.RecurringSession) (*models.RecurringBooking, error)
	GetRecurringSession(sessionID string) (*models.RecurringSession, error)
	GetSessionsByOwner(ownerID string) ([]*models.RecurringSession, error)
	GetSessionsByOwnerAndStatus(ownerID, status string) ([]*models.RecurringSession, error)
	GetSessionsBySitter(sitterID string) ([]*models.RecurringSession, error)
	UpdateSession(session *models.RecurringSession) error

	// Login OTP operations
	ReplaceLoginOTP(otp *models.LoginOTP) (*models.LoginOTP, error)
	GetActiveLoginOTP(phone, code string) (*models.LoginOTP, error)
	UpdateLoginOTP(otp *models.LoginOTP) error
	DeleteExpiredOTPs() error

	// Service OTP operations
	CreateServiceOTP(otp *models.ServiceOTP) (*models.ServiceOTP, error)
	ConsumeServiceOTP(kind models.BookingKind, refID, code, otpType string, now time.Time) error
}
