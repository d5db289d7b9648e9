package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/pawnest/pawnest-backend/internal/models"
)

// DatabaseStore is the PostgreSQL-backed store
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a store backed by the given gorm connection
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func translateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// User operations

func (d *DatabaseStore) CreateUser(user *models.User) (*models.User, error) {
	user.IsActive = true
	if err := d.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (d *DatabaseStore) GetUserByID(userID string) (*models.User, error) {
	var user models.User
	err := d.db.Where("user_id = ? AND is_active = ?", userID, true).First(&user).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

func (d *DatabaseStore) GetUserByPhone(phone string) (*models.User, error) {
	var user models.User
	err := d.db.Where("phone = ? AND is_active = ?", phone, true).First(&user).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

func (d *DatabaseStore) UpdateUser(user *models.User) error {
	return d.db.Save(user).Error
}

// Sitter operations

func (d *DatabaseStore) CreateSitter(sitter *models.Sitter) (*models.Sitter, error) {
	if err := d.db.Create(sitter).Error; err != nil {
		return nil, err
	}
	return sitter, nil
}

func (d *DatabaseStore) GetSitter(sitterID string) (*models.Sitter, error) {
	var sitter models.Sitter
	err := d.db.Where("sitter_id = ?", sitterID).First(&sitter).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &sitter, nil
}

func (d *DatabaseStore) GetSitterByUserID(userID string) (*models.Sitter, error) {
	var sitter models.Sitter
	err := d.db.Where("user_id = ?", userID).First(&sitter).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &sitter, nil
}

func (d *DatabaseStore) GetAllSitters() ([]*models.Sitter, error) {
	var sitters []*models.Sitter
	err := d.db.Order("rating DESC").Find(&sitters).Error
	return sitters, err
}

func (d *DatabaseStore) UpdateSitter(sitter *models.Sitter) error {
	return d.db.Save(sitter).Error
}

// Pet operations

func (d *DatabaseStore) CreatePet(pet *models.Pet) (*models.Pet, error) {
	if err := d.db.Create(pet).Error; err != nil {
		return nil, err
	}
	return pet, nil
}

func (d *DatabaseStore) GetPet(petID string) (*models.Pet, error) {
	var pet models.Pet
	err := d.db.Where("pet_id = ?", petID).First(&pet).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &pet, nil
}

func (d *DatabaseStore) GetPetsByOwner(ownerID string) ([]*models.Pet, error) {
	var pets []*models.Pet
	err := d.db.Where("owner_id = ?", ownerID).Find(&pets).Error
	return pets, err
}

func (d *DatabaseStore) UpdatePet(pet *models.Pet) error {
	return d.db.Save(pet).Error
}

func (d *DatabaseStore) DeletePet(petID string) error {
	result := d.db.Where("pet_id = ?", petID).Delete(&models.Pet{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Service catalog operations

func (d *DatabaseStore) CreateService(svc *models.Service) (*models.Service, error) {
	svc.IsActive = true
	if err := d.db.Create(svc).Error; err != nil {
		return nil, err
	}
	return svc, nil
}

func (d *DatabaseStore) GetService(serviceID string) (*models.Service, error) {
	var svc models.Service
	err := d.db.Where("service_id = ?", serviceID).First(&svc).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &svc, nil
}

func (d *DatabaseStore) GetActiveServices() ([]*models.Service, error) {
	var services []*models.Service
	err := d.db.Where("is_active = ?", true).Order("name ASC").Find(&services).Error
	return services, err
}

func (d *DatabaseStore) UpdateService(svc *models.Service) error {
	return d.db.Save(svc).Error
}

// Booking operations

func (d *DatabaseStore) CreateBooking(booking *models.Booking) (*models.Booking, error) {
	if err := d.db.Create(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

func (d *DatabaseStore) GetBooking(bookingID string) (*models.Booking, error) {
	var booking models.Booking
	err := d.db.Where("booking_id = ?", bookingID).First(&booking).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &booking, nil
}

func (d *DatabaseStore) GetBookingsByOwner(ownerID string) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := d.db.Where("owner_id = ?", ownerID).Find(&bookings).Error
	return bookings, err
}

func (d *DatabaseStore) GetBookingsByOwnerAndStatus(ownerID, status string) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := d.db.Where("owner_id = ? AND UPPER(status) = UPPER(?)", ownerID, status).Find(&bookings).Error
	return bookings, err
}

func (d *DatabaseStore) GetBookingsBySitter(sitterID string) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := d.db.Where("sitter_id = ?", sitterID).Find(&bookings).Error
	return bookings, err
}

func (d *DatabaseStore) GetBookingsByStatus(status string) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := d.db.Where("UPPER(status) = UPPER(?)", status).Find(&bookings).Error
	return bookings, err
}

func (d *DatabaseStore) UpdateBooking(booking *models.Booking) error {
	return d.db.Save(booking).Error
}

func (d *DatabaseStore) UpdateBookingStatus(bookingID, status string) error {
	result := d.db.Model(&models.Booking{}).
		Where("booking_id = ?", bookingID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Recurring plan and session operations

func (d *DatabaseStore) CreateRecurringBooking(plan *models.RecurringBooking, sessions []*models.RecurringSession) (*models.RecurringBooking, error) {
	err := d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(plan).Error; err != nil {
			return err
		}
		for _, session := range sessions {
			session.RecurringID = plan.RecurringID
			if err := tx.Create(session).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (d *DatabaseStore) GetRecurringSession(sessionID string) (*models.RecurringSession, error) {
	var session models.RecurringSession
	err := d.db.Where("session_id = ?", sessionID).First(&session).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &session, nil
}

func (d *DatabaseStore) GetSessionsByOwner(ownerID string) ([]*models.RecurringSession, error) {
	var sessions []*models.RecurringSession
	err := d.db.Where("owner_id = ?", ownerID).Find(&sessions).Error
	return sessions, err
}

func (d *DatabaseStore) GetSessionsByOwnerAndStatus(ownerID, status string) ([]*models.RecurringSession, error) {
	var sessions []*models.RecurringSession
	err := d.db.Where("owner_id = ? AND UPPER(status) = UPPER(?)", ownerID, status).Find(&sessions).Error
	return sessions, err
}

func (d *DatabaseStore) GetSessionsBySitter(sitterID string) ([]*models.RecurringSession, error) {
	var sessions []*models.RecurringSession
	err := d.db.Where("sitter_id = ?", sitterID).Find(&sessions).Error
	return sessions, err
}

func (d *DatabaseStore) UpdateSession(session *models.RecurringSession) error {
	return d.db.Save(session).Error
}

// Login OTP operations

// ReplaceLoginOTP deletes any outstanding codes for the phone and
// inserts the new one in a single transaction
func (d *DatabaseStore) ReplaceLoginOTP(otp *models.LoginOTP) (*models.LoginOTP, error) {
	err := d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("phone = ?", otp.Phone).Delete(&models.LoginOTP{}).Error; err != nil {
			return err
		}
		return tx.Create(otp).Error
	})
	if err != nil {
		return nil, err
	}
	return otp, nil
}

func (d *DatabaseStore) GetActiveLoginOTP(phone, code string) (*models.LoginOTP, error) {
	var otp models.LoginOTP
	err := d.db.Where("phone = ? AND code = ? AND is_used = ?", phone, code, false).First(&otp).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &otp, nil
}

func (d *DatabaseStore) UpdateLoginOTP(otp *models.LoginOTP) error {
	return d.db.Save(otp).Error
}

func (d *DatabaseStore) DeleteExpiredOTPs() error {
	now := time.Now()
	if err := d.db.Unscoped().Where("expires_at < ?", now).Delete(&models.LoginOTP{}).Error; err != nil {
		return err
	}
	return d.db.Unscoped().Where("expires_at IS NOT NULL AND expires_at < ?", now).Delete(&models.ServiceOTP{}).Error
}

// Service OTP operations

func (d *DatabaseStore) CreateServiceOTP(otp *models.ServiceOTP) (*models.ServiceOTP, error) {
	if err := d.db.Create(otp).Error; err != nil {
		return nil, err
	}
	return otp, nil
}

// ConsumeServiceOTP runs the whole verify-consume-transition sequence
// in one transaction. The is_used guard on the consume statement means
// exactly one of two racing requests wins.
func (d *DatabaseStore) ConsumeServiceOTP(kind models.BookingKind, refID, code, otpType string, now time.Time) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		refColumn := "booking_id"
		if kind == models.BookingKindRecurring {
			refColumn = "session_id"
		}

		var otp models.ServiceOTP
		err := tx.Where(refColumn+" = ? AND code = ? AND UPPER(type) = UPPER(?) AND is_used = ?", refID, code, otpType, false).
			Where("expires_at IS NULL OR expires_at > ?", now).
			First(&otp).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidOTP
			}
			return err
		}

		consumed := tx.Model(&models.ServiceOTP{}).
			Where("id = ? AND is_used = ?", otp.ID, false).
			Updates(map[string]interface{}{"is_used": true, "used_at": now})
		if consumed.Error != nil {
			return consumed.Error
		}
		if consumed.RowsAffected == 0 {
			// Lost the race to a concurrent consumer
			return ErrInvalidOTP
		}

		status := models.BookingStatusOngoing
		if otpType == models.OTPTypeEnd {
			status = models.BookingStatusCompleted
		}

		var result *gorm.DB
		if kind == models.BookingKindRegular {
			column := "actual_start_time"
			if otpType == models.OTPTypeEnd {
				column = "actual_end_time"
			}
			result = tx.Model(&models.Booking{}).
				Where("booking_id = ?", refID).
				Updates(map[string]interface{}{"status": status, column: now})
		} else {
			column := "service_started_at"
			if otpType == models.OTPTypeEnd {
				column = "service_ended_at"
			}
			result = tx.Model(&models.RecurringSession{}).
				Where("session_id = ?", refID).
				Updates(map[string]interface{}{"status": status, column: now})
		}
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
