package storage

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pawnest/pawnest-backend/internal/models"
)

// MemoryStore holds all data in memory, used for tests and local runs
// without PostgreSQL
type MemoryStore struct {
	users    map[string]*models.User
	sitters  map[string]*models.Sitter
	pets     map[string]*models.Pet
	services map[string]*models.Service
	bookings map[string]*models.Booking
	plans    map[string]*models.RecurringBooking
	sessions map[string]*models.RecurringSession

	loginOTPs   []*models.LoginOTP
	serviceOTPs []*models.ServiceOTP

	mu        sync.RWMutex
	idCounter uint
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]*models.User),
		sitters:  make(map[string]*models.Sitter),
		pets:     make(map[string]*models.Pet),
		services: make(map[string]*models.Service),
		bookings: make(map[string]*models.Booking),
		plans:    make(map[string]*models.RecurringBooking),
		sessions: make(map[string]*models.RecurringSession),
	}
}

func (m *MemoryStore) nextID() uint {
	m.idCounter++
	return m.idCounter
}

// User operations

func (m *MemoryStore) CreateUser(user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user.UserID == "" {
		user.UserID = uuid.NewString()
	}
	if user.UserType == "" {
		user.UserType = models.UserTypeOwner
	}
	user.IsActive = true
	user.ID = m.nextID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	m.users[user.UserID] = user
	return user, nil
}

func (m *MemoryStore) GetUserByID(userID string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, exists := m.users[userID]
	if !exists || !user.IsActive {
		return nil, ErrNotFound
	}
	return user, nil
}

func (m *MemoryStore) GetUserByPhone(phone string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Phone == phone && user.IsActive {
			return user, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) UpdateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[user.UserID]; !exists {
		return ErrNotFound
	}
	user.UpdatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

// Sitter operations

func (m *MemoryStore) CreateSitter(sitter *models.Sitter) (*models.Sitter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sitter.SitterID == "" {
		sitter.SitterID = uuid.NewString()
	}
	if sitter.Rating == 0 {
		sitter.Rating = 5.0
	}
	sitter.ID = m.nextID()
	sitter.CreatedAt = time.Now()
	sitter.UpdatedAt = time.Now()

	m.sitters[sitter.SitterID] = sitter
	return sitter, nil
}

func (m *MemoryStore) GetSitter(sitterID string) (*models.Sitter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sitter, exists := m.sitters[sitterID]
	if !exists {
		return nil, ErrNotFound
	}
	return sitter, nil
}

func (m *MemoryStore) GetSitterByUserID(userID string) (*models.Sitter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sitter := range m.sitters {
		if sitter.UserID == userID {
			return sitter, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetAllSitters() ([]*models.Sitter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sitters := make([]*models.Sitter, 0, len(m.sitters))
	for _, sitter := range m.sitters {
		sitters = append(sitters, sitter)
	}
	sort.Slice(sitters, func(i, j int) bool {
		return sitters[i].Rating > sitters[j].Rating
	})
	return sitters, nil
}

func (m *MemoryStore) UpdateSitter(sitter *models.Sitter) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sitters[sitter.SitterID]; !exists {
		return ErrNotFound
	}
	sitter.UpdatedAt = time.Now()
	m.sitters[sitter.SitterID] = sitter
	return nil
}

// Pet operations

func (m *MemoryStore) CreatePet(pet *models.Pet) (*models.Pet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if pet.PetID == "" {
		pet.PetID = uuid.NewString()
	}
	pet.ID = m.nextID()
	pet.CreatedAt = time.Now()
	pet.UpdatedAt = time.Now()

	m.pets[pet.PetID] = pet
	return pet, nil
}

func (m *MemoryStore) GetPet(petID string) (*models.Pet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pet, exists := m.pets[petID]
	if !exists {
		return nil, ErrNotFound
	}
	return pet, nil
}

func (m *MemoryStore) GetPetsByOwner(ownerID string) ([]*models.Pet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var pets []*models.Pet
	for _, pet := range m.pets {
		if pet.OwnerID == ownerID {
			pets = append(pets, pet)
		}
	}
	return pets, nil
}

func (m *MemoryStore) UpdatePet(pet *models.Pet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.pets[pet.PetID]; !exists {
		return ErrNotFound
	}
	pet.UpdatedAt = time.Now()
	m.pets[pet.PetID] = pet
	return nil
}

func (m *MemoryStore) DeletePet(petID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.pets[petID]; !exists {
		return ErrNotFound
	}
	delete(m.pets, petID)
	return nil
}

// Service catalog operations

func (m *MemoryStore) CreateService(svc *models.Service) (*models.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if svc.ServiceID == "" {
		svc.ServiceID = uuid.NewString()
	}
	svc.IsActive = true
	svc.ID = m.nextID()
	svc.CreatedAt = time.Now()
	svc.UpdatedAt = time.Now()

	m.services[svc.ServiceID] = svc
	return svc, nil
}

func (m *MemoryStore) GetService(serviceID string) (*models.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	svc, exists := m.services[serviceID]
	if !exists {
		return nil, ErrNotFound
	}
	return svc, nil
}

func (m *MemoryStore) GetActiveServices() ([]*models.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var services []*models.Service
	for _, svc := range m.services {
		if svc.IsActive {
			services = append(services, svc)
		}
	}
	sort.Slice(services, func(i, j int) bool {
		return services[i].Name < services[j].Name
	})
	return services, nil
}

func (m *MemoryStore) UpdateService(svc *models.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.services[svc.ServiceID]; !exists {
		return ErrNotFound
	}
	svc.UpdatedAt = time.Now()
	m.services[svc.ServiceID] = svc
	return nil
}

// Booking operations

func (m *MemoryStore) CreateBooking(booking *models.Booking) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if booking.BookingID == "" {
		booking.BookingID = models.GenerateRecordID("PB")
	}
	if booking.Status == "" {
		booking.Status = models.BookingStatusPending
	}
	booking.ID = m.nextID()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	m.bookings[booking.BookingID] = booking
	return booking, nil
}

func (m *MemoryStore) GetBooking(bookingID string) (*models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	booking, exists := m.bookings[bookingID]
	if !exists {
		return nil, ErrNotFound
	}
	return booking, nil
}

func (m *MemoryStore) GetBookingsByOwner(ownerID string) ([]*models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var bookings []*models.Booking
	for _, b := range m.bookings {
		if b.OwnerID == ownerID {
			bookings = append(bookings, b)
		}
	}
	return bookings, nil
}

func (m *MemoryStore) GetBookingsByOwnerAndStatus(ownerID, status string) ([]*models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var bookings []*models.Booking
	for _, b := range m.bookings {
		if b.OwnerID == ownerID && b.HasStatus(status) {
			bookings = append(bookings, b)
		}
	}
	return bookings, nil
}

func (m *MemoryStore) GetBookingsBySitter(sitterID string) ([]*models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var bookings []*models.Booking
	for _, b := range m.bookings {
		if b.SitterID == sitterID {
			bookings = append(bookings, b)
		}
	}
	return bookings, nil
}

func (m *MemoryStore) GetBookingsByStatus(status string) ([]*models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var bookings []*models.Booking
	for _, b := range m.bookings {
		if b.HasStatus(status) {
			bookings = append(bookings, b)
		}
	}
	return bookings, nil
}

func (m *MemoryStore) UpdateBooking(booking *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.bookings[booking.BookingID]; !exists {
		return ErrNotFound
	}
	booking.UpdatedAt = time.Now()
	m.bookings[booking.BookingID] = booking
	return nil
}

func (m *MemoryStore) UpdateBookingStatus(bookingID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	booking, exists := m.bookings[bookingID]
	if !exists {
		return ErrNotFound
	}
	booking.Status = status
	booking.UpdatedAt = time.Now()
	return nil
}

// Recurring plan and session operations

func (m *MemoryStore) CreateRecurringBooking(plan *models.RecurringBooking, sessions []*models.RecurringSession) (*models.RecurringBooking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if plan.RecurringID == "" {
		plan.RecurringID = models.GenerateRecordID("RP")
	}
	if plan.Status == "" {
		plan.Status = models.BookingStatusPending
	}
	plan.ID = m.nextID()
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = time.Now()
	m.plans[plan.RecurringID] = plan

	for _, s := range sessions {
		if s.SessionID == "" {
			s.SessionID = models.GenerateRecordID("RS")
		}
		if s.Status == "" {
			s.Status = models.BookingStatusPending
		}
		if s.PaymentStatus == "" {
			s.PaymentStatus = models.PaymentStatusPending
		}
		s.RecurringID = plan.RecurringID
		s.ID = m.nextID()
		s.CreatedAt = time.Now()
		s.UpdatedAt = time.Now()
		m.sessions[s.SessionID] = s
	}

	return plan, nil
}

func (m *MemoryStore) GetRecurringSession(sessionID string) (*models.RecurringSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[sessionID]
	if !exists {
		return nil, ErrNotFound
	}
	return session, nil
}

func (m *MemoryStore) GetSessionsByOwner(ownerID string) ([]*models.RecurringSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sessions []*models.RecurringSession
	for _, s := range m.sessions {
		if s.OwnerID == ownerID {
			sessions = append(sessions, s)
		}
	}
	return sessions, nil
}

func (m *MemoryStore) GetSessionsByOwnerAndStatus(ownerID, status string) ([]*models.RecurringSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sessions []*models.RecurringSession
	for _, s := range m.sessions {
		if s.OwnerID == ownerID && s.HasStatus(status) {
			sessions = append(sessions, s)
		}
	}
	return sessions, nil
}

func (m *MemoryStore) GetSessionsBySitter(sitterID string) ([]*models.RecurringSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sessions []*models.RecurringSession
	for _, s := range m.sessions {
		if s.SitterID == sitterID {
			sessions = append(sessions, s)
		}
	}
	return sessions, nil
}

func (m *MemoryStore) UpdateSession(session *models.RecurringSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[session.SessionID]; !exists {
		return ErrNotFound
	}
	session.UpdatedAt = time.Now()
	m.sessions[session.SessionID] = session
	return nil
}

// Login OTP operations

func (m *MemoryStore) ReplaceLoginOTP(otp *models.LoginOTP) (*models.LoginOTP, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// One outstanding code per phone: drop prior rows first
	kept := m.loginOTPs[:0]
	for _, existing := range m.loginOTPs {
		if existing.Phone != otp.Phone {
			kept = append(kept, existing)
		}
	}
	m.loginOTPs = kept

	otp.ID = m.nextID()
	otp.CreatedAt = time.Now()
	otp.UpdatedAt = time.Now()
	m.loginOTPs = append(m.loginOTPs, otp)
	return otp, nil
}

func (m *MemoryStore) GetActiveLoginOTP(phone, code string) (*models.LoginOTP, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, otp := range m.loginOTPs {
		if otp.Phone == phone && otp.Code == code && !otp.IsUsed {
			return otp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) UpdateLoginOTP(otp *models.LoginOTP) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.loginOTPs {
		if existing.ID == otp.ID {
			otp.UpdatedAt = time.Now()
			m.loginOTPs[i] = otp
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) DeleteExpiredOTPs() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()

	kept := m.loginOTPs[:0]
	for _, otp := range m.loginOTPs {
		if otp.ExpiresAt.After(now) {
			kept = append(kept, otp)
		}
	}
	m.loginOTPs = kept

	keptService := m.serviceOTPs[:0]
	for _, otp := range m.serviceOTPs {
		if !otp.IsExpired(now) {
			keptService = append(keptService, otp)
		}
	}
	m.serviceOTPs = keptService

	return nil
}

// Service OTP operations

func (m *MemoryStore) CreateServiceOTP(otp *models.ServiceOTP) (*models.ServiceOTP, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	otp.ID = m.nextID()
	otp.CreatedAt = time.Now()
	otp.UpdatedAt = time.Now()
	m.serviceOTPs = append(m.serviceOTPs, otp)
	return otp, nil
}

// ConsumeServiceOTP validates and consumes the code and flips the
// matched booking or session in one critical section, so two racing
// requests cannot both spend the same code.
func (m *MemoryStore) ConsumeServiceOTP(kind models.BookingKind, refID, code, otpType string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var match *models.ServiceOTP
	for _, otp := range m.serviceOTPs {
		if otp.RefID() != refID || otp.IsUsed || otp.IsExpired(now) {
			continue
		}
		if otp.Code != code || !strings.EqualFold(otp.Type, otpType) {
			continue
		}
		match = otp
		break
	}
	if match == nil {
		return ErrInvalidOTP
	}

	switch kind {
	case models.BookingKindRegular:
		booking, exists := m.bookings[refID]
		if !exists {
			return ErrNotFound
		}
		ts := now
		if otpType == models.OTPTypeStart {
			booking.Status = models.BookingStatusOngoing
			booking.ActualStartTime = &ts
		} else {
			booking.Status = models.BookingStatusCompleted
			booking.ActualEndTime = &ts
		}
		booking.UpdatedAt = now
	case models.BookingKindRecurring:
		session, exists := m.sessions[refID]
		if !exists {
			return ErrNotFound
		}
		ts := now
		if otpType == models.OTPTypeStart {
			session.Status = models.BookingStatusOngoing
			session.ServiceStartedAt = &ts
		} else {
			session.Status = models.BookingStatusCompleted
			session.ServiceEndedAt = &ts
		}
		session.UpdatedAt = now
	default:
		return ErrNotFound
	}

	usedAt := now
	match.IsUsed = true
	match.UsedAt = &usedAt
	match.UpdatedAt = now
	return nil
}
