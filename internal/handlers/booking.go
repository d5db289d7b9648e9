package handlers

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pawnest/pawnest-backend/internal/middleware"
	"github.com/pawnest/pawnest-backend/internal/models"
	"github.com/pawnest/pawnest-backend/internal/services"
	"github.com/pawnest/pawnest-backend/internal/storage"
)

// Placeholder shown when a booking has no assigned sitter yet
const sitterNotAssigned = "Sitter not assigned"

// BookingHandler handles booking creation, projections, and the
// OTP-gated service lifecycle endpoints
type BookingHandler struct {
	store      storage.Store
	lifecycle  *services.LifecycleService
	otpService *services.OTPService
	notifier   *services.Notifier
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(store storage.Store, lifecycle *services.LifecycleService, otpService *services.OTPService, notifier *services.Notifier) *BookingHandler {
	return &BookingHandler{
		store:      store,
		lifecycle:  lifecycle,
		otpService: otpService,
		notifier:   notifier,
	}
}

// CreateBooking creates a regular booking for the authenticated owner
func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req struct {
		PetID     string `json:"petId"`
		ServiceID string `json:"serviceId"`
		SitterID  string `json:"sitterId"`
		Date      string `json:"date"`
		Time      string `json:"time"`
		Notes     string `json:"notes"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.PetID == "" || req.ServiceID == "" || req.Date == "" || req.Time == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Pet, service, date and time are required",
		})
	}

	pet, err := h.store.GetPet(req.PetID)
	if err != nil || pet.OwnerID != userID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Pet not found",
		})
	}

	svc, err := h.store.GetService(req.ServiceID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Service not found",
		})
	}

	status := models.BookingStatusPending
	if req.SitterID != "" {
		if _, err := h.store.GetSitter(req.SitterID); err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Sitter not found",
			})
		}
		status = models.BookingStatusAssigned
	}

	booking, err := h.store.CreateBooking(&models.Booking{
		OwnerID:         userID,
		PetID:           pet.PetID,
		ServiceID:       svc.ServiceID,
		SitterID:        req.SitterID,
		Date:            req.Date,
		Time:            req.Time,
		DurationMinutes: svc.DurationMinutes,
		Status:          status,
		TotalPrice:      svc.Price,
		Notes:           req.Notes,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create booking",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"booking": booking,
	})
}

// CreateRecurringBooking creates a recurring plan and its sessions
func (h *BookingHandler) CreateRecurringBooking(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req struct {
		PetID       string `json:"petId"`
		ServiceID   string `json:"serviceId"`
		SitterID    string `json:"sitterId"`
		StartDate   string `json:"startDate"`
		Time        string `json:"time"`
		Frequency   string `json:"frequency"`
		Occurrences int    `json:"occurrences"`
		Notes       string `json:"notes"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.PetID == "" || req.ServiceID == "" || req.StartDate == "" || req.Time == "" || req.Occurrences < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Pet, service, start date, time and occurrences are required",
		})
	}

	frequency := strings.ToUpper(req.Frequency)
	if frequency != models.FrequencyDaily && frequency != models.FrequencyWeekly {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Frequency must be DAILY or WEEKLY",
		})
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Start date must be YYYY-MM-DD",
		})
	}

	pet, err := h.store.GetPet(req.PetID)
	if err != nil || pet.OwnerID != userID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Pet not found",
		})
	}

	svc, err := h.store.GetService(req.ServiceID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Service not found",
		})
	}

	plan := &models.RecurringBooking{
		OwnerID:         userID,
		PetID:           pet.PetID,
		ServiceID:       svc.ServiceID,
		SitterID:        req.SitterID,
		StartDate:       req.StartDate,
		Time:            req.Time,
		Frequency:       frequency,
		Occurrences:     req.Occurrences,
		DurationMinutes: svc.DurationMinutes,
		SessionPrice:    svc.Price,
		Notes:           req.Notes,
	}

	step := 24 * time.Hour
	if frequency == models.FrequencyWeekly {
		step = 7 * 24 * time.Hour
	}

	sessions := make([]*models.RecurringSession, 0, req.Occurrences)
	for i := 0; i < req.Occurrences; i++ {
		sessions = append(sessions, &models.RecurringSession{
			OwnerID:        userID,
			PetID:          pet.PetID,
			ServiceID:      svc.ServiceID,
			SitterID:       req.SitterID,
			SessionDate:    startDate.Add(time.Duration(i) * step).Format("2006-01-02"),
			SessionTime:    req.Time,
			SessionPrice:   svc.Price,
			SequenceNumber: i + 1,
		})
	}

	if _, err := h.store.CreateRecurringBooking(plan, sessions); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create recurring booking",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"plan":     plan,
		"sessions": sessions,
	})
}

// GetBooking retrieves one booking or recurring session by ID
func (h *BookingHandler) GetBooking(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Booking ID is required",
		})
	}

	if booking, err := h.store.GetBooking(id); err == nil {
		return c.JSON(h.bookingView(booking))
	}
	if session, err := h.store.GetRecurringSession(id); err == nil {
		return c.JSON(h.sessionView(session))
	}

	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Booking not found",
	})
}

// ConfirmBooking moves a pending booking to CONFIRMED and notifies
// the owner
func (h *BookingHandler) ConfirmBooking(c *fiber.Ctx) error {
	booking, err := h.store.GetBooking(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Booking not found",
		})
	}

	if err := h.store.UpdateBookingStatus(booking.BookingID, models.BookingStatusConfirmed); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to confirm booking",
		})
	}

	if owner, err := h.store.GetUserByID(booking.OwnerID); err == nil {
		h.notifier.SendWhatsApp(owner.Phone, services.BookingConfirmedMessage(booking.BookingID, booking.Date, booking.Time))
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}

// CancelBooking moves an early-state booking to CANCELLED
func (h *BookingHandler) CancelBooking(c *fiber.Ctx) error {
	booking, err := h.store.GetBooking(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Booking not found",
		})
	}

	if !booking.IsCancellable() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Booking can no longer be cancelled",
		})
	}

	if err := h.store.UpdateBookingStatus(booking.BookingID, models.BookingStatusCancelled); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to cancel booking",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}

// RequestServiceOTP issues a START or END code for a booking or
// session and sends it to the owner
func (h *BookingHandler) RequestServiceOTP(c *fiber.Ctx) error {
	var req struct {
		BookingID string `json:"bookingId"`
		Type      string `json:"type"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.BookingID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Booking ID is required",
		})
	}

	otpType := strings.ToUpper(req.Type)
	if otpType == "" {
		otpType = models.OTPTypeStart
	}

	otp, kind, err := h.otpService.IssueServiceOTP(req.BookingID, otpType)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Booking not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to issue OTP",
		})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"bookingType": kind,
		"expiresAt":   otp.ExpiresAt,
	})
}

// StartService verifies a START code and flips the booking to ONGOING
func (h *BookingHandler) StartService(c *fiber.Ctx) error {
	return h.transition(c, h.lifecycle.StartService)
}

// EndService verifies an END code and flips the booking to COMPLETED
func (h *BookingHandler) EndService(c *fiber.Ctx) error {
	return h.transition(c, h.lifecycle.EndService)
}

func (h *BookingHandler) transition(c *fiber.Ctx, op func(string, string) (models.BookingKind, error)) error {
	var req struct {
		BookingID string `json:"bookingId"`
		OTP       string `json:"otp"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.BookingID == "" || req.OTP == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Booking ID and OTP are required",
		})
	}

	kind, err := op(req.BookingID, req.OTP)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Booking not found",
			})
		}
		if errors.Is(err, storage.ErrInvalidOTP) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid or expired OTP",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update service status",
		})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"bookingType": kind,
	})
}

// MarkSessionPaid settles a recurring session's payment and notifies
// the owner
func (h *BookingHandler) MarkSessionPaid(c *fiber.Ctx) error {
	session, err := h.store.GetRecurringSession(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	session.PaymentStatus = models.PaymentStatusPaid
	if err := h.store.UpdateSession(session); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update payment status",
		})
	}

	if owner, err := h.store.GetUserByID(session.OwnerID); err == nil {
		h.notifier.SendWhatsApp(owner.Phone, services.PaymentConfirmedMessage(session.SessionID, session.SessionPrice))
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}

// listItem pairs a projection with its derived date-time sort key
type listItem struct {
	view fiber.Map
	at   time.Time
}

func sortViewsDescending(items []listItem) []fiber.Map {
	sort.Slice(items, func(i, j int) bool {
		return items[i].at.After(items[j].at)
	})
	views := make([]fiber.Map, 0, len(items))
	for _, item := range items {
		views = append(views, item.view)
	}
	return views
}

// GetUpcomingBooking returns the user's next scheduled booking across
// both tables
func (h *BookingHandler) GetUpcomingBooking(c *fiber.Ctx) error {
	userID := c.Query("userId")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "userId is required",
		})
	}

	upcomingStatuses := []string{
		models.BookingStatusUpcoming,
		models.BookingStatusConfirmed,
		models.BookingStatusAssigned,
	}

	var items []listItem
	now := time.Now()

	for _, status := range upcomingStatuses {
		bookings, err := h.store.GetBookingsByOwnerAndStatus(userID, status)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to retrieve bookings",
			})
		}
		for _, b := range bookings {
			if b.ScheduledAt().After(now) {
				items = append(items, listItem{view: h.bookingView(b), at: b.ScheduledAt()})
			}
		}

		sessions, err := h.store.GetSessionsByOwnerAndStatus(userID, status)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to retrieve bookings",
			})
		}
		for _, s := range sessions {
			if s.ScheduledAt().After(now) {
				items = append(items, listItem{view: h.sessionView(s), at: s.ScheduledAt()})
			}
		}
	}

	if len(items) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No upcoming booking found",
		})
	}

	// Soonest first
	sort.Slice(items, func(i, j int) bool {
		return items[i].at.Before(items[j].at)
	})

	return c.JSON(items[0].view)
}

// GetOngoingBookings returns the owner's in-progress bookings across
// both tables, newest first
func (h *BookingHandler) GetOngoingBookings(c *fiber.Ctx) error {
	ownerID := c.Query("ownerId")
	if ownerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "ownerId is required",
		})
	}

	bookings, err := h.store.GetBookingsByOwnerAndStatus(ownerID, models.BookingStatusOngoing)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve bookings",
		})
	}

	sessions, err := h.store.GetSessionsByOwnerAndStatus(ownerID, models.BookingStatusOngoing)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve bookings",
		})
	}

	var items []listItem
	for _, b := range bookings {
		items = append(items, listItem{view: h.bookingView(b), at: b.ScheduledAt()})
	}
	for _, s := range sessions {
		items = append(items, listItem{view: h.sessionView(s), at: s.ScheduledAt()})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"bookings": sortViewsDescending(items),
	})
}

// GetSitterBookings returns the sitter's bookings across both tables.
// Any failure degrades to an empty list so the caller's rendering
// never breaks.
func (h *BookingHandler) GetSitterBookings(c *fiber.Ctx) error {
	userID := c.Query("userId")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "userId is required",
		})
	}

	sitter, err := h.store.GetSitterByUserID(userID)
	if err != nil {
		return c.JSON([]fiber.Map{})
	}

	var items []listItem

	bookings, err := h.store.GetBookingsBySitter(sitter.SitterID)
	if err != nil {
		return c.JSON([]fiber.Map{})
	}
	for _, b := range bookings {
		items = append(items, listItem{view: h.bookingView(b), at: b.ScheduledAt()})
	}

	sessions, err := h.store.GetSessionsBySitter(sitter.SitterID)
	if err != nil {
		return c.JSON([]fiber.Map{})
	}
	for _, s := range sessions {
		items = append(items, listItem{view: h.sessionView(s), at: s.ScheduledAt()})
	}

	return c.JSON(sortViewsDescending(items))
}

// bookingView denormalizes a regular booking for rendering. Missing
// joins degrade to placeholder strings, never null.
func (h *BookingHandler) bookingView(b *models.Booking) fiber.Map {
	view := fiber.Map{
		"bookingId":       b.BookingID,
		"bookingType":     models.BookingKindRegular,
		"date":            b.Date,
		"time":            b.Time,
		"durationMinutes": b.DurationMinutes,
		"status":          b.Status,
		"totalPrice":      b.TotalPrice,
		"notes":           b.Notes,
		"actualStartTime": b.ActualStartTime,
		"actualEndTime":   b.ActualEndTime,
		"petName":         "",
		"serviceName":     "",
		"sitterName":      sitterNotAssigned,
		"ownerName":       "",
	}

	h.fillNames(view, b.PetID, b.ServiceID, b.SitterID, b.OwnerID)
	return view
}

// sessionView denormalizes a recurring session the same way
func (h *BookingHandler) sessionView(s *models.RecurringSession) fiber.Map {
	view := fiber.Map{
		"bookingId":        s.SessionID,
		"bookingType":      models.BookingKindRecurring,
		"date":             s.SessionDate,
		"time":             s.SessionTime,
		"sequenceNumber":   s.SequenceNumber,
		"status":           s.Status,
		"totalPrice":       s.SessionPrice,
		"paymentStatus":    s.PaymentStatus,
		"serviceStartedAt": s.ServiceStartedAt,
		"serviceEndedAt":   s.ServiceEndedAt,
		"petName":          "",
		"serviceName":      "",
		"sitterName":       sitterNotAssigned,
		"ownerName":        "",
	}

	h.fillNames(view, s.PetID, s.ServiceID, s.SitterID, s.OwnerID)
	return view
}

func (h *BookingHandler) fillNames(view fiber.Map, petID, serviceID, sitterID, ownerID string) {
	if pet, err := h.store.GetPet(petID); err == nil {
		view["petName"] = pet.Name
	}
	if svc, err := h.store.GetService(serviceID); err == nil {
		view["serviceName"] = svc.Name
	}
	if sitterID != "" {
		if sitter, err := h.store.GetSitter(sitterID); err == nil {
			if user, err := h.store.GetUserByID(sitter.UserID); err == nil && user.Name != "" {
				view["sitterName"] = user.Name
			}
		}
	}
	if owner, err := h.store.GetUserByID(ownerID); err == nil {
		view["ownerName"] = owner.Name
	}
}
