package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pawnest/pawnest-backend/internal/config"
	"github.com/pawnest/pawnest-backend/internal/handlers"
	"github.com/pawnest/pawnest-backend/internal/middleware"
	"github.com/pawnest/pawnest-backend/internal/services"
	"github.com/pawnest/pawnest-backend/internal/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, store storage.Store, cfg *config.Config, notifier *services.Notifier) {
	otpService := services.NewOTPService(store, notifier)
	lifecycle := services.NewLifecycleService(store, notifier)

	authHandler := handlers.NewAuthHandler(store, cfg, otpService)
	profileHandler := handlers.NewProfileHandler(store)
	petHandler := handlers.NewPetHandler(store)
	sitterHandler := handlers.NewSitterHandler(store)
	serviceHandler := handlers.NewServiceHandler(store)
	bookingHandler := handlers.NewBookingHandler(store, lifecycle, otpService, notifier)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/otp", authHandler.RequestOTP)
	auth.Post("/verify", authHandler.VerifyOTP)
	auth.Post("/token/verify", authHandler.VerifyToken)

	// Public catalog and sitter directory
	api.Get("/services", serviceHandler.ListServices)
	api.Post("/services", serviceHandler.CreateService)
	api.Put("/services/:id", serviceHandler.UpdateService)

	api.Get("/sitters", sitterHandler.ListSitters)
	api.Get("/sitters/:id", sitterHandler.GetSitter)

	// Booking read APIs keyed by query identifiers
	bookings := api.Group("/bookings")
	bookings.Get("/upcoming", bookingHandler.GetUpcomingBooking)
	bookings.Get("/ongoing", bookingHandler.GetOngoingBookings)
	bookings.Get("/sitter", bookingHandler.GetSitterBookings)

	// Service lifecycle: OTP issue plus start/end transitions
	bookings.Post("/service-otp", bookingHandler.RequestServiceOTP)
	bookings.Post("/start", bookingHandler.StartService)
	bookings.Post("/end", bookingHandler.EndService)

	bookings.Get("/:id", bookingHandler.GetBooking)
	bookings.Put("/:id/confirm", bookingHandler.ConfirmBooking)
	bookings.Put("/:id/cancel", bookingHandler.CancelBooking)
	bookings.Post("/sessions/:id/payment", bookingHandler.MarkSessionPaid)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)
	protected.Put("/sitters/me", sitterHandler.UpdateSitterProfile)

	protected.Post("/pets", petHandler.CreatePet)
	protected.Get("/pets", petHandler.ListPets)
	protected.Get("/pets/:id", petHandler.GetPet)
	protected.Put("/pets/:id", petHandler.UpdatePet)
	protected.Delete("/pets/:id", petHandler.DeletePet)

	protected.Post("/bookings", bookingHandler.CreateBooking)
	protected.Post("/bookings/recurring", bookingHandler.CreateRecurringBooking)
}
