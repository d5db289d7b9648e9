package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/pawnest/pawnest-backend/database"
	"github.com/pawnest/pawnest-backend/internal/config"
	"github.com/pawnest/pawnest-backend/internal/jobs"
	"github.com/pawnest/pawnest-backend/internal/models"
	"github.com/pawnest/pawnest-backend/internal/routes"
	"github.com/pawnest/pawnest-backend/internal/services"
	"github.com/pawnest/pawnest-backend/internal/storage"
)

func main() {
	cfg := config.Load()

	// Initialize storage
	var store storage.Store

	if cfg.UseMemoryStore {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()

		log.Println("🔄 Running database migrations...")
		err := database.DB.AutoMigrate(
			&models.User{},
			&models.Sitter{},
			&models.Pet{},
			&models.Service{},
			&models.Booking{},
			&models.RecurringBooking{},
			&models.RecurringSession{},
			&models.LoginOTP{},
			&models.ServiceOTP{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(database.DB)
		log.Println("✅ Using PostgreSQL database storage")
	}

	// Initialize notification channels
	twilioService := services.NewTwilioService(cfg)
	emailService := services.NewEmailService(cfg.EmailAPIURL, cfg.EmailAPIKey, cfg.EmailFrom)
	pushService := services.NewPushService(cfg.PushAPIURL, cfg.PushAPIKey)
	notifier := services.NewNotifier(twilioService, emailService, pushService)

	// Initialize and start scheduled jobs
	notificationJob := jobs.NewNotificationJob(store, notifier)
	notificationJob.Start()

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "PawNest Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Root endpoint with storage and provider status
	app.Get("/", func(c *fiber.Ctx) error {
		response := fiber.Map{
			"service": "PawNest Backend API",
			"version": "1.0.0",
			"status":  "healthy",
			"storage": getStorageType(cfg),
			"whatsapp": fiber.Map{
				"configured": cfg.TwilioAccountSID != "",
			},
		}

		if !cfg.UseMemoryStore && database.DB != nil {
			sqlDB, err := database.DB.DB()
			dbStatus := "connected"
			if err != nil {
				dbStatus = "error: " + err.Error()
			} else if err := sqlDB.Ping(); err != nil {
				dbStatus = "error: " + err.Error()
			}

			var userCount, sitterCount, bookingCount, sessionCount int64
			database.DB.Model(&models.User{}).Count(&userCount)
			database.DB.Model(&models.Sitter{}).Count(&sitterCount)
			database.DB.Model(&models.Booking{}).Count(&bookingCount)
			database.DB.Model(&models.RecurringSession{}).Count(&sessionCount)

			response["database"] = fiber.Map{
				"status":   dbStatus,
				"users":    userCount,
				"sitters":  sitterCount,
				"bookings": bookingCount,
				"sessions": sessionCount,
			}
		}

		return c.JSON(response)
	})

	// Health check endpoint for monitoring
	app.Get("/health", func(c *fiber.Ctx) error {
		status := "healthy"
		statusCode := 200

		if !cfg.UseMemoryStore && database.DB != nil {
			sqlDB, err := database.DB.DB()
			if err != nil || sqlDB.Ping() != nil {
				status = "unhealthy"
				statusCode = 503
			}
		}

		return c.Status(statusCode).JSON(fiber.Map{
			"status": status,
			"services": fiber.Map{
				"database": status == "healthy",
				"whatsapp": cfg.TwilioAccountSID != "",
			},
		})
	})

	// Setup routes
	routes.SetupRoutes(app, store, cfg, notifier)

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		log.Println("⏹️  Stopping notification jobs...")
		notificationJob.Stop()
		log.Println("⏹️  Shutting down server...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Println("========================================")
	log.Printf("🚀 PawNest Backend starting on port %s", cfg.AppPort)
	log.Printf("📊 Storage: %s", getStorageType(cfg))
	log.Printf("📱 WhatsApp: %s", getWhatsAppStatus(cfg.TwilioAccountSID))
	log.Println("========================================")

	log.Fatal(app.Listen(":" + cfg.AppPort))
}

func getStorageType(cfg *config.Config) string {
	if cfg.UseMemoryStore {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}

func getWhatsAppStatus(twilioSID string) string {
	if twilioSID == "" {
		return "Not configured"
	}
	return "Configured"
}
