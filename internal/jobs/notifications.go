package jobs

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/pawnest/pawnest-backend/internal/models"
	"github.com/pawnest/pawnest-backend/internal/services"
	"github.com/pawnest/pawnest-backend/internal/storage"
)

// NotificationJob handles scheduled background sweeps: expired OTP
// cleanup and upcoming-booking reminders
type NotificationJob struct {
	store     storage.Store
	notifier  *services.Notifier
	isRunning atomic.Bool
}

// NewNotificationJob creates a new notification job scheduler
func NewNotificationJob(store storage.Store, notifier *services.Notifier) *NotificationJob {
	return &NotificationJob{
		store:    store,
		notifier: notifier,
	}
}

// Start begins all scheduled jobs
func (n *NotificationJob) Start() {
	if !n.isRunning.CompareAndSwap(false, true) {
		log.Println("Notification jobs already running")
		return
	}
	log.Println("Starting scheduled notification jobs...")

	go n.scheduleOTPCleanup()
	go n.scheduleBookingReminders()

	log.Println("All notification jobs started successfully")
}

// Stop halts all scheduled jobs
func (n *NotificationJob) Stop() {
	n.isRunning.Store(false)
	log.Println("Stopping scheduled notification jobs...")
}

// OTP CLEANUP - Runs every hour
func (n *NotificationJob) scheduleOTPCleanup() {
	for n.isRunning.Load() {
		time.Sleep(1 * time.Hour)

		if !n.isRunning.Load() {
			break
		}

		if err := n.store.DeleteExpiredOTPs(); err != nil {
			log.Printf("OTP cleanup failed: %v", err)
			continue
		}
		log.Println("Expired OTPs cleaned up")
	}
}

// BOOKING REMINDERS - Runs every morning at 8 AM
func (n *NotificationJob) scheduleBookingReminders() {
	for n.isRunning.Load() {
		now := time.Now()
		nextRun := time.Date(now.Year(), now.Month(), now.Day(), 8, 0, 0, 0, now.Location())
		if !nextRun.After(now) {
			nextRun = nextRun.Add(24 * time.Hour)
		}

		log.Printf("Next booking reminder sweep scheduled in %v", nextRun.Sub(now))
		time.Sleep(nextRun.Sub(now))

		if !n.isRunning.Load() {
			break
		}

		n.sendBookingReminders()
	}
}

// sendBookingReminders notifies owners about today's confirmed and
// upcoming bookings
func (n *NotificationJob) sendBookingReminders() {
	today := time.Now().Format("2006-01-02")
	count := 0

	for _, status := range []string{models.BookingStatusConfirmed, models.BookingStatusUpcoming, models.BookingStatusAssigned} {
		bookings, err := n.store.GetBookingsByStatus(status)
		if err != nil {
			log.Printf("Reminder sweep failed to load bookings: %v", err)
			return
		}

		for _, booking := range bookings {
			if booking.Date != today {
				continue
			}

			owner, err := n.store.GetUserByID(booking.OwnerID)
			if err != nil {
				continue
			}

			petName := "your pet"
			if pet, err := n.store.GetPet(booking.PetID); err == nil {
				petName = pet.Name
			}

			n.notifier.SendWhatsApp(owner.Phone, services.BookingReminderMessage(petName, booking.Date, booking.Time))
			count++
		}
	}

	log.Printf("Booking reminder sweep complete, %d reminders sent", count)
}
