package jobs

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pawnest/pawnest-backend/internal/config"
	"github.com/pawnest/pawnest-backend/internal/services"
	"github.com/pawnest/pawnest-backend/internal/storage"
)

func newTestJob() *NotificationJob {
	notifier := services.NewNotifier(
		services.NewTwilioService(&config.Config{}),
		services.NewEmailService("", "", ""),
		services.NewPushService("", ""),
	)
	return NewNotificationJob(storage.NewMemoryStore(), notifier)
}

func TestStartStop(t *testing.T) {
	job := newTestJob()
	assert.False(t, job.isRunning.Load())

	job.Start()
	assert.True(t, job.isRunning.Load())

	job.Stop()
	assert.False(t, job.isRunning.Load())
}

// TestConcurrentStart tests that racing Start calls leave the job in
// the running state without panicking or double-launching
func TestConcurrentStart(t *testing.T) {
	job := newTestJob()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			job.Start()
		}()
	}
	wg.Wait()

	assert.True(t, job.isRunning.Load())
	job.Stop()
}
