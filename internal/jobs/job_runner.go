package jobs

import (
	"context"
	"time"

	"vehicle-rental-backend/internal/config"
	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/service"
)

// BookingExpirer is the part of the booking service the expiry job drives
type BookingExpirer interface {
	ExpireStaleBookings(ctx context.Context, cutoff time.Time) ([]domain.Booking, error)
}

// UpcomingBookings lists confirmed bookings about to start
type UpcomingBookings interface {
	ListConfirmedStartingBetween(ctx context.Context, from, to time.Time) ([]domain.Booking, error)
}

// UserLookup resolves the lessee a notice is addressed to
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Services holds all dependencies needed by jobs
type Services struct {
	Bookings BookingExpirer
	Upcoming UpcomingBookings
	Users    UserLookup
	Email    service.EmailService
}

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	config   *config.Config
	now      func() time.Time
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		services: services,
		config:   cfg,
		now:      time.Now,
	}
}

// WithClock replaces the runner's clock
func (jr *JobRunner) WithClock(now func() time.Time) *JobRunner {
	jr.now = now
	return jr
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery. The job's context carries a
// logger tagged with the job name.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) (int, error)) {
	log := logger.WithService("jobs").With("job", jobName)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Job panicked", "panic", r)
		}
	}()

	start := time.Now()
	log.Info("Starting job")
	n, err := jobFunc(logger.NewContext(context.Background(), log))
	if err != nil {
		log.Error("Job failed", "processed", n, "error", err)
		return
	}
	log.Info("Job completed", "processed", n, "duration_ms", time.Since(start).Milliseconds())
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.ExpirePendingBookings()
	jr.SendTripReminders()
}
