package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	JobCompletePastBookings = "complete-past-bookings"
	JobCleanExpiredSessions = "clean-expired-sessions"
	JobCleanRateLimiter     = "clean-rate-limiter"

	cleanSessionsCron    = "0 3 * * *"
	cleanRateLimiterCron = "*/10 * * * *"
)

type BookingCompleter interface {
	CompletePastBookings(ctx context.Context, now time.Time) (int64, error)
}

type SessionCleaner interface {
	CleanExpiredSessions(ctx context.Context) (int64, error)
}

type VisitorCleaner interface {
	Cleanup() int
}

// Jobs are the collaborators of the built-in jobs. A nil field skips its job.
type Jobs struct {
	Bookings     BookingCompleter
	Sessions     SessionCleaner
	RateLimiter  VisitorCleaner
	CompleteCron string
	Now          func() time.Time
}

func (s *Scheduler) RegisterJobs(jobs Jobs) error {
	if jobs.Now == nil {
		jobs.Now = time.Now
	}

	if jobs.Bookings != nil {
		if err := s.AddJob(JobCompletePastBookings, jobs.CompleteCron, completePastBookings(jobs.Bookings, jobs.Now, s.log)); err != nil {
			return fmt.Errorf("register %s: %w", JobCompletePastBookings, err)
		}
	}

	if jobs.Sessions != nil {
		if err := s.AddJob(JobCleanExpiredSessions, cleanSessionsCron, cleanExpiredSessions(jobs.Sessions, s.log)); err != nil {
			return fmt.Errorf("register %s: %w", JobCleanExpiredSessions, err)
		}
	}

	if jobs.RateLimiter != nil {
		if err := s.AddJob(JobCleanRateLimiter, cleanRateLimiterCron, cleanRateLimiter(jobs.RateLimiter, s.log)); err != nil {
			return fmt.Errorf("register %s: %w", JobCleanRateLimiter, err)
		}
	}

	return nil
}

func completePastBookings(bookings BookingCompleter, now func() time.Time, log *zap.Logger) func(context.Context) error {
	return func(ctx context.Context) error {
		count, err := bookings.CompletePastBookings(ctx, now())
		if err != nil {
			return err
		}
		if count > 0 {
			log.Info("Completed past bookings", zap.Int64("count", count))
		}
		return nil
	}
}

func cleanExpiredSessions(sessions SessionCleaner, log *zap.Logger) func(context.Context) error {
	return func(ctx context.Context) error {
		count, err := sessions.CleanExpiredSessions(ctx)
		if err != nil {
			return err
		}
		log.Info("Cleaned expired sessions", zap.Int64("count", count))
		return nil
	}
}

func cleanRateLimiter(limiter VisitorCleaner, log *zap.Logger) func(context.Context) error {
	return func(context.Context) error {
		if removed := limiter.Cleanup(); removed > 0 {
			log.Debug("Dropped idle rate limiter visitors", zap.Int("count", removed))
		}
		return nil
	}
}
