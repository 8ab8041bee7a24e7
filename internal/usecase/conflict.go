package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/pkg/metrics"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Messages are returned verbatim to API clients.
var (
	ErrSlotAlreadyBooked   = errors.New("This time slot is already booked")
	ErrAvailabilityOverlap = errors.New("This time slot overlaps with an existing availability")
	ErrSlotBusy            = errors.New("This time slot is currently being booked, please retry")
)

// ErrConflictCheckFailed hides the storage error behind a fixed message.
// The cause is logged where it happens.
var ErrConflictCheckFailed = errors.New("failed to check availability")

const (
	conflictKindBooking      = "booking"
	conflictKindAvailability = "availability"
)

// ConflictChecker answers whether a proposed [start, end) interval collides
// with an existing one. A query failure is returned as an error, never as
// "no conflict".
type ConflictChecker interface {
	HasBookingConflict(ctx context.Context, courtID uuid.UUID, date time.Time, start, end entity.TimeOfDay, excludeID *uuid.UUID) (bool, error)
	HasAvailabilityConflict(ctx context.Context, courtID uuid.UUID, dayOfWeek int, start, end entity.TimeOfDay, excludeID *uuid.UUID) (bool, error)
}

type conflictChecker struct {
	bookings repository.BookingRepository
	slots    repository.AvailabilityRepository
	metrics  *metrics.Metrics
	log      *zap.Logger
}

func NewConflictChecker(
	bookings repository.BookingRepository,
	slots repository.AvailabilityRepository,
	m *metrics.Metrics,
	log *zap.Logger,
) ConflictChecker {
	return &conflictChecker{
		bookings: bookings,
		slots:    slots,
		metrics:  m,
		log:      log.With(zap.String("service", "conflict")),
	}
}

func (c *conflictChecker) HasBookingConflict(ctx context.Context, courtID uuid.UUID, date time.Time, start, end entity.TimeOfDay, excludeID *uuid.UUID) (bool, error) {
	candidates, err := c.bookings.FindActiveByCourtAndDate(ctx, courtID, date, excludeID)
	if err != nil {
		return false, fmt.Errorf("fetch bookings for conflict check: %w", err)
	}

	for _, existing := range candidates {
		// skip cancelled rows and the excluded booking even if the query returned them
		if !existing.Status.IsActive() || (excludeID != nil && existing.ID == *excludeID) {
			continue
		}
		if existing.Overlaps(start, end) {
			c.metrics.IncConflict(conflictKindBooking)
			c.log.Warn("Booking conflict",
				zap.String("court_id", courtID.String()),
				zap.String("date", utils.FormatDate(date)),
				zap.Stringer("start", start),
				zap.Stringer("end", end),
				zap.String("conflicts_with", existing.ID.String()),
			)
			return true, nil
		}
	}

	return false, nil
}

func (c *conflictChecker) HasAvailabilityConflict(ctx context.Context, courtID uuid.UUID, dayOfWeek int, start, end entity.TimeOfDay, excludeID *uuid.UUID) (bool, error) {
	candidates, err := c.slots.FindByCourtAndDay(ctx, courtID, dayOfWeek, excludeID)
	if err != nil {
		return false, fmt.Errorf("fetch availability for conflict check: %w", err)
	}

	for _, existing := range candidates {
		if excludeID != nil && existing.ID == *excludeID {
			continue
		}
		if existing.Overlaps(start, end) {
			c.metrics.IncConflict(conflictKindAvailability)
			c.log.Warn("Availability overlap",
				zap.String("court_id", courtID.String()),
				zap.Int("day_of_week", dayOfWeek),
				zap.Stringer("start", start),
				zap.Stringer("end", end),
				zap.String("conflicts_with", existing.ID.String()),
			)
			return true, nil
		}
	}

	return false, nil
}
