package repository

import (
	"errors"

	"court-booking/pkg/database"

	"go.uber.org/zap"
)

// ErrNotFound marks writes that matched no row
var ErrNotFound = errors.New("not found")

type Repository struct {
	User         UserRepository
	Session      SessionRepository
	Court        CourtRepository
	Availability AvailabilityRepository
	Booking      BookingRepository
	Team         TeamRepository
	Review       ReviewRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:         NewUserRepository(db, log),
		Session:      NewSessionRepository(db, log),
		Court:        NewCourtRepository(db, log),
		Availability: NewAvailabilityRepository(db, log),
		Booking:      NewBookingRepository(db, log),
		Team:         NewTeamRepository(db, log),
		Review:       NewReviewRepository(db, log),
	}
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}
