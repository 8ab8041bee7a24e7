package usecase

import (
	"fmt"

	"court-booking/internal/data/repository"
	"court-booking/pkg/cache"
	"court-booking/pkg/metrics"
	"court-booking/pkg/mq"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Dependencies are the infrastructure collaborators shared by services.
// Nil fields fall back to no-op implementations.
type Dependencies struct {
	Cache     cache.Cache
	Locker    cache.Locker
	Publisher mq.EventPublisher
	Metrics   *metrics.Metrics
}

func (d Dependencies) withDefaults(log *zap.Logger) Dependencies {
	if d.Cache == nil {
		d.Cache = cache.NewNoopCache()
	}
	if d.Locker == nil {
		d.Locker = cache.NewNoopLocker()
	}
	if d.Publisher == nil {
		d.Publisher = mq.NewNoopPublisher(log)
	}
	return d
}

type Service struct {
	Auth         AuthService
	User         UserService
	Court        CourtService
	Availability AvailabilityService
	Booking      BookingService
	Team         TeamService
	Review       ReviewService
}

func NewService(repo *repository.Repository, deps Dependencies, config *utils.Config, log *zap.Logger) *Service {
	deps = deps.withDefaults(log)
	checker := NewConflictChecker(repo.Booking, repo.Availability, deps.Metrics, log)

	return &Service{
		Auth:         NewAuthService(repo, config, log),
		User:         NewUserService(repo.User, repo.Session, log),
		Court:        NewCourtService(repo.Court, deps.Cache, log),
		Availability: NewAvailabilityService(repo, checker, deps.Cache, log),
		Booking:      NewBookingService(repo, checker, deps, log),
		Team:         NewTeamService(repo.Team, log),
		Review:       NewReviewService(repo, log),
	}
}

func parseID(value, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s ID format", label)
	}
	return id, nil
}

func validationError(errs map[string]string) error {
	return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
}

// Actor is the authenticated caller of an operation
type Actor struct {
	ID   uuid.UUID
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == utils.RoleAdmin
}
