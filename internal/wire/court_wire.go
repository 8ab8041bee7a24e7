package wire

import (
	"court-booking/internal/adaptor"
	"court-booking/internal/data/repository"
	"court-booking/pkg/middleware"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCourt(
	r chi.Router,
	courtHandler *adaptor.CourtHandler,
	availabilityHandler *adaptor.AvailabilityHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/courts", courtHandler.ListCourts)
	r.Get("/api/courts/{id}", courtHandler.GetCourt)
	r.Get("/api/courts/{id}/availability", availabilityHandler.ListSlots)
	r.Get("/api/courts/{id}/schedule", availabilityHandler.GetDaySchedule)

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(log))

		r.Post("/api/courts/{id}/availability", availabilityHandler.CreateSlot)
		r.Put("/api/courts/{id}/availability", availabilityHandler.UpdateSlot)
		r.Delete("/api/courts/{id}/availability/{slotID}", availabilityHandler.DeleteSlot)
	})

	r.Route("/api/admin/courts", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(log))

		r.Post("/", courtHandler.CreateCourt)
		r.Put("/{id}", courtHandler.UpdateCourt)
		r.Delete("/{id}", courtHandler.DeleteCourt)
	})
}
