package wire

import (
	"court-booking/internal/adaptor"
	"court-booking/internal/data/repository"
	"court-booking/pkg/middleware"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireTeam(
	r chi.Router,
	teamHandler *adaptor.TeamHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		r.Post("/api/teams", teamHandler.CreateTeam)
		r.Get("/api/user/teams", teamHandler.GetUserTeams)
		r.Get("/api/teams/{id}", teamHandler.GetTeam)
		r.Post("/api/teams/{id}/join", teamHandler.JoinTeam)
		r.Post("/api/teams/{id}/leave", teamHandler.LeaveTeam)
	})
}
