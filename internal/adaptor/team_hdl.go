package adaptor

import (
	"encoding/json"
	"net/http"

	"court-booking/internal/dto/request"
	"court-booking/internal/usecase"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TeamHandler struct {
	service usecase.TeamService
	log     *zap.Logger
}

func NewTeamHandler(service usecase.TeamService, log *zap.Logger) *TeamHandler {
	return &TeamHandler{
		service: service,
		log:     log.With(zap.String("handler", "team")),
	}
}

// CreateTeam handles POST /api/teams (protected)
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	team, err := h.service.CreateTeam(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create team")
		return
	}

	utils.ResponseCreated(w, "Team created successfully", team)
}

// GetTeam handles GET /api/teams/{id} (protected)
func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.service.GetTeam(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get team")
		return
	}

	utils.ResponseSuccess(w, "success", team)
}

// GetUserTeams handles GET /api/user/teams (protected)
func (h *TeamHandler) GetUserTeams(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	teams, err := h.service.GetUserTeams(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get user teams")
		return
	}

	utils.ResponseSuccess(w, "success", teams)
}

// JoinTeam handles POST /api/teams/{id}/join (protected)
func (h *TeamHandler) JoinTeam(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	team, err := h.service.JoinTeam(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "join team")
		return
	}

	utils.ResponseSuccess(w, "Joined team successfully", team)
}

// LeaveTeam handles POST /api/teams/{id}/leave (protected)
func (h *TeamHandler) LeaveTeam(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.LeaveTeam(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "leave team")
		return
	}

	utils.ResponseSuccess(w, "Left team successfully", nil)
}
