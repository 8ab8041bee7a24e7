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

type CourtHandler struct {
	service usecase.CourtService
	log     *zap.Logger
}

func NewCourtHandler(service usecase.CourtService, log *zap.Logger) *CourtHandler {
	return &CourtHandler{
		service: service,
		log:     log.With(zap.String("handler", "court")),
	}
}

// ListCourts handles GET /api/courts?sport=&city= (public)
func (h *CourtHandler) ListCourts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.CourtListRequest{
		PaginatedRequest: *paginationFromQuery(r),
		Sport:            query.Get("sport"),
		City:             query.Get("city"),
	}

	courts, err := h.service.ListCourts(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list courts")
		return
	}

	utils.ResponseSuccess(w, "success", courts)
}

// GetCourt handles GET /api/courts/{id} (public)
func (h *CourtHandler) GetCourt(w http.ResponseWriter, r *http.Request) {
	court, err := h.service.GetCourt(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get court")
		return
	}

	utils.ResponseSuccess(w, "success", court)
}

// ==================== ADMIN METHODS ====================

// CreateCourt handles POST /api/admin/courts
func (h *CourtHandler) CreateCourt(w http.ResponseWriter, r *http.Request) {
	var req request.CreateCourtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	court, err := h.service.CreateCourt(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create court")
		return
	}

	utils.ResponseCreated(w, "Court created successfully", court)
}

// UpdateCourt handles PUT /api/admin/courts/{id}
func (h *CourtHandler) UpdateCourt(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateCourtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	court, err := h.service.UpdateCourt(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update court")
		return
	}

	utils.ResponseSuccess(w, "Court updated successfully", court)
}

// DeleteCourt handles DELETE /api/admin/courts/{id}
func (h *CourtHandler) DeleteCourt(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCourt(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete court")
		return
	}

	utils.ResponseSuccess(w, "Court deleted successfully", nil)
}
