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

type AvailabilityHandler struct {
	service usecase.AvailabilityService
	log     *zap.Logger
}

func NewAvailabilityHandler(service usecase.AvailabilityService, log *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log.With(zap.String("handler", "availability")),
	}
}

// ListSlots handles GET /api/courts/{id}/availability (public)
func (h *AvailabilityHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.service.ListSlots(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "list availability")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}

// GetDaySchedule handles GET /api/courts/{id}/schedule?date=YYYY-MM-DD (public)
func (h *AvailabilityHandler) GetDaySchedule(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		utils.ResponseBadRequest(w, "Query parameter date is required", nil)
		return
	}

	schedule, err := h.service.GetDaySchedule(r.Context(), chi.URLParam(r, "id"), date)
	if err != nil {
		handleServiceError(w, h.log, err, "get schedule")
		return
	}

	utils.ResponseSuccess(w, "success", schedule)
}

// ==================== ADMIN METHODS ====================

// CreateSlot handles POST /api/courts/{id}/availability
func (h *AvailabilityHandler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	var req request.CreateAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	slot, err := h.service.CreateSlot(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create availability")
		return
	}

	utils.ResponseCreated(w, "Availability created successfully", slot)
}

// UpdateSlot handles PUT /api/courts/{id}/availability, the slot id is in the body
func (h *AvailabilityHandler) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	slot, err := h.service.UpdateSlot(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update availability")
		return
	}

	utils.ResponseSuccess(w, "Availability updated successfully", slot)
}

// DeleteSlot handles DELETE /api/courts/{id}/availability/{slotID}
func (h *AvailabilityHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSlot(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "slotID")); err != nil {
		handleServiceError(w, h.log, err, "delete availability")
		return
	}

	utils.ResponseSuccess(w, "Availability deleted successfully", nil)
}
