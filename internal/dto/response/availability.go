package response

import (
	"court-booking/internal/data/entity"
)

type AvailabilityResponse struct {
	ID          string           `json:"id"`
	CourtID     string           `json:"court_id"`
	DayOfWeek   int              `json:"day_of_week"`
	StartTime   entity.TimeOfDay `json:"start_time"`
	EndTime     entity.TimeOfDay `json:"end_time"`
	IsAvailable bool             `json:"is_available"`
}

func AvailabilityToResponse(a *entity.CourtAvailability) AvailabilityResponse {
	return AvailabilityResponse{
		ID:          a.ID.String(),
		CourtID:     a.CourtID.String(),
		DayOfWeek:   a.DayOfWeek,
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
		IsAvailable: a.IsAvailable,
	}
}

func AvailabilitiesToResponse(slots []*entity.CourtAvailability) []AvailabilityResponse {
	out := make([]AvailabilityResponse, 0, len(slots))
	for _, a := range slots {
		out = append(out, AvailabilityToResponse(a))
	}
	return out
}

type BookedInterval struct {
	StartTime entity.TimeOfDay     `json:"start_time"`
	EndTime   entity.TimeOfDay     `json:"end_time"`
	Status    entity.BookingStatus `json:"status"`
}

// DayScheduleResponse is what a player sees before picking a slot
type DayScheduleResponse struct {
	CourtID   string                 `json:"court_id"`
	Date      string                 `json:"date"`
	DayOfWeek int                    `json:"day_of_week"`
	Windows   []AvailabilityResponse `json:"windows"`
	Booked    []BookedInterval       `json:"booked"`
}
