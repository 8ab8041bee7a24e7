package response

import (
	"time"

	"court-booking/internal/data/entity"
	"court-booking/pkg/utils"
)

type BookingResponse struct {
	ID          string               `json:"id"`
	UserID      string               `json:"user_id"`
	CourtID     string               `json:"court_id"`
	TeamID      *string              `json:"team_id,omitempty"`
	BookingDate string               `json:"booking_date"`
	StartTime   entity.TimeOfDay     `json:"start_time"`
	EndTime     entity.TimeOfDay     `json:"end_time"`
	Sport       string               `json:"sport"`
	TotalAmount *float64             `json:"total_amount,omitempty"`
	Status      entity.BookingStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	resp := BookingResponse{
		ID:          b.ID.String(),
		UserID:      b.UserID.String(),
		CourtID:     b.CourtID.String(),
		BookingDate: utils.FormatDate(b.BookingDate),
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Sport:       b.Sport,
		TotalAmount: b.TotalAmount,
		Status:      b.Status,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if b.TeamID != nil {
		teamID := b.TeamID.String()
		resp.TeamID = &teamID
	}
	return resp
}

func BookingsToResponse(bookings []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingToResponse(b))
	}
	return out
}
