package response

import (
	"time"

	"court-booking/internal/data/entity"
)

type CourtResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Sport        string    `json:"sport"`
	Location     string    `json:"location"`
	City         string    `json:"city"`
	Description  *string   `json:"description,omitempty"`
	PricePerHour float64   `json:"price_per_hour"`
	ImageURL     *string   `json:"image_url,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func CourtToResponse(c *entity.Court) CourtResponse {
	return CourtResponse{
		ID:           c.ID.String(),
		Name:         c.Name,
		Sport:        c.Sport,
		Location:     c.Location,
		City:         c.City,
		Description:  c.Description,
		PricePerHour: c.PricePerHour,
		ImageURL:     c.ImageURL,
		IsActive:     c.IsActive,
		CreatedAt:    c.CreatedAt,
	}
}
