package request

type CreateCourtRequest struct {
	Name         string  `json:"name" validate:"required,min=2,max=100"`
	Sport        string  `json:"sport" validate:"required,max=50"`
	Location     string  `json:"location" validate:"required,max=255"`
	City         string  `json:"city" validate:"required,max=100"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	PricePerHour float64 `json:"price_per_hour" validate:"min=0"`
	ImageURL     *string `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

type UpdateCourtRequest struct {
	Name         *string  `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Sport        *string  `json:"sport,omitempty" validate:"omitempty,max=50"`
	Location     *string  `json:"location,omitempty" validate:"omitempty,max=255"`
	City         *string  `json:"city,omitempty" validate:"omitempty,max=100"`
	Description  *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	PricePerHour *float64 `json:"price_per_hour,omitempty" validate:"omitempty,min=0"`
	ImageURL     *string  `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive     *bool    `json:"is_active,omitempty"`
}

type CourtListRequest struct {
	PaginatedRequest
	Sport string
	City  string
}
