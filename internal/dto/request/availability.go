package request

type CreateAvailabilityRequest struct {
	DayOfWeek   *int   `json:"day_of_week" validate:"required,min=0,max=6"`
	StartTime   string `json:"start_time" validate:"required,timeofday"`
	EndTime     string `json:"end_time" validate:"required,timeofday"`
	IsAvailable *bool  `json:"is_available,omitempty"`
}

// UpdateAvailabilityRequest carries the slot id in the body
type UpdateAvailabilityRequest struct {
	ID          string  `json:"id" validate:"required,uuid"`
	DayOfWeek   *int    `json:"day_of_week,omitempty" validate:"omitempty,min=0,max=6"`
	StartTime   *string `json:"start_time,omitempty" validate:"omitempty,timeofday"`
	EndTime     *string `json:"end_time,omitempty" validate:"omitempty,timeofday"`
	IsAvailable *bool   `json:"is_available,omitempty"`
}
