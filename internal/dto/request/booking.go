package request

type CreateBookingRequest struct {
	CourtID     string   `json:"court_id" validate:"required,uuid"`
	BookingDate string   `json:"booking_date" validate:"required,datetime=2006-01-02"`
	StartTime   string   `json:"start_time" validate:"required,timeofday"`
	EndTime     string   `json:"end_time" validate:"required,timeofday"`
	Sport       string   `json:"sport" validate:"required,max=50"`
	TeamID      *string  `json:"team_id,omitempty" validate:"omitempty,uuid"`
	TotalAmount *float64 `json:"total_amount,omitempty" validate:"omitempty,min=0"`

	// honoured for admins only
	UserID *string `json:"user_id,omitempty" validate:"omitempty,uuid"`
}

// UpdateBookingRequest is a partial update, nil fields keep their stored value
type UpdateBookingRequest struct {
	CourtID     *string  `json:"court_id,omitempty" validate:"omitempty,uuid"`
	BookingDate *string  `json:"booking_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartTime   *string  `json:"start_time,omitempty" validate:"omitempty,timeofday"`
	EndTime     *string  `json:"end_time,omitempty" validate:"omitempty,timeofday"`
	Sport       *string  `json:"sport,omitempty" validate:"omitempty,max=50"`
	TeamID      *string  `json:"team_id,omitempty" validate:"omitempty,uuid"`
	TotalAmount *float64 `json:"total_amount,omitempty" validate:"omitempty,min=0"`
	Status      *string  `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed cancelled completed"`
}

// TouchesSlot reports whether the update moves the booked interval
func (r *UpdateBookingRequest) TouchesSlot() bool {
	return r.CourtID != nil || r.BookingDate != nil || r.StartTime != nil || r.EndTime != nil
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

// BookingListRequest is read from the query string of admin listings
type BookingListRequest struct {
	PaginatedRequest
	CourtID string `validate:"omitempty,uuid"`
	UserID  string `validate:"omitempty,uuid"`
	Date    string `validate:"omitempty,datetime=2006-01-02"`
	Status  string `validate:"omitempty,oneof=pending confirmed cancelled completed"`
}
