package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// allowed admin transitions, keyed by current status
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCancelled, BookingStatusCompleted},
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// IsActive reports whether a booking in this status occupies its slot
func (s BookingStatus) IsActive() bool {
	return s != BookingStatusCancelled
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Booking struct {
	BaseNoDelete
	UserID      uuid.UUID     `db:"user_id"`
	CourtID     uuid.UUID     `db:"court_id"`
	TeamID      *uuid.UUID    `db:"team_id"`
	BookingDate time.Time     `db:"booking_date"`
	StartTime   TimeOfDay     `db:"start_time"`
	EndTime     TimeOfDay     `db:"end_time"`
	Sport       string        `db:"sport"`
	TotalAmount *float64      `db:"total_amount"`
	Status      BookingStatus `db:"status"`
}

func (b *Booking) Overlaps(start, end TimeOfDay) bool {
	return Overlaps(start, end, b.StartTime, b.EndTime)
}

// EndsAt is the instant the booked slot finishes, in the date's location
func (b *Booking) EndsAt() time.Time {
	return b.EndTime.On(b.BookingDate)
}
