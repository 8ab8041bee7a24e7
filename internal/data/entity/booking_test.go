package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusTransitions(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{BookingStatusPending, BookingStatusConfirmed, true},
		{BookingStatusPending, BookingStatusCancelled, true},
		{BookingStatusPending, BookingStatusCompleted, false},
		{BookingStatusConfirmed, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusCompleted, true},
		{BookingStatusConfirmed, BookingStatusPending, false},
		{BookingStatusCancelled, BookingStatusConfirmed, false},
		{BookingStatusCompleted, BookingStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestBookingStatusValidAndActive(t *testing.T) {
	assert.True(t, BookingStatusCompleted.Valid())
	assert.False(t, BookingStatus("expired").Valid())

	assert.True(t, BookingStatusPending.IsActive())
	assert.True(t, BookingStatusCompleted.IsActive())
	assert.False(t, BookingStatusCancelled.IsActive())
}

func TestBookingEndsAt(t *testing.T) {
	b := Booking{
		BookingDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		StartTime:   MustParseTimeOfDay("09:00"),
		EndTime:     MustParseTimeOfDay("10:30"),
	}

	assert.Equal(t, time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC), b.EndsAt())
	assert.True(t, b.Overlaps(MustParseTimeOfDay("10:00"), MustParseTimeOfDay("11:00")))
	assert.False(t, b.Overlaps(MustParseTimeOfDay("10:30"), MustParseTimeOfDay("11:00")))
}
