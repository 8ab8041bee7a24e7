package entity

import (
	"time"

	"github.com/google/uuid"
)

// CourtAvailability is a recurring weekly window. DayOfWeek follows
// time.Weekday, 0 is Sunday.
type CourtAvailability struct {
	BaseNoDelete
	CourtID     uuid.UUID `db:"court_id"`
	DayOfWeek   int       `db:"day_of_week"`
	StartTime   TimeOfDay `db:"start_time"`
	EndTime     TimeOfDay `db:"end_time"`
	IsAvailable bool      `db:"is_available"`
}

func (a *CourtAvailability) Weekday() time.Weekday {
	return time.Weekday(a.DayOfWeek)
}

func (a *CourtAvailability) Overlaps(start, end TimeOfDay) bool {
	return Overlaps(start, end, a.StartTime, a.EndTime)
}
