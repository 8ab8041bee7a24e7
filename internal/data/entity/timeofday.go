package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const secondsPerDay = 24 * 60 * 60

// EndOfDay is "24:00", the end of a slot that runs until midnight
const EndOfDay TimeOfDay = secondsPerDay

// TimeOfDay is a wall-clock time stored as seconds since midnight.
// It maps onto a Postgres TIME column.
type TimeOfDay int32

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS", plus "24:00" for midnight
// at the end of the day.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	if value == "24:00" || value == "24:00:00" {
		return EndOfDay, nil
	}

	layout := "15:04"
	if strings.Count(value, ":") == 2 {
		layout = "15:04:05"
	}

	t, err := time.Parse(layout, value)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}

	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second()), nil
}

func MustParseTimeOfDay(value string) TimeOfDay {
	t, err := ParseTimeOfDay(value)
	if err != nil {
		panic(err)
	}
	return t
}

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60 + second)
}

func (t TimeOfDay) Hour() int   { return int(t) / 3600 }
func (t TimeOfDay) Minute() int { return int(t) % 3600 / 60 }
func (t TimeOfDay) Second() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	if t.Second() != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
	}
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// On returns the instant on the given date's calendar day
func (t TimeOfDay) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, date.Location())
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ScanTime implements pgtype.TimeScanner
func (t *TimeOfDay) ScanTime(v pgtype.Time) error {
	if !v.Valid {
		return fmt.Errorf("cannot scan NULL into TimeOfDay")
	}
	seconds := v.Microseconds / int64(time.Second/time.Microsecond)
	if seconds < 0 || seconds > secondsPerDay {
		return fmt.Errorf("time of day out of range: %d", v.Microseconds)
	}
	*t = TimeOfDay(seconds)
	return nil
}

// TimeValue implements pgtype.TimeValuer
func (t TimeOfDay) TimeValue() (pgtype.Time, error) {
	return pgtype.Time{
		Microseconds: int64(t) * int64(time.Second/time.Microsecond),
		Valid:        true,
	}, nil
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) share any instant.
// Back-to-back intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd TimeOfDay) bool {
	return aStart < bEnd && bStart < aEnd
}
