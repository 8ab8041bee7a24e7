package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/pkg/metrics"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	courtC1 = uuid.MustParse("11111111-1111-4111-8111-111111111111")
	courtC2 = uuid.MustParse("22222222-2222-4222-8222-222222222222")
	day1    = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	day2    = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
)

func tod(s string) entity.TimeOfDay {
	return entity.MustParseTimeOfDay(s)
}

func newBooking(court uuid.UUID, date time.Time, start, end string, status entity.BookingStatus) *entity.Booking {
	return &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
		UserID:       uuid.New(),
		CourtID:      court,
		BookingDate:  date,
		StartTime:    tod(start),
		EndTime:      tod(end),
		Sport:        "tennis",
		Status:       status,
	}
}

func newTestChecker(bookings *memBookingRepo) ConflictChecker {
	return NewConflictChecker(bookings, new(mockAvailabilityRepo), nil, zap.NewNop())
}

func TestHasBookingConflict_IntervalRules(t *testing.T) {
	tests := []struct {
		name     string
		existing [2]string
		proposed [2]string
		want     bool
	}{
		{"back to back after existing", [2]string{"09:00", "10:00"}, [2]string{"10:00", "11:00"}, false},
		{"back to back before existing", [2]string{"10:00", "11:00"}, [2]string{"09:00", "10:00"}, false},
		{"disjoint", [2]string{"09:00", "10:00"}, [2]string{"15:00", "16:00"}, false},
		{"partial overlap", [2]string{"09:00", "11:00"}, [2]string{"10:00", "12:00"}, true},
		{"partial overlap on the left", [2]string{"10:00", "12:00"}, [2]string{"09:00", "11:00"}, true},
		{"proposed contained", [2]string{"09:00", "12:00"}, [2]string{"10:00", "11:00"}, true},
		{"proposed contains existing", [2]string{"10:00", "11:00"}, [2]string{"09:00", "12:00"}, true},
		{"identical", [2]string{"09:00", "10:00"}, [2]string{"09:00", "10:00"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemBookingRepo(newBooking(courtC1, day1, tt.existing[0], tt.existing[1], entity.BookingStatusConfirmed))
			checker := newTestChecker(repo)

			got, err := checker.HasBookingConflict(context.Background(), courtC1, day1, tod(tt.proposed[0]), tod(tt.proposed[1]), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasBookingConflict_ExhaustiveHalfOpen(t *testing.T) {
	// every pair of hour-aligned intervals inside 08:00-12:00
	hours := []string{"08:00", "09:00", "10:00", "11:00", "12:00"}
	ctx := context.Background()

	for i := 0; i < len(hours); i++ {
		for j := i + 1; j < len(hours); j++ {
			for k := 0; k < len(hours); k++ {
				for l := k + 1; l < len(hours); l++ {
					s1, e1 := tod(hours[i]), tod(hours[j])
					s2, e2 := tod(hours[k]), tod(hours[l])

					repo := newMemBookingRepo(newBooking(courtC1, day1, hours[i], hours[j], entity.BookingStatusPending))
					got, err := newTestChecker(repo).HasBookingConflict(ctx, courtC1, day1, s2, e2, nil)
					require.NoError(t, err)

					want := s1 < e2 && s2 < e1
					assert.Equal(t, want, got, "[%s,%s) vs [%s,%s)", s1, e1, s2, e2)
				}
			}
		}
	}
}

func TestHasBookingConflict_StatusRules(t *testing.T) {
	ctx := context.Background()

	for _, status := range []entity.BookingStatus{
		entity.BookingStatusPending,
		entity.BookingStatusConfirmed,
		entity.BookingStatusCompleted,
	} {
		t.Run(string(status)+" blocks the slot", func(t *testing.T) {
			repo := newMemBookingRepo(newBooking(courtC1, day1, "09:00", "10:00", status))
			got, err := newTestChecker(repo).HasBookingConflict(ctx, courtC1, day1, tod("09:00"), tod("10:00"), nil)
			require.NoError(t, err)
			assert.True(t, got)
		})
	}

	t.Run("cancelled is ignored", func(t *testing.T) {
		repo := newMemBookingRepo(newBooking(courtC1, day1, "09:00", "10:00", entity.BookingStatusCancelled))
		got, err := newTestChecker(repo).HasBookingConflict(ctx, courtC1, day1, tod("09:00"), tod("10:00"), nil)
		require.NoError(t, err)
		assert.False(t, got)
	})
}

func TestHasBookingConflict_SelfExclusion(t *testing.T) {
	ctx := context.Background()
	self := newBooking(courtC1, day1, "09:00", "10:00", entity.BookingStatusConfirmed)
	repo := newMemBookingRepo(self)
	checker := newTestChecker(repo)

	// moving X to 09:30-10:30 only overlaps its own previous interval
	got, err := checker.HasBookingConflict(ctx, courtC1, day1, tod("09:30"), tod("10:30"), &self.ID)
	require.NoError(t, err)
	assert.False(t, got)

	// without the exclusion it would collide with itself
	got, err = checker.HasBookingConflict(ctx, courtC1, day1, tod("09:30"), tod("10:30"), nil)
	require.NoError(t, err)
	assert.True(t, got)

	// exclusion only removes that one booking
	other := newBooking(courtC1, day1, "10:00", "11:00", entity.BookingStatusPending)
	require.NoError(t, repo.Create(ctx, other))
	got, err = checker.HasBookingConflict(ctx, courtC1, day1, tod("09:30"), tod("10:30"), &self.ID)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestHasBookingConflict_CourtAndDateIsolation(t *testing.T) {
	ctx := context.Background()
	repo := newMemBookingRepo(newBooking(courtC1, day1, "09:00", "10:00", entity.BookingStatusConfirmed))
	checker := newTestChecker(repo)

	got, err := checker.HasBookingConflict(ctx, courtC2, day1, tod("09:00"), tod("10:00"), nil)
	require.NoError(t, err)
	assert.False(t, got, "different court")

	got, err = checker.HasBookingConflict(ctx, courtC1, day2, tod("09:00"), tod("10:00"), nil)
	require.NoError(t, err)
	assert.False(t, got, "different date")
}

func TestHasBookingConflict_QueryFailure(t *testing.T) {
	repo := new(mockBookingRepo)
	dbErr := errors.New("connection refused")
	repo.On("FindActiveByCourtAndDate", mock.Anything, courtC1, day1, (*uuid.UUID)(nil)).Return(nil, dbErr)

	checker := NewConflictChecker(repo, new(mockAvailabilityRepo), nil, zap.NewNop())
	got, err := checker.HasBookingConflict(context.Background(), courtC1, day1, tod("09:00"), tod("10:00"), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	assert.False(t, got)
	repo.AssertExpectations(t)
}

func TestHasBookingConflict_CountsMetric(t *testing.T) {
	m := metrics.New("test")
	repo := newMemBookingRepo(newBooking(courtC1, day1, "09:00", "10:00", entity.BookingStatusConfirmed))
	checker := NewConflictChecker(repo, new(mockAvailabilityRepo), m, zap.NewNop())

	_, err := checker.HasBookingConflict(context.Background(), courtC1, day1, tod("09:30"), tod("10:30"), nil)
	require.NoError(t, err)
	_, err = checker.HasBookingConflict(context.Background(), courtC1, day1, tod("10:00"), tod("11:00"), nil)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConflictsTotal.WithLabelValues("booking")))
}

func TestHasAvailabilityConflict(t *testing.T) {
	ctx := context.Background()
	existing := &entity.CourtAvailability{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
		CourtID:      courtC1,
		DayOfWeek:    1,
		StartTime:    tod("08:00"),
		EndTime:      tod("12:00"),
		IsAvailable:  true,
	}

	tests := []struct {
		name      string
		start     string
		end       string
		excludeID *uuid.UUID
		want      bool
	}{
		{"adjacent after", "12:00", "14:00", nil, false},
		{"adjacent before", "06:00", "08:00", nil, false},
		{"overlap", "11:00", "13:00", nil, true},
		{"inside", "09:00", "10:00", nil, true},
		{"self excluded", "09:00", "13:00", &existing.ID, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := new(mockAvailabilityRepo)
			candidates := []*entity.CourtAvailability{existing}
			if tt.excludeID != nil {
				candidates = nil
			}
			slots.On("FindByCourtAndDay", mock.Anything, courtC1, 1, tt.excludeID).Return(candidates, nil)

			checker := NewConflictChecker(new(mockBookingRepo), slots, nil, zap.NewNop())
			got, err := checker.HasAvailabilityConflict(ctx, courtC1, 1, tod(tt.start), tod(tt.end), tt.excludeID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			slots.AssertExpectations(t)
		})
	}
}

func TestHasAvailabilityConflict_QueryFailure(t *testing.T) {
	slots := new(mockAvailabilityRepo)
	slots.On("FindByCourtAndDay", mock.Anything, courtC1, 3, (*uuid.UUID)(nil)).Return(nil, errors.New("timeout"))

	checker := NewConflictChecker(new(mockBookingRepo), slots, nil, zap.NewNop())
	got, err := checker.HasAvailabilityConflict(context.Background(), courtC1, 3, tod("09:00"), tod("10:00"), nil)

	assert.Error(t, err)
	assert.False(t, got)
}
