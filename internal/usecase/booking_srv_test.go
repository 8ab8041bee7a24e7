package usecase

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/pkg/cache"
	"court-booking/pkg/metrics"
	"court-booking/pkg/mq"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type stubLocker struct {
	err      error
	acquired []string
	released int
}

func (l *stubLocker) Acquire(_ context.Context, key string) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	l.acquired = append(l.acquired, key)
	return func() { l.released++ }, nil
}

type bookingFixture struct {
	svc       BookingService
	bookings  *memBookingRepo
	courts    *mockCourtRepo
	users     *mockUserRepo
	teams     *mockTeamRepo
	publisher *mockPublisher
	metrics   *metrics.Metrics
}

func newBookingFixture(t *testing.T, locker cache.Locker, seed ...*entity.Booking) *bookingFixture {
	t.Helper()

	f := &bookingFixture{
		bookings:  newMemBookingRepo(seed...),
		courts:    new(mockCourtRepo),
		users:     new(mockUserRepo),
		teams:     new(mockTeamRepo),
		publisher: new(mockPublisher),
		metrics:   metrics.New("test"),
	}

	for _, id := range []uuid.UUID{courtC1, courtC2} {
		f.courts.On("FindByID", mock.Anything, id).
			Return(&entity.Court{Base: entity.Base{ID: id}, Name: "Court", IsActive: true}, nil).Maybe()
	}
	f.publisher.On("PublishJSON", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	repo := &repository.Repository{
		Booking:      f.bookings,
		Court:        f.courts,
		User:         f.users,
		Team:         f.teams,
		Availability: new(mockAvailabilityRepo),
	}
	checker := NewConflictChecker(f.bookings, repo.Availability, f.metrics, zap.NewNop())
	f.svc = NewBookingService(repo, checker, Dependencies{
		Locker:    locker,
		Publisher: f.publisher,
		Metrics:   f.metrics,
	}, zap.NewNop())

	return f
}

var (
	player = Actor{ID: uuid.MustParse("aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"), Role: utils.RolePlayer}
	admin  = Actor{ID: uuid.MustParse("bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb"), Role: utils.RoleAdmin}
)

func createReq(court uuid.UUID, date, start, end string) *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		CourtID:     court.String(),
		BookingDate: date,
		StartTime:   start,
		EndTime:     end,
		Sport:       "tennis",
	}
}

func TestCreateBooking_AdjacentAndOverlapping(t *testing.T) {
	f := newBookingFixture(t, nil)
	ctx := context.Background()

	a, err := f.svc.CreateBooking(ctx, player, createReq(courtC1, "2025-06-01", "09:00", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusPending, a.Status)

	_, err = f.svc.CreateBooking(ctx, player, createReq(courtC1, "2025-06-01", "09:30", "10:30"))
	assert.ErrorIs(t, err, ErrSlotAlreadyBooked)

	c, err := f.svc.CreateBooking(ctx, player, createReq(courtC1, "2025-06-01", "10:00", "11:00"))
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, c.ID)

	assert.Equal(t, 2, f.bookings.count())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ConflictsTotal.WithLabelValues("booking")))
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.BookingsTotal.WithLabelValues("pending")))
	f.publisher.AssertNumberOfCalls(t, "PublishJSON", 2)
}

func TestCreateBooking_OtherCourtOrDateIsFree(t *testing.T) {
	f := newBookingFixture(t, nil, newBooking(courtC1, day1, "09:00", "10:00", entity.BookingStatusConfirmed))
	ctx := context.Background()

	_, err := f.svc.CreateBooking(ctx, player, createReq(courtC2, "2025-06-01", "09:00", "10:00"))
	assert.NoError(t, err)

	_, err = f.svc.CreateBooking(ctx, player, createReq(courtC1, "2025-06-02", "09:00", "10:00"))
	assert.NoError(t, err)
}

func TestCreateBooking_CancelledDoesNotBlock(t *testing.T) {
	f := newBookingFixture(t, nil, newBooking(courtC1, day1, "09:00", "10:00", entity.BookingStatusCancelled))

	_, err := f.svc.CreateBooking(context.Background(), player, createReq(courtC1, "2025-06-01", "09:00", "10:00"))
	assert.NoError(t, err)
}

func TestCreateBooking_EndsAtMidnight(t *testing.T) {
	f := newBookingFixture(t, nil)
	ctx := context.Background()

	b, err := f.svc.CreateBooking(ctx, player, createReq(courtC1, "2025-06-01", "23:00", "24:00"))
	require.NoError(t, err)
	assert.Equal(t, entity.EndOfDay, b.EndTime)

	_, err = f.svc.CreateBooking(ctx, player, createReq(courtC1, "2025-06-01", "23:30", "24:00"))
	assert.ErrorIs(t, err, ErrSlotAlreadyBooked)

	_, err = f.svc.CreateBooking(ctx, player, createReq(courtC1, "2025-06-02", "00:00", "01:00"))
	assert.NoError(t, err)
}

func TestCreateBooking_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		req     *request.CreateBookingRequest
		wantErr string
	}{
		{"missing fields", &request.CreateBookingRequest{}, "validation failed"},
		{"bad time format", createReq(courtC1, "2025-06-01", "9am", "10:00"), "validation failed"},
		{"bad date format", createReq(courtC1, "01/06/2025", "09:00", "10:00"), "validation failed"},
		{"start equals end", createReq(courtC1, "2025-06-01", "10:00", "10:00"), "invalid time range"},
		{"start after end", createReq(courtC1, "2025-06-01", "11:00", "10:00"), "invalid time range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t, nil)
			_, err := f.svc.CreateBooking(context.Background(), player, tt.req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, 0, f.bookings.count())
		})
	}
}

func TestCreateBooking_InactiveCourt(t *testing.T) {
	f := newBookingFixture(t, nil)
	closed := uuid.New()
	f.courts.On("FindByID", mock.Anything, closed).
		Return(&entity.Court{Base: entity.Base{ID: closed}, IsActive: false}, nil)

	_, err := f.svc.CreateBooking(context.Background(), player, createReq(closed, "2025-06-01", "09:00", "10:00"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCreateBooking_AdminOnBehalfIsConfirmed(t *testing.T) {
	f := newBookingFixture(t, nil)
	f.users.On("FindByID", mock.Anything, player.ID).
		Return(&entity.User{Base: entity.Base{ID: player.ID}}, nil)

	req := createReq(courtC1, "2025-06-01", "09:00", "10:00")
	owner := player.ID.String()
	req.UserID = &owner

	resp, err := f.svc.CreateBooking(context.Background(), admin, req)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, resp.Status)
	assert.Equal(t, player.ID.String(), resp.UserID)
}

func TestCreateBooking_PlayerCannotBookForOthers(t *testing.T) {
	f := newBookingFixture(t, nil)

	req := createReq(courtC1, "2025-06-01", "09:00", "10:00")
	other := uuid.NewString()
	req.UserID = &other

	resp, err := f.svc.CreateBooking(context.Background(), player, req)
	require.NoError(t, err)
	assert.Equal(t, player.ID.String(), resp.UserID)
	f.users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestCreateBooking_TeamMembership(t *testing.T) {
	f := newBookingFixture(t, nil)
	teamID := uuid.New()
	f.teams.On("FindByID", mock.Anything, teamID).
		Return(&entity.Team{BaseNoDelete: entity.BaseNoDelete{ID: teamID}}, nil)
	f.teams.On("IsMember", mock.Anything, teamID, player.ID).Return(false, nil).Once()

	req := createReq(courtC1, "2025-06-01", "09:00", "10:00")
	team := teamID.String()
	req.TeamID = &team

	_, err := f.svc.CreateBooking(context.Background(), player, req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forbidden")

	f.teams.On("IsMember", mock.Anything, teamID, player.ID).Return(true, nil).Once()
	resp, err := f.svc.CreateBooking(context.Background(), player, req)
	require.NoError(t, err)
	require.NotNil(t, resp.TeamID)
	assert.Equal(t, team, *resp.TeamID)
}

func TestCreateBooking_LockBusy(t *testing.T) {
	f := newBookingFixture(t, &stubLocker{err: cache.ErrLockBusy})

	_, err := f.svc.CreateBooking(context.Background(), player, createReq(courtC1, "2025-06-01", "09:00", "10:00"))
	assert.ErrorIs(t, err, ErrSlotBusy)
	assert.Equal(t, 0, f.bookings.count())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.LockWaitsTotal.WithLabelValues("busy")))
}

func TestCreateBooking_LockKeyAndRelease(t *testing.T) {
	locker := &stubLocker{}
	f := newBookingFixture(t, locker)

	_, err := f.svc.CreateBooking(context.Background(), player, createReq(courtC1, "2025-06-01", "09:00", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, []string{cache.BookingLockKey(courtC1, day1)}, locker.acquired)
	assert.Equal(t, 1, locker.released)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.LockWaitsTotal.WithLabelValues("acquired")))
}

func TestCreateBooking_NoopLockerNotCounted(t *testing.T) {
	f := newBookingFixture(t, nil)

	_, err := f.svc.CreateBooking(context.Background(), player, createReq(courtC1, "2025-06-01", "09:00", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, testutil.ToFloat64(f.metrics.LockWaitsTotal.WithLabelValues("acquired")))
}

func TestCreateBooking_ConflictQueryFailure(t *testing.T) {
	f := newBookingFixture(t, nil)
	f.bookings.findErr = errors.New("cannot scan NULL into *entity.TimeOfDay")

	_, err := f.svc.CreateBooking(context.Background(), player, createReq(courtC1, "2025-06-01", "09:00", "10:00"))
	require.ErrorIs(t, err, ErrConflictCheckFailed)
	assert.EqualError(t, err, "failed to check availability")
	assert.Equal(t, 0, f.bookings.count())
}

func TestUpdateBooking_ConflictQueryFailure(t *testing.T) {
	existing := newBooking(courtC1, day1, "09:00", "10:00", entity.BookingStatusConfirmed)
	f := newBookingFixture(t, nil, existing)
	f.bookings.findErr = errors.New(`relation "bookings" not found`)

	start := "11:00"
	end := "12:00"
	_, err := f.svc.UpdateBooking(context.Background(), existing.ID.String(), &request.UpdateBookingRequest{StartTime: &start, EndTime: &end})
	require.ErrorIs(t, err, ErrConflictCheckFailed)
	assert.Equal(t, tod("09:00"), f.bookings.get(existing.ID).StartTime)
}

func TestCreateBooking_PublishFailureIsNotFatal(t *testing.T) {
	f := newBookingFixture(t, nil)
	f.publisher.ExpectedCalls = nil
	f.publisher.On("PublishJSON", mock.Anything, mq.KeyBookingCreated, mock.AnythingOfType("usecase.BookingEvent")).
		Return(errors.New("channel closed"))

	_, err := f.svc.CreateBooking(context.Background(), player, createReq(courtC1, "2025-06-01", "09:00", "10:00"))
	assert.NoError(t, err)
	assert.Equal(t, 1, f.bookings.count())
}

func TestUpdateBooking_ExcludesItself(t *testing.T) {
	x := newBooking(courtC1, day1, "09:00", "10:00", entity.BookingStatusConfirmed)
	f := newBookingFixture(t, nil, x)

	start, end := "09:30", "10:30"
	resp, err := f.svc.UpdateBooking(context.Background(), x.ID.String(), &request.UpdateBookingRequest{
		StartTime: &start,
		EndTime:   &end,
	})
	require.NoError(t, err)
	assert.Equal(t, tod("09:30"), resp.StartTime)
	assert.Equal(t, tod("10:30"), f.bookings.get(x.ID).EndTime)
}

func TestUpdateBooking_IntoConflict(t *testing.T) {
	x := newBooking(courtC1, day1, "09:00", "10:00", entity.BookingStatusConfirmed)
	y := newBooking(courtC1, day1, "11:00", "12:00", entity.BookingStatusPending)
	f := newBookingFixture(t, nil, x, y)

	start := "11:30"
	end := "12:30"
	_, err := f.svc.UpdateBooking(context.Background(), x.ID.String(), &request.UpdateBookingRequest{
		StartTime: &start,
		EndTime:   &end,
	})
	assert.ErrorIs(t, err, ErrSlotAlreadyBooked)
	assert.Equal(t, tod("09:00"), f.bookings.get(x.ID).StartTime)
}

func TestUpdateBooking_MoveToOtherCourt(t *testing.T) {
	x := newBooking(courtC1, day1, "09:00", "10:00", entity.BookingStatusConfirmed)
	blocker := newBooking(courtC2, day1, "09:00", "10:00", entity.BookingStatusConfirmed)
	f := newBookingFixture(t, nil, x, blocker)

	court := courtC2.String()
	_, err := f.svc.UpdateBooking(context.Background(), x.ID.String(), &request.UpdateBookingRequest{CourtID: &court})
	assert.ErrorIs(t, err, ErrSlotAlreadyBooked)

	date := "2025-06-02"
	_, err = f.svc.UpdateBooking(context.Background(), x.ID.String(), &request.UpdateBookingRequest{CourtID: &court, BookingDate: &date})
	require.NoError(t, err)
	assert.Equal(t, courtC2, f.bookings.get(x.ID).CourtID)
}

func TestUpdateBooking_ReactivationChecksConflict(t *testing.T) {
	cancelled := newBooking(courtC1, day1, "09:00", "10:00", entity.BookingStatusCancelled)
	taken := newBooking(courtC1, day1, "09:00", "10:00", entity.BookingStatusConfirmed)
	f := newBookingFixture(t, nil, cancelled, taken)

	status := string(entity.BookingStatusPending)
	_, err := f.svc.UpdateBooking(context.Background(), cancelled.ID.String(), &request.UpdateBookingRequest{Status: &status})
	assert.ErrorIs(t, err, ErrSlotAlreadyBooked)
	assert.Equal(t, entity.BookingStatusCancelled, f.bookings.get(cancelled.ID).Status)
}

func TestUpdateBooking_NonSlotFieldsSkipCheck(t *testing.T) {
	x := newBooking(courtC1, day1, "09:00", "10:00", entity.BookingStatusConfirmed)
	locker := &stubLocker{}
	f := newBookingFixture(t, locker, x)

	sport := "padel"
	resp, err := f.svc.UpdateBooking(context.Background(), x.ID.String(), &request.UpdateBookingRequest{Sport: &sport})
	require.NoError(t, err)
	assert.Equal(t, "padel", resp.Sport)
	assert.Empty(t, locker.acquired)
}

func TestUpdateBooking_Errors(t *testing.T) {
	x := newBooking(courtC1, day1, "09:00", "10:00", entity.BookingStatusConfirmed)
	f := newBookingFixture(t, nil, x)
	ctx := context.Background()

	_, err := f.svc.UpdateBooking(ctx, "not-a-uuid", &request.UpdateBookingRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid booking ID")

	_, err = f.svc.UpdateBooking(ctx, uuid.NewString(), &request.UpdateBookingRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	end := "08:00"
	_, err = f.svc.UpdateBooking(ctx, x.ID.String(), &request.UpdateBookingRequest{EndTime: &end})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid time range")
}

func TestUpdateBookingStatus_Transitions(t *testing.T) {
	tests := []struct {
		from    entity.BookingStatus
		to      entity.BookingStatus
		allowed bool
	}{
		{entity.BookingStatusPending, entity.BookingStatusConfirmed, true},
		{entity.BookingStatusPending, entity.BookingStatusCancelled, true},
		{entity.BookingStatusConfirmed, entity.BookingStatusCompleted, true},
		{entity.BookingStatusConfirmed, entity.BookingStatusCancelled, true},
		{entity.BookingStatusPending, entity.BookingStatusCompleted, false},
		{entity.BookingStatusCancelled, entity.BookingStatusConfirmed, false},
		{entity.BookingStatusCompleted, entity.BookingStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			b := newBooking(courtC1, day1, "09:00", "10:00", tt.from)
			f := newBookingFixture(t, nil, b)

			resp, err := f.svc.UpdateBookingStatus(context.Background(), b.ID.String(),
				&request.UpdateBookingStatusRequest{Status: string(tt.to)})
			if !tt.allowed {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "cannot change booking status")
				assert.Equal(t, tt.from, f.bookings.get(b.ID).Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, resp.Status)
			assert.Equal(t, tt.to, f.bookings.get(b.ID).Status)
			assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StatusChangesTotal.WithLabelValues(string(tt.from), string(tt.to))))
		})
	}
}

func TestCancelOwnBooking(t *testing.T) {
	mine := newBooking(courtC1, day1, "09:00", "10:00", entity.BookingStatusPending)
	mine.UserID = player.ID
	theirs := newBooking(courtC1, day1, "10:00", "11:00", entity.BookingStatusPending)
	f := newBookingFixture(t, nil, mine, theirs)
	ctx := context.Background()

	_, err := f.svc.CancelOwnBooking(ctx, player.ID, theirs.ID.String())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forbidden")

	resp, err := f.svc.CancelOwnBooking(ctx, player.ID, mine.ID.String())
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, resp.Status)

	_, err = f.svc.CancelOwnBooking(ctx, player.ID, mine.ID.String())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot cancel")

	// the freed slot can be booked again
	_, err = f.svc.CreateBooking(ctx, player, createReq(courtC1, "2025-06-01", "09:00", "10:00"))
	assert.NoError(t, err)
}

func TestGetBooking_Access(t *testing.T) {
	b := newBooking(courtC1, day1, "09:00", "10:00", entity.BookingStatusPending)
	f := newBookingFixture(t, nil, b)
	ctx := context.Background()

	_, err := f.svc.GetBooking(ctx, player, b.ID.String())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forbidden")

	resp, err := f.svc.GetBooking(ctx, admin, b.ID.String())
	require.NoError(t, err)
	assert.Equal(t, b.ID.String(), resp.ID)

	owner := Actor{ID: b.UserID, Role: utils.RolePlayer}
	_, err = f.svc.GetBooking(ctx, owner, b.ID.String())
	assert.NoError(t, err)
}

func TestListBookings_Filter(t *testing.T) {
	f := newBookingFixture(t, nil)
	status := entity.BookingStatusConfirmed
	want := repository.BookingFilter{CourtID: &courtC1, Date: &day1, Status: &status}

	rows := []*entity.Booking{newBooking(courtC1, day1, "09:00", "10:00", status)}
	f.bookings.On("FindAll", mock.Anything, want, 20, 20).Return(rows, nil)
	f.bookings.On("Count", mock.Anything, want).Return(int64(21), nil)

	resp, err := f.svc.ListBookings(context.Background(), &request.BookingListRequest{
		PaginatedRequest: request.PaginatedRequest{Page: 2, PerPage: 20},
		CourtID:          courtC1.String(),
		Date:             "2025-06-01",
		Status:           "confirmed",
	})
	require.NoError(t, err)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, int64(21), resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
}

func TestListBookings_InvalidFilter(t *testing.T) {
	f := newBookingFixture(t, nil)

	_, err := f.svc.ListBookings(context.Background(), &request.BookingListRequest{
		PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
		Status:           "archived",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestExportBookings(t *testing.T) {
	f := newBookingFixture(t, nil)
	amount := 150000.0
	first := newBooking(courtC1, day1, "09:00", "10:00", entity.BookingStatusConfirmed)
	first.TotalAmount = &amount
	rows := []*entity.Booking{first, newBooking(courtC1, day1, "10:00", "11:30", entity.BookingStatusPending)}
	f.bookings.On("FindAll", mock.Anything, repository.BookingFilter{}, exportPageSize, 0).Return(rows, nil)

	var buf bytes.Buffer
	n, truncated, err := f.svc.ExportBookings(context.Background(), &request.BookingListRequest{}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, truncated)

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()

	got, err := book.GetRows("Bookings")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Court ID", got[0][1])
	assert.Equal(t, "2025-06-01", got[1][4])
	assert.Equal(t, "11:30", got[2][6])
}

func TestExportBookings_Truncated(t *testing.T) {
	f := newBookingFixture(t, nil)
	f.svc.(*bookingService).exportLimit = 2
	rows := []*entity.Booking{
		newBooking(courtC1, day1, "09:00", "10:00", entity.BookingStatusConfirmed),
		newBooking(courtC1, day1, "10:00", "11:00", entity.BookingStatusConfirmed),
	}
	extra := []*entity.Booking{newBooking(courtC1, day1, "11:00", "12:00", entity.BookingStatusConfirmed)}
	f.bookings.On("FindAll", mock.Anything, repository.BookingFilter{}, 2, 0).Return(rows, nil).Once()
	f.bookings.On("FindAll", mock.Anything, repository.BookingFilter{}, 1, 2).Return(extra, nil).Once()

	var buf bytes.Buffer
	n, truncated, err := f.svc.ExportBookings(context.Background(), &request.BookingListRequest{}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, truncated)
	f.bookings.AssertExpectations(t)
}

func TestExportBookings_ExactlyAtLimit(t *testing.T) {
	f := newBookingFixture(t, nil)
	f.svc.(*bookingService).exportLimit = 2
	rows := []*entity.Booking{
		newBooking(courtC1, day1, "09:00", "10:00", entity.BookingStatusConfirmed),
		newBooking(courtC1, day1, "10:00", "11:00", entity.BookingStatusConfirmed),
	}
	f.bookings.On("FindAll", mock.Anything, repository.BookingFilter{}, 2, 0).Return(rows, nil).Once()
	f.bookings.On("FindAll", mock.Anything, repository.BookingFilter{}, 1, 2).Return([]*entity.Booking{}, nil).Once()

	var buf bytes.Buffer
	n, truncated, err := f.svc.ExportBookings(context.Background(), &request.BookingListRequest{}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, truncated)
}

func TestCompletePastBookings(t *testing.T) {
	f := newBookingFixture(t, nil)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	f.bookings.On("CompletePast", mock.Anything, now).Return(int64(3), nil).Once()

	n, err := f.svc.CompletePastBookings(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, 3.0, testutil.ToFloat64(f.metrics.StatusChangesTotal.WithLabelValues(
		string(entity.BookingStatusConfirmed), string(entity.BookingStatusCompleted))))

	f.bookings.On("CompletePast", mock.Anything, now).Return(int64(0), errors.New("db down")).Once()
	_, err = f.svc.CompletePastBookings(context.Background(), now)
	assert.Error(t, err)
}
