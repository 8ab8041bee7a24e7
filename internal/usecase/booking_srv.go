package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/pkg/cache"
	"court-booking/pkg/export"
	"court-booking/pkg/metrics"
	"court-booking/pkg/mq"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	exportPageSize = 500
	exportMaxRows  = 10000
)

type BookingService interface {
	// Player endpoints
	CreateBooking(ctx context.Context, actor Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetBooking(ctx context.Context, actor Actor, bookingID string) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	CancelOwnBooking(ctx context.Context, userID uuid.UUID, bookingID string) (*response.BookingResponse, error)

	// Admin endpoints
	UpdateBooking(ctx context.Context, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error)
	UpdateBookingStatus(ctx context.Context, bookingID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error)
	ListBookings(ctx context.Context, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	// ExportBookings reports the number of rows written and whether more
	// bookings matched than the export cap allows.
	ExportBookings(ctx context.Context, req *request.BookingListRequest, w io.Writer) (int, bool, error)

	// Scheduled
	CompletePastBookings(ctx context.Context, now time.Time) (int64, error)
}

// BookingEvent is the payload published on booking.* routing keys
type BookingEvent struct {
	BookingID      string               `json:"booking_id"`
	UserID         string               `json:"user_id"`
	CourtID        string               `json:"court_id"`
	BookingDate    string               `json:"booking_date"`
	StartTime      entity.TimeOfDay     `json:"start_time"`
	EndTime        entity.TimeOfDay     `json:"end_time"`
	Status         entity.BookingStatus `json:"status"`
	PreviousStatus entity.BookingStatus `json:"previous_status,omitempty"`
	OccurredAt     time.Time            `json:"occurred_at"`
}

type bookingService struct {
	repo      *repository.Repository
	checker   ConflictChecker
	locker    cache.Locker
	publisher mq.EventPublisher
	metrics   *metrics.Metrics
	log       *zap.Logger

	exportLimit int
}

func NewBookingService(repo *repository.Repository, checker ConflictChecker, deps Dependencies, log *zap.Logger) BookingService {
	deps = deps.withDefaults(log)
	return &bookingService{
		repo:      repo,
		checker:   checker,
		locker:    deps.Locker,
		publisher: deps.Publisher,
		metrics:   deps.Metrics,
		log:       log.With(zap.String("service", "booking")),

		exportLimit: exportMaxRows,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, actor Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	courtID, err := parseID(req.CourtID, "court")
	if err != nil {
		return nil, err
	}
	date, err := utils.ParseDate(req.BookingDate)
	if err != nil {
		return nil, err
	}
	start, end, err := parseInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	if err := s.ensureCourtBookable(ctx, courtID); err != nil {
		return nil, err
	}

	ownerID, err := s.resolveOwner(ctx, actor, req.UserID)
	if err != nil {
		return nil, err
	}

	var teamID *uuid.UUID
	if req.TeamID != nil {
		id, err := s.resolveTeam(ctx, actor, *req.TeamID)
		if err != nil {
			return nil, err
		}
		teamID = &id
	}

	release, err := s.acquireSlot(ctx, courtID, date)
	if err != nil {
		return nil, err
	}
	defer release()

	conflict, err := s.checker.HasBookingConflict(ctx, courtID, date, start, end, nil)
	if err != nil {
		s.log.Error("Conflict check failed", zap.Error(err), zap.String("court_id", courtID.String()))
		return nil, ErrConflictCheckFailed
	}
	if conflict {
		return nil, ErrSlotAlreadyBooked
	}

	status := entity.BookingStatusPending
	if actor.IsAdmin() {
		status = entity.BookingStatusConfirmed
	}

	now := time.Now()
	booking := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:      ownerID,
		CourtID:     courtID,
		TeamID:      teamID,
		BookingDate: date,
		StartTime:   start,
		EndTime:     end,
		Sport:       req.Sport,
		TotalAmount: req.TotalAmount,
		Status:      status,
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		s.log.Error("Failed to create booking", zap.Error(err), zap.String("court_id", courtID.String()))
		return nil, fmt.Errorf("failed to create booking")
	}

	s.metrics.IncBookingCreated(string(status))
	s.publish(ctx, mq.KeyBookingCreated, booking, "")

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("court_id", courtID.String()),
		zap.String("date", req.BookingDate),
		zap.Stringer("start", start),
		zap.Stringer("end", end),
		zap.String("status", string(status)),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetBooking(ctx context.Context, actor Actor, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && booking.UserID != actor.ID {
		s.log.Warn("Booking access denied",
			zap.String("booking_id", bookingID),
			zap.String("user_id", actor.ID.String()))
		return nil, fmt.Errorf("forbidden: booking belongs to another user")
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	normalizePage(req)

	bookings, err := s.repo.Booking.FindByUserID(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get user bookings", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get bookings")
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to count user bookings", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to count bookings")
	}

	return response.NewPaginatedResponse(response.BookingsToResponse(bookings), req.Page, req.PerPage, total), nil
}

func (s *bookingService) CancelOwnBooking(ctx context.Context, userID uuid.UUID, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != userID {
		return nil, fmt.Errorf("forbidden: booking belongs to another user")
	}

	if !booking.Status.CanTransitionTo(entity.BookingStatusCancelled) {
		return nil, fmt.Errorf("cannot cancel booking with status %s", booking.Status)
	}

	return s.changeStatus(ctx, booking, entity.BookingStatusCancelled)
}

func (s *bookingService) UpdateBooking(ctx context.Context, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update booking validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	existing, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	merged, err := s.mergeBookingUpdate(ctx, existing, req)
	if err != nil {
		return nil, err
	}

	if merged.StartTime >= merged.EndTime {
		return nil, fmt.Errorf("invalid time range: start_time must be before end_time")
	}

	// a cancelled booking coming back occupies its slot again
	reactivated := !existing.Status.IsActive() && merged.Status.IsActive()
	if (req.TouchesSlot() || reactivated) && merged.Status.IsActive() {
		release, err := s.acquireSlot(ctx, merged.CourtID, merged.BookingDate)
		if err != nil {
			return nil, err
		}
		defer release()

		conflict, err := s.checker.HasBookingConflict(ctx, merged.CourtID, merged.BookingDate, merged.StartTime, merged.EndTime, &merged.ID)
		if err != nil {
			s.log.Error("Conflict check failed", zap.Error(err), zap.String("booking_id", bookingID))
			return nil, ErrConflictCheckFailed
		}
		if conflict {
			return nil, ErrSlotAlreadyBooked
		}
	}

	merged.UpdatedAt = time.Now()
	if err := s.repo.Booking.Update(ctx, merged); err != nil {
		s.log.Error("Failed to update booking", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, fmt.Errorf("failed to update booking")
	}

	if merged.Status != existing.Status {
		s.metrics.IncStatusChange(string(existing.Status), string(merged.Status))
	}
	s.publish(ctx, mq.KeyBookingUpdated, merged, existing.Status)

	s.log.Info("Booking updated",
		zap.String("booking_id", bookingID),
		zap.String("court_id", merged.CourtID.String()),
		zap.String("status", string(merged.Status)),
	)

	resp := response.BookingToResponse(merged)
	return &resp, nil
}

func (s *bookingService) UpdateBookingStatus(ctx context.Context, bookingID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	next := entity.BookingStatus(req.Status)
	if !booking.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("cannot change booking status from %s to %s", booking.Status, next)
	}

	return s.changeStatus(ctx, booking, next)
}

func (s *bookingService) ListBookings(ctx context.Context, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	filter, err := s.buildFilter(req)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.Booking.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("failed to get bookings")
	}

	total, err := s.repo.Booking.Count(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count bookings", zap.Error(err))
		return nil, fmt.Errorf("failed to count bookings")
	}

	return response.NewPaginatedResponse(response.BookingsToResponse(bookings), req.Page, req.PerPage, total), nil
}

func (s *bookingService) ExportBookings(ctx context.Context, req *request.BookingListRequest, w io.Writer) (int, bool, error) {
	filter, err := s.buildFilter(req)
	if err != nil {
		return 0, false, err
	}

	sheet := export.NewSheetWriter("Bookings")
	defer sheet.Close()

	if err := sheet.WriteHeader([]string{
		"ID", "Court ID", "User ID", "Team ID", "Date", "Start", "End", "Sport", "Status", "Amount", "Created At",
	}); err != nil {
		s.log.Error("Failed to write export header", zap.Error(err))
		return 0, false, fmt.Errorf("failed to export bookings")
	}

	rows := 0
	for rows < s.exportLimit {
		size := min(exportPageSize, s.exportLimit-rows)
		page, err := s.repo.Booking.FindAll(ctx, filter, size, rows)
		if err != nil {
			s.log.Error("Failed to read bookings for export", zap.Error(err), zap.Int("offset", rows))
			return 0, false, fmt.Errorf("failed to export bookings")
		}

		for _, b := range page {
			var teamID, amount any
			if b.TeamID != nil {
				teamID = b.TeamID.String()
			}
			if b.TotalAmount != nil {
				amount = *b.TotalAmount
			}
			if err := sheet.WriteRow([]any{
				b.ID.String(), b.CourtID.String(), b.UserID.String(), teamID,
				utils.FormatDate(b.BookingDate), b.StartTime.String(), b.EndTime.String(),
				b.Sport, string(b.Status), amount, b.CreatedAt.Format(time.RFC3339),
			}); err != nil {
				s.log.Error("Failed to write export row", zap.Error(err), zap.String("booking_id", b.ID.String()))
				return 0, false, fmt.Errorf("failed to export bookings")
			}
		}

		rows += len(page)
		if len(page) < size {
			break
		}
	}

	truncated := false
	if rows >= s.exportLimit {
		more, err := s.repo.Booking.FindAll(ctx, filter, 1, rows)
		if err != nil {
			s.log.Error("Failed to read bookings for export", zap.Error(err), zap.Int("offset", rows))
			return 0, false, fmt.Errorf("failed to export bookings")
		}
		truncated = len(more) > 0
	}

	if err := sheet.Save(w); err != nil {
		s.log.Error("Failed to write export", zap.Error(err))
		return 0, false, fmt.Errorf("failed to export bookings")
	}

	if truncated {
		s.log.Warn("Bookings export truncated", zap.Int("rows", rows), zap.Int("limit", s.exportLimit))
	} else {
		s.log.Info("Bookings exported", zap.Int("rows", rows))
	}
	return rows, truncated, nil
}

func (s *bookingService) CompletePastBookings(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.repo.Booking.CompletePast(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("complete past bookings: %w", err)
	}
	if n > 0 {
		s.metrics.AddStatusChanges(string(entity.BookingStatusConfirmed), string(entity.BookingStatusCompleted), n)
		s.log.Info("Past bookings completed", zap.Int64("count", n))
	}
	return n, nil
}

// ---------- helpers ----------

func (s *bookingService) findBooking(ctx context.Context, bookingID string) (*entity.Booking, error) {
	id, err := parseID(bookingID, "booking")
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get booking", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, fmt.Errorf("failed to get booking")
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s not found", bookingID)
	}

	return booking, nil
}

func (s *bookingService) ensureCourtBookable(ctx context.Context, courtID uuid.UUID) error {
	court, err := s.repo.Court.FindByID(ctx, courtID)
	if err != nil {
		s.log.Error("Failed to get court", zap.Error(err), zap.String("court_id", courtID.String()))
		return fmt.Errorf("failed to get court")
	}
	if court == nil || !court.IsActive {
		return fmt.Errorf("court %s not found", courtID.String())
	}
	return nil
}

// resolveOwner lets admins book on a player's behalf
func (s *bookingService) resolveOwner(ctx context.Context, actor Actor, userID *string) (uuid.UUID, error) {
	if userID == nil || !actor.IsAdmin() {
		return actor.ID, nil
	}

	id, err := parseID(*userID, "user")
	if err != nil {
		return uuid.Nil, err
	}

	user, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get booking owner", zap.Error(err), zap.String("user_id", *userID))
		return uuid.Nil, fmt.Errorf("failed to get user")
	}
	if user == nil {
		return uuid.Nil, fmt.Errorf("user %s not found", *userID)
	}

	return id, nil
}

func (s *bookingService) resolveTeam(ctx context.Context, actor Actor, teamID string) (uuid.UUID, error) {
	id, err := parseID(teamID, "team")
	if err != nil {
		return uuid.Nil, err
	}

	team, err := s.repo.Team.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get team", zap.Error(err), zap.String("team_id", teamID))
		return uuid.Nil, fmt.Errorf("failed to get team")
	}
	if team == nil {
		return uuid.Nil, fmt.Errorf("team %s not found", teamID)
	}

	if actor.IsAdmin() {
		return id, nil
	}

	member, err := s.repo.Team.IsMember(ctx, id, actor.ID)
	if err != nil {
		s.log.Error("Failed to check team membership", zap.Error(err), zap.String("team_id", teamID))
		return uuid.Nil, fmt.Errorf("failed to get team")
	}
	if !member {
		return uuid.Nil, fmt.Errorf("forbidden: not a member of team %s", teamID)
	}

	return id, nil
}

func (s *bookingService) mergeBookingUpdate(ctx context.Context, existing *entity.Booking, req *request.UpdateBookingRequest) (*entity.Booking, error) {
	merged := *existing

	if req.CourtID != nil {
		courtID, err := parseID(*req.CourtID, "court")
		if err != nil {
			return nil, err
		}
		if courtID != existing.CourtID {
			if err := s.ensureCourtBookable(ctx, courtID); err != nil {
				return nil, err
			}
		}
		merged.CourtID = courtID
	}

	if req.BookingDate != nil {
		date, err := utils.ParseDate(*req.BookingDate)
		if err != nil {
			return nil, err
		}
		merged.BookingDate = date
	}

	if req.StartTime != nil {
		start, err := entity.ParseTimeOfDay(*req.StartTime)
		if err != nil {
			return nil, err
		}
		merged.StartTime = start
	}

	if req.EndTime != nil {
		end, err := entity.ParseTimeOfDay(*req.EndTime)
		if err != nil {
			return nil, err
		}
		merged.EndTime = end
	}

	if req.Sport != nil {
		merged.Sport = *req.Sport
	}

	if req.TeamID != nil {
		teamID, err := s.resolveTeam(ctx, Actor{Role: utils.RoleAdmin}, *req.TeamID)
		if err != nil {
			return nil, err
		}
		merged.TeamID = &teamID
	}

	if req.TotalAmount != nil {
		merged.TotalAmount = req.TotalAmount
	}

	if req.Status != nil {
		merged.Status = entity.BookingStatus(*req.Status)
	}

	return &merged, nil
}

func (s *bookingService) changeStatus(ctx context.Context, booking *entity.Booking, next entity.BookingStatus) (*response.BookingResponse, error) {
	previous := booking.Status

	if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, next); err != nil {
		s.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("status", string(next)))
		return nil, fmt.Errorf("failed to update booking status")
	}

	booking.Status = next
	booking.UpdatedAt = time.Now()

	s.metrics.IncStatusChange(string(previous), string(next))
	s.publish(ctx, mq.KeyBookingStatusChanged, booking, previous)

	s.log.Info("Booking status changed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(next)))

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// acquireSlot takes the court/date lock, a no-op unless locking is enabled
func (s *bookingService) acquireSlot(ctx context.Context, courtID uuid.UUID, date time.Time) (func(), error) {
	release, err := s.locker.Acquire(ctx, cache.BookingLockKey(courtID, date))
	if errors.Is(err, cache.ErrLockBusy) {
		s.metrics.IncLock("busy")
		s.log.Warn("Booking slot busy",
			zap.String("court_id", courtID.String()),
			zap.String("date", utils.FormatDate(date)))
		return nil, ErrSlotBusy
	}
	if err != nil {
		s.log.Error("Failed to acquire booking lock", zap.Error(err), zap.String("court_id", courtID.String()))
		return nil, fmt.Errorf("failed to reserve slot")
	}
	if !cache.IsNoopLocker(s.locker) {
		s.metrics.IncLock("acquired")
	}
	return release, nil
}

func (s *bookingService) buildFilter(req *request.BookingListRequest) (repository.BookingFilter, error) {
	var filter repository.BookingFilter

	normalizePage(&req.PaginatedRequest)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return filter, validationError(errs)
	}

	if req.CourtID != "" {
		id, err := parseID(req.CourtID, "court")
		if err != nil {
			return filter, err
		}
		filter.CourtID = &id
	}
	if req.UserID != "" {
		id, err := parseID(req.UserID, "user")
		if err != nil {
			return filter, err
		}
		filter.UserID = &id
	}
	if req.Date != "" {
		date, err := utils.ParseDate(req.Date)
		if err != nil {
			return filter, err
		}
		filter.Date = &date
	}
	if req.Status != "" {
		status := entity.BookingStatus(req.Status)
		filter.Status = &status
	}

	return filter, nil
}

// publish never fails the request, the booking is already stored
func (s *bookingService) publish(ctx context.Context, key string, b *entity.Booking, previous entity.BookingStatus) {
	event := BookingEvent{
		BookingID:      b.ID.String(),
		UserID:         b.UserID.String(),
		CourtID:        b.CourtID.String(),
		BookingDate:    utils.FormatDate(b.BookingDate),
		StartTime:      b.StartTime,
		EndTime:        b.EndTime,
		Status:         b.Status,
		PreviousStatus: previous,
		OccurredAt:     time.Now().UTC(),
	}
	if err := s.publisher.PublishJSON(ctx, key, event); err != nil {
		s.log.Error("Failed to publish booking event",
			zap.Error(err),
			zap.String("key", key),
			zap.String("booking_id", b.ID.String()))
	}
}

func parseInterval(startValue, endValue string) (entity.TimeOfDay, entity.TimeOfDay, error) {
	start, err := entity.ParseTimeOfDay(startValue)
	if err != nil {
		return 0, 0, err
	}
	end, err := entity.ParseTimeOfDay(endValue)
	if err != nil {
		return 0, 0, err
	}
	if start >= end {
		return 0, 0, fmt.Errorf("invalid time range: start_time must be before end_time")
	}
	return start, end, nil
}

func normalizePage(req *request.PaginatedRequest) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PerPage < 1 {
		req.PerPage = 10
	}
	if req.PerPage > 100 {
		req.PerPage = 100
	}
}
