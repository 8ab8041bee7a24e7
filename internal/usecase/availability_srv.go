package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/pkg/cache"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AvailabilityService interface {
	// Public endpoints
	ListSlots(ctx context.Context, courtID string) ([]response.AvailabilityResponse, error)
	GetDaySchedule(ctx context.Context, courtID, date string) (*response.DayScheduleResponse, error)

	// Admin endpoints
	CreateSlot(ctx context.Context, courtID string, req *request.CreateAvailabilityRequest) (*response.AvailabilityResponse, error)
	UpdateSlot(ctx context.Context, courtID string, req *request.UpdateAvailabilityRequest) (*response.AvailabilityResponse, error)
	DeleteSlot(ctx context.Context, courtID, slotID string) error
}

type availabilityService struct {
	slots    repository.AvailabilityRepository
	courts   repository.CourtRepository
	bookings repository.BookingRepository
	checker  ConflictChecker
	cache    cache.Cache
	log      *zap.Logger
}

func NewAvailabilityService(repo *repository.Repository, checker ConflictChecker, c cache.Cache, log *zap.Logger) AvailabilityService {
	if c == nil {
		c = cache.NewNoopCache()
	}
	return &availabilityService{
		slots:    repo.Availability,
		courts:   repo.Court,
		bookings: repo.Booking,
		checker:  checker,
		cache:    c,
		log:      log.With(zap.String("service", "availability")),
	}
}

func (s *availabilityService) ListSlots(ctx context.Context, courtID string) ([]response.AvailabilityResponse, error) {
	id, err := parseID(courtID, "court")
	if err != nil {
		return nil, err
	}

	key := cache.AvailabilityKey(id)
	var cached []response.AvailabilityResponse
	if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.log.Warn("Availability cache read failed", zap.Error(err), zap.String("court_id", courtID))
	} else if hit {
		return cached, nil
	}

	if _, err := s.findCourt(ctx, id); err != nil {
		return nil, err
	}

	slots, err := s.slots.FindByCourtID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get availability", zap.Error(err), zap.String("court_id", courtID))
		return nil, fmt.Errorf("failed to get availability")
	}

	resp := response.AvailabilitiesToResponse(slots)
	if err := s.cache.Set(ctx, key, resp); err != nil {
		s.log.Warn("Availability cache write failed", zap.Error(err), zap.String("court_id", courtID))
	}

	return resp, nil
}

func (s *availabilityService) GetDaySchedule(ctx context.Context, courtID, date string) (*response.DayScheduleResponse, error) {
	id, err := parseID(courtID, "court")
	if err != nil {
		return nil, err
	}
	day, err := utils.ParseDate(date)
	if err != nil {
		return nil, err
	}

	if _, err := s.findCourt(ctx, id); err != nil {
		return nil, err
	}

	weekday := int(day.Weekday())
	windows, err := s.slots.FindByCourtAndDay(ctx, id, weekday, nil)
	if err != nil {
		s.log.Error("Failed to get availability for day", zap.Error(err), zap.String("court_id", courtID))
		return nil, fmt.Errorf("failed to get schedule")
	}

	bookings, err := s.bookings.FindActiveByCourtAndDate(ctx, id, day, nil)
	if err != nil {
		s.log.Error("Failed to get bookings for day", zap.Error(err), zap.String("court_id", courtID))
		return nil, fmt.Errorf("failed to get schedule")
	}

	booked := make([]response.BookedInterval, 0, len(bookings))
	for _, b := range bookings {
		booked = append(booked, response.BookedInterval{
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
			Status:    b.Status,
		})
	}

	return &response.DayScheduleResponse{
		CourtID:   id.String(),
		Date:      utils.FormatDate(day),
		DayOfWeek: weekday,
		Windows:   response.AvailabilitiesToResponse(windows),
		Booked:    booked,
	}, nil
}

func (s *availabilityService) CreateSlot(ctx context.Context, courtID string, req *request.CreateAvailabilityRequest) (*response.AvailabilityResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create availability validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	id, err := parseID(courtID, "court")
	if err != nil {
		return nil, err
	}
	start, end, err := parseInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	if _, err := s.findCourt(ctx, id); err != nil {
		return nil, err
	}

	conflict, err := s.checker.HasAvailabilityConflict(ctx, id, *req.DayOfWeek, start, end, nil)
	if err != nil {
		s.log.Error("Availability overlap check failed", zap.Error(err), zap.String("court_id", courtID))
		return nil, ErrConflictCheckFailed
	}
	if conflict {
		return nil, ErrAvailabilityOverlap
	}

	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}

	now := time.Now()
	slot := &entity.CourtAvailability{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CourtID:     id,
		DayOfWeek:   *req.DayOfWeek,
		StartTime:   start,
		EndTime:     end,
		IsAvailable: isAvailable,
	}

	if err := s.slots.Create(ctx, slot); err != nil {
		s.log.Error("Failed to create availability", zap.Error(err), zap.String("court_id", courtID))
		return nil, fmt.Errorf("failed to create availability")
	}

	s.invalidate(ctx, id)

	s.log.Info("Availability created",
		zap.String("slot_id", slot.ID.String()),
		zap.String("court_id", courtID),
		zap.Int("day_of_week", slot.DayOfWeek),
		zap.Stringer("start", start),
		zap.Stringer("end", end),
	)

	resp := response.AvailabilityToResponse(slot)
	return &resp, nil
}

func (s *availabilityService) UpdateSlot(ctx context.Context, courtID string, req *request.UpdateAvailabilityRequest) (*response.AvailabilityResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update availability validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	id, err := parseID(courtID, "court")
	if err != nil {
		return nil, err
	}
	slotID, err := parseID(req.ID, "availability")
	if err != nil {
		return nil, err
	}

	existing, err := s.slots.FindByID(ctx, id, slotID)
	if err != nil {
		s.log.Error("Failed to get availability", zap.Error(err), zap.String("slot_id", req.ID))
		return nil, fmt.Errorf("failed to get availability")
	}
	if existing == nil {
		return nil, fmt.Errorf("availability %s not found", req.ID)
	}

	merged := *existing
	if req.DayOfWeek != nil {
		merged.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		if merged.StartTime, err = entity.ParseTimeOfDay(*req.StartTime); err != nil {
			return nil, err
		}
	}
	if req.EndTime != nil {
		if merged.EndTime, err = entity.ParseTimeOfDay(*req.EndTime); err != nil {
			return nil, err
		}
	}
	if req.IsAvailable != nil {
		merged.IsAvailable = *req.IsAvailable
	}

	if merged.StartTime >= merged.EndTime {
		return nil, fmt.Errorf("invalid time range: start_time must be before end_time")
	}

	conflict, err := s.checker.HasAvailabilityConflict(ctx, id, merged.DayOfWeek, merged.StartTime, merged.EndTime, &merged.ID)
	if err != nil {
		s.log.Error("Availability overlap check failed", zap.Error(err), zap.String("slot_id", req.ID))
		return nil, ErrConflictCheckFailed
	}
	if conflict {
		return nil, ErrAvailabilityOverlap
	}

	merged.UpdatedAt = time.Now()
	if err := s.slots.Update(ctx, &merged); err != nil {
		s.log.Error("Failed to update availability", zap.Error(err), zap.String("slot_id", req.ID))
		return nil, fmt.Errorf("failed to update availability")
	}

	s.invalidate(ctx, id)
	s.log.Info("Availability updated", zap.String("slot_id", req.ID), zap.String("court_id", courtID))

	resp := response.AvailabilityToResponse(&merged)
	return &resp, nil
}

func (s *availabilityService) DeleteSlot(ctx context.Context, courtID, slotID string) error {
	id, err := parseID(courtID, "court")
	if err != nil {
		return err
	}
	sid, err := parseID(slotID, "availability")
	if err != nil {
		return err
	}

	if err := s.slots.Delete(ctx, id, sid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		s.log.Error("Failed to delete availability", zap.Error(err), zap.String("slot_id", slotID))
		return fmt.Errorf("failed to delete availability")
	}

	s.invalidate(ctx, id)
	s.log.Info("Availability deleted", zap.String("slot_id", slotID), zap.String("court_id", courtID))
	return nil
}

func (s *availabilityService) findCourt(ctx context.Context, id uuid.UUID) (*entity.Court, error) {
	court, err := s.courts.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get court", zap.Error(err), zap.String("court_id", id.String()))
		return nil, fmt.Errorf("failed to get court")
	}
	if court == nil {
		return nil, fmt.Errorf("court %s not found", id.String())
	}
	return court, nil
}

func (s *availabilityService) invalidate(ctx context.Context, courtID uuid.UUID) {
	if err := s.cache.Delete(ctx, cache.AvailabilityKey(courtID)); err != nil {
		s.log.Warn("Availability cache invalidation failed", zap.Error(err), zap.String("court_id", courtID.String()))
	}
}
