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

type CourtService interface {
	// Public endpoints
	ListCourts(ctx context.Context, req *request.CourtListRequest) (*response.PaginatedResponse[response.CourtResponse], error)
	GetCourt(ctx context.Context, courtID string) (*response.CourtResponse, error)

	// Admin endpoints
	CreateCourt(ctx context.Context, req *request.CreateCourtRequest) (*response.CourtResponse, error)
	UpdateCourt(ctx context.Context, courtID string, req *request.UpdateCourtRequest) (*response.CourtResponse, error)
	DeleteCourt(ctx context.Context, courtID string) error
}

type courtService struct {
	courtRepo repository.CourtRepository
	cache     cache.Cache
	log       *zap.Logger
}

func NewCourtService(courtRepo repository.CourtRepository, c cache.Cache, log *zap.Logger) CourtService {
	if c == nil {
		c = cache.NewNoopCache()
	}
	return &courtService{
		courtRepo: courtRepo,
		cache:     c,
		log:       log.With(zap.String("service", "court")),
	}
}

func (s *courtService) ListCourts(ctx context.Context, req *request.CourtListRequest) (*response.PaginatedResponse[response.CourtResponse], error) {
	normalizePage(&req.PaginatedRequest)

	filter := repository.CourtFilter{Sport: req.Sport, City: req.City, ActiveOnly: true}

	courts, err := s.courtRepo.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list courts", zap.Error(err))
		return nil, fmt.Errorf("failed to get courts")
	}

	total, err := s.courtRepo.Count(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count courts", zap.Error(err))
		return nil, fmt.Errorf("failed to count courts")
	}

	data := make([]response.CourtResponse, 0, len(courts))
	for _, c := range courts {
		data = append(data, response.CourtToResponse(c))
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}

func (s *courtService) GetCourt(ctx context.Context, courtID string) (*response.CourtResponse, error) {
	id, err := parseID(courtID, "court")
	if err != nil {
		return nil, err
	}

	key := cache.CourtKey(id)
	var cached response.CourtResponse
	if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.log.Warn("Court cache read failed", zap.Error(err), zap.String("court_id", courtID))
	} else if hit {
		return &cached, nil
	}

	court, err := s.courtRepo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get court", zap.Error(err), zap.String("court_id", courtID))
		return nil, fmt.Errorf("failed to get court")
	}
	if court == nil || !court.IsActive {
		return nil, fmt.Errorf("court %s not found", courtID)
	}

	resp := response.CourtToResponse(court)
	if err := s.cache.Set(ctx, key, resp); err != nil {
		s.log.Warn("Court cache write failed", zap.Error(err), zap.String("court_id", courtID))
	}

	return &resp, nil
}

func (s *courtService) CreateCourt(ctx context.Context, req *request.CreateCourtRequest) (*response.CourtResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create court validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now()
	court := &entity.Court{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         req.Name,
		Sport:        req.Sport,
		Location:     req.Location,
		City:         req.City,
		Description:  req.Description,
		PricePerHour: req.PricePerHour,
		ImageURL:     req.ImageURL,
		IsActive:     isActive,
	}

	if err := s.courtRepo.Create(ctx, court); err != nil {
		s.log.Error("Failed to create court", zap.Error(err), zap.String("name", req.Name))
		return nil, fmt.Errorf("failed to create court")
	}

	s.log.Info("Court created", zap.String("court_id", court.ID.String()), zap.String("name", court.Name))

	resp := response.CourtToResponse(court)
	return &resp, nil
}

func (s *courtService) UpdateCourt(ctx context.Context, courtID string, req *request.UpdateCourtRequest) (*response.CourtResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update court validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	id, err := parseID(courtID, "court")
	if err != nil {
		return nil, err
	}

	court, err := s.courtRepo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get court", zap.Error(err), zap.String("court_id", courtID))
		return nil, fmt.Errorf("failed to get court")
	}
	if court == nil {
		return nil, fmt.Errorf("court %s not found", courtID)
	}

	if req.Name != nil {
		court.Name = *req.Name
	}
	if req.Sport != nil {
		court.Sport = *req.Sport
	}
	if req.Location != nil {
		court.Location = *req.Location
	}
	if req.City != nil {
		court.City = *req.City
	}
	if req.Description != nil {
		court.Description = req.Description
	}
	if req.PricePerHour != nil {
		court.PricePerHour = *req.PricePerHour
	}
	if req.ImageURL != nil {
		court.ImageURL = req.ImageURL
	}
	if req.IsActive != nil {
		court.IsActive = *req.IsActive
	}
	court.UpdatedAt = time.Now()

	if err := s.courtRepo.Update(ctx, court); err != nil {
		s.log.Error("Failed to update court", zap.Error(err), zap.String("court_id", courtID))
		return nil, fmt.Errorf("failed to update court")
	}

	s.invalidate(ctx, id)
	s.log.Info("Court updated", zap.String("court_id", courtID))

	resp := response.CourtToResponse(court)
	return &resp, nil
}

func (s *courtService) DeleteCourt(ctx context.Context, courtID string) error {
	id, err := parseID(courtID, "court")
	if err != nil {
		return err
	}

	if err := s.courtRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		s.log.Error("Failed to delete court", zap.Error(err), zap.String("court_id", courtID))
		return fmt.Errorf("failed to delete court")
	}

	s.invalidate(ctx, id)
	s.log.Info("Court deleted", zap.String("court_id", courtID))
	return nil
}

func (s *courtService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, cache.CourtKey(id), cache.AvailabilityKey(id)); err != nil {
		s.log.Warn("Court cache invalidation failed", zap.Error(err), zap.String("court_id", id.String()))
	}
}
