package usecase

import (
	"context"
	"fmt"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	// Public endpoints
	GetCourtReviews(ctx context.Context, courtID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetCourtReviewStats(ctx context.Context, courtID string) (*response.ReviewStatsResponse, error)

	// Player endpoints
	CreateReview(ctx context.Context, userID uuid.UUID, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, reviewID string, userID uuid.UUID) error
}

type reviewService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		log:  log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) CreateReview(ctx context.Context, userID uuid.UUID, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create review validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	courtID, err := parseID(req.CourtID, "court")
	if err != nil {
		return nil, err
	}

	// Check if court exists
	court, err := s.repo.Court.FindByID(ctx, courtID)
	if err != nil || court == nil {
		return nil, fmt.Errorf("court %s not found", req.CourtID)
	}

	// Only players who actually played here may review
	played, err := s.repo.Booking.HasCompletedBooking(ctx, userID, courtID)
	if err != nil {
		s.log.Error("Failed to check completed booking", zap.Error(err))
		return nil, fmt.Errorf("failed to check booking history")
	}
	if !played {
		return nil, fmt.Errorf("cannot review a court without a completed booking")
	}

	existingReview, err := s.repo.Review.FindByUserAndCourt(ctx, userID, courtID)
	if err != nil {
		s.log.Error("Failed to check existing review", zap.Error(err))
		return nil, fmt.Errorf("failed to create review")
	}
	if existingReview != nil {
		return nil, fmt.Errorf("user already reviewed this court")
	}

	now := time.Now()
	review := &entity.Review{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:  userID,
		CourtID: courtID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		s.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("court_id", req.CourtID),
		)
		return nil, fmt.Errorf("failed to create review")
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("court_id", req.CourtID),
		zap.Int("rating", req.Rating),
	)

	reviewResp := response.ReviewToResponse(review)
	return &reviewResp, nil
}

func (s *reviewService) GetCourtReviews(ctx context.Context, courtID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	courtUUID, err := parseID(courtID, "court")
	if err != nil {
		return nil, err
	}
	normalizePage(req)

	reviews, err := s.repo.Review.FindByCourtID(ctx, courtUUID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get court reviews",
			zap.Error(err),
			zap.String("court_id", courtID),
			zap.Int("page", req.Page),
		)
		return nil, fmt.Errorf("failed to get reviews")
	}

	total, err := s.repo.Review.CountByCourtID(ctx, courtUUID)
	if err != nil {
		s.log.Error("Failed to count court reviews", zap.Error(err))
		return nil, fmt.Errorf("failed to count reviews")
	}

	reviewResponses := make([]response.ReviewResponse, len(reviews))
	for i, review := range reviews {
		reviewResponses[i] = response.ReviewToResponse(review)
	}

	return response.NewPaginatedResponse(reviewResponses, req.Page, req.PerPage, total), nil
}

func (s *reviewService) DeleteReview(ctx context.Context, reviewID string, userID uuid.UUID) error {
	reviewUUID, err := parseID(reviewID, "review")
	if err != nil {
		return err
	}

	review, err := s.repo.Review.FindByID(ctx, reviewUUID)
	if err != nil || review == nil {
		return fmt.Errorf("review %s not found", reviewID)
	}

	if review.UserID != userID {
		return fmt.Errorf("forbidden: review belongs to another user")
	}

	if err := s.repo.Review.Delete(ctx, reviewUUID); err != nil {
		s.log.Error("Failed to delete review",
			zap.Error(err),
			zap.String("review_id", reviewID),
		)
		return fmt.Errorf("failed to delete review")
	}

	s.log.Info("Review deleted",
		zap.String("review_id", reviewID),
		zap.String("user_id", userID.String()),
		zap.String("court_id", review.CourtID.String()),
	)

	return nil
}

func (s *reviewService) GetCourtReviewStats(ctx context.Context, courtID string) (*response.ReviewStatsResponse, error) {
	courtUUID, err := parseID(courtID, "court")
	if err != nil {
		return nil, err
	}

	stats, err := s.repo.Review.GetCourtReviewStats(ctx, courtUUID)
	if err != nil {
		s.log.Error("Failed to get court review stats",
			zap.Error(err),
			zap.String("court_id", courtID),
		)
		return nil, fmt.Errorf("failed to get review stats")
	}

	return &response.ReviewStatsResponse{
		CourtID:       courtID,
		TotalReviews:  stats.TotalReviews,
		AverageRating: stats.AverageRating,
		Distribution:  stats.Distribution,
	}, nil
}
