package repository

import (
	"context"
	"errors"
	"fmt"

	"court-booking/internal/data/entity"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	FindByCourtID(ctx context.Context, courtID uuid.UUID, limit, offset int) ([]*entity.Review, error)
	FindByUserAndCourt(ctx context.Context, userID, courtID uuid.UUID) (*entity.Review, error)
	CountByCourtID(ctx context.Context, courtID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Business queries
	GetCourtReviewStats(ctx context.Context, courtID uuid.UUID) (*entity.ReviewStats, error)
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

const reviewColumns = `id, user_id, court_id, rating, comment, created_at, updated_at`

func scanReview(row rowScanner) (*entity.Review, error) {
	var review entity.Review
	err := row.Scan(
		&review.ID,
		&review.UserID,
		&review.CourtID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, user_id, court_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.UserID,
		review.CourtID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
		review.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("user_id", review.UserID.String()),
			zap.String("court_id", review.CourtID.String()),
		)
		return fmt.Errorf("create review for court %s by user %s: %w",
			review.CourtID.String(), review.UserID.String(), err)
	}

	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return nil, fmt.Errorf("find review by ID %s: %w", id.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) FindByCourtID(ctx context.Context, courtID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE court_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, courtID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find reviews by court ID",
			zap.Error(err),
			zap.String("court_id", courtID.String()),
		)
		return nil, fmt.Errorf("find reviews by court ID %s: %w", courtID.String(), err)
	}
	defer rows.Close()

	var reviews []*entity.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}

	return reviews, rows.Err()
}

func (r *reviewRepository) FindByUserAndCourt(ctx context.Context, userID, courtID uuid.UUID) (*entity.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE user_id = $1 AND court_id = $2`

	review, err := scanReview(r.db.QueryRow(ctx, query, userID, courtID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by user and court",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("court_id", courtID.String()),
		)
		return nil, fmt.Errorf("find review for court %s by user %s: %w", courtID.String(), userID.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) CountByCourtID(ctx context.Context, courtID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM reviews WHERE court_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, courtID).Scan(&count); err != nil {
		r.log.Error("Failed to count reviews",
			zap.Error(err),
			zap.String("court_id", courtID.String()),
		)
		return 0, fmt.Errorf("count reviews by court ID %s: %w", courtID.String(), err)
	}

	return count, nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM reviews WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete review",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return fmt.Errorf("delete review %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s %w", id.String(), ErrNotFound)
	}

	return nil
}

func (r *reviewRepository) GetCourtReviewStats(ctx context.Context, courtID uuid.UUID) (*entity.ReviewStats, error) {
	query := `SELECT rating, COUNT(*) FROM reviews WHERE court_id = $1 GROUP BY rating`

	rows, err := r.db.Query(ctx, query, courtID)
	if err != nil {
		r.log.Error("Failed to get court review stats",
			zap.Error(err),
			zap.String("court_id", courtID.String()),
		)
		return nil, fmt.Errorf("get review stats for court %s: %w", courtID.String(), err)
	}
	defer rows.Close()

	stats := &entity.ReviewStats{
		CourtID:      courtID,
		Distribution: make(map[int]int64, 5),
	}
	var sum int64
	for rows.Next() {
		var rating int
		var count int64
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, fmt.Errorf("scan review stats row: %w", err)
		}
		stats.Distribution[rating] = count
		stats.TotalReviews += count
		sum += int64(rating) * count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review stats rows: %w", err)
	}

	if stats.TotalReviews > 0 {
		stats.AverageRating = float64(sum) / float64(stats.TotalReviews)
	}

	return stats, nil
}
