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

// CourtFilter is applied to public listings. Empty strings are ignored.
type CourtFilter struct {
	Sport      string
	City       string
	ActiveOnly bool
}

type CourtRepository interface {
	Create(ctx context.Context, court *entity.Court) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Court, error)
	FindAll(ctx context.Context, filter CourtFilter, limit, offset int) ([]*entity.Court, error)
	Count(ctx context.Context, filter CourtFilter) (int64, error)
	Update(ctx context.Context, court *entity.Court) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type courtRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCourtRepository(db database.PgxIface, log *zap.Logger) CourtRepository {
	return &courtRepository{
		db:  db,
		log: log.With(zap.String("repository", "court")),
	}
}

const courtColumns = `id, name, sport, location, city, description, price_per_hour, image_url,
		       is_active, created_at, updated_at, deleted_at`

const courtFilterClause = `
		deleted_at IS NULL
		AND ($1 = '' OR LOWER(sport) = LOWER($1))
		AND ($2 = '' OR LOWER(city) = LOWER($2))
		AND (NOT $3 OR is_active)
`

func scanCourt(row rowScanner) (*entity.Court, error) {
	var court entity.Court
	err := row.Scan(
		&court.ID,
		&court.Name,
		&court.Sport,
		&court.Location,
		&court.City,
		&court.Description,
		&court.PricePerHour,
		&court.ImageURL,
		&court.IsActive,
		&court.CreatedAt,
		&court.UpdatedAt,
		&court.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &court, nil
}

func (r *courtRepository) Create(ctx context.Context, court *entity.Court) error {
	query := `
		INSERT INTO courts (id, name, sport, location, city, description, price_per_hour,
		                    image_url, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		court.ID,
		court.Name,
		court.Sport,
		court.Location,
		court.City,
		court.Description,
		court.PricePerHour,
		court.ImageURL,
		court.IsActive,
		court.CreatedAt,
		court.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create court",
			zap.Error(err),
			zap.String("name", court.Name),
		)
		return fmt.Errorf("create court %s: %w", court.Name, err)
	}

	return nil
}

func (r *courtRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Court, error) {
	query := `SELECT ` + courtColumns + ` FROM courts WHERE id = $1 AND deleted_at IS NULL`

	court, err := scanCourt(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find court by ID",
			zap.Error(err),
			zap.String("court_id", id.String()),
		)
		return nil, fmt.Errorf("find court by ID %s: %w", id.String(), err)
	}

	return court, nil
}

func (r *courtRepository) FindAll(ctx context.Context, filter CourtFilter, limit, offset int) ([]*entity.Court, error) {
	query := `
		SELECT ` + courtColumns + `
		FROM courts
		WHERE ` + courtFilterClause + `
		ORDER BY name
		LIMIT $4 OFFSET $5
	`

	rows, err := r.db.Query(ctx, query, filter.Sport, filter.City, filter.ActiveOnly, limit, offset)
	if err != nil {
		r.log.Error("Failed to list courts",
			zap.Error(err),
			zap.String("sport", filter.Sport),
			zap.String("city", filter.City),
		)
		return nil, fmt.Errorf("list courts: %w", err)
	}
	defer rows.Close()

	var courts []*entity.Court
	for rows.Next() {
		court, err := scanCourt(rows)
		if err != nil {
			r.log.Error("Failed to scan court row", zap.Error(err))
			return nil, fmt.Errorf("scan court row: %w", err)
		}
		courts = append(courts, court)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate court rows: %w", err)
	}

	return courts, nil
}

func (r *courtRepository) Count(ctx context.Context, filter CourtFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM courts WHERE ` + courtFilterClause

	var count int64
	if err := r.db.QueryRow(ctx, query, filter.Sport, filter.City, filter.ActiveOnly).Scan(&count); err != nil {
		r.log.Error("Failed to count courts", zap.Error(err))
		return 0, fmt.Errorf("count courts: %w", err)
	}

	return count, nil
}

func (r *courtRepository) Update(ctx context.Context, court *entity.Court) error {
	query := `
		UPDATE courts
		SET name = $2, sport = $3, location = $4, city = $5, description = $6,
		    price_per_hour = $7, image_url = $8, is_active = $9, updated_at = $10
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		court.ID,
		court.Name,
		court.Sport,
		court.Location,
		court.City,
		court.Description,
		court.PricePerHour,
		court.ImageURL,
		court.IsActive,
		court.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update court",
			zap.Error(err),
			zap.String("court_id", court.ID.String()),
		)
		return fmt.Errorf("update court %s: %w", court.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("court %s %w", court.ID.String(), ErrNotFound)
	}

	return nil
}

// Delete soft-deletes the court and marks it inactive
func (r *courtRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE courts SET deleted_at = NOW(), is_active = FALSE WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete court",
			zap.Error(err),
			zap.String("court_id", id.String()),
		)
		return fmt.Errorf("delete court %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("court %s %w", id.String(), ErrNotFound)
	}

	r.log.Info("Court deleted", zap.String("court_id", id.String()))
	return nil
}
