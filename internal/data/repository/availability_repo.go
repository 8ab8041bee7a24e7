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

type AvailabilityRepository interface {
	Create(ctx context.Context, slot *entity.CourtAvailability) error
	FindByID(ctx context.Context, courtID, id uuid.UUID) (*entity.CourtAvailability, error)
	FindByCourtID(ctx context.Context, courtID uuid.UUID) ([]*entity.CourtAvailability, error)
	FindByCourtAndDay(ctx context.Context, courtID uuid.UUID, dayOfWeek int, excludeID *uuid.UUID) ([]*entity.CourtAvailability, error)
	Update(ctx context.Context, slot *entity.CourtAvailability) error
	Delete(ctx context.Context, courtID, id uuid.UUID) error
}

type availabilityRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAvailabilityRepository(db database.PgxIface, log *zap.Logger) AvailabilityRepository {
	return &availabilityRepository{
		db:  db,
		log: log.With(zap.String("repository", "availability")),
	}
}

const availabilityColumns = `id, court_id, day_of_week, start_time, end_time, is_available, created_at, updated_at`

func scanAvailability(row rowScanner) (*entity.CourtAvailability, error) {
	var slot entity.CourtAvailability
	err := row.Scan(
		&slot.ID,
		&slot.CourtID,
		&slot.DayOfWeek,
		&slot.StartTime,
		&slot.EndTime,
		&slot.IsAvailable,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *availabilityRepository) collect(rows pgx.Rows) ([]*entity.CourtAvailability, error) {
	defer rows.Close()

	var slots []*entity.CourtAvailability
	for rows.Next() {
		slot, err := scanAvailability(rows)
		if err != nil {
			r.log.Error("Failed to scan availability row", zap.Error(err))
			return nil, fmt.Errorf("scan availability row: %w", err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate availability rows: %w", err)
	}

	return slots, nil
}

func (r *availabilityRepository) Create(ctx context.Context, slot *entity.CourtAvailability) error {
	query := `
		INSERT INTO court_availability (id, court_id, day_of_week, start_time, end_time,
		                                is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		slot.ID,
		slot.CourtID,
		slot.DayOfWeek,
		slot.StartTime,
		slot.EndTime,
		slot.IsAvailable,
		slot.CreatedAt,
		slot.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create availability slot",
			zap.Error(err),
			zap.String("court_id", slot.CourtID.String()),
			zap.Int("day_of_week", slot.DayOfWeek),
		)
		return fmt.Errorf("create availability for court %s: %w", slot.CourtID.String(), err)
	}

	return nil
}

func (r *availabilityRepository) FindByID(ctx context.Context, courtID, id uuid.UUID) (*entity.CourtAvailability, error) {
	query := `SELECT ` + availabilityColumns + ` FROM court_availability WHERE id = $1 AND court_id = $2`

	slot, err := scanAvailability(r.db.QueryRow(ctx, query, id, courtID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find availability slot",
			zap.Error(err),
			zap.String("slot_id", id.String()),
		)
		return nil, fmt.Errorf("find availability %s: %w", id.String(), err)
	}

	return slot, nil
}

func (r *availabilityRepository) FindByCourtID(ctx context.Context, courtID uuid.UUID) ([]*entity.CourtAvailability, error) {
	query := `
		SELECT ` + availabilityColumns + `
		FROM court_availability
		WHERE court_id = $1
		ORDER BY day_of_week, start_time
	`

	rows, err := r.db.Query(ctx, query, courtID)
	if err != nil {
		r.log.Error("Failed to list availability",
			zap.Error(err),
			zap.String("court_id", courtID.String()),
		)
		return nil, fmt.Errorf("list availability for court %s: %w", courtID.String(), err)
	}

	return r.collect(rows)
}

// FindByCourtAndDay returns every slot of the court on that weekday, minus excludeID
func (r *availabilityRepository) FindByCourtAndDay(ctx context.Context, courtID uuid.UUID, dayOfWeek int, excludeID *uuid.UUID) ([]*entity.CourtAvailability, error) {
	query := `
		SELECT ` + availabilityColumns + `
		FROM court_availability
		WHERE court_id = $1
		  AND day_of_week = $2
		  AND ($3::uuid IS NULL OR id <> $3)
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, courtID, dayOfWeek, excludeID)
	if err != nil {
		r.log.Error("Failed to find availability by day",
			zap.Error(err),
			zap.String("court_id", courtID.String()),
			zap.Int("day_of_week", dayOfWeek),
		)
		return nil, fmt.Errorf("find availability for court %s day %d: %w", courtID.String(), dayOfWeek, err)
	}

	return r.collect(rows)
}

func (r *availabilityRepository) Update(ctx context.Context, slot *entity.CourtAvailability) error {
	query := `
		UPDATE court_availability
		SET day_of_week = $3, start_time = $4, end_time = $5, is_available = $6, updated_at = $7
		WHERE id = $1 AND court_id = $2
	`

	result, err := r.db.Exec(ctx, query,
		slot.ID,
		slot.CourtID,
		slot.DayOfWeek,
		slot.StartTime,
		slot.EndTime,
		slot.IsAvailable,
		slot.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update availability slot",
			zap.Error(err),
			zap.String("slot_id", slot.ID.String()),
		)
		return fmt.Errorf("update availability %s: %w", slot.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("availability slot %s %w", slot.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *availabilityRepository) Delete(ctx context.Context, courtID, id uuid.UUID) error {
	query := `DELETE FROM court_availability WHERE id = $1 AND court_id = $2`

	result, err := r.db.Exec(ctx, query, id, courtID)
	if err != nil {
		r.log.Error("Failed to delete availability slot",
			zap.Error(err),
			zap.String("slot_id", id.String()),
		)
		return fmt.Errorf("delete availability %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("availability slot %s %w", id.String(), ErrNotFound)
	}

	return nil
}
