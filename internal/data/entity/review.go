package entity

import (
	"github.com/google/uuid"
)

type Review struct {
	BaseNoDelete
	UserID  uuid.UUID `db:"user_id"`
	CourtID uuid.UUID `db:"court_id"`
	Rating  int       `db:"rating"` // 1-5
	Comment *string   `db:"comment"`
}

type ReviewStats struct {
	CourtID       uuid.UUID
	TotalReviews  int64
	AverageRating float64
	Distribution  map[int]int64
}
