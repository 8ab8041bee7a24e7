package entity

import (
	"time"

	"github.com/google/uuid"
)

type TeamMemberRole string

const (
	TeamRoleCaptain TeamMemberRole = "captain"
	TeamRoleMember  TeamMemberRole = "member"
)

type Team struct {
	BaseNoDelete
	Name      string    `db:"name"`
	Sport     string    `db:"sport"`
	CaptainID uuid.UUID `db:"captain_id"`
}

type TeamMember struct {
	TeamID   uuid.UUID      `db:"team_id"`
	UserID   uuid.UUID      `db:"user_id"`
	Role     TeamMemberRole `db:"role"`
	JoinedAt time.Time      `db:"joined_at"`
	UserName string         `db:"name"`
}
