package response

import (
	"time"

	"court-booking/internal/data/entity"
)

type TeamResponse struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Sport     string               `json:"sport"`
	CaptainID string               `json:"captain_id"`
	CreatedAt time.Time            `json:"created_at"`
	Members   []TeamMemberResponse `json:"members,omitempty"`
}

type TeamMemberResponse struct {
	UserID   string                `json:"user_id"`
	Name     string                `json:"name"`
	Role     entity.TeamMemberRole `json:"role"`
	JoinedAt time.Time             `json:"joined_at"`
}

func TeamToResponse(t *entity.Team, members []*entity.TeamMember) TeamResponse {
	resp := TeamResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		Sport:     t.Sport,
		CaptainID: t.CaptainID.String(),
		CreatedAt: t.CreatedAt,
	}
	for _, m := range members {
		resp.Members = append(resp.Members, TeamMemberResponse{
			UserID:   m.UserID.String(),
			Name:     m.UserName,
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
		})
	}
	return resp
}
