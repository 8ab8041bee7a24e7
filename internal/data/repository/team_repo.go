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

type TeamRepository interface {
	Create(ctx context.Context, team *entity.Team) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Team, error)
	FindByMemberID(ctx context.Context, userID uuid.UUID) ([]*entity.Team, error)

	AddMember(ctx context.Context, member *entity.TeamMember) error
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error
	FindMembers(ctx context.Context, teamID uuid.UUID) ([]*entity.TeamMember, error)
	IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
}

type teamRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTeamRepository(db database.PgxIface, log *zap.Logger) TeamRepository {
	return &teamRepository{
		db:  db,
		log: log.With(zap.String("repository", "team")),
	}
}

// Create inserts the team and its captain membership in one transaction
func (r *teamRepository) Create(ctx context.Context, team *entity.Team) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create team: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO teams (id, name, sport, captain_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, team.ID, team.Name, team.Sport, team.CaptainID, team.CreatedAt, team.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to create team",
			zap.Error(err),
			zap.String("name", team.Name),
		)
		return fmt.Errorf("create team %s: %w", team.Name, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO team_members (team_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
	`, team.ID, team.CaptainID, entity.TeamRoleCaptain, team.CreatedAt)
	if err != nil {
		r.log.Error("Failed to add captain",
			zap.Error(err),
			zap.String("team_id", team.ID.String()),
		)
		return fmt.Errorf("add captain to team %s: %w", team.ID.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create team: %w", err)
	}

	return nil
}

func (r *teamRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Team, error) {
	query := `SELECT id, name, sport, captain_id, created_at, updated_at FROM teams WHERE id = $1`

	var team entity.Team
	err := r.db.QueryRow(ctx, query, id).Scan(
		&team.ID,
		&team.Name,
		&team.Sport,
		&team.CaptainID,
		&team.CreatedAt,
		&team.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find team by ID",
			zap.Error(err),
			zap.String("team_id", id.String()),
		)
		return nil, fmt.Errorf("find team by ID %s: %w", id.String(), err)
	}

	return &team, nil
}

func (r *teamRepository) FindByMemberID(ctx context.Context, userID uuid.UUID) ([]*entity.Team, error) {
	query := `
		SELECT t.id, t.name, t.sport, t.captain_id, t.created_at, t.updated_at
		FROM teams t
		JOIN team_members m ON m.team_id = t.id
		WHERE m.user_id = $1
		ORDER BY t.name
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find teams by member",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find teams for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var teams []*entity.Team
	for rows.Next() {
		var team entity.Team
		if err := rows.Scan(&team.ID, &team.Name, &team.Sport, &team.CaptainID, &team.CreatedAt, &team.UpdatedAt); err != nil {
			r.log.Error("Failed to scan team row", zap.Error(err))
			return nil, fmt.Errorf("scan team row: %w", err)
		}
		teams = append(teams, &team)
	}

	return teams, rows.Err()
}

func (r *teamRepository) AddMember(ctx context.Context, member *entity.TeamMember) error {
	query := `
		INSERT INTO team_members (team_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (team_id, user_id) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query, member.TeamID, member.UserID, member.Role, member.JoinedAt)
	if err != nil {
		r.log.Error("Failed to add team member",
			zap.Error(err),
			zap.String("team_id", member.TeamID.String()),
			zap.String("user_id", member.UserID.String()),
		)
		return fmt.Errorf("add member %s to team %s: %w", member.UserID.String(), member.TeamID.String(), err)
	}

	return nil
}

func (r *teamRepository) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	query := `DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query, teamID, userID)
	if err != nil {
		r.log.Error("Failed to remove team member",
			zap.Error(err),
			zap.String("team_id", teamID.String()),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("remove member %s from team %s: %w", userID.String(), teamID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("membership %w", ErrNotFound)
	}

	return nil
}

func (r *teamRepository) FindMembers(ctx context.Context, teamID uuid.UUID) ([]*entity.TeamMember, error) {
	query := `
		SELECT m.team_id, m.user_id, m.role, m.joined_at, u.name
		FROM team_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.team_id = $1
		ORDER BY m.role, m.joined_at
	`

	rows, err := r.db.Query(ctx, query, teamID)
	if err != nil {
		r.log.Error("Failed to list team members",
			zap.Error(err),
			zap.String("team_id", teamID.String()),
		)
		return nil, fmt.Errorf("list members of team %s: %w", teamID.String(), err)
	}
	defer rows.Close()

	var members []*entity.TeamMember
	for rows.Next() {
		var member entity.TeamMember
		if err := rows.Scan(&member.TeamID, &member.UserID, &member.Role, &member.JoinedAt, &member.UserName); err != nil {
			r.log.Error("Failed to scan team member row", zap.Error(err))
			return nil, fmt.Errorf("scan team member row: %w", err)
		}
		members = append(members, &member)
	}

	return members, rows.Err()
}

func (r *teamRepository) IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, teamID, userID).Scan(&exists); err != nil {
		r.log.Error("Failed to check team membership",
			zap.Error(err),
			zap.String("team_id", teamID.String()),
		)
		return false, fmt.Errorf("check membership: %w", err)
	}

	return exists, nil
}
