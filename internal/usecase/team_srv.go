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
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TeamService interface {
	CreateTeam(ctx context.Context, userID uuid.UUID, req *request.CreateTeamRequest) (*response.TeamResponse, error)
	GetTeam(ctx context.Context, teamID string) (*response.TeamResponse, error)
	GetUserTeams(ctx context.Context, userID uuid.UUID) ([]response.TeamResponse, error)
	JoinTeam(ctx context.Context, userID uuid.UUID, teamID string) (*response.TeamResponse, error)
	LeaveTeam(ctx context.Context, userID uuid.UUID, teamID string) error
}

type teamService struct {
	teamRepo repository.TeamRepository
	log      *zap.Logger
}

func NewTeamService(teamRepo repository.TeamRepository, log *zap.Logger) TeamService {
	return &teamService{
		teamRepo: teamRepo,
		log:      log.With(zap.String("service", "team")),
	}
}

func (s *teamService) CreateTeam(ctx context.Context, userID uuid.UUID, req *request.CreateTeamRequest) (*response.TeamResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create team validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	now := time.Now()
	team := &entity.Team{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:      req.Name,
		Sport:     req.Sport,
		CaptainID: userID,
	}

	// the repository adds the captain membership in the same transaction
	if err := s.teamRepo.Create(ctx, team); err != nil {
		s.log.Error("Failed to create team", zap.Error(err), zap.String("name", req.Name))
		return nil, fmt.Errorf("failed to create team")
	}

	s.log.Info("Team created",
		zap.String("team_id", team.ID.String()),
		zap.String("captain_id", userID.String()))

	resp := response.TeamToResponse(team, []*entity.TeamMember{{
		TeamID:   team.ID,
		UserID:   userID,
		Role:     entity.TeamRoleCaptain,
		JoinedAt: now,
	}})
	return &resp, nil
}

func (s *teamService) GetTeam(ctx context.Context, teamID string) (*response.TeamResponse, error) {
	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	members, err := s.teamRepo.FindMembers(ctx, team.ID)
	if err != nil {
		s.log.Error("Failed to get team members", zap.Error(err), zap.String("team_id", teamID))
		return nil, fmt.Errorf("failed to get team members")
	}

	resp := response.TeamToResponse(team, members)
	return &resp, nil
}

func (s *teamService) GetUserTeams(ctx context.Context, userID uuid.UUID) ([]response.TeamResponse, error) {
	teams, err := s.teamRepo.FindByMemberID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to get user teams", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get teams")
	}

	out := make([]response.TeamResponse, 0, len(teams))
	for _, t := range teams {
		out = append(out, response.TeamToResponse(t, nil))
	}
	return out, nil
}

func (s *teamService) JoinTeam(ctx context.Context, userID uuid.UUID, teamID string) (*response.TeamResponse, error) {
	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	member, err := s.teamRepo.IsMember(ctx, team.ID, userID)
	if err != nil {
		s.log.Error("Failed to check team membership", zap.Error(err), zap.String("team_id", teamID))
		return nil, fmt.Errorf("failed to join team")
	}
	if member {
		return nil, fmt.Errorf("already a member of team %s", teamID)
	}

	if err := s.teamRepo.AddMember(ctx, &entity.TeamMember{
		TeamID:   team.ID,
		UserID:   userID,
		Role:     entity.TeamRoleMember,
		JoinedAt: time.Now(),
	}); err != nil {
		s.log.Error("Failed to add team member", zap.Error(err), zap.String("team_id", teamID))
		return nil, fmt.Errorf("failed to join team")
	}

	s.log.Info("User joined team", zap.String("team_id", teamID), zap.String("user_id", userID.String()))
	return s.GetTeam(ctx, teamID)
}

func (s *teamService) LeaveTeam(ctx context.Context, userID uuid.UUID, teamID string) error {
	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return err
	}

	if team.CaptainID == userID {
		return fmt.Errorf("cannot leave team: the captain cannot leave")
	}

	if err := s.teamRepo.RemoveMember(ctx, team.ID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		s.log.Error("Failed to leave team", zap.Error(err), zap.String("team_id", teamID))
		return fmt.Errorf("failed to leave team")
	}

	s.log.Info("User left team", zap.String("team_id", teamID), zap.String("user_id", userID.String()))
	return nil
}

func (s *teamService) findTeam(ctx context.Context, teamID string) (*entity.Team, error) {
	id, err := parseID(teamID, "team")
	if err != nil {
		return nil, err
	}

	team, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get team", zap.Error(err), zap.String("team_id", teamID))
		return nil, fmt.Errorf("failed to get team")
	}
	if team == nil {
		return nil, fmt.Errorf("team %s not found", teamID)
	}
	return team, nil
}
