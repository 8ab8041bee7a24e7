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

// sessionRetention keeps expired and revoked rows around for a week of audit
const sessionRetention = "7 days"

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	FindValidSession(ctx context.Context, token string) (*entity.Session, error)
	Revoke(ctx context.Context, token string) error
	RevokeByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CleanExpiredSessions(ctx context.Context) (int64, error)
}

type sessionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSessionRepository(db database.PgxIface, log *zap.Logger) SessionRepository {
	return &sessionRepository{
		db:  db,
		log: log.With(zap.String("repository", "session")),
	}
}

// tokenHint keeps bearer tokens out of the logs
func tokenHint(token string) zap.Field {
	if len(token) > 8 {
		token = token[:8] + "****"
	}
	return zap.String("token", token)
}

func (r *sessionRepository) Create(ctx context.Context, session *entity.Session) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO sessions (id, user_id, token, user_agent, ip_address, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		session.ID, session.UserID, session.Token,
		session.UserAgent, session.IPAddress,
		session.ExpiresAt, session.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to store login session",
			zap.Error(err),
			zap.String("user_id", session.UserID.String()))
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// FindValidSession returns nil when the token is unknown, revoked or expired
func (r *sessionRepository) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	var s entity.Session
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, token, user_agent, ip_address, expires_at, revoked_at, created_at
		FROM sessions
		WHERE token = $1 AND revoked_at IS NULL AND expires_at > NOW()`,
		token,
	).Scan(&s.ID, &s.UserID, &s.Token, &s.UserAgent, &s.IPAddress, &s.ExpiresAt, &s.RevokedAt, &s.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to look up session", zap.Error(err), tokenHint(token))
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	return &s, nil
}

func (r *sessionRepository) Revoke(ctx context.Context, token string) error {
	result, err := r.db.Exec(ctx, `
		UPDATE sessions SET revoked_at = NOW()
		WHERE token = $1 AND revoked_at IS NULL`,
		token,
	)
	if err != nil {
		r.log.Error("Failed to revoke session", zap.Error(err), tokenHint(token))
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("session %w", ErrNotFound)
	}

	return nil
}

// RevokeByUser signs a player out everywhere and reports how many sessions ended
func (r *sessionRepository) RevokeByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := r.db.Exec(ctx, `
		UPDATE sessions SET revoked_at = NOW()
		WHERE user_id = $1 AND revoked_at IS NULL`,
		userID,
	)
	if err != nil {
		r.log.Error("Failed to revoke user sessions",
			zap.Error(err),
			zap.String("user_id", userID.String()))
		return 0, fmt.Errorf("failed to revoke sessions: %w", err)
	}

	return result.RowsAffected(), nil
}

// CleanExpiredSessions drops rows that expired or were revoked before the retention window
func (r *sessionRepository) CleanExpiredSessions(ctx context.Context) (int64, error) {
	result, err := r.db.Exec(ctx, `
		DELETE FROM sessions
		WHERE expires_at < NOW() - INTERVAL '`+sessionRetention+`'
		   OR revoked_at < NOW() - INTERVAL '`+sessionRetention+`'`)
	if err != nil {
		r.log.Error("Failed to clean expired sessions", zap.Error(err))
		return 0, fmt.Errorf("failed to clean sessions: %w", err)
	}

	return result.RowsAffected(), nil
}
