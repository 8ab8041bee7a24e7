package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthService(users *mockUserRepo, sessions *mockSessionRepo) AuthService {
	config := &utils.Config{
		App:     utils.AppConfig{PhoneRegion: "ID"},
		Session: utils.SessionConfig{TTLHours: 2},
	}
	return NewAuthService(&repository.Repository{User: users, Session: sessions}, config, zap.NewNop())
}

func strPtr(v string) *string { return &v }

func TestRegister(t *testing.T) {
	users := new(mockUserRepo)
	sessions := new(mockSessionRepo)
	users.On("FindByEmail", mock.Anything, "budi@example.com").Return(nil, nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		return u.Role == entity.RolePlayer &&
			u.Phone != nil && *u.Phone == "+62812345678" &&
			u.PasswordHash != "secret123" &&
			utils.CheckPasswordHash("secret123", u.PasswordHash)
	})).Return(nil)
	sessions.On("Create", mock.Anything, mock.MatchedBy(func(s *entity.Session) bool {
		return s.UserAgent != nil && *s.UserAgent == "curl/8.0" && s.IPAddress == nil
	})).Return(nil)

	resp, err := newAuthService(users, sessions).Register(context.Background(), &request.RegisterRequest{
		Name:     "Budi",
		Email:    "  Budi@Example.com ",
		Password: "secret123",
		Phone:    strPtr("0812345678"),
	}, ClientInfo{UserAgent: "curl/8.0"})
	require.NoError(t, err)
	assert.Equal(t, "budi@example.com", resp.Email)
	assert.Equal(t, entity.RolePlayer, resp.Role)
	assert.NotEmpty(t, resp.Token)
	users.AssertExpectations(t)
	sessions.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := new(mockUserRepo)
	users.On("FindByEmail", mock.Anything, "budi@example.com").
		Return(&entity.User{Base: entity.Base{ID: uuid.New()}}, nil)

	_, err := newAuthService(users, new(mockSessionRepo)).Register(context.Background(), &request.RegisterRequest{
		Name:     "Budi",
		Email:    "budi@example.com",
		Password: "secret123",
	}, ClientInfo{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_InvalidPhone(t *testing.T) {
	_, err := newAuthService(new(mockUserRepo), new(mockSessionRepo)).Register(context.Background(), &request.RegisterRequest{
		Name:     "Budi",
		Email:    "budi@example.com",
		Password: "secret123",
		Phone:    strPtr("123456"),
	}, ClientInfo{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid phone number")
}

func TestRegister_ShortPassword(t *testing.T) {
	_, err := newAuthService(new(mockUserRepo), new(mockSessionRepo)).Register(context.Background(), &request.RegisterRequest{
		Name:     "Budi",
		Email:    "budi@example.com",
		Password: "short",
	}, ClientInfo{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLogin(t *testing.T) {
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	user := &entity.User{
		Base:         entity.Base{ID: uuid.New()},
		Name:         "Admin",
		Email:        "admin@example.com",
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
	}

	tests := []struct {
		name     string
		password string
		found    *entity.User
		wantErr  string
	}{
		{"valid credentials", "secret123", user, ""},
		{"wrong password", "nope-nope", user, "invalid credentials"},
		{"unknown email", "secret123", nil, "invalid credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(mockUserRepo)
			sessions := new(mockSessionRepo)
			users.On("FindByEmail", mock.Anything, "admin@example.com").Return(tt.found, nil)
			sessions.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()

			resp, err := newAuthService(users, sessions).Login(context.Background(), &request.LoginRequest{
				Email:    "admin@example.com",
				Password: tt.password,
			}, ClientInfo{IPAddress: "10.0.0.1"})

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, entity.RoleAdmin, resp.Role)
			assert.WithinDuration(t, time.Now().Add(2*time.Hour), resp.ExpiresAt, time.Minute)
			_, parseErr := uuid.Parse(resp.Token)
			assert.NoError(t, parseErr)
		})
	}
}

func TestLogout(t *testing.T) {
	sessions := new(mockSessionRepo)
	token := uuid.NewString()
	sessions.On("Revoke", mock.Anything, token).Return(nil).Once()
	svc := newAuthService(new(mockUserRepo), sessions)

	assert.NoError(t, svc.Logout(context.Background(), token))

	err := svc.Logout(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	sessions.On("Revoke", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()
	err = svc.Logout(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to logout")
}

func TestLogout_AlreadyRevoked(t *testing.T) {
	sessions := new(mockSessionRepo)
	token := uuid.NewString()
	sessions.On("Revoke", mock.Anything, token).Return(fmt.Errorf("session %w", repository.ErrNotFound)).Once()
	svc := newAuthService(new(mockUserRepo), sessions)

	assert.NoError(t, svc.Logout(context.Background(), token))
	sessions.AssertExpectations(t)
}
