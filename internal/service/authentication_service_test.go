package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rolodrawer/config"
	"rolodrawer/internal/apperrors"
	"rolodrawer/internal/model"
	"rolodrawer/internal/security"
	"rolodrawer/internal/service"
)

type MockJWTRepository struct{ mock.Mock }

func (m *MockJWTRepository) FindByUUID(ctx context.Context, uuid string) (*model.RefreshToken, error) {
	args := m.Called(ctx, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshToken), args.Error(1)
}

func (m *MockJWTRepository) MarkRefreshTokenUsedByUUID(ctx context.Context, uuid string) error {
	return m.Called(ctx, uuid).Error(0)
}

func (m *MockJWTRepository) SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockJWTRepository) RevokeAllForUser(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

type MockJWTService struct{ mock.Mock }

func (m *MockJWTService) GenerateAccessRefreshTokens(user *model.User) (*model.TokensPair, *model.RefreshToken, error) {
	args := m.Called(user)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.TokensPair), args.Get(1).(*model.RefreshToken), args.Error(2)
}

func (m *MockJWTService) ValidateJWT(tokenString string, secret []byte) (*security.Claims, error) {
	args := m.Called(tokenString, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.Claims), args.Error(1)
}

type MockRateLimiter struct{ mock.Mock }

func (m *MockRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockRateLimiter) RegisterFailedLogin(ctx context.Context, login string, threshold int, lockout time.Duration) (bool, error) {
	args := m.Called(ctx, login, threshold, lockout)
	return args.Bool(0), args.Error(1)
}

func (m *MockRateLimiter) IsLockedOut(ctx context.Context, login string) (bool, error) {
	args := m.Called(ctx, login)
	return args.Bool(0), args.Error(1)
}

func (m *MockRateLimiter) ResetFailedLogins(ctx context.Context, login string) error {
	return m.Called(ctx, login).Error(0)
}

func newTestAuthenticationService() (*service.AuthenticationService, *MockJWTRepository, *MockJWTService, *MockUserRepository, *MockRateLimiter) {
	jwtRepo := new(MockJWTRepository)
	jwtService := new(MockJWTService)
	userRepo := new(MockUserRepository)
	rateLimiter := new(MockRateLimiter)

	cfg := &config.AppConfig{
		JWT: config.JWTConfig{SecretKey: "test-secret"},
		RateLimit: config.RateLimitConfig{
			FailedLoginThreshold: 5,
			LockoutSeconds:       900,
		},
	}

	svc := service.NewAuthenticationService(jwtRepo, cfg, jwtService, userRepo, rateLimiter, &config.Database{})
	return svc, jwtRepo, jwtService, userRepo, rateLimiter
}

func activeUser(t *testing.T, password string) *model.User {
	t.Helper()
	hash, err := security.HashPassword(password)
	require.NoError(t, err)
	return &model.User{
		ID:           7,
		Login:        "i.petrov",
		PasswordHash: hash,
		Role:         model.RoleUser,
		Status:       model.UserStatusActive,
	}
}

func TestLogin_Success(t *testing.T) {
	svc, jwtRepo, jwtService, userRepo, rateLimiter := newTestAuthenticationService()
	ctx := context.Background()
	user := activeUser(t, "Sup3rSecret")

	rateLimiter.On("IsLockedOut", mock.Anything, "i.petrov").Return(false, nil)
	userRepo.On("FindByLogin", mock.Anything, mock.Anything, "i.petrov").Return(user, nil)
	rateLimiter.On("ResetFailedLogins", mock.Anything, "i.petrov").Return(nil)
	jwtService.On("GenerateAccessRefreshTokens", user).
		Return(&model.TokensPair{AccessToken: "access", RefreshToken: "refresh"}, &model.RefreshToken{UUID: "rt-uuid"}, nil)
	jwtRepo.On("SaveRefreshToken", mock.Anything, mock.MatchedBy(func(rt *model.RefreshToken) bool {
		return rt.UserAgent == "Mozilla/5.0" && rt.IpAddress == "10.0.0.1"
	})).Return(nil)

	tokens, err := svc.Login(ctx, "i.petrov", "Sup3rSecret", "Mozilla/5.0", "10.0.0.1")

	require.NoError(t, err)
	assert.Equal(t, "access", tokens.AccessToken)
	rateLimiter.AssertExpectations(t)
	jwtRepo.AssertExpectations(t)
}

func TestLogin_WrongPasswordCountsFailure(t *testing.T) {
	svc, _, _, userRepo, rateLimiter := newTestAuthenticationService()
	user := activeUser(t, "Sup3rSecret")

	rateLimiter.On("IsLockedOut", mock.Anything, "i.petrov").Return(false, nil)
	userRepo.On("FindByLogin", mock.Anything, mock.Anything, "i.petrov").Return(user, nil)
	rateLimiter.On("RegisterFailedLogin", mock.Anything, "i.petrov", 5, 900*time.Second).Return(false, nil)

	_, err := svc.Login(context.Background(), "i.petrov", "неверный", "Mozilla/5.0", "10.0.0.1")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	rateLimiter.AssertExpectations(t)
}

func TestLogin_UnknownLoginCountsFailure(t *testing.T) {
	svc, _, _, userRepo, rateLimiter := newTestAuthenticationService()

	rateLimiter.On("IsLockedOut", mock.Anything, "ghost").Return(false, nil)
	userRepo.On("FindByLogin", mock.Anything, mock.Anything, "ghost").Return(nil, apperrors.ErrNotFound)
	rateLimiter.On("RegisterFailedLogin", mock.Anything, "ghost", 5, 900*time.Second).Return(false, nil)

	_, err := svc.Login(context.Background(), "ghost", "любой", "Mozilla/5.0", "10.0.0.1")

	// наружу уходит тот же ответ, что и при неверном пароле
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLogin_LockedOut(t *testing.T) {
	svc, _, _, userRepo, rateLimiter := newTestAuthenticationService()

	rateLimiter.On("IsLockedOut", mock.Anything, "i.petrov").Return(true, nil)

	_, err := svc.Login(context.Background(), "i.petrov", "Sup3rSecret", "Mozilla/5.0", "10.0.0.1")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	userRepo.AssertNotCalled(t, "FindByLogin", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_InactiveAccount(t *testing.T) {
	svc, _, _, userRepo, rateLimiter := newTestAuthenticationService()
	user := activeUser(t, "Sup3rSecret")
	user.Status = model.UserStatusInactive

	rateLimiter.On("IsLockedOut", mock.Anything, "i.petrov").Return(false, nil)
	userRepo.On("FindByLogin", mock.Anything, mock.Anything, "i.petrov").Return(user, nil)

	_, err := svc.Login(context.Background(), "i.petrov", "Sup3rSecret", "Mozilla/5.0", "10.0.0.1")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	rateLimiter.AssertNotCalled(t, "RegisterFailedLogin", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRefreshToken_UsedTokenRejected(t *testing.T) {
	svc, jwtRepo, jwtService, _, _ := newTestAuthenticationService()

	jwtService.On("ValidateJWT", "access", []byte("test-secret")).
		Return(&security.Claims{UserID: 7, RefreshTokenUUID: "rt-uuid"}, nil)
	jwtRepo.On("FindByUUID", mock.Anything, "rt-uuid").
		Return(&model.RefreshToken{UUID: "rt-uuid", Used: true}, nil)

	_, err := svc.RefreshToken(context.Background(), "Mozilla/5.0", "10.0.0.1", "access", "refresh")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestRefreshToken_ForeignUserAgentDeactivatesToken(t *testing.T) {
	svc, jwtRepo, jwtService, _, _ := newTestAuthenticationService()

	jwtService.On("ValidateJWT", "access", []byte("test-secret")).
		Return(&security.Claims{UserID: 7, RefreshTokenUUID: "rt-uuid"}, nil)
	jwtRepo.On("FindByUUID", mock.Anything, "rt-uuid").
		Return(&model.RefreshToken{
			UUID:      "rt-uuid",
			ExpireAt:  time.Now().UTC().Add(time.Hour),
			UserAgent: "Mozilla/5.0",
			IpAddress: "10.0.0.1",
		}, nil)
	jwtRepo.On("MarkRefreshTokenUsedByUUID", mock.Anything, "rt-uuid").Return(nil)

	_, err := svc.RefreshToken(context.Background(), "curl/8.0", "10.0.0.1", "access", "refresh")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	jwtRepo.AssertCalled(t, "MarkRefreshTokenUsedByUUID", mock.Anything, "rt-uuid")
}

func TestLogout(t *testing.T) {
	svc, jwtRepo, _, _, _ := newTestAuthenticationService()

	jwtRepo.On("MarkRefreshTokenUsedByUUID", mock.Anything, "rt-uuid").Return(nil)

	err := svc.Logout(context.Background(), "rt-uuid")

	assert.NoError(t, err)
	jwtRepo.AssertExpectations(t)
}
