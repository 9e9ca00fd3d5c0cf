package ports

import (
	"context"

	"rolodrawer/internal/model"
	"rolodrawer/internal/security"
)

type JWTRepositoryInterface interface {
	FindByUUID(ctx context.Context, uuid string) (*model.RefreshToken, error)
	MarkRefreshTokenUsedByUUID(ctx context.Context, uuid string) error
	SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error
	// RevokeAllForUser деактивирует все живые токены пользователя
	RevokeAllForUser(ctx context.Context, userID int64) error
}

type JWTServiceInterface interface {
	GenerateAccessRefreshTokens(user *model.User) (*model.TokensPair, *model.RefreshToken, error)
	ValidateJWT(tokenString string, secret []byte) (*security.Claims, error)
}
