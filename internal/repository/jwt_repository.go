package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"rolodrawer/config"
	"rolodrawer/internal/apperrors"
	"rolodrawer/internal/model"
	"rolodrawer/internal/util"
)

const refreshTokenColumns = `uuid, user_id, token_hash, expire_at, used, user_agent, ip_address, created_at`

// JWTRepository хранит refresh-токены. Токены не удаляются, а помечаются
// использованными тем же условным UPDATE, что и флаги дел.
type JWTRepository struct {
	*config.Database
}

func NewJWTRepository(database *config.Database) *JWTRepository {
	return &JWTRepository{database}
}

func (r *JWTRepository) SaveRefreshToken(ctx context.Context, refreshToken *model.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (uuid, user_id, token_hash, expire_at, used, user_agent, ip_address)
		VALUES (:uuid, :user_id, :token_hash, :expire_at, :used, :user_agent, :ip_address)`

	_, err := sqlx.NamedExecContext(ctx, r.DB, query, refreshToken)
	if err != nil {
		return util.LogError("[JWTRepo] ошибка сохранения refresh-токена", err)
	}
	return nil
}

func (r *JWTRepository) FindByUUID(ctx context.Context, refreshTokenUUID string) (*model.RefreshToken, error) {
	query := `SELECT ` + refreshTokenColumns + ` FROM refresh_tokens WHERE uuid = $1`

	var refreshToken model.RefreshToken
	err := sqlx.GetContext(ctx, r.DB, &refreshToken, query, refreshTokenUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, util.LogError("[JWTRepo] ошибка чтения refresh-токена", err)
	}
	return &refreshToken, nil
}

// MarkRefreshTokenUsedByUUID деактивирует токен. Ошибка ErrNotFound
// означает, что токен не существует либо уже был использован.
func (r *JWTRepository) MarkRefreshTokenUsedByUUID(ctx context.Context, refreshTokenUUID string) error {
	query := `UPDATE refresh_tokens SET used = TRUE WHERE uuid = $1 AND used = FALSE`

	result, err := r.DB.ExecContext(ctx, query, refreshTokenUUID)
	if err != nil {
		return util.LogError("[JWTRepo] не удалось деактивировать refresh-токен", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[JWTRepo] не удалось проверить деактивацию токена", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// RevokeAllForUser деактивирует все живые токены пользователя.
// Вызывается при отключении учётной записи.
func (r *JWTRepository) RevokeAllForUser(ctx context.Context, userID int64) error {
	query := `UPDATE refresh_tokens SET used = TRUE WHERE user_id = $1 AND used = FALSE`

	_, err := r.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return util.LogError("[JWTRepo] не удалось отозвать refresh-токены пользователя", err)
	}
	return nil
}
