package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"rolodrawer/config"
	"rolodrawer/internal/apperrors"
	"rolodrawer/internal/model"
	"rolodrawer/internal/util"
)

const userColumns = `id, login, name, password_hash, role, status, created_at`

type UserRepository struct {
	*config.Database
}

func NewUserRepository(database *config.Database) *UserRepository {
	return &UserRepository{database}
}

func (r *UserRepository) CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error) {
	query := `
		INSERT INTO users (login, name, password_hash, role, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	created := &model.User{}
	err := exec.QueryRowxContext(ctx, query,
		user.Login, user.Name, user.PasswordHash, user.Role, user.Status,
	).StructScan(created)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: логин %q уже занят", apperrors.ErrValidation, user.Login)
		}
		return nil, util.LogError("[UserRepo] ошибка создания пользователя", err)
	}
	return created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*model.User, error) {
	return r.findOne(ctx, exec, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) FindByLogin(ctx context.Context, exec sqlx.ExtContext, login string) (*model.User, error) {
	return r.findOne(ctx, exec, `SELECT `+userColumns+` FROM users WHERE login = $1`, login)
}

func (r *UserRepository) findOne(ctx context.Context, exec sqlx.ExtContext, query string, arg interface{}) (*model.User, error) {
	var user model.User
	if err := sqlx.GetContext(ctx, exec, &user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, util.LogError("[UserRepo] ошибка чтения пользователя", err)
	}
	return &user, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) error {
	query := `UPDATE users SET name = $2, role = $3 WHERE id = $1`

	result, err := exec.ExecContext(ctx, query, user.ID, user.Name, user.Role)
	if err != nil {
		return util.LogError("[UserRepo] ошибка обновления пользователя", err)
	}
	return requireRow(result, "[UserRepo] ошибка обновления пользователя")
}

func (r *UserRepository) UpdatePassword(ctx context.Context, exec sqlx.ExtContext, id int64, newPasswordHash string) error {
	result, err := exec.ExecContext(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, newPasswordHash)
	if err != nil {
		return util.LogError("[UserRepo] ошибка смены пароля", err)
	}
	return requireRow(result, "[UserRepo] ошибка смены пароля")
}

func (r *UserRepository) SetStatus(ctx context.Context, exec sqlx.ExtContext, id int64, status string) error {
	result, err := exec.ExecContext(ctx, `UPDATE users SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return util.LogError("[UserRepo] ошибка смены статуса пользователя", err)
	}
	return requireRow(result, "[UserRepo] ошибка смены статуса пользователя")
}

func (r *UserRepository) ListUsers(ctx context.Context, exec sqlx.ExtContext, limit, offset int) ([]*model.User, error) {
	users := []*model.User{}
	query := `SELECT ` + userColumns + ` FROM users ORDER BY login LIMIT $1 OFFSET $2`
	if err := sqlx.SelectContext(ctx, exec, &users, query, limit, offset); err != nil {
		return nil, util.LogError("[UserRepo] ошибка чтения списка пользователей", err)
	}
	return users, nil
}

func (r *UserRepository) Exists(ctx context.Context, exec sqlx.ExtContext, id int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`
	if err := sqlx.GetContext(ctx, exec, &exists, query, id); err != nil {
		return false, util.LogError("[UserRepo] ошибка проверки пользователя", err)
	}
	return exists, nil
}

func requireRow(result sql.Result, logMessage string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return util.LogError(logMessage, err)
	}
	if rows == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
