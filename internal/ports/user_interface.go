package ports

import (
	"context"

	"github.com/jmoiron/sqlx"

	"rolodrawer/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error)
	FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*model.User, error)
	FindByLogin(ctx context.Context, exec sqlx.ExtContext, login string) (*model.User, error)
	UpdateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) error
	UpdatePassword(ctx context.Context, exec sqlx.ExtContext, id int64, newPasswordHash string) error
	SetStatus(ctx context.Context, exec sqlx.ExtContext, id int64, status string) error
	ListUsers(ctx context.Context, exec sqlx.ExtContext, limit, offset int) ([]*model.User, error)
	Exists(ctx context.Context, exec sqlx.ExtContext, id int64) (bool, error)
}

type UserService interface {
	Register(ctx context.Context, actor model.Actor, login, name, password, role string) (*model.User, error)
	GetUser(ctx context.Context, actor model.Actor, id int64) (*model.User, error)
	UpdateUser(ctx context.Context, actor model.Actor, updatedUser *model.User) error
	UpdatePassword(ctx context.Context, actor model.Actor, id int64, newPassword string) error
	Deactivate(ctx context.Context, actor model.Actor, id int64) error
	ListUsers(ctx context.Context, actor model.Actor, page, perPage int) ([]*model.User, error)
}
