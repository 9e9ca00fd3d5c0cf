package ports

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"rolodrawer/internal/model"
)

// FileRepository : SQL слой таблицы files.
// Методы-переключатели флагов выполняют условный UPDATE и возвращают,
// была ли затронута строка (compare-and-swap по флагу).
type FileRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, file *model.File) (*model.File, error)
	GetByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*model.File, error)
	// GetByIDForUpdate читает строку с блокировкой (SELECT ... FOR UPDATE)
	GetByIDForUpdate(ctx context.Context, exec sqlx.ExtContext, id int64) (*model.File, error)
	GetByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.File, error)
	GetByDisplayNumber(ctx context.Context, exec sqlx.ExtContext, displayNumber string) (*model.File, error)
	List(ctx context.Context, exec sqlx.ExtContext, filters model.FileFilters, limit, offset int) ([]model.File, int, error)
	UpdateMetadata(ctx context.Context, exec sqlx.ExtContext, file *model.File) error
	UpdateLocation(ctx context.Context, exec sqlx.ExtContext, fileID int64, drawerID *int64, posVertical, posHorizontal *string) error

	SetCheckedOut(ctx context.Context, exec sqlx.ExtContext, fileID, userID int64, at time.Time, expectedReturn time.Time) (bool, error)
	ClearCheckedOut(ctx context.Context, exec sqlx.ExtContext, fileID int64) (bool, error)
	SetArchived(ctx context.Context, exec sqlx.ExtContext, fileID, byUserID int64, at time.Time, reason string) (bool, error)
	ClearArchived(ctx context.Context, exec sqlx.ExtContext, fileID int64) (bool, error)
	SetDestroyed(ctx context.Context, exec sqlx.ExtContext, fileID, byUserID int64, at time.Time, method string) (bool, error)
	ClearDestroyed(ctx context.Context, exec sqlx.ExtContext, fileID int64) (bool, error)

	BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error)
}

// FileService : операции каталога дел (без переходов жизненного цикла)
type FileService interface {
	CreateFile(ctx context.Context, actor model.Actor, file *model.File, initialNotes string) (*model.File, error)
	GetFile(ctx context.Context, actor model.Actor, fileID int64) (*model.File, error)
	GetFileByUUID(ctx context.Context, actor model.Actor, uuid string) (*model.File, error)
	GetFileByNumber(ctx context.Context, actor model.Actor, displayNumber string) (*model.File, error)
	ListFiles(ctx context.Context, actor model.Actor, filters model.FileFilters, page int) ([]model.File, int, error)
	UpdateFile(ctx context.Context, actor model.Actor, fileID int64, updated *model.File) (*model.File, error)
	CreateTag(ctx context.Context, actor model.Actor, name, color string) (*model.Tag, error)
	Tags(ctx context.Context) ([]model.Tag, error)
	ListTags(ctx context.Context, fileID int64) ([]model.Tag, error)
	AssignTag(ctx context.Context, actor model.Actor, fileID, tagID int64) error
	RemoveTag(ctx context.Context, actor model.Actor, fileID, tagID int64) error
}
