package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"rolodrawer/config"
	"rolodrawer/internal/apperrors"
	"rolodrawer/internal/model"
	"rolodrawer/internal/util"
)

const fileColumns = `id, uuid, display_number, name, description, sensitivity, owner_id,
		current_drawer_id, position_vertical, position_horizontal, expiration_date,
		is_checked_out, checked_out_by, checked_out_at, expected_return_date,
		is_archived, archived_at, archived_by, archived_reason,
		is_destroyed, destroyed_at, destroyed_by, destruction_method,
		created_at, updated_at`

type FileRepository struct {
	*config.Database
}

func NewFileRepository(database *config.Database) *FileRepository {
	return &FileRepository{database}
}

// Create : сохраняет новое дело. Дубликат display_number превращается
// в ошибку валидации.
func (r *FileRepository) Create(ctx context.Context, exec sqlx.ExtContext, file *model.File) (*model.File, error) {
	query := `
		INSERT INTO files (uuid, display_number, name, description, sensitivity, owner_id,
			current_drawer_id, position_vertical, position_horizontal, expiration_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + fileColumns

	created := &model.File{}
	err := exec.QueryRowxContext(ctx, query,
		file.UUID, file.DisplayNumber, file.Name, file.Description, file.Sensitivity,
		file.OwnerID, file.CurrentDrawerID, file.PositionVertical, file.PositionHorizontal,
		file.ExpirationDate,
	).StructScan(created)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: номер дела %q уже используется", apperrors.ErrValidation, file.DisplayNumber)
		}
		return nil, util.LogError("[FileRepo] ошибка вставки дела в БД", err)
	}

	return created, nil
}

func (r *FileRepository) GetByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*model.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1`
	return r.getOne(ctx, exec, query, id)
}

// GetByIDForUpdate читает строку дела с блокировкой до конца транзакции.
// Вызывается только внутри транзакции.
func (r *FileRepository) GetByIDForUpdate(ctx context.Context, exec sqlx.ExtContext, id int64) (*model.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, exec, query, id)
}

// GetByUUID : поиск по внешнему идентификатору (QR-код)
func (r *FileRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE uuid = $1`
	return r.getOne(ctx, exec, query, uuid)
}

// GetByDisplayNumber : поиск по номеру, напечатанному на обложке дела
func (r *FileRepository) GetByDisplayNumber(ctx context.Context, exec sqlx.ExtContext, displayNumber string) (*model.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE display_number = $1`
	return r.getOne(ctx, exec, query, displayNumber)
}

func (r *FileRepository) getOne(ctx context.Context, exec sqlx.ExtContext, query string, arg interface{}) (*model.File, error) {
	var file model.File
	err := sqlx.GetContext(ctx, exec, &file, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, util.LogError("[FileRepo] ошибка чтения дела", err)
	}
	return &file, nil
}

// buildFileWhere собирает WHERE-условие и аргументы по фильтрам
func buildFileWhere(filters model.FileFilters) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	add := func(condition string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if filters.OwnerID != nil {
		add("f.owner_id = $%d", *filters.OwnerID)
	}
	if filters.DrawerID != nil {
		add("f.current_drawer_id = $%d", *filters.DrawerID)
	}
	if filters.Sensitivity != nil {
		add("f.sensitivity = $%d", *filters.Sensitivity)
	}
	if filters.CheckedOut != nil {
		add("f.is_checked_out = $%d", *filters.CheckedOut)
	}
	if filters.Archived != nil {
		add("f.is_archived = $%d", *filters.Archived)
	}
	if filters.Destroyed != nil {
		add("f.is_destroyed = $%d", *filters.Destroyed)
	}
	if filters.TagID != nil {
		add("EXISTS (SELECT 1 FROM file_tags ft WHERE ft.file_id = f.id AND ft.tag_id = $%d)", *filters.TagID)
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(f.display_number ILIKE $%d OR f.name ILIKE $%d)", n, n))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	return where, args
}

// List : список дел с фильтрами и постраничным выводом.
// Вторым результатом возвращается общее число дел под фильтрами.
func (r *FileRepository) List(ctx context.Context, exec sqlx.ExtContext, filters model.FileFilters, limit, offset int) ([]model.File, int, error) {
	where, args := buildFileWhere(filters)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM files f %s`, where)
	if err := sqlx.GetContext(ctx, exec, &total, countQuery, args...); err != nil {
		return nil, 0, util.LogError("[FileRepo] ошибка подсчёта дел", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM files f
		%s
		ORDER BY f.display_number ASC
		LIMIT $%d OFFSET $%d`,
		fileColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	files := []model.File{}
	if err := sqlx.SelectContext(ctx, exec, &files, query, args...); err != nil {
		return nil, 0, util.LogError("[FileRepo] ошибка получения списка дел", err)
	}

	return files, total, nil
}

// UpdateMetadata : обновляет описательные поля дела. Размещение и флаги
// жизненного цикла меняются отдельными методами.
func (r *FileRepository) UpdateMetadata(ctx context.Context, exec sqlx.ExtContext, file *model.File) error {
	query := `
		UPDATE files
		SET name = $2, description = $3, sensitivity = $4, owner_id = $5,
			expiration_date = $6, updated_at = NOW()
		WHERE id = $1`

	result, err := exec.ExecContext(ctx, query,
		file.ID, file.Name, file.Description, file.Sensitivity, file.OwnerID, file.ExpirationDate)
	if err != nil {
		return util.LogError("[FileRepo] не удалось обновить дело", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[FileRepo] не удалось проверить обновление дела", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *FileRepository) UpdateLocation(ctx context.Context, exec sqlx.ExtContext, fileID int64, drawerID *int64, posVertical, posHorizontal *string) error {
	query := `
		UPDATE files
		SET current_drawer_id = $2, position_vertical = $3, position_horizontal = $4, updated_at = NOW()
		WHERE id = $1`

	result, err := exec.ExecContext(ctx, query, fileID, drawerID, posVertical, posHorizontal)
	if err != nil {
		return util.LogError("[FileRepo] не удалось обновить размещение дела", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[FileRepo] не удалось проверить обновление размещения", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetCheckedOut : условная установка флага выдачи (compare-and-swap).
// false без ошибки означает, что флаг уже был установлен параллельным
// запросом или дело уничтожено.
func (r *FileRepository) SetCheckedOut(ctx context.Context, exec sqlx.ExtContext, fileID, userID int64, at time.Time, expectedReturn time.Time) (bool, error) {
	query := `
		UPDATE files
		SET is_checked_out = TRUE, checked_out_by = $2, checked_out_at = $3,
			expected_return_date = $4, updated_at = $3
		WHERE id = $1 AND is_checked_out = FALSE AND is_destroyed = FALSE`

	return r.execCAS(ctx, exec, query, fileID, userID, at, expectedReturn)
}

func (r *FileRepository) ClearCheckedOut(ctx context.Context, exec sqlx.ExtContext, fileID int64) (bool, error) {
	query := `
		UPDATE files
		SET is_checked_out = FALSE, checked_out_by = NULL, checked_out_at = NULL,
			expected_return_date = NULL, updated_at = NOW()
		WHERE id = $1 AND is_checked_out = TRUE`

	return r.execCAS(ctx, exec, query, fileID)
}

func (r *FileRepository) SetArchived(ctx context.Context, exec sqlx.ExtContext, fileID, byUserID int64, at time.Time, reason string) (bool, error) {
	query := `
		UPDATE files
		SET is_archived = TRUE, archived_at = $3, archived_by = $2, archived_reason = $4, updated_at = $3
		WHERE id = $1 AND is_archived = FALSE AND is_destroyed = FALSE`

	return r.execCAS(ctx, exec, query, fileID, byUserID, at, reason)
}

func (r *FileRepository) ClearArchived(ctx context.Context, exec sqlx.ExtContext, fileID int64) (bool, error) {
	query := `
		UPDATE files
		SET is_archived = FALSE, archived_at = NULL, archived_by = NULL, archived_reason = NULL, updated_at = NOW()
		WHERE id = $1 AND is_archived = TRUE AND is_destroyed = FALSE`

	return r.execCAS(ctx, exec, query, fileID)
}

// SetDestroyed : уничтожение достижимо только из архива, условие
// is_archived = TRUE входит в сам UPDATE.
func (r *FileRepository) SetDestroyed(ctx context.Context, exec sqlx.ExtContext, fileID, byUserID int64, at time.Time, method string) (bool, error) {
	query := `
		UPDATE files
		SET is_destroyed = TRUE, destroyed_at = $3, destroyed_by = $2, destruction_method = $4, updated_at = $3
		WHERE id = $1 AND is_destroyed = FALSE AND is_archived = TRUE`

	return r.execCAS(ctx, exec, query, fileID, byUserID, at, method)
}

func (r *FileRepository) ClearDestroyed(ctx context.Context, exec sqlx.ExtContext, fileID int64) (bool, error) {
	query := `
		UPDATE files
		SET is_destroyed = FALSE, destroyed_at = NULL, destroyed_by = NULL, destruction_method = NULL, updated_at = NOW()
		WHERE id = $1 AND is_destroyed = TRUE`

	return r.execCAS(ctx, exec, query, fileID)
}

func (r *FileRepository) execCAS(ctx context.Context, exec sqlx.ExtContext, query string, args ...interface{}) (bool, error) {
	result, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return false, util.LogError("[FileRepo] ошибка условного обновления флага", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, util.LogError("[FileRepo] не удалось проверить условное обновление", err)
	}
	return rowsAffected == 1, nil
}

func (r *FileRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	return tx, func() error { return tx.Rollback() }, func() error { return tx.Commit() }, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
