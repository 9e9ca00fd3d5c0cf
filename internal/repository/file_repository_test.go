package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rolodrawer/config"
	"rolodrawer/internal/apperrors"
	"rolodrawer/internal/model"
	"rolodrawer/internal/repository"
)

var fileRows = []string{
	"id", "uuid", "display_number", "name", "description", "sensitivity", "owner_id",
	"current_drawer_id", "position_vertical", "position_horizontal", "expiration_date",
	"is_checked_out", "checked_out_by", "checked_out_at", "expected_return_date",
	"is_archived", "archived_at", "archived_by", "archived_reason",
	"is_destroyed", "destroyed_at", "destroyed_by", "destruction_method",
	"created_at", "updated_at",
}

func newFileRepository(t *testing.T) (*repository.FileRepository, sqlmock.Sqlmock, *sqlx.DB) {
	t.Helper()
	db, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return repository.NewFileRepository(&config.Database{DB: sqlxDB}), mockDB, sqlxDB
}

func fileRow(id int64, displayNumber string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(fileRows).AddRow(
		id, "8e9d9a2e-0000-0000-0000-000000000001", displayNumber, "Договор аренды", "", "internal", int64(2),
		nil, nil, nil, nil,
		false, nil, nil, nil,
		false, nil, nil, nil,
		false, nil, nil, nil,
		now, now,
	)
}

func TestFileRepository_GetByID(t *testing.T) {
	repo, mockDB, db := newFileRepository(t)
	defer db.Close()

	mockDB.ExpectQuery("SELECT (.+) FROM files WHERE id = \\$1").
		WithArgs(int64(10)).
		WillReturnRows(fileRow(10, "2024-0001"))

	file, err := repo.GetByID(context.Background(), db, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(10), file.ID)
	assert.Equal(t, "2024-0001", file.DisplayNumber)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestFileRepository_GetByID_NotFound(t *testing.T) {
	repo, mockDB, db := newFileRepository(t)
	defer db.Close()

	mockDB.ExpectQuery("SELECT (.+) FROM files WHERE id = \\$1").
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(fileRows))

	_, err := repo.GetByID(context.Background(), db, 404)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFileRepository_GetByIDForUpdate_LocksRow(t *testing.T) {
	repo, mockDB, db := newFileRepository(t)
	defer db.Close()

	mockDB.ExpectQuery("SELECT (.+) FROM files WHERE id = \\$1 FOR UPDATE").
		WithArgs(int64(10)).
		WillReturnRows(fileRow(10, "2024-0001"))

	_, err := repo.GetByIDForUpdate(context.Background(), db, 10)

	require.NoError(t, err)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestFileRepository_Create_DuplicateNumber(t *testing.T) {
	repo, mockDB, db := newFileRepository(t)
	defer db.Close()

	mockDB.ExpectQuery("INSERT INTO files").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), db, &model.File{
		UUID:          "8e9d9a2e-0000-0000-0000-000000000001",
		DisplayNumber: "2024-0001",
		Name:          "Договор аренды",
		Sensitivity:   "internal",
		OwnerID:       2,
	})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

// Условная установка флага выдачи: строка затронута только если
// флаг ещё не стоял и дело не уничтожено.
func TestFileRepository_SetCheckedOut_CAS(t *testing.T) {
	repo, mockDB, db := newFileRepository(t)
	defer db.Close()

	at := time.Now()
	due := at.Add(7 * 24 * time.Hour)

	query := regexp.QuoteMeta("WHERE id = $1 AND is_checked_out = FALSE AND is_destroyed = FALSE")
	mockDB.ExpectExec("UPDATE files(.|\\s)+" + query).
		WithArgs(int64(10), int64(2), at, due).
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := repo.SetCheckedOut(context.Background(), db, 10, 2, at, due)

	require.NoError(t, err)
	assert.True(t, updated)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestFileRepository_SetCheckedOut_AlreadySet(t *testing.T) {
	repo, mockDB, db := newFileRepository(t)
	defer db.Close()

	at := time.Now()
	mockDB.ExpectExec("UPDATE files").
		WithArgs(int64(10), int64(2), at, at).
		WillReturnResult(sqlmock.NewResult(0, 0))

	updated, err := repo.SetCheckedOut(context.Background(), db, 10, 2, at, at)

	require.NoError(t, err)
	assert.False(t, updated)
}

// Уничтожение требует архивного состояния прямо в условии UPDATE
func TestFileRepository_SetDestroyed_RequiresArchived(t *testing.T) {
	repo, mockDB, db := newFileRepository(t)
	defer db.Close()

	at := time.Now()
	query := regexp.QuoteMeta("WHERE id = $1 AND is_destroyed = FALSE AND is_archived = TRUE")
	mockDB.ExpectExec("UPDATE files(.|\\s)+" + query).
		WithArgs(int64(20), int64(1), at, "шредирование").
		WillReturnResult(sqlmock.NewResult(0, 0))

	updated, err := repo.SetDestroyed(context.Background(), db, 20, 1, at, "шредирование")

	require.NoError(t, err)
	assert.False(t, updated)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestFileRepository_ClearDestroyed(t *testing.T) {
	repo, mockDB, db := newFileRepository(t)
	defer db.Close()

	query := regexp.QuoteMeta("WHERE id = $1 AND is_destroyed = TRUE")
	mockDB.ExpectExec("UPDATE files(.|\\s)+" + query).
		WithArgs(int64(20)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := repo.ClearDestroyed(context.Background(), db, 20)

	require.NoError(t, err)
	assert.True(t, updated)
}

func TestFileRepository_List_WithFilters(t *testing.T) {
	repo, mockDB, db := newFileRepository(t)
	defer db.Close()

	archived := true
	filters := model.FileFilters{Archived: &archived, Search: "аренда"}

	mockDB.ExpectQuery("SELECT COUNT\\(\\*\\) FROM files f WHERE f.is_archived = \\$1").
		WithArgs(true, "%аренда%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mockDB.ExpectQuery("SELECT (.+) FROM files f").
		WithArgs(true, "%аренда%", 25, 0).
		WillReturnRows(fileRow(10, "2024-0001"))

	files, total, err := repo.List(context.Background(), db, filters, 25, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, files, 1)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestFileRepository_UpdateMetadata_NotFound(t *testing.T) {
	repo, mockDB, db := newFileRepository(t)
	defer db.Close()

	mockDB.ExpectExec("UPDATE files").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateMetadata(context.Background(), db, &model.File{ID: 404, Name: "дело", Sensitivity: "public"})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
