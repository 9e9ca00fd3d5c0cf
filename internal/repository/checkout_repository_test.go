package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rolodrawer/config"
	"rolodrawer/internal/model"
	"rolodrawer/internal/repository"
)

func newCheckoutRepository(t *testing.T) (*repository.CheckoutRepository, sqlmock.Sqlmock, *sqlx.DB) {
	t.Helper()
	db, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return repository.NewCheckoutRepository(&config.Database{DB: sqlxDB}), mockDB, sqlxDB
}

func TestCheckoutRepository_InsertEpisode(t *testing.T) {
	repo, mockDB, db := newCheckoutRepository(t)
	defer db.Close()

	at := time.Now()
	due := at.Add(7 * 24 * time.Hour)

	mockDB.ExpectExec("INSERT INTO file_checkouts").
		WithArgs(int64(10), int64(2), at, due, "для сверки").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.InsertEpisode(context.Background(), db, &model.Checkout{
		FileID:             10,
		UserID:             2,
		CheckedOutAt:       at,
		ExpectedReturnDate: due,
		Notes:              "для сверки",
	})

	assert.NoError(t, err)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

// Закрытие затрагивает только открытый эпизод (returned_at IS NULL)
func TestCheckoutRepository_CloseOpen(t *testing.T) {
	repo, mockDB, db := newCheckoutRepository(t)
	defer db.Close()

	at := time.Now()
	query := regexp.QuoteMeta("WHERE file_id = $1 AND returned_at IS NULL")
	mockDB.ExpectExec("UPDATE file_checkouts(.|\\s)+" + query).
		WithArgs(int64(10), at, "всё на месте").
		WillReturnResult(sqlmock.NewResult(0, 1))

	closed, err := repo.CloseOpen(context.Background(), db, 10, at, "всё на месте")

	require.NoError(t, err)
	assert.True(t, closed)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestCheckoutRepository_CloseOpen_NoOpenEpisode(t *testing.T) {
	repo, mockDB, db := newCheckoutRepository(t)
	defer db.Close()

	at := time.Now()
	mockDB.ExpectExec("UPDATE file_checkouts").
		WithArgs(int64(10), at, "").
		WillReturnResult(sqlmock.NewResult(0, 0))

	closed, err := repo.CloseOpen(context.Background(), db, 10, at, "")

	require.NoError(t, err)
	assert.False(t, closed)
}

func TestCheckoutRepository_FindOpenByFile_None(t *testing.T) {
	repo, mockDB, db := newCheckoutRepository(t)
	defer db.Close()

	mockDB.ExpectQuery("SELECT (.+) FROM file_checkouts").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "file_id", "user_id", "checked_out_at", "expected_return_date", "returned_at", "notes"}))

	checkout, err := repo.FindOpenByFile(context.Background(), db, 10)

	require.NoError(t, err)
	assert.Nil(t, checkout)
}

func TestCheckoutRepository_ListOverdue(t *testing.T) {
	repo, mockDB, db := newCheckoutRepository(t)
	defer db.Close()

	asOf := time.Now()
	due := asOf.Add(-72 * time.Hour)

	rows := sqlmock.NewRows([]string{
		"id", "file_id", "user_id", "checked_out_at", "expected_return_date",
		"returned_at", "notes", "display_number", "file_name", "user_login", "days_overdue",
	}).AddRow(
		int64(1), int64(10), int64(2), due.Add(-24*time.Hour), due,
		nil, "", "2024-0001", "Договор аренды", "i.petrov", 3,
	)

	mockDB.ExpectQuery("SELECT (.+) FROM file_checkouts c").
		WithArgs(asOf).
		WillReturnRows(rows)

	overdue, err := repo.ListOverdue(context.Background(), db, asOf)

	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "2024-0001", overdue[0].DisplayNumber)
	assert.Equal(t, "i.petrov", overdue[0].UserLogin)
	assert.Equal(t, 3, overdue[0].DaysOverdue)
}
