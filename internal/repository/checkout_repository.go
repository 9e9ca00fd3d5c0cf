package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"rolodrawer/config"
	"rolodrawer/internal/model"
	"rolodrawer/internal/util"
)

// CheckoutRepository : журнал эпизодов выдачи. Эпизод открыт, пока
// returned_at IS NULL; строки не удаляются.
type CheckoutRepository struct {
	*config.Database
}

func NewCheckoutRepository(database *config.Database) *CheckoutRepository {
	return &CheckoutRepository{database}
}

func (r *CheckoutRepository) InsertEpisode(ctx context.Context, exec sqlx.ExtContext, checkout *model.Checkout) error {
	query := `
		INSERT INTO file_checkouts (file_id, user_id, checked_out_at, expected_return_date, notes)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := exec.ExecContext(ctx, query,
		checkout.FileID,
		checkout.UserID,
		checkout.CheckedOutAt,
		checkout.ExpectedReturnDate,
		checkout.Notes,
	)
	if err != nil {
		return util.LogError("[CheckoutRepo] ошибка записи эпизода выдачи", err)
	}

	return nil
}

// CloseOpen закрывает открытый эпизод дела условным UPDATE.
// false без ошибки означает, что открытого эпизода не было.
func (r *CheckoutRepository) CloseOpen(ctx context.Context, exec sqlx.ExtContext, fileID int64, returnedAt time.Time, returnNotes string) (bool, error) {
	query := `
		UPDATE file_checkouts
		SET returned_at = $2,
			notes = concat_ws(E'\n', NULLIF(notes, ''), NULLIF($3, ''))
		WHERE file_id = $1 AND returned_at IS NULL`

	result, err := exec.ExecContext(ctx, query, fileID, returnedAt, returnNotes)
	if err != nil {
		return false, util.LogError("[CheckoutRepo] не удалось закрыть эпизод выдачи", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, util.LogError("[CheckoutRepo] не удалось проверить закрытие эпизода", err)
	}
	return rowsAffected > 0, nil
}

func (r *CheckoutRepository) FindOpenByFile(ctx context.Context, exec sqlx.ExtContext, fileID int64) (*model.Checkout, error) {
	query := `
		SELECT id, file_id, user_id, checked_out_at, expected_return_date, returned_at, notes
		FROM file_checkouts
		WHERE file_id = $1 AND returned_at IS NULL`

	var checkout model.Checkout
	err := sqlx.GetContext(ctx, exec, &checkout, query, fileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, util.LogError("[CheckoutRepo] ошибка поиска открытого эпизода", err)
	}

	return &checkout, nil
}

func (r *CheckoutRepository) ListByFile(ctx context.Context, exec sqlx.ExtContext, fileID int64, limit int) ([]model.Checkout, error) {
	query := `
		SELECT id, file_id, user_id, checked_out_at, expected_return_date, returned_at, notes
		FROM file_checkouts
		WHERE file_id = $1
		ORDER BY checked_out_at DESC, id DESC
		LIMIT $2`

	checkouts := []model.Checkout{}
	if err := sqlx.SelectContext(ctx, exec, &checkouts, query, fileID, limit); err != nil {
		return nil, util.LogError("[CheckoutRepo] ошибка чтения журнала выдач", err)
	}

	return checkouts, nil
}

// ListOverdue : открытые эпизоды с истёкшей датой возврата
func (r *CheckoutRepository) ListOverdue(ctx context.Context, exec sqlx.ExtContext, asOf time.Time) ([]model.OverdueCheckout, error) {
	query := `
		SELECT c.id, c.file_id, c.user_id, c.checked_out_at, c.expected_return_date,
			c.returned_at, c.notes,
			f.display_number, f.name AS file_name, u.login AS user_login,
			GREATEST(0, DATE_PART('day', $1::timestamptz - c.expected_return_date))::int AS days_overdue
		FROM file_checkouts c
		JOIN files f ON f.id = c.file_id
		JOIN users u ON u.id = c.user_id
		WHERE c.returned_at IS NULL AND c.expected_return_date < $1
		ORDER BY c.expected_return_date ASC`

	overdue := []model.OverdueCheckout{}
	if err := sqlx.SelectContext(ctx, exec, &overdue, query, asOf); err != nil {
		return nil, util.LogError("[CheckoutRepo] ошибка чтения просроченных выдач", err)
	}

	return overdue, nil
}
