package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"rolodrawer/config"
	"rolodrawer/internal/model"
	"rolodrawer/internal/util"
)

type ReminderRepository struct {
	*config.Database
}

func NewReminderRepository(database *config.Database) *ReminderRepository {
	return &ReminderRepository{database}
}

// ListFilesWithExpiration : живые дела с назначенной датой истечения срока хранения
func (r *ReminderRepository) ListFilesWithExpiration(ctx context.Context, exec sqlx.ExtContext) ([]model.FileExpiration, error) {
	files := []model.FileExpiration{}
	query := `
		SELECT id, display_number, name, expiration_date, owner_id
		FROM files
		WHERE expiration_date IS NOT NULL AND is_archived = FALSE AND is_destroyed = FALSE
		ORDER BY expiration_date`
	if err := sqlx.SelectContext(ctx, exec, &files, query); err != nil {
		return nil, util.LogError("[ReminderRepo] ошибка чтения дел со сроком хранения", err)
	}
	return files, nil
}

func (r *ReminderRepository) ReminderExists(ctx context.Context, exec sqlx.ExtContext, fileID int64, reminderType string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM expiration_reminders WHERE file_id = $1 AND reminder_type = $2)`
	if err := sqlx.GetContext(ctx, exec, &exists, query, fileID, reminderType); err != nil {
		return false, util.LogError("[ReminderRepo] ошибка проверки напоминания", err)
	}
	return exists, nil
}

func (r *ReminderRepository) InsertReminder(ctx context.Context, exec sqlx.ExtContext, reminder *model.ExpirationReminder) error {
	query := `
		INSERT INTO expiration_reminders (file_id, reminder_type, recipient_user_id, sent_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (file_id, reminder_type) DO NOTHING`
	_, err := exec.ExecContext(ctx, query, reminder.FileID, reminder.ReminderType, reminder.RecipientUserID, reminder.SentAt)
	if err != nil {
		return util.LogError("[ReminderRepo] ошибка записи напоминания", err)
	}
	return nil
}

func (r *ReminderRepository) ListByFile(ctx context.Context, exec sqlx.ExtContext, fileID int64) ([]model.ExpirationReminder, error) {
	reminders := []model.ExpirationReminder{}
	query := `
		SELECT id, file_id, reminder_type, recipient_user_id, sent_at
		FROM expiration_reminders
		WHERE file_id = $1
		ORDER BY sent_at`
	if err := sqlx.SelectContext(ctx, exec, &reminders, query, fileID); err != nil {
		return nil, util.LogError("[ReminderRepo] ошибка чтения напоминаний дела", err)
	}
	return reminders, nil
}
