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

const attachmentColumns = `id, file_id, filename_original, mime_type, size_bytes, storage_path, uploaded_by, created_at`

type AttachmentRepository struct {
	*config.Database
}

func NewAttachmentRepository(database *config.Database) *AttachmentRepository {
	return &AttachmentRepository{database}
}

func (r *AttachmentRepository) Insert(ctx context.Context, exec sqlx.ExtContext, attachment *model.Attachment) (*model.Attachment, error) {
	query := `
		INSERT INTO file_attachments (file_id, filename_original, mime_type, size_bytes, storage_path, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + attachmentColumns

	created := &model.Attachment{}
	err := exec.QueryRowxContext(ctx, query,
		attachment.FileID, attachment.FilenameOriginal, attachment.MimeType,
		attachment.SizeBytes, attachment.StoragePath, attachment.UploadedBy,
	).StructScan(created)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, util.LogError("[AttachmentRepo] ошибка сохранения вложения", err)
	}
	return created, nil
}

func (r *AttachmentRepository) GetByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*model.Attachment, error) {
	query := `SELECT ` + attachmentColumns + ` FROM file_attachments WHERE id = $1`

	var attachment model.Attachment
	if err := sqlx.GetContext(ctx, exec, &attachment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, util.LogError("[AttachmentRepo] ошибка чтения вложения", err)
	}
	return &attachment, nil
}

func (r *AttachmentRepository) ListByFile(ctx context.Context, exec sqlx.ExtContext, fileID int64) ([]model.Attachment, error) {
	attachments := []model.Attachment{}
	query := `SELECT ` + attachmentColumns + ` FROM file_attachments WHERE file_id = $1 ORDER BY created_at`
	if err := sqlx.SelectContext(ctx, exec, &attachments, query, fileID); err != nil {
		return nil, util.LogError("[AttachmentRepo] ошибка чтения вложений дела", err)
	}
	return attachments, nil
}

func (r *AttachmentRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error {
	result, err := exec.ExecContext(ctx, `DELETE FROM file_attachments WHERE id = $1`, id)
	if err != nil {
		return util.LogError("[AttachmentRepo] ошибка удаления вложения", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[AttachmentRepo] ошибка удаления вложения", err)
	}
	if rows == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
