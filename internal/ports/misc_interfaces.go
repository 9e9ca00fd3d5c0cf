package ports

import (
	"context"

	"github.com/jmoiron/sqlx"

	"rolodrawer/internal/model"
)

// TagRepository : теги и их привязка к делам
type TagRepository interface {
	CreateTag(ctx context.Context, exec sqlx.ExtContext, tag *model.Tag) (*model.Tag, error)
	ListTags(ctx context.Context, exec sqlx.ExtContext) ([]model.Tag, error)
	ListByFile(ctx context.Context, exec sqlx.ExtContext, fileID int64) ([]model.Tag, error)
	Assign(ctx context.Context, exec sqlx.ExtContext, fileID, tagID int64) error
	Remove(ctx context.Context, exec sqlx.ExtContext, fileID, tagID int64) error
}

// AttachmentRepository : метаданные прикреплённых сканов
type AttachmentRepository interface {
	Insert(ctx context.Context, exec sqlx.ExtContext, attachment *model.Attachment) (*model.Attachment, error)
	GetByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*model.Attachment, error)
	ListByFile(ctx context.Context, exec sqlx.ExtContext, fileID int64) ([]model.Attachment, error)
	Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error
}

// ReminderRepository : напоминания о сроке хранения
type ReminderRepository interface {
	ListFilesWithExpiration(ctx context.Context, exec sqlx.ExtContext) ([]model.FileExpiration, error)
	ReminderExists(ctx context.Context, exec sqlx.ExtContext, fileID int64, reminderType string) (bool, error)
	InsertReminder(ctx context.Context, exec sqlx.ExtContext, reminder *model.ExpirationReminder) error
	ListByFile(ctx context.Context, exec sqlx.ExtContext, fileID int64) ([]model.ExpirationReminder, error)
}

// AttachmentService : работа со скан-копиями через S3
type AttachmentService interface {
	AddAttachment(ctx context.Context, actor model.Actor, attachment *model.Attachment) (*model.Attachment, string, error)
	ListAttachments(ctx context.Context, actor model.Actor, fileID int64) ([]model.AttachmentWithURL, error)
	DeleteAttachment(ctx context.Context, actor model.Actor, attachmentID int64) error
}

// ReminderService : формирование напоминаний по сроку хранения
type ReminderService interface {
	GenerateExpirationReminders(ctx context.Context, actor model.Actor) (created int, checked int, err error)
	ListByFile(ctx context.Context, fileID int64) ([]model.ExpirationReminder, error)
}
