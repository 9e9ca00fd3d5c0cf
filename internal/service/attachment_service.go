package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"rolodrawer/internal/apperrors"
	"rolodrawer/internal/model"
	"rolodrawer/internal/ports"
	"rolodrawer/internal/util"
)

// AttachmentService прикрепляет к делу скан-копии. Содержимое клиент
// загружает и скачивает напрямую в S3 по pre-signed URL, через сервис
// проходят только метаданные.
type AttachmentService struct {
	attachmentRepository ports.AttachmentRepository
	fileRepository       ports.FileRepository
	storageInterface     ports.S3Storage
	presignTTL           time.Duration
}

func NewAttachmentService(
	attachmentRepository ports.AttachmentRepository,
	fileRepository ports.FileRepository,
	storageInterface ports.S3Storage,
	presignTTL time.Duration,
) *AttachmentService {
	return &AttachmentService{
		attachmentRepository: attachmentRepository,
		fileRepository:       fileRepository,
		storageInterface:     storageInterface,
		presignTTL:           presignTTL,
	}
}

// AddAttachment сохраняет метаданные вложения и возвращает pre-signed PUT URL для загрузки
func (s *AttachmentService) AddAttachment(ctx context.Context, actor model.Actor, attachment *model.Attachment) (*model.Attachment, string, error) {
	if !actor.CanWrite() {
		return nil, "", fmt.Errorf("%w: роль %s не может прикреплять вложения", apperrors.ErrUnauthorized, actor.Role)
	}
	if attachment.FilenameOriginal == "" {
		return nil, "", fmt.Errorf("%w: не указано имя файла", apperrors.ErrValidation)
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, "", util.LogError("[AttachmentService] не удалось начать транзакцию", err)
	}
	defer rollback()

	file, err := s.fileRepository.GetByID(ctx, exec, attachment.FileID)
	if err != nil {
		return nil, "", err
	}
	if file.IsDestroyed {
		return nil, "", apperrors.ErrDestroyed
	}

	attachment.UploadedBy = actor.UserID
	attachment.StoragePath = fmt.Sprintf("files/%s/attachments/%s_%s", file.UUID, uuid.New().String(), attachment.FilenameOriginal)

	created, err := s.attachmentRepository.Insert(ctx, exec, attachment)
	if err != nil {
		return nil, "", err
	}

	putURL, err := s.storageInterface.GeneratePresignedPutURL(ctx, created.StoragePath, created.MimeType, s.presignTTL)
	if err != nil {
		return nil, "", util.LogError("[AttachmentService] не удалось сгенерировать URL", err)
	}

	if err := commit(); err != nil {
		return nil, "", util.LogError("[AttachmentService] не удалось закоммитить транзакцию", err)
	}

	log.Printf("[AttachmentService] вложение %s прикреплено к делу %d", created.FilenameOriginal, created.FileID)

	return created, putURL, nil
}

// ListAttachments возвращает вложения дела с pre-signed GET ссылками
func (s *AttachmentService) ListAttachments(ctx context.Context, actor model.Actor, fileID int64) ([]model.AttachmentWithURL, error) {
	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[AttachmentService] не удалось начать транзакцию", err)
	}
	defer rollback()

	if _, err := s.fileRepository.GetByID(ctx, exec, fileID); err != nil {
		return nil, err
	}

	attachments, err := s.attachmentRepository.ListByFile(ctx, exec, fileID)
	if err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[AttachmentService] не удалось закоммитить транзакцию", err)
	}

	result := make([]model.AttachmentWithURL, 0, len(attachments))
	for _, attachment := range attachments {
		getURL, err := s.storageInterface.GeneratePresignedGetURL(ctx, attachment.StoragePath, s.presignTTL)
		if err != nil {
			return nil, util.LogError("[AttachmentService] не удалось сгенерировать URL", err)
		}
		result = append(result, model.AttachmentWithURL{
			Attachment: attachment,
			GetURL:     getURL,
		})
	}

	return result, nil
}

// DeleteAttachment удаляет метаданные и объект в S3
func (s *AttachmentService) DeleteAttachment(ctx context.Context, actor model.Actor, attachmentID int64) error {
	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return util.LogError("[AttachmentService] не удалось начать транзакцию", err)
	}
	defer rollback()

	attachment, err := s.attachmentRepository.GetByID(ctx, exec, attachmentID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && attachment.UploadedBy != actor.UserID {
		return fmt.Errorf("%w: удалить вложение может загрузивший его пользователь или администратор", apperrors.ErrUnauthorized)
	}

	if err := s.attachmentRepository.Delete(ctx, exec, attachmentID); err != nil {
		return err
	}

	if err := commit(); err != nil {
		return util.LogError("[AttachmentService] не удалось закоммитить транзакцию", err)
	}

	if err := s.storageInterface.DeleteObject(ctx, attachment.StoragePath); err != nil {
		log.Printf("[AttachmentService] не удалось удалить объект %s: %v", attachment.StoragePath, err)
	}

	return nil
}
