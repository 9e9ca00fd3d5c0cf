package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"rolodrawer/internal/apperrors"
	"rolodrawer/internal/model"
	"rolodrawer/internal/ports"
	"rolodrawer/internal/util"
)

// FileService отвечает за картотеку: приём дел, каталог, карточку дела и ярлыки
type FileService struct {
	fileRepository     ports.FileRepository
	movementRepository ports.MovementRepository
	locationRepository ports.LocationRepository
	tagRepository      ports.TagRepository
	itemsPerPage       int
	now                func() time.Time
}

func NewFileService(
	fileRepository ports.FileRepository,
	movementRepository ports.MovementRepository,
	locationRepository ports.LocationRepository,
	tagRepository ports.TagRepository,
	itemsPerPage int,
) *FileService {
	return &FileService{
		fileRepository:     fileRepository,
		movementRepository: movementRepository,
		locationRepository: locationRepository,
		tagRepository:      tagRepository,
		itemsPerPage:       itemsPerPage,
		now:                time.Now,
	}
}

// CreateFile принимает новое дело в картотеку. Если указан ящик, в журнал
// перемещений пишется первая запись о размещении.
func (s *FileService) CreateFile(ctx context.Context, actor model.Actor, file *model.File, initialNotes string) (*model.File, error) {
	if !actor.CanWrite() {
		return nil, fmt.Errorf("%w: роль %s не может принимать дела", apperrors.ErrUnauthorized, actor.Role)
	}
	if file.DisplayNumber == "" {
		return nil, fmt.Errorf("%w: не указан номер дела", apperrors.ErrValidation)
	}
	if file.Name == "" {
		return nil, fmt.Errorf("%w: не указано название дела", apperrors.ErrValidation)
	}
	if !model.ValidSensitivity(file.Sensitivity) {
		return nil, fmt.Errorf("%w: недопустимый уровень конфиденциальности %q", apperrors.ErrValidation, file.Sensitivity)
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[FileService] не удалось начать транзакцию", err)
	}
	defer rollback()

	if file.CurrentDrawerID != nil {
		exists, err := s.locationRepository.DrawerExists(ctx, exec, *file.CurrentDrawerID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("%w: ящик %d", apperrors.ErrNotFound, *file.CurrentDrawerID)
		}
	}

	file.UUID = uuid.New().String()
	file.OwnerID = actor.UserID

	created, err := s.fileRepository.Create(ctx, exec, file)
	if err != nil {
		return nil, err
	}

	if created.CurrentDrawerID != nil {
		err = s.movementRepository.Insert(ctx, exec, &model.Movement{
			FileID:       created.ID,
			FromDrawerID: nil,
			ToDrawerID:   created.CurrentDrawerID,
			MovedBy:      actor.UserID,
			Notes:        initialNotes,
			MovedAt:      s.now(),
		})
		if err != nil {
			return nil, err
		}
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[FileService] не удалось закоммитить транзакцию", err)
	}

	log.Printf("[FileService] дело %s принято в картотеку", created.DisplayNumber)

	return created, nil
}

func (s *FileService) GetFile(ctx context.Context, actor model.Actor, fileID int64) (*model.File, error) {
	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[FileService] не удалось начать транзакцию", err)
	}
	defer rollback()

	file, err := s.fileRepository.GetByID(ctx, exec, fileID)
	if err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[FileService] не удалось закоммитить транзакцию", err)
	}
	return file, nil
}

// GetFileByUUID находит дело по UUID, например из QR-кода на обложке
func (s *FileService) GetFileByUUID(ctx context.Context, actor model.Actor, fileUUID string) (*model.File, error) {
	if _, err := uuid.Parse(fileUUID); err != nil {
		return nil, fmt.Errorf("%w: некорректный UUID дела", apperrors.ErrValidation)
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[FileService] не удалось начать транзакцию", err)
	}
	defer rollback()

	file, err := s.fileRepository.GetByUUID(ctx, exec, fileUUID)
	if err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[FileService] не удалось закоммитить транзакцию", err)
	}
	return file, nil
}

// GetFileByNumber находит дело по номеру с обложки
func (s *FileService) GetFileByNumber(ctx context.Context, actor model.Actor, displayNumber string) (*model.File, error) {
	if displayNumber == "" {
		return nil, fmt.Errorf("%w: не указан номер дела", apperrors.ErrValidation)
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[FileService] не удалось начать транзакцию", err)
	}
	defer rollback()

	file, err := s.fileRepository.GetByDisplayNumber(ctx, exec, displayNumber)
	if err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[FileService] не удалось закоммитить транзакцию", err)
	}
	return file, nil
}

// ListFiles возвращает страницу каталога и общее число дел под фильтрами
func (s *FileService) ListFiles(ctx context.Context, actor model.Actor, filters model.FileFilters, page int) ([]model.File, int, error) {
	if page < 1 {
		page = 1
	}
	limit := s.itemsPerPage
	offset := (page - 1) * limit

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, 0, util.LogError("[FileService] не удалось начать транзакцию", err)
	}
	defer rollback()

	files, total, err := s.fileRepository.List(ctx, exec, filters, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	if err := commit(); err != nil {
		return nil, 0, util.LogError("[FileService] не удалось закоммитить транзакцию", err)
	}
	return files, total, nil
}

// UpdateFile обновляет описательные поля карточки. Размещение и признаки
// жизненного цикла через этот метод не меняются.
func (s *FileService) UpdateFile(ctx context.Context, actor model.Actor, fileID int64, updated *model.File) (*model.File, error) {
	if !actor.CanWrite() {
		return nil, fmt.Errorf("%w: роль %s не может редактировать дела", apperrors.ErrUnauthorized, actor.Role)
	}
	if updated.Name == "" {
		return nil, fmt.Errorf("%w: не указано название дела", apperrors.ErrValidation)
	}
	if !model.ValidSensitivity(updated.Sensitivity) {
		return nil, fmt.Errorf("%w: недопустимый уровень конфиденциальности %q", apperrors.ErrValidation, updated.Sensitivity)
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[FileService] не удалось начать транзакцию", err)
	}
	defer rollback()

	file, err := s.fileRepository.GetByIDForUpdate(ctx, exec, fileID)
	if err != nil {
		return nil, err
	}
	if file.IsDestroyed {
		return nil, apperrors.ErrDestroyed
	}
	if updated.OwnerID != file.OwnerID && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: сменить владельца дела может только администратор", apperrors.ErrUnauthorized)
	}

	file.Name = updated.Name
	file.Description = updated.Description
	file.Sensitivity = updated.Sensitivity
	file.OwnerID = updated.OwnerID
	file.ExpirationDate = updated.ExpirationDate

	if err := s.fileRepository.UpdateMetadata(ctx, exec, file); err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[FileService] не удалось закоммитить транзакцию", err)
	}

	log.Printf("[FileService] карточка дела %d обновлена", fileID)

	return file, nil
}

// CreateTag создаёт ярлык, имя уникально
func (s *FileService) CreateTag(ctx context.Context, actor model.Actor, name, color string) (*model.Tag, error) {
	if !actor.CanWrite() {
		return nil, fmt.Errorf("%w: роль %s не может создавать ярлыки", apperrors.ErrUnauthorized, actor.Role)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: не указано имя ярлыка", apperrors.ErrValidation)
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[FileService] не удалось начать транзакцию", err)
	}
	defer rollback()

	created, err := s.tagRepository.CreateTag(ctx, exec, &model.Tag{Name: name, Color: color})
	if err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[FileService] не удалось закоммитить транзакцию", err)
	}
	return created, nil
}

// Tags возвращает все ярлыки картотеки
func (s *FileService) Tags(ctx context.Context) ([]model.Tag, error) {
	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[FileService] не удалось начать транзакцию", err)
	}
	defer rollback()

	tags, err := s.tagRepository.ListTags(ctx, exec)
	if err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[FileService] не удалось закоммитить транзакцию", err)
	}
	return tags, nil
}

func (s *FileService) ListTags(ctx context.Context, fileID int64) ([]model.Tag, error) {
	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[FileService] не удалось начать транзакцию", err)
	}
	defer rollback()

	if _, err := s.fileRepository.GetByID(ctx, exec, fileID); err != nil {
		return nil, err
	}

	tags, err := s.tagRepository.ListByFile(ctx, exec, fileID)
	if err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[FileService] не удалось закоммитить транзакцию", err)
	}
	return tags, nil
}

func (s *FileService) AssignTag(ctx context.Context, actor model.Actor, fileID, tagID int64) error {
	if !actor.CanWrite() {
		return fmt.Errorf("%w: роль %s не может менять ярлыки", apperrors.ErrUnauthorized, actor.Role)
	}
	return s.withTX(ctx, func(exec sqlx.ExtContext) error {
		return s.tagRepository.Assign(ctx, exec, fileID, tagID)
	})
}

func (s *FileService) RemoveTag(ctx context.Context, actor model.Actor, fileID, tagID int64) error {
	if !actor.CanWrite() {
		return fmt.Errorf("%w: роль %s не может менять ярлыки", apperrors.ErrUnauthorized, actor.Role)
	}
	return s.withTX(ctx, func(exec sqlx.ExtContext) error {
		return s.tagRepository.Remove(ctx, exec, fileID, tagID)
	})
}

func (s *FileService) withTX(ctx context.Context, fn func(exec sqlx.ExtContext) error) error {
	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return util.LogError("[FileService] не удалось начать транзакцию", err)
	}
	defer rollback()

	if err := fn(exec); err != nil {
		return err
	}

	if err := commit(); err != nil {
		return util.LogError("[FileService] не удалось закоммитить транзакцию", err)
	}
	return nil
}
