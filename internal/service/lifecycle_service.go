package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"

	"rolodrawer/internal/apperrors"
	"rolodrawer/internal/model"
	"rolodrawer/internal/ports"
	"rolodrawer/internal/util"
)

// LifecycleService реализует переходы жизненного цикла дела: выдачу и возврат,
// перемещение, архивирование, уничтожение и восстановление. Каждый переход
// выполняется в одной транзакции: чтение с блокировкой строки, проверка
// предусловий, условный UPDATE и запись в журнал.
type LifecycleService struct {
	fileRepository     ports.FileRepository
	movementRepository ports.MovementRepository
	checkoutRepository ports.CheckoutRepository
	locationRepository ports.LocationRepository
	userRepository     ports.UserRepository
	now                func() time.Time
}

func NewLifecycleService(
	fileRepository ports.FileRepository,
	movementRepository ports.MovementRepository,
	checkoutRepository ports.CheckoutRepository,
	locationRepository ports.LocationRepository,
	userRepository ports.UserRepository,
) *LifecycleService {
	return &LifecycleService{
		fileRepository:     fileRepository,
		movementRepository: movementRepository,
		checkoutRepository: checkoutRepository,
		locationRepository: locationRepository,
		userRepository:     userRepository,
		now:                time.Now,
	}
}

// Checkout выдаёт дело пользователю targetUserID. Обычный пользователь может
// выдать дело только себе, администратор — любому активному пользователю.
func (s *LifecycleService) Checkout(ctx context.Context, actor model.Actor, fileID int64, targetUserID int64, expectedReturn time.Time, notes string) (*model.File, error) {
	if !actor.CanWrite() {
		return nil, fmt.Errorf("%w: роль %s не может выдавать дела", apperrors.ErrUnauthorized, actor.Role)
	}
	if targetUserID != actor.UserID && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: выдать дело другому пользователю может только администратор", apperrors.ErrUnauthorized)
	}
	if expectedReturn.IsZero() {
		return nil, fmt.Errorf("%w: не указана ожидаемая дата возврата", apperrors.ErrValidation)
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[LifecycleService] не удалось начать транзакцию", err)
	}
	defer rollback()

	file, err := s.fileRepository.GetByIDForUpdate(ctx, exec, fileID)
	if err != nil {
		return nil, err
	}
	if file.IsDestroyed {
		return nil, apperrors.ErrDestroyed
	}
	if file.IsCheckedOut {
		// в ошибке конфликта сообщаем, когда дело ожидается назад
		if open, findErr := s.checkoutRepository.FindOpenByFile(ctx, exec, fileID); findErr == nil && open != nil {
			return nil, fmt.Errorf("%w: возврат ожидается %s",
				apperrors.ErrAlreadyCheckedOut, open.ExpectedReturnDate.Format("2006-01-02"))
		}
		return nil, apperrors.ErrAlreadyCheckedOut
	}

	targetExists, err := s.userRepository.Exists(ctx, exec, targetUserID)
	if err != nil {
		return nil, err
	}
	if !targetExists {
		return nil, fmt.Errorf("%w: пользователь %d", apperrors.ErrNotFound, targetUserID)
	}

	at := s.now()
	updated, err := s.fileRepository.SetCheckedOut(ctx, exec, fileID, targetUserID, at, expectedReturn)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, apperrors.ErrAlreadyCheckedOut
	}

	err = s.checkoutRepository.InsertEpisode(ctx, exec, &model.Checkout{
		FileID:             fileID,
		UserID:             targetUserID,
		CheckedOutAt:       at,
		ExpectedReturnDate: expectedReturn,
		Notes:              notes,
	})
	if err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[LifecycleService] не удалось закоммитить транзакцию", err)
	}

	log.Printf("[LifecycleService] дело %d выдано пользователю %d", fileID, targetUserID)

	file.IsCheckedOut = true
	file.CheckedOutBy = &targetUserID
	file.CheckedOutAt = &at
	file.ExpectedReturnDate = &expectedReturn
	return file, nil
}

// CheckIn возвращает дело. Вернуть может тот, на кого дело выдано, либо администратор.
func (s *LifecycleService) CheckIn(ctx context.Context, actor model.Actor, fileID int64, returnNotes string) (*model.File, error) {
	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[LifecycleService] не удалось начать транзакцию", err)
	}
	defer rollback()

	file, err := s.fileRepository.GetByIDForUpdate(ctx, exec, fileID)
	if err != nil {
		return nil, err
	}
	if !file.IsCheckedOut {
		return nil, apperrors.ErrNotCheckedOut
	}
	if !actor.IsAdmin() && (file.CheckedOutBy == nil || *file.CheckedOutBy != actor.UserID) {
		return nil, fmt.Errorf("%w: дело выдано другому пользователю", apperrors.ErrUnauthorized)
	}

	at := s.now()
	updated, err := s.fileRepository.ClearCheckedOut(ctx, exec, fileID)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, apperrors.ErrNotCheckedOut
	}

	closed, err := s.checkoutRepository.CloseOpen(ctx, exec, fileID, at, returnNotes)
	if err != nil {
		return nil, err
	}
	if !closed {
		return nil, util.LogError("[LifecycleService] не найден открытый эпизод выдачи",
			fmt.Errorf("дело %d", fileID))
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[LifecycleService] не удалось закоммитить транзакцию", err)
	}

	log.Printf("[LifecycleService] дело %d возвращено", fileID)

	file.IsCheckedOut = false
	file.CheckedOutBy = nil
	file.CheckedOutAt = nil
	file.ExpectedReturnDate = nil
	return file, nil
}

// Move перемещает дело в другой ящик или в состояние "вне ящика" (NewDrawerID == nil).
// Перемещение в тот же ящик допустимо, например при смене позиции, и тоже пишется в журнал.
func (s *LifecycleService) Move(ctx context.Context, actor model.Actor, fileID int64, req model.MoveRequest) (*model.File, error) {
	if !actor.CanWrite() {
		return nil, fmt.Errorf("%w: роль %s не может перемещать дела", apperrors.ErrUnauthorized, actor.Role)
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[LifecycleService] не удалось начать транзакцию", err)
	}
	defer rollback()

	file, err := s.moveLocked(ctx, exec, actor, fileID, req)
	if err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[LifecycleService] не удалось закоммитить транзакцию", err)
	}

	return file, nil
}

// moveLocked выполняет перемещение внутри уже открытой транзакции
func (s *LifecycleService) moveLocked(ctx context.Context, exec sqlx.ExtContext, actor model.Actor, fileID int64, req model.MoveRequest) (*model.File, error) {
	file, err := s.fileRepository.GetByIDForUpdate(ctx, exec, fileID)
	if err != nil {
		return nil, err
	}
	if file.IsDestroyed {
		return nil, apperrors.ErrDestroyed
	}
	if file.IsCheckedOut && !actor.IsAdmin() {
		return nil, apperrors.ErrCheckedOutMove
	}
	if file.IsArchived && !req.ArchivedConfirmed {
		return nil, apperrors.ErrArchivedNeedsConfirm
	}

	if req.NewDrawerID != nil {
		exists, err := s.locationRepository.DrawerExists(ctx, exec, *req.NewDrawerID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("%w: ящик %d", apperrors.ErrNotFound, *req.NewDrawerID)
		}
	}

	fromDrawerID := file.CurrentDrawerID

	err = s.fileRepository.UpdateLocation(ctx, exec, fileID, req.NewDrawerID, req.PositionVertical, req.PositionHorizontal)
	if err != nil {
		return nil, err
	}

	err = s.movementRepository.Insert(ctx, exec, &model.Movement{
		FileID:       fileID,
		FromDrawerID: fromDrawerID,
		ToDrawerID:   req.NewDrawerID,
		MovedBy:      actor.UserID,
		Notes:        req.Notes,
		MovedAt:      s.now(),
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[LifecycleService] дело %d перемещено пользователем %d", fileID, actor.UserID)

	file.CurrentDrawerID = req.NewDrawerID
	file.PositionVertical = req.PositionVertical
	file.PositionHorizontal = req.PositionHorizontal
	return file, nil
}

// BulkMove перемещает набор дел в один ящик. Каждое дело перемещается в
// собственной транзакции: дела, не прошедшие предусловия, пропускаются с
// указанием причины, остальные перемещаются.
func (s *LifecycleService) BulkMove(ctx context.Context, actor model.Actor, fileIDs []int64, req model.MoveRequest) (*model.BulkMoveResult, error) {
	if !actor.CanWrite() {
		return nil, fmt.Errorf("%w: роль %s не может перемещать дела", apperrors.ErrUnauthorized, actor.Role)
	}
	if len(fileIDs) == 0 {
		return nil, fmt.Errorf("%w: пустой список дел", apperrors.ErrValidation)
	}

	result := &model.BulkMoveResult{
		Moved:   []int64{},
		Skipped: []model.SkippedFile{},
	}

	for _, fileID := range fileIDs {
		if err := s.bulkMoveOne(ctx, actor, fileID, req); err != nil {
			result.Skipped = append(result.Skipped, model.SkippedFile{
				FileID: fileID,
				Reason: apperrors.Reason(err),
			})
			continue
		}
		result.Moved = append(result.Moved, fileID)
	}

	log.Printf("[LifecycleService] массовое перемещение: перемещено %d, пропущено %d",
		len(result.Moved), len(result.Skipped))

	return result, nil
}

func (s *LifecycleService) bulkMoveOne(ctx context.Context, actor model.Actor, fileID int64, req model.MoveRequest) error {
	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return util.LogError("[LifecycleService] не удалось начать транзакцию", err)
	}
	defer rollback()

	if _, err := s.moveLocked(ctx, exec, actor, fileID, req); err != nil {
		return err
	}

	if err := commit(); err != nil {
		return util.LogError("[LifecycleService] не удалось закоммитить транзакцию", err)
	}
	return nil
}

// Archive помечает дело архивным. Выданное дело архивировать можно,
// признак выдачи при этом сохраняется.
func (s *LifecycleService) Archive(ctx context.Context, actor model.Actor, fileID int64, reason string) (*model.File, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: архивирование доступно только администратору", apperrors.ErrUnauthorized)
	}
	if reason == "" {
		return nil, fmt.Errorf("%w: не указана причина архивирования", apperrors.ErrValidation)
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[LifecycleService] не удалось начать транзакцию", err)
	}
	defer rollback()

	file, err := s.fileRepository.GetByIDForUpdate(ctx, exec, fileID)
	if err != nil {
		return nil, err
	}
	if file.IsDestroyed {
		return nil, apperrors.ErrDestroyed
	}
	if file.IsArchived {
		return nil, apperrors.ErrAlreadyArchived
	}

	at := s.now()
	updated, err := s.fileRepository.SetArchived(ctx, exec, fileID, actor.UserID, at, reason)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, apperrors.ErrAlreadyArchived
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[LifecycleService] не удалось закоммитить транзакцию", err)
	}

	log.Printf("[LifecycleService] дело %d архивировано", fileID)

	file.IsArchived = true
	file.ArchivedAt = &at
	file.ArchivedBy = &actor.UserID
	file.ArchivedReason = &reason
	return file, nil
}

// RestoreFromArchive возвращает дело из архива в оборот
func (s *LifecycleService) RestoreFromArchive(ctx context.Context, actor model.Actor, fileID int64) (*model.File, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: восстановление из архива доступно только администратору", apperrors.ErrUnauthorized)
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[LifecycleService] не удалось начать транзакцию", err)
	}
	defer rollback()

	file, err := s.fileRepository.GetByIDForUpdate(ctx, exec, fileID)
	if err != nil {
		return nil, err
	}
	if file.IsDestroyed {
		return nil, apperrors.ErrDestroyed
	}
	if !file.IsArchived {
		return nil, apperrors.ErrNotArchived
	}

	updated, err := s.fileRepository.ClearArchived(ctx, exec, fileID)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, apperrors.ErrNotArchived
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[LifecycleService] не удалось закоммитить транзакцию", err)
	}

	log.Printf("[LifecycleService] дело %d восстановлено из архива", fileID)

	file.IsArchived = false
	file.ArchivedAt = nil
	file.ArchivedBy = nil
	file.ArchivedReason = nil
	return file, nil
}

// MarkDestroyed фиксирует физическое уничтожение дела. Уничтожить можно
// только архивное дело и только с явным подтверждением.
func (s *LifecycleService) MarkDestroyed(ctx context.Context, actor model.Actor, fileID int64, method string, notes string, confirmed bool) (*model.File, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: фиксация уничтожения доступна только администратору", apperrors.ErrUnauthorized)
	}
	if !confirmed {
		return nil, fmt.Errorf("%w: уничтожение требует явного подтверждения", apperrors.ErrNotConfirmed)
	}
	if method == "" {
		return nil, fmt.Errorf("%w: не указан способ уничтожения", apperrors.ErrValidation)
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[LifecycleService] не удалось начать транзакцию", err)
	}
	defer rollback()

	file, err := s.fileRepository.GetByIDForUpdate(ctx, exec, fileID)
	if err != nil {
		return nil, err
	}
	if file.IsDestroyed {
		return nil, apperrors.ErrAlreadyDestroyed
	}
	if !file.IsArchived {
		return nil, apperrors.ErrNotArchived
	}

	destructionMethod := method
	if notes != "" {
		destructionMethod = fmt.Sprintf("%s (%s)", method, notes)
	}

	at := s.now()
	updated, err := s.fileRepository.SetDestroyed(ctx, exec, fileID, actor.UserID, at, destructionMethod)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, apperrors.ErrAlreadyDestroyed
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[LifecycleService] не удалось закоммитить транзакцию", err)
	}

	log.Printf("[LifecycleService] зафиксировано уничтожение дела %d", fileID)

	file.IsDestroyed = true
	file.DestroyedAt = &at
	file.DestroyedBy = &actor.UserID
	file.DestructionMethod = &destructionMethod
	return file, nil
}

// RestoreFromDestruction снимает признак уничтожения, если запись была
// сделана по ошибке. Дело остаётся архивным.
func (s *LifecycleService) RestoreFromDestruction(ctx context.Context, actor model.Actor, fileID int64, confirmed bool) (*model.File, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: восстановление доступно только администратору", apperrors.ErrUnauthorized)
	}
	if !confirmed {
		return nil, fmt.Errorf("%w: восстановление требует явного подтверждения", apperrors.ErrNotConfirmed)
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[LifecycleService] не удалось начать транзакцию", err)
	}
	defer rollback()

	file, err := s.fileRepository.GetByIDForUpdate(ctx, exec, fileID)
	if err != nil {
		return nil, err
	}
	if !file.IsDestroyed {
		return nil, apperrors.ErrNotDestroyed
	}

	updated, err := s.fileRepository.ClearDestroyed(ctx, exec, fileID)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, apperrors.ErrNotDestroyed
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[LifecycleService] не удалось закоммитить транзакцию", err)
	}

	log.Printf("[LifecycleService] дело %d восстановлено после ошибочной фиксации уничтожения", fileID)

	file.IsDestroyed = false
	file.DestroyedAt = nil
	file.DestroyedBy = nil
	file.DestructionMethod = nil
	return file, nil
}

// Movements возвращает журнал перемещений дела в хронологическом порядке
func (s *LifecycleService) Movements(ctx context.Context, fileID int64, limit int) ([]model.Movement, error) {
	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[LifecycleService] не удалось начать транзакцию", err)
	}
	defer rollback()

	if _, err := s.fileRepository.GetByID(ctx, exec, fileID); err != nil {
		return nil, err
	}

	movements, err := s.movementRepository.ListByFile(ctx, exec, fileID, limit)
	if err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[LifecycleService] не удалось закоммитить транзакцию", err)
	}
	return movements, nil
}

// CheckoutHistory возвращает эпизоды выдачи дела, новые первыми
func (s *LifecycleService) CheckoutHistory(ctx context.Context, fileID int64, limit int) ([]model.Checkout, error) {
	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[LifecycleService] не удалось начать транзакцию", err)
	}
	defer rollback()

	if _, err := s.fileRepository.GetByID(ctx, exec, fileID); err != nil {
		return nil, err
	}

	episodes, err := s.checkoutRepository.ListByFile(ctx, exec, fileID, limit)
	if err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[LifecycleService] не удалось закоммитить транзакцию", err)
	}
	return episodes, nil
}

// OverdueCheckouts возвращает невозвращённые дела с истёкшей датой возврата
func (s *LifecycleService) OverdueCheckouts(ctx context.Context) ([]model.OverdueCheckout, error) {
	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[LifecycleService] не удалось начать транзакцию", err)
	}
	defer rollback()

	overdue, err := s.checkoutRepository.ListOverdue(ctx, exec, s.now())
	if err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[LifecycleService] не удалось закоммитить транзакцию", err)
	}
	return overdue, nil
}
