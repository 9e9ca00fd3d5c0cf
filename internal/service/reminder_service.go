package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"rolodrawer/internal/apperrors"
	"rolodrawer/internal/model"
	"rolodrawer/internal/ports"
	"rolodrawer/internal/util"
)

// reminderThreshold : тип напоминания и число дней до даты истечения срока
// хранения. Отрицательное значение означает дни после даты.
type reminderThreshold struct {
	reminderType string
	daysBefore   int
}

var reminderThresholds = []reminderThreshold{
	{model.Reminder90DaysBefore, 90},
	{model.Reminder60DaysBefore, 60},
	{model.Reminder30DaysBefore, 30},
	{model.Reminder30DaysAfter, -30},
	{model.Reminder60DaysAfter, -60},
	{model.Reminder90DaysAfter, -90},
}

// ReminderService формирует напоминания о приближении и превышении срока
// хранения дел. Запускается администратором, повторный запуск не создаёт
// дубликатов: каждая пара (дело, тип) пишется один раз.
type ReminderService struct {
	reminderRepository ports.ReminderRepository
	fileRepository     ports.FileRepository
	now                func() time.Time
}

func NewReminderService(reminderRepository ports.ReminderRepository, fileRepository ports.FileRepository) *ReminderService {
	return &ReminderService{
		reminderRepository: reminderRepository,
		fileRepository:     fileRepository,
		now:                time.Now,
	}
}

// GenerateExpirationReminders проходит по делам с назначенным сроком хранения
// и создаёт недостающие напоминания. Возвращает число созданных напоминаний
// и число проверенных дел.
func (s *ReminderService) GenerateExpirationReminders(ctx context.Context, actor model.Actor) (int, int, error) {
	if !actor.IsAdmin() {
		return 0, 0, fmt.Errorf("%w: формирование напоминаний доступно только администратору", apperrors.ErrUnauthorized)
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return 0, 0, util.LogError("[ReminderService] не удалось начать транзакцию", err)
	}
	defer rollback()

	files, err := s.reminderRepository.ListFilesWithExpiration(ctx, exec)
	if err != nil {
		return 0, 0, err
	}

	today := s.now().Truncate(24 * time.Hour)
	created := 0

	for _, file := range files {
		daysUntil := int(file.ExpirationDate.Truncate(24 * time.Hour).Sub(today).Hours() / 24)

		for _, threshold := range reminderThresholds {
			// порог достигнут, когда до даты осталось не больше daysBefore дней;
			// пропущенные пороги досылаются при следующем запуске
			if daysUntil > threshold.daysBefore {
				continue
			}

			exists, err := s.reminderRepository.ReminderExists(ctx, exec, file.FileID, threshold.reminderType)
			if err != nil {
				return 0, 0, err
			}
			if exists {
				continue
			}

			err = s.reminderRepository.InsertReminder(ctx, exec, &model.ExpirationReminder{
				FileID:          file.FileID,
				ReminderType:    threshold.reminderType,
				RecipientUserID: file.OwnerID,
				SentAt:          s.now(),
			})
			if err != nil {
				return 0, 0, err
			}
			created++
		}
	}

	if err := commit(); err != nil {
		return 0, 0, util.LogError("[ReminderService] не удалось закоммитить транзакцию", err)
	}

	log.Printf("[ReminderService] проверено дел: %d, создано напоминаний: %d", len(files), created)

	return created, len(files), nil
}

func (s *ReminderService) ListByFile(ctx context.Context, fileID int64) ([]model.ExpirationReminder, error) {
	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[ReminderService] не удалось начать транзакцию", err)
	}
	defer rollback()

	if _, err := s.fileRepository.GetByID(ctx, exec, fileID); err != nil {
		return nil, err
	}

	reminders, err := s.reminderRepository.ListByFile(ctx, exec, fileID)
	if err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[ReminderService] не удалось закоммитить транзакцию", err)
	}
	return reminders, nil
}
