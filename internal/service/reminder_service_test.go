package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rolodrawer/internal/apperrors"
	"rolodrawer/internal/model"
	"rolodrawer/internal/service"
)

type MockReminderRepository struct{ mock.Mock }

func (m *MockReminderRepository) ListFilesWithExpiration(ctx context.Context, exec sqlx.ExtContext) ([]model.FileExpiration, error) {
	args := m.Called(ctx, exec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FileExpiration), args.Error(1)
}

func (m *MockReminderRepository) ReminderExists(ctx context.Context, exec sqlx.ExtContext, fileID int64, reminderType string) (bool, error) {
	args := m.Called(ctx, exec, fileID, reminderType)
	return args.Bool(0), args.Error(1)
}

func (m *MockReminderRepository) InsertReminder(ctx context.Context, exec sqlx.ExtContext, reminder *model.ExpirationReminder) error {
	return m.Called(ctx, exec, reminder).Error(0)
}

func (m *MockReminderRepository) ListByFile(ctx context.Context, exec sqlx.ExtContext, fileID int64) ([]model.ExpirationReminder, error) {
	args := m.Called(ctx, exec, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ExpirationReminder), args.Error(1)
}

func newTestReminderService() (*service.ReminderService, *MockReminderRepository, *MockFileRepository) {
	reminderRepo := new(MockReminderRepository)
	fileRepo := new(MockFileRepository)
	svc := service.NewReminderService(reminderRepo, fileRepo)
	return svc, reminderRepo, fileRepo
}

func TestGenerateReminders_RequiresAdmin(t *testing.T) {
	svc, _, fileRepo := newTestReminderService()

	_, _, err := svc.GenerateExpirationReminders(context.Background(), worker)

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	fileRepo.AssertNotCalled(t, "BeginTX", mock.Anything)
}

// До даты истечения 45 дней: достигнуты пороги 90 и 60 дней, порог 30 ещё нет
func TestGenerateReminders_ThresholdsBeforeExpiration(t *testing.T) {
	svc, reminderRepo, fileRepo := newTestReminderService()
	expectTX(fileRepo)

	files := []model.FileExpiration{{
		FileID:         10,
		DisplayNumber:  "2024-0001",
		ExpirationDate: time.Now().Add(45 * 24 * time.Hour),
		OwnerID:        2,
	}}

	reminderRepo.On("ListFilesWithExpiration", mock.Anything, mock.Anything).Return(files, nil)
	reminderRepo.On("ReminderExists", mock.Anything, mock.Anything, int64(10), model.Reminder90DaysBefore).Return(false, nil)
	reminderRepo.On("ReminderExists", mock.Anything, mock.Anything, int64(10), model.Reminder60DaysBefore).Return(false, nil)
	reminderRepo.On("InsertReminder", mock.Anything, mock.Anything, mock.MatchedBy(func(r *model.ExpirationReminder) bool {
		return r.FileID == 10 && r.RecipientUserID == 2
	})).Return(nil).Twice()

	created, checked, err := svc.GenerateExpirationReminders(context.Background(), admin)

	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, 1, checked)
	reminderRepo.AssertNotCalled(t, "ReminderExists", mock.Anything, mock.Anything, int64(10), model.Reminder30DaysBefore)
	reminderRepo.AssertExpectations(t)
}

// Повторный запуск не создаёт дубликатов
func TestGenerateReminders_Idempotent(t *testing.T) {
	svc, reminderRepo, fileRepo := newTestReminderService()
	expectTX(fileRepo)

	files := []model.FileExpiration{{
		FileID:         10,
		ExpirationDate: time.Now().Add(85 * 24 * time.Hour),
		OwnerID:        2,
	}}

	reminderRepo.On("ListFilesWithExpiration", mock.Anything, mock.Anything).Return(files, nil)
	reminderRepo.On("ReminderExists", mock.Anything, mock.Anything, int64(10), model.Reminder90DaysBefore).Return(true, nil)

	created, checked, err := svc.GenerateExpirationReminders(context.Background(), admin)

	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 1, checked)
	reminderRepo.AssertNotCalled(t, "InsertReminder", mock.Anything, mock.Anything, mock.Anything)
}

// Дата истечения давно прошла: досылаются и пороги "после"
func TestGenerateReminders_AfterExpiration(t *testing.T) {
	svc, reminderRepo, fileRepo := newTestReminderService()
	expectTX(fileRepo)

	files := []model.FileExpiration{{
		FileID:         10,
		ExpirationDate: time.Now().Add(-100 * 24 * time.Hour),
		OwnerID:        2,
	}}

	reminderRepo.On("ListFilesWithExpiration", mock.Anything, mock.Anything).Return(files, nil)
	reminderRepo.On("ReminderExists", mock.Anything, mock.Anything, int64(10), mock.Anything).Return(false, nil)
	reminderRepo.On("InsertReminder", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	created, checked, err := svc.GenerateExpirationReminders(context.Background(), admin)

	require.NoError(t, err)
	// все шесть порогов: 90/60/30 до и 30/60/90 после
	assert.Equal(t, 6, created)
	assert.Equal(t, 1, checked)
}
