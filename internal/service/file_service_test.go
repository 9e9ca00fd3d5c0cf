package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rolodrawer/internal/apperrors"
	"rolodrawer/internal/model"
	"rolodrawer/internal/service"

	"github.com/jmoiron/sqlx"
)

type MockTagRepository struct{ mock.Mock }

func (m *MockTagRepository) CreateTag(ctx context.Context, exec sqlx.ExtContext, tag *model.Tag) (*model.Tag, error) {
	args := m.Called(ctx, exec, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tag), args.Error(1)
}

func (m *MockTagRepository) ListTags(ctx context.Context, exec sqlx.ExtContext) ([]model.Tag, error) {
	args := m.Called(ctx, exec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tag), args.Error(1)
}

func (m *MockTagRepository) ListByFile(ctx context.Context, exec sqlx.ExtContext, fileID int64) ([]model.Tag, error) {
	args := m.Called(ctx, exec, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tag), args.Error(1)
}

func (m *MockTagRepository) Assign(ctx context.Context, exec sqlx.ExtContext, fileID, tagID int64) error {
	return m.Called(ctx, exec, fileID, tagID).Error(0)
}

func (m *MockTagRepository) Remove(ctx context.Context, exec sqlx.ExtContext, fileID, tagID int64) error {
	return m.Called(ctx, exec, fileID, tagID).Error(0)
}

func newTestFileService() (*service.FileService, *MockFileRepository, *MockMovementRepository, *MockLocationRepository, *MockTagRepository) {
	fileRepo := new(MockFileRepository)
	movementRepo := new(MockMovementRepository)
	locationRepo := new(MockLocationRepository)
	tagRepo := new(MockTagRepository)

	svc := service.NewFileService(fileRepo, movementRepo, locationRepo, tagRepo, 25)
	return svc, fileRepo, movementRepo, locationRepo, tagRepo
}

func TestCreateFile_Success(t *testing.T) {
	svc, fileRepo, movementRepo, locationRepo, _ := newTestFileService()
	ctx := context.Background()
	expectTX(fileRepo)

	input := &model.File{
		DisplayNumber:   "2024-0001",
		Name:            "Договор аренды",
		Sensitivity:     model.SensitivityInternal,
		CurrentDrawerID: drawer(4),
	}

	locationRepo.On("DrawerExists", mock.Anything, mock.Anything, int64(4)).Return(true, nil)
	fileRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(f *model.File) bool {
		_, parseErr := uuid.Parse(f.UUID)
		return parseErr == nil && f.OwnerID == worker.UserID
	})).Return(&model.File{ID: 10, DisplayNumber: "2024-0001", CurrentDrawerID: drawer(4)}, nil)
	movementRepo.On("Insert", mock.Anything, mock.Anything, mock.MatchedBy(func(mv *model.Movement) bool {
		return mv.FileID == 10 && mv.FromDrawerID == nil && *mv.ToDrawerID == 4 && mv.Notes == "первичное размещение"
	})).Return(nil)

	created, err := svc.CreateFile(ctx, worker, input, "первичное размещение")

	require.NoError(t, err)
	assert.Equal(t, int64(10), created.ID)
	movementRepo.AssertExpectations(t)
}

func TestCreateFile_WithoutDrawerSkipsMovement(t *testing.T) {
	svc, fileRepo, movementRepo, _, _ := newTestFileService()
	expectTX(fileRepo)

	input := &model.File{
		DisplayNumber: "2024-0002",
		Name:          "Личное дело",
		Sensitivity:   model.SensitivityConfidential,
	}

	fileRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(&model.File{ID: 11, DisplayNumber: "2024-0002"}, nil)

	_, err := svc.CreateFile(context.Background(), worker, input, "")

	require.NoError(t, err)
	movementRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateFile_Validation(t *testing.T) {
	svc, _, _, _, _ := newTestFileService()
	ctx := context.Background()

	_, err := svc.CreateFile(ctx, worker, &model.File{Name: "без номера", Sensitivity: model.SensitivityPublic}, "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.CreateFile(ctx, worker, &model.File{DisplayNumber: "2024-0003", Sensitivity: model.SensitivityPublic}, "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.CreateFile(ctx, worker, &model.File{DisplayNumber: "2024-0003", Name: "дело", Sensitivity: "secret"}, "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCreateFile_ViewerForbidden(t *testing.T) {
	svc, fileRepo, _, _, _ := newTestFileService()

	_, err := svc.CreateFile(context.Background(), viewer, &model.File{
		DisplayNumber: "2024-0004",
		Name:          "дело",
		Sensitivity:   model.SensitivityPublic,
	}, "")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	fileRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateFile_UnknownDrawer(t *testing.T) {
	svc, fileRepo, _, locationRepo, _ := newTestFileService()
	expectTX(fileRepo)

	locationRepo.On("DrawerExists", mock.Anything, mock.Anything, int64(99)).Return(false, nil)

	_, err := svc.CreateFile(context.Background(), worker, &model.File{
		DisplayNumber:   "2024-0005",
		Name:            "дело",
		Sensitivity:     model.SensitivityPublic,
		CurrentDrawerID: drawer(99),
	}, "")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateFile_DestroyedConflict(t *testing.T) {
	svc, fileRepo, _, _, _ := newTestFileService()
	expectTX(fileRepo)

	fileRepo.On("GetByIDForUpdate", mock.Anything, mock.Anything, int64(10)).
		Return(&model.File{ID: 10, IsDestroyed: true}, nil)

	_, err := svc.UpdateFile(context.Background(), worker, 10, &model.File{
		Name:        "новое название",
		Sensitivity: model.SensitivityPublic,
	})

	assert.ErrorIs(t, err, apperrors.ErrDestroyed)
	fileRepo.AssertNotCalled(t, "UpdateMetadata", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateFile_OwnerChangeRequiresAdmin(t *testing.T) {
	svc, fileRepo, _, _, _ := newTestFileService()
	expectTX(fileRepo)

	fileRepo.On("GetByIDForUpdate", mock.Anything, mock.Anything, int64(10)).
		Return(&model.File{ID: 10, OwnerID: 2}, nil)

	_, err := svc.UpdateFile(context.Background(), worker, 10, &model.File{
		Name:        "дело",
		Sensitivity: model.SensitivityPublic,
		OwnerID:     5,
	})

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestUpdateFile_Success(t *testing.T) {
	svc, fileRepo, _, _, _ := newTestFileService()
	expectTX(fileRepo)

	fileRepo.On("GetByIDForUpdate", mock.Anything, mock.Anything, int64(10)).
		Return(&model.File{ID: 10, OwnerID: 2, Name: "старое", Sensitivity: model.SensitivityPublic}, nil)
	fileRepo.On("UpdateMetadata", mock.Anything, mock.Anything, mock.MatchedBy(func(f *model.File) bool {
		return f.ID == 10 && f.Name == "новое название" && f.Sensitivity == model.SensitivityConfidential
	})).Return(nil)

	file, err := svc.UpdateFile(context.Background(), worker, 10, &model.File{
		Name:        "новое название",
		Sensitivity: model.SensitivityConfidential,
		OwnerID:     2,
	})

	require.NoError(t, err)
	assert.Equal(t, "новое название", file.Name)
	fileRepo.AssertExpectations(t)
}

func TestGetFileByUUID_InvalidUUID(t *testing.T) {
	svc, fileRepo, _, _, _ := newTestFileService()

	_, err := svc.GetFileByUUID(context.Background(), worker, "не-uuid")

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	fileRepo.AssertNotCalled(t, "GetByUUID", mock.Anything, mock.Anything, mock.Anything)
}

func TestListFiles_Pagination(t *testing.T) {
	svc, fileRepo, _, _, _ := newTestFileService()
	expectTX(fileRepo)

	fileRepo.On("List", mock.Anything, mock.Anything, model.FileFilters{}, 25, 50).
		Return([]model.File{{ID: 51}}, 120, nil)

	files, total, err := svc.ListFiles(context.Background(), worker, model.FileFilters{}, 3)

	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, 120, total)
}

func TestCreateTag_EmptyName(t *testing.T) {
	svc, _, _, _, tagRepo := newTestFileService()

	_, err := svc.CreateTag(context.Background(), worker, "", "#ff0000")

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	tagRepo.AssertNotCalled(t, "CreateTag", mock.Anything, mock.Anything, mock.Anything)
}

func TestAssignTag_ViewerForbidden(t *testing.T) {
	svc, _, _, _, tagRepo := newTestFileService()

	err := svc.AssignTag(context.Background(), viewer, 10, 1)

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	tagRepo.AssertNotCalled(t, "Assign", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAssignTag_Success(t *testing.T) {
	svc, fileRepo, _, _, tagRepo := newTestFileService()
	expectTX(fileRepo)

	tagRepo.On("Assign", mock.Anything, mock.Anything, int64(10), int64(1)).Return(nil)

	err := svc.AssignTag(context.Background(), worker, 10, 1)

	assert.NoError(t, err)
	tagRepo.AssertExpectations(t)
}
