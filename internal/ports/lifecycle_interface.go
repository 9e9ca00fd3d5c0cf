package ports

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"rolodrawer/internal/model"
)

// MovementRepository : журнал перемещений, только вставка и чтение
type MovementRepository interface {
	Insert(ctx context.Context, exec sqlx.ExtContext, movement *model.Movement) error
	ListByFile(ctx context.Context, exec sqlx.ExtContext, fileID int64, limit int) ([]model.Movement, error)
}

// CheckoutRepository : журнал эпизодов выдачи
type CheckoutRepository interface {
	InsertEpisode(ctx context.Context, exec sqlx.ExtContext, checkout *model.Checkout) error
	// CloseOpen закрывает открытый эпизод дела; возвращает false,
	// если открытого эпизода не было
	CloseOpen(ctx context.Context, exec sqlx.ExtContext, fileID int64, returnedAt time.Time, returnNotes string) (bool, error)
	FindOpenByFile(ctx context.Context, exec sqlx.ExtContext, fileID int64) (*model.Checkout, error)
	ListByFile(ctx context.Context, exec sqlx.ExtContext, fileID int64, limit int) ([]model.Checkout, error)
	ListOverdue(ctx context.Context, exec sqlx.ExtContext, asOf time.Time) ([]model.OverdueCheckout, error)
}

// LifecycleService : единственная точка всех переходов состояния дела
type LifecycleService interface {
	Checkout(ctx context.Context, actor model.Actor, fileID, targetUserID int64, expectedReturn time.Time, notes string) (*model.File, error)
	CheckIn(ctx context.Context, actor model.Actor, fileID int64, returnNotes string) (*model.File, error)
	Move(ctx context.Context, actor model.Actor, fileID int64, req model.MoveRequest) (*model.File, error)
	BulkMove(ctx context.Context, actor model.Actor, fileIDs []int64, req model.MoveRequest) (*model.BulkMoveResult, error)
	Archive(ctx context.Context, actor model.Actor, fileID int64, reason string) (*model.File, error)
	RestoreFromArchive(ctx context.Context, actor model.Actor, fileID int64) (*model.File, error)
	MarkDestroyed(ctx context.Context, actor model.Actor, fileID int64, method, notes string, confirmed bool) (*model.File, error)
	RestoreFromDestruction(ctx context.Context, actor model.Actor, fileID int64, confirmed bool) (*model.File, error)

	Movements(ctx context.Context, fileID int64, limit int) ([]model.Movement, error)
	CheckoutHistory(ctx context.Context, fileID int64, limit int) ([]model.Checkout, error)
	OverdueCheckouts(ctx context.Context) ([]model.OverdueCheckout, error)
}
