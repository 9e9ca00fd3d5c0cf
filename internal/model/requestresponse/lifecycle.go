package requestresponse

import (
	"time"

	"rolodrawer/internal/model"
)

// CheckoutRequest : выдача дела на руки
type CheckoutRequest struct {
	UserID             int64     `json:"user_id" example:"3"`
	ExpectedReturnDate time.Time `json:"expected_return_date"`
	Notes              string    `json:"notes" example:"для сверки с бухгалтерией"`
}

// CheckInRequest : возврат дела
type CheckInRequest struct {
	Notes string `json:"notes" example:"возвращено в полном составе"`
}

// MoveRequest : перемещение дела
type MoveRequest struct {
	DrawerID           *int64  `json:"drawer_id" example:"7"`
	PositionVertical   *string `json:"position_vertical" example:"3"`
	PositionHorizontal *string `json:"position_horizontal" example:"A"`
	Notes              string  `json:"notes" example:"перераспределение после ревизии"`
	ArchivedConfirmed  bool    `json:"archived_confirmed" example:"false"`
}

// BulkMoveRequest : перемещение набора дел в один ящик
type BulkMoveRequest struct {
	FileIDs []int64 `json:"file_ids" example:"1,2,3"`
	MoveRequest
}

// BulkMoveResponse : итог массового перемещения
type BulkMoveResponse struct {
	Response model.BulkMoveResult `json:"response"`
}

// ArchiveRequest : архивирование дела
type ArchiveRequest struct {
	Reason string `json:"reason" example:"срок активного использования истёк"`
}

// DestroyRequest : фиксация физического уничтожения
type DestroyRequest struct {
	Method    string `json:"method" example:"шредирование"`
	Notes     string `json:"notes" example:"акт №14"`
	Confirmed bool   `json:"confirmed" example:"true"`
}

// RestoreDestructionRequest : снятие ошибочной отметки об уничтожении
type RestoreDestructionRequest struct {
	Confirmed bool `json:"confirmed" example:"true"`
}

// MovementListResponse : журнал перемещений дела
type MovementListResponse struct {
	Response []model.Movement `json:"response"`
}

// CheckoutListResponse : эпизоды выдачи дела
type CheckoutListResponse struct {
	Response []model.Checkout `json:"response"`
}

// OverdueListResponse : просроченные выдачи
type OverdueListResponse struct {
	Response []model.OverdueCheckout `json:"response"`
}
