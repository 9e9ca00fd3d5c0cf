package model

import "time"

// Movement : неизменяемая запись журнала перемещений.
// from_drawer_id фиксируется из текущего размещения дела до изменения;
// записи никогда не обновляются и не удаляются.
type Movement struct {
	ID           int64     `db:"id" json:"id"`
	FileID       int64     `db:"file_id" json:"file_id"`
	FromDrawerID *int64    `db:"from_drawer_id" json:"from_drawer_id,omitempty"`
	ToDrawerID   *int64    `db:"to_drawer_id" json:"to_drawer_id,omitempty"`
	MovedBy      int64     `db:"moved_by" json:"moved_by"`
	Notes        string    `db:"notes" json:"notes"`
	MovedAt      time.Time `db:"moved_at" json:"moved_at"`
}

// MoveRequest : параметры перемещения дела
type MoveRequest struct {
	NewDrawerID        *int64
	PositionVertical   *string
	PositionHorizontal *string
	Notes              string
	// ArchivedConfirmed : явное подтверждение перемещения архивного дела
	ArchivedConfirmed bool
}

// BulkMoveResult : итог пакетного перемещения. Успехи не откатываются
// при отказах других дел, каждое дело перемещается в своей транзакции.
type BulkMoveResult struct {
	Moved   []int64       `json:"moved"`
	Skipped []SkippedFile `json:"skipped"`
}

type SkippedFile struct {
	FileID int64  `json:"file_id"`
	Reason string `json:"reason"`
}
