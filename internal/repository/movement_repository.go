package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"rolodrawer/config"
	"rolodrawer/internal/model"
	"rolodrawer/internal/util"
)

// MovementRepository : журнал перемещений. Таблица append-only,
// методов обновления и удаления нет намеренно.
type MovementRepository struct {
	*config.Database
}

func NewMovementRepository(database *config.Database) *MovementRepository {
	return &MovementRepository{database}
}

func (r *MovementRepository) Insert(ctx context.Context, exec sqlx.ExtContext, movement *model.Movement) error {
	query := `
		INSERT INTO file_movements (file_id, from_drawer_id, to_drawer_id, moved_by, notes, moved_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := exec.ExecContext(ctx, query,
		movement.FileID,
		movement.FromDrawerID,
		movement.ToDrawerID,
		movement.MovedBy,
		movement.Notes,
		movement.MovedAt,
	)
	if err != nil {
		return util.LogError("[MovementRepo] ошибка записи перемещения", err)
	}

	return nil
}

func (r *MovementRepository) ListByFile(ctx context.Context, exec sqlx.ExtContext, fileID int64, limit int) ([]model.Movement, error) {
	query := `
		SELECT id, file_id, from_drawer_id, to_drawer_id, moved_by, notes, moved_at
		FROM file_movements
		WHERE file_id = $1
		ORDER BY moved_at ASC, id ASC
		LIMIT $2`

	movements := []model.Movement{}
	if err := sqlx.SelectContext(ctx, exec, &movements, query, fileID, limit); err != nil {
		return nil, util.LogError("[MovementRepo] ошибка чтения журнала перемещений", err)
	}

	return movements, nil
}
