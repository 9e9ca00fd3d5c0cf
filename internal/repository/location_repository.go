package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"rolodrawer/config"
	"rolodrawer/internal/apperrors"
	"rolodrawer/internal/model"
	"rolodrawer/internal/util"
)

// LocationRepository : иерархия размещения Location -> Cabinet -> Drawer
type LocationRepository struct {
	*config.Database
}

func NewLocationRepository(database *config.Database) *LocationRepository {
	return &LocationRepository{database}
}

func (r *LocationRepository) CreateLocation(ctx context.Context, exec sqlx.ExtContext, location *model.Location) (*model.Location, error) {
	query := `INSERT INTO locations (name) VALUES ($1) RETURNING id, name, created_at`

	created := &model.Location{}
	if err := exec.QueryRowxContext(ctx, query, location.Name).StructScan(created); err != nil {
		return nil, util.LogError("[LocationRepo] ошибка создания помещения", err)
	}
	return created, nil
}

func (r *LocationRepository) CreateCabinet(ctx context.Context, exec sqlx.ExtContext, cabinet *model.Cabinet) (*model.Cabinet, error) {
	query := `
		INSERT INTO cabinets (location_id, label) VALUES ($1, $2)
		RETURNING id, location_id, label, created_at`

	created := &model.Cabinet{}
	if err := exec.QueryRowxContext(ctx, query, cabinet.LocationID, cabinet.Label).StructScan(created); err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: помещение %d", apperrors.ErrNotFound, cabinet.LocationID)
		}
		return nil, util.LogError("[LocationRepo] ошибка создания шкафа", err)
	}
	return created, nil
}

func (r *LocationRepository) CreateDrawer(ctx context.Context, exec sqlx.ExtContext, drawer *model.Drawer) (*model.Drawer, error) {
	query := `
		INSERT INTO drawers (cabinet_id, label) VALUES ($1, $2)
		RETURNING id, cabinet_id, label, created_at`

	created := &model.Drawer{}
	if err := exec.QueryRowxContext(ctx, query, drawer.CabinetID, drawer.Label).StructScan(created); err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: шкаф %d", apperrors.ErrNotFound, drawer.CabinetID)
		}
		return nil, util.LogError("[LocationRepo] ошибка создания ящика", err)
	}
	return created, nil
}

func (r *LocationRepository) DrawerExists(ctx context.Context, exec sqlx.ExtContext, drawerID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM drawers WHERE id = $1)`
	if err := sqlx.GetContext(ctx, exec, &exists, query, drawerID); err != nil {
		return false, util.LogError("[LocationRepo] ошибка проверки ящика", err)
	}
	return exists, nil
}

const drawerPathQuery = `
	SELECT d.id AS drawer_id, d.label AS drawer_label,
		c.id AS cabinet_id, c.label AS cabinet_label,
		l.id AS location_id, l.name AS location_name,
		(SELECT COUNT(*) FROM files f WHERE f.current_drawer_id = d.id) AS file_count
	FROM drawers d
	JOIN cabinets c ON c.id = d.cabinet_id
	JOIN locations l ON l.id = c.location_id`

// GetDrawerPath : ящик с полным путём размещения и числом дел в нём
func (r *LocationRepository) GetDrawerPath(ctx context.Context, exec sqlx.ExtContext, drawerID int64) (*model.DrawerPath, error) {
	query := drawerPathQuery + ` WHERE d.id = $1`

	var path model.DrawerPath
	err := sqlx.GetContext(ctx, exec, &path, query, drawerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, util.LogError("[LocationRepo] ошибка чтения пути ящика", err)
	}

	return &path, nil
}

func (r *LocationRepository) ListDrawers(ctx context.Context, exec sqlx.ExtContext) ([]model.DrawerPath, error) {
	query := drawerPathQuery + ` ORDER BY l.name, c.label, d.label`

	drawers := []model.DrawerPath{}
	if err := sqlx.SelectContext(ctx, exec, &drawers, query); err != nil {
		return nil, util.LogError("[LocationRepo] ошибка чтения списка ящиков", err)
	}

	return drawers, nil
}
