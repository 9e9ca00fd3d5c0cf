package ports

import (
	"context"

	"github.com/jmoiron/sqlx"

	"rolodrawer/internal/model"
)

// LocationRepository : SQL слой иерархии размещения
type LocationRepository interface {
	CreateLocation(ctx context.Context, exec sqlx.ExtContext, location *model.Location) (*model.Location, error)
	CreateCabinet(ctx context.Context, exec sqlx.ExtContext, cabinet *model.Cabinet) (*model.Cabinet, error)
	CreateDrawer(ctx context.Context, exec sqlx.ExtContext, drawer *model.Drawer) (*model.Drawer, error)
	DrawerExists(ctx context.Context, exec sqlx.ExtContext, drawerID int64) (bool, error)
	GetDrawerPath(ctx context.Context, exec sqlx.ExtContext, drawerID int64) (*model.DrawerPath, error)
	ListDrawers(ctx context.Context, exec sqlx.ExtContext) ([]model.DrawerPath, error)
}

type LocationService interface {
	CreateLocation(ctx context.Context, actor model.Actor, name string) (*model.Location, error)
	CreateCabinet(ctx context.Context, actor model.Actor, locationID int64, label string) (*model.Cabinet, error)
	CreateDrawer(ctx context.Context, actor model.Actor, cabinetID int64, label string) (*model.Drawer, error)
	GetDrawerPath(ctx context.Context, drawerID int64) (*model.DrawerPath, error)
	ListDrawers(ctx context.Context) ([]model.DrawerPath, error)
}
