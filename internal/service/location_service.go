package service

import (
	"context"
	"fmt"
	"log"

	"rolodrawer/config"
	"rolodrawer/internal/apperrors"
	"rolodrawer/internal/model"
	"rolodrawer/internal/ports"
)

// LocationService управляет иерархией размещения: помещение, шкаф, ящик
type LocationService struct {
	locationRepository ports.LocationRepository
	database           *config.Database
}

func NewLocationService(locationRepository ports.LocationRepository, database *config.Database) *LocationService {
	return &LocationService{
		locationRepository: locationRepository,
		database:           database,
	}
}

func (s *LocationService) CreateLocation(ctx context.Context, actor model.Actor, name string) (*model.Location, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: изменять размещение может только администратор", apperrors.ErrUnauthorized)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: не указано название помещения", apperrors.ErrValidation)
	}

	created, err := s.locationRepository.CreateLocation(ctx, s.database.DB, &model.Location{Name: name})
	if err != nil {
		return nil, err
	}

	log.Printf("[LocationService] создано помещение %q", created.Name)
	return created, nil
}

func (s *LocationService) CreateCabinet(ctx context.Context, actor model.Actor, locationID int64, label string) (*model.Cabinet, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: изменять размещение может только администратор", apperrors.ErrUnauthorized)
	}
	if label == "" {
		return nil, fmt.Errorf("%w: не указана маркировка шкафа", apperrors.ErrValidation)
	}

	created, err := s.locationRepository.CreateCabinet(ctx, s.database.DB, &model.Cabinet{
		LocationID: locationID,
		Label:      label,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[LocationService] создан шкаф %q в помещении %d", created.Label, created.LocationID)
	return created, nil
}

func (s *LocationService) CreateDrawer(ctx context.Context, actor model.Actor, cabinetID int64, label string) (*model.Drawer, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: изменять размещение может только администратор", apperrors.ErrUnauthorized)
	}
	if label == "" {
		return nil, fmt.Errorf("%w: не указана маркировка ящика", apperrors.ErrValidation)
	}

	created, err := s.locationRepository.CreateDrawer(ctx, s.database.DB, &model.Drawer{
		CabinetID: cabinetID,
		Label:     label,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[LocationService] создан ящик %q в шкафу %d", created.Label, created.CabinetID)
	return created, nil
}

func (s *LocationService) GetDrawerPath(ctx context.Context, drawerID int64) (*model.DrawerPath, error) {
	return s.locationRepository.GetDrawerPath(ctx, s.database.DB, drawerID)
}

func (s *LocationService) ListDrawers(ctx context.Context) ([]model.DrawerPath, error) {
	return s.locationRepository.ListDrawers(ctx, s.database.DB)
}
