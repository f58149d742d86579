package repository

import "github.com/railops/cardstock-api/internal/domain/entity"

// StationRepository puerto de persistencia para Station (DIP).
type StationRepository interface {
	Create(station *entity.Station) error
	GetByID(id string) (*entity.Station, error)
	List(limit, offset int) ([]*entity.Station, error)
}
