package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/railops/cardstock-api/internal/domain"
	"github.com/railops/cardstock-api/internal/domain/entity"
	"github.com/railops/cardstock-api/internal/domain/repository"
)

var _ repository.StationRepository = (*StationRepo)(nil)

// StationRepo implementación de StationRepository sobre PostgreSQL (usable con pool o tx).
type StationRepo struct {
	q Querier
}

// NewStationRepository construye el adaptador de estaciones. Pasar pool o tx (Querier).
func NewStationRepository(q Querier) *StationRepo {
	return &StationRepo{q: q}
}

// Create persiste una estación. El código de estación es único.
func (r *StationRepo) Create(station *entity.Station) error {
	query := `
		INSERT INTO stations (id, station_name, station_code, city, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		station.ID, station.StationName, station.StationCode, station.City,
		station.CreatedAt, station.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert station: %w", err)
	}
	return nil
}

// GetByID obtiene una estación. Devuelve nil si no existe.
func (r *StationRepo) GetByID(id string) (*entity.Station, error) {
	query := `SELECT id, station_name, station_code, city, created_at, updated_at FROM stations WHERE id = $1`
	var s entity.Station
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.StationName, &s.StationCode, &s.City, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get station: %w", err)
	}
	return &s, nil
}

// List lista estaciones con paginación.
func (r *StationRepo) List(limit, offset int) ([]*entity.Station, error) {
	query := `SELECT id, station_name, station_code, city, created_at, updated_at
		FROM stations ORDER BY station_name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	defer rows.Close()

	var out []*entity.Station
	for rows.Next() {
		var s entity.Station
		if err := rows.Scan(&s.ID, &s.StationName, &s.StationCode, &s.City, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
