package repository

import (
	"time"

	"github.com/railops/cardstock-api/internal/domain/entity"
)

// MovementFilter filtro de listados del ledger.
type MovementFilter struct {
	Type       string
	Status     string
	CategoryID string
	TypeID     string
	StationID  string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// StockMovementRepository puerto de persistencia del ledger (DIP).
// Los movimientos no se editan; RecordReceipt completa el tramo de recepción
// de un OUT pendiente (arrays de resultado + estado + auditoría) una sola vez.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	// GetByIDForUpdate bloquea la fila del movimiento (SELECT FOR UPDATE).
	GetByIDForUpdate(id string) (*entity.StockMovement, error)
	RecordReceipt(movement *entity.StockMovement) error
	List(filter MovementFilter) ([]*entity.StockMovement, error)
	Count(filter MovementFilter) (int, error)
}
