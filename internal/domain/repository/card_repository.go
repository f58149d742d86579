package repository

import (
	"time"

	"github.com/railops/cardstock-api/internal/domain/entity"
)

// SummaryFilter filtro del agregador de inventario. Campos vacíos no filtran.
// Si StartDate/EndDate están presentes, el universo se restringe a unidades
// referenciadas por movimientos dentro de la ventana.
type SummaryFilter struct {
	CategoryID string
	TypeID     string
	StationID  string
	StartDate  *time.Time
	EndDate    *time.Time
}

// StatusChange cambio condicional de estado para una unidad. La actualización
// solo aplica si la unidad sigue en FromStatus (atómico por serial).
type StatusChange struct {
	SerialNumber     string
	FromStatus       entity.CardStatus
	ToStatus         entity.CardStatus
	StationID        *string
	PendingStationID *string
	UpdatedBy        string
}

// CardRepository puerto de persistencia del registro de tarjetas (DIP).
// La unicidad del serial la garantiza un constraint de almacenamiento, no un
// check-then-insert: CreateBatch falla con ErrDuplicateSerial ante colisión.
type CardRepository interface {
	CreateBatch(cards []*entity.Card) error
	GetBySerial(serialNumber string) (*entity.Card, error)
	ListBySerials(serialNumbers []string) ([]*entity.Card, error)
	// ExistingSerials devuelve el subconjunto de seriales que ya existen.
	ExistingSerials(serialNumbers []string) ([]string, error)
	// LastSerialByProduct devuelve el serial más alto del producto ("" si no hay).
	LastSerialByProduct(cardProductID string) (string, error)
	CountByProduct(cardProductID string) (int, error)
	// ApplyStatusChange ejecuta un UPDATE condicionado al estado origen.
	// Devuelve false si la unidad ya no estaba en FromStatus.
	ApplyStatusChange(change StatusChange) (bool, error)
	ListForSummary(filter SummaryFilter) ([]*entity.Card, error)
}
