package repository

import "github.com/railops/cardstock-api/internal/domain/entity"

// TransferFilter filtro de listados de transferencias.
type TransferFilter struct {
	StationID string // origen o destino
	Status    string
	Limit     int
	Offset    int
}

// TransferRepository puerto de persistencia de transferencias (DIP).
type TransferRepository interface {
	Create(transfer *entity.Transfer) error
	GetByID(id string) (*entity.Transfer, error)
	// GetByIDForUpdate bloquea la fila (SELECT FOR UPDATE) para resolución
	// exactamente-una-vez bajo concurrencia.
	GetByIDForUpdate(id string) (*entity.Transfer, error)
	// Resolve persiste la resolución condicionada a status PENDING.
	// Devuelve false si la transferencia ya no estaba pendiente.
	Resolve(transfer *entity.Transfer) (bool, error)
	List(filter TransferFilter) ([]*entity.Transfer, error)
	Count(filter TransferFilter) (int, error)
}
