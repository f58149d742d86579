package ports

import (
	"context"

	"github.com/railops/cardstock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el cambio de estado de las
// unidades y el asiento del ledger persisten juntos o no persisten.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		cardRepo repository.CardRepository,
		movementRepo repository.StockMovementRepository,
		transferRepo repository.TransferRepository,
		productRepo repository.CardProductRepository,
	) error) error
}

// SnapshotInvalidator invalida el snapshot cacheado del agregador tras una
// mutación. La invalidación es best-effort: el agregador es consultivo y
// eventualmente consistente, nunca bloquea la escritura.
type SnapshotInvalidator interface {
	Invalidate(ctx context.Context)
}

// NopInvalidator para despliegues sin cache.
type NopInvalidator struct{}

// Invalidate no hace nada.
func (NopInvalidator) Invalidate(context.Context) {}
