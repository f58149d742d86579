package cards

import (
	"context"
	"fmt"

	"github.com/railops/cardstock-api/internal/application/dto"
	"github.com/railops/cardstock-api/internal/application/ports"
	"github.com/railops/cardstock-api/internal/domain"
	"github.com/railops/cardstock-api/internal/domain/card"
	"github.com/railops/cardstock-api/internal/domain/entity"
	"github.com/railops/cardstock-api/internal/domain/repository"
)

// UseCase transiciones de unidad individual fuera de los flujos por lote:
// venta en estación, activación/desactivación y bajas por pérdida o daño.
type UseCase struct {
	txRunner    ports.TxRunner
	cardRepo    repository.CardRepository
	invalidator ports.SnapshotInvalidator
}

func NewUseCase(txRunner ports.TxRunner, cardRepo repository.CardRepository, invalidator ports.SnapshotInvalidator) *UseCase {
	return &UseCase{txRunner: txRunner, cardRepo: cardRepo, invalidator: invalidator}
}

// GetBySerial devuelve una unidad por su serial.
func (uc *UseCase) GetBySerial(ctx context.Context, serialNumber string) (*dto.CardResponse, error) {
	c, err := uc.cardRepo.GetBySerial(serialNumber)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(c), nil
}

// Sell vende una unidad residente en estación. La unidad queda SOLD_ACTIVE
// conservando la estación de venta.
func (uc *UseCase) Sell(ctx context.Context, userID, serialNumber string) (*dto.CardResponse, error) {
	return uc.transition(ctx, userID, serialNumber, entity.StatusSoldActive)
}

// Deactivate desactiva una unidad vendida (SOLD_ACTIVE -> SOLD_INACTIVE).
func (uc *UseCase) Deactivate(ctx context.Context, userID, serialNumber string) (*dto.CardResponse, error) {
	return uc.transition(ctx, userID, serialNumber, entity.StatusSoldInactive)
}

// Reactivate reactiva una unidad vendida (SOLD_INACTIVE -> SOLD_ACTIVE).
func (uc *UseCase) Reactivate(ctx context.Context, userID, serialNumber string) (*dto.CardResponse, error) {
	return uc.transition(ctx, userID, serialNumber, entity.StatusSoldActive)
}

// MarkLost da de baja una unidad por pérdida. Terminal.
func (uc *UseCase) MarkLost(ctx context.Context, userID, serialNumber string) (*dto.CardResponse, error) {
	return uc.transition(ctx, userID, serialNumber, entity.StatusLost)
}

// MarkDamaged da de baja una unidad por daño. Terminal.
func (uc *UseCase) MarkDamaged(ctx context.Context, userID, serialNumber string) (*dto.CardResponse, error) {
	return uc.transition(ctx, userID, serialNumber, entity.StatusDamaged)
}

// transition aplica una arista del ciclo de vida a una unidad, validándola
// contra el grafo y preservando la atribución de estación al dar de baja.
func (uc *UseCase) transition(ctx context.Context, userID, serialNumber string, to entity.CardStatus) (*dto.CardResponse, error) {
	if serialNumber == "" {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.Card
	err := uc.txRunner.Run(ctx, func(
		cardRepo repository.CardRepository,
		_ repository.StockMovementRepository,
		_ repository.TransferRepository,
		_ repository.CardProductRepository,
	) error {
		c, err := cardRepo.GetBySerial(serialNumber)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		if err := card.ValidateTransition(c.Status, to); err != nil {
			return fmt.Errorf("%s -> %s: %w", c.Status, to, err)
		}

		change := repository.StatusChange{
			SerialNumber: serialNumber,
			FromStatus:   c.Status,
			ToStatus:     to,
			UpdatedBy:    userID,
		}
		switch {
		case to.IsStationResident():
			change.StationID = c.StationID
		case to.IsTerminal():
			// La estación pasa a atribución pendiente para que el grupo del
			// agregador no pierda la baja.
			change.PendingStationID = c.StationID
			if c.StationID == nil {
				change.PendingStationID = c.PendingStationID
			}
		}

		ok, err := cardRepo.ApplyStatusChange(change)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("serial %s cambió de estado: %w", serialNumber, domain.ErrInvalidSourceState)
		}

		after := *c
		after.Status = to
		after.StationID = change.StationID
		after.PendingStationID = change.PendingStationID
		updated = &after
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.invalidator.Invalidate(ctx)
	return toResponse(updated), nil
}

func toResponse(c *entity.Card) *dto.CardResponse {
	return &dto.CardResponse{
		SerialNumber:     c.SerialNumber,
		CardProductID:    c.CardProductID,
		CategoryID:       c.CategoryID,
		TypeID:           c.TypeID,
		Status:           string(c.Status),
		StationID:        c.StationID,
		PendingStationID: c.PendingStationID,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}
