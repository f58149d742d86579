package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/railops/cardstock-api/internal/application/dto"
	"github.com/railops/cardstock-api/internal/application/ports"
	"github.com/railops/cardstock-api/internal/domain"
	"github.com/railops/cardstock-api/internal/domain/card"
	"github.com/railops/cardstock-api/internal/domain/entity"
	"github.com/railops/cardstock-api/internal/domain/repository"
)

// StockOutUseCase despacha unidades de oficina a estación y confirma las
// recepciones. El despacho deja las unidades IN_TRANSIT con la estación
// destino anotada; la confirmación resuelve cada serial por separado.
type StockOutUseCase struct {
	txRunner     ports.TxRunner
	movementRepo repository.StockMovementRepository
	invalidator  ports.SnapshotInvalidator
}

func NewStockOutUseCase(txRunner ports.TxRunner, movementRepo repository.StockMovementRepository, invalidator ports.SnapshotInvalidator) *StockOutUseCase {
	return &StockOutUseCase{txRunner: txRunner, movementRepo: movementRepo, invalidator: invalidator}
}

// RecordStockOut despacha seriales IN_OFFICE hacia una estación. El lote debe
// ser homogéneo en producto y todo serial debe estar disponible en oficina.
func (uc *StockOutUseCase) RecordStockOut(ctx context.Context, userID string, in dto.StockOutRequest) (*dto.MovementResponse, error) {
	serials := card.NormalizeSerials(in.Serials)
	if len(serials) == 0 || in.DestinationStationID == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	movementID := uuid.New().String()

	err := uc.txRunner.Run(ctx, func(
		cardRepo repository.CardRepository,
		movementRepo repository.StockMovementRepository,
		_ repository.TransferRepository,
		_ repository.CardProductRepository,
	) error {
		units, err := cardRepo.ListBySerials(serials)
		if err != nil {
			return err
		}
		if len(units) != len(serials) {
			found := make(map[string]bool, len(units))
			for _, u := range units {
				found[u.SerialNumber] = true
			}
			for _, sn := range serials {
				if !found[sn] {
					return fmt.Errorf("serial %s no registrado: %w", sn, domain.ErrNotFound)
				}
			}
		}

		categoryID, typeID := units[0].CategoryID, units[0].TypeID
		for _, u := range units {
			if u.Status != entity.StatusInOffice {
				return fmt.Errorf("serial %s en estado %s, se esperaba %s: %w",
					u.SerialNumber, u.Status, entity.StatusInOffice, domain.ErrInvalidSourceState)
			}
			if u.CategoryID != categoryID || u.TypeID != typeID {
				return fmt.Errorf("el lote mezcla categorías o tipos: %w", domain.ErrInvalidInput)
			}
		}

		dest := in.DestinationStationID
		for _, sn := range serials {
			// UPDATE condicionado al estado origen: si otro despacho ganó la
			// carrera sobre este serial, la tx completa se revierte.
			ok, err := cardRepo.ApplyStatusChange(repository.StatusChange{
				SerialNumber:     sn,
				FromStatus:       entity.StatusInOffice,
				ToStatus:         entity.StatusInTransit,
				PendingStationID: &dest,
				UpdatedBy:        userID,
			})
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("serial %s ya no está disponible en oficina: %w",
					sn, domain.ErrInvalidSourceState)
			}
		}

		return movementRepo.Create(&entity.StockMovement{
			ID:                movementID,
			MovementAt:        now,
			Type:              entity.MovementTypeOUT,
			Status:            entity.MovementStatusPending,
			CategoryID:        categoryID,
			TypeID:            typeID,
			StationID:         &dest,
			Quantity:          len(serials),
			SentSerialNumbers: serials,
			Note:              in.Note,
			CreatedAt:         now,
			CreatedBy:         userID,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.invalidator.Invalidate(ctx)
	return &dto.MovementResponse{
		MovementID: movementID,
		Status:     string(entity.MovementStatusPending),
		Quantity:   len(serials),
	}, nil
}

// ConfirmReceipt confirma la recepción de un despacho OUT pendiente. La
// confirmación puede ser parcial: solo los seriales reportados cambian de
// estado y lo no contabilizado sigue IN_TRANSIT. Cada serial se resuelve por
// separado (un serial inválido no bloquea al resto) y el resultado se reporta
// por serial; el movimiento queda APPROVED recién cuando todo lo enviado está
// contabilizado.
func (uc *StockOutUseCase) ConfirmReceipt(ctx context.Context, userID, movementID string, in dto.ConfirmReceiptRequest) (*dto.ConfirmReceiptResponse, error) {
	if movementID == "" {
		return nil, domain.ErrInvalidInput
	}
	confirmed := card.NormalizeSerials(in.Confirmed)
	lost := card.NormalizeSerials(in.Lost)
	damaged := card.NormalizeSerials(in.Damaged)
	if len(confirmed)+len(lost)+len(damaged) == 0 {
		return nil, domain.ErrInvalidInput
	}
	requested := make(map[string]bool, len(confirmed)+len(lost)+len(damaged))
	for _, set := range [][]string{confirmed, lost, damaged} {
		for _, sn := range set {
			if requested[sn] {
				return nil, fmt.Errorf("serial %s aparece en más de un conjunto: %w", sn, domain.ErrInvalidInput)
			}
			requested[sn] = true
		}
	}

	now := time.Now()
	results := make(map[string]dto.SerialResult)
	var movementStatus string

	err := uc.txRunner.Run(ctx, func(
		cardRepo repository.CardRepository,
		movementRepo repository.StockMovementRepository,
		_ repository.TransferRepository,
		_ repository.CardProductRepository,
	) error {
		movement, err := movementRepo.GetByIDForUpdate(movementID)
		if err != nil {
			return err
		}
		if movement == nil {
			return domain.ErrNotFound
		}
		if movement.Type != entity.MovementTypeOUT {
			return fmt.Errorf("el movimiento %s no es un despacho: %w", movementID, domain.ErrInvalidInput)
		}
		if movement.Status != entity.MovementStatusPending {
			return fmt.Errorf("movimiento ya validado: %w", domain.ErrAlreadyResolved)
		}

		sent := make(map[string]bool, len(movement.SentSerialNumbers))
		for _, sn := range movement.SentSerialNumbers {
			sent[sn] = true
		}
		accounted := make(map[string]bool)
		for _, prior := range [][]string{movement.ReceivedSerialNumbers, movement.LostSerialNumbers, movement.DamagedSerialNumbers} {
			for _, sn := range prior {
				accounted[sn] = true
			}
		}

		dest := movement.StationID
		apply := func(serials []string, to entity.CardStatus, stationID, pendingID *string, bucket *[]string) error {
			for _, sn := range serials {
				if !sent[sn] {
					results[sn] = dto.SerialResult{Error: "NOT_IN_DISPATCH"}
					continue
				}
				if accounted[sn] {
					results[sn] = dto.SerialResult{Error: "ALREADY_ACCOUNTED"}
					continue
				}
				ok, err := cardRepo.ApplyStatusChange(repository.StatusChange{
					SerialNumber:     sn,
					FromStatus:       entity.StatusInTransit,
					ToStatus:         to,
					StationID:        stationID,
					PendingStationID: pendingID,
					UpdatedBy:        userID,
				})
				if err != nil {
					return err
				}
				if !ok {
					results[sn] = dto.SerialResult{Error: "INVALID_SOURCE_STATE"}
					continue
				}
				results[sn] = dto.SerialResult{Status: string(to)}
				*bucket = append(*bucket, sn)
				accounted[sn] = true
			}
			return nil
		}

		// Recibidas quedan residentes en la estación; perdidas y dañadas
		// conservan la estación destino como atribución de grupo.
		if err := apply(confirmed, entity.StatusInStation, dest, nil, &movement.ReceivedSerialNumbers); err != nil {
			return err
		}
		if err := apply(lost, entity.StatusLost, nil, dest, &movement.LostSerialNumbers); err != nil {
			return err
		}
		if err := apply(damaged, entity.StatusDamaged, nil, dest, &movement.DamagedSerialNumbers); err != nil {
			return err
		}

		// El movimiento se aprueba solo cuando todo lo enviado está contabilizado.
		if len(accounted) == len(movement.SentSerialNumbers) {
			movement.Status = entity.MovementStatusApproved
			movement.ValidatedAt = &now
			movement.ValidatedBy = userID
		}
		if in.Note != "" {
			movement.Note = in.Note
		}
		movementStatus = movement.Status
		return movementRepo.RecordReceipt(movement)
	})
	if err != nil {
		return nil, err
	}

	uc.invalidator.Invalidate(ctx)
	return &dto.ConfirmReceiptResponse{
		MovementID:     movementID,
		MovementStatus: movementStatus,
		Results:        results,
	}, nil
}

// History lista movimientos del ledger con filtro y paginación.
func (uc *StockOutUseCase) History(ctx context.Context, filter repository.MovementFilter) ([]dto.MovementHistoryItem, int, error) {
	movements, err := uc.movementRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := uc.movementRepo.Count(filter)
	if err != nil {
		return nil, 0, err
	}
	items := make([]dto.MovementHistoryItem, 0, len(movements))
	for _, m := range movements {
		items = append(items, dto.MovementHistoryItem{
			ID:                    m.ID,
			MovementAt:            m.MovementAt,
			Type:                  string(m.Type),
			Status:                string(m.Status),
			CategoryID:            m.CategoryID,
			TypeID:                m.TypeID,
			StationID:             m.StationID,
			Quantity:              m.Quantity,
			Note:                  m.Note,
			SentSerialNumbers:     m.SentSerialNumbers,
			ReceivedSerialNumbers: m.ReceivedSerialNumbers,
			LostSerialNumbers:     m.LostSerialNumbers,
			DamagedSerialNumbers:  m.DamagedSerialNumbers,
			ValidatedAt:           m.ValidatedAt,
		})
	}
	return items, total, nil
}
