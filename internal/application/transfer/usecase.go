package transfer

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

// UseCase gobierna el traslado en dos fases entre estaciones: despacho
// (PENDING, unidades ON_TRANSFER) y resolución exactamente-una-vez
// (RECEIVED con partición recibido/perdido/dañado, o REJECTED revirtiendo
// las unidades al origen).
type UseCase struct {
	txRunner     ports.TxRunner
	transferRepo repository.TransferRepository
	invalidator  ports.SnapshotInvalidator
}

func NewUseCase(txRunner ports.TxRunner, transferRepo repository.TransferRepository, invalidator ports.SnapshotInvalidator) *UseCase {
	return &UseCase{txRunner: txRunner, transferRepo: transferRepo, invalidator: invalidator}
}

// Create despacha seriales IN_STATION del origen hacia el destino. Fija el
// conjunto enviado, pasa las unidades a ON_TRANSFER apuntando al destino y
// asienta el movimiento TRANSFER pendiente.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	serials := card.NormalizeSerials(in.Serials)
	if len(serials) == 0 || in.FromStationID == "" || in.ToStationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.FromStationID == in.ToStationID {
		return nil, fmt.Errorf("origen y destino no pueden coincidir: %w", domain.ErrInvalidInput)
	}

	now := time.Now()
	transferID := uuid.New().String()
	movementID := uuid.New().String()
	var created *entity.Transfer

	err := uc.txRunner.Run(ctx, func(
		cardRepo repository.CardRepository,
		movementRepo repository.StockMovementRepository,
		transferRepo repository.TransferRepository,
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
			if u.Status != entity.StatusInStation {
				return fmt.Errorf("serial %s en estado %s, se esperaba %s: %w",
					u.SerialNumber, u.Status, entity.StatusInStation, domain.ErrInvalidSourceState)
			}
			if u.StationID == nil || *u.StationID != in.FromStationID {
				return fmt.Errorf("serial %s no reside en la estación origen: %w",
					u.SerialNumber, domain.ErrInvalidSourceState)
			}
			if u.CategoryID != categoryID || u.TypeID != typeID {
				return fmt.Errorf("el lote mezcla categorías o tipos: %w", domain.ErrInvalidInput)
			}
		}

		dest := in.ToStationID
		for _, sn := range serials {
			ok, err := cardRepo.ApplyStatusChange(repository.StatusChange{
				SerialNumber:     sn,
				FromStatus:       entity.StatusInStation,
				ToStatus:         entity.StatusOnTransfer,
				PendingStationID: &dest,
				UpdatedBy:        userID,
			})
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("serial %s ya no está disponible en la estación: %w",
					sn, domain.ErrInvalidSourceState)
			}
		}

		if err := movementRepo.Create(&entity.StockMovement{
			ID:                movementID,
			MovementAt:        now,
			Type:              entity.MovementTypeTRANSFER,
			Status:            entity.MovementStatusPending,
			CategoryID:        categoryID,
			TypeID:            typeID,
			StationID:         &dest,
			Quantity:          len(serials),
			SentSerialNumbers: serials,
			Note:              in.Note,
			CreatedAt:         now,
			CreatedBy:         userID,
		}); err != nil {
			return err
		}

		created = &entity.Transfer{
			ID:                transferID,
			MovementID:        movementID,
			Status:            entity.TransferStatusPending,
			FromStationID:     in.FromStationID,
			ToStationID:       in.ToStationID,
			CategoryID:        categoryID,
			TypeID:            typeID,
			Quantity:          len(serials),
			SentSerialNumbers: serials,
			Note:              in.Note,
			CreatedAt:         now,
			CreatedBy:         userID,
		}
		return transferRepo.Create(created)
	})
	if err != nil {
		return nil, err
	}

	uc.invalidator.Invalidate(ctx)
	return toResponse(created), nil
}

// Resolve cierra una transferencia pendiente. La partición enviada se valida
// completa y disyunta; si received viene vacío con pérdidas o daños
// declarados, el resto del envío se asume recibido. La resolución es
// todo-o-nada y exactamente-una-vez: un segundo intento devuelve
// ErrAlreadyResolved. La transferencia queda RECEIVED aunque ninguna unidad
// haya llegado; las pérdidas van en los contadores.
func (uc *UseCase) Resolve(ctx context.Context, userID, transferID string, in dto.ResolveTransferRequest) (*dto.TransferResponse, error) {
	if transferID == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var resolved *entity.Transfer

	err := uc.txRunner.Run(ctx, func(
		cardRepo repository.CardRepository,
		movementRepo repository.StockMovementRepository,
		transferRepo repository.TransferRepository,
		_ repository.CardProductRepository,
	) error {
		tr, err := transferRepo.GetByIDForUpdate(transferID)
		if err != nil {
			return err
		}
		if tr == nil {
			return domain.ErrNotFound
		}
		if tr.Status != entity.TransferStatusPending {
			return fmt.Errorf("transferencia en estado %s: %w", tr.Status, domain.ErrAlreadyResolved)
		}

		part, err := card.BuildPartition(tr.SentSerialNumbers, in.Received, in.Lost, in.Damaged)
		if err != nil {
			return err
		}

		dest := tr.ToStationID
		apply := func(serials []string, to entity.CardStatus, stationID, pendingID *string) error {
			for _, sn := range serials {
				ok, err := cardRepo.ApplyStatusChange(repository.StatusChange{
					SerialNumber:     sn,
					FromStatus:       entity.StatusOnTransfer,
					ToStatus:         to,
					StationID:        stationID,
					PendingStationID: pendingID,
					UpdatedBy:        userID,
				})
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("serial %s ya no está en traslado: %w", sn, domain.ErrInvalidSourceState)
				}
			}
			return nil
		}
		if err := apply(part.Received, entity.StatusInStation, &dest, nil); err != nil {
			return err
		}
		if err := apply(part.Lost, entity.StatusLost, nil, &dest); err != nil {
			return err
		}
		if err := apply(part.Damaged, entity.StatusDamaged, nil, &dest); err != nil {
			return err
		}

		tr.Status = entity.TransferStatusReceived
		tr.ReceivedSerialNumbers = part.Received
		tr.LostSerialNumbers = part.Lost
		tr.DamagedSerialNumbers = part.Damaged
		tr.ResolvedAt = &now
		tr.ResolvedBy = userID
		ok, err := transferRepo.Resolve(tr)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAlreadyResolved
		}

		if err := uc.settleMovement(movementRepo, tr, entity.MovementStatusApproved, *part, userID, now); err != nil {
			return err
		}
		resolved = tr
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.invalidator.Invalidate(ctx)
	return toResponse(resolved), nil
}

// Reject rechaza una transferencia pendiente y revierte cada unidad a
// IN_STATION en la estación origen. REJECTED es terminal; los mismos seriales
// pueden despacharse luego en una transferencia nueva.
func (uc *UseCase) Reject(ctx context.Context, userID, transferID, note string) (*dto.TransferResponse, error) {
	if transferID == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var rejected *entity.Transfer

	err := uc.txRunner.Run(ctx, func(
		cardRepo repository.CardRepository,
		movementRepo repository.StockMovementRepository,
		transferRepo repository.TransferRepository,
		_ repository.CardProductRepository,
	) error {
		tr, err := transferRepo.GetByIDForUpdate(transferID)
		if err != nil {
			return err
		}
		if tr == nil {
			return domain.ErrNotFound
		}
		if tr.Status != entity.TransferStatusPending {
			return fmt.Errorf("transferencia en estado %s: %w", tr.Status, domain.ErrAlreadyResolved)
		}

		origin := tr.FromStationID
		for _, sn := range tr.SentSerialNumbers {
			ok, err := cardRepo.ApplyStatusChange(repository.StatusChange{
				SerialNumber: sn,
				FromStatus:   entity.StatusOnTransfer,
				ToStatus:     entity.StatusInStation,
				StationID:    &origin,
				UpdatedBy:    userID,
			})
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("serial %s ya no está en traslado: %w", sn, domain.ErrInvalidSourceState)
			}
		}

		tr.Status = entity.TransferStatusRejected
		if note != "" {
			tr.Note = note
		}
		tr.ResolvedAt = &now
		tr.ResolvedBy = userID
		ok, err := transferRepo.Resolve(tr)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAlreadyResolved
		}

		if err := uc.settleMovement(movementRepo, tr, entity.MovementStatusRejected, card.Partition{}, userID, now); err != nil {
			return err
		}
		rejected = tr
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.invalidator.Invalidate(ctx)
	return toResponse(rejected), nil
}

// GetByID devuelve una transferencia.
func (uc *UseCase) GetByID(ctx context.Context, transferID string) (*dto.TransferResponse, error) {
	tr, err := uc.transferRepo.GetByID(transferID)
	if err != nil {
		return nil, err
	}
	if tr == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(tr), nil
}

// List lista transferencias con filtro y paginación.
func (uc *UseCase) List(ctx context.Context, filter repository.TransferFilter) ([]dto.TransferResponse, int, error) {
	transfers, err := uc.transferRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := uc.transferRepo.Count(filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.TransferResponse, 0, len(transfers))
	for _, tr := range transfers {
		out = append(out, *toResponse(tr))
	}
	return out, total, nil
}

// settleMovement cierra el asiento TRANSFER asociado con el detalle final.
func (uc *UseCase) settleMovement(movementRepo repository.StockMovementRepository, tr *entity.Transfer, status string, part card.Partition, userID string, now time.Time) error {
	movement, err := movementRepo.GetByIDForUpdate(tr.MovementID)
	if err != nil {
		return err
	}
	if movement == nil {
		return fmt.Errorf("movimiento %s de la transferencia: %w", tr.MovementID, domain.ErrNotFound)
	}
	movement.Status = status
	movement.ReceivedSerialNumbers = part.Received
	movement.LostSerialNumbers = part.Lost
	movement.DamagedSerialNumbers = part.Damaged
	movement.ValidatedAt = &now
	movement.ValidatedBy = userID
	return movementRepo.RecordReceipt(movement)
}

func toResponse(tr *entity.Transfer) *dto.TransferResponse {
	return &dto.TransferResponse{
		ID:                    tr.ID,
		Status:                tr.Status,
		FromStationID:         tr.FromStationID,
		ToStationID:           tr.ToStationID,
		CategoryID:            tr.CategoryID,
		TypeID:                tr.TypeID,
		Quantity:              tr.Quantity,
		SentSerialNumbers:     tr.SentSerialNumbers,
		ReceivedSerialNumbers: tr.ReceivedSerialNumbers,
		LostSerialNumbers:     tr.LostSerialNumbers,
		DamagedSerialNumbers:  tr.DamagedSerialNumbers,
		LostCount:             len(tr.LostSerialNumbers),
		DamagedCount:          len(tr.DamagedSerialNumbers),
		Note:                  tr.Note,
		CreatedAt:             tr.CreatedAt,
		ResolvedAt:            tr.ResolvedAt,
	}
}
