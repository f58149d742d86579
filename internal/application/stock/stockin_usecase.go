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

// StockInUseCase registra altas de stock en la oficina central. Cubre dos
// caminos: seriales nuevos explícitos (RecordStockIn) y confirmación de lotes
// generados en ON_REQUEST (ConfirmGenerated).
type StockInUseCase struct {
	txRunner    ports.TxRunner
	invalidator ports.SnapshotInvalidator
}

func NewStockInUseCase(txRunner ports.TxRunner, invalidator ports.SnapshotInvalidator) *StockInUseCase {
	return &StockInUseCase{txRunner: txRunner, invalidator: invalidator}
}

// RecordStockIn crea unidades nuevas a partir de seriales explícitos. El
// programa del producto decide el estado inicial (IN_OFFICE para FWC,
// ON_REQUEST para voucher). Cualquier serial ya registrado aborta el lote.
func (uc *StockInUseCase) RecordStockIn(ctx context.Context, userID string, in dto.StockInRequest) (*dto.MovementResponse, error) {
	serials := card.NormalizeSerials(in.Serials)
	if len(serials) == 0 || in.CategoryID == "" || in.TypeID == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	movementID := uuid.New().String()

	err := uc.txRunner.Run(ctx, func(
		cardRepo repository.CardRepository,
		movementRepo repository.StockMovementRepository,
		_ repository.TransferRepository,
		productRepo repository.CardProductRepository,
	) error {
		product, err := productRepo.GetByCategoryAndType(in.CategoryID, in.TypeID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("no hay producto para la categoría y tipo: %w", domain.ErrNotFound)
		}

		existing, err := cardRepo.ExistingSerials(serials)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return fmt.Errorf("serial %s ya existe: %w", existing[0], domain.ErrDuplicateSerial)
		}

		initialStatus := card.InitialStatus(product.ProgramType)
		units := make([]*entity.Card, 0, len(serials))
		for _, sn := range serials {
			units = append(units, &entity.Card{
				SerialNumber:  sn,
				CardProductID: product.ID,
				CategoryID:    in.CategoryID,
				TypeID:        in.TypeID,
				Status:        initialStatus,
				QuotaTicket:   product.TotalQuota,
				CreatedAt:     now,
				CreatedBy:     userID,
				UpdatedAt:     now,
				UpdatedBy:     userID,
			})
		}
		if err := cardRepo.CreateBatch(units); err != nil {
			return err
		}

		return movementRepo.Create(&entity.StockMovement{
			ID:                    movementID,
			MovementAt:            now,
			Type:                  entity.MovementTypeIN,
			Status:                entity.MovementStatusApproved,
			CategoryID:            in.CategoryID,
			TypeID:                in.TypeID,
			Quantity:              len(serials),
			SentSerialNumbers:     serials,
			ReceivedSerialNumbers: serials,
			Note:                  in.Note,
			CreatedAt:             now,
			CreatedBy:             userID,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.invalidator.Invalidate(ctx)
	return &dto.MovementResponse{
		MovementID: movementID,
		Status:     string(entity.MovementStatusApproved),
		Quantity:   len(serials),
	}, nil
}

// ConfirmGenerated pasa un rango de unidades generadas de ON_REQUEST a
// IN_OFFICE. Toda unidad del rango debe existir y estar en ON_REQUEST.
func (uc *StockInUseCase) ConfirmGenerated(ctx context.Context, userID string, in dto.ConfirmGeneratedRequest) (*dto.MovementResponse, error) {
	if in.CardProductID == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	movementID := uuid.New().String()
	var quantity int
	var categoryID, typeID string

	err := uc.txRunner.Run(ctx, func(
		cardRepo repository.CardRepository,
		movementRepo repository.StockMovementRepository,
		_ repository.TransferRepository,
		productRepo repository.CardProductRepository,
	) error {
		product, err := productRepo.GetByID(in.CardProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		categoryID, typeID = product.CategoryID, product.TypeID

		yearSuffix := card.YearSuffix(now)
		startNum, err := card.ParseSmartSerial(in.StartSerial, product.SerialTemplate, yearSuffix)
		if err != nil {
			return err
		}
		endNum, err := card.ParseSmartSerial(in.EndSerial, product.SerialTemplate, yearSuffix)
		if err != nil {
			return err
		}
		if endNum < startNum {
			return fmt.Errorf("end_serial debe ser >= start_serial: %w", domain.ErrInvalidInput)
		}
		serials := card.ExpandRange(product.SerialTemplate, yearSuffix, startNum, endNum)
		quantity = len(serials)

		units, err := cardRepo.ListBySerials(serials)
		if err != nil {
			return err
		}
		if len(units) != len(serials) {
			return fmt.Errorf("el rango contiene seriales no registrados: %w", domain.ErrNotFound)
		}
		for _, u := range units {
			if u.Status != entity.StatusOnRequest {
				return fmt.Errorf("serial %s en estado %s, se esperaba %s: %w",
					u.SerialNumber, u.Status, entity.StatusOnRequest, domain.ErrInvalidSourceState)
			}
		}

		for _, sn := range serials {
			ok, err := cardRepo.ApplyStatusChange(repository.StatusChange{
				SerialNumber: sn,
				FromStatus:   entity.StatusOnRequest,
				ToStatus:     entity.StatusInOffice,
				UpdatedBy:    userID,
			})
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("serial %s cambió de estado durante la confirmación: %w",
					sn, domain.ErrInvalidSourceState)
			}
		}

		return movementRepo.Create(&entity.StockMovement{
			ID:                    movementID,
			MovementAt:            now,
			Type:                  entity.MovementTypeIN,
			Status:                entity.MovementStatusApproved,
			CategoryID:            categoryID,
			TypeID:                typeID,
			Quantity:              quantity,
			SentSerialNumbers:     serials,
			ReceivedSerialNumbers: serials,
			Note:                  in.Note,
			CreatedAt:             now,
			CreatedBy:             userID,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.invalidator.Invalidate(ctx)
	return &dto.MovementResponse{
		MovementID: movementID,
		Status:     string(entity.MovementStatusApproved),
		Quantity:   quantity,
	}, nil
}
