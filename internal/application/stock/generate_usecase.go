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

// maxBatchSize tope de unidades por lote de generación.
const maxBatchSize = 1000

// GenerateUseCase genera lotes de unidades desde la plantilla del producto:
// seriales consecutivos, cuota del producto respetada y asiento GENERATED en
// el ledger, todo en una transacción.
type GenerateUseCase struct {
	txRunner    ports.TxRunner
	productRepo repository.CardProductRepository
	cardRepo    repository.CardRepository
	invalidator ports.SnapshotInvalidator
}

// NewGenerateUseCase construye el caso de uso.
func NewGenerateUseCase(txRunner ports.TxRunner, productRepo repository.CardProductRepository, cardRepo repository.CardRepository, invalidator ports.SnapshotInvalidator) *GenerateUseCase {
	return &GenerateUseCase{txRunner: txRunner, productRepo: productRepo, cardRepo: cardRepo, invalidator: invalidator}
}

// Generate crea las unidades del rango [start..end] para el producto.
// El estado inicial depende del programa: FWC nace IN_OFFICE, voucher nace
// ON_REQUEST a la espera de confirmación de oficina.
func (uc *GenerateUseCase) Generate(ctx context.Context, userID string, in dto.GenerateUnitsRequest) (*dto.GenerateUnitsResponse, error) {
	if in.CardProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.CardProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	yearSuffix := card.YearSuffix(now)
	startNum, err := card.ParseSmartSerial(in.StartSerial, product.SerialTemplate, yearSuffix)
	if err != nil {
		return nil, err
	}
	endNum, err := card.ParseSmartSerial(in.EndSerial, product.SerialTemplate, yearSuffix)
	if err != nil {
		return nil, err
	}
	if endNum < startNum {
		return nil, fmt.Errorf("end_serial debe ser >= start_serial: %w", domain.ErrInvalidInput)
	}
	quantity := endNum - startNum + 1
	if quantity > maxBatchSize {
		return nil, fmt.Errorf("máximo %d unidades por lote: %w", maxBatchSize, domain.ErrInvalidInput)
	}

	serials := card.ExpandRange(product.SerialTemplate, yearSuffix, startNum, endNum)
	initial := card.InitialStatus(product.ProgramType)
	movementID := uuid.New().String()

	err = uc.txRunner.Run(ctx, func(
		cardRepo repository.CardRepository,
		movementRepo repository.StockMovementRepository,
		_ repository.TransferRepository,
		_ repository.CardProductRepository,
	) error {
		// Cuota del producto: lo ya generado más este lote no puede excederla.
		generated, err := cardRepo.CountByProduct(product.ID)
		if err != nil {
			return err
		}
		if product.TotalQuota > 0 && generated+quantity > product.TotalQuota {
			return fmt.Errorf("generadas %d de %d: %w", generated, product.TotalQuota, domain.ErrQuotaExceeded)
		}

		// Los lotes deben ser consecutivos por producto.
		last, err := cardRepo.LastSerialByProduct(product.ID)
		if err != nil {
			return err
		}
		expectedStart := 1
		prefix := product.SerialTemplate + yearSuffix
		if len(last) > len(prefix) && last[:len(prefix)] == prefix {
			if n, perr := card.ParseSmartSerial(last, product.SerialTemplate, yearSuffix); perr == nil {
				expectedStart = n + 1
			}
		}
		if startNum != expectedStart {
			return fmt.Errorf("el lote debe continuar en el sufijo %0*d (último serial: %s): %w",
				card.SuffixWidth, expectedStart, last, domain.ErrInvalidInput)
		}

		// Chequeo de colisión; el constraint único del almacenamiento cierra
		// la carrera entre chequeo e inserción.
		existing, err := cardRepo.ExistingSerials(serials)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return fmt.Errorf("serial %s ya existe: %w", existing[0], domain.ErrDuplicateSerial)
		}

		units := make([]*entity.Card, 0, quantity)
		for _, sn := range serials {
			units = append(units, &entity.Card{
				SerialNumber:  sn,
				CardProductID: product.ID,
				CategoryID:    product.CategoryID,
				TypeID:        product.TypeID,
				Status:        initial,
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
			Type:                  entity.MovementTypeGENERATED,
			Status:                entity.MovementStatusApproved,
			CategoryID:            product.CategoryID,
			TypeID:                product.TypeID,
			Quantity:              quantity,
			SentSerialNumbers:     serials,
			ReceivedSerialNumbers: serials,
			Note:                  fmt.Sprintf("Lote generado %s - %s", serials[0], serials[len(serials)-1]),
			CreatedAt:             now,
			CreatedBy:             userID,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.invalidator.Invalidate(ctx)
	return &dto.GenerateUnitsResponse{
		MovementID:  movementID,
		Quantity:    quantity,
		FirstSerial: serials[0],
		LastSerial:  serials[len(serials)-1],
		Serials:     serials,
	}, nil
}

// NextSerial sugiere el siguiente sufijo disponible para el producto.
func (uc *GenerateUseCase) NextSerial(ctx context.Context, cardProductID string) (string, error) {
	product, err := uc.productRepo.GetByID(cardProductID)
	if err != nil {
		return "", err
	}
	if product == nil {
		return "", domain.ErrNotFound
	}
	yearSuffix := card.YearSuffix(time.Now())
	last, err := uc.cardRepo.LastSerialByProduct(product.ID)
	if err != nil {
		return "", err
	}
	next := 1
	prefix := product.SerialTemplate + yearSuffix
	if len(last) > len(prefix) && last[:len(prefix)] == prefix {
		if n, perr := card.ParseSmartSerial(last, product.SerialTemplate, yearSuffix); perr == nil {
			next = n + 1
		}
	}
	return card.FormatSerial(product.SerialTemplate, yearSuffix, next), nil
}
