package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/railops/cardstock-api/internal/application/dto"
	"github.com/railops/cardstock-api/internal/domain"
	"github.com/railops/cardstock-api/internal/domain/entity"
	"github.com/railops/cardstock-api/internal/domain/repository"
)

// UseCase altas y consultas de los maestros: categorías, tipos, productos y
// estaciones. Son datos de referencia; los flujos de stock solo los leen.
type UseCase struct {
	categoryRepo repository.CardCategoryRepository
	typeRepo     repository.CardTypeRepository
	productRepo  repository.CardProductRepository
	stationRepo  repository.StationRepository
}

func NewUseCase(
	categoryRepo repository.CardCategoryRepository,
	typeRepo repository.CardTypeRepository,
	productRepo repository.CardProductRepository,
	stationRepo repository.StationRepository,
) *UseCase {
	return &UseCase{
		categoryRepo: categoryRepo,
		typeRepo:     typeRepo,
		productRepo:  productRepo,
		stationRepo:  stationRepo,
	}
}

// CreateCategory da de alta una categoría de tarjeta.
func (uc *UseCase) CreateCategory(ctx context.Context, in dto.CreateCategoryRequest) (*entity.CardCategory, error) {
	if in.CategoryName == "" || in.CategoryCode == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.ProgramType != entity.ProgramFWC && in.ProgramType != entity.ProgramVoucher {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	category := &entity.CardCategory{
		ID:           uuid.New().String(),
		CategoryName: in.CategoryName,
		CategoryCode: in.CategoryCode,
		ProgramType:  in.ProgramType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// CreateType da de alta un tipo de tarjeta.
func (uc *UseCase) CreateType(ctx context.Context, in dto.CreateCardTypeRequest) (*entity.CardType, error) {
	if in.TypeName == "" || in.TypeCode == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	cardType := &entity.CardType{
		ID:        uuid.New().String(),
		TypeName:  in.TypeName,
		TypeCode:  in.TypeCode,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.typeRepo.Create(cardType); err != nil {
		return nil, err
	}
	return cardType, nil
}

// CreateProduct da de alta un producto. La categoría y el tipo deben existir
// y no puede haber otro producto para el mismo par.
func (uc *UseCase) CreateProduct(ctx context.Context, in dto.CreateCardProductRequest) (*entity.CardProduct, error) {
	if in.CategoryID == "" || in.TypeID == "" || in.SerialTemplate == "" || in.TotalQuota <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.ProgramType != entity.ProgramFWC && in.ProgramType != entity.ProgramVoucher {
		return nil, domain.ErrInvalidInput
	}
	if category, err := uc.categoryRepo.GetByID(in.CategoryID); err != nil {
		return nil, err
	} else if category == nil {
		return nil, domain.ErrNotFound
	}
	if cardType, err := uc.typeRepo.GetByID(in.TypeID); err != nil {
		return nil, err
	} else if cardType == nil {
		return nil, domain.ErrNotFound
	}
	if existing, err := uc.productRepo.GetByCategoryAndType(in.CategoryID, in.TypeID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrAlreadyExists
	}

	now := time.Now()
	product := &entity.CardProduct{
		ID:             uuid.New().String(),
		CategoryID:     in.CategoryID,
		TypeID:         in.TypeID,
		SerialTemplate: in.SerialTemplate,
		TotalQuota:     in.TotalQuota,
		ValidityMonths: in.ValidityMonths,
		Price:          in.Price,
		ProgramType:    in.ProgramType,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// CreateStation da de alta una estación.
func (uc *UseCase) CreateStation(ctx context.Context, in dto.CreateStationRequest) (*entity.Station, error) {
	if in.StationName == "" || in.StationCode == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	station := &entity.Station{
		ID:          uuid.New().String(),
		StationName: in.StationName,
		StationCode: in.StationCode,
		City:        in.City,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.stationRepo.Create(station); err != nil {
		return nil, err
	}
	return station, nil
}

// ListCategories lista categorías.
func (uc *UseCase) ListCategories(ctx context.Context, limit, offset int) ([]*entity.CardCategory, error) {
	return uc.categoryRepo.List(limit, offset)
}

// ListTypes lista tipos.
func (uc *UseCase) ListTypes(ctx context.Context, limit, offset int) ([]*entity.CardType, error) {
	return uc.typeRepo.List(limit, offset)
}

// ListProducts lista productos.
func (uc *UseCase) ListProducts(ctx context.Context, limit, offset int) ([]*entity.CardProduct, error) {
	return uc.productRepo.List(limit, offset)
}

// ListStations lista estaciones.
func (uc *UseCase) ListStations(ctx context.Context, limit, offset int) ([]*entity.Station, error) {
	return uc.stationRepo.List(limit, offset)
}
