package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/railops/cardstock-api/internal/application/catalog"
	"github.com/railops/cardstock-api/internal/application/dto"
)

// CatalogHandler maneja las altas y listados de los maestros (protegido, solo admin).
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// CreateCategory godoc
// @Summary      Crear categoría de tarjeta
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "category_name, category_code, program_type"
// @Success      201   {object}  map[string]interface{}
// @Router       /api/catalog/categories [post]
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	category, err := h.uc.CreateCategory(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// ListCategories godoc
// @Summary      Listar categorías
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.CardCategory
// @Router       /api/catalog/categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	return h.list(c, func(limit, offset int) (any, error) {
		return h.uc.ListCategories(c.Context(), limit, offset)
	})
}

// CreateType godoc
// @Summary      Crear tipo de tarjeta
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCardTypeRequest  true  "type_name, type_code"
// @Success      201   {object}  map[string]interface{}
// @Router       /api/catalog/types [post]
func (h *CatalogHandler) CreateType(c *fiber.Ctx) error {
	var in dto.CreateCardTypeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	cardType, err := h.uc.CreateType(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cardType)
}

// ListTypes godoc
// @Summary      Listar tipos
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.CardType
// @Router       /api/catalog/types [get]
func (h *CatalogHandler) ListTypes(c *fiber.Ctx) error {
	return h.list(c, func(limit, offset int) (any, error) {
		return h.uc.ListTypes(c.Context(), limit, offset)
	})
}

// CreateProduct godoc
// @Summary      Crear producto de tarjeta
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCardProductRequest  true  "category_id, type_id, serial_template, total_quota, price, program_type"
// @Success      201   {object}  map[string]interface{}
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/catalog/products [post]
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var in dto.CreateCardProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	product, err := h.uc.CreateProduct(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// ListProducts godoc
// @Summary      Listar productos
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.CardProduct
// @Router       /api/catalog/products [get]
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	return h.list(c, func(limit, offset int) (any, error) {
		return h.uc.ListProducts(c.Context(), limit, offset)
	})
}

// CreateStation godoc
// @Summary      Crear estación
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStationRequest  true  "station_name, station_code, city"
// @Success      201   {object}  map[string]interface{}
// @Router       /api/stations [post]
func (h *CatalogHandler) CreateStation(c *fiber.Ctx) error {
	var in dto.CreateStationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	station, err := h.uc.CreateStation(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(station)
}

// ListStations godoc
// @Summary      Listar estaciones
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.Station
// @Router       /api/stations [get]
func (h *CatalogHandler) ListStations(c *fiber.Ctx) error {
	return h.list(c, func(limit, offset int) (any, error) {
		return h.uc.ListStations(c.Context(), limit, offset)
	})
}

func (h *CatalogHandler) list(c *fiber.Ctx, fetch func(limit, offset int) (any, error)) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	items, err := fetch(page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}
