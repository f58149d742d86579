package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/railops/cardstock-api/internal/application/dto"
	"github.com/railops/cardstock-api/internal/application/stock"
	"github.com/railops/cardstock-api/internal/domain/repository"
)

// StockHandler maneja las peticiones HTTP de generación y movimientos de stock (protegido).
type StockHandler struct {
	generateUC *stock.GenerateUseCase
	stockInUC  *stock.StockInUseCase
	stockOutUC *stock.StockOutUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(generateUC *stock.GenerateUseCase, stockInUC *stock.StockInUseCase, stockOutUC *stock.StockOutUseCase) *StockHandler {
	return &StockHandler{generateUC: generateUC, stockInUC: stockInUC, stockOutUC: stockOutUC}
}

// Generate godoc
// @Summary      Generar lote de unidades desde la plantilla del producto
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GenerateUnitsRequest  true  "card_product_id, start_serial, end_serial (sufijo o serial completo)"
// @Success      201   {object}  dto.GenerateUnitsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/generate [post]
func (h *StockHandler) Generate(c *fiber.Ctx) error {
	var in dto.GenerateUnitsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.generateUC.Generate(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// NextSerial godoc
// @Summary      Siguiente serial disponible para un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  path  string  true  "ID del producto"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/next-serial/{product_id} [get]
func (h *StockHandler) NextSerial(c *fiber.Ctx) error {
	next, err := h.generateUC.NextSerial(c.Context(), c.Params("product_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"next_serial": next})
}

// StockIn godoc
// @Summary      Alta de stock en oficina con seriales explícitos
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockInRequest  true  "category_id, type_id, serials"
// @Success      201   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/in [post]
func (h *StockHandler) StockIn(c *fiber.Ctx) error {
	var in dto.StockInRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.stockInUC.RecordStockIn(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ConfirmGenerated godoc
// @Summary      Confirmar lote generado (ON_REQUEST -> IN_OFFICE)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConfirmGeneratedRequest  true  "card_product_id, start_serial, end_serial"
// @Success      200   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/confirm-generated [post]
func (h *StockHandler) ConfirmGenerated(c *fiber.Ctx) error {
	var in dto.ConfirmGeneratedRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.stockInUC.ConfirmGenerated(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// StockOut godoc
// @Summary      Despachar unidades de oficina a una estación
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockOutRequest  true  "serials, destination_station_id"
// @Success      201   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/out [post]
func (h *StockHandler) StockOut(c *fiber.Ctx) error {
	var in dto.StockOutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.stockOutUC.RecordStockOut(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ConfirmReceipt godoc
// @Summary      Confirmar recepción de un despacho pendiente
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del movimiento OUT"
// @Param        body  body  dto.ConfirmReceiptRequest true  "confirmed, lost, damaged (subconjuntos de lo enviado; lo no reportado sigue en tránsito)"
// @Success      200   {object}  dto.ConfirmReceiptResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements/{id}/receipt [post]
func (h *StockHandler) ConfirmReceipt(c *fiber.Ctx) error {
	var in dto.ConfirmReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.stockOutUC.ConfirmReceipt(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// History godoc
// @Summary      Historial de movimientos del ledger
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        type        query  string  false  "GENERATED | IN | OUT | TRANSFER"
// @Param        status      query  string  false  "PENDING | APPROVED | REJECTED"
// @Param        station_id  query  string  false  "Estación"
// @Param        from        query  string  false  "Desde (RFC 3339)"
// @Param        to          query  string  false  "Hasta (RFC 3339)"
// @Param        limit       query  int     false  "Tamaño de página"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/stock/movements [get]
func (h *StockHandler) History(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	filter := repository.MovementFilter{
		Type:       c.Query("type"),
		Status:     c.Query("status"),
		CategoryID: c.Query("category_id"),
		TypeID:     c.Query("type_id"),
		StationID:  c.Query("station_id"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido"})
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido"})
		}
		filter.To = &t
	}

	items, total, err := h.stockOutUC.History(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"movements": items,
		"page":      dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	})
}
