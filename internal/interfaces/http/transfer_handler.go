package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/railops/cardstock-api/internal/application/dto"
	"github.com/railops/cardstock-api/internal/application/transfer"
	"github.com/railops/cardstock-api/internal/domain/repository"
)

// TransferHandler maneja las peticiones HTTP de transferencias entre estaciones (protegido).
type TransferHandler struct {
	uc *transfer.UseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.UseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Create godoc
// @Summary      Despachar una transferencia estación -> estación
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "from_station_id, to_station_id, serials"
// @Success      201   {object}  dto.TransferResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	// Un operador de estación solo despacha desde su propia estación.
	if st := GetStationID(c); st != "" && in.FromStationID != st {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo se puede despachar desde la estación propia"})
	}
	resp, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Resolve godoc
// @Summary      Resolver una transferencia pendiente
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la transferencia"
// @Param        body  body  dto.ResolveTransferRequest  true  "received, lost, damaged (particionan lo enviado)"
// @Success      200   {object}  dto.TransferResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/resolve [post]
func (h *TransferHandler) Resolve(c *fiber.Ctx) error {
	var in dto.ResolveTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Resolve(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Reject godoc
// @Summary      Rechazar una transferencia pendiente
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "ID de la transferencia"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/reject [post]
func (h *TransferHandler) Reject(c *fiber.Ctx) error {
	var in struct {
		Note string `json:"note"`
	}
	// El cuerpo es opcional.
	_ = c.BodyParser(&in)
	resp, err := h.uc.Reject(c.Context(), GetUserID(c), c.Params("id"), in.Note)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// GetByID godoc
// @Summary      Obtener una transferencia
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la transferencia"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// List godoc
// @Summary      Listar transferencias
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        station_id  query  string  false  "Origen o destino"
// @Param        status      query  string  false  "PENDING | RECEIVED | REJECTED"
// @Param        limit       query  int     false  "Tamaño de página"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	list, total, err := h.uc.List(c.Context(), repository.TransferFilter{
		StationID: c.Query("station_id"),
		Status:    c.Query("status"),
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"transfers": list,
		"page":      dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	})
}
