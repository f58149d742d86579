package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/railops/cardstock-api/internal/application/cards"
)

// CardHandler maneja las transiciones de unidad individual (protegido).
type CardHandler struct {
	uc *cards.UseCase
}

// NewCardHandler construye el handler.
func NewCardHandler(uc *cards.UseCase) *CardHandler {
	return &CardHandler{uc: uc}
}

// GetBySerial godoc
// @Summary      Consultar una unidad por serial
// @Tags         cards
// @Security     Bearer
// @Produce      json
// @Param        serial  path  string  true  "Número de serie"
// @Success      200  {object}  dto.CardResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cards/{serial} [get]
func (h *CardHandler) GetBySerial(c *fiber.Ctx) error {
	resp, err := h.uc.GetBySerial(c.Context(), c.Params("serial"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Sell godoc
// @Summary      Vender una unidad residente en estación
// @Tags         cards
// @Security     Bearer
// @Produce      json
// @Param        serial  path  string  true  "Número de serie"
// @Success      200  {object}  dto.CardResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cards/{serial}/sell [post]
func (h *CardHandler) Sell(c *fiber.Ctx) error {
	resp, err := h.uc.Sell(c.Context(), GetUserID(c), c.Params("serial"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Deactivate godoc
// @Summary      Desactivar una unidad vendida
// @Tags         cards
// @Security     Bearer
// @Produce      json
// @Param        serial  path  string  true  "Número de serie"
// @Success      200  {object}  dto.CardResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cards/{serial}/deactivate [post]
func (h *CardHandler) Deactivate(c *fiber.Ctx) error {
	resp, err := h.uc.Deactivate(c.Context(), GetUserID(c), c.Params("serial"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Reactivate godoc
// @Summary      Reactivar una unidad vendida
// @Tags         cards
// @Security     Bearer
// @Produce      json
// @Param        serial  path  string  true  "Número de serie"
// @Success      200  {object}  dto.CardResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cards/{serial}/reactivate [post]
func (h *CardHandler) Reactivate(c *fiber.Ctx) error {
	resp, err := h.uc.Reactivate(c.Context(), GetUserID(c), c.Params("serial"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// MarkLost godoc
// @Summary      Dar de baja una unidad por pérdida
// @Tags         cards
// @Security     Bearer
// @Produce      json
// @Param        serial  path  string  true  "Número de serie"
// @Success      200  {object}  dto.CardResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cards/{serial}/lost [post]
func (h *CardHandler) MarkLost(c *fiber.Ctx) error {
	resp, err := h.uc.MarkLost(c.Context(), GetUserID(c), c.Params("serial"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// MarkDamaged godoc
// @Summary      Dar de baja una unidad por daño
// @Tags         cards
// @Security     Bearer
// @Produce      json
// @Param        serial  path  string  true  "Número de serie"
// @Success      200  {object}  dto.CardResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cards/{serial}/damaged [post]
func (h *CardHandler) MarkDamaged(c *fiber.Ctx) error {
	resp, err := h.uc.MarkDamaged(c.Context(), GetUserID(c), c.Params("serial"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
