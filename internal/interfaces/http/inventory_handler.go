package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/railops/cardstock-api/internal/application/dto"
	"github.com/railops/cardstock-api/internal/application/inventory"
)

// InventoryHandler maneja las consultas del agregador de inventario (protegido).
type InventoryHandler struct {
	uc *inventory.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen de inventario por categoría, tipo y estación
// @Description  Proyección derivada del registro de unidades; con start_date y
// @Description  end_date el universo se restringe a unidades con movimientos en la ventana.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        category_id  query  string  false  "Categoría"
// @Param        type_id      query  string  false  "Tipo"
// @Param        station_id   query  string  false  "Estación (vacío = todas)"
// @Param        start_date   query  string  false  "Desde (RFC 3339)"
// @Param        end_date     query  string  false  "Hasta (RFC 3339)"
// @Success      200  {object}  dto.SummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/summary [get]
func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	var in dto.SummaryRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "filtros inválidos"})
	}
	// Un operador de estación solo consulta su propia estación.
	if st := GetStationID(c); st != "" {
		in.StationID = st
	}
	resp, err := h.uc.ComputeSummary(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
