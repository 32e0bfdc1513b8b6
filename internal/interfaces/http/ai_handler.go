package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturador-api/internal/application/dto"
	"github.com/jhoicas/Facturador-api/internal/application/invoicing"
)

// AIHandler maneja los endpoints asistidos por IA del editor.
// Ambas operaciones devuelven éxito/fracaso booleano: un fallo del gateway
// deja la factura intacta y el frontend puede reintentar manualmente.
type AIHandler struct {
	store *invoicing.StoreUseCase
}

// NewAIHandler construye el handler.
func NewAIHandler(store *invoicing.StoreUseCase) *AIHandler {
	return &AIHandler{store: store}
}

// EnhanceDescriptions godoc
// @Summary      Mejorar las descripciones de línea con IA
// @Description  Envía las descripciones actuales al gateway de texto y aplica
//               las versiones mejoradas preservando orden y cantidad. Si el
//               gateway falla o la respuesta no coincide, la factura no cambia.
// @Tags         ai
// @Produce      json
// @Success      200  {object}  dto.AIResultResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/invoice/enhance-descriptions [post]
func (h *AIHandler) EnhanceDescriptions(c *fiber.Ctx) error {
	sid := GetSessionID(c)
	if !h.store.EnhanceDescriptions(c.Context(), sid) {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Code: "AI_FAILED", Message: "no se pudieron mejorar las descripciones; intenta de nuevo",
		})
	}
	inv, err := h.store.Current(c.Context(), sid)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(dto.AIResultResponse{Success: true, Invoice: inv})
}

// Reformat godoc
// @Summary      Reformatear la factura para impresión con IA
// @Description  Serializa la factura completa, la envía al gateway de
//               reformateo y aplica la respuesta como parche parcial: los
//               campos ausentes de la respuesta conservan su valor.
// @Tags         ai
// @Produce      json
// @Success      200  {object}  dto.AIResultResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/invoice/reformat [post]
func (h *AIHandler) Reformat(c *fiber.Ctx) error {
	sid := GetSessionID(c)
	if !h.store.ReformatInvoice(c.Context(), sid) {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Code: "AI_FAILED", Message: "no se pudo reformatear la factura; intenta de nuevo",
		})
	}
	inv, err := h.store.Current(c.Context(), sid)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(dto.AIResultResponse{Success: true, Invoice: inv})
}
