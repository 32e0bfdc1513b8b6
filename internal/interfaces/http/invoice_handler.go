package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturador-api/internal/application/dto"
	"github.com/jhoicas/Facturador-api/internal/application/invoicing"
	"github.com/jhoicas/Facturador-api/internal/domain"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
)

// InvoiceHandler maneja las peticiones HTTP del editor de factura.
type InvoiceHandler struct {
	store *invoicing.StoreUseCase
	pdf   *invoicing.PDFUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(store *invoicing.StoreUseCase, pdf *invoicing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{store: store, pdf: pdf}
}

// Get devuelve la factura de la sesión con sus totales derivados.
// GET /api/invoice
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	inv, err := h.store.Current(c.Context(), GetSessionID(c))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(dto.InvoiceResponse{Invoice: inv, Totals: invoicing.TotalsOf(inv)})
}

// Set reemplaza la factura completa.
// PUT /api/invoice
func (h *InvoiceHandler) Set(c *fiber.Ctx) error {
	var inv entity.Invoice
	if err := c.BodyParser(&inv); err != nil {
		return badRequest(c, "cuerpo de la petición inválido")
	}
	if err := h.store.SetInvoice(c.Context(), GetSessionID(c), &inv); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return badRequest(c, "factura inválida")
		}
		return internalError(c, err)
	}
	return c.JSON(dto.InvoiceResponse{Invoice: &inv, Totals: invoicing.TotalsOf(&inv)})
}

// UpdateField reemplaza un campo escalar de la cabecera.
// PATCH /api/invoice/fields
func (h *InvoiceHandler) UpdateField(c *fiber.Ctx) error {
	var req dto.UpdateFieldRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo de la petición inválido")
	}
	if req.Field == "" || len(req.Value) == 0 {
		return badRequest(c, "field y value son obligatorios")
	}
	inv, err := h.store.UpdateField(c.Context(), GetSessionID(c), req.Field, req.Value)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownField) || errors.Is(err, domain.ErrInvalidInput) {
			return badRequest(c, err.Error())
		}
		return internalError(c, err)
	}
	return c.JSON(dto.InvoiceResponse{Invoice: inv, Totals: invoicing.TotalsOf(inv)})
}

// AddItem agrega una línea nueva con valores por defecto.
// POST /api/invoice/items
func (h *InvoiceHandler) AddItem(c *fiber.Ctx) error {
	inv, err := h.store.AddItem(c.Context(), GetSessionID(c))
	if err != nil {
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.InvoiceResponse{Invoice: inv, Totals: invoicing.TotalsOf(inv)})
}

// UpdateItem reemplaza un campo de una línea. Id inexistente es no-op.
// PATCH /api/invoice/items/:id
func (h *InvoiceHandler) UpdateItem(c *fiber.Ctx) error {
	id := c.Params("id")
	var req dto.UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo de la petición inválido")
	}
	if req.Field == "" || len(req.Value) == 0 {
		return badRequest(c, "field y value son obligatorios")
	}
	inv, err := h.store.UpdateItem(c.Context(), GetSessionID(c), id, req.Field, req.Value)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownField) || errors.Is(err, domain.ErrInvalidInput) {
			return badRequest(c, err.Error())
		}
		return internalError(c, err)
	}
	return c.JSON(dto.InvoiceResponse{Invoice: inv, Totals: invoicing.TotalsOf(inv)})
}

// RemoveItem elimina una línea. Id inexistente es no-op (borrado idempotente).
// DELETE /api/invoice/items/:id
func (h *InvoiceHandler) RemoveItem(c *fiber.Ctx) error {
	inv, err := h.store.RemoveItem(c.Context(), GetSessionID(c), c.Params("id"))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(dto.InvoiceResponse{Invoice: inv, Totals: invoicing.TotalsOf(inv)})
}

// Totals devuelve solo los totales derivados.
// GET /api/invoice/totals
func (h *InvoiceHandler) Totals(c *fiber.Ctx) error {
	totals, err := h.store.Totals(c.Context(), GetSessionID(c))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(totals)
}

// InitializeDates fija fecha y vencimiento si ambos están vacíos (idempotente).
// POST /api/invoice/dates/initialize
func (h *InvoiceHandler) InitializeDates(c *fiber.Ctx) error {
	inv, err := h.store.InitializeDates(c.Context(), GetSessionID(c))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(dto.InvoiceResponse{Invoice: inv, Totals: invoicing.TotalsOf(inv)})
}

// DownloadPDF genera y descarga la vista previa imprimible.
// GET /api/invoice/pdf
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdf.DownloadPreviewPDF(c.Context(), GetSessionID(c))
	if err != nil {
		return internalError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// ── Helpers de respuesta ──────────────────────────────────────────────────────

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
}

func internalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
