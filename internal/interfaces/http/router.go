package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturador-api/internal/application/invoicing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Store         *invoicing.StoreUseCase
	PDF           *invoicing.PDFUseCase
	SessionCookie string
}

// Router registra las rutas de la API. Todas las rutas del editor operan sobre
// la factura de la sesión identificada por la cookie (SessionMiddleware).
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", SessionMiddleware(deps.SessionCookie))

	invoiceHandler := NewInvoiceHandler(deps.Store, deps.PDF)
	aiHandler := NewAIHandler(deps.Store)

	inv := api.Group("/invoice")
	inv.Get("/", invoiceHandler.Get)
	inv.Put("/", invoiceHandler.Set)
	inv.Patch("/fields", invoiceHandler.UpdateField)
	inv.Post("/items", invoiceHandler.AddItem)
	inv.Patch("/items/:id", invoiceHandler.UpdateItem)
	inv.Delete("/items/:id", invoiceHandler.RemoveItem)
	inv.Get("/totals", invoiceHandler.Totals)
	inv.Post("/dates/initialize", invoiceHandler.InitializeDates)
	inv.Get("/pdf", invoiceHandler.DownloadPDF)

	// Acciones asistidas por IA
	inv.Post("/enhance-descriptions", aiHandler.EnhanceDescriptions)
	inv.Post("/reformat", aiHandler.Reformat)
}
