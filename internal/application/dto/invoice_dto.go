package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturador-api/internal/domain/entity"
)

// UpdateFieldRequest reemplaza un campo escalar de la cabecera.
// Value llega como JSON crudo; el tipo correcto lo decide el campo destino
// (la capa HTTP no hace coerción numérica, eso es del frontend).
type UpdateFieldRequest struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

// UpdateItemRequest reemplaza un campo de una línea identificada por id en la URL.
type UpdateItemRequest struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

// TotalsDTO totales derivados de la factura, siempre recalculados.
type TotalsDTO struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	TotalTax       decimal.Decimal `json:"totalTax"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Total          decimal.Decimal `json:"total"`
}

// InvoiceResponse factura actual más sus totales derivados.
type InvoiceResponse struct {
	Invoice *entity.Invoice `json:"invoice"`
	Totals  TotalsDTO       `json:"totals"`
}

// AIResultResponse resultado de una operación asistida por IA.
// Las operaciones de IA nunca propagan excepción: éxito o fracaso booleano.
type AIResultResponse struct {
	Success bool            `json:"success"`
	Invoice *entity.Invoice `json:"invoice,omitempty"`
}

// ── Formas de cable del gateway de IA ─────────────────────────────────────────

// DescriptionInput una descripción de línea tal como viaja al gateway.
type DescriptionInput struct {
	Description string `json:"description"`
}

// EnhancedDescription la descripción devuelta por el gateway, mejorada o
// idéntica a la original si ya era clara.
type EnhancedDescription struct {
	EnhancedDescription string `json:"enhancedDescription"`
}
