package invoicing

import (
	"context"

	"github.com/jhoicas/Facturador-api/internal/application/dto"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
)

// InvoicePDFGenerator genera la vista previa imprimible de la factura.
// El adaptador concreto (Maroto) vive en infrastructure/pdf.
type InvoicePDFGenerator interface {
	GeneratePreviewPDF(ctx context.Context, inv *entity.Invoice, totals dto.TotalsDTO) ([]byte, error)
}
