package invoicing

import (
	"context"
	"fmt"
)

// PDFUseCase genera la vista previa imprimible de la factura de la sesión.
type PDFUseCase struct {
	store     *StoreUseCase
	generator InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(store *StoreUseCase, generator InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{store: store, generator: generator}
}

// DownloadPreviewPDF carga la factura actual, deriva los totales y genera el
// PDF. Devuelve los bytes y el nombre de archivo sugerido.
func (uc *PDFUseCase) DownloadPreviewPDF(ctx context.Context, sessionID string) ([]byte, string, error) {
	inv, err := uc.store.Current(ctx, sessionID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: cargar factura: %w", err)
	}

	pdfBytes, err := uc.generator.GeneratePreviewPDF(ctx, inv, TotalsOf(inv))
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar vista previa: %w", err)
	}

	filename := "invoice.pdf"
	if inv.InvoiceNumber != "" {
		filename = fmt.Sprintf("invoice-%s.pdf", inv.InvoiceNumber)
	}
	return pdfBytes, filename, nil
}
