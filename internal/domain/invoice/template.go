package invoice

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturador-api/internal/domain/entity"
)

// Template devuelve la factura inicial de una sesión nueva. Las fechas quedan
// vacías a propósito: InitializeDates las rellena una única vez.
func Template() *entity.Invoice {
	return &entity.Invoice{
		SenderName:    "Your Company",
		SenderAddress: "123 Main St, Anytown, USA 12345",
		SenderEmail:   "your@email.com",
		SenderWebsite: "your-website.com",

		RecipientName:    "Client Inc.",
		RecipientAddress: "456 Oak Ave, Otherville, USA 54321",
		RecipientEmail:   "client@email.com",

		InvoiceNumber: "INV-001",
		InvoiceDate:   "",
		DueDate:       "",
		Currency:      "USD",

		Items: []entity.LineItem{
			{
				ID:          uuid.NewString(),
				Description: "Web design services",
				Quantity:    decimal.NewFromInt(10),
				Price:       decimal.NewFromInt(100),
				Tax:         decimal.Zero,
			},
			{
				ID:          uuid.NewString(),
				Description: "Hosting (1 year)",
				Quantity:    decimal.NewFromInt(1),
				Price:       decimal.NewFromInt(300),
				Tax:         decimal.Zero,
			},
		},
		Notes: "Thank you for your business.",

		TaxRate:  decimal.NewFromInt(8),
		Discount: decimal.NewFromInt(5),
	}
}

// NewLineItem crea una línea vacía con id único de sesión:
// descripción vacía, cantidad 1, precio 0, IVA 0.
func NewLineItem() entity.LineItem {
	return entity.LineItem{
		ID:       uuid.NewString(),
		Quantity: decimal.NewFromInt(1),
		Price:    decimal.Zero,
		Tax:      decimal.Zero,
	}
}
