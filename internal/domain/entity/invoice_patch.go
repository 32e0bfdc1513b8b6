package entity

import "github.com/shopspring/decimal"

// InvoicePatch es un parche parcial con la misma forma JSON que Invoice.
// Se usa para aplicar la respuesta del gateway de reformateo: un campo
// presente en la respuesta sobrescribe, un campo ausente se conserva.
// La política de presencia es explícita (punteros), no un accidente del merge.
type InvoicePatch struct {
	SenderName    *string `json:"senderName"`
	SenderAddress *string `json:"senderAddress"`
	SenderEmail   *string `json:"senderEmail"`
	SenderWebsite *string `json:"senderWebsite"`

	RecipientName    *string `json:"recipientName"`
	RecipientAddress *string `json:"recipientAddress"`
	RecipientEmail   *string `json:"recipientEmail"`

	InvoiceNumber *string `json:"invoiceNumber"`
	InvoiceDate   *string `json:"invoiceDate"`
	DueDate       *string `json:"dueDate"`
	Currency      *string `json:"currency"`

	Items *[]LineItem `json:"items"`
	Notes *string     `json:"notes"`

	TaxRate  *decimal.Decimal `json:"taxRate"`
	Discount *decimal.Decimal `json:"discount"`
}

// Apply copia sobre inv los campos presentes en el parche.
// Los campos que el gateway no devolvió quedan intactos.
func (p *InvoicePatch) Apply(inv *Invoice) {
	setIf(p.SenderName, &inv.SenderName)
	setIf(p.SenderAddress, &inv.SenderAddress)
	setIf(p.SenderEmail, &inv.SenderEmail)
	setIf(p.SenderWebsite, &inv.SenderWebsite)
	setIf(p.RecipientName, &inv.RecipientName)
	setIf(p.RecipientAddress, &inv.RecipientAddress)
	setIf(p.RecipientEmail, &inv.RecipientEmail)
	setIf(p.InvoiceNumber, &inv.InvoiceNumber)
	setIf(p.InvoiceDate, &inv.InvoiceDate)
	setIf(p.DueDate, &inv.DueDate)
	setIf(p.Currency, &inv.Currency)
	setIf(p.Notes, &inv.Notes)
	setIf(p.TaxRate, &inv.TaxRate)
	setIf(p.Discount, &inv.Discount)

	if p.Items != nil {
		items := make([]LineItem, len(*p.Items))
		copy(items, *p.Items)
		inv.Items = items
	}
}

func setIf[T any](src *T, dst *T) {
	if src != nil {
		*dst = *src
	}
}
