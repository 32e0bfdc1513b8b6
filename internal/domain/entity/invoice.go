package entity

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturador-api/internal/domain"
)

// LineItem representa una línea facturable de la factura.
// Los tags JSON coinciden con el formato de sesión que consume el frontend.
type LineItem struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Tax         decimal.Decimal `json:"tax"` // IVA de la línea en porcentaje (0–100)
}

// SetField reemplaza un campo de la línea por nombre. El valor llega como JSON
// crudo y se decodifica al tipo del campo; un tipo incorrecto es error.
func (li *LineItem) SetField(field string, value json.RawMessage) error {
	switch field {
	case "description":
		return decodeInto(field, value, &li.Description)
	case "quantity":
		return decodeInto(field, value, &li.Quantity)
	case "price":
		return decodeInto(field, value, &li.Price)
	case "tax":
		return decodeInto(field, value, &li.Tax)
	default:
		return fmt.Errorf("%w: línea no tiene campo %q", domain.ErrUnknownField, field)
	}
}

// Invoice representa la única factura de una sesión de edición.
// Los totales (subtotal, impuestos, total) nunca se almacenan: son funciones
// puras de Items, TaxRate y Discount (ver internal/domain/invoice).
type Invoice struct {
	SenderName    string `json:"senderName"`
	SenderAddress string `json:"senderAddress"`
	SenderEmail   string `json:"senderEmail"`
	SenderWebsite string `json:"senderWebsite"`

	RecipientName    string `json:"recipientName"`
	RecipientAddress string `json:"recipientAddress"`
	RecipientEmail   string `json:"recipientEmail"`

	InvoiceNumber string `json:"invoiceNumber"`
	InvoiceDate   string `json:"invoiceDate"` // YYYY-MM-DD o vacío
	DueDate       string `json:"dueDate"`     // YYYY-MM-DD o vacío
	Currency      string `json:"currency"`    // código ISO 4217

	Items []LineItem `json:"items"`
	Notes string     `json:"notes"`

	TaxRate  decimal.Decimal `json:"taxRate"`  // impuesto global en porcentaje
	Discount decimal.Decimal `json:"discount"` // descuento global en porcentaje
}

// SetField reemplaza un campo escalar de la cabecera por nombre. Items no es
// direccionable por aquí: las líneas se mutan vía AddItem/UpdateItem/RemoveItem.
func (i *Invoice) SetField(field string, value json.RawMessage) error {
	switch field {
	case "senderName":
		return decodeInto(field, value, &i.SenderName)
	case "senderAddress":
		return decodeInto(field, value, &i.SenderAddress)
	case "senderEmail":
		return decodeInto(field, value, &i.SenderEmail)
	case "senderWebsite":
		return decodeInto(field, value, &i.SenderWebsite)
	case "recipientName":
		return decodeInto(field, value, &i.RecipientName)
	case "recipientAddress":
		return decodeInto(field, value, &i.RecipientAddress)
	case "recipientEmail":
		return decodeInto(field, value, &i.RecipientEmail)
	case "invoiceNumber":
		return decodeInto(field, value, &i.InvoiceNumber)
	case "invoiceDate":
		return decodeInto(field, value, &i.InvoiceDate)
	case "dueDate":
		return decodeInto(field, value, &i.DueDate)
	case "currency":
		return decodeInto(field, value, &i.Currency)
	case "notes":
		return decodeInto(field, value, &i.Notes)
	case "taxRate":
		return decodeInto(field, value, &i.TaxRate)
	case "discount":
		return decodeInto(field, value, &i.Discount)
	default:
		return fmt.Errorf("%w: factura no tiene campo %q", domain.ErrUnknownField, field)
	}
}

// FindItem devuelve el índice de la línea con ese id, o -1 si no existe.
func (i *Invoice) FindItem(id string) int {
	for idx := range i.Items {
		if i.Items[idx].ID == id {
			return idx
		}
	}
	return -1
}

// Clone devuelve una copia profunda de la factura. Las líneas se copian por
// valor; decimal.Decimal es inmutable, así que compartir su representación
// interna es seguro.
func (i *Invoice) Clone() *Invoice {
	cp := *i
	cp.Items = make([]LineItem, len(i.Items))
	copy(cp.Items, i.Items)
	return &cp
}

func decodeInto(field string, raw json.RawMessage, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: valor inválido para %q: %v", domain.ErrInvalidInput, field, err)
	}
	return nil
}
