// Package invoice contiene los servicios de dominio de la factura: el cálculo
// de totales derivados y la plantilla inicial de la sesión.
//
// Regla de cálculo (el orden importa y debe conservarse):
//
//	Subtotal   = Σ cantidad·precio
//	Impuestos  = Σ cantidad·precio·(ivaLínea/100)  +  Subtotal·(taxRate/100)
//	Descuento  = Subtotal·(discount/100)           (sobre el subtotal SIN impuestos)
//	Total      = Subtotal + Impuestos − Descuento
//
// El IVA por línea y el impuesto global son aditivos, nunca compuestos.
// Aquí no se redondea; el redondeo es responsabilidad de la capa de
// presentación (PDF, formato de moneda).
package invoice

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturador-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Subtotal suma cantidad·precio de todas las líneas.
func Subtotal(inv *entity.Invoice) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range inv.Items {
		sum = sum.Add(it.Quantity.Mul(it.Price))
	}
	return sum
}

// TotalTax suma el IVA de cada línea más el impuesto global sobre el subtotal.
func TotalTax(inv *entity.Invoice) decimal.Decimal {
	itemTaxes := decimal.Zero
	for _, it := range inv.Items {
		itemTaxes = itemTaxes.Add(it.Quantity.Mul(it.Price).Mul(it.Tax.Div(hundred)))
	}
	overall := Subtotal(inv).Mul(inv.TaxRate.Div(hundred))
	return itemTaxes.Add(overall)
}

// DiscountAmount calcula el descuento global sobre el subtotal antes de impuestos.
func DiscountAmount(inv *entity.Invoice) decimal.Decimal {
	return Subtotal(inv).Mul(inv.Discount.Div(hundred))
}

// Total = subtotal + impuestos − descuento.
func Total(inv *entity.Invoice) decimal.Decimal {
	return Subtotal(inv).Add(TotalTax(inv)).Sub(DiscountAmount(inv))
}
