// Package money formatea montos para presentación. El redondeo vive aquí:
// el dominio calcula con precisión completa y solo la vista redondea.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Format devuelve el monto con el símbolo de la moneda ISO 4217 y dos
// decimales, por ejemplo "$1339.00". Si el código no es una moneda ISO
// conocida, usa el código como prefijo: "XYZ 1339.00".
func Format(code string, amount decimal.Decimal) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return strings.TrimSpace(code) + " " + amount.StringFixed(2)
	}
	sym := strings.TrimSpace(printer.Sprint(currency.Symbol(unit)))
	return sym + amount.StringFixed(2)
}
