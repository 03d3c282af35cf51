package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// The storefront is fixed to Brazilian Portuguese / BRL, like the mobile app.
var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// BRL builds a Brazilian real amount.
func BRL(units int64, nanos int32) Money {
	return New("BRL", units, nanos)
}

// FormatBRL renders an amount as localized currency text, e.g. "R$ 34,90".
func FormatBRL(m Money) string {
	return ptBR.Sprintf("R$ %.2f", m.Float())
}
