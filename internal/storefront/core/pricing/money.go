package pricing

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var displayLocale = language.MustParse("es-AR")

// FormatMoney renders amount for display: rounded to whole pesos with
// es-AR digit grouping, e.g. "$1.234.567".
func FormatMoney(amount decimal.Decimal) string {
	p := message.NewPrinter(displayLocale)
	whole := amount.Round(0).IntPart()
	if whole < 0 {
		return p.Sprintf("-$%d", -whole)
	}
	return p.Sprintf("$%d", whole)
}
