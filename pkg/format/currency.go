// Package format renders simulation values the way Brazilian users read them.
package format

import (
	"fmt"
	"math"

	"github.com/iwvelando/mortgage-simulator/pkg/constants"
	"github.com/iwvelando/mortgage-simulator/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySymbol is prefixed to every formatted amount.
const CurrencySymbol = "R$"

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Currency returns a Brazilian real string with pt-BR separators (e.g., "R$ 1.234,56", "-R$ 10,00").
func Currency(amount float64) string {
	formatted := printer.Sprintf("%.2f", math.Abs(mathutil.Round(amount)))
	if amount < 0 && !mathutil.IsZero(amount) {
		return "-" + CurrencySymbol + " " + formatted
	}
	return CurrencySymbol + " " + formatted
}

// NumericCurrency returns an amount rounded to cents without symbol or grouping (e.g., "1234.56"),
// suitable for machine-readable output.
func NumericCurrency(amount float64) string {
	return fmt.Sprintf("%.2f", mathutil.Round(amount))
}

// Percentage renders a fraction as a percentage with two decimals (0.08 -> "8.00%").
func Percentage(fraction float64) string {
	return fmt.Sprintf("%.2f%%", fraction*constants.PercentageMultiplier)
}

// ShortPercentage renders an already-scaled percentage with one decimal (36.66 -> "36.7%").
func ShortPercentage(percent float64) string {
	return fmt.Sprintf("%.1f%%", percent)
}
