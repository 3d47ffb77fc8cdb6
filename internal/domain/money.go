/**
 * @description
 * Locale-aware rendering of money amounts for statements, logs and callers
 * that display ledgers.
 */
package domain

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	DefaultLocale   = "de-DE"
	DefaultCurrency = "EUR"
)

// Languages whose amounts are written with the currency symbol after the
// digits, e.g. "1.234,50 €".
var trailingSymbolLanguages = []string{"cs", "da", "de", "es", "fi", "fr", "it", "nb", "pl", "sk", "sv"}

// MoneyFormatter renders amounts of one currency for one locale.
type MoneyFormatter struct {
	unit        currency.Unit
	printer     *message.Printer
	scale       int
	symbolAfter bool
}

// NewMoneyFormatter creates a formatter for a BCP 47 locale such as "de-DE"
// and an ISO 4217 currency code such as "EUR".
func NewMoneyFormatter(locale, code string) (*MoneyFormatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", code, err)
	}
	return newMoneyFormatter(tag, unit), nil
}

// DefaultMoneyFormatter formats euros the German way.
func DefaultMoneyFormatter() *MoneyFormatter {
	return newMoneyFormatter(language.MustParse(DefaultLocale), currency.EUR)
}

func newMoneyFormatter(tag language.Tag, unit currency.Unit) *MoneyFormatter {
	scale, _ := currency.Standard.Rounding(unit)
	base, _ := tag.Base()
	return &MoneyFormatter{
		unit:        unit,
		printer:     message.NewPrinter(tag),
		scale:       scale,
		symbolAfter: slices.Contains(trailingSymbolLanguages, base.String()),
	}
}

// Code returns the ISO 4217 code of the currency.
func (f *MoneyFormatter) Code() string {
	return f.unit.String()
}

// Symbol returns the currency symbol used by the locale, e.g. "€".
func (f *MoneyFormatter) Symbol() string {
	return f.printer.Sprint(currency.Symbol(f.unit))
}

// Format renders amount rounded to the currency's minor unit, with the
// locale's separators and symbol placement.
func (f *MoneyFormatter) Format(amount decimal.Decimal) string {
	rounded := amount.Round(int32(f.scale))
	digits := f.printer.Sprint(number.Decimal(rounded.InexactFloat64(), number.Scale(f.scale)))
	if f.symbolAfter {
		return digits + " " + f.Symbol()
	}
	return f.Symbol() + digits
}
