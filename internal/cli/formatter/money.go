package formatter

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Money formats amounts in one currency with that currency's usual locale.
type Money struct {
	code   string
	symbol string
	group  string
	point  string
}

// NewMoney returns a formatter for the ISO 4217 code.
func NewMoney(code string) (Money, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return Money{}, fmt.Errorf("unknown currency %q: %w", code, err)
	}

	tag := language.AmericanEnglish
	symbol := unit.String()
	switch unit {
	case currency.BRL:
		tag, symbol = language.BrazilianPortuguese, "R$"
	case currency.USD:
		symbol = "US$"
	case currency.EUR:
		tag, symbol = language.German, "€"
	case currency.GBP:
		tag, symbol = language.BritishEnglish, "£"
	}
	group, point := separators(message.NewPrinter(tag))
	return Money{code: unit.String(), symbol: symbol, group: group, point: point}, nil
}

// separators reads the locale's grouping and decimal marks off a sample
// rendering of 1234.50.
func separators(p *message.Printer) (group, point string) {
	sample := []rune(p.Sprint(number.Decimal(1234.5, number.Scale(2))))
	if len(sample) < 7 {
		return ",", "."
	}
	return string(sample[1]), string(sample[len(sample)-3])
}

// Code returns the ISO code, e.g. "BRL".
func (m Money) Code() string { return m.code }

// Format renders d with two decimals, e.g. "R$ 1.234,50".
func (m Money) Format(d decimal.Decimal) string {
	if m.point == "" {
		return d.StringFixed(2)
	}
	sign := ""
	if d.Round(2).IsNegative() {
		sign = "-"
	}
	whole, frac, _ := strings.Cut(d.Abs().StringFixed(2), ".")
	return m.symbol + " " + sign + groupDigits(whole, m.group) + m.point + frac
}

func groupDigits(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Signed renders income in green and expenses in red, using the stored
// sign convention (income negative).
func (m Money) Signed(stored decimal.Decimal) string {
	if stored.IsNegative() {
		return StyleGreen.Render("+" + m.Format(stored.Abs()))
	}
	return StyleRed.Render("-" + m.Format(stored))
}
