package cmd

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// moneyFormatter prints amounts with locale digit grouping, e.g. "GBP 1,234.50".
type moneyFormatter struct {
	printer  *message.Printer
	currency string
}

func newMoneyFormatter(currency string) moneyFormatter {
	return moneyFormatter{
		printer:  message.NewPrinter(language.BritishEnglish),
		currency: currency,
	}
}

// Format renders amount at two places with the integer part grouped.
// The digits come from the decimal itself, never from a float.
func (m moneyFormatter) Format(amount decimal.Decimal) string {
	whole, frac, _ := strings.Cut(amount.StringFixed(2), ".")
	return m.currency + " " + m.group(whole) + "." + frac
}

// group inserts thousands separators into a signed integer string.
func (m moneyFormatter) group(whole string) string {
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		return m.printer.Sprintf("%d", n)
	}

	sign, digits := "", whole
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + b.String()
}

// Rate renders a fractional rate as a percentage, e.g. 0.20 -> "20%".
func (m moneyFormatter) Rate(rate decimal.Decimal) string {
	return rate.Shift(2).String() + "%"
}
