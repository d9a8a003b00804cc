package usecase

import (
	"strings"

	"github.com/shopspring/decimal"
)

const rubleSymbol = "₽"

// CurrencySymbol returns the display symbol for a currency code.
func CurrencySymbol(currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "RUB" {
		return rubleSymbol
	}
	return code
}

// FormatPrice renders value with space-grouped thousands followed by the
// currency symbol: "1 299 ₽", "12.5 USD". Fractions keep at most two digits.
func FormatPrice(value float64, currency string) string {
	d := decimal.NewFromFloat(value)

	var number string
	if d.Equal(d.Truncate(0)) {
		number = groupThousands(d.StringFixed(0))
	} else {
		fixed := d.StringFixed(2)
		intPart, frac, _ := strings.Cut(fixed, ".")
		frac = strings.TrimRight(frac, "0")
		number = groupThousands(intPart)
		if frac != "" {
			number += "." + frac
		}
	}

	return number + " " + CurrencySymbol(currency)
}

// ParsePrice reads the numeric magnitude back from a FormatPrice string.
// Grouping spaces and any currency suffix are ignored.
func ParsePrice(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		case r == ',':
			b.WriteRune('.')
		}
	}
	if b.Len() == 0 {
		return 0, false
	}

	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// groupThousands inserts a space between every group of three digits.
func groupThousands(digits string) string {
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if len(digits) <= 3 {
		return sign + digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}
