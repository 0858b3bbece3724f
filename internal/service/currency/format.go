// internal/service/currency/format.go
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

type currencySpec struct {
	symbol     string
	minorUnits int32
	prefix     bool
}

var currencySpecs = map[string]currencySpec{
	"USD": {symbol: "$", minorUnits: 2, prefix: true},
	"EUR": {symbol: "€", minorUnits: 2, prefix: true},
	"GBP": {symbol: "£", minorUnits: 2, prefix: true},
	"JPY": {symbol: "¥", minorUnits: 0, prefix: true},
	"CNY": {symbol: "¥", minorUnits: 2, prefix: true},
	"AUD": {symbol: "A$", minorUnits: 2, prefix: true},
	"CAD": {symbol: "C$", minorUnits: 2, prefix: true},
	"CHF": {symbol: "CHF ", minorUnits: 2, prefix: true},
	"KES": {symbol: "KSh ", minorUnits: 2, prefix: true},
	"SEK": {symbol: " kr", minorUnits: 2, prefix: false},
}

// Format renders an amount with the currency's conventional symbol,
// thousands grouping and minor-unit precision. This is the single place
// where rounding happens; upstream price math stays unrounded.
func Format(amount decimal.Decimal, currencyCode string) string {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	spec, ok := currencySpecs[code]
	if !ok {
		spec = currencySpec{symbol: code + " ", minorUnits: 2, prefix: true}
	}

	fixed := amount.Round(spec.minorUnits).StringFixed(spec.minorUnits)

	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, hasFrac := strings.Cut(fixed, ".")
	grouped := groupThousands(intPart)
	if hasFrac {
		grouped += "." + fracPart
	}

	var b strings.Builder
	if neg {
		b.WriteString("-")
	}
	if spec.prefix {
		b.WriteString(spec.symbol)
		b.WriteString(grouped)
	} else {
		b.WriteString(grouped)
		b.WriteString(spec.symbol)
	}
	return b.String()
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
