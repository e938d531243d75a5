package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

// BRL formats an amount as Brazilian reais, e.g. "R$ 1.234,56".
func BRL(x float64) string {
	return "R$ " + Number(x, 2)
}

// Number formats x with pt-BR separators and the given decimal places.
func Number(x float64, places int32) string {
	s := decimal.NewFromFloat(x).StringFixed(places)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if sign == "-" && strings.Trim(intPart+frac, "0") == "" {
		sign = ""
	}
	if frac == "" {
		return sign + b.String()
	}
	return sign + b.String() + "," + frac
}
