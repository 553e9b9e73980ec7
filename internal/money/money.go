// Package money は金額をブラジルレアル表記（R$ 1.234,56）に整形する。
package money

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Format は金額を "R$ 21,00" の形式に整形する。負の値は "-R$ 5,00" になる。
func Format(v float64) string {
	p := message.NewPrinter(language.BrazilianPortuguese)
	sign := ""
	if v < 0 {
		sign = "-"
		v = math.Abs(v)
	}
	return sign + "R$ " + p.Sprint(number.Decimal(Round(v), number.Scale(2)))
}

// Round は金額を小数点以下2桁に丸める。
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}
