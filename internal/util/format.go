package util

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var dePrinter = message.NewPrinter(language.German)

// FormatInt 德语千分位整数，如 12.000
func FormatInt(v int) string {
	return dePrinter.Sprintf("%d", v)
}

// FormatEuro 金额（取整）+ 欧元符号，如 45.000 €
func FormatEuro(v float64) string {
	return dePrinter.Sprintf("%d €", int64(math.Round(v)))
}

// FormatDecimal 保留一位小数，德语小数逗号，如 44,6
func FormatDecimal(v float64) string {
	return dePrinter.Sprintf("%.1f", v)
}

// FormatPercent 一位小数百分比，如 12,5 %
func FormatPercent(v float64) string {
	return dePrinter.Sprintf("%.1f %%", v)
}
