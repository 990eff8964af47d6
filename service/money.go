package service

import (
	"math"
	"regexp"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var nonMoneyChars = regexp.MustCompile(`[^\d.]`)

// roundTo2Decimals redondea un float64 a 2 decimales
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

// ParseMoney cleans a currency-formatted string ("€1,250,000.50") down to
// digits and the decimal point and parses it. Empty or unparsable input
// yields 0.
func ParseMoney(raw string) float64 {
	cleaned := nonMoneyChars.ReplaceAllString(raw, "")
	if cleaned == "" {
		return 0
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// FormatMoney renders an amount as whole euros with thousands separators.
// Negative amounts carry the sign before the euro sign ("-€1,250"); amounts
// that round to zero print as "€0".
func FormatMoney(amount float64) string {
	whole := math.Round(amount)
	sign := ""
	if whole < 0 {
		sign = "-"
	}
	p := message.NewPrinter(language.English)
	return sign + p.Sprintf("€%.0f", math.Abs(whole))
}
