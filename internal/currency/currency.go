// Package currency provides ISO 4217 code normalization and minor-unit
// precision used when converting expense amounts into a trip's base currency.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// minorUnits lists currencies whose exponent differs from the default of 2.
var minorUnits = map[string]int32{
	// zero-decimal currencies
	"BIF": 0, "CLP": 0, "DJF": 0, "GNF": 0, "ISK": 0, "JPY": 0,
	"KMF": 0, "KRW": 0, "PYG": 0, "RWF": 0, "UGX": 0, "VND": 0,
	"VUV": 0, "XAF": 0, "XOF": 0, "XPF": 0,
	// three-decimal currencies
	"BHD": 3, "IQD": 3, "JOD": 3, "KWD": 3, "LYD": 3, "OMR": 3, "TND": 3,
}

// MinorUnits returns the number of decimal places for a currency code.
// Unknown codes fall back to 2, the ISO 4217 default.
func MinorUnits(code string) int32 {
	if exp, ok := minorUnits[code]; ok {
		return exp
	}
	return 2
}

// Normalize uppercases a currency code and reports whether it is a
// well-formed three-letter code. It does not check the code against the full
// ISO table; the fx rate is caller-supplied either way.
func Normalize(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return code, false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return code, false
		}
	}
	return code, true
}

// ConvertToBase converts an amount to the base currency at the given rate,
// rounding half away from zero at the base currency's minor-unit precision.
func ConvertToBase(amount, fxRate decimal.Decimal, baseCurrency string) decimal.Decimal {
	return amount.Mul(fxRate).Round(MinorUnits(baseCurrency))
}
