// Package indicator computes technical indicators from price series and tags them with signals.
//
// Every exported calculator is pure. A false ok result means the series is too short for the
// look-back window; callers must treat it as "not yet computable", never as zero. Values are
// rounded to two decimals once, on the way out of the exported function.
package indicator

import "github.com/shopspring/decimal"

const precision = 2

func round(v float64) float64 {
	return decimal.NewFromFloat(v).Round(precision).InexactFloat64()
}
