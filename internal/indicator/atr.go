package indicator

import "math"

const DefaultATRPeriod = 14

// ATR returns the Wilder-smoothed average true range. The seed is the mean of the first period
// true ranges; every later true range is folded in as (atr*(period-1) + tr) / period.
// Requires period+1 bars in each input.
func ATR(highs, lows, closes []float64, period int) (float64, bool) {
	if period <= 0 || len(highs) < period+1 || len(lows) < period+1 || len(closes) < period+1 {
		return 0, false
	}

	n := min(len(highs), len(lows), len(closes))
	trueRanges := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		prevClose := closes[i-1]
		tr := math.Max(highs[i]-lows[i], math.Max(math.Abs(highs[i]-prevClose), math.Abs(lows[i]-prevClose)))
		trueRanges = append(trueRanges, tr)
	}

	atr := 0.0
	for i := 0; i < period; i++ {
		atr += trueRanges[i]
	}
	atr /= float64(period)

	for i := period; i < len(trueRanges); i++ {
		atr = (atr*float64(period-1) + trueRanges[i]) / float64(period)
	}

	return round(atr), true
}
