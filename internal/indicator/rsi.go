package indicator

const DefaultRSIPeriod = 14

// RSI computes the relative strength index over the first period price changes of the series.
//
// This is a single-window RSI: gains and losses are averaged over prices[0..period] only and
// no Wilder smoothing is applied to later bars.
// Requires at least period+1 closes. A window with no losses yields 100.
func RSI(prices []float64, period int) (float64, bool) {
	if period <= 0 || len(prices) < period+1 {
		return 0, false
	}

	var gains, losses float64
	for i := 1; i <= period; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		return 100, true
	}

	rs := avgGain / avgLoss
	return round(100 - 100/(1+rs)), true
}
