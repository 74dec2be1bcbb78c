package indicator

// SMA returns the arithmetic mean of the last period closes.
func SMA(prices []float64, period int) (float64, bool) {
	v, ok := sma(prices, period)
	if !ok {
		return 0, false
	}
	return round(v), true
}

// EMA seeds with the SMA of the first period closes and then applies
// ema = close*k + prev*(1-k), k = 2/(period+1), to every later close.
func EMA(prices []float64, period int) (float64, bool) {
	v, ok := ema(prices, period)
	if !ok {
		return 0, false
	}
	return round(v), true
}

// MACD returns the MACD line, EMA(fast) - EMA(slow), for the whole series.
func MACD(prices []float64, fast, slow int) (float64, bool) {
	if fast <= 0 || slow <= fast {
		return 0, false
	}
	slowEMA, ok := ema(prices, slow)
	if !ok {
		return 0, false
	}
	fastEMA, ok := ema(prices, fast)
	if !ok {
		return 0, false
	}
	return round(fastEMA - slowEMA), true
}

func sma(prices []float64, period int) (float64, bool) {
	if period <= 0 || len(prices) < period {
		return 0, false
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), true
}

func ema(prices []float64, period int) (float64, bool) {
	if period <= 0 || len(prices) < period {
		return 0, false
	}
	seed, ok := sma(prices[:period], period)
	if !ok {
		return 0, false
	}
	k := 2.0 / float64(period+1)
	v := seed
	for i := period; i < len(prices); i++ {
		v = prices[i]*k + v*(1-k)
	}
	return v, true
}
