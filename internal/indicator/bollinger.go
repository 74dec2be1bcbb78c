package indicator

import "math"

const (
	DefaultBollingerPeriod = 20
	DefaultBollingerK      = 2.0
)

type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// Bollinger returns bands at middle ± k·σ where middle is the SMA of the trailing period
// closes and σ is their population standard deviation.
func Bollinger(prices []float64, period int, k float64) (BollingerBands, bool) {
	middle, ok := sma(prices, period)
	if !ok {
		return BollingerBands{}, false
	}

	var variance float64
	for _, p := range prices[len(prices)-period:] {
		variance += (p - middle) * (p - middle)
	}
	sd := math.Sqrt(variance / float64(period))

	return BollingerBands{
		Upper:  round(middle + k*sd),
		Middle: round(middle),
		Lower:  round(middle - k*sd),
	}, true
}
