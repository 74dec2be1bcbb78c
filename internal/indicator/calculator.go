package indicator

import "stock-screener/internal/dto"

const (
	macdFast = 12
	macdSlow = 26
)

type Params struct {
	RSIPeriod       int     `mapstructure:"rsi_period"`
	BollingerPeriod int     `mapstructure:"bollinger_period"`
	BollingerK      float64 `mapstructure:"bollinger_k"`
}

func DefaultParams() Params {
	return Params{
		RSIPeriod:       DefaultRSIPeriod,
		BollingerPeriod: DefaultBollingerPeriod,
		BollingerK:      DefaultBollingerK,
	}
}

// withDefaults fills zero fields so a partially configured Params stays usable.
func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.RSIPeriod <= 0 {
		p.RSIPeriod = d.RSIPeriod
	}
	if p.BollingerPeriod <= 0 {
		p.BollingerPeriod = d.BollingerPeriod
	}
	if p.BollingerK <= 0 {
		p.BollingerK = d.BollingerK
	}
	return p
}

// Calculator runs every indicator over one series and tags each result with a signal.
type Calculator struct {
	params    Params
	annotator *Annotator
}

func NewCalculator(params Params, annotator *Annotator) *Calculator {
	if annotator == nil {
		annotator = NewAnnotator(nil)
	}
	return &Calculator{params: params.withDefaults(), annotator: annotator}
}

// Compute returns the indicators the series is long enough for, in dto.IndicatorTypes order.
// Indicators whose window is not yet filled are left out rather than reported as zero. Each
// indicator is stamped with the time of the last bar.
func (c *Calculator) Compute(stockID uint, series dto.PriceSeries) []dto.Indicator {
	last, ok := series.Last()
	if !ok {
		return nil
	}
	closes := series.Closes()
	price := last.Close

	var out []dto.Indicator
	add := func(t dto.IndicatorType, value float64, signal dto.Signal) {
		out = append(out, dto.Indicator{
			StockID:   stockID,
			Type:      t,
			Value:     value,
			Signal:    signal,
			Timestamp: last.Timestamp,
		})
	}
	level := func(t dto.IndicatorType, value float64) {
		add(t, value, c.annotator.AnnotateLevel(t, value, price))
	}

	if v, ok := RSI(closes, c.params.RSIPeriod); ok {
		add(dto.IndicatorRSI, v, c.annotator.Annotate(dto.IndicatorRSI, v))
	}
	if v, ok := MACD(closes, macdFast, macdSlow); ok {
		add(dto.IndicatorMACD, v, c.annotator.Annotate(dto.IndicatorMACD, v))
	}
	if v, ok := SMA(closes, 20); ok {
		level(dto.IndicatorSMA20, v)
	}
	if v, ok := SMA(closes, 50); ok {
		level(dto.IndicatorSMA50, v)
	}
	if v, ok := EMA(closes, 12); ok {
		level(dto.IndicatorEMA12, v)
	}
	if v, ok := EMA(closes, 26); ok {
		level(dto.IndicatorEMA26, v)
	}
	if bb, ok := Bollinger(closes, c.params.BollingerPeriod, c.params.BollingerK); ok {
		level(dto.IndicatorBBUpper, bb.Upper)
		level(dto.IndicatorBBMiddle, bb.Middle)
		level(dto.IndicatorBBLower, bb.Lower)
	}
	if v, ok := ATR(series.Highs(), series.Lows(), closes, DefaultATRPeriod); ok {
		add(dto.IndicatorATR14, v, c.annotator.Annotate(dto.IndicatorATR14, v))
	}

	return out
}
