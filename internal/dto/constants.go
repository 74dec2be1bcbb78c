package dto

// IndicatorType names an indicator series. PRICE is only meaningful as a filter target.
type IndicatorType string

const (
	IndicatorRSI      IndicatorType = "RSI"
	IndicatorMACD     IndicatorType = "MACD"
	IndicatorSMA20    IndicatorType = "SMA_20"
	IndicatorSMA50    IndicatorType = "SMA_50"
	IndicatorEMA12    IndicatorType = "EMA_12"
	IndicatorEMA26    IndicatorType = "EMA_26"
	IndicatorBBUpper  IndicatorType = "BB_UPPER"
	IndicatorBBMiddle IndicatorType = "BB_MIDDLE"
	IndicatorBBLower  IndicatorType = "BB_LOWER"
	IndicatorATR14    IndicatorType = "ATR_14"
	IndicatorPrice    IndicatorType = "PRICE"
)

// IndicatorTypes lists every type the calculator produces, in display order.
func IndicatorTypes() []IndicatorType {
	return []IndicatorType{
		IndicatorRSI,
		IndicatorMACD,
		IndicatorSMA20,
		IndicatorSMA50,
		IndicatorEMA12,
		IndicatorEMA26,
		IndicatorBBUpper,
		IndicatorBBMiddle,
		IndicatorBBLower,
		IndicatorATR14,
	}
}

// IsFilterable reports whether a criterion may target t.
func (t IndicatorType) IsFilterable() bool {
	if t == IndicatorPrice {
		return true
	}
	for _, it := range IndicatorTypes() {
		if it == t {
			return true
		}
	}
	return false
}

type Signal string

const (
	SignalBullish    Signal = "bullish"
	SignalBearish    Signal = "bearish"
	SignalNeutral    Signal = "neutral"
	SignalOverbought Signal = "overbought"
	SignalOversold   Signal = "oversold"
)

type Operator string

const (
	OperatorGreater      Operator = ">"
	OperatorLess         Operator = "<"
	OperatorGreaterEqual Operator = ">="
	OperatorLessEqual    Operator = "<="
	OperatorEqual        Operator = "="
	OperatorBetween      Operator = "between"
)

// Known reports whether o is one of the supported comparison operators.
func (o Operator) Known() bool {
	switch o {
	case OperatorGreater, OperatorLess, OperatorGreaterEqual, OperatorLessEqual, OperatorEqual, OperatorBetween:
		return true
	}
	return false
}

// History periods accepted by the chart endpoint.
const (
	Period1Day    = "1D"
	Period1Week   = "1W"
	Period1Month  = "1M"
	Period3Month  = "3M"
	Period6Month  = "6M"
	Period1Year   = "1Y"
	DefaultPeriod = Period1Month
)

// PeriodDays maps a history period to calendar days. Unknown periods fall back to one month.
func PeriodDays(period string) int {
	switch period {
	case Period1Day:
		return 1
	case Period1Week:
		return 7
	case Period1Month:
		return 30
	case Period3Month:
		return 90
	case Period6Month:
		return 180
	case Period1Year:
		return 365
	default:
		return 30
	}
}

const (
	ExchangeIDX    = "IDX"
	ExchangeNASDAQ = "NASDAQ"
)

const (
	Interval1Day  string = "1d"
	Interval1Week string = "1wk"
)
