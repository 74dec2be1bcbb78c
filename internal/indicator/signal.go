package indicator

import (
	"math"
	"stock-screener/internal/dto"
	"strings"
)

// Basis tells the annotator what the value handed to it measures.
type Basis string

const (
	// BasisValue compares the raw indicator value against the bands (RSI, MACD).
	BasisValue Basis = "value"
	// BasisDistance compares the signed percent distance of price from a level (moving averages,
	// Bollinger bands) or the day's change percent (PRICE).
	BasisDistance Basis = "distance"
)

// SignalRule holds the bands for one indicator type. Bands are checked in the order overbought,
// oversold, bullish, bearish; a nil band never matches. A value matching no band is neutral.
type SignalRule struct {
	Basis        Basis    `mapstructure:"basis" json:"basis"`
	Overbought   *float64 `mapstructure:"overbought" json:"overbought,omitempty"`
	Oversold     *float64 `mapstructure:"oversold" json:"oversold,omitempty"`
	BullishAbove *float64 `mapstructure:"bullish_above" json:"bullish_above,omitempty"`
	BearishBelow *float64 `mapstructure:"bearish_below" json:"bearish_below,omitempty"`
}

// SignalTable maps each indicator type to its rule.
type SignalTable map[dto.IndicatorType]SignalRule

func band(v float64) *float64 { return &v }

// DefaultSignalTable is the threshold table used when configuration does not override a type.
func DefaultSignalTable() SignalTable {
	trend := SignalRule{Basis: BasisDistance, BullishAbove: band(0.5), BearishBelow: band(-0.5)}
	return SignalTable{
		dto.IndicatorRSI:      {Basis: BasisValue, Overbought: band(70), Oversold: band(30)},
		dto.IndicatorMACD:     {Basis: BasisValue, BullishAbove: band(0), BearishBelow: band(0)},
		dto.IndicatorSMA20:    trend,
		dto.IndicatorSMA50:    trend,
		dto.IndicatorEMA12:    trend,
		dto.IndicatorEMA26:    trend,
		dto.IndicatorBBMiddle: trend,
		dto.IndicatorBBUpper:  {Basis: BasisDistance, Overbought: band(0)},
		dto.IndicatorBBLower:  {Basis: BasisDistance, Oversold: band(0)},
		dto.IndicatorATR14:    {Basis: BasisValue},
		dto.IndicatorPrice:    {Basis: BasisDistance, BullishAbove: band(0), BearishBelow: band(0)},
	}
}

type Annotator struct {
	table SignalTable
}

// NewAnnotator builds an annotator from the default table with per-type overrides applied.
// Override keys are indicator type names and are matched case-insensitively. An override
// without a basis keeps the default rule's basis, or value for types with no default rule.
func NewAnnotator(overrides map[string]SignalRule) *Annotator {
	table := DefaultSignalTable()
	for name, rule := range overrides {
		t := dto.IndicatorType(strings.ToUpper(name))
		if rule.Basis == "" {
			rule.Basis = BasisValue
			if base, ok := table[t]; ok && base.Basis != "" {
				rule.Basis = base.Basis
			}
		}
		table[t] = rule
	}
	return &Annotator{table: table}
}

// Table returns a copy of the effective threshold table.
func (a *Annotator) Table() SignalTable {
	out := make(SignalTable, len(a.table))
	for k, v := range a.table {
		out[k] = v
	}
	return out
}

// Annotate maps (type, value) to exactly one signal. Unknown types and non-finite values are
// neutral.
func (a *Annotator) Annotate(t dto.IndicatorType, value float64) dto.Signal {
	rule, ok := a.table[t]
	if !ok || math.IsNaN(value) || math.IsInf(value, 0) {
		return dto.SignalNeutral
	}
	switch {
	case rule.Overbought != nil && value > *rule.Overbought:
		return dto.SignalOverbought
	case rule.Oversold != nil && value < *rule.Oversold:
		return dto.SignalOversold
	case rule.BullishAbove != nil && value > *rule.BullishAbove:
		return dto.SignalBullish
	case rule.BearishBelow != nil && value < *rule.BearishBelow:
		return dto.SignalBearish
	}
	return dto.SignalNeutral
}

// AnnotateLevel annotates an indicator whose value is a price level. For distance-based rules
// the percent distance of price from level is annotated; value-based rules see level directly.
func (a *Annotator) AnnotateLevel(t dto.IndicatorType, level, price float64) dto.Signal {
	rule, ok := a.table[t]
	if !ok {
		return dto.SignalNeutral
	}
	if rule.Basis != BasisDistance {
		return a.Annotate(t, level)
	}
	if level == 0 {
		return dto.SignalNeutral
	}
	return a.Annotate(t, (price-level)/level*100)
}
