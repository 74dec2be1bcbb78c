package dto

import "time"

type PricePoint struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Open      float64   `json:"open" yaml:"open"`
	High      float64   `json:"high" yaml:"high"`
	Low       float64   `json:"low" yaml:"low"`
	Close     float64   `json:"close" yaml:"close"`
	Volume    int64     `json:"volume" yaml:"volume"`
}

// PriceSeries is ascending by timestamp.
type PriceSeries []PricePoint

func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Close
	}
	return out
}

func (s PriceSeries) Highs() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.High
	}
	return out
}

func (s PriceSeries) Lows() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Low
	}
	return out
}

// Last returns the most recent bar.
func (s PriceSeries) Last() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}
	return s[len(s)-1], true
}

type Indicator struct {
	ID        uint          `json:"id" yaml:"id"`
	StockID   uint          `json:"stockId" yaml:"stockId"`
	Type      IndicatorType `json:"type" yaml:"type"`
	Value     float64       `json:"value" yaml:"value"`
	Signal    Signal        `json:"signal" yaml:"signal"`
	Timestamp time.Time     `json:"timestamp" yaml:"timestamp"`
}

type Stock struct {
	ID            uint        `json:"id" yaml:"id"`
	Symbol        string      `json:"symbol" yaml:"symbol" validate:"required"`
	Name          string      `json:"name" yaml:"name"`
	Exchange      string      `json:"exchange,omitempty" yaml:"exchange" validate:"omitempty,oneof=IDX NASDAQ"`
	Price         float64     `json:"price" yaml:"price"`
	Change        float64     `json:"change" yaml:"change"`
	ChangePercent float64     `json:"changePercent" yaml:"changePercent"`
	Volume        int64       `json:"volume" yaml:"volume"`
	MarketCap     float64     `json:"marketCap" yaml:"marketCap"`
	Sector        string      `json:"sector" yaml:"sector"`
	Indicators    []Indicator `json:"indicators" yaml:"indicators"`
}

// Indicator returns the stock's current indicator of type t.
func (s *Stock) Indicator(t IndicatorType) (Indicator, bool) {
	for _, ind := range s.Indicators {
		if ind.Type == t {
			return ind, true
		}
	}
	return Indicator{}, false
}

// IndicatorValue is the lookup-by-type accessor used by exporters.
func (s *Stock) IndicatorValue(t IndicatorType) (float64, bool) {
	ind, ok := s.Indicator(t)
	if !ok {
		return 0, false
	}
	return ind.Value, true
}

type GetPriceHistoryParam struct {
	Symbol   string
	Exchange string
	Days     int
	Interval string
}

type PriceHistory struct {
	Symbol      string      `json:"symbol"`
	Period      string      `json:"period"`
	MarketPrice float64     `json:"market_price"`
	Data        PriceSeries `json:"data"`
}

// Yahoo Finance chart API response
type YahooFinanceResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

type GetStocksParam struct {
	Symbols        []string
	Sector         string
	WithIndicators bool
}
