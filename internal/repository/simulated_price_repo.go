package repository

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"stock-screener/config"
	"stock-screener/internal/dto"
	"stock-screener/pkg/utils"
	"time"

	"github.com/shopspring/decimal"
)

// simulatedPriceRepository produces a seeded random walk per symbol. The same symbol, window
// and end date always yield the same bars, which makes it usable for demos and offline runs
// without network access.
type simulatedPriceRepository struct {
	now func() time.Time
}

func NewSimulatedPriceRepository() PriceHistoryProvider {
	return &simulatedPriceRepository{now: utils.TimeNowWIB}
}

func (r *simulatedPriceRepository) Name() string {
	return config.PriceProviderSimulated
}

func symbolSeed(symbol string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(symbol))
	return h.Sum64()
}

func roundPrice(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func (r *simulatedPriceRepository) Get(ctx context.Context, param dto.GetPriceHistoryParam) (*dto.PriceHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	step := 1
	if param.Interval == dto.Interval1Week {
		step = 7
	}

	end := utils.StartOfDay(r.now())
	start := end.AddDate(0, 0, -param.Days)
	var dates []time.Time
	for d := start.AddDate(0, 0, 1); !d.After(end); d = d.AddDate(0, 0, step) {
		if step == 1 && (d.Weekday() == time.Saturday || d.Weekday() == time.Sunday) {
			continue
		}
		dates = append(dates, d)
	}
	if len(dates) == 0 {
		dates = append(dates, end)
	}

	seed := symbolSeed(param.Symbol)
	rng := rand.New(rand.NewPCG(seed, uint64(end.Unix())))
	price := 100 + float64(seed%9900)

	series := make(dto.PriceSeries, 0, len(dates))
	for _, d := range dates {
		open := price
		closePrice := math.Max(1, open*(1+rng.NormFloat64()*0.02))
		high := math.Max(open, closePrice) * (1 + math.Abs(rng.NormFloat64())*0.005)
		low := math.Min(open, closePrice) * (1 - math.Abs(rng.NormFloat64())*0.005)

		series = append(series, dto.PricePoint{
			Timestamp: d,
			Open:      roundPrice(open),
			High:      roundPrice(high),
			Low:       roundPrice(low),
			Close:     roundPrice(closePrice),
			Volume:    1_000_000 + rng.Int64N(5_000_000),
		})
		price = closePrice
	}

	last, _ := series.Last()
	return &dto.PriceHistory{
		Symbol:      param.Symbol,
		MarketPrice: last.Close,
		Data:        series,
	}, nil
}
