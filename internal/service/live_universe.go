package service

import (
	"context"
	"stock-screener/internal/dto"
	"stock-screener/internal/indicator"
	"stock-screener/internal/repository"

	"golang.org/x/sync/errgroup"
)

// LiveUniverse fills price, change and indicators of each stock from freshly fetched history,
// without touching the database. Stocks whose history cannot be fetched are left out and
// reported in the returned map.
func LiveUniverse(ctx context.Context, candleRepo repository.CandleRepository, calculator *indicator.Calculator, stocks []dto.Stock, workers int) ([]dto.Stock, map[string]error) {
	if workers <= 0 {
		workers = 1
	}
	out := make([]dto.Stock, len(stocks))
	errs := make([]error, len(stocks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range stocks {
		g.Go(func() error {
			stock := stocks[i]
			history, err := candleRepo.Get(gctx, dto.GetPriceHistoryParam{Symbol: stock.Symbol, Exchange: stock.Exchange})
			if err != nil {
				errs[i] = err
				return nil
			}
			quote, ok := QuoteFromSeries(history.Data, history.MarketPrice)
			if !ok {
				errs[i] = repository.ErrNoPriceData
				return nil
			}
			stock.Price = quote.Price
			stock.Change = quote.Change
			stock.ChangePercent = quote.ChangePercent
			stock.Volume = quote.Volume
			stock.Indicators = calculator.Compute(stock.ID, history.Data)
			out[i] = stock
			return nil
		})
	}
	_ = g.Wait()

	universe := make([]dto.Stock, 0, len(stocks))
	failed := map[string]error{}
	for i := range stocks {
		if errs[i] != nil {
			failed[stocks[i].Symbol] = errs[i]
			continue
		}
		universe = append(universe, out[i])
	}
	return universe, failed
}
