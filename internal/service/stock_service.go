package service

import (
	"context"
	"fmt"
	"stock-screener/config"
	"stock-screener/internal/dto"
	"stock-screener/internal/model"
	"stock-screener/internal/repository"
	"stock-screener/pkg/cache"
	"stock-screener/pkg/common"
	"stock-screener/pkg/logger"
	"stock-screener/pkg/utils"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

type StockService interface {
	List(ctx context.Context, param dto.GetStocksParam) ([]dto.Stock, error)
	Get(ctx context.Context, symbol string) (*dto.Stock, error)
	Indicators(ctx context.Context, symbol string) ([]dto.Indicator, error)
	History(ctx context.Context, symbol, period string) (*dto.PriceHistory, error)
	// Universe is every active stock with its current indicators, cached briefly.
	Universe(ctx context.Context) ([]dto.Stock, error)
	SyncPrices(ctx context.Context, symbols []string, days int) (*dto.SyncReport, error)
	InvalidateCache(symbols ...string)
}

type stockService struct {
	cfg          *config.Config
	log          *logger.Logger
	cache        cache.Cache
	stockRepo    repository.StockRepository
	candleRepo   repository.CandleRepository
	priceBarRepo repository.PriceBarRepository
	uow          repository.UnitOfWork
}

func NewStockService(
	cfg *config.Config,
	log *logger.Logger,
	inmemoryCache cache.Cache,
	stockRepo repository.StockRepository,
	candleRepo repository.CandleRepository,
	priceBarRepo repository.PriceBarRepository,
	uow repository.UnitOfWork,
) StockService {
	return &stockService{
		cfg:          cfg,
		log:          log,
		cache:        inmemoryCache,
		stockRepo:    stockRepo,
		candleRepo:   candleRepo,
		priceBarRepo: priceBarRepo,
		uow:          uow,
	}
}

func toDTOs(stocks []model.Stock) []dto.Stock {
	out := make([]dto.Stock, 0, len(stocks))
	for i := range stocks {
		out = append(out, stocks[i].ToDTO())
	}
	return out
}

func (s *stockService) List(ctx context.Context, param dto.GetStocksParam) ([]dto.Stock, error) {
	stocks, err := s.stockRepo.Get(ctx, model.GetStockParam{
		Symbols:        utils.NormalizeSymbols(param.Symbols),
		Sector:         param.Sector,
		OnlyActive:     true,
		WithIndicators: param.WithIndicators,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to list stocks", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}
	return toDTOs(stocks), nil
}

func (s *stockService) Get(ctx context.Context, symbol string) (*dto.Stock, error) {
	symbol = strings.ToUpper(symbol)
	key := fmt.Sprintf(common.KEY_STOCK, symbol)
	if cached, ok := cache.GetFromCache[*dto.Stock](s.cache, key); ok {
		return cached, nil
	}

	stock, err := s.stockRepo.FindBySymbol(ctx, symbol, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get stock %s: %w", symbol, err)
	}
	out := stock.ToDTO()
	s.cache.Set(key, &out, s.cfg.Cache.UniverseExpiration)
	return &out, nil
}

func (s *stockService) Indicators(ctx context.Context, symbol string) ([]dto.Indicator, error) {
	stock, err := s.Get(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return stock.Indicators, nil
}

// History returns bars for a chart period (1D, 1W, 1M, 3M, 6M, 1Y). Unknown periods fall back
// to one month.
func (s *stockService) History(ctx context.Context, symbol, period string) (*dto.PriceHistory, error) {
	stock, err := s.stockRepo.FindBySymbol(ctx, symbol, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get stock %s: %w", symbol, err)
	}

	period = strings.ToUpper(period)
	days := dto.PeriodDays(period)
	if days == dto.PeriodDays(dto.DefaultPeriod) {
		period = dto.DefaultPeriod
	}
	interval := dto.Interval1Day
	if days > 180 {
		interval = dto.Interval1Week
	}

	history, err := s.candleRepo.Get(ctx, dto.GetPriceHistoryParam{
		Symbol:   stock.Symbol,
		Exchange: stock.Exchange,
		Days:     days,
		Interval: interval,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get price history", logger.ErrorField(err), logger.StringField("symbol", stock.Symbol))
		return nil, fmt.Errorf("failed to get price history for %s: %w", stock.Symbol, err)
	}

	out := *history
	out.Period = period
	return &out, nil
}

func (s *stockService) Universe(ctx context.Context) ([]dto.Stock, error) {
	return cache.Remember(s.cache, common.KEY_STOCK_UNIVERSE, s.cfg.Cache.UniverseExpiration, func() ([]dto.Stock, error) {
		stocks, err := s.stockRepo.Get(ctx, model.GetStockParam{OnlyActive: true, WithIndicators: true})
		if err != nil {
			s.log.ErrorContext(ctx, "Failed to load stock universe", logger.ErrorField(err))
			return nil, fmt.Errorf("failed to load stock universe: %w", err)
		}
		return toDTOs(stocks), nil
	})
}

func (s *stockService) InvalidateCache(symbols ...string) {
	s.cache.Delete(common.KEY_STOCK_UNIVERSE)
	for _, symbol := range symbols {
		s.cache.Delete(fmt.Sprintf(common.KEY_STOCK, strings.ToUpper(symbol)))
	}
}

// QuoteFromSeries derives the latest quote: last close, and change against the previous close.
func QuoteFromSeries(series dto.PriceSeries, marketPrice float64) (model.StockQuote, bool) {
	last, ok := series.Last()
	if !ok {
		return model.StockQuote{}, false
	}
	price := last.Close
	if marketPrice > 0 {
		price = marketPrice
	}
	quote := model.StockQuote{Price: price, Volume: last.Volume}
	if len(series) > 1 {
		prev := series[len(series)-2].Close
		quote.Change = price - prev
		if prev != 0 {
			quote.ChangePercent = quote.Change / prev * 100
		}
	}
	return quote, true
}

// SyncPrices fetches history for the given symbols (all active stocks when empty), stores the
// bars and updates each stock's latest quote. A failing symbol does not stop the others.
func (s *stockService) SyncPrices(ctx context.Context, symbols []string, days int) (*dto.SyncReport, error) {
	stocks, err := s.stockRepo.Get(ctx, model.GetStockParam{Symbols: utils.NormalizeSymbols(symbols), OnlyActive: true})
	if err != nil {
		return nil, fmt.Errorf("failed to load stocks for sync: %w", err)
	}

	report := &dto.SyncReport{Total: len(stocks), Failed: map[string]string{}}
	storeBars := s.candleRepo.Provider() != config.PriceProviderDatabase
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Indicator.MaxConcurrency)
	for i := range stocks {
		stock := stocks[i]
		g.Go(func() error {
			if !utils.ShouldContinue(gctx, s.log) {
				return gctx.Err()
			}
			err := s.syncOne(gctx, stock, days, storeBars)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed[stock.Symbol] = err.Error()
				s.log.WarnContext(gctx, "Failed to sync prices", logger.ErrorField(err), logger.StringField("symbol", stock.Symbol))
				return nil
			}
			report.Synced++
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	s.InvalidateCache()
	s.log.InfoContext(ctx, "Price sync finished",
		logger.IntField("total", report.Total),
		logger.IntField("synced", report.Synced),
		logger.IntField("failed", len(report.Failed)),
	)
	return report, nil
}

func (s *stockService) syncOne(ctx context.Context, stock model.Stock, days int, storeBars bool) error {
	history, err := s.candleRepo.Get(ctx, dto.GetPriceHistoryParam{
		Symbol:   stock.Symbol,
		Exchange: stock.Exchange,
		Days:     days,
	})
	if err != nil {
		return err
	}
	quote, ok := QuoteFromSeries(history.Data, history.MarketPrice)
	if !ok {
		return repository.ErrNoPriceData
	}

	return s.uow.Run(ctx, func(opts ...utils.DBOption) error {
		if storeBars {
			bars := model.PriceBarsFromSeries(stock.ID, s.cfg.PriceSource.Interval, history.Data)
			if err := s.priceBarRepo.Upsert(ctx, bars, opts...); err != nil {
				return fmt.Errorf("store bars: %w", err)
			}
		}
		if err := s.stockRepo.UpdateQuote(ctx, stock.ID, quote, opts...); err != nil {
			return fmt.Errorf("update quote: %w", err)
		}
		return nil
	})
}
