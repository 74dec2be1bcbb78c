package service

import (
	"context"
	"fmt"
	"stock-screener/config"
	"stock-screener/internal/dto"
	"stock-screener/internal/indicator"
	"stock-screener/internal/model"
	"stock-screener/internal/repository"
	"stock-screener/pkg/logger"
	"stock-screener/pkg/metrics"
	"stock-screener/pkg/utils"
	"sync"

	"golang.org/x/sync/errgroup"
)

type IndicatorService interface {
	// Refresh recomputes and stores the indicators of one stock.
	Refresh(ctx context.Context, symbol string) ([]dto.Indicator, error)
	// RefreshAll refreshes the given symbols, or every active stock when symbols is empty.
	RefreshAll(ctx context.Context, symbols []string) (*dto.RefreshReport, error)
	// Compute runs the calculator over a series without touching storage.
	Compute(stockID uint, series dto.PriceSeries) []dto.Indicator
}

type indicatorService struct {
	cfg           *config.Config
	log           *logger.Logger
	calculator    *indicator.Calculator
	stockRepo     repository.StockRepository
	indicatorRepo repository.IndicatorRepository
	candleRepo    repository.CandleRepository
	uow           repository.UnitOfWork
	stockService  StockService
}

func NewIndicatorService(
	cfg *config.Config,
	log *logger.Logger,
	calculator *indicator.Calculator,
	stockRepo repository.StockRepository,
	indicatorRepo repository.IndicatorRepository,
	candleRepo repository.CandleRepository,
	uow repository.UnitOfWork,
	stockService StockService,
) IndicatorService {
	return &indicatorService{
		cfg:           cfg,
		log:           log,
		calculator:    calculator,
		stockRepo:     stockRepo,
		indicatorRepo: indicatorRepo,
		candleRepo:    candleRepo,
		uow:           uow,
		stockService:  stockService,
	}
}

func (s *indicatorService) Compute(stockID uint, series dto.PriceSeries) []dto.Indicator {
	return s.calculator.Compute(stockID, series)
}

func (s *indicatorService) Refresh(ctx context.Context, symbol string) ([]dto.Indicator, error) {
	stock, err := s.stockRepo.FindBySymbol(ctx, symbol, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get stock %s: %w", symbol, err)
	}
	indicators, err := s.refreshOne(ctx, stock)
	if err != nil {
		return nil, err
	}
	s.stockService.InvalidateCache(stock.Symbol)
	return indicators, nil
}

func (s *indicatorService) refreshOne(ctx context.Context, stock *model.Stock) ([]dto.Indicator, error) {
	if s.cfg.Indicator.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Indicator.Timeout)
		defer cancel()
	}

	history, err := s.candleRepo.Get(ctx, dto.GetPriceHistoryParam{
		Symbol:   stock.Symbol,
		Exchange: stock.Exchange,
		Days:     s.cfg.PriceSource.Range,
	})
	if err != nil {
		metrics.IncIndicatorRefresh("error")
		return nil, fmt.Errorf("failed to get price history for %s: %w", stock.Symbol, err)
	}

	indicators := s.calculator.Compute(stock.ID, history.Data)
	rows := make([]model.Indicator, 0, len(indicators))
	types := make([]string, 0, len(indicators))
	for _, ind := range indicators {
		rows = append(rows, model.IndicatorFromDTO(ind))
		types = append(types, string(ind.Type))
	}

	err = s.uow.Run(ctx, func(opts ...utils.DBOption) error {
		if err := s.indicatorRepo.Upsert(ctx, rows, opts...); err != nil {
			return fmt.Errorf("upsert indicators: %w", err)
		}
		removed, err := s.indicatorRepo.DeleteByStockIDExcept(ctx, stock.ID, types, opts...)
		if err != nil {
			return fmt.Errorf("delete stale indicators: %w", err)
		}
		if removed > 0 {
			s.log.DebugContext(ctx, "Removed stale indicators", logger.StringField("symbol", stock.Symbol), logger.IntField("removed", int(removed)))
		}
		return nil
	})
	if err != nil {
		metrics.IncIndicatorRefresh("error")
		return nil, fmt.Errorf("failed to store indicators for %s: %w", stock.Symbol, err)
	}

	if len(indicators) < len(dto.IndicatorTypes()) {
		metrics.IncIndicatorRefresh("insufficient_history")
		s.log.InfoContext(ctx, "Not every indicator is computable yet",
			logger.StringField("symbol", stock.Symbol),
			logger.IntField("bars", len(history.Data)),
			logger.IntField("computed", len(indicators)),
		)
	} else {
		metrics.IncIndicatorRefresh("ok")
	}
	return indicators, nil
}

func (s *indicatorService) RefreshAll(ctx context.Context, symbols []string) (*dto.RefreshReport, error) {
	stocks, err := s.stockRepo.Get(ctx, model.GetStockParam{Symbols: utils.NormalizeSymbols(symbols), OnlyActive: true})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to load stocks for indicator refresh", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to load stocks: %w", err)
	}

	report := &dto.RefreshReport{Total: len(stocks), Failed: map[string]string{}}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Indicator.MaxConcurrency)
	for i := range stocks {
		stock := &stocks[i]
		g.Go(func() error {
			if !utils.ShouldContinue(gctx, s.log) {
				return gctx.Err()
			}
			indicators, err := s.refreshOne(gctx, stock)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				report.Failed[stock.Symbol] = err.Error()
				s.log.WarnContext(gctx, "Failed to refresh indicators", logger.ErrorField(err), logger.StringField("symbol", stock.Symbol))
			case len(indicators) < len(dto.IndicatorTypes()):
				report.Refreshed++
				report.Partial = append(report.Partial, stock.Symbol)
			default:
				report.Refreshed++
			}
			return nil
		})
	}
	waitErr := g.Wait()

	s.stockService.InvalidateCache()
	for _, stock := range stocks {
		s.stockService.InvalidateCache(stock.Symbol)
	}
	if waitErr != nil {
		return report, waitErr
	}

	s.log.InfoContext(ctx, "Indicator refresh finished",
		logger.IntField("total", report.Total),
		logger.IntField("refreshed", report.Refreshed),
		logger.IntField("partial", len(report.Partial)),
		logger.IntField("failed", len(report.Failed)),
	)
	return report, nil
}
