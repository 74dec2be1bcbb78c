package repository

import (
	"context"
	"fmt"
	"stock-screener/config"
	"stock-screener/internal/dto"
	"stock-screener/pkg/cache"
	"stock-screener/pkg/common"
	"stock-screener/pkg/logger"
	"stock-screener/pkg/metrics"
	"strings"
)

// PriceHistoryProvider is one source of OHLCV history.
type PriceHistoryProvider interface {
	Name() string
	Get(ctx context.Context, param dto.GetPriceHistoryParam) (*dto.PriceHistory, error)
}

// CandleRepository serves price history from the configured provider, cached per symbol,
// window and interval.
type CandleRepository interface {
	Get(ctx context.Context, param dto.GetPriceHistoryParam) (*dto.PriceHistory, error)
	Provider() string
}

type candleRepository struct {
	cfg      *config.Config
	log      *logger.Logger
	cache    cache.Cache
	provider PriceHistoryProvider
}

func NewCandleRepository(cfg *config.Config, log *logger.Logger, inmemoryCache cache.Cache, providers ...PriceHistoryProvider) (CandleRepository, error) {
	for _, p := range providers {
		if p.Name() == cfg.PriceSource.Provider {
			return &candleRepository{
				cfg:      cfg,
				log:      log,
				cache:    inmemoryCache,
				provider: p,
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.PriceSource.Provider)
}

func (r *candleRepository) Provider() string {
	return r.provider.Name()
}

func (r *candleRepository) Get(ctx context.Context, param dto.GetPriceHistoryParam) (*dto.PriceHistory, error) {
	param.Symbol = strings.ToUpper(param.Symbol)
	if param.Days <= 0 {
		param.Days = r.cfg.PriceSource.Range
	}
	if param.Interval == "" {
		param.Interval = r.cfg.PriceSource.Interval
	}

	key := fmt.Sprintf(common.KEY_PRICE_SERIES, param.Symbol, param.Days, param.Interval)
	return cache.Remember(r.cache, key, r.cfg.Cache.DefaultExpiration, func() (*dto.PriceHistory, error) {
		history, err := r.provider.Get(ctx, param)
		if err != nil {
			metrics.IncPriceFetch(r.provider.Name(), "error")
			return nil, err
		}
		metrics.IncPriceFetch(r.provider.Name(), "ok")

		r.log.DebugContext(ctx, "Fetched price history",
			logger.StringField("symbol", param.Symbol),
			logger.StringField("provider", r.provider.Name()),
			logger.IntField("bars", len(history.Data)),
		)
		return history, nil
	})
}
