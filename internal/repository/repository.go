package repository

import (
	"stock-screener/config"
	"stock-screener/pkg/cache"
	"stock-screener/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	JobRepo       JobRepository
	StockRepo     StockRepository
	IndicatorRepo IndicatorRepository
	PriceBarRepo  PriceBarRepository
	PresetRepo    PresetRepository
	CandleRepo    CandleRepository
	UnitOfWork    UnitOfWork
}

func NewRepository(cfg *config.Config, inmemoryCache cache.Cache, db *gorm.DB, log *logger.Logger) (*Repository, error) {
	priceBarRepo := NewPriceBarRepository(db)
	candleRepo, err := NewCandleRepository(cfg, log, inmemoryCache,
		NewYahooFinanceRepository(cfg, log),
		priceBarRepo,
		NewSimulatedPriceRepository(),
	)
	if err != nil {
		return nil, err
	}

	return &Repository{
		JobRepo:       NewJobRepository(db),
		StockRepo:     NewStockRepository(db),
		IndicatorRepo: NewIndicatorRepository(db),
		PriceBarRepo:  priceBarRepo,
		PresetRepo:    NewPresetRepository(db),
		CandleRepo:    candleRepo,
		UnitOfWork:    NewUnitOfWork(db),
	}, nil
}
