package service

import (
	"stock-screener/config"
	"stock-screener/internal/indicator"
	"stock-screener/internal/repository"
	"stock-screener/internal/screener"
	"stock-screener/internal/strategy"
	"stock-screener/pkg/cache"
	"stock-screener/pkg/logger"
)

type Service struct {
	StockService     StockService
	IndicatorService IndicatorService
	ScreenerService  ScreenerService
	PresetService    PresetService
	SchedulerService SchedulerService
	TaskExecutor     TaskExecutor
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
) *Service {
	annotator := indicator.NewAnnotator(cfg.Signal.Rules)
	calculator := indicator.NewCalculator(cfg.Indicator.Params, annotator)

	stockService := NewStockService(cfg, log, inmemoryCache, repo.StockRepo, repo.CandleRepo, repo.PriceBarRepo, repo.UnitOfWork)
	indicatorService := NewIndicatorService(cfg, log, calculator, repo.StockRepo, repo.IndicatorRepo, repo.CandleRepo, repo.UnitOfWork, stockService)
	presetService := NewPresetService(log, repo.PresetRepo)
	screenerService := NewScreenerService(cfg, log, screener.NewEngine(log), stockService, presetService)

	taskExecutor := NewTaskExecutor(cfg, log, repo.JobRepo,
		strategy.NewPriceSyncStrategy(cfg, log, stockService),
		strategy.NewIndicatorRefreshStrategy(log, indicatorService),
		strategy.NewDataCleanUpStrategy(cfg, log, repo.PriceBarRepo, repo.JobRepo),
	)
	schedulerService := NewSchedulerService(cfg, log, repo.JobRepo, taskExecutor)

	return &Service{
		StockService:     stockService,
		IndicatorService: indicatorService,
		ScreenerService:  screenerService,
		PresetService:    presetService,
		SchedulerService: schedulerService,
		TaskExecutor:     taskExecutor,
	}
}
