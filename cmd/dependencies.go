package cmd

import (
	"context"
	"fmt"
	"stock-screener/config"
	"stock-screener/pkg/cache"
	"stock-screener/pkg/logger"
	"stock-screener/pkg/middleware"
	"stock-screener/pkg/postgres"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

type AppDependency struct {
	db        *postgres.DB
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	echo      *echo.Echo
	cache     cache.Cache
}

// loadConfig reads and validates the config and builds the logger.
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func NewAppDependency(ctx context.Context) (*AppDependency, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}

	db, err := postgres.NewDB(cfg.DB, log)
	if err != nil {
		log.Error("Failed to connect to database", logger.ErrorField(err))
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = cfg.API.ReadTimeout
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.NewRequestContextMiddleware(log))
	e.Use(middleware.NewMetricsMiddleware())
	e.Use(middleware.NewRateLimiterMiddleware(cfg.API))

	return &AppDependency{
		cfg:       cfg,
		log:       log,
		validator: goValidator.New(),
		db:        db,
		echo:      e,
		cache:     cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
	}, nil
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	defer func() { _ = d.log.Sync() }()
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
