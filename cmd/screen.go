package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"stock-screener/config"
	"stock-screener/internal/dto"
	"stock-screener/internal/indicator"
	"stock-screener/internal/repository"
	"stock-screener/internal/screener"
	"stock-screener/internal/service"
	"stock-screener/pkg/cache"
	"stock-screener/pkg/logger"
	"stock-screener/pkg/utils"
	"strings"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	screenFile    string
	screenFormat  string
	screenOutput  string
	screenSymbols []string
)

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Screen stocks with criteria read from a YAML or JSON file",
	Long: `Runs one screen and prints the result.

The universe is taken from the request file when it has one. Otherwise --symbols are priced from
the configured provider (yahoo or simulated) without a database. With neither, the stored
universe is screened.`,
	RunE: runScreen,
}

func init() {
	screenCmd.Flags().StringVarP(&screenFile, "file", "f", "", "request file with criteria and optional universe")
	screenCmd.Flags().StringVar(&screenFormat, "format", "json", "output format: json, yaml or csv")
	screenCmd.Flags().StringVarP(&screenOutput, "output", "o", "", "write to file instead of stdout")
	screenCmd.Flags().StringSliceVar(&screenSymbols, "symbols", nil, "symbols to price live when the request has no universe")
	_ = screenCmd.MarkFlagRequired("file")
}

// readScreenRequest decodes a request file. JSON is accepted as YAML.
func readScreenRequest(path string) (*dto.ScreenRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	req := new(dto.ScreenRequest)
	if err := yaml.Unmarshal(raw, req); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := goValidator.New().Struct(req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return req, nil
}

func runScreen(cmd *cobra.Command, args []string) error {
	switch screenFormat {
	case "json", "yaml", "csv":
	default:
		return fmt.Errorf("unknown format %q", screenFormat)
	}

	req, err := readScreenRequest(screenFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		result   *dto.ScreenResult
		exporter service.ScreenerService
	)
	if len(req.Universe) > 0 || len(screenSymbols) > 0 {
		result, exporter, err = screenOffline(ctx, req)
	} else {
		result, exporter, err = screenStored(ctx, req)
	}
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if screenOutput != "" {
		f, err := os.Create(screenOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return writeScreenResult(out, screenFormat, result, exporter)
}

func screenOffline(ctx context.Context, req *dto.ScreenRequest) (*dto.ScreenResult, service.ScreenerService, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = log.Sync() }()

	screenerService := service.NewScreenerService(cfg, log, screener.NewEngine(log), nil, nil)
	if len(req.Universe) == 0 {
		universe, err := liveUniverse(ctx, cfg, log, screenSymbols)
		if err != nil {
			return nil, nil, err
		}
		req.Universe = universe
	}

	result, err := screenerService.Screen(ctx, *req)
	return result, screenerService, err
}

func liveUniverse(ctx context.Context, cfg *config.Config, log *logger.Logger, symbols []string) ([]dto.Stock, error) {
	if cfg.PriceSource.Provider == config.PriceProviderDatabase {
		return nil, errors.New("--symbols needs price_source.provider yahoo or simulated")
	}
	candleRepo, err := repository.NewCandleRepository(cfg, log, cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
		repository.NewYahooFinanceRepository(cfg, log),
		repository.NewSimulatedPriceRepository(),
	)
	if err != nil {
		return nil, err
	}

	stocks := make([]dto.Stock, 0, len(symbols))
	for _, symbol := range utils.NormalizeSymbols(symbols) {
		stocks = append(stocks, dto.Stock{Symbol: symbol, Name: symbol, Exchange: dto.ExchangeIDX})
	}

	calculator := indicator.NewCalculator(cfg.Indicator.Params, indicator.NewAnnotator(cfg.Signal.Rules))
	universe, failed := service.LiveUniverse(ctx, candleRepo, calculator, stocks, cfg.Indicator.MaxConcurrency)
	for symbol, err := range failed {
		log.Warn("Skipping symbol without price history", logger.StringField("symbol", symbol), logger.ErrorField(err))
	}
	if len(universe) == 0 {
		return nil, errors.New("no symbol could be priced")
	}
	return universe, nil
}

func screenStored(ctx context.Context, req *dto.ScreenRequest) (*dto.ScreenResult, service.ScreenerService, error) {
	appDep, err := NewAppDependency(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = appDep.Close() }()

	repo, err := repository.NewRepository(appDep.cfg, appDep.cache, appDep.db.DB, appDep.log)
	if err != nil {
		return nil, nil, err
	}
	services := service.NewService(appDep.cfg, appDep.log, repo, appDep.cache)
	result, err := services.ScreenerService.Screen(ctx, *req)
	return result, services.ScreenerService, err
}

func writeScreenResult(w io.Writer, format string, result *dto.ScreenResult, exporter service.ScreenerService) error {
	switch strings.ToLower(format) {
	case "csv":
		return exporter.ExportCSV(w, result.Stocks)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
}
