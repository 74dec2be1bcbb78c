package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"stock-screener/config"
	"stock-screener/internal/dto"
	"stock-screener/internal/screener"
	"stock-screener/pkg/logger"
	"stock-screener/pkg/metrics"
	"stock-screener/pkg/utils"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	SourceInline = "inline"
	SourceStored = "stored"
	SourcePreset = "preset"
)

type ScreenerService interface {
	Screen(ctx context.Context, req dto.ScreenRequest) (*dto.ScreenResult, error)
	ScreenPreset(ctx context.Context, presetID uint) (*dto.ScreenResult, error)
	ExportCSV(w io.Writer, stocks []dto.Stock) error
}

type screenerService struct {
	cfg           *config.Config
	log           *logger.Logger
	engine        *screener.Engine
	stockService  StockService
	presetService PresetService
}

func NewScreenerService(cfg *config.Config, log *logger.Logger, engine *screener.Engine, stockService StockService, presetService PresetService) ScreenerService {
	return &screenerService{
		cfg:           cfg,
		log:           log,
		engine:        engine,
		stockService:  stockService,
		presetService: presetService,
	}
}

func (s *screenerService) Screen(ctx context.Context, req dto.ScreenRequest) (*dto.ScreenResult, error) {
	source := SourceInline
	universe := req.Universe
	if len(universe) == 0 {
		source = SourceStored
		var err error
		universe, err = s.stockService.Universe(ctx)
		if err != nil {
			return nil, err
		}
	}
	return s.run(ctx, source, universe, req.Criteria)
}

func (s *screenerService) ScreenPreset(ctx context.Context, presetID uint) (*dto.ScreenResult, error) {
	preset, err := s.presetService.Get(ctx, presetID)
	if err != nil {
		return nil, err
	}
	universe, err := s.stockService.Universe(ctx)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, SourcePreset, universe, preset.Criteria)
}

func (s *screenerService) run(ctx context.Context, source string, universe []dto.Stock, criteria []dto.FilterCriterion) (*dto.ScreenResult, error) {
	runID := uuid.NewString()
	start := time.Now()

	matched, warnings, err := s.engine.ScreenConcurrent(ctx, universe, criteria, s.cfg.Screener.Workers)
	if err != nil {
		return nil, fmt.Errorf("screen run %s: %w", runID, err)
	}
	elapsed := time.Since(start)

	metrics.ObserveScreen(source, len(universe), len(matched), elapsed)
	metrics.AddMalformedCriteria(len(warnings))

	s.log.InfoContext(ctx, "Screen finished",
		logger.StringField("run_id", runID),
		logger.StringField("source", source),
		logger.IntField("universe", len(universe)),
		logger.IntField("criteria", dto.EnabledCount(criteria)),
		logger.IntField("matched", len(matched)),
		logger.DurationField("elapsed", elapsed),
	)

	if criteria == nil {
		criteria = []dto.FilterCriterion{}
	}
	if matched == nil {
		matched = []dto.Stock{}
	}
	return &dto.ScreenResult{
		RunID:        runID,
		Criteria:     criteria,
		UniverseSize: len(universe),
		MatchedCount: len(matched),
		Stocks:       matched,
		ScreenedAt:   utils.TimeNowWIB(),
		Warnings:     warnings,
	}, nil
}

var csvHeader = []string{"Symbol", "Name", "Price", "Change", "Change %", "Volume", "Market Cap", "Sector", "RSI", "MACD", "SMA 20", "EMA 12"}

var csvIndicators = []dto.IndicatorType{dto.IndicatorRSI, dto.IndicatorMACD, dto.IndicatorSMA20, dto.IndicatorEMA12}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ExportCSV writes one row per stock. Indicator columns are blank when the stock lacks them.
func (s *screenerService) ExportCSV(w io.Writer, stocks []dto.Stock) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i := range stocks {
		stock := &stocks[i]
		row := []string{
			stock.Symbol,
			stock.Name,
			formatFloat(stock.Price),
			formatFloat(stock.Change),
			formatFloat(stock.ChangePercent),
			strconv.FormatInt(stock.Volume, 10),
			formatFloat(stock.MarketCap),
			stock.Sector,
		}
		for _, t := range csvIndicators {
			if v, ok := stock.IndicatorValue(t); ok {
				row = append(row, formatFloat(v))
			} else {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFilename names an export taken at t.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("ihsg-screener-%s.csv", t.Format("2006-01-02"))
}
