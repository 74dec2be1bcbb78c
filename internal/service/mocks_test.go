package service

import (
	"context"
	"stock-screener/config"
	"stock-screener/internal/dto"
	"stock-screener/internal/model"
	"stock-screener/pkg/utils"
	"time"

	"github.com/stretchr/testify/mock"
)

type mockStockRepo struct{ mock.Mock }

func (m *mockStockRepo) Get(ctx context.Context, param model.GetStockParam, opts ...utils.DBOption) ([]model.Stock, error) {
	args := m.Called(ctx, param)
	stocks, _ := args.Get(0).([]model.Stock)
	return stocks, args.Error(1)
}

func (m *mockStockRepo) FindBySymbol(ctx context.Context, symbol string, withIndicators bool, opts ...utils.DBOption) (*model.Stock, error) {
	args := m.Called(ctx, symbol, withIndicators)
	stock, _ := args.Get(0).(*model.Stock)
	return stock, args.Error(1)
}

func (m *mockStockRepo) UpdateQuote(ctx context.Context, stockID uint, quote model.StockQuote, opts ...utils.DBOption) error {
	return m.Called(ctx, stockID, quote).Error(0)
}

type mockIndicatorRepo struct{ mock.Mock }

func (m *mockIndicatorRepo) Upsert(ctx context.Context, indicators []model.Indicator, opts ...utils.DBOption) error {
	return m.Called(ctx, indicators).Error(0)
}

func (m *mockIndicatorRepo) GetByStockID(ctx context.Context, stockID uint, opts ...utils.DBOption) ([]model.Indicator, error) {
	args := m.Called(ctx, stockID)
	out, _ := args.Get(0).([]model.Indicator)
	return out, args.Error(1)
}

func (m *mockIndicatorRepo) DeleteByStockIDExcept(ctx context.Context, stockID uint, keepTypes []string, opts ...utils.DBOption) (int64, error) {
	args := m.Called(ctx, stockID, keepTypes)
	return int64(args.Int(0)), args.Error(1)
}

type mockPriceBarRepo struct{ mock.Mock }

func (m *mockPriceBarRepo) Name() string { return config.PriceProviderDatabase }

func (m *mockPriceBarRepo) Get(ctx context.Context, param dto.GetPriceHistoryParam) (*dto.PriceHistory, error) {
	args := m.Called(ctx, param)
	h, _ := args.Get(0).(*dto.PriceHistory)
	return h, args.Error(1)
}

func (m *mockPriceBarRepo) Upsert(ctx context.Context, bars []model.PriceBar, opts ...utils.DBOption) error {
	return m.Called(ctx, bars).Error(0)
}

func (m *mockPriceBarRepo) DeleteOlderThan(ctx context.Context, date time.Time, opts ...utils.DBOption) (int64, error) {
	args := m.Called(ctx, date)
	return int64(args.Int(0)), args.Error(1)
}

type mockCandleRepo struct {
	mock.Mock
	provider string
}

func (m *mockCandleRepo) Provider() string { return m.provider }

func (m *mockCandleRepo) Get(ctx context.Context, param dto.GetPriceHistoryParam) (*dto.PriceHistory, error) {
	args := m.Called(ctx, param)
	h, _ := args.Get(0).(*dto.PriceHistory)
	return h, args.Error(1)
}

type mockPresetRepo struct{ mock.Mock }

func (m *mockPresetRepo) List(ctx context.Context, opts ...utils.DBOption) ([]model.Preset, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]model.Preset)
	return out, args.Error(1)
}

func (m *mockPresetRepo) FindByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.Preset, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*model.Preset)
	return p, args.Error(1)
}

func (m *mockPresetRepo) Create(ctx context.Context, preset *model.Preset, opts ...utils.DBOption) error {
	return m.Called(ctx, preset).Error(0)
}

func (m *mockPresetRepo) Update(ctx context.Context, preset *model.Preset, opts ...utils.DBOption) error {
	return m.Called(ctx, preset).Error(0)
}

func (m *mockPresetRepo) Delete(ctx context.Context, id uint, opts ...utils.DBOption) error {
	return m.Called(ctx, id).Error(0)
}

type mockJobRepo struct{ mock.Mock }

func (m *mockJobRepo) FindJobsToSchedule(ctx context.Context, opts ...utils.DBOption) ([]model.TaskSchedule, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]model.TaskSchedule)
	return out, args.Error(1)
}

func (m *mockJobRepo) CreateTaskExecutionHistory(ctx context.Context, history *model.TaskExecutionHistory, opts ...utils.DBOption) error {
	return m.Called(ctx, history).Error(0)
}

func (m *mockJobRepo) UpdateTaskSchedule(ctx context.Context, schedule *model.TaskSchedule, opts ...utils.DBOption) error {
	return m.Called(ctx, schedule).Error(0)
}

func (m *mockJobRepo) FindByID(ctx context.Context, id uint) (*model.Job, error) {
	args := m.Called(ctx, id)
	job, _ := args.Get(0).(*model.Job)
	return job, args.Error(1)
}

func (m *mockJobRepo) UpdateTaskExecutionHistory(ctx context.Context, history *model.TaskExecutionHistory, opts ...utils.DBOption) error {
	return m.Called(ctx, history).Error(0)
}

func (m *mockJobRepo) Get(ctx context.Context, param *model.GetJobParam, opts ...utils.DBOption) ([]model.Job, error) {
	args := m.Called(ctx, param)
	out, _ := args.Get(0).([]model.Job)
	return out, args.Error(1)
}

func (m *mockJobRepo) DeleteTaskHistoryOlderThan(ctx context.Context, date time.Time, opts ...utils.DBOption) (int64, error) {
	args := m.Called(ctx, date)
	return int64(args.Int(0)), args.Error(1)
}

type mockStockService struct{ mock.Mock }

func (m *mockStockService) List(ctx context.Context, param dto.GetStocksParam) ([]dto.Stock, error) {
	args := m.Called(ctx, param)
	out, _ := args.Get(0).([]dto.Stock)
	return out, args.Error(1)
}

func (m *mockStockService) Get(ctx context.Context, symbol string) (*dto.Stock, error) {
	args := m.Called(ctx, symbol)
	out, _ := args.Get(0).(*dto.Stock)
	return out, args.Error(1)
}

func (m *mockStockService) Indicators(ctx context.Context, symbol string) ([]dto.Indicator, error) {
	args := m.Called(ctx, symbol)
	out, _ := args.Get(0).([]dto.Indicator)
	return out, args.Error(1)
}

func (m *mockStockService) History(ctx context.Context, symbol, period string) (*dto.PriceHistory, error) {
	args := m.Called(ctx, symbol, period)
	out, _ := args.Get(0).(*dto.PriceHistory)
	return out, args.Error(1)
}

func (m *mockStockService) Universe(ctx context.Context) ([]dto.Stock, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]dto.Stock)
	return out, args.Error(1)
}

func (m *mockStockService) SyncPrices(ctx context.Context, symbols []string, days int) (*dto.SyncReport, error) {
	args := m.Called(ctx, symbols, days)
	out, _ := args.Get(0).(*dto.SyncReport)
	return out, args.Error(1)
}

func (m *mockStockService) InvalidateCache(symbols ...string) {
	m.Called(symbols)
}

// inlineUnitOfWork runs fn without a transaction.
type inlineUnitOfWork struct{}

func (inlineUnitOfWork) Run(ctx context.Context, fn func(opts ...utils.DBOption) error) error {
	return fn()
}

func risingSeries(n int) dto.PriceSeries {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make(dto.PriceSeries, n)
	for i := range out {
		c := 100 + float64(i)
		out[i] = dto.PricePoint{
			Timestamp: start.AddDate(0, 0, i),
			Open:      c,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    1000,
		}
	}
	return out
}

func serviceConfig() *config.Config {
	return &config.Config{
		Cache:       config.Cache{DefaultExpiration: time.Minute, UniverseExpiration: time.Minute},
		PriceSource: config.PriceSource{Provider: config.PriceProviderSimulated, Range: 120, Interval: "1d"},
		Indicator:   config.Indicator{MaxConcurrency: 2, Timeout: 5 * time.Second},
		Scheduler:   config.Scheduler{MaxConcurrency: 1, TimeoutDuration: time.Minute},
		Screener:    config.Screener{Workers: 2},
	}
}
