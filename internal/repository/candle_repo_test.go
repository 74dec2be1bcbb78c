package repository

import (
	"context"
	"stock-screener/config"
	"stock-screener/internal/dto"
	"stock-screener/pkg/cache"
	"stock-screener/pkg/logger"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	mock.Mock
	name string
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Get(ctx context.Context, param dto.GetPriceHistoryParam) (*dto.PriceHistory, error) {
	args := m.Called(ctx, param)
	if h, ok := args.Get(0).(*dto.PriceHistory); ok {
		return h, args.Error(1)
	}
	return nil, args.Error(1)
}

func testConfig(provider string) *config.Config {
	return &config.Config{
		PriceSource: config.PriceSource{Provider: provider, Range: 120, Interval: "1d"},
		Cache:       config.Cache{DefaultExpiration: time.Minute},
	}
}

func TestNewCandleRepository_UnknownProvider(t *testing.T) {
	_, err := NewCandleRepository(testConfig("bloomberg"), logger.Nop(), cache.NewCache(time.Minute, time.Minute), &mockProvider{name: "yahoo"})
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestCandleRepository_Get(t *testing.T) {
	yahoo := &mockProvider{name: config.PriceProviderYahoo}
	sim := &mockProvider{name: config.PriceProviderSimulated}
	repo, err := NewCandleRepository(testConfig(config.PriceProviderSimulated), logger.Nop(), cache.NewCache(time.Minute, time.Minute), yahoo, sim)
	require.NoError(t, err)
	assert.Equal(t, config.PriceProviderSimulated, repo.Provider())

	want := &dto.PriceHistory{Symbol: "BBCA", Data: dto.PriceSeries{{Close: 1}}}
	sim.On("Get", mock.Anything, dto.GetPriceHistoryParam{Symbol: "BBCA", Days: 120, Interval: "1d"}).Return(want, nil).Once()

	got, err := repo.Get(context.Background(), dto.GetPriceHistoryParam{Symbol: "bbca"})
	require.NoError(t, err)
	assert.Same(t, want, got)

	// second call is served from cache
	got, err = repo.Get(context.Background(), dto.GetPriceHistoryParam{Symbol: "BBCA", Days: 120, Interval: "1d"})
	require.NoError(t, err)
	assert.Same(t, want, got)

	sim.AssertExpectations(t)
	yahoo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestCandleRepository_ErrorsAreNotCached(t *testing.T) {
	sim := &mockProvider{name: config.PriceProviderSimulated}
	repo, err := NewCandleRepository(testConfig(config.PriceProviderSimulated), logger.Nop(), cache.NewCache(time.Minute, time.Minute), sim)
	require.NoError(t, err)

	param := dto.GetPriceHistoryParam{Symbol: "X", Days: 10, Interval: "1d"}
	sim.On("Get", mock.Anything, param).Return(nil, ErrNoPriceData).Once()
	sim.On("Get", mock.Anything, param).Return(&dto.PriceHistory{Symbol: "X"}, nil).Once()

	_, err = repo.Get(context.Background(), param)
	assert.ErrorIs(t, err, ErrNoPriceData)
	got, err := repo.Get(context.Background(), param)
	require.NoError(t, err)
	assert.Equal(t, "X", got.Symbol)
}

func TestSimulatedPriceRepository(t *testing.T) {
	fixed := time.Date(2024, 6, 14, 10, 0, 0, 0, time.UTC) // a Friday
	repo := &simulatedPriceRepository{now: func() time.Time { return fixed }}

	param := dto.GetPriceHistoryParam{Symbol: "BBCA", Days: 90, Interval: "1d"}
	a, err := repo.Get(context.Background(), param)
	require.NoError(t, err)
	b, err := repo.Get(context.Background(), param)
	require.NoError(t, err)
	assert.Equal(t, a, b, "same symbol and day give the same walk")

	other, err := repo.Get(context.Background(), dto.GetPriceHistoryParam{Symbol: "TLKM", Days: 90, Interval: "1d"})
	require.NoError(t, err)
	assert.NotEqual(t, a.Data[0].Close, other.Data[0].Close)

	assert.GreaterOrEqual(t, len(a.Data), 60)
	for i, p := range a.Data {
		assert.NotEqual(t, time.Saturday, p.Timestamp.Weekday())
		assert.NotEqual(t, time.Sunday, p.Timestamp.Weekday())
		assert.LessOrEqual(t, p.Low, p.Open)
		assert.LessOrEqual(t, p.Low, p.Close)
		assert.GreaterOrEqual(t, p.High, p.Open)
		assert.GreaterOrEqual(t, p.High, p.Close)
		if i > 0 {
			assert.True(t, a.Data[i-1].Timestamp.Before(p.Timestamp))
		}
	}
	last, _ := a.Data.Last()
	assert.Equal(t, last.Close, a.MarketPrice)
}
