package service

import (
	"context"
	"errors"
	"stock-screener/internal/dto"
	"stock-screener/internal/indicator"
	"stock-screener/internal/model"
	"stock-screener/internal/repository"
	"stock-screener/pkg/logger"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type indicatorFixture struct {
	stockRepo     *mockStockRepo
	indicatorRepo *mockIndicatorRepo
	candleRepo    *mockCandleRepo
	stockService  *mockStockService
	svc           IndicatorService
}

func newIndicatorFixture() *indicatorFixture {
	f := &indicatorFixture{
		stockRepo:     &mockStockRepo{},
		indicatorRepo: &mockIndicatorRepo{},
		candleRepo:    &mockCandleRepo{provider: "simulated"},
		stockService:  &mockStockService{},
	}
	calc := indicator.NewCalculator(indicator.DefaultParams(), nil)
	f.svc = NewIndicatorService(serviceConfig(), logger.Nop(), calc, f.stockRepo, f.indicatorRepo, f.candleRepo, inlineUnitOfWork{}, f.stockService)
	return f
}

func TestIndicatorService_Refresh(t *testing.T) {
	f := newIndicatorFixture()
	stock := &model.Stock{ID: 7, Symbol: "BBCA", Exchange: dto.ExchangeIDX}

	f.stockRepo.On("FindBySymbol", mock.Anything, "BBCA", false).Return(stock, nil)
	f.candleRepo.On("Get", mock.Anything, dto.GetPriceHistoryParam{Symbol: "BBCA", Exchange: dto.ExchangeIDX, Days: 120}).
		Return(&dto.PriceHistory{Symbol: "BBCA", Data: risingSeries(60)}, nil)
	f.indicatorRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(rows []model.Indicator) bool {
		for _, r := range rows {
			if r.StockID != 7 {
				return false
			}
		}
		return len(rows) == len(dto.IndicatorTypes())
	})).Return(nil)
	f.indicatorRepo.On("DeleteByStockIDExcept", mock.Anything, uint(7), mock.Anything).Return(0, nil)
	f.stockService.On("InvalidateCache", []string{"BBCA"}).Return()

	got, err := f.svc.Refresh(context.Background(), "BBCA")
	require.NoError(t, err)
	require.Len(t, got, len(dto.IndicatorTypes()))
	assert.Equal(t, dto.IndicatorRSI, got[0].Type)

	f.indicatorRepo.AssertExpectations(t)
	f.stockService.AssertExpectations(t)
}

func TestIndicatorService_Refresh_UnknownStock(t *testing.T) {
	f := newIndicatorFixture()
	f.stockRepo.On("FindBySymbol", mock.Anything, "NOPE", false).Return(nil, repository.ErrStockNotFound)

	_, err := f.svc.Refresh(context.Background(), "NOPE")
	assert.ErrorIs(t, err, repository.ErrStockNotFound)
	f.candleRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestIndicatorService_Refresh_StoreFailure(t *testing.T) {
	f := newIndicatorFixture()
	f.stockRepo.On("FindBySymbol", mock.Anything, "BBCA", false).Return(&model.Stock{ID: 1, Symbol: "BBCA"}, nil)
	f.candleRepo.On("Get", mock.Anything, mock.Anything).Return(&dto.PriceHistory{Data: risingSeries(30)}, nil)
	f.indicatorRepo.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := f.svc.Refresh(context.Background(), "BBCA")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	f.stockService.AssertNotCalled(t, "InvalidateCache", mock.Anything)
}

func TestIndicatorService_RefreshAll(t *testing.T) {
	f := newIndicatorFixture()
	stocks := []model.Stock{
		{ID: 1, Symbol: "AAAA"},
		{ID: 2, Symbol: "BBBB"},
		{ID: 3, Symbol: "CCCC"},
	}
	f.stockRepo.On("Get", mock.Anything, model.GetStockParam{Symbols: []string{}, OnlyActive: true}).Return(stocks, nil)
	f.candleRepo.On("Get", mock.Anything, mock.MatchedBy(func(p dto.GetPriceHistoryParam) bool { return p.Symbol == "AAAA" })).
		Return(&dto.PriceHistory{Data: risingSeries(60)}, nil)
	f.candleRepo.On("Get", mock.Anything, mock.MatchedBy(func(p dto.GetPriceHistoryParam) bool { return p.Symbol == "BBBB" })).
		Return(&dto.PriceHistory{Data: risingSeries(15)}, nil)
	f.candleRepo.On("Get", mock.Anything, mock.MatchedBy(func(p dto.GetPriceHistoryParam) bool { return p.Symbol == "CCCC" })).
		Return(nil, repository.ErrNoPriceData)
	f.indicatorRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	f.indicatorRepo.On("DeleteByStockIDExcept", mock.Anything, mock.Anything, mock.Anything).Return(0, nil)
	f.stockService.On("InvalidateCache", mock.Anything).Return()

	report, err := f.svc.RefreshAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Refreshed)
	assert.Equal(t, []string{"BBBB"}, report.Partial)
	require.Contains(t, report.Failed, "CCCC")
	assert.Contains(t, report.Failed["CCCC"], repository.ErrNoPriceData.Error())
}

func TestIndicatorService_Compute(t *testing.T) {
	f := newIndicatorFixture()
	got := f.svc.Compute(9, risingSeries(15))
	require.Len(t, got, 2)
	assert.Equal(t, dto.IndicatorRSI, got[0].Type)
	assert.Equal(t, dto.IndicatorATR14, got[1].Type)
	assert.Equal(t, uint(9), got[0].StockID)
}
