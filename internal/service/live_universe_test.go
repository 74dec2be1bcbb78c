package service

import (
	"context"
	"stock-screener/internal/dto"
	"stock-screener/internal/indicator"
	"stock-screener/internal/repository"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLiveUniverse(t *testing.T) {
	candles := &mockCandleRepo{provider: "simulated"}
	candles.On("Get", mock.Anything, dto.GetPriceHistoryParam{Symbol: "AAA"}).Return(&dto.PriceHistory{Data: risingSeries(60)}, nil)
	candles.On("Get", mock.Anything, dto.GetPriceHistoryParam{Symbol: "BBB"}).Return(nil, repository.ErrNoPriceData)
	candles.On("Get", mock.Anything, dto.GetPriceHistoryParam{Symbol: "CCC"}).Return(&dto.PriceHistory{Data: risingSeries(2)}, nil)

	stocks := []dto.Stock{{Symbol: "AAA", Name: "Alpha"}, {Symbol: "BBB"}, {Symbol: "CCC"}}
	calc := indicator.NewCalculator(indicator.DefaultParams(), nil)

	got, failed := LiveUniverse(context.Background(), candles, calc, stocks, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "AAA", got[0].Symbol)
	assert.Equal(t, "Alpha", got[0].Name)
	assert.Equal(t, 159.0, got[0].Price)
	assert.Len(t, got[0].Indicators, len(dto.IndicatorTypes()))
	assert.Equal(t, "CCC", got[1].Symbol)
	assert.Empty(t, got[1].Indicators)

	require.Len(t, failed, 1)
	assert.ErrorIs(t, failed["BBB"], repository.ErrNoPriceData)
}
