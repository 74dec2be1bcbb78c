package repository

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"stock-screener/config"
	"stock-screener/internal/dto"
	"stock-screener/pkg/logger"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartBody = `{"chart":{"result":[{"meta":{"symbol":"BBCA.JK","regularMarketPrice":9550},
"timestamp":[1700000000,1700086400,1700172800],
"indicators":{"quote":[{"open":[9400,9450,null],"high":[9500,9600,null],"low":[9350,9400,null],
"close":[9450,9550,null],"volume":[1000,2000,0]}]}}],"error":null}}`

func newTestYahoo(t *testing.T, handler http.HandlerFunc) *yahooFinanceRepository {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{YahooFinance: config.YahooFinance{
		BaseURL:          srv.URL,
		Timeout:          time.Second,
		MaxRequestPerMin: 60000,
		MaxRetry:         2,
	}}
	repo := NewYahooFinanceRepository(cfg, logger.Nop()).(*yahooFinanceRepository)
	repo.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return repo
}

func TestYahooFinanceRepository_Get(t *testing.T) {
	var calls atomic.Int32
	repo := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v8/finance/chart/BBCA.JK", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chartBody))
	})

	got, err := repo.Get(context.Background(), dto.GetPriceHistoryParam{Symbol: "BBCA", Exchange: dto.ExchangeIDX, Days: 30, Interval: "1d"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "BBCA", got.Symbol)
	assert.Equal(t, 9550.0, got.MarketPrice)
	require.Len(t, got.Data, 2, "the null bar is dropped")
	assert.Equal(t, 9450.0, got.Data[0].Close)
	assert.True(t, got.Data[0].Timestamp.Before(got.Data[1].Timestamp))
}

func TestYahooFinanceRepository_RetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	repo := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chartBody))
	})

	_, err := repo.Get(context.Background(), dto.GetPriceHistoryParam{Symbol: "BBCA", Days: 30, Interval: "1d"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestYahooFinanceRepository_GivesUp(t *testing.T) {
	t.Run("client error is not retried", func(t *testing.T) {
		var calls atomic.Int32
		repo := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := repo.Get(context.Background(), dto.GetPriceHistoryParam{Symbol: "NOPE", Days: 30, Interval: "1d"})
		require.Error(t, err)
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("server error stops after max retries", func(t *testing.T) {
		var calls atomic.Int32
		repo := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := repo.Get(context.Background(), dto.GetPriceHistoryParam{Symbol: "BBCA", Days: 30, Interval: "1d"})
		require.Error(t, err)
		assert.Equal(t, int32(3), calls.Load())
	})
}

func TestParseChart_Empty(t *testing.T) {
	_, _, err := parseChart(&dto.YahooFinanceResponse{})
	assert.ErrorIs(t, err, ErrNoPriceData)
}

func TestYahooSymbol(t *testing.T) {
	assert.Equal(t, "TLKM.JK", yahooSymbol("TLKM", dto.ExchangeIDX))
	assert.Equal(t, "TLKM.JK", yahooSymbol("TLKM", ""))
	assert.Equal(t, "AAPL", yahooSymbol("AAPL", dto.ExchangeNASDAQ))
}
