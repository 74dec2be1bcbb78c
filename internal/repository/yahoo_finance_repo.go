package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"stock-screener/config"
	"stock-screener/internal/dto"
	"stock-screener/pkg/httpclient"
	"stock-screener/pkg/logger"
	"stock-screener/pkg/metrics"
	"stock-screener/pkg/utils"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

const yahooChartPath = "/v8/finance/chart/"

// StatusError is returned when the upstream answers with a non-2xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("yahoo finance api returned status %d (%s)", e.StatusCode, http.StatusText(e.StatusCode))
}

type yahooFinanceRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	newBackOff     func() backoff.BackOff
}

// NewYahooFinanceRepository creates a price provider backed by the Yahoo Finance chart API.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) PriceHistoryProvider {
	perMinute := cfg.YahooFinance.MaxRequestPerMin
	if perMinute <= 0 {
		perMinute = 60
	}
	requestLimiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)

	return &yahooFinanceRepository{
		httpClient:     httpclient.New(cfg.YahooFinance.BaseURL, cfg.YahooFinance.Timeout),
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxElapsedTime = 30 * time.Second
			return b
		},
	}
}

func (r *yahooFinanceRepository) Name() string {
	return config.PriceProviderYahoo
}

// yahooSymbol maps an exchange-local code to Yahoo's ticker (IDX codes carry a .JK suffix).
func yahooSymbol(symbol, exchange string) string {
	if exchange == "" || exchange == dto.ExchangeIDX {
		return symbol + ".JK"
	}
	return symbol
}

func (r *yahooFinanceRepository) Get(ctx context.Context, param dto.GetPriceHistoryParam) (*dto.PriceHistory, error) {
	ticker := yahooSymbol(param.Symbol, param.Exchange)
	now := utils.TimeNowWIB()
	queryParams := map[string]string{
		"period1":        strconv.FormatInt(now.AddDate(0, 0, -param.Days).Unix(), 10),
		"period2":        strconv.FormatInt(now.Unix(), 10),
		"interval":       param.Interval,
		"includePrePost": "false",
		"events":         "div,split",
	}
	headers := map[string]string{
		"Accept-Language": "en-US,en;q=0.9",
		"Referer":         "https://finance.yahoo.com/",
	}

	var yahooResp dto.YahooFinanceResponse
	attempt := 0
	operation := func() error {
		attempt++
		if err := r.requestLimiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		yahooResp = dto.YahooFinanceResponse{}
		resp, err := r.httpClient.Get(ctx, yahooChartPath+ticker, queryParams, headers, &yahooResp)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			metrics.IncPriceFetch(r.Name(), "retry")
			return err
		}
		if !resp.IsSuccess() {
			statusErr := &StatusError{StatusCode: resp.StatusCode}
			if resp.IsRetryable() {
				metrics.IncPriceFetch(r.Name(), "retry")
				r.logger.WarnContext(ctx, "Yahoo Finance request failed, retrying",
					logger.StringField("symbol", ticker),
					logger.IntField("status_code", resp.StatusCode),
					logger.IntField("attempt", attempt),
				)
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), r.cfg.YahooFinance.MaxRetry), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		r.logger.ErrorContext(ctx, "Failed to fetch data from yahoo finance",
			logger.ErrorField(err),
			logger.StringField("symbol", ticker),
			logger.IntField("attempts", attempt),
		)
		return nil, fmt.Errorf("failed to fetch data from yahoo finance for %s: %w", ticker, err)
	}

	series, marketPrice, err := parseChart(&yahooResp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ticker, err)
	}

	return &dto.PriceHistory{
		Symbol:      param.Symbol,
		MarketPrice: marketPrice,
		Data:        series,
	}, nil
}

// parseChart converts a chart response into an ascending series. Bars with a missing field
// (Yahoo sends null, decoded as 0) are dropped.
func parseChart(resp *dto.YahooFinanceResponse) (dto.PriceSeries, float64, error) {
	if resp.Chart.Error != nil {
		return nil, 0, fmt.Errorf("yahoo finance api error: %v", resp.Chart.Error)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, 0, ErrNoPriceData
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, 0, errors.Join(ErrNoPriceData, errors.New("no quote block"))
	}
	quote := result.Indicators.Quote[0]
	loc := utils.GetWibTimeLocation()

	series := make(dto.PriceSeries, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) ||
			i >= len(quote.Close) || i >= len(quote.Volume) {
			continue
		}
		if quote.Open[i] == 0 || quote.High[i] == 0 || quote.Low[i] == 0 || quote.Close[i] == 0 {
			continue
		}
		series = append(series, dto.PricePoint{
			Timestamp: time.Unix(ts, 0).In(loc),
			Open:      quote.Open[i],
			High:      quote.High[i],
			Low:       quote.Low[i],
			Close:     quote.Close[i],
			Volume:    quote.Volume[i],
		})
	}
	if len(series) == 0 {
		return nil, 0, ErrNoPriceData
	}

	marketPrice := result.Meta.RegularMarketPrice
	if marketPrice <= 0 {
		last, _ := series.Last()
		marketPrice = last.Close
	}
	return series, marketPrice, nil
}
