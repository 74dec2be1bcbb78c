// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stock_screener"

var (
	// Labels: method, route (echo path template), status
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	screenRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "screener",
		Name:      "runs_total",
		Help:      "Screen runs by source of the universe",
	}, []string{"source"})

	screenDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "screener",
		Name:      "duration_seconds",
		Help:      "Time spent filtering a universe",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})

	screenMatched = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "screener",
		Name:      "matched_ratio",
		Help:      "Share of the universe that passed the criteria",
		Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
	})

	malformedCriteria = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "screener",
		Name:      "malformed_criteria_total",
		Help:      "Enabled criteria that could not be evaluated as written",
	})

	// Labels: status (ok, error, insufficient_history)
	indicatorRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "indicator",
		Name:      "refresh_total",
		Help:      "Per-stock indicator refreshes by outcome",
	}, []string{"status"})

	// Labels: provider, status (ok, error, retry)
	priceFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "price",
		Name:      "fetch_total",
		Help:      "Price history fetches by provider and outcome",
	}, []string{"provider", "status"})

	// Labels: job_type, exit_code
	jobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "job_runs_total",
		Help:      "Scheduled job executions by exit code",
	}, []string{"job_type", "exit_code"})
)

func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	httpRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func ObserveScreen(source string, universe, matched int, elapsed time.Duration) {
	screenRuns.WithLabelValues(source).Inc()
	screenDuration.Observe(elapsed.Seconds())
	if universe > 0 {
		screenMatched.Observe(float64(matched) / float64(universe))
	}
}

func AddMalformedCriteria(n int) {
	malformedCriteria.Add(float64(n))
}

func IncIndicatorRefresh(status string) {
	indicatorRefreshes.WithLabelValues(status).Inc()
}

func IncPriceFetch(provider, status string) {
	priceFetches.WithLabelValues(provider, status).Inc()
}

func IncJobRun(jobType string, exitCode int) {
	jobRuns.WithLabelValues(jobType, strconv.Itoa(exitCode)).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
