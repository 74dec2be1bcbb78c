package middleware

import (
	"stock-screener/pkg/logger"
	"stock-screener/pkg/metrics"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const HeaderRequestID = echo.HeaderXRequestID

// NewRequestContextMiddleware tags every request with an id (taken from X-Request-ID or newly
// generated), echoes it back, and stores a logger carrying it in the request context.
func NewRequestContextMiddleware(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(HeaderRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(HeaderRequestID, id)

			ctx := log.WithRequestID(req.Context(), id)
			c.SetRequest(req.WithContext(ctx))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			log.DebugContext(ctx, "Request served",
				logger.StringField("method", req.Method),
				logger.StringField("path", c.Path()),
				logger.IntField("status", status),
				logger.DurationField("elapsed", time.Since(start)),
			)
			return nil
		}
	}
}

// NewMetricsMiddleware records request latency per route template.
func NewMetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			metrics.ObserveHTTPRequest(c.Request().Method, c.Path(), status, time.Since(start))
			return err
		}
	}
}
