package middleware

import (
	"net/http"
	"stock-screener/config"
	"stock-screener/internal/dto"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// unlimitedPaths are probed by monitoring and never count against a client's budget.
var unlimitedPaths = map[string]bool{
	"/metrics": true,
	"/health":  true,
}

// NewRateLimiterMiddleware applies a token bucket per client IP to the API routes.
func NewRateLimiterMiddleware(cfg config.API) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(cfg.MaxRequestPerSec),
		Burst:     cfg.RateLimitBurst,
		ExpiresIn: cfg.RateLimitExpireIn,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return unlimitedPaths[c.Path()]
		},
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, dto.NewErrorResponse(http.StatusForbidden, "client could not be identified"))
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			c.Response().Header().Set("Retry-After", "1")
			return c.JSON(http.StatusTooManyRequests, dto.NewErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, retry later"))
		},
	})
}
