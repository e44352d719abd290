package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/issuedesk/issuedesk/internal/api/metrics"
)

// Limiter is the per-source request budget check (Redis fixed window).
type Limiter interface {
	Allow(ctx context.Context, source string) (bool, error)
}

// RateLimit rejects requests with 429 once a source IP exhausts its window
// budget. A limiter backend failure fails open: availability wins over
// strictness for a support service.
func RateLimit(limiter Limiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := limiter.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				log.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			if !ok {
				metrics.RateLimitedTotal.Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests, please try again later")
			}
			return next(c)
		}
	}
}
