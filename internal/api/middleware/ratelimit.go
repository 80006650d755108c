package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/forka/forum-backend/internal/api/metrics"
)

// AllowFunc is the fixed-window counter the rate limit middleware consults.
type AllowFunc func(ctx context.Context, scope, subject string, limit int64, window time.Duration) (bool, error)

// RateLimit enforces a fixed-window limit per client IP on a route group.
// When the limiter backend is unreachable the request is allowed through
// with a warning log; availability wins over throttling.
func RateLimit(allow AllowFunc, scope string, limit int64, window time.Duration, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := allow(c.Request().Context(), scope, c.RealIP(), limit, window)
			if err != nil {
				log.Warn().Err(err).Str("scope", scope).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			if !ok {
				metrics.RateLimitedTotal.WithLabelValues(scope).Inc()
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": "too many requests, slow down",
				})
			}
			return next(c)
		}
	}
}
