package middleware

import (
	"net/http"
	"strconv"
	"time"

	"pharmpal/internal/caching"
	"pharmpal/internal/common"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// RateLimiter caps how often a user may call the expensive collaborator
// backed routes. Counters live in Redis so the limit holds across replicas.
type RateLimiter struct {
	cache  caching.CacheService
	limit  int
	window time.Duration
}

func NewRateLimiter(cache caching.CacheService, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{cache: cache, limit: limit, window: window}
}

// Limit counts requests per user under scope. It must run after the
// authenticator. A limit of zero disables it, and cache failures let the
// request through.
func (r *RateLimiter) Limit(scope string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if r.cache == nil || r.limit <= 0 {
				return next(c)
			}
			ctx := c.Request().Context()
			userID, ok := common.GetUserIDFromContext(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}

			limited, err := r.cache.IsRateLimited(ctx, scope+":"+userID.String(), r.limit, r.window)
			if err != nil {
				log.Warnf("rate limit check failed for %s: %v", scope, err)
				return next(c)
			}
			if limited {
				c.Response().Header().Set("Retry-After", retryAfter(r.window))
				return echo.NewHTTPError(http.StatusTooManyRequests, common.RateLimited().Message)
			}
			return next(c)
		}
	}
}

func retryAfter(window time.Duration) string {
	return strconv.Itoa(int(window.Seconds()))
}
