package middleware

import (
	"github.com/deppfellow/bestsellers-api/internal/errs"
	"github.com/deppfellow/bestsellers-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// MessageRateLimited is sent when a client exceeds the inbound rate limit.
const MessageRateLimited = "Too many requests, please try again later."

// RateLimitMiddleware throttles clients per IP and records every rejection.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit returns Echo's rate limiter backed by an in-memory store, allowing
// Server.RateLimit requests per second per client IP. A limit of zero
// returns a pass-through middleware.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	limit := r.server.Config.Server.RateLimit
	if limit <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStore(rate.Limit(limit)),
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path())

			GetLogger(c).Warn().
				Str("identifier", identifier).
				Float64("limit", limit).
				Msg("rate limit exceeded")

			return errs.NewTooManyRequestsError(MessageRateLimited)
		},
	})
}

// RecordRateLimitHit sends a RateLimitHit custom event to New Relic, if enabled.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}
