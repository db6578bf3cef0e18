package ratelimit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/invoiceworks/backend-invoicing/internal/common"
)

// Config holds the per-client thresholds.
type Config struct {
	Window time.Duration
	Max    int
}

// Handler enforces rate limits before delegating to the next handler. A
// Redis failure fails open so the limiter never takes the API down with it.
type Handler struct {
	Limiter Limiter
	Config  Config
	Log     zerolog.Logger
}

// Middleware implements the chi middleware signature.
func (h Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Config.Max <= 0 || h.Config.Window <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		key := common.ClientIP(r)
		allowed, remaining, resetAt, err := h.Limiter.Allow(r.Context(), key, h.Config.Window, h.Config.Max)
		if err != nil {
			h.Log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable, failing open")
			next.ServeHTTP(w, r)
			return
		}

		headers := w.Header()
		headers.Set("X-RateLimit-Limit", strconv.Itoa(h.Config.Max))
		headers.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		headers.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if !allowed {
			retryAfter := int(time.Until(resetAt).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}
			headers.Set("Retry-After", strconv.Itoa(retryAfter))
			common.JSONError(w, http.StatusTooManyRequests, "rate_limited", "Too many requests", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}
