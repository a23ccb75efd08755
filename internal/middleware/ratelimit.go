package middleware

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/GregMSThompson/lithic-dashboard/pkg/logger"
)

type rateLimitMiddleware struct {
	limiter *rate.Limiter
}

// NewRateLimitMiddleware admits rps requests per second across all callers.
// A non-positive rps disables the limit.
func NewRateLimitMiddleware(rps float64) *rateLimitMiddleware {
	if rps <= 0 {
		return &rateLimitMiddleware{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	return &rateLimitMiddleware{limiter: rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))}
}

func (m *rateLimitMiddleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.limiter.Allow() {
			logger.FromContext(r.Context()).Warn("rate limit exceeded", "path", r.URL.Path)
			w.Header().Set("Retry-After", "1")
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
