package middleware

import (
	"net/http"
	"time"

	pkghttp "github.com/BradenHooton/roster/pkg/http"
	"github.com/go-chi/httprate"
)

// RateLimitByIP caps requests per client IP per minute
func RateLimitByIP(requestsPerMinute int) func(next http.Handler) http.Handler {
	return httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyByRealIP(),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			pkghttp.WriteTooManyRequests(w, "Rate limit exceeded")
		}),
	)
}
