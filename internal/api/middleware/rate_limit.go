package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ayo6706/fx-converter/internal/api/problem"
	"github.com/go-chi/httprate"
)

// PublicRateLimiter limits requests per IP for the conversion endpoints.
func PublicRateLimiter(rps int) func(http.Handler) http.Handler {
	return httprate.Limit(rps, time.Second,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(limitExceeded(fmt.Sprintf("Rate limit of %d req/s exceeded for this IP", rps))),
	)
}

// AdminRateLimiter limits authenticated admin calls per token subject.
// It must run after the authenticator.
func AdminRateLimiter(rps int) func(http.Handler) http.Handler {
	return httprate.Limit(rps, time.Second,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			if subject := SubjectFromContext(r.Context()); subject != "" {
				return "subject:" + subject, nil
			}
			return httprate.KeyByIP(r)
		}),
		httprate.WithLimitHandler(limitExceeded(fmt.Sprintf("Rate limit of %d req/s exceeded for this caller", rps))),
	)
}

func limitExceeded(detail string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		problem.Write(w, r, http.StatusTooManyRequests, problem.Type("rate-limit-exceeded"), "", detail)
	}
}
