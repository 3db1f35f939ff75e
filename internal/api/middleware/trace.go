package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	TraceHeader   = "X-Trace-ID"
	maxTraceIDLen = 128
)

// TraceMiddleware ensures each request has a trace identifier propagated via
// context and the response header. Oversized client ids are replaced.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceHeader)
		if traceID == "" || len(traceID) > maxTraceIDLen {
			traceID = uuid.NewString()
			r.Header.Set(TraceHeader, traceID)
		}
		w.Header().Set(TraceHeader, traceID)
		next.ServeHTTP(w, r.WithContext(contextWithTraceID(r.Context(), traceID)))
	})
}

func contextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceContextKey, traceID)
}
