package handler

import (
	"context"
	"net/http"
	"time"
)

// Check probes one dependency for readiness.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthHandler exposes Kubernetes-style liveness and readiness endpoints.
type HealthHandler struct {
	loaded func() bool
	checks []Check
}

// NewHealthHandler reports ready once loaded returns true and every check passes.
func NewHealthHandler(loaded func() bool, checks ...Check) *HealthHandler {
	return &HealthHandler{loaded: loaded, checks: checks}
}

// Live always reports OK – if the process is up, it's live.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready checks that rates are loaded and the rate source backends answer.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.loaded != nil && !h.loaded() {
		RespondError(w, r, http.StatusServiceUnavailable, "health/rates-not-loaded", "exchange rates are not loaded yet")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	for _, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			RespondError(w, r, http.StatusServiceUnavailable, "health/dependency-unavailable", check.Name+" unavailable")
			return
		}
	}

	RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
