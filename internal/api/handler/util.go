package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ayo6706/fx-converter/internal/api/problem"
	"github.com/ayo6706/fx-converter/internal/converter"
	"github.com/ayo6706/fx-converter/internal/domain"
	"github.com/ayo6706/fx-converter/internal/ratesource"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 16

// RespondJSON writes a JSON response.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// RespondError writes an error response.
func RespondError(w http.ResponseWriter, r *http.Request, status int, problemType, message string) {
	if problemType != "" && problemType != "about:blank" && !strings.HasPrefix(problemType, "http") {
		problemType = problem.Type(problemType)
	}
	problem.Write(w, r, status, problemType, http.StatusText(status), message)
}

// decodeJSON reads a single JSON document, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid request body: trailing data")
	}
	return nil
}

// mapError translates core and source errors into problem details.
func mapError(err error) (status int, problemType, message string) {
	switch {
	case errors.Is(err, domain.ErrUnknownCurrency):
		return http.StatusBadRequest, "fx/unknown-currency", err.Error()
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, "fx/invalid-amount", err.Error()
	case errors.Is(err, domain.ErrUnknownScalePolicy):
		return http.StatusBadRequest, "fx/unknown-scale-policy", err.Error()
	case errors.Is(err, domain.ErrUnknownRoundingMode):
		return http.StatusBadRequest, "fx/unknown-rounding-mode", err.Error()
	case errors.Is(err, converter.ErrUnresolvablePair):
		return http.StatusUnprocessableEntity, "fx/unresolvable-pair", err.Error()
	case errors.Is(err, converter.ErrConflictingRates):
		return http.StatusConflict, "fx/conflicting-rates", err.Error()
	case errors.Is(err, domain.ErrInvalidRate):
		return http.StatusBadGateway, "fx/invalid-rate", err.Error()
	case errors.Is(err, ratesource.ErrSourceUnavailable):
		return http.StatusBadGateway, "fx/rate-source-unavailable", "rate source unavailable"
	case errors.Is(err, converter.ErrNotLoaded):
		return http.StatusServiceUnavailable, "fx/rates-not-loaded", "exchange rates are not loaded yet"
	default:
		return http.StatusInternalServerError, "internal-server-error", "unexpected server error"
	}
}

func respondMappedError(w http.ResponseWriter, r *http.Request, err error) {
	status, problemType, message := mapError(err)
	if status >= http.StatusInternalServerError {
		zap.L().Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	RespondError(w, r, status, problemType, message)
}
