package handler

import (
	"net/http"

	"github.com/ayo6706/fx-converter/internal/domain"
	"github.com/ayo6706/fx-converter/internal/models"
	"github.com/ayo6706/fx-converter/internal/service"
	"github.com/go-chi/chi/v5"
)

type RatesHandler struct {
	svc *service.RateService
}

func NewRatesHandler(svc *service.RateService) *RatesHandler {
	return &RatesHandler{svc: svc}
}

// List returns the active snapshot with the quotes as ingested.
func (h *RatesHandler) List(w http.ResponseWriter, r *http.Request) {
	snap := h.svc.Snapshot()
	if snap == nil {
		RespondError(w, r, http.StatusServiceUnavailable, "fx/rates-not-loaded", "exchange rates are not loaded yet")
		return
	}
	quotes := make([]models.Rate, 0, len(snap.Quotes))
	for _, q := range snap.Quotes {
		quotes = append(quotes, models.NewRate(q))
	}
	RespondJSON(w, http.StatusOK, models.RatesSnapshot{
		Source:   snap.Source,
		LoadedAt: snap.LoadedAt,
		Quotes:   quotes,
	})
}

// Get resolves the rate between two currencies, composing quotes if needed.
func (h *RatesHandler) Get(w http.ResponseWriter, r *http.Request) {
	from, err := domain.ParseCurrency(chi.URLParam(r, "from"))
	if err != nil {
		respondMappedError(w, r, err)
		return
	}
	to, err := domain.ParseCurrency(chi.URLParam(r, "to"))
	if err != nil {
		respondMappedError(w, r, err)
		return
	}

	rate, err := h.svc.Converter().ExchangeRate(from, to)
	if err != nil {
		respondMappedError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, models.NewRate(rate))
}
