package handler

import (
	"net/http"

	"github.com/ayo6706/fx-converter/internal/domain"
	"github.com/ayo6706/fx-converter/internal/models"
)

type CurrencyHandler struct{}

func NewCurrencyHandler() *CurrencyHandler {
	return &CurrencyHandler{}
}

// List returns the supported currencies in catalog order.
func (h *CurrencyHandler) List(w http.ResponseWriter, r *http.Request) {
	currencies := domain.Currencies()
	out := make([]models.Currency, 0, len(currencies))
	for _, c := range currencies {
		out = append(out, models.NewCurrency(c))
	}
	RespondJSON(w, http.StatusOK, out)
}
