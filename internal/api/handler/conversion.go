package handler

import (
	"fmt"
	"net/http"

	"github.com/ayo6706/fx-converter/internal/converter"
	"github.com/ayo6706/fx-converter/internal/domain"
	"github.com/ayo6706/fx-converter/internal/models"
	"github.com/ayo6706/fx-converter/internal/observability"
	"github.com/ayo6706/fx-converter/internal/service"
)

type ConversionHandler struct {
	svc *service.RateService
}

func NewConversionHandler(svc *service.RateService) *ConversionHandler {
	return &ConversionHandler{svc: svc}
}

type conversion struct {
	from     domain.Money
	to       domain.Currency
	policy   domain.ScalePolicy
	rounding domain.RoundingMode
}

// Convert converts an amount into the target currency. The policy defaults
// to price and the rounding mode to the target currency's default.
func (h *ConversionHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var req models.ConversionRequest
	if err := decodeJSON(r, &req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", err.Error())
		return
	}

	c, err := parseConversion(req)
	if err != nil {
		observability.IncrementConversion("invalid", "rejected")
		respondMappedError(w, r, err)
		return
	}

	result, rate, err := c.apply(h.svc.Pin())
	if err != nil {
		observability.IncrementConversion(c.policy.String(), "failed")
		respondMappedError(w, r, err)
		return
	}

	observability.IncrementConversion(c.policy.String(), "success")
	RespondJSON(w, http.StatusOK, models.ConversionResponse{
		Source:   c.from,
		Result:   result,
		Rate:     models.NewRate(rate),
		Policy:   c.policy.String(),
		Rounding: c.rounding.String(),
	})
}

// apply resolves the rate once and converts with it. Same-currency requests
// skip the lookup and only re-scale.
func (c conversion) apply(conv converter.Converter) (domain.Money, *domain.ExchangeRate, error) {
	if c.from.Currency() == c.to {
		result, err := conv.Convert(c.from, c.to, c.policy, c.rounding)
		if err != nil {
			return domain.Money{}, nil, err
		}
		return result, domain.Identity(c.to), nil
	}
	rate, err := conv.ExchangeRate(c.from.Currency(), c.to)
	if err != nil {
		return domain.Money{}, nil, err
	}
	return rate.Convert(c.from, c.policy, c.rounding), rate, nil
}

func parseConversion(req models.ConversionRequest) (conversion, error) {
	if req.Amount == "" {
		return conversion{}, fmt.Errorf("%w: amount is required", domain.ErrInvalidAmount)
	}
	from, err := domain.ParseMoney(req.Amount.String(), req.Currency)
	if err != nil {
		return conversion{}, err
	}
	to, err := domain.ParseCurrency(req.Target)
	if err != nil {
		return conversion{}, err
	}

	c := conversion{from: from, to: to, policy: domain.ScaleForPrice, rounding: to.RoundingMode()}
	if req.Policy != nil {
		if c.policy, err = domain.ParseScalePolicy(*req.Policy); err != nil {
			return conversion{}, err
		}
	}
	if req.Rounding != nil {
		if c.rounding, err = domain.ParseRoundingMode(*req.Rounding); err != nil {
			return conversion{}, err
		}
	}
	return c, nil
}
