package models

import (
	"encoding/json"
	"time"

	"github.com/ayo6706/fx-converter/internal/domain"
)

type Currency struct {
	Code         string `json:"code"`
	DefaultScale int32  `json:"default_scale"`
	RoundingMode string `json:"rounding_mode"`
}

// Rate carries a quote in its serialized form plus the derived rate value.
type Rate struct {
	BaseValue  domain.Money `json:"baseValue"`
	QuoteValue domain.Money `json:"quoteValue"`
	Rate       string       `json:"rate"`
}

type RatesSnapshot struct {
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
	Quotes   []Rate    `json:"quotes"`
}

// ConversionRequest accepts the amount as a JSON string or number.
type ConversionRequest struct {
	Amount   json.Number `json:"amount"`
	Currency string      `json:"currency"`
	Target   string      `json:"target"`
	Policy   *string     `json:"policy,omitempty"`
	Rounding *string     `json:"rounding,omitempty"`
}

type ConversionResponse struct {
	Source   domain.Money `json:"source"`
	Result   domain.Money `json:"result"`
	Rate     Rate         `json:"rate"`
	Policy   string       `json:"policy"`
	Rounding string       `json:"rounding"`
}

type ReloadResponse struct {
	Source   string    `json:"source"`
	Quotes   int       `json:"quotes"`
	LoadedAt time.Time `json:"loaded_at"`
}

func NewCurrency(c domain.Currency) Currency {
	return Currency{
		Code:         c.Code(),
		DefaultScale: c.DefaultScale(),
		RoundingMode: c.RoundingMode().String(),
	}
}

func NewRate(r *domain.ExchangeRate) Rate {
	return Rate{
		BaseValue:  r.BaseValue(),
		QuoteValue: r.QuoteValue(),
		Rate:       r.RateValue().Amount().String(),
	}
}
