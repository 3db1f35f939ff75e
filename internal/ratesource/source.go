// Package ratesource loads exchange rate quotes from the places they are
// published: a file, a Postgres table or a Redis hash.
package ratesource

import (
	"context"
	"errors"

	"github.com/ayo6706/fx-converter/internal/domain"
)

// ErrSourceUnavailable wraps failures to reach the backing store.
var ErrSourceUnavailable = errors.New("rate source unavailable")

// Source reads the current list of quotes. Implementations never write.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]*domain.ExchangeRate, error)
}

// Static serves a fixed list of quotes.
type Static struct {
	rates []*domain.ExchangeRate
}

// NewStatic copies rates into a new Static source.
func NewStatic(rates ...*domain.ExchangeRate) *Static {
	return &Static{rates: append([]*domain.ExchangeRate(nil), rates...)}
}

func (s *Static) Name() string { return "static" }

func (s *Static) Load(ctx context.Context) ([]*domain.ExchangeRate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]*domain.ExchangeRate(nil), s.rates...), nil
}
