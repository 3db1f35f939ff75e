// Package converter resolves exchange rates over a graph of quotes and
// converts Money between currencies.
package converter

import (
	"errors"

	"github.com/ayo6706/fx-converter/internal/domain"
)

var (
	// ErrConflictingRates is returned at construction when one ordered
	// currency pair is quoted with two different rates.
	ErrConflictingRates = errors.New("conflicting rates")
	// ErrUnresolvablePair is returned when no direct quote and no path of at
	// most MaxHops quotes connects two currencies.
	ErrUnresolvablePair = errors.New("unresolvable currency pair")
	// ErrNotLoaded is returned by an Updateable that has no converter yet.
	ErrNotLoaded = errors.New("no converter loaded")
)

// Converter converts monetary amounts between currencies.
// Implementations must be safe for concurrent use.
type Converter interface {
	// ConvertToPrice converts into the target's price scale using the
	// target's default rounding.
	ConvertToPrice(from domain.Money, to domain.Currency) (domain.Money, error)
	// ConvertProportionally keeps the relative precision of from, using the
	// target's default rounding.
	ConvertProportionally(from domain.Money, to domain.Currency) (domain.Money, error)
	Convert(from domain.Money, to domain.Currency, policy domain.ScalePolicy, mode domain.RoundingMode) (domain.Money, error)
	ExchangeRate(from, to domain.Currency) (*domain.ExchangeRate, error)
}
