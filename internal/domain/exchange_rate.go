package domain

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

const (
	// DivisionScale is the number of fractional digits kept when a rate is derived.
	DivisionScale int32 = 10
)

// ExchangeRate is a directed quote: BaseValue in one currency is worth
// QuoteValue in another. The base is conventionally one unit.
// It is immutable and safe for concurrent use.
type ExchangeRate struct {
	base  Money
	quote Money

	rateOnce sync.Once
	rate     Money
}

// NewExchangeRate validates and builds a quote. Both amounts must be positive.
func NewExchangeRate(base, quote Money) (*ExchangeRate, error) {
	if !base.currency.Valid() || !quote.currency.Valid() {
		return nil, fmt.Errorf("%w: unsupported currency in %s -> %s", ErrInvalidRate, base, quote)
	}
	if !base.IsPositive() || !quote.IsPositive() {
		return nil, fmt.Errorf("%w: amounts must be positive, got %s -> %s", ErrInvalidRate, base, quote)
	}
	return newExchangeRate(base, quote), nil
}

// MustExchangeRate is like NewExchangeRate but panics if the rate is invalid.
func MustExchangeRate(base, quote Money) *ExchangeRate {
	r, err := NewExchangeRate(base, quote)
	if err != nil {
		panic(err)
	}
	return r
}

func newExchangeRate(base, quote Money) *ExchangeRate {
	return &ExchangeRate{base: base, quote: quote}
}

// Identity returns the 1:1 rate of a currency with itself.
func Identity(c Currency) *ExchangeRate {
	one := NewMoney(decimal.NewFromInt(1), c)
	return newExchangeRate(one, one)
}

func (r *ExchangeRate) BaseValue() Money { return r.base }

func (r *ExchangeRate) QuoteValue() Money { return r.quote }

func (r *ExchangeRate) BaseCurrency() Currency { return r.base.currency }

func (r *ExchangeRate) QuoteCurrency() Currency { return r.quote.currency }

// RateValue is the amount of quote currency one unit of base currency buys.
// It is derived on first use and cached.
func (r *ExchangeRate) RateValue() Money {
	r.rateOnce.Do(func() {
		value := divideHalfEven(r.quote.amount, r.base.amount, DivisionScale)
		r.rate = NewMoney(stripTrailingZeros(value), r.quote.currency)
	})
	return r.rate
}

// Invert swaps base and quote.
func (r *ExchangeRate) Invert() *ExchangeRate {
	return newExchangeRate(r.quote, r.base)
}

// Compose chains r with next, yielding a rate from r's base to next's quote.
// The result is normalised to one unit of r's base currency.
func (r *ExchangeRate) Compose(next *ExchangeRate) (*ExchangeRate, error) {
	if r.QuoteCurrency() != next.BaseCurrency() {
		return nil, fmt.Errorf("%w: quote currency %s does not match base currency %s",
			ErrCompositionMismatch, r.QuoteCurrency(), next.BaseCurrency())
	}
	composed := r.RateValue().amount.Mul(next.RateValue().amount)
	return newExchangeRate(
		NewMoney(decimal.NewFromInt(1), r.BaseCurrency()),
		NewMoney(composed, next.QuoteCurrency()),
	), nil
}

// Convert applies the rate to from and rounds the result to the scale
// required by policy. It does not check that from is in the base currency.
func (r *ExchangeRate) Convert(from Money, policy ScalePolicy, mode RoundingMode) Money {
	rate := r.RateValue()
	scale := policy.RequiredScale(from, rate.currency)
	converted := from.amount.Mul(rate.amount)
	return NewMoney(SetScale(converted, scale, mode), rate.currency)
}

// Equal reports whether both rates carry equal base and quote values.
func (r *ExchangeRate) Equal(other *ExchangeRate) bool {
	if r == other {
		return true
	}
	if r == nil || other == nil {
		return false
	}
	return r.base.Equal(other.base) && r.quote.Equal(other.quote)
}

func (r *ExchangeRate) String() string {
	return fmt.Sprintf("ExchangeRate [1 %s -> %s %s]", r.BaseCurrency(), r.RateValue().amount, r.QuoteCurrency())
}

type exchangeRateJSON struct {
	BaseValue  Money `json:"baseValue"`
	QuoteValue Money `json:"quoteValue"`
}

// MarshalJSON writes only the quote itself; derived values are recomputed on read.
func (r *ExchangeRate) MarshalJSON() ([]byte, error) {
	return json.Marshal(exchangeRateJSON{BaseValue: r.base, QuoteValue: r.quote})
}

func (r *ExchangeRate) UnmarshalJSON(data []byte) error {
	var raw exchangeRateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewExchangeRate(raw.BaseValue, raw.QuoteValue)
	if err != nil {
		return err
	}
	*r = ExchangeRate{base: parsed.base, quote: parsed.quote}
	return nil
}
