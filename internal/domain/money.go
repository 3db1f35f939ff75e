package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents an exact decimal amount in a specific currency.
// The amount keeps whatever scale it was created with; nothing is rounded implicitly.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money instance.
func NewMoney(amount decimal.Decimal, currency Currency) Money {
	return Money{amount: amount, currency: currency}
}

// ParseMoney builds Money from a decimal literal such as "100.00" and an ISO code.
func ParseMoney(amount, currency string) (Money, error) {
	c, err := ParseCurrency(currency)
	if err != nil {
		return Money{}, err
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	return NewMoney(d, c), nil
}

// MustParseMoney is like ParseMoney but panics on malformed input.
// It simplifies fixtures and test tables.
func MustParseMoney(amount, currency string) Money {
	m, err := ParseMoney(amount, currency)
	if err != nil {
		panic(fmt.Sprintf("ParseMoney(%q, %q) failed: %v", amount, currency, err))
	}
	return m
}

func (m Money) Amount() decimal.Decimal { return m.amount }

func (m Money) Currency() Currency { return m.currency }

// Scale returns the number of fractional digits of the amount.
func (m Money) Scale() int32 { return ScaleOf(m.amount) }

// Equal compares by value: 1.0 EUR equals 1.00 EUR.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// Compare orders two amounts of the same currency.
// Comparing across currencies is a caller error, never an implicit conversion.
func (m Money) Compare(other Money) (int, error) {
	if m.currency != other.currency {
		return 0, fmt.Errorf("%w: can't compare monetary values with different currencies %s and %s",
			ErrCurrencyMismatch, m.currency, other.currency)
	}
	return m.amount.Cmp(other.amount), nil
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

// WithScale re-scales the amount, keeping the currency.
func (m Money) WithScale(scale int32, mode RoundingMode) Money {
	return Money{amount: SetScale(m.amount, scale, mode), currency: m.currency}
}

// String returns the representation of the money, e.g. "110.00 USD".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", formatAmount(m.amount), m.currency)
}

type moneyJSON struct {
	Amount   string   `json:"amount"`
	Currency Currency `json:"currency"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: formatAmount(m.amount), Currency: m.currency})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var raw struct {
		Amount   json.RawMessage `json:"amount"`
		Currency *Currency       `json:"currency"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Amount) == 0 {
		return fmt.Errorf("%w: missing amount", ErrInvalidAmount)
	}
	if raw.Currency == nil {
		return fmt.Errorf("%w: missing currency", ErrUnknownCurrency)
	}
	// Accept both "99.99" and 99.99.
	var literal string
	if err := json.Unmarshal(raw.Amount, &literal); err != nil {
		literal = string(raw.Amount)
	}
	d, err := decimal.NewFromString(literal)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, raw.Amount)
	}
	*m = NewMoney(d, *raw.Currency)
	return nil
}

// formatAmount keeps trailing zeros so 100.00 does not collapse to 100.
// Negative scales are written in exponent form, 5E+2 rather than 500.
func formatAmount(d decimal.Decimal) string {
	switch scale := ScaleOf(d); {
	case scale > 0:
		return d.StringFixed(scale)
	case scale < 0:
		return fmt.Sprintf("%sE+%d", d.Coefficient().String(), -scale)
	}
	return d.String()
}
