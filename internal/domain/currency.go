package domain

import (
	"fmt"
	"strings"
)

// Currency is one of the supported ISO 4217 currencies.
// The declaration order is the catalog order; path search relies on it.
type Currency uint8

const (
	EUR Currency = iota // Euro
	USD                 // US Dollar
	GBP                 // Pound Sterling
	PLN                 // Polish Zloty
	CZK                 // Czech Koruna
	CHF                 // Swiss Franc
	DKK                 // Danish Krone
	HRK                 // Croatian Kuna
	SEK                 // Swedish Krona
	BGN                 // Bulgarian Lev
	HUF                 // Hungarian Forint
	LVL                 // Latvian Lats
	LTL                 // Lithuanian Litas
	RON                 // Romanian Leu
	TRY                 // Turkish Lira
	DEM                 // Deutsche Mark
	CNY                 // Chinese Yuan
	INR                 // Indian Rupee
	BRL                 // Brazilian Real
	MXN                 // Mexican Peso

	// NumCurrencies is the size of the catalog.
	NumCurrencies = int(MXN) + 1
)

var currencyCodes = [NumCurrencies]string{
	"EUR", "USD", "GBP", "PLN", "CZK", "CHF", "DKK", "HRK", "SEK", "BGN",
	"HUF", "LVL", "LTL", "RON", "TRY", "DEM", "CNY", "INR", "BRL", "MXN",
}

// Currencies returns the catalog in its canonical order.
func Currencies() []Currency {
	out := make([]Currency, NumCurrencies)
	for i := range out {
		out[i] = Currency(i)
	}
	return out
}

// ParseCurrency resolves an ISO code to a supported Currency.
func ParseCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for i, c := range currencyCodes {
		if c == code {
			return Currency(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
}

// Valid reports whether c belongs to the catalog.
func (c Currency) Valid() bool {
	return int(c) < NumCurrencies
}

// Code returns the ISO 4217 code.
func (c Currency) Code() string {
	if !c.Valid() {
		return fmt.Sprintf("Currency(%d)", uint8(c))
	}
	return currencyCodes[c]
}

func (c Currency) String() string {
	return c.Code()
}

// DefaultScale is the number of minor-unit digits used for prices.
// The forint is priced without subdivision.
func (c Currency) DefaultScale() int32 {
	if c == HUF {
		return 0
	}
	return 2
}

// RoundingMode is the rounding applied by default when converting into c.
func (c Currency) RoundingMode() RoundingMode {
	if c == HUF {
		return RoundUp
	}
	return RoundHalfEven
}

func (c Currency) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCurrency, uint8(c))
	}
	return []byte(c.Code()), nil
}

func (c *Currency) UnmarshalText(text []byte) error {
	parsed, err := ParseCurrency(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
