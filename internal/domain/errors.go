package domain

import "errors"

var (
	ErrUnknownCurrency     = errors.New("unknown currency")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidRate         = errors.New("invalid exchange rate")
	ErrCurrencyMismatch    = errors.New("currency mismatch")
	ErrCompositionMismatch = errors.New("cannot compose exchange rates")
	ErrUnknownScalePolicy  = errors.New("unknown scale policy")
	ErrUnknownRoundingMode = errors.New("unknown rounding mode")
)
