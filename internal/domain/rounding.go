package domain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// RoundingMode selects how discarded digits are treated when an amount is re-scaled.
type RoundingMode uint8

const (
	RoundUp       RoundingMode = iota // away from zero
	RoundDown                         // towards zero
	RoundCeiling                      // towards positive infinity
	RoundFloor                        // towards negative infinity
	RoundHalfUp                       // nearest, ties away from zero
	RoundHalfDown                     // nearest, ties towards zero
	RoundHalfEven                     // nearest, ties to the even neighbour
)

var roundingModeNames = [...]string{
	RoundUp:       "UP",
	RoundDown:     "DOWN",
	RoundCeiling:  "CEILING",
	RoundFloor:    "FLOOR",
	RoundHalfUp:   "HALF_UP",
	RoundHalfDown: "HALF_DOWN",
	RoundHalfEven: "HALF_EVEN",
}

// RoundingModes lists every supported mode.
func RoundingModes() []RoundingMode {
	out := make([]RoundingMode, len(roundingModeNames))
	for i := range out {
		out[i] = RoundingMode(i)
	}
	return out
}

// ParseRoundingMode accepts names such as "HALF_EVEN" or "half-even".
func ParseRoundingMode(name string) (RoundingMode, error) {
	name = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
	for i, n := range roundingModeNames {
		if n == name {
			return RoundingMode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRoundingMode, name)
}

func (m RoundingMode) String() string {
	if int(m) >= len(roundingModeNames) {
		return fmt.Sprintf("RoundingMode(%d)", uint8(m))
	}
	return roundingModeNames[m]
}

func (m RoundingMode) MarshalText() ([]byte, error) {
	if int(m) >= len(roundingModeNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRoundingMode, uint8(m))
	}
	return []byte(m.String()), nil
}

func (m *RoundingMode) UnmarshalText(text []byte) error {
	parsed, err := ParseRoundingMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// SetScale rounds d to exactly scale fractional digits using mode.
// A negative scale rounds to a power of ten left of the decimal point.
func SetScale(d decimal.Decimal, scale int32, mode RoundingMode) decimal.Decimal {
	rounded := mode.round(d, scale)
	// Pad so the exponent is always -scale, e.g. 400 at scale 2 becomes 400.00.
	return decimal.New(0, -scale).Add(rounded)
}

func (m RoundingMode) round(d decimal.Decimal, places int32) decimal.Decimal {
	switch m {
	case RoundUp:
		return d.RoundUp(places)
	case RoundDown:
		return d.RoundDown(places)
	case RoundCeiling:
		return d.RoundCeil(places)
	case RoundFloor:
		return d.RoundFloor(places)
	case RoundHalfUp:
		return d.Round(places)
	case RoundHalfDown:
		return roundHalfDown(d, places)
	default:
		return d.RoundBank(places)
	}
}

func roundHalfDown(d decimal.Decimal, places int32) decimal.Decimal {
	down := d.RoundDown(places)
	half := decimal.New(5, -places-1)
	if d.Sub(down).Abs().GreaterThan(half) {
		return d.RoundUp(places)
	}
	return down
}

// ScaleOf returns the number of fractional digits d carries.
// Values such as 4E+2 report a negative scale.
func ScaleOf(d decimal.Decimal) int32 {
	return -d.Exponent()
}

// divideHalfEven divides n by q to the given number of fractional digits, ties to even.
func divideHalfEven(n, q decimal.Decimal, scale int32) decimal.Decimal {
	quo, rem := n.QuoRem(q, scale)
	if rem.IsZero() {
		return quo
	}
	unit := decimal.New(1, -scale)
	cmp := rem.Abs().Mul(decimal.NewFromInt(2)).Cmp(q.Abs().Mul(unit))
	if cmp > 0 || (cmp == 0 && isOddMultiple(quo, scale)) {
		if n.Sign()*q.Sign() < 0 {
			return quo.Sub(unit)
		}
		return quo.Add(unit)
	}
	return quo
}

func isOddMultiple(d decimal.Decimal, scale int32) bool {
	units := d.Mul(decimal.New(1, scale)).BigInt()
	return new(big.Int).Abs(units).Bit(0) == 1
}

// stripTrailingZeros returns the shortest representation of d.
func stripTrailingZeros(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.Zero
	}
	coef := d.Coefficient()
	exp := d.Exponent()
	ten := big.NewInt(10)
	quo, rem := new(big.Int), new(big.Int)
	for {
		quo.QuoRem(coef, ten, rem)
		if rem.Sign() != 0 {
			break
		}
		coef, quo = quo, coef
		exp++
	}
	return decimal.NewFromBigInt(coef, exp)
}
