package domain

import (
	"fmt"
	"strings"
)

// ScalePolicy decides how many fractional digits a converted amount carries.
type ScalePolicy uint8

const (
	// ScaleForPrice fixes the result to the target currency's default scale,
	// as required on prices and invoices.
	ScaleForPrice ScalePolicy = iota
	// ScaleProportional keeps the relative precision of the input: the input
	// scale shifted by the difference between target and source default scales.
	ScaleProportional
)

var scalePolicyNames = [...]string{
	ScaleForPrice:     "price",
	ScaleProportional: "proportional",
}

// RequiredScale returns the scale a conversion of from into target must be rounded to.
func (p ScalePolicy) RequiredScale(from Money, target Currency) int32 {
	switch p {
	case ScaleProportional:
		return from.Scale() + target.DefaultScale() - from.Currency().DefaultScale()
	default:
		return target.DefaultScale()
	}
}

// ParseScalePolicy accepts "price" (alias "invoice") and "proportional".
func ParseScalePolicy(name string) (ScalePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "price", "invoice", "for_invoice", "to_price":
		return ScaleForPrice, nil
	case "proportional":
		return ScaleProportional, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownScalePolicy, name)
}

func (p ScalePolicy) String() string {
	if int(p) >= len(scalePolicyNames) {
		return fmt.Sprintf("ScalePolicy(%d)", uint8(p))
	}
	return scalePolicyNames[p]
}

func (p ScalePolicy) MarshalText() ([]byte, error) {
	if int(p) >= len(scalePolicyNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownScalePolicy, uint8(p))
	}
	return []byte(p.String()), nil
}

func (p *ScalePolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseScalePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
