package converter

import (
	"sync/atomic"

	"github.com/ayo6706/fx-converter/internal/domain"
)

// Updateable delegates to a Converter that can be replaced at runtime.
// A swap is visible to every call that starts after it; calls already in
// flight finish on the converter they read. Nothing ever blocks.
type Updateable struct {
	current atomic.Pointer[delegate]
}

type delegate struct {
	Converter
}

// NewUpdateable wraps initial. A nil initial converter leaves the wrapper
// empty until Set is called; until then every call fails with ErrNotLoaded.
func NewUpdateable(initial Converter) *Updateable {
	u := &Updateable{}
	if initial != nil {
		u.Set(initial)
	}
	return u
}

// Set atomically replaces the active converter and returns the previous one.
// It panics if next is nil.
func (u *Updateable) Set(next Converter) Converter {
	if next == nil {
		panic("converter: Updateable.Set called with nil Converter")
	}
	prev := u.current.Swap(&delegate{Converter: next})
	if prev == nil {
		return nil
	}
	return prev.Converter
}

// Current returns the active converter, or nil if none has been set.
func (u *Updateable) Current() Converter {
	d := u.current.Load()
	if d == nil {
		return nil
	}
	return d.Converter
}

func (u *Updateable) load() (Converter, error) {
	c := u.Current()
	if c == nil {
		return nil, ErrNotLoaded
	}
	return c, nil
}

func (u *Updateable) ConvertToPrice(from domain.Money, to domain.Currency) (domain.Money, error) {
	c, err := u.load()
	if err != nil {
		return domain.Money{}, err
	}
	return c.ConvertToPrice(from, to)
}

func (u *Updateable) ConvertProportionally(from domain.Money, to domain.Currency) (domain.Money, error) {
	c, err := u.load()
	if err != nil {
		return domain.Money{}, err
	}
	return c.ConvertProportionally(from, to)
}

func (u *Updateable) Convert(from domain.Money, to domain.Currency, policy domain.ScalePolicy, mode domain.RoundingMode) (domain.Money, error) {
	c, err := u.load()
	if err != nil {
		return domain.Money{}, err
	}
	return c.Convert(from, to, policy, mode)
}

func (u *Updateable) ExchangeRate(from, to domain.Currency) (*domain.ExchangeRate, error) {
	c, err := u.load()
	if err != nil {
		return nil, err
	}
	return c.ExchangeRate(from, to)
}
