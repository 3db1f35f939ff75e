package converter

import (
	"errors"
	"sync"
	"testing"

	"github.com/ayo6706/fx-converter/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateable_EmptyFailsWithNotLoaded(t *testing.T) {
	u := NewUpdateable(nil)

	_, err := u.ConvertToPrice(money("1.00", "EUR"), domain.USD)
	assert.True(t, errors.Is(err, ErrNotLoaded))
	_, err = u.ConvertProportionally(money("1.00", "EUR"), domain.USD)
	assert.True(t, errors.Is(err, ErrNotLoaded))
	_, err = u.Convert(money("1.00", "EUR"), domain.USD, domain.ScaleForPrice, domain.RoundHalfEven)
	assert.True(t, errors.Is(err, ErrNotLoaded))
	_, err = u.ExchangeRate(domain.EUR, domain.USD)
	assert.True(t, errors.Is(err, ErrNotLoaded))
	assert.Nil(t, u.Current())
}

func TestUpdateable_SwapIsVisibleToLaterCalls(t *testing.T) {
	first := MustFrozenConverter([]*domain.ExchangeRate{quote("EUR", "1.10", "USD")})
	second := MustFrozenConverter([]*domain.ExchangeRate{quote("EUR", "1.20", "USD")})
	u := NewUpdateable(first)

	got, err := u.ConvertToPrice(money("100.00", "EUR"), domain.USD)
	require.NoError(t, err)
	assert.Equal(t, "110.00 USD", got.String())

	prev := u.Set(second)
	assert.Same(t, first, prev)
	assert.Same(t, second, u.Current())

	got, err = u.ConvertToPrice(money("100.00", "EUR"), domain.USD)
	require.NoError(t, err)
	assert.Equal(t, "120.00 USD", got.String())

	rate, err := u.ExchangeRate(domain.USD, domain.EUR)
	require.NoError(t, err)
	assertRate(t, "0.8333333333", rate)
}

func TestUpdateable_FirstSetReturnsNil(t *testing.T) {
	u := NewUpdateable(nil)
	assert.Nil(t, u.Set(MustFrozenConverter(nil)))
}

func TestUpdateable_SetNilPanics(t *testing.T) {
	u := NewUpdateable(MustFrozenConverter(nil))
	assert.Panics(t, func() { u.Set(nil) })
	assert.NotNil(t, u.Current())
}

func TestUpdateable_ConcurrentSwaps(t *testing.T) {
	low := MustFrozenConverter([]*domain.ExchangeRate{quote("EUR", "1.10", "USD")})
	high := MustFrozenConverter([]*domain.ExchangeRate{quote("EUR", "1.20", "USD")})
	u := NewUpdateable(low)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if i%2 == 0 {
				u.Set(high)
			} else {
				u.Set(low)
			}
		}
	}()

	errs := make(chan error, 8)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				got, err := u.ConvertToPrice(money("100.00", "EUR"), domain.USD)
				if err != nil {
					errs <- err
					return
				}
				if s := got.String(); s != "110.00 USD" && s != "120.00 USD" {
					errs <- errors.New("torn result " + s)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
