package converter

import (
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/ayo6706/fx-converter/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quote(baseCurrency, quoteAmount, quoteCurrency string) *domain.ExchangeRate {
	return domain.MustExchangeRate(
		domain.MustParseMoney("1", baseCurrency),
		domain.MustParseMoney(quoteAmount, quoteCurrency),
	)
}

func money(amount, currency string) domain.Money {
	return domain.MustParseMoney(amount, currency)
}

func assertRate(t *testing.T, want string, rate *domain.ExchangeRate) {
	t.Helper()
	got := rate.RateValue().Amount()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "want rate %s, got %s", want, got)
}

func assertMoney(t *testing.T, want domain.Money, got domain.Money) {
	t.Helper()
	assert.True(t, want.Equal(got), "want %s, got %s", want, got)
}

// eurBased mirrors a typical reference-currency feed.
func eurBased() []*domain.ExchangeRate {
	return []*domain.ExchangeRate{
		quote("EUR", "400", "HUF"),
		quote("EUR", "0.84", "GBP"),
		quote("EUR", "1.09", "USD"),
		quote("EUR", "1.95583", "DEM"),
	}
}

func TestConvertToPrice_DirectQuote(t *testing.T) {
	c := MustFrozenConverter([]*domain.ExchangeRate{quote("EUR", "1.10", "USD")})

	got, err := c.ConvertToPrice(money("100.00", "EUR"), domain.USD)
	require.NoError(t, err)
	assert.Equal(t, "110.00 USD", got.String())
}

func TestExchangeRate_TwoHopSynthetic(t *testing.T) {
	c := MustFrozenConverter([]*domain.ExchangeRate{
		quote("EUR", "1.10", "USD"),
		quote("USD", "0.80", "GBP"),
	})

	rate, err := c.ExchangeRate(domain.EUR, domain.GBP)
	require.NoError(t, err)
	assert.Equal(t, domain.EUR, rate.BaseCurrency())
	assert.Equal(t, domain.GBP, rate.QuoteCurrency())
	assertRate(t, "0.88", rate)
}

func fourHopChain() []*domain.ExchangeRate {
	return []*domain.ExchangeRate{
		quote("EUR", "4.5", "PLN"),
		quote("PLN", "5.5", "CZK"),
		quote("CZK", "7.0", "HUF"),
		quote("HUF", "0.0025", "USD"),
	}
}

func TestExchangeRate_HopBound(t *testing.T) {
	c := MustFrozenConverter(append(fourHopChain(), quote("USD", "17.5", "MXN")))

	rate, err := c.ExchangeRate(domain.EUR, domain.USD)
	require.NoError(t, err)
	assertRate(t, "0.433125", rate)

	_, err = c.ExchangeRate(domain.EUR, domain.MXN)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnresolvablePair))

	// The reverse direction obeys the same bound.
	back, err := c.ExchangeRate(domain.USD, domain.EUR)
	require.NoError(t, err)
	assert.Equal(t, domain.USD, back.BaseCurrency())
	_, err = c.ExchangeRate(domain.MXN, domain.EUR)
	assert.True(t, errors.Is(err, ErrUnresolvablePair))
}

func TestExchangeRate_LongerChains(t *testing.T) {
	c := MustFrozenConverter([]*domain.ExchangeRate{
		quote("USD", "0.90", "EUR"),
		quote("EUR", "0.85", "GBP"),
		quote("GBP", "1.10", "CHF"),
		quote("CHF", "11.0", "SEK"),
	})

	threeHops, err := c.ExchangeRate(domain.USD, domain.CHF)
	require.NoError(t, err)
	assertRate(t, "0.8415", threeHops)

	fourHops, err := c.ExchangeRate(domain.USD, domain.SEK)
	require.NoError(t, err)
	assertRate(t, "9.2565", fourHops)
}

func TestConvert_HufScaleAndRounding(t *testing.T) {
	c := MustFrozenConverter([]*domain.ExchangeRate{quote("EUR", "400", "HUF")})

	price, err := c.ConvertToPrice(money("1.010101", "EUR"), domain.HUF)
	require.NoError(t, err)
	assert.Equal(t, "405 HUF", price.String())

	proportional, err := c.ConvertProportionally(money("1.010101", "EUR"), domain.HUF)
	require.NoError(t, err)
	assert.Equal(t, "404.0404 HUF", proportional.String())
}

func TestExchangeRate_DisconnectedClusters(t *testing.T) {
	c := MustFrozenConverter([]*domain.ExchangeRate{
		quote("EUR", "1.10", "USD"),
		quote("GBP", "1.15", "CHF"),
	})

	_, err := c.ExchangeRate(domain.EUR, domain.GBP)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnresolvablePair))
	assert.Contains(t, err.Error(), "EUR")
	assert.Contains(t, err.Error(), "GBP")

	_, err = c.ConvertToPrice(money("1.00", "CHF"), domain.USD)
	assert.True(t, errors.Is(err, ErrUnresolvablePair))
}

func TestExchangeRate_UnknownCurrency(t *testing.T) {
	c := MustFrozenConverter(eurBased())

	_, err := c.ConvertToPrice(money("1", "EUR"), domain.BRL)
	assert.True(t, errors.Is(err, ErrUnresolvablePair))

	_, err = c.ExchangeRate(domain.EUR, domain.Currency(99))
	assert.True(t, errors.Is(err, domain.ErrUnknownCurrency))
}

func TestExchangeRate_DirectPrecedence(t *testing.T) {
	c := MustFrozenConverter([]*domain.ExchangeRate{
		quote("USD", "0.77", "GBP"),
		quote("USD", "0.92", "EUR"),
		quote("EUR", "0.84", "GBP"),
	})

	rate, err := c.ExchangeRate(domain.USD, domain.GBP)
	require.NoError(t, err)
	assertRate(t, "0.77", rate)
}

func TestExchangeRate_DirectInverseBeatsSynthetic(t *testing.T) {
	c := MustFrozenConverter([]*domain.ExchangeRate{
		quote("GBP", "1.30", "USD"),
		quote("USD", "0.92", "EUR"),
		quote("EUR", "0.84", "GBP"),
	})

	rate, err := c.ExchangeRate(domain.USD, domain.GBP)
	require.NoError(t, err)
	assertRate(t, "0.7692307692", rate)
}

func TestExchangeRate_ShortestPathWins(t *testing.T) {
	c := MustFrozenConverter([]*domain.ExchangeRate{
		quote("USD", "0.77", "GBP"),
		quote("GBP", "1.20", "CHF"),
		quote("CHF", "10.5", "SEK"),
		quote("USD", "0.90", "EUR"),
		quote("EUR", "11.0", "SEK"),
	})

	rate, err := c.ExchangeRate(domain.USD, domain.SEK)
	require.NoError(t, err)
	assertRate(t, "9.9", rate)
}

func TestExchangeRate_TieBrokenByCatalogOrder(t *testing.T) {
	// Two 2-hop paths EUR->USD->SEK and EUR->GBP->SEK; USD precedes GBP.
	rates := []*domain.ExchangeRate{
		quote("EUR", "0.84", "GBP"),
		quote("GBP", "13.0", "SEK"),
		quote("EUR", "1.10", "USD"),
		quote("USD", "10.0", "SEK"),
	}
	c := MustFrozenConverter(rates)

	rate, err := c.ExchangeRate(domain.EUR, domain.SEK)
	require.NoError(t, err)
	assertRate(t, "11", rate)
}

func TestExchangeRate_DeterministicAcrossIngestionOrder(t *testing.T) {
	rates := []*domain.ExchangeRate{
		quote("EUR", "0.84", "GBP"),
		quote("GBP", "13.0", "SEK"),
		quote("EUR", "1.10", "USD"),
		quote("USD", "10.0", "SEK"),
		quote("SEK", "0.63", "DKK"),
		quote("CHF", "0.95", "EUR"),
		quote("PLN", "0.23", "EUR"),
	}
	reference := MustFrozenConverter(rates)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]*domain.ExchangeRate(nil), rates...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		c := MustFrozenConverter(shuffled)

		for _, from := range domain.Currencies() {
			for _, to := range domain.Currencies() {
				want, wantErr := reference.ExchangeRate(from, to)
				got, gotErr := c.ExchangeRate(from, to)
				if wantErr != nil {
					assert.Error(t, gotErr)
					continue
				}
				require.NoError(t, gotErr)
				assert.Equal(t, want.RateValue().Amount().String(), got.RateValue().Amount().String(), "%s->%s", from, to)
				assert.True(t, want.Equal(got), "%s->%s", from, to)
			}
		}
	}
}

func TestExchangeRate_Identity(t *testing.T) {
	c := MustFrozenConverter([]*domain.ExchangeRate{quote("USD", "0.92", "EUR")})

	for _, cur := range []domain.Currency{domain.USD, domain.BRL} {
		rate, err := c.ExchangeRate(cur, cur)
		require.NoError(t, err)
		assert.Equal(t, cur, rate.BaseCurrency())
		assert.Equal(t, cur, rate.QuoteCurrency())
		assertRate(t, "1", rate)
	}
}

func TestConvert_IdentityKeepsInput(t *testing.T) {
	c := MustFrozenConverter(nil)

	for _, cur := range domain.Currencies() {
		in := domain.NewMoney(decimal.RequireFromString("12.3456"), cur)
		got, err := c.ConvertProportionally(in, cur)
		require.NoError(t, err)
		assert.Equal(t, in.String(), got.String())
	}
}

func TestConvert_SameCurrencyRescales(t *testing.T) {
	c := MustFrozenConverter(eurBased())

	price, err := c.ConvertToPrice(money("1.0101", "USD"), domain.USD)
	require.NoError(t, err)
	assert.Equal(t, "1.01 USD", price.String())

	proportional, err := c.ConvertProportionally(money("1.0101", "USD"), domain.USD)
	require.NoError(t, err)
	assert.Equal(t, "1.0101 USD", proportional.String())
}

func TestConvert_EurBasedFeed(t *testing.T) {
	c := MustFrozenConverter(eurBased())

	cases := []struct {
		name   string
		from   domain.Money
		to     domain.Currency
		policy domain.ScalePolicy
		want   string
	}{
		{name: "HUF to EUR price", from: money("1000", "HUF"), to: domain.EUR, policy: domain.ScaleForPrice, want: "2.50 EUR"},
		{name: "high precision EUR to HUF", from: money("1.0000", "EUR"), to: domain.HUF, policy: domain.ScaleProportional, want: "400.00 HUF"},
		{name: "EUR to USD price", from: money("1.00", "EUR"), to: domain.USD, policy: domain.ScaleForPrice, want: "1.09 USD"},
		{name: "USD to EUR price", from: money("1.00", "USD"), to: domain.EUR, policy: domain.ScaleForPrice, want: "0.92 EUR"},
		{name: "GBP to USD price", from: money("3.12345", "GBP"), to: domain.USD, policy: domain.ScaleForPrice, want: "4.05 USD"},
		{name: "GBP to USD proportional", from: money("3.12345", "GBP"), to: domain.USD, policy: domain.ScaleProportional, want: "4.05305 USD"},
		{name: "GBP to USD unit", from: money("1.00", "GBP"), to: domain.USD, policy: domain.ScaleForPrice, want: "1.30 USD"},
		{name: "USD to GBP unit", from: money("1.00", "USD"), to: domain.GBP, policy: domain.ScaleForPrice, want: "0.77 GBP"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.Convert(tc.from, tc.to, tc.policy, tc.to.RoundingMode())
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestConvert_ExplicitRoundingMode(t *testing.T) {
	c := MustFrozenConverter(eurBased())

	up, err := c.Convert(money("1", "EUR"), domain.DEM, domain.ScaleProportional, domain.RoundUp)
	require.NoError(t, err)
	assertMoney(t, money("2", "DEM"), up)

	down, err := c.Convert(money("1", "EUR"), domain.DEM, domain.ScaleProportional, domain.RoundDown)
	require.NoError(t, err)
	assertMoney(t, money("1", "DEM"), down)
}

func TestExchangeRate_EurBasedCrossRates(t *testing.T) {
	c := MustFrozenConverter(eurBased())

	cases := []struct {
		from, to domain.Currency
		want     string
	}{
		{from: domain.EUR, to: domain.HUF, want: "400"},
		{from: domain.HUF, to: domain.EUR, want: "0.0025"},
		{from: domain.GBP, to: domain.EUR, want: "1.1904761905"},
		{from: domain.USD, to: domain.EUR, want: "0.9174311927"},
		{from: domain.GBP, to: domain.USD, want: "1.2976190476"},
		{from: domain.USD, to: domain.GBP, want: "0.7706422019"},
	}

	for _, tc := range cases {
		rate, err := c.ExchangeRate(tc.from, tc.to)
		require.NoError(t, err)
		assertRate(t, tc.want, rate)
	}
}

func TestNewFrozenConverter_ConflictingRates(t *testing.T) {
	_, err := NewFrozenConverter([]*domain.ExchangeRate{
		quote("EUR", "400", "HUF"),
		quote("EUR", "500", "HUF"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflictingRates))
}

func TestNewFrozenConverter_RepeatedRatesAreIgnored(t *testing.T) {
	c, err := NewFrozenConverter([]*domain.ExchangeRate{
		quote("EUR", "1", "EUR"),
		quote("EUR", "400", "HUF"),
		quote("EUR", "400.00", "HUF"),
		domain.MustExchangeRate(money("2", "EUR"), money("800", "HUF")),
	})
	require.NoError(t, err)
	assert.Len(t, c.Quotes(), 1)

	rate, err := c.ExchangeRate(domain.EUR, domain.HUF)
	require.NoError(t, err)
	assertRate(t, "400", rate)
}

func TestNewFrozenConverter_SelfQuoteMustBeOne(t *testing.T) {
	_, err := NewFrozenConverter([]*domain.ExchangeRate{quote("GBP", "1.5", "GBP")})
	assert.True(t, errors.Is(err, ErrConflictingRates))
}

func TestNewFrozenConverter_NilQuote(t *testing.T) {
	_, err := NewFrozenConverter([]*domain.ExchangeRate{nil})
	assert.True(t, errors.Is(err, domain.ErrInvalidRate))
}

func TestNewFrozenConverter_ExplicitReverseQuoteKept(t *testing.T) {
	c := MustFrozenConverter([]*domain.ExchangeRate{
		quote("USD", "0.92", "EUR"),
		quote("EUR", "1.09", "USD"),
	})

	usdEur, err := c.ExchangeRate(domain.USD, domain.EUR)
	require.NoError(t, err)
	assertRate(t, "0.92", usdEur)

	eurUsd, err := c.ExchangeRate(domain.EUR, domain.USD)
	require.NoError(t, err)
	assertRate(t, "1.09", eurUsd)
}

func TestQuotes_SortedByPair(t *testing.T) {
	c := MustFrozenConverter([]*domain.ExchangeRate{
		quote("USD", "0.80", "GBP"),
		quote("EUR", "400", "HUF"),
		quote("EUR", "1.10", "USD"),
	})

	quotes := c.Quotes()
	require.Len(t, quotes, 3)
	assert.Equal(t, domain.EUR, quotes[0].BaseCurrency())
	assert.Equal(t, domain.USD, quotes[0].QuoteCurrency())
	assert.Equal(t, domain.HUF, quotes[1].QuoteCurrency())
	assert.Equal(t, domain.USD, quotes[2].BaseCurrency())
}

func TestExchangeRate_CachesResolvedRates(t *testing.T) {
	var (
		mu    sync.Mutex
		kinds []Resolution
	)
	c := MustFrozenConverter([]*domain.ExchangeRate{
		quote("EUR", "1.10", "USD"),
		quote("USD", "0.80", "GBP"),
	}, WithResolutionHook(func(_, _ domain.Currency, kind Resolution) {
		mu.Lock()
		defer mu.Unlock()
		kinds = append(kinds, kind)
	}))

	first, err := c.ExchangeRate(domain.EUR, domain.GBP)
	require.NoError(t, err)
	second, err := c.ExchangeRate(domain.EUR, domain.GBP)
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = c.ExchangeRate(domain.EUR, domain.USD)
	require.NoError(t, err)
	_, err = c.ExchangeRate(domain.CHF, domain.CHF)
	require.NoError(t, err)
	_, err = c.ExchangeRate(domain.EUR, domain.BRL)
	require.Error(t, err)

	assert.Equal(t, []Resolution{
		ResolutionSynthetic,
		ResolutionCached,
		ResolutionDirect,
		ResolutionIdentity,
		ResolutionUnresolvable,
	}, kinds)
}

func TestExchangeRate_ConcurrentReaders(t *testing.T) {
	c := MustFrozenConverter(append(fourHopChain(), quote("EUR", "0.84", "GBP")))

	const workers = 32
	results := make([]*domain.ExchangeRate, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rate, err := c.ExchangeRate(domain.GBP, domain.HUF)
			if err == nil {
				results[i] = rate
			}
			_, _ = c.ConvertToPrice(money("10.00", "GBP"), domain.HUF)
		}(i)
	}
	wg.Wait()

	for _, rate := range results {
		require.NotNil(t, rate)
		assert.Same(t, results[0], rate)
	}
}
