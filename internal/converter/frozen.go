package converter

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/ayo6706/fx-converter/internal/domain"
)

// MaxHops bounds the number of quotes a synthetic rate may be composed of.
const MaxHops = 4

// Resolution describes how an exchange rate was obtained.
type Resolution string

const (
	ResolutionIdentity     Resolution = "identity"
	ResolutionCached       Resolution = "cached"
	ResolutionDirect       Resolution = "direct"
	ResolutionSynthetic    Resolution = "synthetic"
	ResolutionUnresolvable Resolution = "unresolvable"
)

// ResolutionHook is notified of every rate lookup. It must not block.
type ResolutionHook func(from, to domain.Currency, kind Resolution)

// Option configures a FrozenConverter.
type Option func(*FrozenConverter)

// WithResolutionHook installs a hook observing rate lookups.
func WithResolutionHook(hook ResolutionHook) Option {
	return func(c *FrozenConverter) {
		c.hook = hook
	}
}

type rateTable [domain.NumCurrencies][domain.NumCurrencies]*domain.ExchangeRate

// FrozenConverter is an immutable snapshot of a set of quotes.
// Quotes may use any base currency; missing pairs are synthesised from the
// shortest chain of quotes. Every resolved rate is cached.
// It is safe for concurrent use once constructed.
type FrozenConverter struct {
	// direct holds the ingested quotes and, where no quote exists, their inversions.
	direct rateTable
	quotes []*domain.ExchangeRate

	// resolved caches every rate returned so far. Writes are idempotent:
	// a race computes the same rate twice and keeps the first one stored.
	resolved [domain.NumCurrencies][domain.NumCurrencies]atomic.Pointer[domain.ExchangeRate]

	hook ResolutionHook
}

// NewFrozenConverter builds the rate graph from rates.
// It fails with ErrConflictingRates if a currency pair is quoted twice with
// different rates; repeating an identical quote is allowed.
func NewFrozenConverter(rates []*domain.ExchangeRate, opts ...Option) (*FrozenConverter, error) {
	c := &FrozenConverter{}
	for _, opt := range opts {
		opt(c)
	}

	for _, rate := range rates {
		if err := c.addQuote(rate); err != nil {
			return nil, err
		}
	}
	sort.Slice(c.quotes, func(i, j int) bool {
		a, b := c.quotes[i], c.quotes[j]
		if a.BaseCurrency() != b.BaseCurrency() {
			return a.BaseCurrency() < b.BaseCurrency()
		}
		return a.QuoteCurrency() < b.QuoteCurrency()
	})

	// Inversions never override a quote given explicitly for that direction.
	for _, rate := range c.quotes {
		base, quote := rate.BaseCurrency(), rate.QuoteCurrency()
		if c.direct[quote][base] == nil {
			c.direct[quote][base] = rate.Invert()
		}
	}
	return c, nil
}

// MustFrozenConverter is like NewFrozenConverter but panics on invalid input.
func MustFrozenConverter(rates []*domain.ExchangeRate, opts ...Option) *FrozenConverter {
	c, err := NewFrozenConverter(rates, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *FrozenConverter) addQuote(rate *domain.ExchangeRate) error {
	if rate == nil {
		return fmt.Errorf("%w: nil quote", domain.ErrInvalidRate)
	}
	base, quote := rate.BaseCurrency(), rate.QuoteCurrency()
	if !base.Valid() || !quote.Valid() {
		return fmt.Errorf("%w: unsupported currency pair %s/%s", domain.ErrInvalidRate, base, quote)
	}
	if base == quote {
		if !rate.RateValue().Equal(domain.Identity(base).RateValue()) {
			return fmt.Errorf("%w: %s must be 1 for identical currencies", ErrConflictingRates, rate)
		}
		// Identity is implicit for every currency.
		return nil
	}

	known := c.direct[base][quote]
	if known == nil {
		c.direct[base][quote] = rate
		c.quotes = append(c.quotes, rate)
		return nil
	}
	if !known.RateValue().Equal(rate.RateValue()) {
		return fmt.Errorf("%w: %s and %s", ErrConflictingRates, rate, known)
	}
	return nil
}

// Quotes returns the ingested quotes ordered by base and quote currency.
func (c *FrozenConverter) Quotes() []*domain.ExchangeRate {
	out := make([]*domain.ExchangeRate, len(c.quotes))
	copy(out, c.quotes)
	return out
}

func (c *FrozenConverter) ConvertToPrice(from domain.Money, to domain.Currency) (domain.Money, error) {
	return c.Convert(from, to, domain.ScaleForPrice, to.RoundingMode())
}

func (c *FrozenConverter) ConvertProportionally(from domain.Money, to domain.Currency) (domain.Money, error) {
	return c.Convert(from, to, domain.ScaleProportional, to.RoundingMode())
}

// Convert converts from into the to currency. Converting into the same
// currency skips rate lookup and only re-scales when policy requires it.
func (c *FrozenConverter) Convert(from domain.Money, to domain.Currency, policy domain.ScalePolicy, mode domain.RoundingMode) (domain.Money, error) {
	if from.Currency() == to {
		scale := policy.RequiredScale(from, to)
		if scale == from.Scale() {
			return from, nil
		}
		return from.WithScale(scale, mode), nil
	}
	rate, err := c.ExchangeRate(from.Currency(), to)
	if err != nil {
		return domain.Money{}, err
	}
	return rate.Convert(from, policy, mode), nil
}

// ExchangeRate returns the rate from one currency to another.
// A direct quote always wins over a synthetic path.
func (c *FrozenConverter) ExchangeRate(from, to domain.Currency) (*domain.ExchangeRate, error) {
	if !from.Valid() || !to.Valid() {
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrUnknownCurrency, from, to)
	}
	cell := &c.resolved[from][to]
	if rate := cell.Load(); rate != nil {
		c.notify(from, to, ResolutionCached)
		return rate, nil
	}

	rate, kind, err := c.resolve(from, to)
	if err != nil {
		c.notify(from, to, ResolutionUnresolvable)
		return nil, err
	}
	if !cell.CompareAndSwap(nil, rate) {
		rate = cell.Load()
	}
	c.notify(from, to, kind)
	return rate, nil
}

func (c *FrozenConverter) resolve(from, to domain.Currency) (*domain.ExchangeRate, Resolution, error) {
	if from == to {
		return domain.Identity(from), ResolutionIdentity, nil
	}
	if rate := c.direct[from][to]; rate != nil {
		return rate, ResolutionDirect, nil
	}
	path := c.shortestPath(from, to)
	if path == nil {
		return nil, "", fmt.Errorf("%w: no exchange rate path found from %s to %s within %d hops",
			ErrUnresolvablePair, from, to, MaxHops)
	}
	rate, err := c.composePath(path)
	if err != nil {
		// The path only follows stored edges, so a mismatch here is a bug.
		return nil, "", fmt.Errorf("compose path %v: %w", path, err)
	}
	return rate, ResolutionSynthetic, nil
}

// shortestPath runs a breadth-first search from one currency to another,
// expanding neighbours in catalog order so ties are broken deterministically.
// It returns nil when the target is more than MaxHops quotes away.
func (c *FrozenConverter) shortestPath(from, to domain.Currency) []domain.Currency {
	const none = -1
	var (
		parent [domain.NumCurrencies]int
		depth  [domain.NumCurrencies]int
		seen   [domain.NumCurrencies]bool
	)
	for i := range parent {
		parent[i] = none
	}
	seen[from] = true
	queue := []domain.Currency{from}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if depth[current] >= MaxHops {
			continue
		}
		for i := 0; i < domain.NumCurrencies; i++ {
			next := domain.Currency(i)
			if c.direct[current][next] == nil {
				continue
			}
			if next == to {
				return buildPath(parent[:], current, to)
			}
			if seen[next] {
				continue
			}
			seen[next] = true
			parent[next] = int(current)
			depth[next] = depth[current] + 1
			queue = append(queue, next)
		}
	}
	return nil
}

func buildPath(parent []int, last, to domain.Currency) []domain.Currency {
	path := []domain.Currency{to}
	for at := int(last); at >= 0; at = parent[at] {
		path = append(path, domain.Currency(at))
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// composePath folds the quotes along path from left to right.
func (c *FrozenConverter) composePath(path []domain.Currency) (*domain.ExchangeRate, error) {
	composed := c.direct[path[0]][path[1]]
	for i := 1; i < len(path)-1; i++ {
		next, err := composed.Compose(c.direct[path[i]][path[i+1]])
		if err != nil {
			return nil, err
		}
		composed = next
	}
	return composed, nil
}

func (c *FrozenConverter) notify(from, to domain.Currency, kind Resolution) {
	if c.hook != nil {
		c.hook(from, to, kind)
	}
}

func (c *FrozenConverter) String() string {
	return fmt.Sprintf("FrozenConverter [quotes=%d]", len(c.quotes))
}
