package ratesource

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ayo6706/fx-converter/internal/domain"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash holding published quotes.
const DefaultRedisKey = "fx:quotes"

// Redis reads quotes from a hash. Each field is named BASE:QUOTE and holds
// the JSON form of one ExchangeRate.
type Redis struct {
	client redis.Cmdable
	key    string
}

func NewRedis(client redis.Cmdable, key string) *Redis {
	if key == "" {
		key = DefaultRedisKey
	}
	return &Redis{client: client, key: key}
}

func (r *Redis) Name() string { return "redis" }

func (r *Redis) Load(ctx context.Context) ([]*domain.ExchangeRate, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: hgetall %s: %v", ErrSourceUnavailable, r.key, err)
	}
	return decodeHash(fields)
}

// Publish stores rates in the hash, replacing quotes for the same pairs.
func (r *Redis) Publish(ctx context.Context, rates ...*domain.ExchangeRate) error {
	values := make([]any, 0, 2*len(rates))
	for _, rate := range rates {
		doc, err := json.Marshal(rate)
		if err != nil {
			return fmt.Errorf("encode %s: %w", rate, err)
		}
		values = append(values, pairField(rate.BaseCurrency(), rate.QuoteCurrency()), string(doc))
	}
	if len(values) == 0 {
		return nil
	}
	if err := r.client.HSet(ctx, r.key, values...).Err(); err != nil {
		return fmt.Errorf("%w: hset %s: %v", ErrSourceUnavailable, r.key, err)
	}
	return nil
}

func pairField(base, quote domain.Currency) string {
	return base.Code() + ":" + quote.Code()
}

// decodeHash parses fields in sorted order so a load is reproducible.
func decodeHash(fields map[string]string) ([]*domain.ExchangeRate, error) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	rates := make([]*domain.ExchangeRate, 0, len(names))
	for _, name := range names {
		var rate domain.ExchangeRate
		if err := json.Unmarshal([]byte(fields[name]), &rate); err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		if want := pairField(rate.BaseCurrency(), rate.QuoteCurrency()); !strings.EqualFold(name, want) {
			return nil, fmt.Errorf("field %s: %w: holds %s", name, domain.ErrInvalidRate, want)
		}
		rates = append(rates, &rate)
	}
	return rates, nil
}
