package ratesource

import (
	"context"
	"fmt"

	"github.com/ayo6706/fx-converter/internal/domain"
	"github.com/jackc/pgx/v5"
)

// Querier is the subset of *pgxpool.Pool used to read quotes.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Postgres reads quotes from a table with the columns
// base_currency, base_amount, quote_currency and quote_amount.
type Postgres struct {
	db    Querier
	query string
}

func NewPostgres(db Querier, table string) *Postgres {
	return &Postgres{
		db: db,
		query: fmt.Sprintf(
			`SELECT base_currency, base_amount::text, quote_currency, quote_amount::text FROM %s ORDER BY base_currency, quote_currency`,
			pgx.Identifier{table}.Sanitize(),
		),
	}
}

func (p *Postgres) Name() string { return "postgres" }

func (p *Postgres) Load(ctx context.Context) ([]*domain.ExchangeRate, error) {
	rows, err := p.db.Query(ctx, p.query)
	if err != nil {
		return nil, fmt.Errorf("%w: query exchange rates: %v", ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var rates []*domain.ExchangeRate
	for rows.Next() {
		var baseCurrency, baseAmount, quoteCurrency, quoteAmount string
		if err := rows.Scan(&baseCurrency, &baseAmount, &quoteCurrency, &quoteAmount); err != nil {
			return nil, fmt.Errorf("failed to scan exchange rate: %w", err)
		}
		rate, err := rateFromColumns(baseAmount, baseCurrency, quoteAmount, quoteCurrency)
		if err != nil {
			return nil, fmt.Errorf("row %s/%s: %w", baseCurrency, quoteCurrency, err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read exchange rates: %v", ErrSourceUnavailable, err)
	}
	return rates, nil
}

func rateFromColumns(baseAmount, baseCurrency, quoteAmount, quoteCurrency string) (*domain.ExchangeRate, error) {
	base, err := domain.ParseMoney(baseAmount, baseCurrency)
	if err != nil {
		return nil, err
	}
	quote, err := domain.ParseMoney(quoteAmount, quoteCurrency)
	if err != nil {
		return nil, err
	}
	return domain.NewExchangeRate(base, quote)
}
