package ratesource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ayo6706/fx-converter/internal/domain"
)

// File reads a JSON array of quotes:
//
//	[{"baseValue":{"amount":"1","currency":"EUR"},"quoteValue":{"amount":"1.10","currency":"USD"}}]
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Name() string { return "file" }

// Load re-reads the file on every call so edits are picked up on refresh.
func (f *File) Load(ctx context.Context) ([]*domain.ExchangeRate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrSourceUnavailable, f.path, err)
	}
	var rates []*domain.ExchangeRate
	if err := json.Unmarshal(data, &rates); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	for i, r := range rates {
		if r == nil {
			return nil, fmt.Errorf("decode %s: entry %d: %w", f.path, i, domain.ErrInvalidRate)
		}
	}
	return rates, nil
}
