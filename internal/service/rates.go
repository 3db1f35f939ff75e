package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayo6706/fx-converter/internal/converter"
	"github.com/ayo6706/fx-converter/internal/domain"
	"github.com/ayo6706/fx-converter/internal/observability"
	"github.com/ayo6706/fx-converter/internal/ratesource"
	"go.uber.org/zap"
)

// Snapshot describes the quotes currently served.
type Snapshot struct {
	Source   string
	Quotes   []*domain.ExchangeRate
	LoadedAt time.Time
}

// RateService keeps the live converter in sync with a rate source.
type RateService struct {
	source ratesource.Source
	live   *converter.Updateable
	conv   converter.Converter
	logger *zap.Logger

	reloadMu sync.Mutex
	snapshot atomic.Pointer[Snapshot]
	now      func() time.Time
}

// NewRateService creates a service with no snapshot loaded. Conversions fail
// with converter.ErrNotLoaded until the first successful Reload.
func NewRateService(source ratesource.Source, logger *zap.Logger) *RateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	live := converter.NewUpdateable(nil)
	return &RateService{
		source: source,
		live:   live,
		conv:   converter.NewLoggingConverter(logger, live),
		logger: logger,
		now:    time.Now,
	}
}

// Converter returns the live converter. Its answers follow every reload.
func (s *RateService) Converter() converter.Converter {
	return s.conv
}

// Pin returns the converter of the active snapshot, so that several calls
// answer from the same quotes even if a reload happens in between.
func (s *RateService) Pin() converter.Converter {
	current := s.live.Current()
	if current == nil {
		return s.conv
	}
	return converter.NewLoggingConverter(s.logger, current)
}

// Snapshot returns the active snapshot, or nil before the first load.
func (s *RateService) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Ready reports whether a snapshot has been loaded.
func (s *RateService) Ready() bool {
	return s.snapshot.Load() != nil
}

// Reload fetches quotes and swaps in a new converter built from them.
// On any failure the previous snapshot keeps serving.
func (s *RateService) Reload(ctx context.Context) (*Snapshot, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	rates, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rates from %s: %w", s.source.Name(), err)
	}

	frozen, err := converter.NewFrozenConverter(rates, converter.WithResolutionHook(recordResolution))
	if err != nil {
		return nil, fmt.Errorf("build converter from %s: %w", s.source.Name(), err)
	}

	snap := &Snapshot{
		Source:   s.source.Name(),
		Quotes:   frozen.Quotes(),
		LoadedAt: s.now().UTC(),
	}
	s.live.Set(frozen)
	s.snapshot.Store(snap)

	observability.IncrementConverterSwap()
	observability.SetSnapshotQuotes(len(snap.Quotes))
	s.logger.Info("exchange rates loaded",
		zap.String("source", snap.Source),
		zap.Int("quotes", len(snap.Quotes)),
	)
	return snap, nil
}

func recordResolution(_, _ domain.Currency, kind converter.Resolution) {
	observability.IncrementRateResolution(string(kind))
}
