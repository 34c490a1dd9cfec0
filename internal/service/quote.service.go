package service

import (
	"context"
	"fmt"
	"time"

	"portfoliohub/internal/domain"
	"portfoliohub/internal/logger"
	"portfoliohub/internal/repository"
	"portfoliohub/internal/util"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

/**

serves a daily price series per symbol, only going to a provider when
the cached copy is older than the TTL.

lookup order is memory -> persisted store -> provider. there is at most
one provider call in flight per symbol; everyone asking for that symbol
while it runs gets the same answer. a failed fetch never touches the
entry that was there before, and the stale entry is never handed back
as a fallback.

*/

type QuoteService interface {
	GetQuotes(ctx context.Context, symbol string) (*domain.QuoteSeries, error)
	GetEntry(ctx context.Context, symbol string) (*domain.CacheEntry, error)
}

type QuoteServiceConfig struct {
	TTL            time.Duration
	MaxEntries     int
	Range          domain.Range
	Interval       domain.Interval
	ValidateOnMiss bool
}

func DefaultQuoteServiceConfig() QuoteServiceConfig {
	return QuoteServiceConfig{
		TTL:        24 * time.Hour,
		MaxEntries: 1024,
		Range:      domain.OneYearRange,
		Interval:   domain.OneDayInterval,
	}
}

type quoteServiceHandler struct {
	Config             QuoteServiceConfig
	Clock              util.Clock
	MarketDataProvider repository.MarketDataRepository
	// optional
	QuoteCacheRepository repository.QuoteCacheRepository
	// only used when Config.ValidateOnMiss is set
	TickerValidator TickerValidatorService

	cache  *lru.Cache[string, *domain.CacheEntry]
	flight *singleflight.Group
}

func NewQuoteService(
	config QuoteServiceConfig,
	clock util.Clock,
	marketDataProvider repository.MarketDataRepository,
	quoteCacheRepository repository.QuoteCacheRepository,
	tickerValidator TickerValidatorService,
) (QuoteService, error) {
	if config.TTL <= 0 {
		return nil, fmt.Errorf("quote cache ttl must be positive, got %s", config.TTL)
	}
	if _, err := config.Range.Start(time.Now()); err != nil {
		return nil, err
	}
	if !config.Interval.IsValid() {
		return nil, fmt.Errorf("unsupported interval %q", string(config.Interval))
	}
	if config.ValidateOnMiss && tickerValidator == nil {
		return nil, fmt.Errorf("validate on miss requires a ticker validator")
	}

	cache, err := lru.New[string, *domain.CacheEntry](config.MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create quote cache: %w", err)
	}

	return &quoteServiceHandler{
		Config:               config,
		Clock:                clock,
		MarketDataProvider:   marketDataProvider,
		QuoteCacheRepository: quoteCacheRepository,
		TickerValidator:      tickerValidator,
		cache:                cache,
		flight:               &singleflight.Group{},
	}, nil
}

func (h *quoteServiceHandler) GetQuotes(ctx context.Context, symbol string) (*domain.QuoteSeries, error) {
	entry, err := h.GetEntry(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return &entry.Series, nil
}

func (h *quoteServiceHandler) GetEntry(ctx context.Context, symbol string) (*domain.CacheEntry, error) {
	if symbol == "" {
		return nil, domain.NewValidationError("symbol is required")
	}

	if entry, ok := h.cache.Get(symbol); ok && entry.IsFresh(h.Clock.Now(), h.Config.TTL) {
		return entry.DeepCopy(), nil
	}

	// the load keeps running after this caller gives up
	loadCtx := context.WithoutCancel(ctx)
	ch := h.flight.DoChan(symbol, func() (interface{}, error) {
		return h.load(loadCtx, symbol)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-ch:
		if result.Err != nil {
			return nil, result.Err
		}
		return result.Val.(*domain.CacheEntry).DeepCopy(), nil
	}
}

// load runs at most once at a time per symbol
func (h *quoteServiceHandler) load(ctx context.Context, symbol string) (*domain.CacheEntry, error) {
	log := logger.FromContext(ctx)
	profile, _ := domain.GetProfile(ctx)

	now := h.Clock.Now()

	// a flight that finished between our miss and joining this one
	memoryEntry, known := h.cache.Get(symbol)
	if known && memoryEntry.IsFresh(now, h.Config.TTL) {
		return memoryEntry, nil
	}

	if h.QuoteCacheRepository != nil {
		_, endSpan := profile.StartSpan("quotes.store.get")
		persisted, err := h.QuoteCacheRepository.Get(ctx, symbol)
		endSpan()
		if err != nil {
			log.Warnw("failed to read persisted quotes", "symbol", symbol, "error", err.Error())
		} else if persisted != nil {
			known = true
			if persisted.IsFresh(now, h.Config.TTL) {
				h.cache.Add(symbol, persisted)
				return persisted, nil
			}
		}
	}

	if h.Config.ValidateOnMiss && !known {
		_, endSpan := profile.StartSpan("quotes.validate")
		valid, err := h.TickerValidator.Validate(ctx, symbol)
		endSpan()
		if err != nil {
			return nil, &domain.FetchError{Symbol: symbol, Err: err}
		}
		if !valid {
			return nil, domain.NewValidationError("unknown symbol %s", symbol)
		}
	}

	_, endSpan := profile.StartSpan("quotes.provider.fetch")
	series, err := h.MarketDataProvider.FetchDailySeries(ctx, symbol, h.Config.Range, h.Config.Interval)
	endSpan()
	if err != nil {
		log.Errorw("failed to fetch quotes", "symbol", symbol, "provider", h.MarketDataProvider.Name(), "error", err.Error())
		return nil, &domain.FetchError{Symbol: symbol, Err: err}
	}

	stored := series.DeepCopy()
	stored.Symbol = symbol
	entry := &domain.CacheEntry{
		Symbol:    symbol,
		Series:    stored,
		FetchedAt: h.Clock.Now(),
	}

	if h.QuoteCacheRepository != nil {
		_, endSpan := profile.StartSpan("quotes.store.upsert")
		err := h.QuoteCacheRepository.Upsert(ctx, *entry)
		endSpan()
		if err != nil {
			log.Warnw("failed to persist quotes", "symbol", symbol, "error", err.Error())
		}
	}

	h.cache.Add(symbol, entry)
	log.Infow("refreshed quotes", "symbol", symbol, "points", len(entry.Series.Points))

	return entry, nil
}
