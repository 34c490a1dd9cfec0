package repository

import (
	"context"
	"errors"
	"fmt"

	"portfoliohub/internal/domain"
	"portfoliohub/internal/logger"
)

// MarketDataRepository is implemented once per provider family. Failures
// wrap domain.ErrNetwork or domain.ErrProviderFormat; nothing retries
type MarketDataRepository interface {
	Name() string
	FetchDailySeries(ctx context.Context, symbol string, rng domain.Range, interval domain.Interval) (*domain.QuoteSeries, error)
	ValidateSymbol(ctx context.Context, symbol string) (bool, error)
}

func NewFallbackMarketDataRepository(providers ...MarketDataRepository) MarketDataRepository {
	return fallbackMarketDataRepositoryHandler{
		Providers: providers,
	}
}

type fallbackMarketDataRepositoryHandler struct {
	Providers []MarketDataRepository
}

func (h fallbackMarketDataRepositoryHandler) Name() string {
	name := "fallback"
	for i, p := range h.Providers {
		if i == 0 {
			name += "("
		} else {
			name += ","
		}
		name += p.Name()
	}
	if len(h.Providers) > 0 {
		name += ")"
	}
	return name
}

func (h fallbackMarketDataRepositoryHandler) FetchDailySeries(ctx context.Context, symbol string, rng domain.Range, interval domain.Interval) (*domain.QuoteSeries, error) {
	if len(h.Providers) == 0 {
		return nil, fmt.Errorf("no market data providers configured")
	}
	log := logger.FromContext(ctx)

	errs := []error{}
	for _, p := range h.Providers {
		series, err := p.FetchDailySeries(ctx, symbol, rng, interval)
		if err == nil {
			return series, nil
		}
		log.Warnw("market data provider failed", "provider", p.Name(), "symbol", symbol, "error", err.Error())
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}

	return nil, errors.Join(errs...)
}

// ValidateSymbol returns the first answer any provider gives. an error
// only comes back when none of them could answer
func (h fallbackMarketDataRepositoryHandler) ValidateSymbol(ctx context.Context, symbol string) (bool, error) {
	if len(h.Providers) == 0 {
		return false, fmt.Errorf("no market data providers configured")
	}

	errs := []error{}
	for _, p := range h.Providers {
		ok, err := p.ValidateSymbol(ctx, symbol)
		if err == nil {
			return ok, nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}

	return false, errors.Join(errs...)
}
