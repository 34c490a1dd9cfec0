package repository

import (
	"context"
	"fmt"
	"time"

	"portfoliohub/internal/domain"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"
)

const yahooSdkProviderName = "yahoo-sdk"

// NewYahooSdkRepository uses the finance-go client, which has no context
// support. the ctx is only checked before the call starts
func NewYahooSdkRepository() MarketDataRepository {
	return yahooSdkRepositoryHandler{
		Now: time.Now,
	}
}

type yahooSdkRepositoryHandler struct {
	Now func() time.Time
}

func (h yahooSdkRepositoryHandler) Name() string {
	return yahooSdkProviderName
}

func (h yahooSdkRepositoryHandler) FetchDailySeries(ctx context.Context, symbol string, rng domain.Range, interval domain.Interval) (*domain.QuoteSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewNetworkError(yahooSdkProviderName, err)
	}
	if !interval.IsValid() {
		return nil, domain.NewProviderFormatError(yahooSdkProviderName, "interval %s is not supported", interval)
	}

	end := h.Now().UTC()
	start, err := rng.Start(end)
	if err != nil {
		return nil, fmt.Errorf("failed to compute range start: %w", err)
	}

	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.Interval(interval),
	}
	iter := chart.Get(params)

	points := []domain.PricePoint{}
	for iter.Next() {
		bar := iter.Bar()
		points = append(points, domain.PricePoint{
			Date:   domain.TruncateToDay(time.Unix(int64(bar.Timestamp), 0)),
			Open:   bar.Open.InexactFloat64(),
			High:   bar.High.InexactFloat64(),
			Low:    bar.Low.InexactFloat64(),
			Close:  bar.Close.InexactFloat64(),
			Volume: int64(bar.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, domain.NewNetworkError(yahooSdkProviderName, fmt.Errorf("failed to get chart for %s: %w", symbol, err))
	}
	if len(points) == 0 {
		return nil, domain.NewProviderFormatError(yahooSdkProviderName, "empty chart result for %s", symbol)
	}

	return &domain.QuoteSeries{
		Symbol: symbol,
		Points: points,
	}, nil
}

func (h yahooSdkRepositoryHandler) ValidateSymbol(ctx context.Context, symbol string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, domain.NewNetworkError(yahooSdkProviderName, err)
	}
	q, err := quote.Get(symbol)
	if err != nil {
		return false, domain.NewNetworkError(yahooSdkProviderName, fmt.Errorf("failed to get quote for %s: %w", symbol, err))
	}
	return q != nil && q.Symbol == symbol, nil
}
