package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"portfoliohub/internal/domain"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

const alpacaProviderName = "alpaca"

func NewAlpacaRepository(apiKey, apiSecret string, endpoint string) MarketDataRepository {
	client := alpaca.NewClient(alpaca.ClientOpts{
		APIKey:     apiKey,
		APISecret:  apiSecret,
		BaseURL:    endpoint,
		RetryLimit: 0,
	})

	mdClient := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	})

	return &alpacaRepositoryHandler{
		Client:   client,
		MdClient: mdClient,
		Now:      time.Now,
	}
}

type alpacaRepositoryHandler struct {
	Client   *alpaca.Client
	MdClient *marketdata.Client
	Now      func() time.Time
}

func (h alpacaRepositoryHandler) Name() string {
	return alpacaProviderName
}

func alpacaTimeFrame(interval domain.Interval) (marketdata.TimeFrame, error) {
	switch interval {
	case domain.OneDayInterval:
		return marketdata.OneDay, nil
	case domain.OneWeekInterval:
		return marketdata.NewTimeFrame(1, marketdata.Week), nil
	case domain.OneMonthInterval:
		return marketdata.NewTimeFrame(1, marketdata.Month), nil
	}
	return marketdata.TimeFrame{}, domain.NewProviderFormatError(alpacaProviderName, "interval %s is not supported", interval)
}

func (h alpacaRepositoryHandler) FetchDailySeries(ctx context.Context, symbol string, rng domain.Range, interval domain.Interval) (*domain.QuoteSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewNetworkError(alpacaProviderName, err)
	}
	timeFrame, err := alpacaTimeFrame(interval)
	if err != nil {
		return nil, err
	}

	end := h.Now().UTC()
	start, err := rng.Start(end)
	if err != nil {
		return nil, fmt.Errorf("failed to compute range start: %w", err)
	}

	bars, err := h.MdClient.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame:  timeFrame,
		Adjustment: marketdata.Split,
		Start:      start,
		End:        end,
	})
	if err != nil {
		return nil, classifyAlpacaError(fmt.Errorf("failed to get bars for %s: %w", symbol, err))
	}

	return alpacaBarsToSeries(symbol, bars)
}

func alpacaBarsToSeries(symbol string, bars []marketdata.Bar) (*domain.QuoteSeries, error) {
	if len(bars) == 0 {
		return nil, domain.NewProviderFormatError(alpacaProviderName, "no bars returned for %s", symbol)
	}

	points := make([]domain.PricePoint, 0, len(bars))
	for _, b := range bars {
		points = append(points, domain.PricePoint{
			Date:   domain.TruncateToDay(b.Timestamp),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: int64(b.Volume),
		})
	}

	return &domain.QuoteSeries{
		Symbol: symbol,
		Points: points,
	}, nil
}

// ValidateSymbol treats an unknown asset as invalid and an inactive or
// untradable one as invalid too
func (h alpacaRepositoryHandler) ValidateSymbol(ctx context.Context, symbol string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, domain.NewNetworkError(alpacaProviderName, err)
	}

	asset, err := h.Client.GetAsset(symbol)
	if isAlpacaNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, classifyAlpacaError(fmt.Errorf("failed to get asset %s: %w", symbol, err))
	}

	return asset.Symbol == symbol && asset.Status == alpaca.AssetActive && asset.Tradable, nil
}

func isAlpacaNotFound(err error) bool {
	apiErr := &alpaca.APIError{}
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// classifyAlpacaError keeps 4xx answers (other than throttling) as format
// errors. everything else is treated as a network problem
func classifyAlpacaError(err error) error {
	apiErr := &alpaca.APIError{}
	if errors.As(err, &apiErr) &&
		apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 &&
		apiErr.StatusCode != http.StatusTooManyRequests {
		return domain.NewProviderFormatError(alpacaProviderName, "%s", err.Error())
	}
	return domain.NewNetworkError(alpacaProviderName, err)
}
