package integration_tests

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"time"

	"portfoliohub/internal/domain"
	"portfoliohub/internal/repository"

	"github.com/gocarina/gocsv"
)

//go:embed sample_prices.csv
var samplePrices []byte

type samplePriceRow struct {
	Date   string  `csv:"date"`
	Symbol string  `csv:"symbol"`
	Open   float64 `csv:"open"`
	High   float64 `csv:"high"`
	Low    float64 `csv:"low"`
	Close  float64 `csv:"close"`
	Volume int64   `csv:"volume"`
}

// NewMockMarketDataRepositoryForTests serves the embedded sample prices so
// the api can run without reaching a real provider
func NewMockMarketDataRepositoryForTests() repository.MarketDataRepository {
	rows := []samplePriceRow{}
	if err := gocsv.UnmarshalBytes(samplePrices, &rows); err != nil {
		panic(fmt.Errorf("failed to parse sample prices: %w", err))
	}

	series := map[string]*domain.QuoteSeries{}
	for _, row := range rows {
		date, err := time.Parse(time.DateOnly, row.Date)
		if err != nil {
			panic(fmt.Errorf("failed to parse sample price date %q: %w", row.Date, err))
		}
		if _, ok := series[row.Symbol]; !ok {
			series[row.Symbol] = &domain.QuoteSeries{Symbol: row.Symbol}
		}
		series[row.Symbol].Points = append(series[row.Symbol].Points, domain.PricePoint{
			Date:   date,
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
		})
	}
	for _, s := range series {
		sort.Slice(s.Points, func(i, j int) bool {
			return s.Points[i].Date.Before(s.Points[j].Date)
		})
	}

	return mockMarketDataForTestsHandler{series: series}
}

type mockMarketDataForTestsHandler struct {
	series map[string]*domain.QuoteSeries
}

func (m mockMarketDataForTestsHandler) Name() string {
	return "sample"
}

func (m mockMarketDataForTestsHandler) FetchDailySeries(ctx context.Context, symbol string, rng domain.Range, interval domain.Interval) (*domain.QuoteSeries, error) {
	s, ok := m.series[symbol]
	if !ok {
		return nil, domain.NewProviderFormatError(m.Name(), "no sample prices for %s", symbol)
	}
	out := s.DeepCopy()
	return &out, nil
}

func (m mockMarketDataForTestsHandler) ValidateSymbol(ctx context.Context, symbol string) (bool, error) {
	_, ok := m.series[symbol]
	return ok, nil
}
