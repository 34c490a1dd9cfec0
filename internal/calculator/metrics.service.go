package calculator

import (
	"fmt"
	"math"
	"time"

	"portfoliohub/internal/domain"

	"github.com/montanaflynn/stats"
)

const tradingDaysPerYear = 252

type SeriesMetrics struct {
	Symbol           string    `json:"symbol"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	NumPoints        int       `json:"numPoints"`
	FirstClose       float64   `json:"firstClose"`
	LastClose        float64   `json:"lastClose"`
	High             float64   `json:"high"`
	Low              float64   `json:"low"`
	PeriodReturn     float64   `json:"periodReturn"`
	AnnualizedReturn float64   `json:"annualizedReturn"`
	AnnualizedStdev  float64   `json:"annualizedStdev"`
	SharpeRatio      float64   `json:"sharpeRatio"`
}

// CalculateSeriesMetrics summarizes a daily series. it assumes the series
// is ordered oldest first, which every provider guarantees
func CalculateSeriesMetrics(series domain.QuoteSeries) (*SeriesMetrics, error) {
	if len(series.Points) < 2 {
		return nil, fmt.Errorf("cannot calculate metrics on < 2 price points for %s", series.Symbol)
	}

	closes := series.Closes()
	returns, err := dailyReturns(closes)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate returns for %s: %w", series.Symbol, err)
	}

	// sample stdev of a single return is undefined
	stdev := 0.0
	if len(returns) > 1 {
		stdev, err = stats.StandardDeviationSample(returns)
		if err != nil {
			return nil, err
		}
	}
	annualizedStdev := stdev * math.Sqrt(tradingDaysPerYear)

	high, err := stats.Max(closes)
	if err != nil {
		return nil, err
	}
	low, err := stats.Min(closes)
	if err != nil {
		return nil, err
	}

	first := series.Points[0]
	last := series.Points[len(series.Points)-1]
	periodReturn := last.Close/first.Close - 1

	annualizedReturn := periodReturn
	numYears := last.Date.Sub(first.Date).Hours() / (365 * 24)
	if numYears > 0 {
		annualizedReturn = math.Pow(last.Close/first.Close, 1/numYears) - 1
	}

	sharpeRatio := 0.0
	if annualizedStdev != 0 {
		sharpeRatio = annualizedReturn / annualizedStdev
	}

	return &SeriesMetrics{
		Symbol:           series.Symbol,
		Start:            first.Date,
		End:              last.Date,
		NumPoints:        len(series.Points),
		FirstClose:       first.Close,
		LastClose:        last.Close,
		High:             high,
		Low:              low,
		PeriodReturn:     periodReturn,
		AnnualizedReturn: annualizedReturn,
		AnnualizedStdev:  annualizedStdev,
		SharpeRatio:      sharpeRatio,
	}, nil
}

func dailyReturns(closes []float64) ([]float64, error) {
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			return nil, fmt.Errorf("zero close at index %d", i-1)
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	return returns, nil
}
