package calculator

import (
	"fmt"
	"time"

	"portfoliohub/internal/domain"
	"portfoliohub/internal/util"

	"github.com/shopspring/decimal"
)

func ParseGranularity(s string) (time.Duration, error) {
	granularity := time.Hour * 24
	switch s {
	case "", "daily":
	case "weekly":
		granularity *= 7
	case "monthly":
		granularity *= 30
	default:
		return 0, domain.NewValidationError("unknown granularity %q", s)
	}
	return granularity, nil
}

// IntraPeriodChange converts a series to % change from its first close,
// sampled every granularity up to end
func IntraPeriodChange(
	series domain.QuoteSeries,
	end time.Time,
	granularity time.Duration,
) (map[time.Time]float64, error) {
	if series.IsEmpty() {
		return nil, fmt.Errorf("no prices found for symbol %s", series.Symbol)
	}
	if series.Points[0].Close == 0 {
		return nil, fmt.Errorf("first close for %s is zero", series.Symbol)
	}
	return intraPeriodChangeIterator(series.Points, end, granularity), nil
}

func intraPeriodChangeIterator(
	points []domain.PricePoint,
	end time.Time,
	granularity time.Duration,
) map[time.Time]float64 {
	layout := "2006-01-02"

	first := decimal.NewFromFloat(points[0].Close)
	out := map[time.Time]float64{
		points[0].Date: 0,
	}

	i := 1
	nextTarget := points[0].Date.Add(granularity)
	for i < len(points) && util.DateLte(points[i].Date, end) {
		// skip targets that fell on non-trading days
		for nextTarget.Format(layout) < points[i].Date.Format(layout) {
			nextTarget = nextTarget.Add(24 * time.Hour)
		}
		if points[i].Date.Format(layout) == nextTarget.Format(layout) {
			price := decimal.NewFromFloat(points[i].Close)
			out[nextTarget] = decimal.NewFromInt(100).Mul(price.Sub(first)).Div(first).InexactFloat64()
			nextTarget = nextTarget.Add(granularity)
		}
		i++
	}

	return out
}
