package domain

import (
	"fmt"
	"time"
)

// PricePoint is a single daily bar for a symbol. Date is the UTC
// calendar day the bar belongs to
type PricePoint struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// QuoteSeries is an ordered (oldest to newest) sequence of price
// points for one symbol
type QuoteSeries struct {
	Symbol string       `json:"symbol"`
	Points []PricePoint `json:"points"`
}

func (q QuoteSeries) Closes() []float64 {
	out := make([]float64, 0, len(q.Points))
	for _, p := range q.Points {
		out = append(out, p.Close)
	}
	return out
}

func (q QuoteSeries) IsEmpty() bool {
	return len(q.Points) == 0
}

func (q QuoteSeries) Latest() (PricePoint, bool) {
	if len(q.Points) == 0 {
		return PricePoint{}, false
	}
	return q.Points[len(q.Points)-1], true
}

// DeepCopy returns a series that shares no memory with q
func (q QuoteSeries) DeepCopy() QuoteSeries {
	points := make([]PricePoint, len(q.Points))
	copy(points, q.Points)
	return QuoteSeries{
		Symbol: q.Symbol,
		Points: points,
	}
}

// CacheEntry is owned by the quote cache. Once stored it is never
// mutated - a refresh replaces the whole entry
type CacheEntry struct {
	Symbol    string      `json:"symbol"`
	Series    QuoteSeries `json:"series"`
	FetchedAt time.Time   `json:"fetchedAt"`
}

func (e CacheEntry) IsFresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.FetchedAt) < ttl
}

func (e CacheEntry) DeepCopy() *CacheEntry {
	return &CacheEntry{
		Symbol:    e.Symbol,
		Series:    e.Series.DeepCopy(),
		FetchedAt: e.FetchedAt,
	}
}

// Range is a provider lookback window, e.g. "1y"
type Range string

const (
	OneMonthRange   Range = "1mo"
	ThreeMonthRange Range = "3mo"
	SixMonthRange   Range = "6mo"
	OneYearRange    Range = "1y"
	TwoYearRange    Range = "2y"
	FiveYearRange   Range = "5y"
	TenYearRange    Range = "10y"
	YearToDateRange Range = "ytd"
	MaxRange        Range = "max"
)

// Start returns the first calendar day covered by the range when
// the window ends on end. MaxRange returns the zero time
func (r Range) Start(end time.Time) (time.Time, error) {
	switch r {
	case OneMonthRange:
		return end.AddDate(0, -1, 0), nil
	case ThreeMonthRange:
		return end.AddDate(0, -3, 0), nil
	case SixMonthRange:
		return end.AddDate(0, -6, 0), nil
	case OneYearRange:
		return end.AddDate(-1, 0, 0), nil
	case TwoYearRange:
		return end.AddDate(-2, 0, 0), nil
	case FiveYearRange:
		return end.AddDate(-5, 0, 0), nil
	case TenYearRange:
		return end.AddDate(-10, 0, 0), nil
	case YearToDateRange:
		return time.Date(end.Year(), 1, 1, 0, 0, 0, 0, end.Location()), nil
	case MaxRange:
		return time.Time{}, nil
	}
	return time.Time{}, fmt.Errorf("unsupported range %q", string(r))
}

// Interval is the bar size requested from a provider
type Interval string

const (
	OneDayInterval   Interval = "1d"
	OneWeekInterval  Interval = "1wk"
	OneMonthInterval Interval = "1mo"
)

func (i Interval) IsValid() bool {
	switch i {
	case OneDayInterval, OneWeekInterval, OneMonthInterval:
		return true
	}
	return false
}

// TruncateToDay converts a provider timestamp to the UTC calendar day
func TruncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SymbolMatch is a candidate returned by a symbol search provider
type SymbolMatch struct {
	Symbol string
	Name   string
	Region string
}
