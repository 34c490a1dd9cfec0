package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"portfoliohub/internal/domain"
)

const (
	DefaultBaseURL = "https://www.alphavantage.co/query"
	providerName   = "alphavantage"
	dateLayout     = "2006-01-02"
)

type Client struct {
	HttpClient *http.Client
	BaseURL    string
	ApiKey     string
}

func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		HttpClient: &http.Client{Timeout: timeout},
		BaseURL:    baseURL,
		ApiKey:     apiKey,
	}
}

func (c *Client) Name() string {
	return providerName
}

type dailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

type envelope struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

type dailyResponse struct {
	envelope
	TimeSeries map[string]dailyBar `json:"Time Series (Daily)"`
}

type searchResponse struct {
	envelope
	BestMatches []struct {
		Symbol string `json:"1. symbol"`
		Name   string `json:"2. name"`
		Region string `json:"4. region"`
	} `json:"bestMatches"`
}

func (c *Client) query(ctx context.Context, params url.Values, out any) error {
	params.Set("apikey", c.ApiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	response, err := c.HttpClient.Do(req)
	if err != nil {
		return domain.NewNetworkError(providerName, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return domain.NewNetworkError(providerName, err)
	}
	if response.StatusCode == http.StatusTooManyRequests || response.StatusCode >= 500 {
		return domain.NewNetworkError(providerName, fmt.Errorf("status %d: %s", response.StatusCode, string(body)))
	}
	if response.StatusCode != http.StatusOK {
		return domain.NewProviderFormatError(providerName, "unexpected status %d: %s", response.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return domain.NewProviderFormatError(providerName, "failed to decode %s response: %s", params.Get("function"), err.Error())
	}
	return nil
}

// check maps the in-band status fields. alpha vantage answers rate
// limits with 200 and a Note or Information message
func (e envelope) check() error {
	if e.Note != "" {
		return domain.NewNetworkError(providerName, fmt.Errorf("rate limited: %s", e.Note))
	}
	if e.Information != "" {
		return domain.NewNetworkError(providerName, fmt.Errorf("rate limited: %s", e.Information))
	}
	if e.ErrorMessage != "" {
		return domain.NewProviderFormatError(providerName, "%s", e.ErrorMessage)
	}
	return nil
}

func (c *Client) FetchDailySeries(ctx context.Context, symbol string, rng domain.Range, interval domain.Interval) (*domain.QuoteSeries, error) {
	if interval != domain.OneDayInterval {
		return nil, domain.NewProviderFormatError(providerName, "interval %s is not supported", interval)
	}

	response := dailyResponse{}
	err := c.query(ctx, url.Values{
		"function":   {"TIME_SERIES_DAILY"},
		"symbol":     {symbol},
		"outputsize": {"full"},
	}, &response)
	if err != nil {
		return nil, err
	}
	if err := response.check(); err != nil {
		return nil, err
	}
	if response.TimeSeries == nil {
		return nil, domain.NewProviderFormatError(providerName, "response for %s is missing Time Series (Daily)", symbol)
	}

	points := make([]domain.PricePoint, 0, len(response.TimeSeries))
	for dateStr, bar := range response.TimeSeries {
		point, err := bar.toPricePoint(dateStr)
		if err != nil {
			return nil, domain.NewProviderFormatError(providerName, "bad bar for %s on %s: %s", symbol, dateStr, err.Error())
		}
		points = append(points, point)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	if len(points) > 0 {
		start, err := rng.Start(points[len(points)-1].Date)
		if err != nil {
			return nil, fmt.Errorf("failed to compute range start: %w", err)
		}
		i := sort.Search(len(points), func(i int) bool {
			return points[i].Date.After(start)
		})
		points = points[i:]
	}
	if len(points) == 0 {
		return nil, domain.NewProviderFormatError(providerName, "no price data for %s", symbol)
	}

	return &domain.QuoteSeries{
		Symbol: symbol,
		Points: points,
	}, nil
}

func (b dailyBar) toPricePoint(dateStr string) (domain.PricePoint, error) {
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return domain.PricePoint{}, err
	}
	floats := make([]float64, 4)
	for i, s := range []string{b.Open, b.High, b.Low, b.Close} {
		floats[i], err = strconv.ParseFloat(s, 64)
		if err != nil {
			return domain.PricePoint{}, err
		}
	}
	volume, err := strconv.ParseInt(b.Volume, 10, 64)
	if err != nil {
		return domain.PricePoint{}, err
	}

	return domain.PricePoint{
		Date:   date,
		Open:   floats[0],
		High:   floats[1],
		Low:    floats[2],
		Close:  floats[3],
		Volume: volume,
	}, nil
}

func (c *Client) SearchSymbols(ctx context.Context, keywords string) ([]domain.SymbolMatch, error) {
	response := searchResponse{}
	err := c.query(ctx, url.Values{
		"function": {"SYMBOL_SEARCH"},
		"keywords": {keywords},
	}, &response)
	if err != nil {
		return nil, err
	}
	if err := response.check(); err != nil {
		return nil, err
	}

	out := make([]domain.SymbolMatch, 0, len(response.BestMatches))
	for _, m := range response.BestMatches {
		out = append(out, domain.SymbolMatch{
			Symbol: m.Symbol,
			Name:   m.Name,
			Region: m.Region,
		})
	}
	return out, nil
}

// ValidateSymbol accepts the symbol only when it is the first of the
// best matches, compared exactly
func (c *Client) ValidateSymbol(ctx context.Context, symbol string) (bool, error) {
	matches, err := c.SearchSymbols(ctx, symbol)
	if err != nil {
		return false, err
	}
	return len(matches) > 0 && matches[0].Symbol == symbol, nil
}
