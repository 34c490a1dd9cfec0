package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"portfoliohub/internal/domain"
)

const (
	DefaultBaseURL = "https://query1.finance.yahoo.com"
	providerName   = "yahoo"
)

type Client struct {
	HttpClient *http.Client
	BaseURL    string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		HttpClient: &http.Client{Timeout: timeout},
		BaseURL:    baseURL,
	}
}

func (c *Client) Name() string {
	return providerName
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		Exchange  string `json:"exchange"`
	} `json:"quotes"`
}

// get performs the request and classifies transport failures, throttling
// and 5xx as network errors. other non-200 statuses are returned with the
// body so the caller can decide
func (c *Client) get(ctx context.Context, u string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	response, err := c.HttpClient.Do(req)
	if err != nil {
		return 0, nil, domain.NewNetworkError(providerName, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return 0, nil, domain.NewNetworkError(providerName, err)
	}

	if response.StatusCode == http.StatusTooManyRequests || response.StatusCode >= 500 {
		return response.StatusCode, nil, domain.NewNetworkError(
			providerName,
			fmt.Errorf("status %d: %s", response.StatusCode, string(body)),
		)
	}

	return response.StatusCode, body, nil
}

func (c *Client) FetchDailySeries(ctx context.Context, symbol string, rng domain.Range, interval domain.Interval) (*domain.QuoteSeries, error) {
	u := fmt.Sprintf(
		"%s/v8/finance/chart/%s?range=%s&interval=%s",
		c.BaseURL,
		url.PathEscape(symbol),
		url.QueryEscape(string(rng)),
		url.QueryEscape(string(interval)),
	)

	status, body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	chart := chartResponse{}
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, domain.NewProviderFormatError(providerName, "failed to decode chart for %s (status %d): %s", symbol, status, err.Error())
	}
	if chart.Chart.Error != nil {
		return nil, domain.NewProviderFormatError(providerName, "chart error for %s: %s", symbol, chart.Chart.Error.Description)
	}
	if status != http.StatusOK {
		return nil, domain.NewProviderFormatError(providerName, "unexpected status %d for %s", status, symbol)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, domain.NewProviderFormatError(providerName, "empty chart result for %s", symbol)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, domain.NewProviderFormatError(providerName, "chart for %s has no quote indicators", symbol)
	}
	quote := result.Indicators.Quote[0]
	n := len(result.Timestamp)
	if len(quote.Close) != n || len(quote.Open) != n || len(quote.High) != n || len(quote.Low) != n || len(quote.Volume) != n {
		return nil, domain.NewProviderFormatError(providerName, "chart for %s has misaligned arrays", symbol)
	}

	points := make([]domain.PricePoint, 0, n)
	for i, ts := range result.Timestamp {
		// holidays and halted days come back with null bars
		if quote.Close[i] == nil {
			continue
		}
		points = append(points, domain.PricePoint{
			Date:   domain.TruncateToDay(time.Unix(ts, 0)),
			Open:   valueOr(quote.Open[i], 0),
			High:   valueOr(quote.High[i], 0),
			Low:    valueOr(quote.Low[i], 0),
			Close:  *quote.Close[i],
			Volume: valueOr(quote.Volume[i], 0),
		})
	}
	if len(points) == 0 {
		return nil, domain.NewProviderFormatError(providerName, "no price data for %s", symbol)
	}

	return &domain.QuoteSeries{
		Symbol: symbol,
		Points: points,
	}, nil
}

func (c *Client) SearchSymbols(ctx context.Context, keywords string) ([]domain.SymbolMatch, error) {
	u := fmt.Sprintf("%s/v1/finance/search?q=%s&quotesCount=10&newsCount=0", c.BaseURL, url.QueryEscape(keywords))

	status, body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, domain.NewProviderFormatError(providerName, "unexpected search status %d", status)
	}

	response := searchResponse{}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, domain.NewProviderFormatError(providerName, "failed to decode search response: %s", err.Error())
	}

	out := make([]domain.SymbolMatch, 0, len(response.Quotes))
	for _, q := range response.Quotes {
		out = append(out, domain.SymbolMatch{
			Symbol: q.Symbol,
			Name:   q.ShortName,
			Region: q.Exchange,
		})
	}
	return out, nil
}

// ValidateSymbol accepts the symbol only when it is the top search hit
func (c *Client) ValidateSymbol(ctx context.Context, symbol string) (bool, error) {
	matches, err := c.SearchSymbols(ctx, symbol)
	if err != nil {
		return false, err
	}
	return len(matches) > 0 && matches[0].Symbol == symbol, nil
}

func valueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}
