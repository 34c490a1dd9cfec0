package optimizer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"portfoliohub/internal/domain"
)

const providerName = "optimizer"

type Method string

const (
	MethodDefault    Method = "default"
	MethodMonteCarlo Method = "monte"
	MethodMVO        Method = "mvo"
)

func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case "", MethodDefault:
		return MethodDefault, nil
	case MethodMonteCarlo, MethodMVO:
		return Method(s), nil
	}
	return "", domain.NewValidationError("unknown optimization method %q", s)
}

// Result is the raw optimizer payload. tickers and weights are parallel
// arrays and are not checked here
type Result struct {
	Tickers              []string  `json:"tickers"`
	Weights              []float64 `json:"weights"`
	Sharpe               float64   `json:"sharpe"`
	AnnualVolatility     *float64  `json:"annualVolatility"`
	ExpectedAnnualReturn *float64  `json:"expectedAnnualReturn"`
}

type Client struct {
	HttpClient *http.Client
	Host       string
}

func NewClient(host string, timeout time.Duration) *Client {
	return &Client{
		HttpClient: &http.Client{Timeout: timeout},
		Host:       strings.TrimRight(host, "/"),
	}
}

func (c *Client) path(method Method, portfolioID string) string {
	id := url.PathEscape(portfolioID)
	if method == MethodDefault {
		return fmt.Sprintf("%s/%s", c.Host, id)
	}
	return fmt.Sprintf("%s/%s/%s", c.Host, method, id)
}

func (c *Client) GetResult(ctx context.Context, method Method, portfolioID string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.path(method, portfolioID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	response, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, domain.NewNetworkError(providerName, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, domain.NewNetworkError(providerName, err)
	}

	switch {
	case response.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: no %s optimization for portfolio %s", domain.ErrNotFound, method, portfolioID)
	case response.StatusCode == http.StatusTooManyRequests || response.StatusCode >= 500:
		return nil, domain.NewNetworkError(providerName, fmt.Errorf("status %d: %s", response.StatusCode, string(body)))
	case response.StatusCode != http.StatusOK:
		return nil, domain.NewProviderFormatError(providerName, "unexpected status %d: %s", response.StatusCode, string(body))
	}

	result := Result{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, domain.NewProviderFormatError(providerName, "failed to decode result: %s", err.Error())
	}
	if result.Tickers == nil || result.Weights == nil {
		return nil, domain.NewProviderFormatError(providerName, "result for portfolio %s is missing tickers or weights", portfolioID)
	}

	return &result, nil
}
