package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portfoliohub/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second)
}

func TestFetchDailySeries(t *testing.T) {
	ctx := context.Background()

	t.Run("parses chart and skips null closes", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
			require.Equal(t, "1y", r.URL.Query().Get("range"))
			require.Equal(t, "1d", r.URL.Query().Get("interval"))
			w.Write([]byte(`{"chart": {"result": [{
				"timestamp": [1704205800, 1704292200, 1704378600],
				"indicators": {"quote": [{
					"open":   [187.15, null, 182.15],
					"high":   [188.44, null, 183.09],
					"low":    [183.89, null, 180.88],
					"close":  [185.64, null, 181.91],
					"volume": [82488700, null, 71983600]
				}]}
			}], "error": null}}`))
		})

		series, err := client.FetchDailySeries(ctx, "AAPL", domain.OneYearRange, domain.OneDayInterval)
		require.NoError(t, err)

		expected := &domain.QuoteSeries{
			Symbol: "AAPL",
			Points: []domain.PricePoint{
				{
					Date:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
					Open:   187.15,
					High:   188.44,
					Low:    183.89,
					Close:  185.64,
					Volume: 82488700,
				},
				{
					Date:   time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
					Open:   182.15,
					High:   183.09,
					Low:    180.88,
					Close:  181.91,
					Volume: 71983600,
				},
			},
		}
		require.Equal(t, "", cmp.Diff(expected, series))
	})

	t.Run("empty result is a format error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"chart": {"result": []}}`))
		})

		_, err := client.FetchDailySeries(ctx, "AAPL", domain.OneYearRange, domain.OneDayInterval)
		require.ErrorIs(t, err, domain.ErrProviderFormat)
	})

	t.Run("result without bars is a format error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"chart":{"result":[{"meta":{"symbol":"XYZ"},"indicators":{"quote":[{}]}}],"error":null}}`))
		})

		series, err := client.FetchDailySeries(ctx, "XYZ", domain.OneYearRange, domain.OneDayInterval)
		require.ErrorIs(t, err, domain.ErrProviderFormat)
		require.ErrorContains(t, err, "no price data for XYZ")
		require.Nil(t, series)
	})

	t.Run("all null closes is a format error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"chart": {"result": [{
				"timestamp": [1704205800, 1704292200],
				"indicators": {"quote": [{"open": [null, null], "high": [null, null], "low": [null, null], "close": [null, null], "volume": [null, null]}]}
			}]}}`))
		})

		_, err := client.FetchDailySeries(ctx, "AAPL", domain.OneYearRange, domain.OneDayInterval)
		require.ErrorIs(t, err, domain.ErrProviderFormat)
	})

	t.Run("misaligned arrays", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"chart": {"result": [{
				"timestamp": [1704205800, 1704292200],
				"indicators": {"quote": [{"open": [1], "high": [1], "low": [1], "close": [1], "volume": [1]}]}
			}]}}`))
		})

		_, err := client.FetchDailySeries(ctx, "AAPL", domain.OneYearRange, domain.OneDayInterval)
		require.ErrorIs(t, err, domain.ErrProviderFormat)
	})

	t.Run("chart error for unknown symbol", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}}}`))
		})

		_, err := client.FetchDailySeries(ctx, "ZZZZ", domain.OneYearRange, domain.OneDayInterval)
		require.ErrorIs(t, err, domain.ErrProviderFormat)
		require.ErrorContains(t, err, "delisted")
	})

	t.Run("throttled is a network error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := client.FetchDailySeries(ctx, "AAPL", domain.OneYearRange, domain.OneDayInterval)
		require.ErrorIs(t, err, domain.ErrNetwork)
	})

	t.Run("server error is a network error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.FetchDailySeries(ctx, "AAPL", domain.OneYearRange, domain.OneDayInterval)
		require.ErrorIs(t, err, domain.ErrNetwork)
	})

	t.Run("transport failure is a network error", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()
		client := NewClient(server.URL, time.Second)

		_, err := client.FetchDailySeries(ctx, "AAPL", domain.OneYearRange, domain.OneDayInterval)
		require.ErrorIs(t, err, domain.ErrNetwork)
	})
}

func TestValidateSymbol(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/finance/search", r.URL.Path)
		switch r.URL.Query().Get("q") {
		case "AAPL", "AAPLX":
			w.Write([]byte(`{"quotes": [{"symbol": "AAPL", "shortname": "Apple Inc.", "exchange": "NMS"}]}`))
		default:
			w.Write([]byte(`{"quotes": []}`))
		}
	})

	t.Run("exact first match", func(t *testing.T) {
		ok, err := client.ValidateSymbol(ctx, "AAPL")
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("first match differs", func(t *testing.T) {
		ok, err := client.ValidateSymbol(ctx, "AAPLX")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("case sensitive", func(t *testing.T) {
		ok, err := client.ValidateSymbol(ctx, "aapl")
		require.NoError(t, err)
		require.False(t, ok)
	})
}
