package optimizer

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

func TestGetResult(t *testing.T) {
	ctx := context.Background()
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/p1", "/monte/p1":
			w.Write([]byte(`{"tickers": ["AAPL", "MSFT"], "weights": [0.4, 0.6], "sharpe": 1.2}`))
		case "/mvo/p1":
			w.Write([]byte(`{"tickers": ["AAPL", "MSFT"], "weights": [0.3, 0.7], "sharpe": 1.5, "annualVolatility": 0.21, "expectedAnnualReturn": 0.12}`))
		case "/mvo/broken":
			w.Write([]byte(`{"sharpe": 1}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()
	client := NewClient(server.URL+"/", 5*time.Second)

	t.Run("routes by method", func(t *testing.T) {
		paths = nil
		for _, m := range []Method{MethodDefault, MethodMonteCarlo, MethodMVO} {
			_, err := client.GetResult(ctx, m, "p1")
			require.NoError(t, err)
		}
		require.Equal(t, []string{"/p1", "/monte/p1", "/mvo/p1"}, paths)
	})

	t.Run("mvo metrics", func(t *testing.T) {
		vol, ret := 0.21, 0.12
		result, err := client.GetResult(ctx, MethodMVO, "p1")
		require.NoError(t, err)
		require.Equal(t, "", cmp.Diff(&Result{
			Tickers:              []string{"AAPL", "MSFT"},
			Weights:              []float64{0.3, 0.7},
			Sharpe:               1.5,
			AnnualVolatility:     &vol,
			ExpectedAnnualReturn: &ret,
		}, result))
	})

	t.Run("not found", func(t *testing.T) {
		_, err := client.GetResult(ctx, MethodMonteCarlo, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("missing arrays", func(t *testing.T) {
		_, err := client.GetResult(ctx, MethodMVO, "broken")
		require.ErrorIs(t, err, domain.ErrProviderFormat)
	})
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("")
	require.NoError(t, err)
	require.Equal(t, MethodDefault, m)

	m, err = ParseMethod("mvo")
	require.NoError(t, err)
	require.Equal(t, MethodMVO, m)

	_, err = ParseMethod("genetic")
	require.ErrorIs(t, err, domain.ErrValidation)
}
