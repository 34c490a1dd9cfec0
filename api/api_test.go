package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"portfoliohub/internal/domain"
	mock_repository "portfoliohub/internal/repository/mocks"
	"portfoliohub/internal/service"
	"portfoliohub/internal/util"
	"portfoliohub/pkg/optimizer"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type testDeps struct {
	provider  *mock_repository.MockMarketDataRepository
	optimizer *mock_repository.MockOptimizerRepository
	handler   ApiHandler
}

func newTestDeps(t *testing.T) testDeps {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)

	provider := mock_repository.NewMockMarketDataRepository(ctrl)
	provider.EXPECT().Name().Return("mock").AnyTimes()
	optimizerRepository := mock_repository.NewMockOptimizerRepository(ctrl)

	validator := service.NewTickerValidatorService(provider)
	quoteService, err := service.NewQuoteService(
		service.DefaultQuoteServiceConfig(),
		util.NewFakeClock(time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)),
		provider,
		nil,
		validator,
	)
	require.NoError(t, err)

	return testDeps{
		provider:  provider,
		optimizer: optimizerRepository,
		handler: ApiHandler{
			QuoteService:           quoteService,
			TickerValidatorService: validator,
			ValuationService:       service.NewValuationService(),
			OptimizationService:    service.NewOptimizationService(service.OptimizationServiceConfig{}, optimizerRepository),
			QuoteRefreshService:    service.NewQuoteRefreshService(quoteService, 2),
			Watchlist:              []string{"AAPL", "MSFT"},
			Logger:                 zap.NewNop().Sugar(),
		},
	}
}

func (d testDeps) do(method, path string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	d.handler.InitializeRouterEngine().ServeHTTP(w, req)
	return w
}

func aaplSeries() *domain.QuoteSeries {
	return &domain.QuoteSeries{
		Symbol: "AAPL",
		Points: []domain.PricePoint{
			{Date: util.NewDate(2024, 6, 12), Open: 99, High: 101, Low: 98, Close: 100, Volume: 10},
			{Date: util.NewDate(2024, 6, 13), Open: 100, High: 111, Low: 100, Close: 110, Volume: 20},
		},
	}
}

func TestGetQuotes(t *testing.T) {
	t.Run("returns json series", func(t *testing.T) {
		d := newTestDeps(t)
		d.provider.EXPECT().FetchDailySeries(gomock.Any(), "AAPL", domain.OneYearRange, domain.OneDayInterval).Return(aaplSeries(), nil)

		w := d.do(http.MethodGet, "/quotes/AAPL", "")
		require.Equal(t, http.StatusOK, w.Code)
		require.NotEmpty(t, w.Header().Get("X-Request-ID"))

		var resp getQuotesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, "AAPL", resp.Symbol)
		require.Equal(t, time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC), resp.LastUpdated)
		require.Equal(t, []QuoteRow{
			{Date: "2024-06-12", Close: 100, Volume: 10, Open: 99, High: 101, Low: 98, Symbol: "AAPL"},
			{Date: "2024-06-13", Close: 110, Volume: 20, Open: 100, High: 111, Low: 100, Symbol: "AAPL"},
		}, resp.Data)
	})

	t.Run("second request is served from cache", func(t *testing.T) {
		d := newTestDeps(t)
		d.provider.EXPECT().FetchDailySeries(gomock.Any(), "AAPL", gomock.Any(), gomock.Any()).Return(aaplSeries(), nil).Times(1)

		require.Equal(t, http.StatusOK, d.do(http.MethodGet, "/quotes/AAPL", "").Code)
		require.Equal(t, http.StatusOK, d.do(http.MethodGet, "/quotes/AAPL", "").Code)
	})

	t.Run("returns csv", func(t *testing.T) {
		d := newTestDeps(t)
		d.provider.EXPECT().FetchDailySeries(gomock.Any(), "AAPL", gomock.Any(), gomock.Any()).Return(aaplSeries(), nil)

		w := d.do(http.MethodGet, "/quotes/AAPL?format=csv", "")
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "text/csv", w.Header().Get("Content-Type"))

		lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
		require.Equal(t, []string{
			"date,close,volume,open,high,low,symbol",
			"2024-06-12,100,10,99,101,98,AAPL",
			"2024-06-13,110,20,100,111,100,AAPL",
		}, lines)
	})

	t.Run("provider failure is 503 without details", func(t *testing.T) {
		d := newTestDeps(t)
		d.provider.EXPECT().FetchDailySeries(gomock.Any(), "AAPL", gomock.Any(), gomock.Any()).
			Return(nil, domain.NewNetworkError("mock", fmt.Errorf("connection refused")))

		w := d.do(http.MethodGet, "/quotes/AAPL", "")
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		require.JSONEq(t, `{"error":"data unavailable, try again later"}`, w.Body.String())
	})
}

func TestGetQuoteMetrics(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		d := newTestDeps(t)
		d.provider.EXPECT().FetchDailySeries(gomock.Any(), "AAPL", gomock.Any(), gomock.Any()).Return(aaplSeries(), nil)

		w := d.do(http.MethodGet, "/quotes/AAPL/metrics", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.InDelta(t, 0.1, resp["periodReturn"], 1e-9)
		require.Equal(t, float64(2), resp["numPoints"])
	})
}

func TestGetQuotePerformance(t *testing.T) {
	t.Run("daily change", func(t *testing.T) {
		d := newTestDeps(t)
		d.provider.EXPECT().FetchDailySeries(gomock.Any(), "AAPL", gomock.Any(), gomock.Any()).Return(aaplSeries(), nil)

		w := d.do(http.MethodGet, "/quotes/AAPL/performance?granularity=daily&end=2024-06-13", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp quotePerformanceResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.InDelta(t, 0, resp["2024-06-12"], 1e-9)
		require.InDelta(t, 10, resp["2024-06-13"], 1e-9)
	})

	t.Run("unknown granularity", func(t *testing.T) {
		d := newTestDeps(t)
		w := d.do(http.MethodGet, "/quotes/AAPL/performance?granularity=hourly", "")
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestValidateTicker(t *testing.T) {
	t.Run("valid and invalid", func(t *testing.T) {
		d := newTestDeps(t)
		d.provider.EXPECT().ValidateSymbol(gomock.Any(), "AAPL").Return(true, nil)
		d.provider.EXPECT().ValidateSymbol(gomock.Any(), "AAPLX").Return(false, nil)

		w := d.do(http.MethodGet, "/tickers/AAPL/validate", "")
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"symbol":"AAPL","valid":true}`, w.Body.String())

		w = d.do(http.MethodGet, "/tickers/AAPLX/validate", "")
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"symbol":"AAPLX","valid":false}`, w.Body.String())
	})

	t.Run("provider error", func(t *testing.T) {
		d := newTestDeps(t)
		d.provider.EXPECT().ValidateSymbol(gomock.Any(), "AAPL").Return(false, domain.NewNetworkError("mock", fmt.Errorf("rate limited")))

		w := d.do(http.MethodGet, "/tickers/AAPL/validate", "")
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestValidateStock(t *testing.T) {
	t.Run("normalizes ticker", func(t *testing.T) {
		d := newTestDeps(t)
		d.provider.EXPECT().ValidateSymbol(gomock.Any(), "AAPL").Return(true, nil)

		w := d.do(http.MethodPost, "/stocks/validate", `{"ticker":" aapl ","price":"189.50"}`)
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"ticker":"AAPL","price":"189.5"}`, w.Body.String())
	})

	t.Run("negative price", func(t *testing.T) {
		d := newTestDeps(t)
		w := d.do(http.MethodPost, "/stocks/validate", `{"ticker":"AAPL","price":-1}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown ticker", func(t *testing.T) {
		d := newTestDeps(t)
		d.provider.EXPECT().ValidateSymbol(gomock.Any(), "ZZZZ").Return(false, nil)

		w := d.do(http.MethodPost, "/stocks/validate", `{"ticker":"ZZZZ","price":10}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestValuation(t *testing.T) {
	t.Run("stocks", func(t *testing.T) {
		d := newTestDeps(t)
		w := d.do(http.MethodPost, "/valuation", `{"stocks":[{"ticker":"A","price":"100"},{"ticker":"B","price":"300"}]}`)
		require.Equal(t, http.StatusOK, w.Code)

		var view domain.AllocationView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		require.Equal(t, domain.AllocationSourceValuation, view.Source)
		require.Equal(t, []string{"A", "B"}, view.Symbols())
		require.InDelta(t, 0.25, view.Weights[0].Weight, 1e-9)
		require.InDelta(t, 0.75, view.Weights[1].Weight, 1e-9)
	})

	t.Run("portfolio", func(t *testing.T) {
		d := newTestDeps(t)
		w := d.do(http.MethodPost, "/valuation", `{"portfolio":{"id":"p1","stocks":[{"ticker":"A","price":"5"}]}}`)
		require.Equal(t, http.StatusOK, w.Code)

		var view domain.AllocationView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		require.InDelta(t, 1, view.Weights[0].Weight, 1e-9)
	})

	t.Run("both is rejected", func(t *testing.T) {
		d := newTestDeps(t)
		w := d.do(http.MethodPost, "/valuation", `{"portfolio":{"id":"p1"},"stocks":[]}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetOptimization(t *testing.T) {
	t.Run("passes weights through", func(t *testing.T) {
		d := newTestDeps(t)
		d.optimizer.EXPECT().GetResult(gomock.Any(), optimizer.MethodMVO, "p1").Return(&optimizer.Result{
			Tickers: []string{"AAPL", "MSFT"},
			Weights: []float64{0.6, 0.5},
			Sharpe:  1.2,
		}, nil)

		w := d.do(http.MethodGet, "/portfolios/p1/optimization?method=mvo", "")
		require.Equal(t, http.StatusOK, w.Code)

		var view domain.AllocationView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		require.Equal(t, domain.AllocationSourceMVO, view.Source)
		require.InDelta(t, 1.1, view.WeightSum(), 1e-9)
	})

	t.Run("shape mismatch is 502", func(t *testing.T) {
		d := newTestDeps(t)
		d.optimizer.EXPECT().GetResult(gomock.Any(), optimizer.MethodDefault, "p1").Return(&optimizer.Result{
			Tickers: []string{"AAPL", "MSFT"},
			Weights: []float64{0.2, 0.3, 0.5},
		}, nil)

		w := d.do(http.MethodGet, "/portfolios/p1/optimization", "")
		require.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("missing result is 404", func(t *testing.T) {
		d := newTestDeps(t)
		d.optimizer.EXPECT().GetResult(gomock.Any(), optimizer.MethodMonteCarlo, "p1").
			Return(nil, fmt.Errorf("no result: %w", domain.ErrNotFound))

		w := d.do(http.MethodGet, "/portfolios/p1/optimization?method=monte", "")
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown method", func(t *testing.T) {
		d := newTestDeps(t)
		w := d.do(http.MethodGet, "/portfolios/p1/optimization?method=genetic", "")
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUpdatePrices(t *testing.T) {
	t.Run("defaults to watchlist", func(t *testing.T) {
		d := newTestDeps(t)
		d.provider.EXPECT().FetchDailySeries(gomock.Any(), "AAPL", gomock.Any(), gomock.Any()).Return(aaplSeries(), nil)
		d.provider.EXPECT().FetchDailySeries(gomock.Any(), "MSFT", gomock.Any(), gomock.Any()).Return(&domain.QuoteSeries{Symbol: "MSFT"}, nil)

		w := d.do(http.MethodPost, "/updatePrices", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp updatePricesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, []string{"AAPL", "MSFT"}, resp.Refreshed)
	})

	t.Run("partial failure", func(t *testing.T) {
		d := newTestDeps(t)
		d.provider.EXPECT().FetchDailySeries(gomock.Any(), "AAPL", gomock.Any(), gomock.Any()).Return(aaplSeries(), nil)
		d.provider.EXPECT().FetchDailySeries(gomock.Any(), "BAD", gomock.Any(), gomock.Any()).
			Return(nil, domain.NewProviderFormatError("mock", "no data"))

		w := d.do(http.MethodPost, "/updatePrices", `{"symbols":["AAPL","BAD"]}`)
		require.Equal(t, http.StatusMultiStatus, w.Code)

		var resp updatePricesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, []string{"AAPL"}, resp.Refreshed)
		require.Contains(t, resp.Failed, "BAD")
	})
}

func Test_errorStatusCode(t *testing.T) {
	require.Equal(t, http.StatusServiceUnavailable, errorStatusCode(&domain.FetchError{Symbol: "X", Err: domain.NewValidationError("x")}))
	require.Equal(t, http.StatusBadRequest, errorStatusCode(domain.NewValidationError("x")))
	require.Equal(t, http.StatusBadGateway, errorStatusCode(&domain.ShapeMismatchError{NumTickers: 1, NumWeights: 2}))
	require.Equal(t, http.StatusInternalServerError, errorStatusCode(fmt.Errorf("boom")))
}
