package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"portfoliohub/internal/domain"
	"portfoliohub/internal/logger"
	"portfoliohub/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ApiHandler struct {
	QuoteService           service.QuoteService
	TickerValidatorService service.TickerValidatorService
	ValuationService       service.ValuationService
	OptimizationService    service.OptimizationService
	QuoteRefreshService    service.QuoteRefreshService

	// symbols warmed by /updatePrices when the request names none
	Watchlist []string
	Logger    *zap.SugaredLogger

	// released by CloseDependencies
	Closers []func() error
}

func (m ApiHandler) InitializeRouterEngine() *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(m.logRequestMiddlware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to portfoliohub"})
	})

	router.GET("/quotes/:symbol", m.getQuotes)
	router.GET("/quotes/:symbol/metrics", m.getQuoteMetrics)
	router.GET("/quotes/:symbol/performance", m.getQuotePerformance)

	router.GET("/tickers/:symbol/validate", m.validateTicker)
	router.POST("/stocks/validate", m.validateStock)

	router.POST("/valuation", m.valuation)
	router.GET("/portfolios/:portfolioID/optimization", m.getOptimization)

	router.POST("/updatePrices", m.updatePrices)

	return router
}

func (m ApiHandler) StartApi(port int) error {
	router := m.InitializeRouterEngine()
	return router.Run(fmt.Sprintf(":%d", port))
}

// errorStatusCode maps domain errors onto http statuses. fetch errors are
// checked first since they wrap the provider's own error
func errorStatusCode(err error) int {
	var fetchErr *domain.FetchError
	switch {
	case errors.As(err, &fetchErr):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrShapeMismatch), errors.Is(err, domain.ErrProviderFormat):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrNetwork):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func returnErrorJson(err error, c *gin.Context) {
	code := errorStatusCode(err)

	message := err.Error()
	var fetchErr *domain.FetchError
	if errors.As(err, &fetchErr) {
		// callers only need to know it's transient
		message = "data unavailable, try again later"
	}

	logger.FromContext(c.Request.Context()).Errorw("request failed", "status", code, "error", err.Error())
	c.AbortWithStatusJSON(code, gin.H{
		"error": message,
	})
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	logger.FromContext(c.Request.Context()).Warnw("request failed", "status", code, "error", err.Error())
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

func (m ApiHandler) logRequestMiddlware(ctx *gin.Context) {
	requestID := ctx.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ctx.Header("X-Request-ID", requestID)

	base := m.Logger
	if base == nil {
		base = zap.S()
	}
	log := base.With("requestId", requestID)

	reqCtx := logger.WithLogger(ctx.Request.Context(), log)
	reqCtx, profile := domain.NewCtxWithProfile(reqCtx)
	ctx.Request = ctx.Request.WithContext(reqCtx)

	start := time.Now().UTC()

	ctx.Next()

	profile.End()
	log.Infow(
		"handled request",
		"method", ctx.Request.Method,
		"route", ctx.FullPath(),
		"ip", ctx.ClientIP(),
		"status", ctx.Writer.Status(),
		"durationMs", time.Since(start).Milliseconds(),
		"spans", profile.SpanNames(),
	)
}
