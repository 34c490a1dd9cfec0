package api

import (
	"errors"
	"io"
	"net/http"

	"portfoliohub/internal/domain"

	"github.com/gin-gonic/gin"
)

type updatePricesRequest struct {
	Symbols []string `json:"symbols"`
}

type updatePricesResponse struct {
	Message   string            `json:"message"`
	Refreshed []string          `json:"refreshed"`
	Failed    map[string]string `json:"failed,omitempty"`
}

// updatePrices warms the cache for the given symbols, or the configured
// watchlist when the body is empty
func (m ApiHandler) updatePrices(c *gin.Context) {
	var requestBody updatePricesRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil && !errors.Is(err, io.EOF) {
		returnErrorJson(domain.NewValidationError("failed to read request body: %s", err.Error()), c)
		return
	}

	symbols := requestBody.Symbols
	if len(symbols) == 0 {
		symbols = m.Watchlist
	}

	result, err := m.QuoteRefreshService.RefreshSymbols(c.Request.Context(), symbols)
	if result == nil {
		returnErrorJson(err, c)
		return
	}

	out := updatePricesResponse{
		Message:   "ok",
		Refreshed: result.Refreshed,
		Failed:    result.Failed,
	}
	if err != nil {
		// partial refresh, report what failed
		out.Message = err.Error()
		c.JSON(http.StatusMultiStatus, out)
		return
	}

	c.JSON(http.StatusOK, out)
}
