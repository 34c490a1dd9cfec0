package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"portfoliohub/internal/domain"

	"github.com/gin-gonic/gin"
)

type validateTickerResponse struct {
	Symbol string `json:"symbol"`
	Valid  bool   `json:"valid"`
}

func (m ApiHandler) validateTicker(c *gin.Context) {
	symbol := c.Param("symbol")

	valid, err := m.TickerValidatorService.Validate(c.Request.Context(), symbol)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(http.StatusOK, validateTickerResponse{
		Symbol: symbol,
		Valid:  valid,
	})
}

type validateStockRequest struct {
	Ticker string `json:"ticker"`
	// accepts 12.5 or "12.5"
	Price json.Number `json:"price"`
}

func (m ApiHandler) validateStock(c *gin.Context) {
	var requestBody validateStockRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJson(domain.NewValidationError("failed to read request body: %s", err.Error()), c)
		return
	}

	entry, err := m.TickerValidatorService.ValidateStockEntry(c.Request.Context(), requestBody.Ticker, requestBody.Price.String())
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to validate stock: %w", err), c)
		return
	}

	c.JSON(http.StatusOK, entry)
}
