package api

import (
	"net/http"

	"portfoliohub/internal/domain"

	"github.com/gin-gonic/gin"
)

// exactly one of Portfolio or Stocks is expected
type valuationRequest struct {
	Portfolio *domain.Portfolio   `json:"portfolio"`
	Stocks    []domain.StockEntry `json:"stocks"`
}

func (m ApiHandler) valuation(c *gin.Context) {
	var requestBody valuationRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJson(domain.NewValidationError("failed to read request body: %s", err.Error()), c)
		return
	}

	var view domain.AllocationView
	switch {
	case requestBody.Portfolio != nil && requestBody.Stocks != nil:
		returnErrorJson(domain.NewValidationError("send either portfolio or stocks, not both"), c)
		return
	case requestBody.Portfolio != nil:
		view = m.ValuationService.AggregatePortfolio(*requestBody.Portfolio)
	default:
		view = m.ValuationService.Aggregate(requestBody.Stocks)
	}

	c.JSON(http.StatusOK, view)
}
