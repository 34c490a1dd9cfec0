package api

import (
	"net/http"

	"portfoliohub/internal/calculator"

	"github.com/gin-gonic/gin"
)

func (m ApiHandler) getQuoteMetrics(c *gin.Context) {
	series, err := m.QuoteService.GetQuotes(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	metrics, err := calculator.CalculateSeriesMetrics(*series)
	if err != nil {
		returnErrorJsonCode(err, c, http.StatusUnprocessableEntity)
		return
	}

	c.JSON(http.StatusOK, metrics)
}
