package api

import (
	"fmt"
	"net/http"
	"time"

	"portfoliohub/internal/calculator"
	"portfoliohub/internal/domain"

	"github.com/gin-gonic/gin"
)

// date -> % change since the first close in the cached window
type quotePerformanceResponse map[string]float64

func (m ApiHandler) getQuotePerformance(c *gin.Context) {
	granularity, err := calculator.ParseGranularity(c.Query("granularity"))
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	end := time.Now().UTC()
	if s := c.Query("end"); s != "" {
		end, err = time.Parse(time.DateOnly, s)
		if err != nil {
			returnErrorJson(domain.NewValidationError("invalid end date %q", s), c)
			return
		}
	}

	series, err := m.QuoteService.GetQuotes(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	results, err := calculator.IntraPeriodChange(*series, end, granularity)
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to compute performance: %w", err), c, http.StatusUnprocessableEntity)
		return
	}

	out := quotePerformanceResponse{}
	for k, v := range results {
		out[k.Format(time.DateOnly)] = v
	}

	c.JSON(http.StatusOK, out)
}
