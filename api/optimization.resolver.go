package api

import (
	"net/http"

	"portfoliohub/pkg/optimizer"

	"github.com/gin-gonic/gin"
)

func (m ApiHandler) getOptimization(c *gin.Context) {
	method, err := optimizer.ParseMethod(c.Query("method"))
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	view, err := m.OptimizationService.GetOptimizedAllocation(c.Request.Context(), c.Param("portfolioID"), method)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(http.StatusOK, view)
}
