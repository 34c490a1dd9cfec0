package api

import (
	"fmt"
	"net/http"
	"time"

	"portfoliohub/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"
)

type QuoteRow struct {
	Date   string  `json:"date" csv:"date"`
	Close  float64 `json:"close" csv:"close"`
	Volume int64   `json:"volume" csv:"volume"`
	Open   float64 `json:"open" csv:"open"`
	High   float64 `json:"high" csv:"high"`
	Low    float64 `json:"low" csv:"low"`
	Symbol string  `json:"symbol" csv:"symbol"`
}

type getQuotesResponse struct {
	Symbol      string     `json:"symbol"`
	LastUpdated time.Time  `json:"lastUpdated"`
	Data        []QuoteRow `json:"data"`
}

func NewQuoteRows(entry domain.CacheEntry) []QuoteRow {
	out := make([]QuoteRow, 0, len(entry.Series.Points))
	for _, p := range entry.Series.Points {
		out = append(out, QuoteRow{
			Date:   p.Date.Format(time.DateOnly),
			Close:  p.Close,
			Volume: p.Volume,
			Open:   p.Open,
			High:   p.High,
			Low:    p.Low,
			Symbol: entry.Symbol,
		})
	}
	return out
}

func (m ApiHandler) getQuotes(c *gin.Context) {
	symbol := c.Param("symbol")

	entry, err := m.QuoteService.GetEntry(c.Request.Context(), symbol)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	rows := NewQuoteRows(*entry)

	if c.Query("format") == "csv" {
		out, err := gocsv.MarshalBytes(&rows)
		if err != nil {
			returnErrorJson(fmt.Errorf("failed to encode csv: %w", err), c)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", entry.Symbol))
		c.Data(http.StatusOK, "text/csv", out)
		return
	}

	c.JSON(http.StatusOK, getQuotesResponse{
		Symbol:      entry.Symbol,
		LastUpdated: entry.FetchedAt,
		Data:        rows,
	})
}
