package service

import (
	"portfoliohub/internal/domain"

	"github.com/shopspring/decimal"
)

type ValuationService interface {
	Aggregate(stocks []domain.StockEntry) domain.AllocationView
	AggregatePortfolio(portfolio domain.Portfolio) domain.AllocationView
}

func NewValuationService() ValuationService {
	return valuationServiceHandler{}
}

type valuationServiceHandler struct{}

// Aggregate weights every entry by its share of the summed price. entries
// keep their input order and duplicate tickers stay separate
func (h valuationServiceHandler) Aggregate(stocks []domain.StockEntry) domain.AllocationView {
	total := decimal.Zero
	for _, s := range stocks {
		total = total.Add(s.Price)
	}

	weights := make([]domain.AllocationWeight, 0, len(stocks))
	for _, s := range stocks {
		weight := 0.0
		if !total.IsZero() {
			weight = s.Price.Div(total).InexactFloat64()
		}
		weights = append(weights, domain.AllocationWeight{
			Symbol: s.Ticker,
			Weight: weight,
		})
	}

	return domain.AllocationView{
		Source:     domain.AllocationSourceValuation,
		Weights:    weights,
		TotalValue: &total,
	}
}

func (h valuationServiceHandler) AggregatePortfolio(portfolio domain.Portfolio) domain.AllocationView {
	return h.Aggregate(portfolio.Stocks)
}
