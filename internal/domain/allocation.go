package domain

import (
	"github.com/shopspring/decimal"
)

type AllocationSource string

const (
	AllocationSourceValuation  AllocationSource = "valuation"
	AllocationSourceOptimizer  AllocationSource = "optimizer"
	AllocationSourceMonteCarlo AllocationSource = "monte"
	AllocationSourceMVO        AllocationSource = "mvo"
)

type AllocationWeight struct {
	Symbol string  `json:"symbol"`
	Weight float64 `json:"weight"`
}

// AllocationView is what charts and tables consume, regardless of whether
// the weights came from stored prices or from the optimizer.
//
// Weights are not guaranteed to sum to 1. Valuation weights do by
// construction (unless every price is 0); optimizer weights are passed
// through as received unless renormalization is enabled
type AllocationView struct {
	Source     AllocationSource     `json:"source"`
	Weights    []AllocationWeight   `json:"weights"`
	TotalValue *decimal.Decimal     `json:"totalValue,omitempty"`
	Metrics    *OptimizationMetrics `json:"metrics,omitempty"`
}

func (a AllocationView) Symbols() []string {
	out := make([]string, 0, len(a.Weights))
	for _, w := range a.Weights {
		out = append(out, w.Symbol)
	}
	return out
}

func (a AllocationView) WeightSum() float64 {
	sum := 0.0
	for _, w := range a.Weights {
		sum += w.Weight
	}
	return sum
}

// OptimizationMetrics is display metadata from the optimizer. nothing
// in this repo computes with it
type OptimizationMetrics struct {
	Sharpe               float64  `json:"sharpe"`
	AnnualVolatility     *float64 `json:"annualVolatility,omitempty"`
	ExpectedAnnualReturn *float64 `json:"expectedAnnualReturn,omitempty"`
}
