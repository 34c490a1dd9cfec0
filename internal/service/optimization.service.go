package service

import (
	"context"
	"fmt"

	"portfoliohub/internal/domain"
	"portfoliohub/internal/logger"
	"portfoliohub/internal/repository"
	"portfoliohub/pkg/optimizer"

	"github.com/montanaflynn/stats"
)

type OptimizationService interface {
	Normalize(source domain.AllocationSource, tickers []string, weights []float64, metrics *domain.OptimizationMetrics) (*domain.AllocationView, error)
	GetOptimizedAllocation(ctx context.Context, portfolioID string, method optimizer.Method) (*domain.AllocationView, error)
}

type OptimizationServiceConfig struct {
	// Renormalize rescales optimizer weights to sum to 1. off by default,
	// weights are shown exactly as the optimizer returned them
	Renormalize bool
}

func NewOptimizationService(config OptimizationServiceConfig, optimizerRepository repository.OptimizerRepository) OptimizationService {
	return optimizationServiceHandler{
		Config:              config,
		OptimizerRepository: optimizerRepository,
	}
}

type optimizationServiceHandler struct {
	Config              OptimizationServiceConfig
	OptimizerRepository repository.OptimizerRepository
}

func (h optimizationServiceHandler) Normalize(source domain.AllocationSource, tickers []string, weights []float64, metrics *domain.OptimizationMetrics) (*domain.AllocationView, error) {
	if len(tickers) != len(weights) {
		return nil, &domain.ShapeMismatchError{
			NumTickers: len(tickers),
			NumWeights: len(weights),
		}
	}

	scale := 1.0
	if h.Config.Renormalize && len(weights) > 0 {
		sum, err := stats.Sum(weights)
		if err != nil {
			return nil, fmt.Errorf("failed to sum weights: %w", err)
		}
		if sum != 0 {
			scale = 1 / sum
		}
	}

	out := make([]domain.AllocationWeight, 0, len(tickers))
	for i, t := range tickers {
		out = append(out, domain.AllocationWeight{
			Symbol: t,
			Weight: weights[i] * scale,
		})
	}

	return &domain.AllocationView{
		Source:  source,
		Weights: out,
		Metrics: metrics,
	}, nil
}

func allocationSource(method optimizer.Method) domain.AllocationSource {
	switch method {
	case optimizer.MethodMonteCarlo:
		return domain.AllocationSourceMonteCarlo
	case optimizer.MethodMVO:
		return domain.AllocationSourceMVO
	}
	return domain.AllocationSourceOptimizer
}

func (h optimizationServiceHandler) GetOptimizedAllocation(ctx context.Context, portfolioID string, method optimizer.Method) (*domain.AllocationView, error) {
	if portfolioID == "" {
		return nil, domain.NewValidationError("portfolio id is required")
	}
	profile, _ := domain.GetProfile(ctx)

	_, endSpan := profile.StartSpan("optimizer.get")
	result, err := h.OptimizerRepository.GetResult(ctx, method, portfolioID)
	endSpan()
	if err != nil {
		return nil, fmt.Errorf("failed to get %s optimization for %s: %w", method, portfolioID, err)
	}

	view, err := h.Normalize(
		allocationSource(method),
		result.Tickers,
		result.Weights,
		&domain.OptimizationMetrics{
			Sharpe:               result.Sharpe,
			AnnualVolatility:     result.AnnualVolatility,
			ExpectedAnnualReturn: result.ExpectedAnnualReturn,
		},
	)
	if err != nil {
		logger.FromContext(ctx).Errorw("optimizer returned malformed result", "portfolioID", portfolioID, "method", method, "error", err.Error())
		return nil, fmt.Errorf("failed to normalize %s optimization for %s: %w", method, portfolioID, err)
	}

	return view, nil
}
