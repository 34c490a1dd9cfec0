package repository

import (
	"context"
	"time"

	"portfoliohub/pkg/optimizer"
)

type OptimizerRepository interface {
	GetResult(ctx context.Context, method optimizer.Method, portfolioID string) (*optimizer.Result, error)
}

func NewOptimizerRepository(host string, timeout time.Duration) OptimizerRepository {
	return optimizerRepositoryHandler{
		Client: optimizer.NewClient(host, timeout),
	}
}

type optimizerRepositoryHandler struct {
	Client *optimizer.Client
}

func (h optimizerRepositoryHandler) GetResult(ctx context.Context, method optimizer.Method, portfolioID string) (*optimizer.Result, error) {
	return h.Client.GetResult(ctx, method, portfolioID)
}
