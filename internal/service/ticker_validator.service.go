package service

import (
	"context"
	"fmt"
	"strings"

	"portfoliohub/internal/domain"
	"portfoliohub/internal/logger"
	"portfoliohub/internal/repository"

	"github.com/shopspring/decimal"
)

type TickerValidatorService interface {
	// Validate fails closed: when the provider can't answer the result
	// is false with the provider's error
	Validate(ctx context.Context, symbol string) (bool, error)
	ValidateStockEntry(ctx context.Context, ticker string, price string) (*domain.StockEntry, error)
}

func NewTickerValidatorService(provider repository.MarketDataRepository) TickerValidatorService {
	return tickerValidatorServiceHandler{
		Provider: provider,
	}
}

type tickerValidatorServiceHandler struct {
	Provider repository.MarketDataRepository
}

func (h tickerValidatorServiceHandler) Validate(ctx context.Context, symbol string) (bool, error) {
	if symbol == "" {
		return false, nil
	}

	ok, err := h.Provider.ValidateSymbol(ctx, symbol)
	if err != nil {
		logger.FromContext(ctx).Warnw("ticker validation unavailable", "symbol", symbol, "provider", h.Provider.Name(), "error", err.Error())
		return false, fmt.Errorf("failed to validate %s: %w", symbol, err)
	}

	return ok, nil
}

func (h tickerValidatorServiceHandler) ValidateStockEntry(ctx context.Context, ticker string, price string) (*domain.StockEntry, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	price = strings.TrimSpace(price)
	if ticker == "" || price == "" {
		return nil, domain.NewValidationError("ticker and price are required")
	}

	p, err := decimal.NewFromString(price)
	if err != nil {
		return nil, domain.NewValidationError("price %q is not a number", price)
	}
	if !p.IsPositive() {
		return nil, domain.NewValidationError("price must be positive, got %s", p.String())
	}

	ok, err := h.Validate(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewValidationError("invalid ticker symbol %s", ticker)
	}

	return &domain.StockEntry{
		Ticker: ticker,
		Price:  p,
	}, nil
}
