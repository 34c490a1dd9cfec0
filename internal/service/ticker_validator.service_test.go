package service

import (
	"context"
	"errors"
	"testing"

	"portfoliohub/internal/domain"
	mock_repository "portfoliohub/internal/repository/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestTickerValidatorService(t *testing.T) {
	ctx := context.Background()

	t.Run("provider error fails closed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		provider := mock_repository.NewMockMarketDataRepository(ctrl)
		provider.EXPECT().Name().Return("alphavantage").AnyTimes()
		provider.EXPECT().
			ValidateSymbol(gomock.Any(), "AAPL").
			Return(false, domain.NewNetworkError("alphavantage", errors.New("timeout")))

		ok, err := NewTickerValidatorService(provider).Validate(ctx, "AAPL")
		require.ErrorIs(t, err, domain.ErrNetwork)
		require.False(t, ok)
	})

	t.Run("empty symbol skips the provider", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		provider := mock_repository.NewMockMarketDataRepository(ctrl)

		ok, err := NewTickerValidatorService(provider).Validate(ctx, "")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("stock entry is normalized", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		provider := mock_repository.NewMockMarketDataRepository(ctrl)
		provider.EXPECT().ValidateSymbol(gomock.Any(), "MSFT").Return(true, nil)

		entry, err := NewTickerValidatorService(provider).ValidateStockEntry(ctx, " msft ", "415.50")
		require.NoError(t, err)
		require.Equal(t, "MSFT", entry.Ticker)
		require.True(t, decimal.RequireFromString("415.5").Equal(entry.Price))
	})

	t.Run("stock entry rejects bad input before calling the provider", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		provider := mock_repository.NewMockMarketDataRepository(ctrl)
		svc := NewTickerValidatorService(provider)

		for _, tc := range []struct {
			name   string
			ticker string
			price  string
		}{
			{"missing ticker", "", "10"},
			{"missing price", "AAPL", ""},
			{"not a number", "AAPL", "ten"},
			{"zero price", "AAPL", "0"},
			{"negative price", "AAPL", "-3"},
		} {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.ValidateStockEntry(ctx, tc.ticker, tc.price)
				require.ErrorIs(t, err, domain.ErrValidation)
			})
		}
	})

	t.Run("stock entry with unknown ticker", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		provider := mock_repository.NewMockMarketDataRepository(ctrl)
		provider.EXPECT().ValidateSymbol(gomock.Any(), "AAPLX").Return(false, nil)

		_, err := NewTickerValidatorService(provider).ValidateStockEntry(ctx, "AAPLX", "10")
		require.ErrorIs(t, err, domain.ErrValidation)
	})
}
