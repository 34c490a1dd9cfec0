package service

import (
	"context"
	"errors"
	"testing"

	"portfoliohub/internal/domain"
	"portfoliohub/internal/util"

	"github.com/stretchr/testify/require"
)

func TestQuoteRefreshService(t *testing.T) {
	ctx := context.Background()

	t.Run("refreshes every symbol once", func(t *testing.T) {
		provider := newFakeProvider()
		quotes := newTestQuoteService(t, DefaultQuoteServiceConfig(), util.NewFakeClock(t0), provider)

		result, err := NewQuoteRefreshService(quotes, 3).RefreshSymbols(ctx, []string{"MSFT", "AAPL", "GOOG", "AAPL"})
		require.NoError(t, err)
		require.Equal(t, []string{"AAPL", "AAPL", "GOOG", "MSFT"}, result.Refreshed)
		require.Empty(t, result.Failed)
		require.Equal(t, 1, provider.numCalls("AAPL"))
	})

	t.Run("reports failures", func(t *testing.T) {
		provider := newFakeProvider()
		provider.set(0, domain.NewNetworkError("fake", errors.New("timeout")))
		quotes := newTestQuoteService(t, DefaultQuoteServiceConfig(), util.NewFakeClock(t0), provider)

		result, err := NewQuoteRefreshService(quotes, 2).RefreshSymbols(ctx, []string{"AAPL", "MSFT"})
		require.EqualError(t, err, "failed to refresh 2/2 symbols")
		require.Len(t, result.Failed, 2)
		require.Contains(t, result.Failed["AAPL"], "timeout")
	})
}
