package cmd

import (
	"context"
	"fmt"

	"portfoliohub/api"
	"portfoliohub/internal/domain"
	"portfoliohub/internal/logger"

	"github.com/robfig/cron/v3"
)

// ScheduleWatchlistRefresh registers the watchlist refresh on a standard
// five field cron spec. the caller starts and stops the returned cron
func ScheduleWatchlistRefresh(handler *api.ApiHandler, spec string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { RefreshWatchlist(context.Background(), handler) }); err != nil {
		return nil, fmt.Errorf("failed to register watchlist refresh %q: %w", spec, err)
	}
	return c, nil
}

func RefreshWatchlist(ctx context.Context, handler *api.ApiHandler) {
	base := handler.Logger
	if base == nil {
		base = logger.FromContext(ctx)
	}
	log := base.With("job", "watchlistRefresh")
	ctx = logger.WithLogger(ctx, log)
	ctx, profile := domain.NewCtxWithProfile(ctx)
	defer profile.End()

	if len(handler.Watchlist) == 0 {
		log.Infow("watchlist is empty, nothing to refresh")
		return
	}

	result, err := handler.QuoteRefreshService.RefreshSymbols(ctx, handler.Watchlist)
	if err != nil {
		log.Errorw("watchlist refresh finished with errors", "error", err.Error())
		return
	}
	log.Infow("watchlist refresh finished", "refreshed", len(result.Refreshed))
}
