package main

import (
	"context"
	"log"

	"portfoliohub/cmd"
	"portfoliohub/internal/domain"
)

// one-off watchlist refresh, for running from a scheduled task instead
// of the api's cron
func main() {
	handler, err := cmd.InitializeDependencies()
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(handler)

	profile, endProfile := domain.NewProfile()
	defer endProfile()
	ctx := context.WithValue(context.Background(), domain.ContextProfileKey, profile)

	result, err := handler.QuoteRefreshService.RefreshSymbols(ctx, handler.Watchlist)
	if err != nil {
		log.Fatal(err)
	}

	handler.Logger.Infow("refreshed watchlist", "symbols", result.Refreshed, "spans", profile.SpanNames())
}
