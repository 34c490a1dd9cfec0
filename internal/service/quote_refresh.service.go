package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"portfoliohub/internal/logger"
)

type QuoteRefreshService interface {
	RefreshSymbols(ctx context.Context, symbols []string) (*RefreshResult, error)
}

type RefreshResult struct {
	Refreshed []string          `json:"refreshed"`
	Failed    map[string]string `json:"failed"`
}

func NewQuoteRefreshService(quoteService QuoteService, numWorkers int) QuoteRefreshService {
	if numWorkers <= 0 {
		numWorkers = 10
	}
	return quoteRefreshServiceHandler{
		QuoteService: quoteService,
		NumWorkers:   numWorkers,
	}
}

type quoteRefreshServiceHandler struct {
	QuoteService QuoteService
	NumWorkers   int
}

// RefreshSymbols warms the quote cache. fresh symbols are served from
// memory so only stale ones reach a provider
func (h quoteRefreshServiceHandler) RefreshSymbols(ctx context.Context, symbols []string) (*RefreshResult, error) {
	log := logger.FromContext(ctx)

	inputCh := make(chan string, len(symbols))
	for _, s := range symbols {
		inputCh <- s
	}
	close(inputCh)

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result = &RefreshResult{
			Refreshed: []string{},
			Failed:    map[string]string{},
		}
	)

	for i := 0; i < h.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case symbol, ok := <-inputCh:
					if !ok {
						return
					}
					_, err := h.QuoteService.GetQuotes(ctx, symbol)
					mu.Lock()
					if err != nil {
						result.Failed[symbol] = err.Error()
					} else {
						result.Refreshed = append(result.Refreshed, symbol)
					}
					mu.Unlock()
				}
			}
		}()
	}

	wg.Wait()
	sort.Strings(result.Refreshed)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("refresh interrupted after %d/%d symbols: %w", len(result.Refreshed)+len(result.Failed), len(symbols), err)
	}
	if len(result.Failed) > 0 {
		log.Warnw("some symbols failed to refresh", "failed", result.Failed)
		return result, fmt.Errorf("failed to refresh %d/%d symbols", len(result.Failed), len(symbols))
	}

	log.Infow("refreshed symbols", "count", len(result.Refreshed))
	return result, nil
}
