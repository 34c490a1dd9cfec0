package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"portfoliohub/api"
	integration_tests "portfoliohub/integration-tests"
	"portfoliohub/internal/db"
	"portfoliohub/internal/domain"
	"portfoliohub/internal/logger"
	"portfoliohub/internal/repository"
	"portfoliohub/internal/service"
	"portfoliohub/internal/util"
	"portfoliohub/pkg/alphavantage"
	"portfoliohub/pkg/yahoo"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func CloseDependencies(handler *api.ApiHandler) {
	for _, closeFn := range handler.Closers {
		if err := closeFn(); err != nil {
			zap.S().Errorw("failed to close dependency", "error", err.Error())
		}
	}
}

func InitializeDependencies() (*api.ApiHandler, error) {
	secrets, err := util.LoadSecrets()
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}
	return InitializeDependenciesFromSecrets(context.Background(), *secrets)
}

func InitializeDependenciesFromSecrets(ctx context.Context, secrets util.Secrets) (*api.ApiHandler, error) {
	log := zap.S()

	providers := []repository.MarketDataRepository{}
	for _, name := range secrets.Providers.Quotes {
		p, err := NewMarketDataRepository(name, secrets)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	marketDataRepository := repository.NewFallbackMarketDataRepository(providers...)

	validatorProvider, err := NewMarketDataRepository(secrets.Providers.Validator, secrets)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(os.Getenv(logger.EnvVar), "test") {
		marketDataRepository = integration_tests.NewMockMarketDataRepositoryForTests()
		validatorProvider = marketDataRepository
	}

	closers := []func() error{}
	quoteCacheRepository, closeStore, err := newQuoteCacheRepository(ctx, secrets)
	if err != nil {
		return nil, err
	}
	if closeStore != nil {
		closers = append(closers, closeStore)
	}

	tickerValidatorService := service.NewTickerValidatorService(validatorProvider)
	quoteService, err := service.NewQuoteService(
		service.QuoteServiceConfig{
			TTL:            secrets.CacheTTL(),
			MaxEntries:     secrets.Cache.MaxEntries,
			Range:          domain.Range(secrets.Cache.Range),
			Interval:       domain.Interval(secrets.Cache.Interval),
			ValidateOnMiss: secrets.Cache.ValidateOnMiss,
		},
		util.NewSystemClock(),
		marketDataRepository,
		quoteCacheRepository,
		tickerValidatorService,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create quote service: %w", err)
	}

	optimizerRepository := repository.NewOptimizerRepository(secrets.Optimizer.Host, secrets.OptimizerTimeout())
	optimizationService := service.NewOptimizationService(
		service.OptimizationServiceConfig{Renormalize: secrets.Optimizer.Renormalize},
		optimizerRepository,
	)

	log.Infow(
		"initialized dependencies",
		"quoteProvider", marketDataRepository.Name(),
		"validator", validatorProvider.Name(),
		"store", secrets.Cache.Store,
		"ttl", secrets.Cache.TTL,
	)

	apiHandler := &api.ApiHandler{
		QuoteService:           quoteService,
		TickerValidatorService: tickerValidatorService,
		ValuationService:       service.NewValuationService(),
		OptimizationService:    optimizationService,
		QuoteRefreshService:    service.NewQuoteRefreshService(quoteService, secrets.Refresh.Workers),
		Watchlist:              secrets.Refresh.Watchlist,
		Logger:                 log,
		Closers:                closers,
	}

	return apiHandler, nil
}

func NewMarketDataRepository(name string, secrets util.Secrets) (repository.MarketDataRepository, error) {
	switch name {
	case util.ProviderYahoo:
		return yahoo.NewClient(secrets.Providers.Yahoo.BaseURL, secrets.ProviderTimeout()), nil
	case util.ProviderYahooSdk:
		return repository.NewYahooSdkRepository(), nil
	case util.ProviderAlphaVantage:
		return alphavantage.NewClient(
			secrets.Providers.AlphaVantage.ApiKey,
			secrets.Providers.AlphaVantage.BaseURL,
			secrets.ProviderTimeout(),
		), nil
	case util.ProviderAlpaca:
		return repository.NewAlpacaRepository(
			secrets.Providers.Alpaca.ApiKey,
			secrets.Providers.Alpaca.ApiSecret,
			secrets.Providers.Alpaca.Endpoint,
		), nil
	}
	return nil, fmt.Errorf("unknown provider %q", name)
}

// newQuoteCacheRepository returns a nil repository for the memory-only store
func newQuoteCacheRepository(ctx context.Context, secrets util.Secrets) (repository.QuoteCacheRepository, func() error, error) {
	switch secrets.Cache.Store {
	case util.StorePostgres:
		dbConn, err := sql.Open("postgres", secrets.Db.ToConnectionStr())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to db: %w", err)
		}
		if err := db.MigrateUp(ctx, dbConn); err != nil {
			dbConn.Close()
			return nil, nil, fmt.Errorf("failed to migrate db: %w", err)
		}
		return repository.NewQuoteCacheRepository(dbConn), dbConn.Close, nil
	case util.StoreSqlite:
		repo, err := repository.NewSqliteQuoteCacheRepository(ctx, secrets.Cache.SqlitePath)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil
	}
	return nil, nil, nil
}
