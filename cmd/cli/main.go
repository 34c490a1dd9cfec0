package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"portfoliohub/api"
	"portfoliohub/cmd"
	"portfoliohub/internal/calculator"
	"portfoliohub/internal/domain"
	"portfoliohub/internal/util"
	"portfoliohub/pkg/optimizer"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var secretsFile string

func loadSecrets() (*util.Secrets, error) {
	if secretsFile != "" {
		return util.LoadSecretsFromFile(secretsFile)
	}
	return util.LoadSecrets()
}

// withHandler builds the dependency graph for a single command and tears it
// down afterwards
func withHandler(fn func(ctx context.Context, handler *api.ApiHandler) error) error {
	secrets, err := loadSecrets()
	if err != nil {
		return err
	}

	ctx, profile := domain.NewCtxWithProfile(context.Background())
	defer profile.End()

	handler, err := cmd.InitializeDependenciesFromSecrets(ctx, *secrets)
	if err != nil {
		return err
	}
	defer cmd.CloseDependencies(handler)

	return fn(ctx, handler)
}

func quotesCmd() *cobra.Command {
	var asCsv bool
	c := &cobra.Command{
		Use:   "quotes SYMBOL",
		Short: "print the cached daily series for a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return withHandler(func(ctx context.Context, handler *api.ApiHandler) error {
				entry, err := handler.QuoteService.GetEntry(ctx, args[0])
				if err != nil {
					return err
				}
				rows := api.NewQuoteRows(*entry)
				if asCsv {
					return gocsv.Marshal(&rows, c.OutOrStdout())
				}
				util.Pprint(rows)
				return nil
			})
		},
	}
	c.Flags().BoolVar(&asCsv, "csv", false, "print csv instead of json")
	return c
}

func metricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics SYMBOL",
		Short: "print return and volatility for a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return withHandler(func(ctx context.Context, handler *api.ApiHandler) error {
				series, err := handler.QuoteService.GetQuotes(ctx, args[0])
				if err != nil {
					return err
				}
				metrics, err := calculator.CalculateSeriesMetrics(*series)
				if err != nil {
					return err
				}
				util.Pprint(metrics)
				return nil
			})
		},
	}
}

func validateCmd() *cobra.Command {
	var price string
	c := &cobra.Command{
		Use:   "validate SYMBOL",
		Short: "check a ticker against the validation provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return withHandler(func(ctx context.Context, handler *api.ApiHandler) error {
				if price != "" {
					entry, err := handler.TickerValidatorService.ValidateStockEntry(ctx, args[0], price)
					if err != nil {
						return err
					}
					util.Pprint(entry)
					return nil
				}

				valid, err := handler.TickerValidatorService.Validate(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(c.OutOrStdout(), "%s valid=%t\n", args[0], valid)
				return nil
			})
		},
	}
	c.Flags().StringVar(&price, "price", "", "also validate a stock entry with this price")
	return c
}

func parseStockArgs(args []string) ([]domain.StockEntry, error) {
	out := make([]domain.StockEntry, 0, len(args))
	for _, arg := range args {
		ticker, price, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected TICKER=PRICE, got %q", arg)
		}
		p, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("failed to parse price for %s: %w", ticker, err)
		}
		out = append(out, domain.StockEntry{
			Ticker: ticker,
			Price:  p,
		})
	}
	return out, nil
}

func valueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "value TICKER=PRICE...",
		Short: "print allocation weights for a set of stock entries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			stocks, err := parseStockArgs(args)
			if err != nil {
				return err
			}
			return withHandler(func(ctx context.Context, handler *api.ApiHandler) error {
				util.Pprint(handler.ValuationService.Aggregate(stocks))
				return nil
			})
		},
	}
}

func optimizeCmd() *cobra.Command {
	var method string
	c := &cobra.Command{
		Use:   "optimize PORTFOLIO_ID",
		Short: "fetch an optimizer result for a portfolio",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			m, err := optimizer.ParseMethod(method)
			if err != nil {
				return err
			}
			return withHandler(func(ctx context.Context, handler *api.ApiHandler) error {
				view, err := handler.OptimizationService.GetOptimizedAllocation(ctx, args[0], m)
				if err != nil {
					return err
				}
				util.Pprint(view)
				return nil
			})
		},
	}
	c.Flags().StringVar(&method, "method", string(optimizer.MethodDefault), "default, monte or mvo")
	return c
}

func refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh [SYMBOL...]",
		Short: "refresh stale symbols, defaulting to the watchlist",
		RunE: func(c *cobra.Command, args []string) error {
			return withHandler(func(ctx context.Context, handler *api.ApiHandler) error {
				symbols := args
				if len(symbols) == 0 {
					symbols = handler.Watchlist
				}
				result, err := handler.QuoteRefreshService.RefreshSymbols(ctx, symbols)
				util.Pprint(result)
				return err
			})
		},
	}
}

func serveCmd() *cobra.Command {
	var port int
	c := &cobra.Command{
		Use:   "serve",
		Short: "start the http api and the watchlist cron",
		RunE: func(c *cobra.Command, args []string) error {
			secrets, err := loadSecrets()
			if err != nil {
				return err
			}
			if port != 0 {
				secrets.Port = port
			}

			handler, err := cmd.InitializeDependenciesFromSecrets(context.Background(), *secrets)
			if err != nil {
				return err
			}
			defer cmd.CloseDependencies(handler)

			if secrets.Refresh.Cron != "" {
				scheduler, err := cmd.ScheduleWatchlistRefresh(handler, secrets.Refresh.Cron)
				if err != nil {
					return err
				}
				scheduler.Start()
				defer scheduler.Stop()
			}

			return handler.StartApi(secrets.Port)
		},
	}
	c.Flags().IntVar(&port, "port", 0, "override the configured port")
	return c
}

func main() {
	root := &cobra.Command{
		Use:           "portfoliohub",
		Short:         "quotes, ticker validation and allocations for stock portfolios",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&secretsFile, "secrets", "", "path to a json or yaml secrets file")

	root.AddCommand(
		quotesCmd(),
		metricsCmd(),
		validateCmd(),
		valueCmd(),
		optimizeCmd(),
		refreshCmd(),
		serveCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
