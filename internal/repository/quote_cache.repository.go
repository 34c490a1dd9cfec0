package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"portfoliohub/internal/db/models/postgres/public/model"
	"portfoliohub/internal/db/models/postgres/public/table"
	"portfoliohub/internal/domain"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

// QuoteCacheRepository is the persisted tier behind the in-memory quote
// cache. Get returns nil, nil when the symbol has never been stored
type QuoteCacheRepository interface {
	Get(ctx context.Context, symbol string) (*domain.CacheEntry, error)
	Upsert(ctx context.Context, entry domain.CacheEntry) error
}

func NewQuoteCacheRepository(db *sql.DB) QuoteCacheRepository {
	return quoteCacheRepositoryHandler{
		Db: db,
	}
}

type quoteCacheRepositoryHandler struct {
	Db *sql.DB
}

func (h quoteCacheRepositoryHandler) Get(ctx context.Context, symbol string) (*domain.CacheEntry, error) {
	query := table.QuoteCache.
		SELECT(table.QuoteCache.AllColumns).
		WHERE(table.QuoteCache.Symbol.EQ(postgres.String(symbol)))

	result := model.QuoteCache{}
	err := query.QueryContext(ctx, h.Db, &result)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached quotes for %s: %w", symbol, err)
	}

	return quoteCacheRecordToEntry(result.Symbol, []byte(result.Prices), result.LastUpdated)
}

func (h quoteCacheRepositoryHandler) Upsert(ctx context.Context, entry domain.CacheEntry) error {
	prices, err := json.Marshal(entry.Series.Points)
	if err != nil {
		return fmt.Errorf("failed to encode prices for %s: %w", entry.Symbol, err)
	}

	query := table.QuoteCache.
		INSERT(table.QuoteCache.AllColumns).
		MODEL(model.QuoteCache{
			Symbol:      entry.Symbol,
			Prices:      string(prices),
			LastUpdated: entry.FetchedAt.UTC(),
		}).
		ON_CONFLICT(table.QuoteCache.Symbol).
		DO_UPDATE(
			postgres.SET(
				table.QuoteCache.Prices.SET(table.QuoteCache.EXCLUDED.Prices),
				table.QuoteCache.LastUpdated.SET(table.QuoteCache.EXCLUDED.LastUpdated),
			),
		)

	if _, err := query.ExecContext(ctx, h.Db); err != nil {
		return fmt.Errorf("failed to upsert cached quotes for %s: %w", entry.Symbol, err)
	}

	return nil
}

func quoteCacheRecordToEntry(symbol string, prices []byte, lastUpdated time.Time) (*domain.CacheEntry, error) {
	points := []domain.PricePoint{}
	if err := json.Unmarshal(prices, &points); err != nil {
		return nil, fmt.Errorf("failed to decode cached prices for %s: %w", symbol, err)
	}

	return &domain.CacheEntry{
		Symbol: symbol,
		Series: domain.QuoteSeries{
			Symbol: symbol,
			Points: points,
		},
		FetchedAt: lastUpdated.UTC(),
	}, nil
}
