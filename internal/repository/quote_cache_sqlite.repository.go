package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"portfoliohub/internal/domain"

	_ "modernc.org/sqlite"
)

// SqliteQuoteCacheRepository is the single-node alternative to the
// Postgres tier. last_updated is stored as unix milliseconds
type SqliteQuoteCacheRepository struct {
	db *sql.DB
}

func NewSqliteQuoteCacheRepository(ctx context.Context, dbPath string) (*SqliteQuoteCacheRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db %s: %w", dbPath, err)
	}
	// writers serialize inside sqlite anyway
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	r := &SqliteQuoteCacheRepository{db: db}
	if err := r.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate sqlite db: %w", err)
	}

	return r, nil
}

func (r *SqliteQuoteCacheRepository) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS quote_cache (
		symbol       TEXT PRIMARY KEY,
		prices       TEXT NOT NULL,
		last_updated INTEGER NOT NULL
	)`)
	return err
}

func (r *SqliteQuoteCacheRepository) Close() error {
	return r.db.Close()
}

func (r *SqliteQuoteCacheRepository) Get(ctx context.Context, symbol string) (*domain.CacheEntry, error) {
	var (
		prices      string
		lastUpdated int64
	)
	err := r.db.QueryRowContext(
		ctx,
		"SELECT prices, last_updated FROM quote_cache WHERE symbol = ?",
		symbol,
	).Scan(&prices, &lastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached quotes for %s: %w", symbol, err)
	}

	return quoteCacheRecordToEntry(symbol, []byte(prices), time.UnixMilli(lastUpdated))
}

func (r *SqliteQuoteCacheRepository) Upsert(ctx context.Context, entry domain.CacheEntry) error {
	prices, err := json.Marshal(entry.Series.Points)
	if err != nil {
		return fmt.Errorf("failed to encode prices for %s: %w", entry.Symbol, err)
	}

	_, err = r.db.ExecContext(
		ctx,
		`INSERT INTO quote_cache (symbol, prices, last_updated) VALUES (?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET prices = excluded.prices, last_updated = excluded.last_updated`,
		entry.Symbol,
		string(prices),
		entry.FetchedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cached quotes for %s: %w", entry.Symbol, err)
	}

	return nil
}
