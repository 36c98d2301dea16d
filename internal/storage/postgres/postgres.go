package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/savageleo254/sentinel-gold-trader/internal/logger"
)

// Store holds the shared connection pool. The concrete collaborators
// (model store, signal sink, bar and news sources) are thin views over it.
type Store struct {
	db *sqlx.DB
}

// Connect opens the pool and verifies the connection before returning.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info(ctx, "Connected to postgres")
	return &Store{db: db}, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the tables the service owns when they do not exist.
// Bars and news are written by upstream collectors; the service only reads
// them, but the DDL is kept here so a fresh database is usable end to end.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_data (
			symbol      TEXT        NOT NULL,
			timeframe   TEXT        NOT NULL,
			timestamp   TIMESTAMPTZ NOT NULL,
			open_price  DOUBLE PRECISION NOT NULL,
			high_price  DOUBLE PRECISION NOT NULL,
			low_price   DOUBLE PRECISION NOT NULL,
			close_price DOUBLE PRECISION NOT NULL,
			volume      BIGINT      NOT NULL DEFAULT 0,
			PRIMARY KEY (symbol, timeframe, timestamp)
		)`,
		`CREATE TABLE IF NOT EXISTS news_events (
			id           BIGSERIAL   PRIMARY KEY,
			title        TEXT        NOT NULL,
			content      TEXT        NOT NULL DEFAULT '',
			source       TEXT        NOT NULL DEFAULT '',
			impact       TEXT        NOT NULL DEFAULT '',
			published_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ai_models (
			id              TEXT        PRIMARY KEY,
			weights         JSONB       NOT NULL,
			training_active BOOLEAN     NOT NULL DEFAULT FALSE,
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS training_runs (
			id            BIGSERIAL   PRIMARY KEY,
			model_id      TEXT        NOT NULL REFERENCES ai_models(id),
			summary       JSONB       NOT NULL,
			completed_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS trading_signals (
			id            TEXT        PRIMARY KEY,
			symbol        TEXT        NOT NULL,
			timeframe     TEXT        NOT NULL,
			signal_type   TEXT        NOT NULL,
			confidence    DOUBLE PRECISION NOT NULL,
			entry_price   DOUBLE PRECISION NOT NULL,
			stop_loss     DOUBLE PRECISION NOT NULL,
			take_profit   DOUBLE PRECISION NOT NULL,
			position_size DOUBLE PRECISION NOT NULL,
			features      JSONB       NOT NULL,
			prediction    JSONB       NOT NULL,
			signal_time   TIMESTAMPTZ NOT NULL,
			expiry_time   TIMESTAMPTZ NOT NULL,
			status        TEXT        NOT NULL DEFAULT 'pending'
		)`,
		`CREATE TABLE IF NOT EXISTS trade_history (
			id        BIGSERIAL   PRIMARY KEY,
			symbol    TEXT        NOT NULL,
			profit    DOUBLE PRECISION NOT NULL,
			open_time TIMESTAMPTZ NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
