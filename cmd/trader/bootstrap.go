package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/savageleo254/sentinel-gold-trader/internal/engine"
	"github.com/savageleo254/sentinel-gold-trader/internal/engine/engineobs"
	"github.com/savageleo254/sentinel-gold-trader/internal/interfaces"
	"github.com/savageleo254/sentinel-gold-trader/internal/journal"
	"github.com/savageleo254/sentinel-gold-trader/internal/logger"
	"github.com/savageleo254/sentinel-gold-trader/internal/marketdata"
	"github.com/savageleo254/sentinel-gold-trader/internal/model"
	"github.com/savageleo254/sentinel-gold-trader/internal/model/modelobs"
	"github.com/savageleo254/sentinel-gold-trader/internal/news"
	"github.com/savageleo254/sentinel-gold-trader/internal/store"
	"github.com/savageleo254/sentinel-gold-trader/internal/storage/memstore"
	"github.com/savageleo254/sentinel-gold-trader/internal/storage/postgres"
	"github.com/savageleo254/sentinel-gold-trader/internal/storage/rediscache"
	"github.com/savageleo254/sentinel-gold-trader/internal/trace"
)

// initializeSystem initializes env, logger and tracer.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration.
func loadConfig(ctx context.Context) (*store.Config, error) {
	path := os.Getenv("TRADER_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// compressOldJournals gzips old signal journal files if retention is set.
func compressOldJournals(ctx context.Context) {
	if v := os.Getenv("SIGNAL_JOURNAL_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := journal.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old journals", "error", err)
		}
	}
}

// collaborators bundles the wired storage and data collaborators.
type collaborators struct {
	bars   interfaces.BarSource
	news   interfaces.NewsSource
	models interfaces.ModelStore
	sink   interfaces.SignalSink
	trades interfaces.TradeHistory
	pg     *postgres.Store
}

// initializeCollaborators wires bar source, news source and persistence
// according to the configuration.
func initializeCollaborators(ctx context.Context, cfg *store.Config) (*collaborators, error) {
	c := &collaborators{}

	var pg *postgres.Store
	needPG := cfg.Bars.Source == "POSTGRES" || cfg.News.Source == "POSTGRES" || cfg.Postgres.DSN != ""
	if needPG && cfg.Postgres.DSN != "" {
		var err error
		pg, err = postgres.Connect(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, fmt.Errorf("failed to ensure schema: %w", err)
		}
		c.pg = pg
	}

	switch cfg.Bars.Source {
	case "POSTGRES":
		c.bars = postgres.NewBarSource(pg)
	case "BRIDGE":
		c.bars = marketdata.NewBridgeSource(cfg.Bars.BridgeURL, 30*time.Second)
		logger.Info(ctx, "Using MT5 bridge bar source", "url", cfg.Bars.BridgeURL)
	default:
		c.bars = marketdata.NewStaticSource()
		logger.Warn(ctx, "Using STATIC synthetic bars - signals are not tradeable")
	}

	if cfg.Redis.Enabled && cfg.Bars.CacheSeconds > 0 {
		ttl := time.Duration(cfg.Bars.CacheSeconds) * time.Second
		c.bars = rediscache.New(c.bars, cfg.Redis.Addr, cfg.Redis.DB, ttl)
		logger.Info(ctx, "Bar cache enabled", "addr", cfg.Redis.Addr, "ttl", ttl)
	}

	switch cfg.News.Source {
	case "POSTGRES":
		c.news = postgres.NewNewsSource(pg)
	case "SCRAPER":
		c.news = news.NewService(&news.ServiceConfig{
			MaxItems:       cfg.News.MaxItems,
			CacheDuration:  time.Duration(cfg.News.CacheMinutes) * time.Minute,
			ScraperTimeout: time.Duration(cfg.News.TimeoutSeconds) * time.Second,
		})
	default:
		c.news = news.NoopSource{}
		logger.Info(ctx, "News input disabled - sentiment will be neutral")
	}

	if pg != nil {
		c.models = postgres.NewModelStore(pg)
		c.sink = journal.Tee(postgres.NewSignalSink(pg))
		c.trades = postgres.NewTradeHistory(pg)
	} else {
		c.models = memstore.NewModelStore()
		c.sink = journal.Tee(memstore.NewSignalSink())
		c.trades = memstore.NewTradeHistory(nil)
		logger.Warn(ctx, "No postgres DSN configured - using in-memory persistence")
	}

	return c, nil
}

// initializeEngine builds the observable signal engine.
func initializeEngine(cfg *store.Config, c *collaborators) interfaces.SignalEngine {
	predictor := model.NewPredictor(model.RiskParams{
		AccountBalance: cfg.Risk.AccountBalance,
		RiskPerTrade:   cfg.Risk.PerTradeRisk,
		MaxLot:         cfg.Risk.MaxLot,
		Expiry:         time.Duration(cfg.Risk.SignalExpiryMinutes) * time.Minute,
	})

	eng := engine.New(c.bars, c.news, c.models, c.sink, predictor, engine.Params{
		BarsLookback:   cfg.Bars.Lookback,
		MinBars:        cfg.Bars.MinBars,
		NewsLookback:   time.Duration(cfg.News.LookbackHours) * time.Hour,
		DefaultModelID: cfg.Model.DefaultID,
	})

	return engineobs.Wrap(eng)
}

// initializeTrainer builds the observable trainer.
func initializeTrainer(cfg *store.Config, c *collaborators) interfaces.Trainer {
	trainer := model.NewTrainer(c.bars, c.models, c.trades, model.TrainerConfig{
		Window:        cfg.Training.Window,
		Horizon:       cfg.Training.Horizon,
		MinBars:       cfg.Training.MinBars,
		MaxBars:       cfg.Training.MaxBars,
		DefaultEpochs: cfg.Training.Epochs,
		LRDecay:       cfg.Training.LRDecay,
	})

	return modelobs.Wrap(trainer)
}
