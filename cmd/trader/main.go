package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/savageleo254/sentinel-gold-trader/internal/interfaces"
	"github.com/savageleo254/sentinel-gold-trader/internal/logger"
	"github.com/savageleo254/sentinel-gold-trader/internal/server"
	"github.com/savageleo254/sentinel-gold-trader/internal/trace"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	must(initializeSystem())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer trace.Shutdown(ctx)

	cfg, err := loadConfig(ctx)
	must(err)

	compressOldJournals(ctx)

	if cfg.Mode == "DRY_RUN" {
		logger.Warn(ctx, "Running in DRY_RUN mode - signals are simulated")
	}

	collab, err := initializeCollaborators(ctx, cfg)
	must(err)
	if collab.pg != nil {
		defer collab.pg.Close()
	}

	eng := initializeEngine(cfg, collab)
	trainer := initializeTrainer(cfg, collab)

	srv := server.New(server.DefaultConfig(cfg.Server.Listen), eng, trainer, collab.models, server.Defaults{
		Symbol:    cfg.Symbol,
		Timeframe: cfg.Timeframe,
		ModelID:   cfg.Model.DefaultID,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	if cfg.PollSeconds > 0 {
		go runPollLoop(ctx, cfg.PollSeconds, cfg.Symbol, cfg.Timeframe, cfg.Model.DefaultID, eng)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	logger.Info(ctx, "Service started", "symbol", cfg.Symbol, "timeframe", cfg.Timeframe, "mode", cfg.Mode)

	select {
	case <-sigc:
		logger.Info(ctx, "Shutting down")
	case err := <-errCh:
		if err != nil {
			logger.ErrorWithErr(ctx, "HTTP server failed", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithErr(ctx, "Shutdown failed", err)
	}
}

// runPollLoop generates a signal on a fixed interval, mirroring the cron
// trigger of the hosted deployment.
func runPollLoop(ctx context.Context, pollSeconds int, symbol, timeframe, modelID string, eng interfaces.SignalEngine) {
	tick := time.NewTicker(time.Duration(pollSeconds) * time.Second)
	defer tick.Stop()

	for {
		select {
		case <-tick.C:
			if _, err := eng.Generate(ctx, interfaces.GenerateRequest{
				Symbol:    symbol,
				Timeframe: timeframe,
				ModelID:   modelID,
			}); err != nil {
				logger.ErrorWithErr(ctx, "Scheduled generation failed", err, "symbol", symbol)
			}
		case <-ctx.Done():
			return
		}
	}
}
