package engineobs

import (
	"context"
	"time"

	"github.com/savageleo254/sentinel-gold-trader/internal/interfaces"
	"github.com/savageleo254/sentinel-gold-trader/internal/logger"
	"github.com/savageleo254/sentinel-gold-trader/internal/metrics"
	"github.com/savageleo254/sentinel-gold-trader/internal/trace"
	"github.com/savageleo254/sentinel-gold-trader/internal/types"
)

type observableEngine struct {
	engine interfaces.SignalEngine
}

var _ interfaces.SignalEngine = (*observableEngine)(nil)

func Wrap(eng interfaces.SignalEngine) interfaces.SignalEngine {
	return &observableEngine{
		engine: eng,
	}
}

func (oe *observableEngine) Generate(ctx context.Context, req interfaces.GenerateRequest) (*types.Signal, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Generate")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting signal generation",
		"symbol", req.Symbol,
		"timeframe", req.Timeframe,
	)

	sig, err := oe.engine.Generate(ctx, req)
	if err != nil {
		metrics.SignalErrors.Inc()
		logger.ErrorWithErrSkip(ctx, 1, "Signal generation failed", err,
			"symbol", req.Symbol,
			"timeframe", req.Timeframe,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	metrics.SignalsGenerated.WithLabelValues(string(sig.Type)).Inc()
	logger.InfoSkip(ctx, 1, "Signal generation completed",
		"symbol", req.Symbol,
		"signal_type", string(sig.Type),
		"confidence", sig.Confidence,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return sig, nil
}
