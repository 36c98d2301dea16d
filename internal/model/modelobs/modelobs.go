package modelobs

import (
	"context"
	"time"

	"github.com/savageleo254/sentinel-gold-trader/internal/interfaces"
	"github.com/savageleo254/sentinel-gold-trader/internal/logger"
	"github.com/savageleo254/sentinel-gold-trader/internal/metrics"
	"github.com/savageleo254/sentinel-gold-trader/internal/trace"
	"github.com/savageleo254/sentinel-gold-trader/internal/types"
)

type observableTrainer struct {
	trainer interfaces.Trainer
}

var _ interfaces.Trainer = (*observableTrainer)(nil)

func Wrap(t interfaces.Trainer) interfaces.Trainer {
	return &observableTrainer{
		trainer: t,
	}
}

func (ot *observableTrainer) Train(ctx context.Context, req interfaces.TrainRequest) (*types.TrainingResult, error) {
	ctx, span := trace.StartSpan(ctx, "model.Train")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting training run",
		"model_id", req.ModelID,
		"symbol", req.Symbol,
		"timeframe", req.Timeframe,
		"epochs", req.Epochs,
	)

	result, err := ot.trainer.Train(ctx, req)
	if err != nil {
		metrics.TrainingFailures.Inc()
		logger.ErrorWithErrSkip(ctx, 1, "Training run failed", err,
			"model_id", req.ModelID,
			"symbol", req.Symbol,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	metrics.TrainingRuns.Inc()
	metrics.LastTrainingLoss.Set(result.Summary.TrainingLoss)
	metrics.LastTrainingAccuracy.Set(result.Summary.TrainingAccuracy)
	logger.InfoSkip(ctx, 1, "Training run completed",
		"model_id", req.ModelID,
		"winrate", result.Summary.Winrate,
		"sharpe_ratio", result.Summary.SharpeRatio,
		"max_drawdown", result.Summary.MaxDrawdown,
		"training_loss", result.Summary.TrainingLoss,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}
