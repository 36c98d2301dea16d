package interfaces

import (
	"context"

	"github.com/savageleo254/sentinel-gold-trader/internal/types"
)

// ModelStore reads and atomically replaces the persisted weight set of one
// model. BeginTraining takes the model's exclusive training flag; a second
// concurrent run against the same model id must be rejected, never merged.
type ModelStore interface {
	Weights(ctx context.Context, modelID string) (types.ModelWeights, error)
	BeginTraining(ctx context.Context, modelID string) error
	EndTraining(ctx context.Context, modelID string) error
	SaveTrainingResult(ctx context.Context, result types.TrainingResult) error
}

// SignalSink accepts a produced signal for persistence and execution. The
// core does not manage the signal's lifecycle after creation.
type SignalSink interface {
	StoreSignal(ctx context.Context, sig types.Signal) error
}

// TradeHistory provides realized trade outcomes for backtest-style metrics.
type TradeHistory interface {
	ClosedTrades(ctx context.Context, symbol string) ([]types.TradeOutcome, error)
}
