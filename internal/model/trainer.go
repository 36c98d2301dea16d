package model

import (
	"context"
	"math"

	"github.com/savageleo254/sentinel-gold-trader/internal/features"
	"github.com/savageleo254/sentinel-gold-trader/internal/interfaces"
	"github.com/savageleo254/sentinel-gold-trader/internal/logger"
	"github.com/savageleo254/sentinel-gold-trader/internal/ta"
	"github.com/savageleo254/sentinel-gold-trader/internal/types"
)

// lossEpsilon keeps the cross-entropy log away from log(0).
const lossEpsilon = 1e-7

// TrainerConfig bounds one training run.
type TrainerConfig struct {
	Window        int     // trailing bars per training example
	Horizon       int     // bars of look-ahead for the outcome label
	MinBars       int     // history below this aborts the run
	MaxBars       int     // fetch limit for historical bars
	DefaultEpochs int     // used when the request leaves epochs unset
	LRDecay       float64 // multiplicative learning-rate decay per epoch
}

// DefaultTrainerConfig mirrors the production run shape: 50-bar windows,
// 10-bar outcome horizon, 50 epochs over up to 1000 bars.
func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfig{
		Window:        50,
		Horizon:       10,
		MinBars:       100,
		MaxBars:       1000,
		DefaultEpochs: 50,
		LRDecay:       0.995,
	}
}

// Trainer runs manual stochastic gradient descent over historical bars and
// persists the updated weight set atomically at the end of a run. Weights are
// owned exclusively by the trainer; concurrent runs against one model id are
// serialized through the store's training flag.
type Trainer struct {
	bars   interfaces.BarSource
	store  interfaces.ModelStore
	trades interfaces.TradeHistory
	cfg    TrainerConfig
}

var _ interfaces.Trainer = (*Trainer)(nil)

// NewTrainer wires a trainer to its collaborators. trades may be nil; the
// performance summary then falls back to training-label accuracy.
func NewTrainer(bars interfaces.BarSource, store interfaces.ModelStore, trades interfaces.TradeHistory, cfg TrainerConfig) *Trainer {
	if cfg.Window == 0 {
		cfg = DefaultTrainerConfig()
	}
	return &Trainer{bars: bars, store: store, trades: trades, cfg: cfg}
}

// Train executes one full run: fetch history, take the model's training flag,
// descend for the requested epoch count, derive the performance summary and
// persist weights+summary in one atomic replace. Any failure aborts the run
// and leaves the previously persisted weights untouched.
//
// Epochs < 0 selects the configured default; epochs == 0 is a defined no-op
// that returns the stored weights unchanged and persists nothing.
func (t *Trainer) Train(ctx context.Context, req interfaces.TrainRequest) (*types.TrainingResult, error) {
	epochs := req.Epochs
	if epochs < 0 {
		epochs = t.cfg.DefaultEpochs
	}

	bars, err := t.bars.RecentBars(ctx, req.Symbol, req.Timeframe, t.cfg.MaxBars)
	if err != nil {
		return nil, err
	}
	if len(bars) < t.cfg.MinBars {
		return nil, &types.InsufficientDataError{Op: "trainer.Train", Have: len(bars), Want: t.cfg.MinBars}
	}

	if err := t.store.BeginTraining(ctx, req.ModelID); err != nil {
		return nil, err
	}
	defer func() {
		if err := t.store.EndTraining(context.WithoutCancel(ctx), req.ModelID); err != nil {
			logger.Warn(ctx, "Failed to release training flag", "model_id", req.ModelID, "error", err)
		}
	}()

	weights, err := t.store.Weights(ctx, req.ModelID)
	if err != nil {
		return nil, err
	}
	if err := ValidateWeights(weights); err != nil {
		return nil, err
	}

	result := &types.TrainingResult{ModelID: req.ModelID, Weights: weights}
	result.Summary.Epochs = epochs
	result.Summary.TrainingBars = len(bars)

	if epochs == 0 {
		return result, nil
	}

	examples := len(bars) - t.cfg.Window - t.cfg.Horizon
	if examples <= 0 {
		return nil, &types.InsufficientDataError{Op: "trainer.Train", Have: len(bars), Want: t.cfg.Window + t.cfg.Horizon + 1}
	}

	var finalLoss, finalAccuracy float64
	totalPredictions, correctPredictions := 0, 0

	for epoch := 0; epoch < epochs; epoch++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		epochLoss := 0.0
		epochCorrect := 0

		for i := t.cfg.Window; i < len(bars)-t.cfg.Horizon; i++ {
			window := bars[i-t.cfg.Window : i]
			current := bars[i]
			future := bars[i+t.cfg.Horizon]

			snap, err := ta.Compute(window)
			if err != nil {
				return nil, err
			}
			fv := features.Assemble(snap, 0, current)

			prediction := Predict(fv, weights)

			actual := 0.0
			if future.Close > current.Close {
				actual = 1
			}

			epochLoss += -(actual*math.Log(prediction+lossEpsilon) +
				(1-actual)*math.Log(1-prediction+lossEpsilon))

			// Plain per-example SGD, no batching, no momentum. Threshold
			// fields move by a fixed 0.1 step scaled by the error.
			errv := prediction - actual
			lr := weights.LearningRate
			weights.SMAFastWeight -= lr * errv * fv.SMASignal
			weights.SMASlowWeight -= lr * errv * fv.TrendStrength
			weights.RSIOverboughtThreshold += lr * errv * 0.1
			weights.RSIOversoldThreshold -= lr * errv * 0.1
			weights.MACDSignalWeight -= lr * errv * fv.MACDHistogram
			weights.VolumeWeight -= lr * errv * fv.VolumeRatio
			weights.TrendWeight -= lr * errv * fv.TrendStrength
			weights.SupportResistanceWeight -= lr * errv * fv.DistanceToSupport
			weights.Bias -= lr * errv

			if (prediction > 0.5 && actual == 1) || (prediction <= 0.5 && actual == 0) {
				epochCorrect++
			}
			totalPredictions++
		}

		finalLoss = epochLoss / float64(examples)
		finalAccuracy = float64(epochCorrect) / float64(examples)
		correctPredictions += epochCorrect

		logger.Training(ctx, req.ModelID, epoch+1, epochs, finalLoss, finalAccuracy)

		// Learning rate decays between epochs only, never between examples.
		weights.LearningRate *= t.cfg.LRDecay
	}

	if err := ValidateWeights(weights); err != nil {
		return nil, err
	}

	result.Weights = weights
	result.Summary = types.PerformanceSummary{
		TrainingLoss:       finalLoss,
		TrainingAccuracy:   finalAccuracy,
		TotalPredictions:   totalPredictions,
		CorrectPredictions: correctPredictions,
		TrainingBars:       len(bars),
		Epochs:             epochs,
	}
	t.fillTradeMetrics(ctx, req.Symbol, &result.Summary)

	if err := t.store.SaveTrainingResult(ctx, *result); err != nil {
		return nil, err
	}
	return result, nil
}

// fillTradeMetrics derives winrate, Sharpe ratio and max drawdown from the
// realized trade history when one exists, falling back to training-label
// accuracy as the winrate proxy otherwise.
func (t *Trainer) fillTradeMetrics(ctx context.Context, symbol string, summary *types.PerformanceSummary) {
	summary.Winrate = summary.TrainingAccuracy

	if t.trades == nil {
		return
	}
	trades, err := t.trades.ClosedTrades(ctx, symbol)
	if err != nil {
		logger.Warn(ctx, "Trade history unavailable, using training accuracy as winrate", "symbol", symbol, "error", err)
		return
	}
	if len(trades) == 0 {
		return
	}

	wins := 0
	profits := make([]float64, len(trades))
	for i, tr := range trades {
		profits[i] = tr.Profit
		if tr.Profit > 0 {
			wins++
		}
	}
	summary.Winrate = float64(wins) / float64(len(trades))
	summary.SharpeRatio = sharpeRatio(profits)
	summary.MaxDrawdown = maxDrawdown(profits)
}

// sharpeRatio is mean profit over population stdev of profits; zero when the
// stdev is zero.
func sharpeRatio(profits []float64) float64 {
	if len(profits) == 0 {
		return 0
	}
	mean := 0.0
	for _, p := range profits {
		mean += p
	}
	mean /= float64(len(profits))

	variance := 0.0
	for _, p := range profits {
		variance += (p - mean) * (p - mean)
	}
	stdev := math.Sqrt(variance / float64(len(profits)))
	if stdev == 0 {
		return 0
	}
	return mean / stdev
}

// maxDrawdown walks cumulative equity and returns the largest peak-to-trough
// decline.
func maxDrawdown(profits []float64) float64 {
	peak, equity, maxDD := 0.0, 0.0, 0.0
	for _, p := range profits {
		equity += p
		if equity > peak {
			peak = equity
		}
		if dd := peak - equity; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}
