package engine

import (
	"context"
	"time"

	"github.com/savageleo254/sentinel-gold-trader/internal/features"
	"github.com/savageleo254/sentinel-gold-trader/internal/interfaces"
	"github.com/savageleo254/sentinel-gold-trader/internal/logger"
	"github.com/savageleo254/sentinel-gold-trader/internal/model"
	"github.com/savageleo254/sentinel-gold-trader/internal/sentiment"
	"github.com/savageleo254/sentinel-gold-trader/internal/ta"
	"github.com/savageleo254/sentinel-gold-trader/internal/types"
)

// Params bounds one signal-generation pass.
type Params struct {
	BarsLookback   int           // bars fetched for indicator computation
	MinBars        int           // below this the pass aborts
	NewsLookback   time.Duration // trailing window for sentiment input
	DefaultModelID string        // used when the request leaves model_id unset
}

// DefaultParams mirrors the production pass shape: 100 bars of context with a
// 50-bar floor and a 24 hour news window.
func DefaultParams() Params {
	return Params{
		BarsLookback: 100,
		MinBars:      50,
		NewsLookback: 24 * time.Hour,
	}
}

// Engine is the stateless scoring pipeline: fetch bars and news, assemble the
// feature vector, score it through the persisted weights and hand the signal
// to the sink. Every call is independent; collaborators are injected, no
// process-wide state is held.
type Engine struct {
	bars      interfaces.BarSource
	news      interfaces.NewsSource
	models    interfaces.ModelStore
	sink      interfaces.SignalSink
	scorer    *sentiment.Scorer
	predictor *model.Predictor
	params    Params
}

var _ interfaces.SignalEngine = (*Engine)(nil)

// New wires the engine to its collaborators.
func New(bars interfaces.BarSource, news interfaces.NewsSource, models interfaces.ModelStore, sink interfaces.SignalSink, predictor *model.Predictor, params Params) *Engine {
	if params.BarsLookback == 0 {
		params = DefaultParams()
	}
	return &Engine{
		bars:      bars,
		news:      news,
		models:    models,
		sink:      sink,
		scorer:    sentiment.NewScorer(),
		predictor: predictor,
		params:    params,
	}
}

// Generate runs one scoring pass and persists the produced signal. Fetch
// failures are surfaced to the caller, never retried or papered over with
// synthetic data.
func (e *Engine) Generate(ctx context.Context, req interfaces.GenerateRequest) (*types.Signal, error) {
	modelID := req.ModelID
	if modelID == "" {
		modelID = e.params.DefaultModelID
	}

	bars, err := e.bars.RecentBars(ctx, req.Symbol, req.Timeframe, e.params.BarsLookback)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch bars", err, "symbol", req.Symbol, "timeframe", req.Timeframe)
		return nil, err
	}
	if len(bars) < e.params.MinBars {
		return nil, &types.InsufficientDataError{Op: "engine.Generate", Have: len(bars), Want: e.params.MinBars}
	}
	logger.Debug(ctx, "Bars fetched", "symbol", req.Symbol, "count", len(bars))

	news, err := e.news.RecentNews(ctx, req.Symbol, time.Now().Add(-e.params.NewsLookback))
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch news", err, "symbol", req.Symbol)
		return nil, err
	}
	newsScore := e.scorer.Score(news)

	snap, err := ta.Compute(bars)
	if err != nil {
		return nil, err
	}
	latest := bars[len(bars)-1]
	fv := features.Assemble(snap, newsScore, latest)
	logger.Debug(ctx, "Features assembled",
		"symbol", req.Symbol,
		"rsi", fv.RSI,
		"sma_signal", fv.SMASignal,
		"trend", string(snap.Trend.Direction),
		"news_sentiment", newsScore,
	)

	weights, err := e.models.Weights(ctx, modelID)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load model weights", err, "model_id", modelID)
		return nil, err
	}
	if err := model.ValidateWeights(weights); err != nil {
		return nil, err
	}

	sig := e.predictor.Signal(req.Symbol, req.Timeframe, modelID, fv, snap.Volatility, weights, time.Now())

	if err := e.sink.StoreSignal(ctx, sig); err != nil {
		logger.ErrorWithErr(ctx, "Failed to store signal", err, "symbol", req.Symbol, "signal_id", sig.ID)
		return nil, err
	}

	logger.Decision(ctx, sig.Symbol, string(sig.Type), sig.Confidence,
		"entry_price", sig.EntryPrice,
		"stop_loss", sig.StopLoss,
		"take_profit", sig.TakeProfit,
		"position_size", sig.PositionSize,
		"model_id", modelID,
	)
	return &sig, nil
}
