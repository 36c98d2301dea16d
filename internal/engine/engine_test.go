package engine

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/savageleo254/sentinel-gold-trader/internal/interfaces"
	"github.com/savageleo254/sentinel-gold-trader/internal/model"
	"github.com/savageleo254/sentinel-gold-trader/internal/storage/memstore"
	"github.com/savageleo254/sentinel-gold-trader/internal/ta"
	"github.com/savageleo254/sentinel-gold-trader/internal/types"
)

type fakeBars struct {
	bars []types.Bar
	err  error
}

func (f fakeBars) RecentBars(ctx context.Context, symbol, timeframe string, n int) ([]types.Bar, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bars, nil
}

type fakeNews struct {
	items []types.NewsItem
	err   error
}

func (f fakeNews) RecentNews(ctx context.Context, symbol string, since time.Time) ([]types.NewsItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func flatBars(n int, price float64) []types.Bar {
	anchor := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.Bar, n)
	for i := 0; i < n; i++ {
		bars[i] = types.Bar{
			Timestamp: anchor.Add(time.Duration(i) * 5 * time.Minute),
			Open:      price,
			High:      price + 0.5,
			Low:       price - 0.5,
			Close:     price,
			Volume:    1000,
		}
	}
	return bars
}

func risingBars(n int) []types.Bar {
	anchor := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.Bar, n)
	for i := 0; i < n; i++ {
		price := 2400 + 2*float64(i)
		bars[i] = types.Bar{
			Timestamp: anchor.Add(time.Duration(i) * 5 * time.Minute),
			Open:      price,
			High:      price + 1,
			Low:       price - 1,
			Close:     price,
			Volume:    1000 + int64(i),
		}
	}
	return bars
}

func newTestEngine(bars interfaces.BarSource, news interfaces.NewsSource, models interfaces.ModelStore, sink interfaces.SignalSink) *Engine {
	predictor := model.NewPredictor(model.DefaultRiskParams())
	return New(bars, news, models, sink, predictor, Params{
		BarsLookback:   100,
		MinBars:        50,
		NewsLookback:   24 * time.Hour,
		DefaultModelID: "hrm_scalping_v1",
	})
}

func TestGenerateHoldOnFlatMarket(t *testing.T) {
	sink := memstore.NewSignalSink()
	eng := newTestEngine(fakeBars{bars: flatBars(60, 2400)}, fakeNews{}, memstore.NewModelStore(), sink)

	sig, err := eng.Generate(context.Background(), interfaces.GenerateRequest{
		Symbol: "XAUUSD", Timeframe: "M5",
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if sig.Type != types.SignalHold {
		t.Errorf("Expected HOLD on a flat market, got %s", sig.Type)
	}
	if sig.Confidence != 0.5 {
		t.Errorf("Expected HOLD confidence 0.5, got %f", sig.Confidence)
	}
	if sig.EntryPrice != 2400 {
		t.Errorf("Expected entry at the flat close, got %f", sig.EntryPrice)
	}
	if stored := sink.Signals(); len(stored) != 1 || stored[0].ID != sig.ID {
		t.Error("Expected the produced signal to be stored in the sink")
	}
	if sig.Prediction.ModelID != "hrm_scalping_v1" {
		t.Errorf("Expected default model id on the audit, got %s", sig.Prediction.ModelID)
	}
}

func TestGenerateBuyWithTrainedWeights(t *testing.T) {
	models := memstore.NewModelStore()
	// A confident weight set: strong bias, RSI hard rule out of reach.
	w := types.DefaultWeights()
	w.Bias = 1.0
	w.RSIOverboughtThreshold = 101
	if err := models.SaveTrainingResult(context.Background(), types.TrainingResult{
		ModelID: "m-bull", Weights: w,
	}); err != nil {
		t.Fatalf("SaveTrainingResult failed: %v", err)
	}

	sink := memstore.NewSignalSink()
	eng := newTestEngine(fakeBars{bars: risingBars(60)}, fakeNews{}, models, sink)

	sig, err := eng.Generate(context.Background(), interfaces.GenerateRequest{
		Symbol: "XAUUSD", Timeframe: "M5", ModelID: "m-bull",
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if sig.Type != types.SignalBuy {
		t.Fatalf("Expected BUY, got %s (raw %f)", sig.Type, sig.Prediction.RawScore)
	}
	if sig.Confidence <= 0 || sig.Confidence > 1 {
		t.Errorf("Expected confidence in (0, 1], got %f", sig.Confidence)
	}
	if sig.StopLoss >= sig.EntryPrice || sig.TakeProfit <= sig.EntryPrice {
		t.Error("BUY risk levels on the wrong side of entry")
	}
	// 2:3 stop-to-target volatility factors, checked against the absolute
	// levels the window volatility produces. Recovering the distances by
	// subtracting near-equal prices loses too many digits to assert a ratio.
	snap, err := ta.Compute(risingBars(60))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	entry := 2518 + snap.Volatility*0.1
	if math.Abs(sig.EntryPrice-entry) > 1e-12 {
		t.Errorf("Expected entry %v, got %v", entry, sig.EntryPrice)
	}
	if math.Abs(sig.StopLoss-(entry-2*snap.Volatility)) > 1e-12 {
		t.Errorf("Expected stop %v, got %v", entry-2*snap.Volatility, sig.StopLoss)
	}
	if math.Abs(sig.TakeProfit-(entry+3*snap.Volatility)) > 1e-12 {
		t.Errorf("Expected target %v, got %v", entry+3*snap.Volatility, sig.TakeProfit)
	}
}

func TestGenerateRejectsShortHistory(t *testing.T) {
	sink := memstore.NewSignalSink()
	eng := newTestEngine(fakeBars{bars: flatBars(30, 2400)}, fakeNews{}, memstore.NewModelStore(), sink)

	_, err := eng.Generate(context.Background(), interfaces.GenerateRequest{Symbol: "XAUUSD", Timeframe: "M5"})
	if err == nil {
		t.Fatal("Expected error for short history")
	}
	var insufficient *types.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Errorf("Expected InsufficientDataError, got %T", err)
	}
	if len(sink.Signals()) != 0 {
		t.Error("Expected no signal stored after an aborted pass")
	}
}

func TestGeneratePropagatesFetchErrors(t *testing.T) {
	fetchErr := &types.ExternalFetchError{Source: "mt5-bridge", Err: errors.New("connection refused")}
	sink := memstore.NewSignalSink()
	eng := newTestEngine(fakeBars{err: fetchErr}, fakeNews{}, memstore.NewModelStore(), sink)

	_, err := eng.Generate(context.Background(), interfaces.GenerateRequest{Symbol: "XAUUSD", Timeframe: "M5"})
	var fetch *types.ExternalFetchError
	if !errors.As(err, &fetch) {
		t.Fatalf("Expected ExternalFetchError, got %T: %v", err, err)
	}

	// A news failure aborts the pass the same way.
	eng = newTestEngine(fakeBars{bars: flatBars(60, 2400)}, fakeNews{err: fetchErr}, memstore.NewModelStore(), sink)
	if _, err := eng.Generate(context.Background(), interfaces.GenerateRequest{Symbol: "XAUUSD", Timeframe: "M5"}); err == nil {
		t.Fatal("Expected news fetch failure to abort the pass")
	}
	if len(sink.Signals()) != 0 {
		t.Error("Expected no signals stored after failed passes")
	}
}

func TestGenerateRejectsInvalidPersistedWeights(t *testing.T) {
	models := memstore.NewModelStore()
	w := types.DefaultWeights()
	w.LearningRate = 0
	_ = models.SaveTrainingResult(context.Background(), types.TrainingResult{ModelID: "m-bad", Weights: w})

	eng := newTestEngine(fakeBars{bars: flatBars(60, 2400)}, fakeNews{}, models, memstore.NewSignalSink())

	_, err := eng.Generate(context.Background(), interfaces.GenerateRequest{
		Symbol: "XAUUSD", Timeframe: "M5", ModelID: "m-bad",
	})
	var invalid *types.InvalidWeightsError
	if !errors.As(err, &invalid) {
		t.Fatalf("Expected InvalidWeightsError, got %T: %v", err, err)
	}
}
