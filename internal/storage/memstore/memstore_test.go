package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/savageleo254/sentinel-gold-trader/internal/types"
)

func TestModelStoreDefaultsForUnknownModel(t *testing.T) {
	store := NewModelStore()

	w, err := store.Weights(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("Weights failed: %v", err)
	}
	if w != types.DefaultWeights() {
		t.Errorf("Expected untrained defaults, got %+v", w)
	}
}

func TestTrainingFlagIsExclusive(t *testing.T) {
	store := NewModelStore()
	ctx := context.Background()

	if err := store.BeginTraining(ctx, "m1"); err != nil {
		t.Fatalf("First BeginTraining failed: %v", err)
	}

	err := store.BeginTraining(ctx, "m1")
	var inProgress *types.TrainingInProgressError
	if !errors.As(err, &inProgress) {
		t.Fatalf("Expected TrainingInProgressError, got %v", err)
	}

	// A different model id is independent.
	if err := store.BeginTraining(ctx, "m2"); err != nil {
		t.Errorf("Expected independent flag per model id: %v", err)
	}

	if err := store.EndTraining(ctx, "m1"); err != nil {
		t.Fatalf("EndTraining failed: %v", err)
	}
	if err := store.BeginTraining(ctx, "m1"); err != nil {
		t.Errorf("Expected flag to be reusable after release: %v", err)
	}
}

func TestTrainingFlagUnderContention(t *testing.T) {
	store := NewModelStore()
	ctx := context.Background()

	const goroutines = 16
	var wg sync.WaitGroup
	acquired := make(chan struct{}, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.BeginTraining(ctx, "m1"); err == nil {
				acquired <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(acquired)

	count := 0
	for range acquired {
		count++
	}
	if count != 1 {
		t.Errorf("Expected exactly one winner, got %d", count)
	}
}

func TestSaveTrainingResultReplacesWeights(t *testing.T) {
	store := NewModelStore()
	ctx := context.Background()

	w := types.DefaultWeights()
	w.Bias = 0.75
	if err := store.SaveTrainingResult(ctx, types.TrainingResult{ModelID: "m1", Weights: w}); err != nil {
		t.Fatalf("SaveTrainingResult failed: %v", err)
	}

	got, err := store.Weights(ctx, "m1")
	if err != nil {
		t.Fatalf("Weights failed: %v", err)
	}
	if got != w {
		t.Errorf("Expected persisted weights %+v, got %+v", w, got)
	}
	if len(store.Runs()) != 1 {
		t.Errorf("Expected one recorded run, got %d", len(store.Runs()))
	}
}

func TestSignalSinkCollects(t *testing.T) {
	sink := NewSignalSink()
	ctx := context.Background()

	sig := types.Signal{ID: "s1", Symbol: "XAUUSD", Type: types.SignalBuy}
	if err := sink.StoreSignal(ctx, sig); err != nil {
		t.Fatalf("StoreSignal failed: %v", err)
	}

	got := sink.Signals()
	if len(got) != 1 || got[0].ID != "s1" {
		t.Errorf("Expected stored signal s1, got %+v", got)
	}
}

func TestTradeHistoryFiltersBySymbol(t *testing.T) {
	history := NewTradeHistory([]types.TradeOutcome{
		{Symbol: "XAUUSD", Profit: 10},
		{Symbol: "EURUSD", Profit: -3},
		{Symbol: "XAUUSD", Profit: 5},
	})

	trades, err := history.ClosedTrades(context.Background(), "XAUUSD")
	if err != nil {
		t.Fatalf("ClosedTrades failed: %v", err)
	}
	if len(trades) != 2 {
		t.Errorf("Expected 2 trades for XAUUSD, got %d", len(trades))
	}
}
