// Package memstore provides in-process implementations of the persistence
// interfaces for DRY_RUN mode and tests. Flag semantics match the postgres
// store: the training flag is exclusive per model id.
package memstore

import (
	"context"
	"sync"

	"github.com/savageleo254/sentinel-gold-trader/internal/interfaces"
	"github.com/savageleo254/sentinel-gold-trader/internal/types"
)

// ModelStore keeps weights and the training flag in memory.
type ModelStore struct {
	mu       sync.Mutex
	weights  map[string]types.ModelWeights
	training map[string]bool
	runs     []types.TrainingResult
}

var _ interfaces.ModelStore = (*ModelStore)(nil)

func NewModelStore() *ModelStore {
	return &ModelStore{
		weights:  make(map[string]types.ModelWeights),
		training: make(map[string]bool),
	}
}

func (m *ModelStore) Weights(ctx context.Context, modelID string) (types.ModelWeights, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.weights[modelID]; ok {
		return w, nil
	}
	return types.DefaultWeights(), nil
}

func (m *ModelStore) BeginTraining(ctx context.Context, modelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.training[modelID] {
		return &types.TrainingInProgressError{ModelID: modelID}
	}
	m.training[modelID] = true
	return nil
}

func (m *ModelStore) EndTraining(ctx context.Context, modelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.training[modelID] = false
	return nil
}

func (m *ModelStore) SaveTrainingResult(ctx context.Context, result types.TrainingResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.weights[result.ModelID] = result.Weights
	m.runs = append(m.runs, result)
	return nil
}

// Runs returns the persisted results in completion order.
func (m *ModelStore) Runs() []types.TrainingResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.TrainingResult, len(m.runs))
	copy(out, m.runs)
	return out
}

// SignalSink collects stored signals in memory.
type SignalSink struct {
	mu      sync.Mutex
	signals []types.Signal
}

var _ interfaces.SignalSink = (*SignalSink)(nil)

func NewSignalSink() *SignalSink {
	return &SignalSink{}
}

func (s *SignalSink) StoreSignal(ctx context.Context, sig types.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signals = append(s.signals, sig)
	return nil
}

// Signals returns stored signals in arrival order.
func (s *SignalSink) Signals() []types.Signal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Signal, len(s.signals))
	copy(out, s.signals)
	return out
}

// TradeHistory serves a fixed set of outcomes.
type TradeHistory struct {
	mu     sync.Mutex
	trades []types.TradeOutcome
}

var _ interfaces.TradeHistory = (*TradeHistory)(nil)

func NewTradeHistory(trades []types.TradeOutcome) *TradeHistory {
	return &TradeHistory{trades: trades}
}

func (t *TradeHistory) ClosedTrades(ctx context.Context, symbol string) ([]types.TradeOutcome, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []types.TradeOutcome
	for _, tr := range t.trades {
		if tr.Symbol == symbol {
			out = append(out, tr)
		}
	}
	return out, nil
}
