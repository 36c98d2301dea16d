package interfaces

import (
	"context"

	"github.com/savageleo254/sentinel-gold-trader/internal/types"
)

// GenerateRequest selects what a signal generation run operates on.
type GenerateRequest struct {
	Symbol    string `json:"symbol"`
	Timeframe string `json:"timeframe"`
	ModelID   string `json:"model_id,omitempty"`
}

// SignalEngine runs one stateless scoring pass: fetch bars and news, assemble
// features, predict, persist the resulting signal.
type SignalEngine interface {
	Generate(ctx context.Context, req GenerateRequest) (*types.Signal, error)
}

// TrainRequest selects what a training run operates on.
type TrainRequest struct {
	ModelID   string `json:"model_id"`
	Symbol    string `json:"symbol"`
	Timeframe string `json:"timeframe"`
	Epochs    int    `json:"epochs"`
}

// Trainer runs one full training pass over historical bars and persists the
// updated weights atomically at the end of the run.
type Trainer interface {
	Train(ctx context.Context, req TrainRequest) (*types.TrainingResult, error)
}
