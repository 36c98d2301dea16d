package types

import "time"

// Bar is one OHLCV candle for a fixed interval. Sequences are ordered by
// strictly increasing timestamp and are append-only.
type Bar struct {
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	Open      float64   `json:"open_price" db:"open_price"`
	High      float64   `json:"high_price" db:"high_price"`
	Low       float64   `json:"low_price" db:"low_price"`
	Close     float64   `json:"close_price" db:"close_price"`
	Volume    int64     `json:"volume" db:"volume"`
}

// NewsItem is a read-only input to the sentiment scorer.
type NewsItem struct {
	Title       string    `json:"title" db:"title"`
	Content     string    `json:"content" db:"content"`
	PublishedAt time.Time `json:"published_at" db:"published_at"`
	Source      string    `json:"source" db:"source"`
	Impact      string    `json:"impact,omitempty" db:"impact"`
}

// TrendDirection classifies recent price structure.
type TrendDirection string

const (
	TrendBullish  TrendDirection = "BULLISH"
	TrendBearish  TrendDirection = "BEARISH"
	TrendSideways TrendDirection = "SIDEWAYS"
)

// Trend is the direction and strength of the recent price move.
type Trend struct {
	Direction TrendDirection `json:"direction"`
	Strength  float64        `json:"strength"`
}

// FeatureVector is the fixed-size model input, recomputed on every scoring
// call. It is never identity-bearing state; it is only persisted as an audit
// attachment on a produced Signal.
type FeatureVector struct {
	Price                float64 `json:"price"`
	SMASignal            float64 `json:"sma_signal"`
	TrendStrength        float64 `json:"trend_strength"`
	MACDHistogram        float64 `json:"macd_histogram"`
	VolumeRatio          float64 `json:"volume_ratio"`
	DistanceToSupport    float64 `json:"distance_to_support"`
	DistanceToResistance float64 `json:"distance_to_resistance"`
	RSI                  float64 `json:"rsi"`
	NewsSentiment        float64 `json:"news_sentiment"`
}

// ModelWeights is the full parameter set of the linear scoring model. Owned
// exclusively by the trainer; persisted atomically at the end of a run.
type ModelWeights struct {
	Bias                    float64 `json:"bias"`
	SMAFastWeight           float64 `json:"sma_fast_weight"`
	SMASlowWeight           float64 `json:"sma_slow_weight"`
	RSIOverboughtThreshold  float64 `json:"rsi_overbought_threshold"`
	RSIOversoldThreshold    float64 `json:"rsi_oversold_threshold"`
	MACDSignalWeight        float64 `json:"macd_signal_weight"`
	VolumeWeight            float64 `json:"volume_weight"`
	TrendWeight             float64 `json:"trend_weight"`
	SupportResistanceWeight float64 `json:"support_resistance_weight"`
	LearningRate            float64 `json:"learning_rate"`
}

// DefaultWeights returns the untrained starting parameters.
func DefaultWeights() ModelWeights {
	return ModelWeights{
		SMAFastWeight:           0.5,
		SMASlowWeight:           0.5,
		RSIOverboughtThreshold:  70,
		RSIOversoldThreshold:    30,
		MACDSignalWeight:        0.5,
		VolumeWeight:            0.3,
		TrendWeight:             0.6,
		SupportResistanceWeight: 0.4,
		Bias:                    0.0,
		LearningRate:            0.01,
	}
}

// SignalType is the traded direction of a signal.
type SignalType string

const (
	SignalBuy  SignalType = "BUY"
	SignalSell SignalType = "SELL"
	SignalHold SignalType = "HOLD"
)

// SignalStatus tracks the lifecycle owned by the execution collaborator.
// Signals are read-only after creation except for this transition.
type SignalStatus string

const (
	SignalPending  SignalStatus = "pending"
	SignalExecuted SignalStatus = "executed"
	SignalExpired  SignalStatus = "expired"
	SignalFailed   SignalStatus = "failed"
)

// PredictionAudit records how a signal's score was produced.
type PredictionAudit struct {
	RawScore         float64 `json:"raw_score"`
	ModelID          string  `json:"model_id,omitempty"`
	ModelWeightsUsed bool    `json:"model_weights_used"`
}

// Signal is a produced trading signal with its risk levels and feature audit.
type Signal struct {
	ID           string          `json:"id" db:"id"`
	Symbol       string          `json:"symbol" db:"symbol"`
	Timeframe    string          `json:"timeframe" db:"timeframe"`
	Type         SignalType      `json:"signal_type" db:"signal_type"`
	Confidence   float64         `json:"confidence" db:"confidence"`
	EntryPrice   float64         `json:"entry_price" db:"entry_price"`
	StopLoss     float64         `json:"stop_loss" db:"stop_loss"`
	TakeProfit   float64         `json:"take_profit" db:"take_profit"`
	PositionSize float64         `json:"position_size" db:"position_size"`
	Features     FeatureVector   `json:"features"`
	Prediction   PredictionAudit `json:"model_prediction"`
	SignalTime   time.Time       `json:"signal_time" db:"signal_time"`
	ExpiryTime   time.Time       `json:"expiry_time" db:"expiry_time"`
	Status       SignalStatus    `json:"status" db:"status"`
}

// TradeOutcome is one realized trade result used for backtest-style metrics.
type TradeOutcome struct {
	Symbol   string    `json:"symbol" db:"symbol"`
	Profit   float64   `json:"profit" db:"profit"`
	OpenTime time.Time `json:"open_time" db:"open_time"`
}

// PerformanceSummary is the immutable snapshot produced by one training run.
type PerformanceSummary struct {
	Winrate            float64 `json:"winrate"`
	SharpeRatio        float64 `json:"sharpe_ratio"`
	MaxDrawdown        float64 `json:"max_drawdown"`
	TrainingLoss       float64 `json:"training_loss"`
	TrainingAccuracy   float64 `json:"training_accuracy"`
	TotalPredictions   int     `json:"total_predictions"`
	CorrectPredictions int     `json:"correct_predictions"`
	TrainingBars       int     `json:"training_bars"`
	Epochs             int     `json:"epochs"`
}

// TrainingResult bundles what a completed run hands back to the caller.
type TrainingResult struct {
	ModelID string             `json:"model_id"`
	Weights ModelWeights       `json:"weights"`
	Summary PerformanceSummary `json:"summary"`
}
