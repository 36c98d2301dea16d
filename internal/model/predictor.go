package model

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/savageleo254/sentinel-gold-trader/internal/types"
)

// Decision thresholds around the sigmoid midpoint. The 0.6/0.4 dead-band is
// asymmetric around 0.5 on purpose: a prediction of exactly 0.6 is still a
// HOLD, and so is exactly 0.4.
const (
	BuyThreshold  = 0.6
	SellThreshold = 0.4
)

// Risk construction factors, in units of window volatility.
const (
	entryVolFactor = 0.1
	stopVolFactor  = 2.0
	takeVolFactor  = 3.0
)

// MinPositionSize is the smallest lot a signal may carry.
const MinPositionSize = 0.01

// Sigmoid maps any finite score into (0, 1), never touching the bounds.
// Float64 saturates around score 37 (to 1) and -745 (to 0), so saturated
// results are clamped to the nearest representable value inside the interval.
func Sigmoid(score float64) float64 {
	p := 1 / (1 + math.Exp(-score))
	if p >= 1 {
		return math.Nextafter(1, 0)
	}
	if p <= 0 {
		return math.SmallestNonzeroFloat64
	}
	return p
}

// Score applies the 9-weight linear model to a feature vector. The RSI
// contribution is a hard rule layered on top of the learned linear term, not
// itself learned: +-0.5 outside the oversold/overbought thresholds.
func Score(fv types.FeatureVector, w types.ModelWeights) float64 {
	score := w.Bias
	score += fv.SMASignal * w.SMAFastWeight
	score += fv.TrendStrength * w.TrendWeight
	score += fv.MACDHistogram * w.MACDSignalWeight
	score += fv.VolumeRatio * w.VolumeWeight
	score += fv.DistanceToSupport * w.SupportResistanceWeight

	if fv.RSI > w.RSIOverboughtThreshold {
		score -= 0.5
	} else if fv.RSI < w.RSIOversoldThreshold {
		score += 0.5
	}
	return score
}

// Predict returns the probability-like model output for a feature vector.
func Predict(fv types.FeatureVector, w types.ModelWeights) float64 {
	return Sigmoid(Score(fv, w))
}

// Decide thresholds a prediction into a signal type with its confidence.
// Strict inequalities: exactly 0.6 is not a BUY and exactly 0.4 not a SELL.
func Decide(prediction float64) (types.SignalType, float64) {
	switch {
	case prediction > BuyThreshold:
		return types.SignalBuy, (prediction - 0.5) * 2
	case prediction < SellThreshold:
		return types.SignalSell, (0.5 - prediction) * 2
	default:
		return types.SignalHold, 0.5
	}
}

// RiskParams configures signal risk construction and position sizing.
type RiskParams struct {
	AccountBalance float64       // reference balance in quote currency
	RiskPerTrade   float64       // fraction of balance risked per signal
	MaxLot         float64       // upper position size clamp
	Expiry         time.Duration // signal validity window
}

// DefaultRiskParams mirrors the production defaults: 2% of a 1000-unit
// reference balance, one-lot cap, 15 minute expiry.
func DefaultRiskParams() RiskParams {
	return RiskParams{
		AccountBalance: 1000,
		RiskPerTrade:   0.02,
		MaxLot:         1.0,
		Expiry:         15 * time.Minute,
	}
}

// Predictor turns feature vectors into fully-formed signals.
type Predictor struct {
	risk RiskParams
}

// NewPredictor creates a predictor with the given risk parameters.
func NewPredictor(risk RiskParams) *Predictor {
	if risk.Expiry == 0 {
		risk.Expiry = 15 * time.Minute
	}
	return &Predictor{risk: risk}
}

// Signal scores the feature vector and builds the complete signal: decision,
// entry/stop/target derived from window volatility (entry nudged 0.1 vol in
// the trade direction, stop 2 vol against it, target 3 vol with it) and a
// fixed-fractional position size clamped to [MinPositionSize, MaxLot].
func (p *Predictor) Signal(symbol, timeframe, modelID string, fv types.FeatureVector, volatility float64, w types.ModelWeights, now time.Time) types.Signal {
	prediction := Predict(fv, w)
	sigType, confidence := Decide(prediction)

	sig := types.Signal{
		ID:         uuid.NewString(),
		Symbol:     symbol,
		Timeframe:  timeframe,
		Type:       sigType,
		Confidence: clamp01(confidence),
		EntryPrice: fv.Price,
		Features:   fv,
		Prediction: types.PredictionAudit{
			RawScore:         prediction,
			ModelID:          modelID,
			ModelWeightsUsed: true,
		},
		SignalTime: now,
		ExpiryTime: now.Add(p.risk.Expiry),
		Status:     types.SignalPending,
	}

	switch sigType {
	case types.SignalBuy:
		sig.EntryPrice = fv.Price + volatility*entryVolFactor
		sig.StopLoss = sig.EntryPrice - volatility*stopVolFactor
		sig.TakeProfit = sig.EntryPrice + volatility*takeVolFactor
	case types.SignalSell:
		sig.EntryPrice = fv.Price - volatility*entryVolFactor
		sig.StopLoss = sig.EntryPrice + volatility*stopVolFactor
		sig.TakeProfit = sig.EntryPrice - volatility*takeVolFactor
	}

	sig.PositionSize = p.positionSize(sig.EntryPrice, sig.StopLoss, sigType)
	return sig
}

// positionSize is fixed-fractional risk over stop distance. HOLD signals get
// the minimum size; they are never routed to execution.
func (p *Predictor) positionSize(entry, stop float64, sigType types.SignalType) float64 {
	if sigType == types.SignalHold {
		return MinPositionSize
	}
	riskAmount := p.risk.AccountBalance * p.risk.RiskPerTrade
	stopDistance := math.Abs(entry - stop)
	if stopDistance == 0 {
		return MinPositionSize
	}
	size := riskAmount / stopDistance
	if size < MinPositionSize {
		return MinPositionSize
	}
	if size > p.risk.MaxLot {
		return p.risk.MaxLot
	}
	return size
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
