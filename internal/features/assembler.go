package features

import (
	"github.com/savageleo254/sentinel-gold-trader/internal/ta"
	"github.com/savageleo254/sentinel-gold-trader/internal/types"
)

// Assemble merges an indicator snapshot, a news sentiment score and the
// latest bar into the model's fixed-size feature vector. Pure and
// deterministic; identical inputs always produce identical vectors.
func Assemble(snap ta.Snapshot, newsSentiment float64, latest types.Bar) types.FeatureVector {
	fv := types.FeatureVector{
		Price:         latest.Close,
		RSI:           snap.RSI,
		MACDHistogram: snap.MACDHistogram,
		VolumeRatio:   snap.VolumeRatio,
		NewsSentiment: newsSentiment,
	}

	if snap.SMA20 != 0 {
		fv.SMASignal = (latest.Close - snap.SMA20) / snap.SMA20
	}
	if snap.SMA50 != 0 {
		fv.TrendStrength = (snap.SMA20 - snap.SMA50) / snap.SMA50
	}
	if snap.Support != 0 {
		fv.DistanceToSupport = (latest.Close - snap.Support) / snap.Support
	}
	if latest.Close != 0 {
		fv.DistanceToResistance = (snap.Resistance - latest.Close) / latest.Close
	}

	return fv
}

// FromBars computes the snapshot and assembles in one step, for callers that
// do not need the intermediate indicators.
func FromBars(bars []types.Bar, newsSentiment float64) (types.FeatureVector, error) {
	snap, err := ta.Compute(bars)
	if err != nil {
		return types.FeatureVector{}, err
	}
	return Assemble(snap, newsSentiment, bars[len(bars)-1]), nil
}
