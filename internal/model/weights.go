package model

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/savageleo254/sentinel-gold-trader/internal/types"
)

// ValidateWeights rejects weight sets that must never be persisted or scored
// with: any NaN/Inf field, or a non-positive learning rate.
func ValidateWeights(w types.ModelWeights) error {
	fields := map[string]float64{
		"bias":                      w.Bias,
		"sma_fast_weight":           w.SMAFastWeight,
		"sma_slow_weight":           w.SMASlowWeight,
		"rsi_overbought_threshold":  w.RSIOverboughtThreshold,
		"rsi_oversold_threshold":    w.RSIOversoldThreshold,
		"macd_signal_weight":        w.MACDSignalWeight,
		"volume_weight":             w.VolumeWeight,
		"trend_weight":              w.TrendWeight,
		"support_resistance_weight": w.SupportResistanceWeight,
		"learning_rate":             w.LearningRate,
	}
	for name, v := range fields {
		if math.IsNaN(v) {
			return &types.InvalidWeightsError{Field: name, Reason: "NaN"}
		}
		if math.IsInf(v, 0) {
			return &types.InvalidWeightsError{Field: name, Reason: "Inf"}
		}
	}
	if w.LearningRate <= 0 {
		return &types.InvalidWeightsError{Field: "learning_rate", Reason: "must be positive"}
	}
	return nil
}

// WeightsHash fingerprints a weight set for audit trails.
func WeightsHash(w types.ModelWeights) string {
	b, _ := json.Marshal(w)
	h := fnv.New32a()
	h.Write(b)
	return fmt.Sprintf("%x", h.Sum32())
}

// DataHash fingerprints a training window by its length and endpoints.
func DataHash(bars []types.Bar) string {
	h := fnv.New32a()
	if len(bars) == 0 {
		return fmt.Sprintf("%x", h.Sum32())
	}
	fmt.Fprintf(h, "%d_%d_%d", len(bars), bars[0].Timestamp.UnixNano(), bars[len(bars)-1].Timestamp.UnixNano())
	return fmt.Sprintf("%x", h.Sum32())
}
