package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/savageleo254/sentinel-gold-trader/internal/types"
)

func TestValidateWeightsAcceptsDefaults(t *testing.T) {
	if err := ValidateWeights(types.DefaultWeights()); err != nil {
		t.Errorf("Expected default weights to validate, got %v", err)
	}
}

func TestValidateWeightsRejectsNaN(t *testing.T) {
	w := types.DefaultWeights()
	w.TrendWeight = math.NaN()

	err := ValidateWeights(w)
	if err == nil {
		t.Fatal("Expected NaN weight to be rejected")
	}
	if _, ok := err.(*types.InvalidWeightsError); !ok {
		t.Errorf("Expected InvalidWeightsError, got %T", err)
	}
}

func TestValidateWeightsRejectsInf(t *testing.T) {
	w := types.DefaultWeights()
	w.Bias = math.Inf(1)

	if err := ValidateWeights(w); err == nil {
		t.Fatal("Expected Inf weight to be rejected")
	}
}

func TestValidateWeightsRejectsNonPositiveLearningRate(t *testing.T) {
	w := types.DefaultWeights()
	w.LearningRate = 0
	if err := ValidateWeights(w); err == nil {
		t.Fatal("Expected zero learning rate to be rejected")
	}

	w.LearningRate = -0.01
	if err := ValidateWeights(w); err == nil {
		t.Fatal("Expected negative learning rate to be rejected")
	}
}

func TestWeightsJSONRoundTrip(t *testing.T) {
	w := types.DefaultWeights()
	w.Bias = 0.123456789
	w.LearningRate = 0.00995

	b, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var back types.ModelWeights
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back != w {
		t.Errorf("Round trip changed weights:\n%+v\n%+v", w, back)
	}
}

func TestWeightsHashChangesWithWeights(t *testing.T) {
	a := types.DefaultWeights()
	b := a
	b.Bias = 0.5

	if WeightsHash(a) == WeightsHash(b) {
		t.Error("Expected different hashes for different weights")
	}
	if WeightsHash(a) != WeightsHash(types.DefaultWeights()) {
		t.Error("Expected stable hash for identical weights")
	}
}
