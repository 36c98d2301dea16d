package types

import "fmt"

// InsufficientDataError reports too few bars or news items for the requested
// computation. Callers should retry later with more history, not immediately.
type InsufficientDataError struct {
	Op   string
	Have int
	Want int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data: have %d, want at least %d", e.Op, e.Have, e.Want)
}

// InvalidWeightsError reports persisted or freshly trained weights that are
// unusable (NaN/Inf after an update). A training run that produces these must
// be rejected rather than persisted.
type InvalidWeightsError struct {
	Field  string
	Reason string
}

func (e *InvalidWeightsError) Error() string {
	return fmt.Sprintf("invalid model weights: %s: %s", e.Field, e.Reason)
}

// TrainingInProgressError reports that a model's exclusive training flag is
// already held by another run. The new run is rejected, never merged.
type TrainingInProgressError struct {
	ModelID string
}

func (e *TrainingInProgressError) Error() string {
	return fmt.Sprintf("model %s: training already in progress", e.ModelID)
}

// ExternalFetchError wraps a bar or news source failure. It is propagated to
// the caller; the core never substitutes synthetic data for it.
type ExternalFetchError struct {
	Source string
	Err    error
}

func (e *ExternalFetchError) Error() string {
	return fmt.Sprintf("external fetch from %s failed: %v", e.Source, e.Err)
}

func (e *ExternalFetchError) Unwrap() error { return e.Err }
