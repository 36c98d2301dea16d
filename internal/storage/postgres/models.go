package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/savageleo254/sentinel-gold-trader/internal/interfaces"
	"github.com/savageleo254/sentinel-gold-trader/internal/types"
)

// ModelStore persists one weight row per model id. Weights live in a JSONB
// column so the parameter set can grow without migrations.
type ModelStore struct {
	store *Store
}

var _ interfaces.ModelStore = (*ModelStore)(nil)

func NewModelStore(s *Store) *ModelStore {
	return &ModelStore{store: s}
}

// Weights loads the persisted parameter set. A model id never seen before
// gets the untrained defaults rather than an error, matching first-run
// behaviour of the scoring path.
func (m *ModelStore) Weights(ctx context.Context, modelID string) (types.ModelWeights, error) {
	var raw []byte
	err := m.store.db.QueryRowContext(ctx,
		`SELECT weights FROM ai_models WHERE id = $1`, modelID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return types.DefaultWeights(), nil
	}
	if err != nil {
		return types.ModelWeights{}, fmt.Errorf("load weights for %s: %w", modelID, err)
	}

	var w types.ModelWeights
	if err := json.Unmarshal(raw, &w); err != nil {
		return types.ModelWeights{}, fmt.Errorf("decode weights for %s: %w", modelID, err)
	}
	return w, nil
}

// BeginTraining takes the model's exclusive training flag. The conditional
// UPDATE is the lock: it flips the flag only when no other run holds it, so
// two concurrent runs against the same id cannot both proceed.
func (m *ModelStore) BeginTraining(ctx context.Context, modelID string) error {
	defaults, err := json.Marshal(types.DefaultWeights())
	if err != nil {
		return err
	}
	if _, err := m.store.db.ExecContext(ctx,
		`INSERT INTO ai_models (id, weights) VALUES ($1, $2)
		 ON CONFLICT (id) DO NOTHING`, modelID, defaults); err != nil {
		return fmt.Errorf("ensure model row %s: %w", modelID, err)
	}

	res, err := m.store.db.ExecContext(ctx,
		`UPDATE ai_models SET training_active = TRUE
		 WHERE id = $1 AND NOT training_active`, modelID)
	if err != nil {
		return fmt.Errorf("acquire training flag for %s: %w", modelID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &types.TrainingInProgressError{ModelID: modelID}
	}
	return nil
}

// EndTraining releases the flag unconditionally.
func (m *ModelStore) EndTraining(ctx context.Context, modelID string) error {
	_, err := m.store.db.ExecContext(ctx,
		`UPDATE ai_models SET training_active = FALSE WHERE id = $1`, modelID)
	if err != nil {
		return fmt.Errorf("release training flag for %s: %w", modelID, err)
	}
	return nil
}

// SaveTrainingResult replaces the weights and appends the run summary in one
// transaction. Either both land or neither does.
func (m *ModelStore) SaveTrainingResult(ctx context.Context, result types.TrainingResult) error {
	weights, err := json.Marshal(result.Weights)
	if err != nil {
		return err
	}
	summary, err := json.Marshal(result.Summary)
	if err != nil {
		return err
	}

	tx, err := m.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE ai_models SET weights = $2, updated_at = NOW() WHERE id = $1`,
		result.ModelID, weights); err != nil {
		return fmt.Errorf("replace weights for %s: %w", result.ModelID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO training_runs (model_id, summary) VALUES ($1, $2)`,
		result.ModelID, summary); err != nil {
		return fmt.Errorf("record training run for %s: %w", result.ModelID, err)
	}
	return tx.Commit()
}
