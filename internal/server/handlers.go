package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/savageleo254/sentinel-gold-trader/internal/interfaces"
	"github.com/savageleo254/sentinel-gold-trader/internal/logger"
	"github.com/savageleo254/sentinel-gold-trader/internal/types"
)

// Defaults fill request fields the caller leaves unset.
type Defaults struct {
	Symbol    string
	Timeframe string
	ModelID   string
}

// Handlers holds the HTTP handlers and their collaborators.
type Handlers struct {
	engine   interfaces.SignalEngine
	trainer  interfaces.Trainer
	models   interfaces.ModelStore
	defaults Defaults
}

func NewHandlers(engine interfaces.SignalEngine, trainer interfaces.Trainer, models interfaces.ModelStore, defaults Defaults) *Handlers {
	return &Handlers{
		engine:   engine,
		trainer:  trainer,
		models:   models,
		defaults: defaults,
	}
}

type generateRequest struct {
	Symbol    string `json:"symbol"`
	Timeframe string `json:"timeframe"`
	ModelID   string `json:"model_id"`
}

type trainRequest struct {
	Symbol    string `json:"symbol"`
	Timeframe string `json:"timeframe"`
	Epochs    *int   `json:"epochs"`
}

type errorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// GenerateSignal runs one scoring pass and returns the produced signal.
func (h *Handlers) GenerateSignal(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if r.Body != nil {
		// An empty body means "use the configured defaults".
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.Symbol == "" {
		req.Symbol = h.defaults.Symbol
	}
	if req.Timeframe == "" {
		req.Timeframe = h.defaults.Timeframe
	}
	if req.ModelID == "" {
		req.ModelID = h.defaults.ModelID
	}

	sig, err := h.engine.Generate(r.Context(), interfaces.GenerateRequest{
		Symbol:    req.Symbol,
		Timeframe: req.Timeframe,
		ModelID:   req.ModelID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "applied",
		"signal": sig,
	})
}

// TrainModel starts a synchronous training run for the model in the path.
func (h *Handlers) TrainModel(w http.ResponseWriter, r *http.Request) {
	modelID := mux.Vars(r)["id"]

	var req trainRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.Symbol == "" {
		req.Symbol = h.defaults.Symbol
	}
	if req.Timeframe == "" {
		req.Timeframe = h.defaults.Timeframe
	}
	epochs := -1
	if req.Epochs != nil {
		epochs = *req.Epochs
	}

	result, err := h.trainer.Train(r.Context(), interfaces.TrainRequest{
		ModelID:   modelID,
		Symbol:    req.Symbol,
		Timeframe: req.Timeframe,
		Epochs:    epochs,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "applied",
		"result": result,
	})
}

// GetModel returns the persisted weights of the model in the path.
func (h *Handlers) GetModel(w http.ResponseWriter, r *http.Request) {
	modelID := mux.Vars(r)["id"]

	weights, err := h.models.Weights(r.Context(), modelID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"model_id": modelID,
		"weights":  weights,
	})
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NotFound returns a JSON 404.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{Status: "rejected", Error: "not found"})
}

// writeError maps domain errors to HTTP statuses. A training conflict is a
// 409, unusable input data is a 422, upstream fetch failures are a 502.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		inProgress   *types.TrainingInProgressError
		insufficient *types.InsufficientDataError
		badWeights   *types.InvalidWeightsError
		fetchFailed  *types.ExternalFetchError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &inProgress):
		status = http.StatusConflict
	case errors.As(err, &insufficient):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &badWeights):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &fetchFailed):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		logger.ErrorWithErr(r.Context(), "Unhandled request error", err, "path", r.URL.Path)
	}
	writeJSON(w, status, errorResponse{Status: "rejected", Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
