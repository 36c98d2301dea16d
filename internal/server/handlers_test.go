package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/savageleo254/sentinel-gold-trader/internal/interfaces"
	"github.com/savageleo254/sentinel-gold-trader/internal/storage/memstore"
	"github.com/savageleo254/sentinel-gold-trader/internal/types"
)

type fakeEngine struct {
	lastReq interfaces.GenerateRequest
	sig     *types.Signal
	err     error
}

func (f *fakeEngine) Generate(ctx context.Context, req interfaces.GenerateRequest) (*types.Signal, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.sig, nil
}

type fakeTrainer struct {
	lastReq interfaces.TrainRequest
	result  *types.TrainingResult
	err     error
}

func (f *fakeTrainer) Train(ctx context.Context, req interfaces.TrainRequest) (*types.TrainingResult, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newTestServer(engine interfaces.SignalEngine, trainer interfaces.Trainer) *Server {
	return New(DefaultConfig(":0"), engine, trainer, memstore.NewModelStore(), Defaults{
		Symbol:    "XAUUSD",
		Timeframe: "M5",
		ModelID:   "hrm_scalping_v1",
	})
}

func TestGenerateSignalAppliesDefaults(t *testing.T) {
	eng := &fakeEngine{sig: &types.Signal{ID: "s1", Symbol: "XAUUSD", Type: types.SignalHold}}
	srv := newTestServer(eng, &fakeTrainer{})

	req := httptest.NewRequest("POST", "/api/v1/signals/generate", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if eng.lastReq.Symbol != "XAUUSD" || eng.lastReq.Timeframe != "M5" || eng.lastReq.ModelID != "hrm_scalping_v1" {
		t.Errorf("Expected configured defaults, got %+v", eng.lastReq)
	}

	var body struct {
		Status string       `json:"status"`
		Signal types.Signal `json:"signal"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Bad response body: %v", err)
	}
	if body.Status != "applied" || body.Signal.ID != "s1" {
		t.Errorf("Unexpected response: %+v", body)
	}
}

func TestGenerateSignalHonorsRequestBody(t *testing.T) {
	eng := &fakeEngine{sig: &types.Signal{ID: "s2"}}
	srv := newTestServer(eng, &fakeTrainer{})

	payload, _ := json.Marshal(map[string]string{
		"symbol": "EURUSD", "timeframe": "H1", "model_id": "alt",
	})
	req := httptest.NewRequest("POST", "/api/v1/signals/generate", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if eng.lastReq.Symbol != "EURUSD" || eng.lastReq.Timeframe != "H1" || eng.lastReq.ModelID != "alt" {
		t.Errorf("Expected request body values, got %+v", eng.lastReq)
	}
}

func TestGenerateSignalInsufficientDataIs422(t *testing.T) {
	eng := &fakeEngine{err: &types.InsufficientDataError{Op: "engine.Generate", Have: 10, Want: 50}}
	srv := newTestServer(eng, &fakeTrainer{})

	req := httptest.NewRequest("POST", "/api/v1/signals/generate", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422, got %d", rec.Code)
	}
}

func TestGenerateSignalFetchFailureIs502(t *testing.T) {
	eng := &fakeEngine{err: &types.ExternalFetchError{Source: "mt5-bridge", Err: errors.New("refused")}}
	srv := newTestServer(eng, &fakeTrainer{})

	req := httptest.NewRequest("POST", "/api/v1/signals/generate", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("Expected 502, got %d", rec.Code)
	}
}

func TestTrainModelConflictIs409(t *testing.T) {
	trainer := &fakeTrainer{err: &types.TrainingInProgressError{ModelID: "m1"}}
	srv := newTestServer(&fakeEngine{}, trainer)

	req := httptest.NewRequest("POST", "/api/v1/models/m1/train", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409, got %d", rec.Code)
	}

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Bad response body: %v", err)
	}
	if body.Status != "rejected" {
		t.Errorf("Expected rejected status, got %s", body.Status)
	}
}

func TestTrainModelPassesEpochs(t *testing.T) {
	trainer := &fakeTrainer{result: &types.TrainingResult{ModelID: "m1"}}
	srv := newTestServer(&fakeEngine{}, trainer)

	// No body: epochs is -1, meaning "use the configured default".
	req := httptest.NewRequest("POST", "/api/v1/models/m1/train", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if trainer.lastReq.ModelID != "m1" || trainer.lastReq.Epochs != -1 {
		t.Errorf("Expected model m1 with epochs -1, got %+v", trainer.lastReq)
	}

	// Explicit zero epochs must survive as zero, not the default.
	payload, _ := json.Marshal(map[string]int{"epochs": 0})
	req = httptest.NewRequest("POST", "/api/v1/models/m1/train", bytes.NewReader(payload))
	rec = httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	if trainer.lastReq.Epochs != 0 {
		t.Errorf("Expected explicit epochs 0, got %d", trainer.lastReq.Epochs)
	}
}

func TestGetModelReturnsWeights(t *testing.T) {
	srv := newTestServer(&fakeEngine{}, &fakeTrainer{})

	req := httptest.NewRequest("GET", "/api/v1/models/unknown", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body struct {
		ModelID string             `json:"model_id"`
		Weights types.ModelWeights `json:"weights"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Bad response body: %v", err)
	}
	if body.ModelID != "unknown" {
		t.Errorf("Expected model id echoed back, got %s", body.ModelID)
	}
	if body.Weights != types.DefaultWeights() {
		t.Errorf("Expected untrained defaults, got %+v", body.Weights)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(&fakeEngine{}, &fakeTrainer{})

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	srv := newTestServer(&fakeEngine{}, &fakeTrainer{})

	req := httptest.NewRequest("GET", "/api/v1/nope", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}
