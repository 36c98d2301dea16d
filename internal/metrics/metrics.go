package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SignalsGenerated counts produced signals by type.
	SignalsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sentinel",
		Name:      "signals_generated_total",
		Help:      "Signals produced, labelled by signal type.",
	}, []string{"signal_type"})

	// SignalErrors counts failed generation passes.
	SignalErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sentinel",
		Name:      "signal_errors_total",
		Help:      "Signal generation passes that returned an error.",
	})

	// TrainingRuns counts completed training runs.
	TrainingRuns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sentinel",
		Name:      "training_runs_total",
		Help:      "Training runs that completed and persisted weights.",
	})

	// TrainingFailures counts aborted training runs.
	TrainingFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sentinel",
		Name:      "training_failures_total",
		Help:      "Training runs that aborted without persisting.",
	})

	// LastTrainingLoss is the final-epoch average loss of the latest run.
	LastTrainingLoss = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "sentinel",
		Name:      "training_loss",
		Help:      "Final-epoch average binary cross-entropy of the last run.",
	})

	// LastTrainingAccuracy is the final-epoch accuracy of the latest run.
	LastTrainingAccuracy = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "sentinel",
		Name:      "training_accuracy",
		Help:      "Final-epoch label accuracy of the last run.",
	})
)

// Handler exposes the default prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
