package metrics

import (
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TrainRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "clipcast_train_runs_total",
		Help: "Total completed training runs",
	})
	TrainErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "clipcast_train_errors_total",
		Help: "Total failed training runs",
	})
	TrainDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "clipcast_train_duration_seconds",
		Help:    "Training run duration seconds",
		Buckets: prometheus.DefBuckets,
	})
	Predictions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clipcast_predictions_total",
		Help: "Total prediction requests by mode",
	}, []string{"mode"})
	UnseenCategories = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clipcast_unseen_categories_total",
		Help: "Categorical values mapped to the unseen sentinel at inference",
	}, []string{"field"})
	CommandRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clipcast_command_runs_total",
		Help: "Total CLI command invocations",
	}, []string{"command"})
	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clipcast_command_errors_total",
		Help: "Total CLI command failures",
	}, []string{"command"})
)

func init() {
	prometheus.MustRegister(TrainRuns, TrainErrors, TrainDuration, Predictions, UnseenCategories, CommandRuns, CommandErrors)
}

// StartServer starts a metrics HTTP server on addr (e.g., ":9090").
func StartServer(addr string) {
	if addr == "" {
		addr = os.Getenv("METRICS_ADDR")
	}
	if addr == "" {
		return
	}
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	go func() { _ = http.ListenAndServe(addr, nil) }()
}

// ObserveTrainDuration records a training run duration.
func ObserveTrainDuration(start time.Time) {
	TrainDuration.Observe(time.Since(start).Seconds())
}

// IncPrediction counts a prediction request ("single" or "bulk").
func IncPrediction(mode string) { Predictions.WithLabelValues(mode).Inc() }

// IncUnseenCategory counts an unseen categorical value for a field.
func IncUnseenCategory(field string) { UnseenCategories.WithLabelValues(field).Inc() }

// IncCommandRun counts a CLI command invocation.
func IncCommandRun(cmd string) { CommandRuns.WithLabelValues(cmd).Inc() }

// IncCommandError counts a CLI command failure.
func IncCommandError(cmd string) { CommandErrors.WithLabelValues(cmd).Inc() }
