package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus instruments of the recon worker and engine.
type Metrics struct {
	TasksProcessed *prometheus.CounterVec
	ReconOutcomes  *prometheus.CounterVec
	TaskDuration   prometheus.Histogram
	QueueIdlePolls prometheus.Counter
}

// New registers the recon instruments on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TasksProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recon",
			Subsystem: "worker",
			Name:      "tasks_processed_total",
			Help:      "Process tasks finished by the worker, by terminal status.",
		}, []string{"status"}),
		ReconOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recon",
			Subsystem: "engine",
			Name:      "outcomes_total",
			Help:      "Recon engine outcomes per staging entry.",
		}, []string{"outcome"}),
		TaskDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "recon",
			Subsystem: "worker",
			Name:      "task_duration_seconds",
			Help:      "Wall time spent reconciling one staging entry.",
			Buckets:   prometheus.DefBuckets,
		}),
		QueueIdlePolls: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "recon",
			Subsystem: "worker",
			Name:      "idle_polls_total",
			Help:      "Polls that found the task queue empty.",
		}),
	}
}
