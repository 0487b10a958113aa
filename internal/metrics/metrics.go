package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// AnalysesTotal counts outbound analyses by result ("ok" or "error").
	AnalysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chartsight",
		Subsystem: "analysis",
		Name:      "requests_total",
		Help:      "Total number of chart analyses sent to the inference service, labeled by result.",
	}, []string{"result"})

	// AnalysisDurationSeconds is the time spent waiting on the inference service.
	AnalysisDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chartsight",
		Subsystem: "analysis",
		Name:      "duration_seconds",
		Help:      "Time to encode a chart and receive the model's analysis.",
		// Vision models on CPU routinely take minutes.
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120, 300, 600},
	}, []string{"result"})

	// UploadsRejectedTotal counts uploads that could not be decoded as a chart image.
	UploadsRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "chartsight",
		Subsystem: "upload",
		Name:      "rejected_total",
		Help:      "Total number of uploads rejected before analysis.",
	})
)

// Register registers the metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			AnalysesTotal,
			AnalysisDurationSeconds,
			UploadsRejectedTotal,
		)
	})
}

// Recorder feeds analysis outcomes into the collectors above.
type Recorder struct{}

// Observe records one analysis.
func (Recorder) Observe(ok bool, elapsed time.Duration) {
	result := "ok"
	if !ok {
		result = "error"
	}
	AnalysesTotal.WithLabelValues(result).Inc()
	AnalysisDurationSeconds.WithLabelValues(result).Observe(elapsed.Seconds())
}
