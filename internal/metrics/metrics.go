// Package metrics records step and run results as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shawn-b/GuerrillaMailTester/internal/runner"
)

const MetricsNamespace = "gmtest"

// Recorder implements runner.Observer on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	stepResults  *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
	runSuccess   *prometheus.GaugeVec
	runsTotal    *prometheus.CounterVec
}

var _ runner.Observer = (*Recorder)(nil)

// NewRecorder creates a Recorder with all metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		stepResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "step_results_total",
			Help:      "Count of step results",
		}, []string{
			"run",
			"step",
			"result",
		}),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Name:      "step_duration_seconds",
			Help:      "Duration of each step",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{
			"step",
		}),
		runSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "run_success",
			Help:      "1 if the last run with this name passed, 0 otherwise",
		}, []string{
			"run",
		}),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "runs_total",
			Help:      "Count of finished runs",
		}, []string{
			"result",
		}),
	}

	r.registry.MustRegister(r.stepResults, r.stepDuration, r.runSuccess, r.runsTotal)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) ObserveStep(run string, step runner.StepResult) {
	r.stepResults.WithLabelValues(run, step.Name, step.Status).Inc()
	r.stepDuration.WithLabelValues(step.Name).Observe(step.Duration.Seconds())
}

func (r *Recorder) ObserveRun(result runner.Result) {
	status := "pass"
	success := 1.0
	if !result.Passed() {
		status = "fail"
		success = 0
	}
	r.runSuccess.WithLabelValues(result.Name).Set(success)
	r.runsTotal.WithLabelValues(status).Inc()
}

// WriteTextfile writes all metrics to path in the text exposition format,
// suitable for the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
