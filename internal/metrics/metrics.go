// Package metrics records conversion run metrics and exports them for the
// node exporter textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the run metrics on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	RowsWritten  *prometheus.CounterVec
	FilesWritten *prometheus.CounterVec
	Diagnostics  *prometheus.CounterVec
	RunDuration  prometheus.Histogram
	RunFailures  prometheus.Counter
}

// New creates and registers all metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RowsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "acg_rows_written_total",
			Help: "Data rows written per output file",
		}, []string{"file"}),
		FilesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "acg_files_written_total",
			Help: "Output files written",
		}, []string{"file"}),
		Diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "acg_diagnostics_total",
			Help: "Diagnostics recorded during generation",
		}, []string{"severity"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "acg_run_duration_seconds",
			Help:    "Conversion run duration",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 300},
		}),
		RunFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "acg_run_failures_total",
			Help: "Runs that failed to produce a required file",
		}),
	}

	m.registry.MustRegister(
		m.RowsWritten,
		m.FilesWritten,
		m.Diagnostics,
		m.RunDuration,
		m.RunFailures,
	)

	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// FileWritten records one written file and its row count.
func (m *Metrics) FileWritten(file string, rows int) {
	m.FilesWritten.WithLabelValues(file).Inc()
	m.RowsWritten.WithLabelValues(file).Add(float64(rows))
}

// RunFinished records the run duration and the diagnostics per severity.
func (m *Metrics) RunFinished(d time.Duration, failed bool, bySeverity map[string]int) {
	m.RunDuration.Observe(d.Seconds())

	if failed {
		m.RunFailures.Inc()
	}

	for sev, n := range bySeverity {
		m.Diagnostics.WithLabelValues(sev).Add(float64(n))
	}
}

// WriteTextfile writes the registry in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}

	return nil
}
