// Package metrics provides Prometheus metrics for dictionary loads. A load is
// a batch job, so metrics are written to a node-exporter textfile rather than
// served over HTTP.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jdegraft/openmrs-module-emrapi/internal/model"
)

// Metrics holds all load metrics on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	RowsRead      *prometheus.CounterVec
	RowsStaged    *prometheus.CounterVec
	RowsRejected  *prometheus.CounterVec
	RowsUpserted  *prometheus.CounterVec
	FilesSkipped  *prometheus.CounterVec
	PhaseDuration *prometheus.GaugeVec
	LastSuccess   prometheus.Gauge
}

// New creates and registers all metrics
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RowsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emrapi_load_rows_read_total",
			Help: "Dictionary rows read from Parquet",
		}, []string{"kind"}),
		RowsStaged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emrapi_load_rows_staged_total",
			Help: "Dictionary rows copied into staging",
		}, []string{"kind"}),
		RowsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emrapi_load_rows_rejected_total",
			Help: "Dictionary rows rejected during normalization",
		}, []string{"kind"}),
		RowsUpserted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emrapi_load_rows_upserted_total",
			Help: "Rows upserted into dict tables",
		}, []string{"table"}),
		FilesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emrapi_load_files_skipped_total",
			Help: "Dictionary files skipped because they were already loaded",
		}, []string{"kind"}),
		PhaseDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "emrapi_load_phase_duration_seconds",
			Help: "Duration of the last load per phase",
		}, []string{"kind", "phase"}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "emrapi_load_last_success_timestamp_seconds",
			Help: "Unix time of the last successful load",
		}),
	}

	m.registry.MustRegister(
		m.RowsRead,
		m.RowsStaged,
		m.RowsRejected,
		m.RowsUpserted,
		m.FilesSkipped,
		m.PhaseDuration,
		m.LastSuccess,
	)

	return m
}

// Observe records one file's load summary.
func (m *Metrics) Observe(s *model.LoadSummary) {
	kind := string(s.Kind)
	if s.Skipped {
		m.FilesSkipped.WithLabelValues(kind).Inc()
		return
	}
	m.RowsRead.WithLabelValues(kind).Add(float64(s.RowsRead))
	m.RowsStaged.WithLabelValues(kind).Add(float64(s.RowsStaged))
	m.RowsRejected.WithLabelValues(kind).Add(float64(s.RowsRejected))
	for table, n := range s.RowsUpserted {
		m.RowsUpserted.WithLabelValues(table).Add(float64(n))
	}
	m.PhaseDuration.WithLabelValues(kind, "stage").Set(s.DurationStage.Seconds())
	m.PhaseDuration.WithLabelValues(kind, "transform").Set(s.DurationTransform.Seconds())
	m.PhaseDuration.WithLabelValues(kind, "finalize").Set(s.DurationFinalize.Seconds())
	m.PhaseDuration.WithLabelValues(kind, "total").Set(s.DurationTotal.Seconds())
}

// MarkSuccess sets the last-success timestamp to now.
func (m *Metrics) MarkSuccess() {
	m.LastSuccess.SetToCurrentTime()
}

// WriteTextfile writes all metrics to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
