// Package metrics records sync metrics with Prometheus collectors and writes
// them to a node-exporter textfile after each run.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driven"
	"github.com/custodia-labs/helpscout-archive/internal/logger"
)

// Ensure Recorder implements the interface.
var _ driven.SyncMetrics = (*Recorder)(nil)

// Recorder bundles the sync collectors on a private registry.
type Recorder struct {
	registry *prometheus.Registry
	textfile string

	pages            prometheus.Counter
	records          prometheus.Counter
	skipped          prometheus.Counter
	threadFallbacks  prometheus.Counter
	rateLimitRetries prometheus.Counter
	runs             *prometheus.CounterVec
	lastRun          prometheus.Gauge
	lastSuccess      prometheus.Gauge
	lastDuration     prometheus.Gauge
	indexEntries     prometheus.Gauge
	indexSkipped     prometheus.Gauge
}

// NewRecorder creates a recorder. When textfile is set, every finished run
// rewrites it with the current values.
func NewRecorder(textfile string) *Recorder {
	m := &Recorder{
		registry: prometheus.NewRegistry(),
		textfile: textfile,
		pages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hsarchive_pages_total",
			Help: "Pages fetched and archived.",
		}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hsarchive_records_archived_total",
			Help: "Records written to the archive.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hsarchive_records_skipped_total",
			Help: "Payload entries that could not be decoded.",
		}),
		threadFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hsarchive_thread_fallbacks_total",
			Help: "Records archived with an empty thread list after a thread fetch failed.",
		}),
		rateLimitRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hsarchive_rate_limit_retries_total",
			Help: "Requests repeated after a rate-limit response.",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hsarchive_runs_total",
			Help: "Sync invocations by outcome.",
		}, []string{"outcome"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hsarchive_last_run_timestamp_seconds",
			Help: "Finish time of the last sync invocation.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hsarchive_last_success_timestamp_seconds",
			Help: "Finish time of the last successful sync invocation.",
		}),
		lastDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hsarchive_last_run_duration_seconds",
			Help: "Wall-clock duration of the last sync invocation.",
		}),
		indexEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hsarchive_index_entries",
			Help: "Entries in the last built index.",
		}),
		indexSkipped: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hsarchive_index_skipped",
			Help: "Archive files skipped by the last index build.",
		}),
	}

	m.registry.MustRegister(
		m.pages, m.records, m.skipped, m.threadFallbacks, m.rateLimitRetries,
		m.runs, m.lastRun, m.lastSuccess, m.lastDuration, m.indexEntries, m.indexSkipped,
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Recorder) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveBatch records one archived batch.
func (m *Recorder) ObserveBatch(batch *domain.Batch) {
	if batch == nil {
		return
	}
	m.pages.Inc()
	m.records.Add(float64(len(batch.Records)))
	m.skipped.Add(float64(batch.Skipped))
	m.threadFallbacks.Add(float64(batch.ThreadFallbacks))
	m.rateLimitRetries.Add(float64(batch.RateLimitRetries))
}

// ObserveIndex records an index rebuild.
func (m *Recorder) ObserveIndex(report *domain.IndexReport) {
	if report == nil {
		return
	}
	m.indexEntries.Set(float64(report.Entries))
	m.indexSkipped.Set(float64(report.Skipped))
}

// ObserveRun records a finished run and refreshes the textfile.
func (m *Recorder) ObserveRun(report *domain.SyncReport) {
	if report == nil {
		return
	}
	m.runs.WithLabelValues(string(report.Outcome)).Inc()
	m.lastDuration.Set(report.Duration().Seconds())
	if !report.FinishedAt.IsZero() {
		m.lastRun.Set(float64(report.FinishedAt.Unix()))
		if !report.Outcome.IsFatal() {
			m.lastSuccess.Set(float64(report.FinishedAt.Unix()))
		}
	}

	if err := m.WriteTextfile(); err != nil {
		logger.Warn("writing metrics: %v", err)
	}
}

// WriteTextfile writes the registry to the configured textfile. It is a
// no-op when no textfile is configured.
func (m *Recorder) WriteTextfile() error {
	if m.textfile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(m.textfile, m.registry); err != nil {
		return fmt.Errorf("writing %s: %w", m.textfile, err)
	}
	return nil
}
