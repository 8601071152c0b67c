// Package metrics records run statistics as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the metrics of one build run.
type Recorder struct {
	registry *prometheus.Registry

	TableRows     *prometheus.GaugeVec
	Fallbacks     *prometheus.GaugeVec
	ParseErrors   *prometheus.GaugeVec
	StageDuration *prometheus.GaugeVec
	FilesWritten  *prometheus.CounterVec
}

// NewRecorder creates a recorder backed by its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		TableRows: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "starbuild_table_rows",
			Help: "Number of rows materialized per output table",
		}, []string{"table"}),
		Fallbacks: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "starbuild_resolution_fallbacks",
			Help: "Number of lookups that fell back to the default key, per dimension",
		}, []string{"dimension"}),
		ParseErrors: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "starbuild_parse_errors",
			Help: "Number of source values that failed to parse, per column",
		}, []string{"column"}),
		StageDuration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "starbuild_stage_duration_seconds",
			Help: "Wall time spent in each build stage",
		}, []string{"stage"}),
		FilesWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "starbuild_files_written_total",
			Help: "Number of output files written, per format",
		}, []string{"format"}),
	}
}

// Registry returns the registry the metrics are registered with.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveStage records the duration of a build stage.
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	r.StageDuration.WithLabelValues(stage).Set(d.Seconds())
}

// SetTableRows records the row count of an output table.
func (r *Recorder) SetTableRows(table string, rows int) {
	r.TableRows.WithLabelValues(table).Set(float64(rows))
}

// SetFallbacks records fallback counts keyed by dimension.
func (r *Recorder) SetFallbacks(counts map[string]int64) {
	for d, n := range counts {
		r.Fallbacks.WithLabelValues(d).Set(float64(n))
	}
}

// SetParseErrors records parse error counts keyed by "table.column".
func (r *Recorder) SetParseErrors(counts map[string]int64) {
	for c, n := range counts {
		r.ParseErrors.WithLabelValues(c).Set(float64(n))
	}
}

// FileWritten counts one output file.
func (r *Recorder) FileWritten(format string) {
	r.FilesWritten.WithLabelValues(format).Inc()
}

// WriteTextfile writes the metrics in text exposition format, for the node
// exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
