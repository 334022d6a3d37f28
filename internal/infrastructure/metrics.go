package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the per-job Prometheus registry. Batch jobs have no scrape
// endpoint, so the registry is dumped in textfile-collector format at exit.
type Metrics struct {
	reg *prometheus.Registry

	TableRows       *prometheus.GaugeVec
	JoinedRows      prometheus.Gauge
	DroppedRows     prometheus.Gauge
	DatesCoerced    *prometheus.CounterVec
	WrittenRows     prometheus.Gauge
	ReportsTotal    *prometheus.CounterVec
	StageDuration   *prometheus.HistogramVec
	LastRunUnixTime prometheus.Gauge
}

// NewMetrics creates a registry with every pipeline collector registered
func NewMetrics(job string) *Metrics {
	r := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"job_name": job}

	tableRows := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:        "olist_table_rows",
		Help:        "Rows read per input table.",
		ConstLabels: constLabels,
	}, []string{"table"})
	joinedRows := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "olist_joined_rows",
		Help:        "Rows produced by the order join chain before cleaning.",
		ConstLabels: constLabels,
	})
	droppedRows := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "olist_dropped_rows",
		Help:        "Rows dropped for missing essential fields.",
		ConstLabels: constLabels,
	})
	datesCoerced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "olist_dates_coerced_total",
		Help:        "Non-empty date values that failed to parse and became absent.",
		ConstLabels: constLabels,
	}, []string{"column"})
	writtenRows := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "olist_written_rows",
		Help:        "Rows written to the processed CSV.",
		ConstLabels: constLabels,
	})
	reports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "olist_reports_total",
		Help:        "Reports generated, by outcome.",
		ConstLabels: constLabels,
	}, []string{"report", "status"})
	stageDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "olist_stage_duration_seconds",
		Help:        "Wall time per pipeline stage.",
		Buckets:     prometheus.DefBuckets,
		ConstLabels: constLabels,
	}, []string{"stage"})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "olist_last_run_timestamp_seconds",
		Help:        "Unix time the job finished.",
		ConstLabels: constLabels,
	})

	r.MustRegister(tableRows, joinedRows, droppedRows, datesCoerced, writtenRows, reports, stageDuration, lastRun)

	return &Metrics{
		reg:             r,
		TableRows:       tableRows,
		JoinedRows:      joinedRows,
		DroppedRows:     droppedRows,
		DatesCoerced:    datesCoerced,
		WrittenRows:     writtenRows,
		ReportsTotal:    reports,
		StageDuration:   stageDuration,
		LastRunUnixTime: lastRun,
	}
}

// ObserveStage records the elapsed time since start for stage
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// WriteTextfile stamps the run time and writes the registry to path
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	m.LastRunUnixTime.SetToCurrentTime()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
