package analysis

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"olistcli/internal/charts"
	"olistcli/internal/config"
	"olistcli/internal/exporter"
	"olistcli/internal/infrastructure"
	"olistcli/pkg/contracts/domain"
)

// Report outcomes recorded in metrics
const (
	StatusOK      = "ok"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// DefaultRegistry registers the five standard reports in their fixed order
func DefaultRegistry(cfg config.PipelineConfig) (*Registry, error) {
	renderer := charts.NewRenderer(cfg.ChartWidthInches, cfg.ChartHeightInches)

	registry := NewRegistry()
	for _, r := range []Reporter{
		NewCategoryVolumeReport(renderer, cfg.TopCategories),
		NewDeliveryTimeReport(renderer, cfg.DeliveryCutoffDays, cfg.HistogramBins),
		NewDelaySatisfactionReport(renderer),
		NewFreightSatisfactionReport(renderer),
		NewInstallmentsRevenueReport(renderer),
	} {
		if err := registry.Register(r); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// Analyzer runs every registered reporter over one record set
type Analyzer struct {
	registry *Registry
	out      io.Writer
	logger   *slog.Logger
	metrics  *infrastructure.Metrics
	tracing  *infrastructure.Tracing
}

// NewAnalyzer creates an analyzer printing progress and summaries to out.
// metrics and tracing may be nil.
func NewAnalyzer(registry *Registry, out io.Writer, logger *slog.Logger, metrics *infrastructure.Metrics, tracing *infrastructure.Tracing) *Analyzer {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	if out == nil {
		out = io.Discard
	}
	return &Analyzer{
		registry: registry,
		out:      out,
		logger:   infrastructure.WithComponent(logger, "analyzer"),
		metrics:  metrics,
		tracing:  tracing,
	}
}

// Run executes the reporters in registration order, writing each chart into
// the analysis directory. A reporter without eligible records is skipped; any
// other error stops the run.
func (a *Analyzer) Run(ctx context.Context, records []domain.OrderRecord, paths *config.Paths) ([]Summary, error) {
	reporters := a.registry.List()
	summaries := make([]Summary, 0, len(reporters))

	for i, r := range reporters {
		fmt.Fprintf(a.out, "\nAnalysis %d/%d - Generating %s...\n", i+1, len(reporters), r.Title())

		summary, err := a.runOne(ctx, r, records, paths.GetReportPath(r.Filename()))
		fmt.Fprint(a.out, summary.String())

		switch {
		case stderrors.Is(err, ErrNoData):
			a.logger.WarnContext(ctx, "Report skipped",
				slog.String("report", r.ID()),
				slog.String("reason", err.Error()))
			a.countReport(r.ID(), StatusSkipped)
			summaries = append(summaries, summary)
			continue
		case err != nil:
			a.countReport(r.ID(), StatusFailed)
			return summaries, fmt.Errorf("report %s: %w", r.ID(), err)
		}

		fmt.Fprintf(a.out, "  - Chart saved as '%s'.\n", r.Filename())
		a.countReport(r.ID(), StatusOK)
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

func (a *Analyzer) runOne(ctx context.Context, r Reporter, records []domain.OrderRecord, outPath string) (summary Summary, err error) {
	ctx, span := a.tracing.StartSpan(ctx, "report."+r.ID(),
		attribute.String("report.file", r.Filename()),
		attribute.Int("report.records", len(records)))
	start := time.Now()
	defer func() {
		a.metrics.ObserveStage("report_"+r.ID(), start)
		if stderrors.Is(err, ErrNoData) {
			infrastructure.EndSpan(span, nil)
			return
		}
		infrastructure.EndSpan(span, err)
	}()

	summary, err = r.Generate(ctx, records, outPath)
	if err != nil {
		return summary, err
	}

	span.SetAttributes(attribute.Int("report.eligible", summary.Eligible))
	a.logger.InfoContext(ctx, "Report generated",
		slog.String("report", r.ID()),
		slog.String("chart", outPath),
		slog.Int("eligible_records", summary.Eligible),
		slog.Duration("duration", time.Since(start)))
	return summary, nil
}

func (a *Analyzer) countReport(id, status string) {
	if a.metrics == nil {
		return
	}
	a.metrics.ReportsTotal.WithLabelValues(id, status).Inc()
}

// Sheets converts summaries to workbook sheets, one per report
func Sheets(summaries []Summary) []exporter.Sheet {
	sheets := make([]exporter.Sheet, 0, len(summaries))
	for _, s := range summaries {
		rows := make([][]interface{}, len(s.Rows))
		for i, r := range s.Rows {
			row := make([]interface{}, len(r))
			for j, v := range r {
				row[j] = v
			}
			rows[i] = row
		}
		sheets = append(sheets, exporter.Sheet{
			Name:    s.ReportID,
			Title:   s.Title,
			Headers: s.Headers,
			Rows:    rows,
		})
	}
	return sheets
}
