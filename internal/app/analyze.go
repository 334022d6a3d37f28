package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"olistcli/internal/analysis"
	"olistcli/internal/config"
	"olistcli/internal/errors"
	"olistcli/internal/exporter"
	"olistcli/internal/infrastructure"
)

// ErrInputMissing is returned by RunAnalysis when the processed CSV does not
// exist. Callers treat it as a normal early exit: the operator has to run
// the ETL job first.
var ErrInputMissing = stderrors.New("processed dataset not found")

// RunAnalysis loads the processed CSV and runs every report over it
func RunAnalysis(ctx context.Context, cfg *config.Config, out io.Writer) ([]analysis.Summary, error) {
	if out == nil {
		out = io.Discard
	}
	ctx = infrastructure.EnsureTraceID(ctx)
	logger := infrastructure.WithJob(infrastructure.LoggerWithContext(ctx), "analysis")
	start := time.Now()

	paths, err := config.GetPaths(cfg.Pipeline)
	if err != nil {
		return nil, err
	}
	paths.LogPathResolution(logger)

	fmt.Fprintln(out, "--- Starting Exploratory Data Analysis Pipeline ---")

	records, err := analysis.LoadRecords(ctx, paths.ProcessedCSV, logger)
	if errors.IsType(err, errors.ErrTypeNotFound) {
		fmt.Fprintf(out, "ERROR: The file '%s' was not found.\n", paths.ProcessedCSV)
		fmt.Fprintln(out, "Please run the ETL job first.")
		logger.WarnContext(ctx, "Processed dataset missing",
			slog.String("path", paths.ProcessedCSV),
			slog.String("hint", "Run the etl job first to generate the processed dataset"))
		return nil, fmt.Errorf("%w: %s", ErrInputMissing, paths.ProcessedCSV)
	}
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "Processed data loaded from '%s' (%d records).\n", paths.ProcessedCSV, len(records))

	var metrics *infrastructure.Metrics
	if cfg.Telemetry.MetricsEnabled {
		metrics = infrastructure.NewMetrics("analysis")
	}

	tracing, err := infrastructure.InitTracing(cfg.Telemetry, "analysis", nil, logger)
	if err != nil {
		return nil, err
	}
	defer tracing.Shutdown(context.WithoutCancel(ctx))

	registry, err := analysis.DefaultRegistry(cfg.Pipeline)
	if err != nil {
		return nil, err
	}

	ctx, span := tracing.StartSpan(ctx, "analysis", attribute.Int("olist.records", len(records)))
	summaries, err := analysis.NewAnalyzer(registry, out, logger, metrics, tracing).Run(ctx, records, paths)
	if err == nil && paths.SummaryXLSX != "" {
		err = exporter.NewWorkbookWriter(logger).Write(paths.SummaryXLSX, analysis.Sheets(summaries))
	}
	infrastructure.EndSpan(span, err)
	if err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Analysis failed")
		return summaries, err
	}

	metrics.ObserveStage("analysis", start)
	if err := metrics.WriteTextfile(paths.AnalysisMetrics); err != nil {
		infrastructure.WithError(logger, err).WarnContext(ctx, "Failed to write metrics")
	}

	fmt.Fprintln(out, "\n--- Exploratory Data Analysis ---")
	fmt.Fprintln(out, "---   STATUS: Completed       ---")
	fmt.Fprintf(out, "All charts were saved to '%s'.\n", paths.AnalysisDir)

	logger.InfoContext(ctx, "Analysis completed",
		slog.Int("reports", len(summaries)),
		slog.Duration("duration", time.Since(start)))
	return summaries, nil
}
