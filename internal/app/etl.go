package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"olistcli/internal/config"
	"olistcli/internal/dataprocessing"
	"olistcli/internal/errors"
	"olistcli/internal/exporter"
	"olistcli/internal/infrastructure"
	"olistcli/internal/validation"
	"olistcli/pkg/contracts/domain"
)

// ETLResult describes a finished ETL run
type ETLResult struct {
	Tables     []string
	Stats      dataprocessing.TransformStats
	OutputPath string
}

// RunETL extracts the CSV tables from the data directory, joins and cleans
// them, and overwrites the processed CSV. Any failure ends the run.
func RunETL(ctx context.Context, cfg *config.Config, out io.Writer) (*ETLResult, error) {
	if out == nil {
		out = io.Discard
	}
	ctx = infrastructure.EnsureTraceID(ctx)
	logger := infrastructure.WithJob(infrastructure.LoggerWithContext(ctx), "etl")
	start := time.Now()

	paths, err := config.GetPaths(cfg.Pipeline)
	if err != nil {
		return nil, err
	}
	paths.LogPathResolution(logger)

	var metrics *infrastructure.Metrics
	if cfg.Telemetry.MetricsEnabled {
		metrics = infrastructure.NewMetrics("etl")
	}

	tracing, err := infrastructure.InitTracing(cfg.Telemetry, "etl", nil, logger)
	if err != nil {
		return nil, err
	}
	defer tracing.Shutdown(context.WithoutCancel(ctx))

	ctx, span := tracing.StartSpan(ctx, "etl", attribute.String("olist.data_dir", paths.DataDir))
	result, err := runETL(ctx, paths, logger, metrics, tracing, out)
	infrastructure.EndSpan(span, err)
	if err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "ETL failed")
		return nil, err
	}

	metrics.ObserveStage("etl", start)
	if err := metrics.WriteTextfile(paths.ETLMetrics); err != nil {
		infrastructure.WithError(logger, err).WarnContext(ctx, "Failed to write metrics")
	}

	logger.InfoContext(ctx, "ETL completed",
		slog.String("output", result.OutputPath),
		slog.Int("rows", result.Stats.OutputRows),
		slog.Duration("duration", time.Since(start)))
	return result, nil
}

func runETL(ctx context.Context, paths *config.Paths, logger *slog.Logger, metrics *infrastructure.Metrics, tracing *infrastructure.Tracing, out io.Writer) (*ETLResult, error) {
	// Extract
	fmt.Fprintln(out, "Starting data extraction...")
	loadCtx, span := tracing.StartSpan(ctx, "etl.load")
	tables, err := dataprocessing.NewLoader(logger, metrics).LoadDirectory(loadCtx, paths.DataDir)
	infrastructure.EndSpan(span, err)
	if err != nil {
		return nil, err
	}
	for _, name := range tables.Names() {
		fmt.Fprintf(out, "  - Table '%s' loaded (%d rows).\n", name, tables[name].Len())
	}

	// Transform
	fmt.Fprintln(out, "\nStarting data transformation...")
	transformCtx, span := tracing.StartSpan(ctx, "etl.transform")
	cleaned, stats, err := dataprocessing.NewTransformer(logger, metrics).Transform(transformCtx, tables)
	if err == nil {
		span.SetAttributes(
			attribute.Int("olist.joined_rows", stats.JoinedRows),
			attribute.Int("olist.dropped_rows", stats.DroppedRows))
	}
	infrastructure.EndSpan(span, err)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(out, "  - Product category names translated.")
	fmt.Fprintf(out, "  - Main tables joined (%d rows).\n", stats.JoinedRows)
	fmt.Fprintf(out, "  - Date columns converted: %s\n", strings.Join(domain.DateColumns, ", "))
	fmt.Fprintf(out, "  - Records missing critical fields removed (%d dropped).\n", stats.DroppedRows)
	fmt.Fprintln(out, "Transformation complete.")

	// Load
	fmt.Fprintf(out, "\nLoading data into '%s'...\n", paths.ProcessedCSV)
	_, span = tracing.StartSpan(ctx, "etl.write", attribute.String("olist.output", paths.ProcessedCSV))
	err = writeProcessed(paths, cleaned, logger, metrics)
	infrastructure.EndSpan(span, err)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(out, "Load completed successfully!")

	return &ETLResult{
		Tables:     tables.Names(),
		Stats:      stats,
		OutputPath: paths.ProcessedCSV,
	}, nil
}

func writeProcessed(paths *config.Paths, table *dataprocessing.Table, logger *slog.Logger, metrics *infrastructure.Metrics) error {
	start := time.Now()
	defer metrics.ObserveStage("write", start)

	if err := paths.EnsureAnalysisDir(); err != nil {
		return errors.NewStorageError("failed to prepare analysis directory", err)
	}
	if err := validation.NewFileValidator(logger).ValidateOutputDirectory(paths.AnalysisDir); err != nil {
		return err
	}
	if err := exporter.NewCSVWriter(logger).WriteTable(paths.ProcessedCSV, table.Columns, table.Rows); err != nil {
		return err
	}
	if metrics != nil {
		metrics.WrittenRows.Set(float64(table.Len()))
	}
	return nil
}
