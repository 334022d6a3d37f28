package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Well-known file names inside the analysis directory
const (
	ETLMetricsFile      = "etl.prom"
	AnalysisMetricsFile = "analysis.prom"
)

// Paths contains all the pipeline paths.
// This is the single source of truth for every file the jobs read or write;
// nothing below cmd/ builds a path on its own.
type Paths struct {
	BaseDir     string
	DataDir     string
	AnalysisDir string
	LogsDir     string

	// Well-known files
	ProcessedCSV    string
	SummaryXLSX     string
	ETLMetrics      string
	AnalysisMetrics string
}

// GetPaths resolves the pipeline directories against BaseDir. A relative
// BaseDir is taken relative to the current working directory.
func GetPaths(cfg PipelineConfig) (*Paths, error) {
	base := cfg.BaseDir
	if base == "" {
		base = "."
	}

	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	analysisDir := resolve(cfg.AnalysisDir)

	paths := &Paths{
		BaseDir:     base,
		DataDir:     resolve(cfg.DataDir),
		AnalysisDir: analysisDir,
		LogsDir:     filepath.Join(base, "logs"),

		ProcessedCSV:    filepath.Join(analysisDir, cfg.OutputFile),
		ETLMetrics:      filepath.Join(analysisDir, ETLMetricsFile),
		AnalysisMetrics: filepath.Join(analysisDir, AnalysisMetricsFile),
	}
	if cfg.SummaryWorkbook != "" {
		paths.SummaryXLSX = filepath.Join(analysisDir, cfg.SummaryWorkbook)
	}

	return paths, nil
}

// GetReportPath returns the path of a report image inside the analysis directory
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.AnalysisDir, filename)
}

// GetLogPath resolves a log file name inside LogsDir. Absolute paths are
// returned unchanged.
func (p *Paths) GetLogPath(filename string) string {
	if filename == "" || filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.LogsDir, filename)
}

// EnsureAnalysisDir creates the analysis directory if it doesn't exist
func (p *Paths) EnsureAnalysisDir() error {
	if err := os.MkdirAll(p.AnalysisDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", p.AnalysisDir, err)
	}
	return nil
}

// LogPathResolution logs all resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Path resolution",
		slog.String("base_dir", p.BaseDir),
		slog.String("data_dir", p.DataDir),
		slog.String("analysis_dir", p.AnalysisDir),
		slog.String("processed_csv", p.ProcessedCSV),
		slog.String("summary_xlsx", p.SummaryXLSX))
}
