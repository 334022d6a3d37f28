package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"olistcli/internal/errors"
	"olistcli/internal/infrastructure"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &CSVWriter{logger: infrastructure.WithComponent(logger, "csv_writer")}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers []string
	Records [][]string
}

// WriteCSV writes data to filePath, creating its directory if needed. The file
// is truncated, so a rerun replaces the previous output.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return errors.NewStorageError("failed to create output directory", err).WithContext("file", filePath)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.NewStorageError("failed to open output file", err).WithContext("file", filePath)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return errors.NewStorageError("failed to write headers", err).WithContext("file", filePath)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return errors.NewStorageError(fmt.Sprintf("failed to write record %d", i), err).WithContext("file", filePath)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.NewStorageError("failed to flush CSV", err).WithContext("file", filePath)
	}
	return file.Close()
}

// WriteTable overwrites filePath with a header row followed by rows
func (w *CSVWriter) WriteTable(filePath string, headers []string, rows [][]string) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers: headers,
		Records: rows,
	})
}
