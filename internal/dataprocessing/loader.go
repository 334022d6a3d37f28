package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"olistcli/internal/errors"
	"olistcli/internal/files"
	"olistcli/internal/infrastructure"
	"olistcli/internal/validation"
)

// nanMarker is how gota renders a missing string cell
const nanMarker = "NaN"

// Loader reads a directory of CSV files into named tables
type Loader struct {
	logger    *slog.Logger
	metrics   *infrastructure.Metrics
	validator *validation.FileValidator
}

// NewLoader creates a loader. metrics may be nil.
func NewLoader(logger *slog.Logger, metrics *infrastructure.Metrics) *Loader {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	logger = infrastructure.WithComponent(logger, "loader")
	return &Loader{
		logger:    logger,
		metrics:   metrics,
		validator: validation.NewFileValidator(logger),
	}
}

// LoadDirectory reads every *.csv file in dir, keyed by table name
// ("olist_orders_dataset.csv" -> "olist_orders"). A missing directory or a
// malformed file fails the whole load.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) (Tables, error) {
	start := time.Now()
	defer l.metrics.ObserveStage("load", start)

	if err := l.validator.ValidateInputDirectory(dir, "*.csv"); err != nil {
		return nil, err
	}

	csvFiles, err := files.NewDiscovery("").FindCSVFiles(dir)
	if err != nil {
		return nil, errors.NewStorageError("failed to list input directory", err).WithContext("directory", dir)
	}

	tables := make(Tables, len(csvFiles))
	for _, f := range csvFiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		table, err := l.LoadFile(f.Path, f.TableName())
		if err != nil {
			return nil, err
		}
		tables[table.Name] = table

		l.logger.InfoContext(ctx, "Loaded table",
			slog.String("file", f.Name),
			slog.String("table", table.Name),
			slog.Int("rows", table.Len()),
			slog.Int("columns", len(table.Columns)))
		if l.metrics != nil {
			l.metrics.TableRows.WithLabelValues(table.Name).Set(float64(table.Len()))
		}
	}

	l.logger.InfoContext(ctx, "Input directory loaded",
		slog.String("directory", dir),
		slog.Int("tables", len(tables)),
		slog.Duration("duration", time.Since(start)))

	return tables, nil
}

// LoadFile reads one CSV file as a table of strings. Type detection is off so
// identifiers like zip code prefixes keep their leading zeros. A file holding
// only its header row loads as an empty table.
func (l *Loader) LoadFile(path, name string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open CSV file", err).WithContext("file", path)
	}
	defer file.Close()

	df := dataframe.ReadCSV(file,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		// gota refuses frames without data rows
		header, ok := headerOnly(file)
		if !ok {
			return nil, errors.NewParsingError(fmt.Sprintf("failed to parse %s", name), df.Err).WithContext("file", path)
		}
		l.logger.Warn("Table has no data rows",
			slog.String("table", name),
			slog.String("file", path))
		return NewTable(name, header, nil), nil
	}

	records := df.Records()
	rows := make([][]string, 0, len(records))
	if len(records) > 1 {
		for _, r := range records[1:] {
			for i, v := range r {
				if v == nanMarker {
					r[i] = ""
				}
			}
			rows = append(rows, r)
		}
	}

	return NewTable(name, df.Names(), rows), nil
}

// headerOnly rereads f and returns its header when the header is the only record
func headerOnly(f *os.File) ([]string, bool) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, false
	}
	records, err := csv.NewReader(f).ReadAll()
	if err != nil || len(records) != 1 {
		return nil, false
	}
	return records[0], true
}
