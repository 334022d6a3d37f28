// Package app wires the pipeline components into the two batch jobs.
//
// RunETL loads the input directory, transforms it and writes the processed
// CSV. RunAnalysis reads that CSV and produces the report charts, summaries
// and workbook. The jobs share nothing but the processed file, and each
// writes its own metrics textfile when metrics are enabled.
//
// Both print operator-facing progress to the writer they are given; logs go
// through slog.
package app
