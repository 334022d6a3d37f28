// Package exporter writes pipeline output files.
//
// CSVWriter: writes the processed order dataset, truncating any previous
// file so reruns on unchanged input produce byte-identical output. No BOM is
// written.
//
// WorkbookWriter: writes the analyzer's report summaries to an .xlsx file
// with one worksheet per report (excelize).
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(logger)
//	err := writer.WriteTable(paths.ProcessedCSV, table.Columns, table.Rows)
//
//	wb := exporter.NewWorkbookWriter(logger)
//	err = wb.Write(paths.SummaryXLSX, sheets)
package exporter
