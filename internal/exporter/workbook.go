package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"olistcli/internal/errors"
	"olistcli/internal/infrastructure"
)

// maxSheetName is the Excel limit on worksheet name length
const maxSheetName = 31

// Sheet is one worksheet of the summary workbook. Title goes in A1, the
// header row in row 3 and data below it.
type Sheet struct {
	Name    string
	Title   string
	Headers []string
	Rows    [][]interface{}
}

// WorkbookWriter writes report summaries to an .xlsx file
type WorkbookWriter struct {
	logger *slog.Logger
}

// NewWorkbookWriter creates a workbook writer
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &WorkbookWriter{logger: infrastructure.WithComponent(logger, "workbook_writer")}
}

// Write replaces filePath with a workbook holding one worksheet per sheet, in order
func (w *WorkbookWriter) Write(filePath string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return errors.NewValidationError("workbook needs at least one sheet")
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.NewStorageError("failed to create header style", err)
	}
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return errors.NewStorageError("failed to create title style", err)
	}

	defaultSheet := f.GetSheetName(0)
	for i, s := range sheets {
		name := sheetName(s.Name, i)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return errors.NewStorageError("failed to rename sheet", err).WithContext("sheet", name)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return errors.NewStorageError("failed to create sheet", err).WithContext("sheet", name)
		}

		if err := writeSheet(f, name, s, bold, titleStyle); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return errors.NewStorageError("failed to create output directory", err).WithContext("file", filePath)
	}
	if err := f.SaveAs(filePath); err != nil {
		return errors.NewStorageError("failed to save workbook", err).WithContext("file", filePath)
	}

	w.logger.Info("Summary workbook written",
		slog.String("file_path", filePath),
		slog.Int("sheets", len(sheets)))
	return nil
}

func writeSheet(f *excelize.File, name string, s Sheet, headerStyle, titleStyle int) error {
	if s.Title != "" {
		if err := f.SetCellValue(name, "A1", s.Title); err != nil {
			return errors.NewStorageError("failed to write title", err).WithContext("sheet", name)
		}
		if err := f.SetCellStyle(name, "A1", "A1", titleStyle); err != nil {
			return errors.NewStorageError("failed to style title", err).WithContext("sheet", name)
		}
	}

	row := 3
	if len(s.Headers) > 0 {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		headers := make([]interface{}, len(s.Headers))
		for i, h := range s.Headers {
			headers[i] = h
		}
		if err := f.SetSheetRow(name, cell, &headers); err != nil {
			return errors.NewStorageError("failed to write headers", err).WithContext("sheet", name)
		}
		last, _ := excelize.CoordinatesToCellName(len(s.Headers), row)
		if err := f.SetCellStyle(name, cell, last, headerStyle); err != nil {
			return errors.NewStorageError("failed to style headers", err).WithContext("sheet", name)
		}
		row++
	}

	for _, r := range s.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := make([]interface{}, len(r))
		for i, v := range r {
			values[i] = cellValue(v)
		}
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return errors.NewStorageError(fmt.Sprintf("failed to write row %d", row), err).WithContext("sheet", name)
		}
		row++
	}
	return nil
}

// sheetName returns a valid, non-empty worksheet name
func sheetName(name string, i int) string {
	if name == "" {
		name = fmt.Sprintf("Sheet%d", i+1)
	}
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}
