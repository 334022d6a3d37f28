package exporter

import (
	"strconv"
)

// cellValue converts a summary cell to the value stored in a worksheet.
// Numeric strings become numbers so spreadsheet formulas work on them.
func cellValue(v interface{}) interface{} {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
