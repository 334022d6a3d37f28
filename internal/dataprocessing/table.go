package dataprocessing

import (
	"fmt"
	"sort"

	"olistcli/internal/errors"
)

// Table is a named, column-ordered string table. Empty cells are absent values.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string

	index map[string]int
}

// Tables maps table names to loaded tables
type Tables map[string]*Table

// NewTable creates a table. Rows are used as given, not copied.
func NewTable(name string, columns []string, rows [][]string) *Table {
	t := &Table{
		Name:    name,
		Columns: columns,
		Rows:    rows,
	}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of column name
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// HasColumn reports whether the table has column name
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// MustColumn returns the column position or a validation error naming the
// table and column
func (t *Table) MustColumn(name string) (int, error) {
	i, ok := t.index[name]
	if !ok {
		return 0, errors.NewValidationError(fmt.Sprintf("column %q not found in table %s", name, t.Name)).
			WithContext("table", t.Name).
			WithContext("column", name)
	}
	return i, nil
}

// Value returns the cell of row at column name, or "" when the column is missing
func (t *Table) Value(row int, name string) string {
	i, ok := t.index[name]
	if !ok || i >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][i]
}

// Filter returns a new table holding the rows for which keep is true, in order
func (t *Table) Filter(keep func(row []string) bool) *Table {
	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return NewTable(t.Name, t.Columns, rows)
}

// DropColumn returns a copy of the table without column name
func (t *Table) DropColumn(name string) *Table {
	drop, ok := t.index[name]
	if !ok {
		return t
	}

	columns := make([]string, 0, len(t.Columns)-1)
	columns = append(columns, t.Columns[:drop]...)
	columns = append(columns, t.Columns[drop+1:]...)

	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		row := make([]string, 0, len(columns))
		row = append(row, r[:drop]...)
		row = append(row, r[drop+1:]...)
		rows[i] = row
	}
	return NewTable(t.Name, columns, rows)
}

// Names returns the table names in sorted order
func (ts Tables) Names() []string {
	names := make([]string, 0, len(ts))
	for name := range ts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Require checks that every named table was loaded. The first missing one is
// reported as a validation error.
func (ts Tables) Require(names ...string) error {
	for _, name := range names {
		if _, ok := ts[name]; !ok {
			return errors.NewValidationError(fmt.Sprintf("required table %s is missing", name)).
				WithContext("table", name)
		}
	}
	return nil
}
