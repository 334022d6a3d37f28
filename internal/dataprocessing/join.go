package dataprocessing

import (
	"olistcli/pkg/contracts/domain"
)

// Suffixes appended to non-key columns present on both sides of a join
const (
	LeftSuffix  = "_x"
	RightSuffix = "_y"
)

// LeftJoin joins right onto left where left[on] == right[on].
//
// Every left row is kept, in order. For each left row, every matching right
// row is emitted in right-table order, so one-to-many relationships fan out
// and are never deduplicated. A left row without a match is emitted once with
// empty right-hand cells. The key column appears once, taken from left. Other
// columns present on both sides get LeftSuffix and RightSuffix. Empty keys
// never match.
func LeftJoin(left, right *Table, on string) (*Table, error) {
	leftKey, err := left.MustColumn(on)
	if err != nil {
		return nil, err
	}
	rightKey, err := right.MustColumn(on)
	if err != nil {
		return nil, err
	}

	// Right columns carried into the output, in order, without the key
	rightCols := make([]int, 0, len(right.Columns)-1)
	for i := range right.Columns {
		if i != rightKey {
			rightCols = append(rightCols, i)
		}
	}

	columns := make([]string, 0, len(left.Columns)+len(rightCols))
	for i, c := range left.Columns {
		if i != leftKey && right.HasColumn(c) {
			c += LeftSuffix
		}
		columns = append(columns, c)
	}
	for _, i := range rightCols {
		c := right.Columns[i]
		if left.HasColumn(c) {
			c += RightSuffix
		}
		columns = append(columns, c)
	}

	matches := make(map[string][]int, right.Len())
	for i, r := range right.Rows {
		k := r[rightKey]
		if k == "" {
			continue
		}
		matches[k] = append(matches[k], i)
	}

	rows := make([][]string, 0, left.Len())
	for _, l := range left.Rows {
		hits := matches[l[leftKey]]
		if len(hits) == 0 || l[leftKey] == "" {
			row := make([]string, len(columns))
			copy(row, l)
			rows = append(rows, row)
			continue
		}
		for _, h := range hits {
			row := make([]string, 0, len(columns))
			row = append(row, l...)
			for _, i := range rightCols {
				row = append(row, right.Rows[h][i])
			}
			rows = append(rows, row)
		}
	}

	return NewTable(left.Name, columns, rows), nil
}

// TranslateCategories replaces each product's category name with its English
// translation when one exists. Products without a translation keep their
// original name. The translation column is not carried into the result.
func TranslateCategories(products, translation *Table) (*Table, error) {
	joined, err := LeftJoin(products, translation, domain.ColCategoryName)
	if err != nil {
		return nil, err
	}

	english, err := joined.MustColumn(domain.ColCategoryNameEnglish)
	if err != nil {
		return nil, err
	}
	category, _ := joined.ColumnIndex(domain.ColCategoryName)

	for _, r := range joined.Rows {
		if r[english] != "" {
			r[category] = r[english]
		}
	}

	return joined.DropColumn(domain.ColCategoryNameEnglish), nil
}
