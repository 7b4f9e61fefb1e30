// Package table flattens nested JSON records into rows keyed by dotted
// column paths.
package table

import (
	"strings"

	"github.com/roach88/squadcast-analyze/internal/value"
)

// Separator joins nested keys into a column name.
const Separator = "."

// ScalarColumn holds the value of a record that is not an object.
const ScalarColumn = "value"

// Row maps column name to a leaf value. Columns absent from the map are null.
type Row map[string]value.Value

// Get returns the cell for column, or value.Null{} when the row lacks it.
func (r Row) Get(column string) value.Value {
	if v, ok := r[column]; ok {
		return v
	}
	return value.Null{}
}

// Table is an ordered set of rows over the union of their columns.
// Columns are in first-seen order across rows.
type Table struct {
	Columns []string
	Rows    []Row
}

// Len returns the row count.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Flatten builds a table with one row per record. Nested objects become
// dotted columns; arrays and empty objects stay whole in a single cell.
func Flatten(records []value.Value) *Table {
	t := &Table{}
	if len(records) == 0 {
		return t
	}

	seen := make(map[string]struct{})
	t.Rows = make([]Row, 0, len(records))
	for _, rec := range records {
		row := make(Row)
		var order []string

		if obj, ok := rec.(*value.Object); ok {
			flattenObject(obj, nil, row, &order)
		} else {
			row[ScalarColumn] = rec
			order = append(order, ScalarColumn)
		}

		for _, col := range order {
			if _, dup := seen[col]; dup {
				continue
			}
			seen[col] = struct{}{}
			t.Columns = append(t.Columns, col)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func flattenObject(obj *value.Object, prefix []string, row Row, order *[]string) {
	for _, key := range obj.Keys() {
		v, _ := obj.Get(key)
		path := append(prefix[:len(prefix):len(prefix)], key)

		if nested, ok := v.(*value.Object); ok && nested.Len() > 0 {
			flattenObject(nested, path, row, order)
			continue
		}

		col := strings.Join(path, Separator)
		if _, exists := row[col]; !exists {
			*order = append(*order, col)
		}
		if v == nil {
			v = value.Null{}
		}
		row[col] = v
	}
}
