package analyze

import (
	"sort"

	"github.com/roach88/squadcast-analyze/internal/table"
	"github.com/roach88/squadcast-analyze/internal/value"
)

// CountColumn is the header of the count column in rendered results.
const CountColumn = "count"

// Group is one distinct value of the grouped column and how many rows hold it.
type Group struct {
	Key   value.Value `json:"key"`
	Count int         `json:"count"`
}

// Result is an ordered Top-N breakdown.
type Result struct {
	// Column is the resolved table column the rows were grouped by.
	Column string  `json:"column"`
	Groups []Group `json:"groups"`

	// Total is the number of rows counted, before truncation.
	Total int `json:"total"`
}

// Sum returns the sum of the group counts in r.
func (r Result) Sum() int {
	sum := 0
	for _, g := range r.Groups {
		sum += g.Count
	}
	return sum
}

// TopCounts groups t's rows by column and returns the n largest groups.
// Missing and null cells form a single group. Ties keep first-seen order.
// n <= 0 or a nil table yields an empty result.
func TopCounts(t *table.Table, column string, n int) Result {
	res := Result{Column: column, Groups: []Group{}, Total: t.Len()}
	if n <= 0 || t == nil {
		return res
	}

	index := make(map[string]int)
	var groups []Group
	for _, row := range t.Rows {
		cell := row.Get(column)
		k := value.Key(cell)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: cell})
		}
		groups[i].Count++
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Count > groups[b].Count
	})

	if len(groups) > n {
		groups = groups[:n]
	}
	res.Groups = append(res.Groups, groups...)
	return res
}

// Analyze resolves field against t's columns and returns the top n groups.
func Analyze(t *table.Table, field string, n int) (Result, error) {
	if t.Len() == 0 {
		return Result{}, ErrEmptyInput
	}
	column, err := ResolveColumn(t.Columns, field)
	if err != nil {
		return Result{}, err
	}
	return TopCounts(t, column, n), nil
}
