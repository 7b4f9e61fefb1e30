// Package render writes analysis results as a GitHub-flavored markdown
// table for the console, or as CSV.
package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/width"

	"github.com/roach88/squadcast-analyze/internal/analyze"
	"github.com/roach88/squadcast-analyze/internal/files"
	"github.com/roach88/squadcast-analyze/internal/value"
)

// NullText is how a null group key reads in the console table.
// CSV output leaves the cell empty instead.
const NullText = "null"

// Markdown writes rows as a GitHub markdown table. Columns whose cells
// are all numeric are right-aligned; the rest are left-aligned.
func Markdown(w io.Writer, headers []string, rows [][]string) error {
	heads := make([]string, len(headers))
	widths := make([]int, len(headers))
	numeric := make([]bool, len(headers))
	for i, h := range headers {
		heads[i] = escapeCell(h)
		widths[i] = DisplayWidth(heads[i])
		numeric[i] = len(rows) > 0
	}
	for _, row := range rows {
		for i := range headers {
			cell := cellAt(row, i)
			if dw := DisplayWidth(cell); dw > widths[i] {
				widths[i] = dw
			}
			if !isNumber(cell) {
				numeric[i] = false
			}
		}
	}

	var b strings.Builder
	writeLine := func(cells func(i int) string) {
		b.WriteByte('|')
		for i := range headers {
			cell := cells(i)
			pad := strings.Repeat(" ", widths[i]-DisplayWidth(cell))
			b.WriteByte(' ')
			if numeric[i] {
				b.WriteString(pad + cell)
			} else {
				b.WriteString(cell + pad)
			}
			b.WriteString(" |")
		}
		b.WriteByte('\n')
	}

	writeLine(func(i int) string { return heads[i] })
	b.WriteByte('|')
	for i := range headers {
		b.WriteString(strings.Repeat("-", widths[i]+2))
		b.WriteByte('|')
	}
	b.WriteByte('\n')
	for _, row := range rows {
		writeLine(func(i int) string { return cellAt(row, i) })
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// DisplayWidth returns the number of terminal columns s occupies.
// East Asian wide and fullwidth runes take two.
func DisplayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

var cellEscaper = strings.NewReplacer("\r\n", " ", "\n", " ", "|", `\|`)

// escapeCell keeps s on one line and inside its table column.
func escapeCell(s string) string {
	return cellEscaper.Replace(s)
}

func cellAt(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return escapeCell(row[i])
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// Headers returns the column headers for res: the group column, then count.
func Headers(res analyze.Result) []string {
	return []string{res.Column, analyze.CountColumn}
}

// Rows returns res as text cells. nullText stands in for a null key.
func Rows(res analyze.Result, nullText string) [][]string {
	rows := make([][]string, len(res.Groups))
	for i, g := range res.Groups {
		key := value.Text(g.Key)
		if value.IsNull(g.Key) {
			key = nullText
		}
		rows[i] = []string{key, strconv.Itoa(g.Count)}
	}
	return rows
}

// Table writes res as a markdown table.
func Table(w io.Writer, res analyze.Result) error {
	return Markdown(w, Headers(res), Rows(res, NullText))
}

// CSV writes res as comma-separated values with a header row.
func CSV(w io.Writer, res analyze.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers(res)); err != nil {
		return err
	}
	if err := cw.WriteAll(Rows(res, "")); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// CSVFile writes res to path as CSV, creating parent directories.
func CSVFile(path string, res analyze.Result) error {
	var b strings.Builder
	if err := CSV(&b, res); err != nil {
		return err
	}
	return files.SaveBytes(path, []byte(b.String()))
}
