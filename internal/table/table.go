// Package table renders left-aligned text tables.
package table

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Table is a header row plus data rows of equal length.
type Table struct {
	headers []string
	rows    [][]string
}

// New creates a table with the given column headers.
func New(headers ...string) *Table {
	return &Table{headers: append([]string(nil), headers...)}
}

// AddRow appends a row. A row whose length differs from the header count is
// a programming error and panics.
func (t *Table) AddRow(cells ...string) {
	if len(cells) != len(t.headers) {
		panic(fmt.Sprintf("table: row has %d cells, want %d", len(cells), len(t.headers)))
	}
	t.rows = append(t.rows, append([]string(nil), cells...))
}

// Render writes the headers and rows, one per line. Each column is padded to
// its widest cell and columns are separated by a single space.
func (t *Table) Render(w io.Writer) error {
	widths := t.columnWidths()
	if err := writeLine(w, t.headers, widths); err != nil {
		return err
	}
	for _, row := range t.rows {
		if err := writeLine(w, row, widths); err != nil {
			return err
		}
	}
	return nil
}

// String renders the table to a string.
func (t *Table) String() string {
	var sb strings.Builder
	_ = t.Render(&sb)
	return sb.String()
}

func (t *Table) columnWidths() []int {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}
	return widths
}

func writeLine(w io.Writer, cells []string, widths []int) error {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		padded[i] = cell + strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell))
	}
	_, err := fmt.Fprintln(w, strings.Join(padded, " "))
	return err
}
