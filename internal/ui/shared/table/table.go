// Package table renders fixed-layout text tables for terminal output.
package table

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// ColumnConfig describes one column.
type ColumnConfig struct {
	Key      string // looks up the cell in Row.Cells
	Header   string
	Width    int // fixed width; 0 means flex
	MinWidth int // flex columns only
	MaxWidth int // flex columns only; 0 means no cap

	// HideBelow hides the column when the table is narrower than this.
	HideBelow int

	AlignRight bool
}

// Row is one table line. Cells may already carry ANSI styling; Style is
// applied to the whole line on top.
type Row struct {
	Cells map[string]string
	Style lipgloss.Style
}

// Table is a set of columns and rows rendered at a given width.
type Table struct {
	Columns     []ColumnConfig
	Rows        []Row
	HeaderStyle lipgloss.Style
	// Separator goes between columns. It must be one cell wide.
	Separator string
}

// New returns a table with a bold underlined header and a single-space separator.
func New(cols ...ColumnConfig) *Table {
	return &Table{
		Columns:     cols,
		HeaderStyle: lipgloss.NewStyle().Bold(true).Underline(true),
		Separator:   " ",
	}
}

// AddRow appends a row built from key/value pairs.
func (t *Table) AddRow(style lipgloss.Style, kv ...string) {
	cells := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		cells[kv[i]] = kv[i+1]
	}
	t.Rows = append(t.Rows, Row{Cells: cells, Style: style})
}

// Render lays the table out in totalWidth cells. Lines never exceed
// totalWidth unless every column is already at its minimum.
func (t *Table) Render(totalWidth int) string {
	cols := filterVisibleColumns(t.Columns, totalWidth)
	if len(cols) == 0 {
		return ""
	}
	widths := calculateColumnWidths(cols, totalWidth)

	lines := make([]string, 0, len(t.Rows)+1)

	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = t.HeaderStyle.Render(fit(col.Header, widths[i], col.AlignRight))
	}
	lines = append(lines, strings.Join(header, t.Separator))

	for _, row := range t.Rows {
		cells := make([]string, len(cols))
		for i, col := range cols {
			cells[i] = fit(row.Cells[col.Key], widths[i], col.AlignRight)
		}
		lines = append(lines, row.Style.Render(strings.Join(cells, t.Separator)))
	}

	return strings.Join(lines, "\n")
}

// fit truncates s with an ellipsis or pads it to exactly width cells.
// ANSI sequences in s do not count toward the width.
func fit(s string, width int, alignRight bool) string {
	if ansi.StringWidth(s) > width {
		s = ansi.Truncate(s, width, "…")
	}
	pad := width - ansi.StringWidth(s)
	if pad <= 0 {
		return s
	}
	if alignRight {
		return strings.Repeat(" ", pad) + s
	}
	return s + strings.Repeat(" ", pad)
}
