package table

// minColumnWidth is the narrowest a column gets: one character plus "…".
const minColumnWidth = 2

// calculateColumnWidths splits totalWidth across cols.
//
// Fixed columns (Width > 0) get their width first. What is left after one
// separator between each pair of columns is shared evenly between flex
// columns, earlier columns taking the remainder, then clamped to
// MinWidth/MaxWidth. No column ends up narrower than minColumnWidth.
func calculateColumnWidths(cols []ColumnConfig, totalWidth int) []int {
	widths := make([]int, len(cols))
	if len(cols) == 0 {
		return widths
	}

	remaining := totalWidth - (len(cols) - 1)
	var flex []int
	for i, col := range cols {
		if col.Width > 0 {
			widths[i] = col.Width
			remaining -= col.Width
			continue
		}
		flex = append(flex, i)
	}

	if len(flex) > 0 && remaining > 0 {
		share, extra := remaining/len(flex), remaining%len(flex)
		for j, i := range flex {
			w := share
			if j < extra {
				w++
			}
			w = max(w, cols[i].MinWidth)
			if cols[i].MaxWidth > 0 {
				w = min(w, cols[i].MaxWidth)
			}
			widths[i] = w
		}
	}

	for i := range widths {
		widths[i] = max(widths[i], minColumnWidth)
	}
	return widths
}

// filterVisibleColumns drops columns whose HideBelow exceeds totalWidth.
func filterVisibleColumns(cols []ColumnConfig, totalWidth int) []ColumnConfig {
	visible := make([]ColumnConfig, 0, len(cols))
	for _, col := range cols {
		if col.HideBelow > 0 && totalWidth < col.HideBelow {
			continue
		}
		visible = append(visible, col)
	}
	return visible
}
