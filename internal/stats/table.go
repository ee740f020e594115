package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// column describes one column of a plain-text table.
type column struct {
	title string
	right bool
	// max caps the display width; longer cells are truncated with "…". Zero
	// means no cap.
	max int
}

// formatTable lays out rows under the column titles, padding every cell to
// the widest cell of its column. Widths are measured in terminal cells.
func formatTable(cols []column, rows [][]string) []string {
	widths := make([]int, len(cols))
	cells := make([][]string, len(rows))
	for i, c := range cols {
		widths[i] = runewidth.StringWidth(c.title)
	}
	for r, row := range rows {
		cells[r] = make([]string, len(cols))
		for i, c := range cols {
			if i >= len(row) {
				continue
			}
			cell := row[i]
			if c.max > 0 && runewidth.StringWidth(cell) > c.max {
				cell = runewidth.Truncate(cell, c.max, "…")
			}
			cells[r][i] = cell
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	lines := make([]string, 0, len(rows)+1)
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}
	lines = append(lines, joinCells(cols, titles, widths))
	for _, row := range cells {
		lines = append(lines, joinCells(cols, row, widths))
	}
	return lines
}

func joinCells(cols []column, row []string, widths []int) string {
	var b strings.Builder
	for i, c := range cols {
		if i > 0 {
			b.WriteByte(' ')
		}
		pad := strings.Repeat(" ", max(0, widths[i]-runewidth.StringWidth(row[i])))
		if c.right {
			b.WriteString(pad + row[i])
		} else {
			b.WriteString(row[i] + pad)
		}
	}
	return b.String()
}
