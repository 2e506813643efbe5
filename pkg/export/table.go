package export

import (
	"fmt"
	"io"
	"strings"
)

const (
	defaultMaxRows = 50
	defaultMaxCols = 10
	cellWidth      = 15
)

// RenderTable writes a fixed-width preview of rows to w. The first row is the
// header; output is truncated to maxRows data rows and maxCols columns.
func RenderTable(w io.Writer, rows [][]string, maxRows, maxCols int) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No data to display.")
		return
	}
	if maxRows <= 0 {
		maxRows = defaultMaxRows
	}
	if maxCols <= 0 {
		maxCols = defaultMaxCols
	}

	fmt.Fprintf(w, "\nDisplaying data (%d rows, %d columns):\n", len(rows), len(rows[0]))
	fmt.Fprintln(w, strings.Repeat("-", 80))

	headers := truncateRow(rows[0], maxCols)
	fmt.Fprintln(w, joinCells(headers))
	fmt.Fprintln(w, strings.Repeat("-", 80))

	dataRows := rows[1:]
	shown := dataRows
	if len(shown) > maxRows {
		shown = shown[:maxRows]
	}

	for _, row := range shown {
		cells := truncateRow(row, maxCols)
		for len(cells) < len(headers) {
			cells = append(cells, "")
		}
		fmt.Fprintln(w, joinCells(cells))
	}

	if len(dataRows) > maxRows {
		fmt.Fprintf(w, "... and %d more rows\n", len(dataRows)-maxRows)
	}
}

func truncateRow(row []string, maxCols int) []string {
	if len(row) > maxCols {
		row = row[:maxCols]
	}
	return row
}

func joinCells(cells []string) string {
	formatted := make([]string, len(cells))
	for i, cell := range cells {
		if len(cell) > cellWidth {
			cell = cell[:cellWidth]
		}
		formatted[i] = fmt.Sprintf("%-*s", cellWidth, cell)
	}
	return strings.Join(formatted, " | ")
}
