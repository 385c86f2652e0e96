package spreadsheet_service

import (
	"github.com/init-pkg/sheet-relay/domain/rows"
)

func nonEmptyInRow(row []rows.Cell) (cnt int) {
	for _, c := range row {
		if c != nil {
			cnt++
		}
	}
	return
}

// splitTable takes the first non-empty row as the header and the rows after it
// as data. Blank rows between data rows are kept as empty rows so indices match
// the sheet; blank rows after the last data row are dropped.
func splitTable(grid [][]rows.Cell) (header []string, data []rows.Row) {
	start, end := -1, -1
	for i, row := range grid {
		if nonEmptyInRow(row) > 0 {
			if start == -1 {
				start = i
			}
			end = i
		}
	}
	if start == -1 {
		return []string{}, []rows.Row{}
	}

	header = make([]string, len(grid[start]))
	for c, cell := range grid[start] {
		header[c] = rows.String(cell)
	}

	data = make([]rows.Row, 0, end-start)
	for _, row := range grid[start+1 : end+1] {
		if nonEmptyInRow(row) == 0 {
			data = append(data, rows.Row{})
			continue
		}
		data = append(data, rows.Row(row))
	}
	return header, data
}
