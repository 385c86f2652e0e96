package spreadsheet_service

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/init-pkg/sheet-relay/domain/rows"
	"github.com/xuri/excelize/v2"
)

func openWorkbook(content []byte) (*excelize.File, error) {
	return excelize.OpenReader(bytes.NewReader(content))
}

func pickSheet(f *excelize.File, requested string) (string, []string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", nil, fmt.Errorf("workbook has no sheets")
	}
	if requested == "" {
		return sheets[0], sheets, nil
	}
	for _, s := range sheets {
		if s == requested {
			return s, sheets, nil
		}
	}
	return "", sheets, errSheetNotFound
}

// readGrid returns the typed cells of a sheet. Values are trimmed and merged
// ranges carry the top-left value in every cell they cover.
func readGrid(f *excelize.File, sheet string) ([][]rows.Cell, error) {
	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	grid := make([][]rows.Cell, len(raw))
	for r, line := range raw {
		grid[r] = make([]rows.Cell, len(line))
		for c, text := range line {
			cell, err := typedCell(f, sheet, r, c, text)
			if err != nil {
				return nil, err
			}
			grid[r][c] = cell
		}
	}

	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return nil, err
	}
	for _, merge := range merges {
		startCol, startRow, err := excelize.CellNameToCoordinates(merge.GetStartAxis())
		if err != nil {
			continue
		}
		endCol, endRow, err := excelize.CellNameToCoordinates(merge.GetEndAxis())
		if err != nil {
			continue
		}
		startCol--
		startRow--
		endCol--
		endRow--

		if startRow >= len(grid) || startCol >= len(grid[startRow]) {
			continue
		}
		val := grid[startRow][startCol]
		if val == nil {
			continue
		}
		for r := startRow; r <= endRow && r < len(grid); r++ {
			for c := startCol; c <= endCol; c++ {
				for c >= len(grid[r]) {
					grid[r] = append(grid[r], nil)
				}
				grid[r][c] = val
			}
		}
	}

	for r := range grid {
		grid[r] = trimTrailing(grid[r])
	}
	return grid, nil
}

// typedCell maps the rendered text of a cell onto a Go value using the OOXML
// cell type. Cells without an explicit type are numeric by definition.
func typedCell(f *excelize.File, sheet string, r, c int, text string) (rows.Cell, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	axis, err := excelize.CoordinatesToCellName(c+1, r+1)
	if err != nil {
		return nil, err
	}
	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return nil, err
	}

	switch typ {
	case excelize.CellTypeBool:
		return strings.EqualFold(text, "TRUE") || text == "1", nil
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		// formatted numbers such as dates or percentages stay as rendered
		if n, err := strconv.ParseFloat(text, 64); err == nil {
			return n, nil
		}
		return text, nil
	default:
		return text, nil
	}
}

func trimTrailing(row []rows.Cell) []rows.Cell {
	end := len(row)
	for end > 0 && row[end-1] == nil {
		end--
	}
	return row[:end]
}
