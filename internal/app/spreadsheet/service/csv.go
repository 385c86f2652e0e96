package spreadsheet_service

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/init-pkg/sheet-relay/domain/rows"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// sniffDelimiter picks the most frequent of , ; and tab on the first line.
func sniffDelimiter(content []byte) rune {
	line := content
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		line = content[:i]
	}

	best, bestCount := ',', 0
	for _, d := range []rune{',', ';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func readCSVGrid(content []byte) ([][]rows.Cell, error) {
	content = bytes.TrimPrefix(content, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = sniffDelimiter(content)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	grid := make([][]rows.Cell, len(records))
	headerSeen := false
	for r, record := range records {
		line := make([]rows.Cell, len(record))
		// the header row keeps its text as written
		header := !headerSeen && !blankRecord(record)
		for c, text := range record {
			if header {
				line[c] = textCell(text)
			} else {
				line[c] = inferCell(text)
			}
		}
		headerSeen = headerSeen || header
		grid[r] = trimTrailing(line)
	}
	return grid, nil
}

func blankRecord(record []string) bool {
	for _, text := range record {
		if strings.TrimSpace(text) != "" {
			return false
		}
	}
	return true
}

func textCell(text string) rows.Cell {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return text
}

// inferCell types a CSV field: empty -> nil, numeric -> float64, TRUE/FALSE -> bool.
// A value is only typed when rendering it back gives the same text, so codes
// such as 007 or 1.50 stay strings.
func inferCell(text string) rows.Cell {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if looksNumeric(text) {
		if n, err := strconv.ParseFloat(text, 64); err == nil && rows.String(n) == text {
			return n
		}
	}
	switch text {
	case "TRUE":
		return true
	case "FALSE":
		return false
	}
	return text
}

// looksNumeric rejects the spellings ParseFloat accepts beyond plain decimals
// (Inf, NaN, hex floats, underscores).
func looksNumeric(text string) bool {
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' || r == '-' || r == '+' || r == 'e' || r == 'E':
		default:
			return false
		}
	}
	return true
}
