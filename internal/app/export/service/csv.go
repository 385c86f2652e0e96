package export_service

import (
	"encoding/csv"
	"io"

	"github.com/init-pkg/sheet-relay/domain/rows"
)

func writeCSV(w io.Writer, header []string, data []rows.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, 0, len(header))
	for _, r := range data {
		record = record[:0]
		for _, c := range r {
			record = append(record, rows.String(c))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
